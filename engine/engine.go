// Package engine exposes the core's one logical operation, Analyze, plus
// the three maintenance operations Refresh, GetSymbols and
// GetDiagnosticsSnapshot, as plain methods on a single Engine type. No RPC
// framing, no HTTP handler, no CLI flag parsing lives here; those are
// adapters layered on top (cmd/snipe).
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/snipeproj/snipe/engine/check"
	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
	"github.com/snipeproj/snipe/internal/lang/c"
	"github.com/snipeproj/snipe/internal/lang/provider"
	"github.com/snipeproj/snipe/internal/lang/python"
	"github.com/snipeproj/snipe/internal/xlog"
)

// rules is the fixed checker catalog. Order is irrelevant to the result
// (diagnostics are deduplicated after every rule has run) but is kept
// stable here so a fresh read of this file lists the full catalog in one
// place.
var rules = []check.Func{
	check.CheckTypeMismatch,
	check.CheckArrayBounds,
	check.CheckSignatureDrift,
	check.CheckUndefinedSymbol,
	check.CheckShadowedSymbol,
	check.CheckFormatString,
	check.CheckUnusedExtern,
	check.CheckDeadImport,
	check.CheckUnsafeFunction,
	check.CheckArgTypeMismatch,
	check.CheckStructAccess,
}

// stateDirName is the workspace-local state directory.
const stateDirName = ".snipe"

// workspace is the per-root cached state the Engine threads through every
// request: the last-built index, and the most recently reported
// diagnostics across open buffers (an input to downstream visualizers,
// never to the analyze loop itself).
type workspace struct {
	mu          sync.RWMutex
	idx         *index.Index
	diagnostics []model.Diagnostic
}

// Engine is the core's single public entrypoint. It owns one Registry of
// language providers and a per-workspace-root cache, coordinated so
// concurrent rebuilds for the same root collapse into one scan.
type Engine struct {
	registry    *provider.Registry
	coordinator *index.Coordinator
	scanCfg     index.ScanConfig

	mu         sync.Mutex
	workspaces map[string]*workspace
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithScanConfig overrides the default workspace-scan configuration (max
// file size, include/exclude globs, gitignore toggle, worker count).
func WithScanConfig(cfg index.ScanConfig) Option {
	return func(e *Engine) { e.scanCfg = cfg }
}

// New builds an Engine wired with the python and C language providers.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry:    provider.NewRegistry(python.New(), c.New()),
		coordinator: index.NewCoordinator(),
		workspaces:  make(map[string]*workspace),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func normalizeRoot(root string) (string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", ErrInvalidWorkspaceRoot
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", ErrInvalidWorkspaceRoot
	}
	return abs, nil
}

func (e *Engine) workspaceFor(root string) *workspace {
	e.mu.Lock()
	defer e.mu.Unlock()
	ws, ok := e.workspaces[root]
	if !ok {
		ws = &workspace{}
		e.workspaces[root] = ws
	}
	return ws
}

// Refresh rebuilds the repository index for workspaceRoot from scratch and
// installs it atomically, replacing whatever was cached before. Concurrent
// Refresh/Analyze-triggered rebuilds for the same root are single-flighted:
// only one scan actually runs at a time per root.
func (e *Engine) Refresh(ctx context.Context, workspaceRoot string) error {
	root, err := normalizeRoot(workspaceRoot)
	if err != nil {
		return err
	}
	ws := e.workspaceFor(root)

	idx, err := e.coordinator.Do(root, func() (*index.Index, error) {
		symbols, err := index.Scan(ctx, root, e.scanCfg, e.registry)
		if err != nil {
			xlog.Printf("scanning workspace %s: %v", root, err)
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		built := index.Build(root, symbols)
		if store := e.storeFor(root); store != nil {
			if err := store.Save(symbols); err != nil {
				xlog.Printf("persisting repository symbols for %s: %v", root, err)
			}
		}
		return built, nil
	})
	if err != nil {
		return err
	}

	ws.mu.Lock()
	ws.idx = idx
	ws.mu.Unlock()
	return nil
}

// ensureIndex returns the cached index for root, building it via Refresh on
// first contact with a new workspace.
func (e *Engine) ensureIndex(ctx context.Context, root string) (*index.Index, error) {
	ws := e.workspaceFor(root)
	ws.mu.RLock()
	idx := ws.idx
	ws.mu.RUnlock()
	if idx != nil && idx.Root() == root {
		return idx, nil
	}
	if err := e.Refresh(ctx, root); err != nil {
		return nil, err
	}
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.idx, nil
}

func (e *Engine) storeFor(root string) *index.Store {
	return index.NewStore(filepath.Join(root, stateDirName, "repo_symbols.json"))
}

func (e *Engine) diagnosticsStoreFor(root string) string {
	return filepath.Join(root, stateDirName, "diagnostics.json")
}

// Analyze runs the full checker pipeline against one buffer's unsaved
// contents, joined with workspaceRoot's repository index. The index is
// built on first contact with a new root and otherwise served from cache;
// the buffer's own extraction never touches disk.
func (e *Engine) Analyze(ctx context.Context, bufferBytes []byte, filePath, workspaceRoot string) ([]model.Diagnostic, error) {
	root, err := normalizeRoot(workspaceRoot)
	if err != nil {
		return nil, err
	}
	idx, err := e.ensureIndex(ctx, root)
	if err != nil {
		return nil, err
	}

	lang := e.registry.Lookup(filepath.Ext(filePath))
	if lang == nil {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang.SitterLanguage())
	tree, err := parser.ParseCtx(ctx, nil, bufferBytes)
	if err != nil {
		// A parser failure yields zero symbols/references for this file,
		// never an error to the caller.
		return nil, nil
	}

	symbols := lang.ExtractSymbols(tree, bufferBytes, filePath)
	refs := lang.ExtractReferences(tree, bufferBytes, filePath)

	var diags []model.Diagnostic
	for _, rule := range rules {
		diags = append(diags, rule(symbols, refs, idx, filePath)...)
	}
	diags = model.Dedup(diags)

	ws := e.workspaceFor(root)
	ws.mu.Lock()
	ws.diagnostics = mergeDiagnostics(ws.diagnostics, filePath, diags)
	snapshot := append([]model.Diagnostic(nil), ws.diagnostics...)
	ws.mu.Unlock()

	if path := e.diagnosticsStoreFor(root); path != "" {
		if err := saveDiagnosticsSnapshot(path, snapshot); err != nil {
			xlog.Printf("persisting diagnostics snapshot for %s: %v", root, err)
		}
	}

	return diags, nil
}

// mergeDiagnostics replaces prior's entries for file with fresh ones,
// keeping every other open buffer's last-reported set untouched. This is
// the accumulation rule behind diagnostics.json: the most recently
// reported diagnostic set across open buffers.
func mergeDiagnostics(prior []model.Diagnostic, file string, fresh []model.Diagnostic) []model.Diagnostic {
	out := make([]model.Diagnostic, 0, len(prior)+len(fresh))
	for _, d := range prior {
		if d.File == file {
			continue
		}
		out = append(out, d)
	}
	return append(out, fresh...)
}

// GetSymbols returns the workspace's current repository-wide Symbol list,
// building the index on first contact with this root.
func (e *Engine) GetSymbols(ctx context.Context, workspaceRoot string) ([]model.Symbol, error) {
	root, err := normalizeRoot(workspaceRoot)
	if err != nil {
		return nil, err
	}
	idx, err := e.ensureIndex(ctx, root)
	if err != nil {
		return nil, err
	}
	return idx.All(), nil
}

// GetDiagnosticsSnapshot returns the most recently reported diagnostic set
// across every buffer analyzed against workspaceRoot since the Engine was
// constructed. Refresh does not clear it.
func (e *Engine) GetDiagnosticsSnapshot(workspaceRoot string) ([]model.Diagnostic, error) {
	root, err := normalizeRoot(workspaceRoot)
	if err != nil {
		return nil, err
	}
	ws := e.workspaceFor(root)
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return append([]model.Diagnostic(nil), ws.diagnostics...), nil
}
