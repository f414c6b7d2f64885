package index

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/snipeproj/snipe/engine/model"
	"github.com/snipeproj/snipe/internal/lang/provider"
	"github.com/snipeproj/snipe/internal/xlog"
)

// defaultSkipDirs are directory names never worth descending into:
// version-control metadata, package caches, virtual environments, build
// output, vendor trees, and this engine's own state directory.
var defaultSkipDirs = map[string]bool{
	".git": true, "vendor": true, "node_modules": true,
	"dist": true, "build": true, ".snipe": true,
	"__pycache__": true, "venv": true,
}

// ScanConfig controls workspace discovery and the parallelism of the scan
// that follows it.
type ScanConfig struct {
	MaxBytes     int64
	IncludeGlobs []string
	ExcludeGlobs []string
	NoGitignore  bool
	Workers      int
}

// Scan walks root, parses every file a provider in registry claims, and
// returns the repository-wide Symbol list in deterministic (path-sorted)
// order. Per-file parsing is embarrassingly parallel and is run across a
// bounded worker pool; results are reassembled in path order before being
// concatenated, so the returned slice (and therefore an Index built from
// it) is independent of goroutine scheduling.
func Scan(ctx context.Context, root string, cfg ScanConfig, registry *provider.Registry) ([]model.Symbol, error) {
	files, err := discoverFiles(root, cfg, registry)
	if err != nil {
		return nil, fmt.Errorf("discovering workspace files: %w", err)
	}
	sort.Strings(files)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	perFile := make([][]model.Symbol, len(files))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			syms, err := scanFile(root, path, registry)
			if err != nil {
				// A file that can't be read or parsed contributes nothing;
				// the rest of the scan proceeds.
				xlog.Printf("scanning %s: %v (skipped)", path, err)
				return
			}
			perFile[i] = syms
		}(i, path)
	}
	wg.Wait()

	var all []model.Symbol
	for _, syms := range perFile {
		all = append(all, syms...)
	}
	return all, nil
}

func scanFile(root, path string, registry *provider.Registry) ([]model.Symbol, error) {
	lang := registry.Lookup(filepath.Ext(path))
	if lang == nil {
		return nil, nil
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang.SitterLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	// Symbols carry repository-relative paths so the persisted table is
	// portable and checker file comparisons work from either path form.
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return lang.ExtractSymbols(tree, source, filepath.ToSlash(rel)), nil
}

func discoverFiles(root string, cfg ScanConfig, registry *provider.Registry) ([]string, error) {
	var gi *ignore.GitIgnore
	if !cfg.NoGitignore {
		if g, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			gi = g
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// An unreadable entry costs only itself; the walk goes on.
			xlog.Printf("walking %s: %v (skipped)", path, err)
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name(), rel, gi) {
				return fs.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if registry.Lookup(filepath.Ext(path)) == nil {
			return nil
		}
		if cfg.MaxBytes > 0 {
			info, err := d.Info()
			if err != nil {
				xlog.Printf("stat %s: %v (skipped)", path, err)
				return nil
			}
			if info.Size() > cfg.MaxBytes {
				return nil
			}
		}
		if len(cfg.IncludeGlobs) > 0 {
			matched := false
			for _, pat := range cfg.IncludeGlobs {
				if ok, _ := doublestar.PathMatch(pat, rel); ok {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}
		for _, pat := range cfg.ExcludeGlobs {
			if ok, _ := doublestar.PathMatch(pat, rel); ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func shouldSkipDir(name, rel string, gi *ignore.GitIgnore) bool {
	if gi != nil && gi.MatchesPath(rel) {
		return true
	}
	if defaultSkipDirs[name] {
		return true
	}
	if strings.HasSuffix(name, ".egg-info") {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}
