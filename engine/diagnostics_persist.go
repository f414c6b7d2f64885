package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/snipeproj/snipe/engine/model"
)

// saveDiagnosticsSnapshot writes diagnostics.json: an aid for downstream
// visualizers, never read back by the analyze loop itself. Same
// temp-file-then-rename discipline as index.Store.Save.
func saveDiagnosticsSnapshot(path string, diagnostics []model.Diagnostic) error {
	data, err := json.MarshalIndent(diagnostics, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diagnostics snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".diagnostics-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("install diagnostics snapshot: %w", err)
	}
	return nil
}
