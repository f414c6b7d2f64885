package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cprovider "github.com/snipeproj/snipe/internal/lang/c"
	"github.com/snipeproj/snipe/internal/lang/provider"
	pyprovider "github.com/snipeproj/snipe/internal/lang/python"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScan_WalksAndParsesMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pkg/a.py", "def helper():\n    return 1\n")
	writeFile(t, dir, "pkg/b.c", "int total;\n")
	writeFile(t, dir, "vendor/skip.py", "def ignored():\n    return 0\n")
	writeFile(t, dir, "README.md", "not source")

	registry := provider.NewRegistry(pyprovider.New(), cprovider.New())
	symbols, err := Scan(context.Background(), dir, ScanConfig{NoGitignore: true}, registry)
	require.NoError(t, err)

	var names []string
	for _, s := range symbols {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "helper")
	assert.Contains(t, names, "total")
	assert.NotContains(t, names, "ignored")
}

func TestScan_RespectsMaxBytes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "big.py", "def helper():\n    return 1\n")

	registry := provider.NewRegistry(pyprovider.New())
	symbols, err := Scan(context.Background(), dir, ScanConfig{NoGitignore: true, MaxBytes: 4}, registry)
	require.NoError(t, err)
	assert.Empty(t, symbols)
}
