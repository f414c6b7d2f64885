package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/model"
)

func writeFile(t *testing.T, root, rel, contents string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestEngine_AnalyzeFlagsSignatureDriftAcrossFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.py", "def configure(host, port, timeout=30):\n    return host\n")

	eng := New()
	ctx := context.Background()

	buf := []byte("configure(\"localhost\")\n")
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "caller.py"), root)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "SNIPE_SIGNATURE_DRIFT", string(diags[0].Code))
}

func TestEngine_AnalyzeCrossLanguageIsolation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "config.py", "HOST = \"localhost\"\n")

	eng := New()
	ctx := context.Background()

	buf := []byte("int HOST;\n")
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "main.c"), root)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestEngine_RefreshRebuildsIndexAndPersistsState(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "util.py", "def helper(x):\n    return x\n")

	eng := New()
	ctx := context.Background()

	require.NoError(t, eng.Refresh(ctx, root))

	symbols, err := eng.GetSymbols(ctx, root)
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "helper", symbols[0].Name)

	_, err = os.Stat(filepath.Join(root, stateDirName, "repo_symbols.json"))
	assert.NoError(t, err)
}

func TestEngine_DiagnosticsSnapshotAccumulatesAcrossBuffers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.py", "def helper(x):\n    return x\n")

	eng := New()
	ctx := context.Background()

	_, err := eng.Analyze(ctx, []byte("helper(1, 2, 3)\n"), filepath.Join(root, "a.py"), root)
	require.NoError(t, err)
	_, err = eng.Analyze(ctx, []byte("helper()\n"), filepath.Join(root, "b.py"), root)
	require.NoError(t, err)

	snapshot, err := eng.GetDiagnosticsSnapshot(root)
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	byFile := map[string]bool{}
	for _, d := range snapshot {
		byFile[d.File] = true
	}
	assert.True(t, byFile[filepath.Join(root, "a.py")])
	assert.True(t, byFile[filepath.Join(root, "b.py")])
}

func countByCode(diags []model.Diagnostic, code string) int {
	n := 0
	for _, d := range diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func TestEngine_AnalyzeSignatureDriftWithDefaults(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "greeting.py", "def greet(name, greeting=\"Hello\"):\n    return greeting + name\n")

	eng := New()
	ctx := context.Background()

	buf := []byte(`greet()
greet("A", "B", "C")
greet("A", "B", "C", "D")
greet("A")
greet("A", "B")
`)
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "caller.py"), root)
	require.NoError(t, err)
	assert.Equal(t, 3, countByCode(diags, model.CodeSignatureDrift))
	lines := map[int]bool{}
	for _, d := range diags {
		if d.Code == model.CodeSignatureDrift {
			lines[d.Line] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, lines)
}

func TestEngine_AnalyzeArrayBoundsBoundaries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.py", "scores = [10, 20, 30, 40, 50]\n")

	eng := New()
	ctx := context.Background()

	buf := []byte("a = scores[0]\nb = scores[4]\nc = scores[5]\nd = scores[99]\n")
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "reader.py"), root)
	require.NoError(t, err)
	require.Equal(t, 2, countByCode(diags, model.CodeArrayBounds))
	for _, d := range diags {
		assert.GreaterOrEqual(t, d.Line, 3)
	}
}

func TestEngine_AnalyzeExternTypeAndSizeOverclaim(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "data.c", "char arr[10];\n")

	eng := New()
	ctx := context.Background()

	buf := []byte("extern int arr[100];\n\nint first(void) {\n    return arr[9];\n}\n")
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "test.c"), root)
	require.NoError(t, err)

	assert.Equal(t, 1, countByCode(diags, model.CodeTypeMismatch))
	// The overclaimed extern size is a declaration-drift defect; the arr[9]
	// access is within the canonical char[10] and stays silent.
	require.Equal(t, 1, countByCode(diags, model.CodeArrayBounds))
	for _, d := range diags {
		if d.Code == model.CodeArrayBounds {
			assert.Equal(t, 1, d.Line)
		}
	}
}

func TestEngine_AnalyzeUnsafeFunctionSeverities(t *testing.T) {
	root := t.TempDir()
	eng := New()
	ctx := context.Background()

	buf := []byte(`char buf[8];

void worker(char *dst, char *src) {
    strcpy(dst, src);
    gets(buf);
}
`)
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "worker.c"), root)
	require.NoError(t, err)

	require.Equal(t, 2, countByCode(diags, model.CodeUnsafeFunction))
	for _, d := range diags {
		if d.Code != model.CodeUnsafeFunction {
			continue
		}
		switch d.Line {
		case 4:
			assert.Equal(t, model.SeverityWarning, d.Severity)
			assert.Contains(t, d.Message, "Unsafe String Handling")
		case 5:
			assert.Equal(t, model.SeverityError, d.Severity)
			assert.Contains(t, d.Message, "Removed from C Standard")
		}
	}
}

func TestEngine_AnalyzeFormatStringMismatch(t *testing.T) {
	root := t.TempDir()
	eng := New()
	ctx := context.Background()

	buf := []byte(`int main(void) {
    printf("%d %s", 42);
    printf("100%% done: %d", 7);
    return 0;
}
`)
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "report.c"), root)
	require.NoError(t, err)

	require.Equal(t, 1, countByCode(diags, model.CodeFormatString))
	for _, d := range diags {
		if d.Code == model.CodeFormatString {
			assert.Equal(t, 2, d.Line)
		}
	}
}

func TestEngine_AnalyzeStructMemberAccess(t *testing.T) {
	root := t.TempDir()
	eng := New()
	ctx := context.Background()

	buf := []byte(`struct Point {
    int x;
    int y;
};

struct Point origin;

int main(void) {
    return origin.z;
}
`)
	diags, err := eng.Analyze(ctx, buf, filepath.Join(root, "geometry.c"), root)
	require.NoError(t, err)

	require.Equal(t, 1, countByCode(diags, model.CodeStructAccess))
	for _, d := range diags {
		if d.Code == model.CodeStructAccess {
			assert.Contains(t, d.Message, "x, y")
		}
	}
}

func TestEngine_AnalyzeIsDeterministicAcrossRepeats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "core.py", "def helper(x):\n    return x\n")

	eng := New()
	ctx := context.Background()

	buf := []byte("helper(1, 2)\nmystery()\n")
	first, err := eng.Analyze(ctx, buf, filepath.Join(root, "caller.py"), root)
	require.NoError(t, err)
	second, err := eng.Analyze(ctx, buf, filepath.Join(root, "caller.py"), root)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_AnalyzeRejectsInvalidWorkspaceRoot(t *testing.T) {
	eng := New()
	_, err := eng.Analyze(context.Background(), []byte("x = 1\n"), "buf.py", filepath.Join(t.TempDir(), "does-not-exist"))
	assert.ErrorIs(t, err, ErrInvalidWorkspaceRoot)
}

func TestEngine_AnalyzeUnknownExtensionYieldsNoDiagnostics(t *testing.T) {
	root := t.TempDir()
	eng := New()
	diags, err := eng.Analyze(context.Background(), []byte("hello"), filepath.Join(root, "notes.txt"), root)
	require.NoError(t, err)
	assert.Empty(t, diags)
}
