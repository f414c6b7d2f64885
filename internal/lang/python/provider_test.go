package python

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/model"
)

func parse(t *testing.T, src string) (*sitter.Tree, []byte) {
	t.Helper()
	source := []byte(src)
	p := New()
	parser := sitter.NewParser()
	parser.SetLanguage(p.SitterLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	require.NoError(t, err)
	return tree, source
}

func TestProviderMetadata(t *testing.T) {
	p := New()
	assert.Equal(t, "python", p.Lang())
	assert.Equal(t, []string{".py"}, p.Extensions())
	assert.NotNil(t, p.SitterLanguage())
}

func TestExtractSymbols_FunctionAndParams(t *testing.T) {
	src := `
def greet(name, title="friend", *args, **kwargs):
    return name
`
	tree, source := parse(t, src)
	syms := New().ExtractSymbols(tree, source, "greet.py")

	require.Len(t, syms, 1)
	fn := syms[0]
	assert.Equal(t, "greet", fn.Name)
	assert.Equal(t, model.KindFunction, fn.Kind)
	require.Len(t, fn.Params, 4)
	assert.Equal(t, "name", fn.Params[0].Name)
	assert.Equal(t, "title", fn.Params[1].Name)
	assert.True(t, fn.Params[1].HasDefault)
	assert.True(t, fn.Params[2].IsPack())
	assert.True(t, fn.Params[3].IsPack())
	assert.True(t, fn.IsVariadic)
}

func TestExtractSymbols_DropsSelfAndCls(t *testing.T) {
	src := `
class Widget:
    def resize(self, width):
        return width
`
	tree, source := parse(t, src)
	syms := New().ExtractSymbols(tree, source, "widget.py")

	var fn *model.Symbol
	for i := range syms {
		if syms[i].Kind == model.KindFunction {
			fn = &syms[i]
		}
	}
	require.NotNil(t, fn)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "width", fn.Params[0].Name)
	assert.Equal(t, "Widget", fn.Scope)
}

func TestExtractSymbols_ArrayFromListLiteral(t *testing.T) {
	src := "items = [1, 2, 3]\n"
	tree, source := parse(t, src)
	syms := New().ExtractSymbols(tree, source, "list.py")

	require.Len(t, syms, 1)
	assert.Equal(t, model.KindArray, syms[0].Kind)
	size, ok := syms[0].Size()
	require.True(t, ok)
	assert.Equal(t, 3, size)
}

func TestExtractSymbols_SkipsUnderscorePrefixedNames(t *testing.T) {
	src := "_private = 1\npublic = 2\n"
	tree, source := parse(t, src)
	syms := New().ExtractSymbols(tree, source, "vars.py")

	require.Len(t, syms, 1)
	assert.Equal(t, "public", syms[0].Name)
}

func TestExtractReferences_Call(t *testing.T) {
	src := "greet(\"a\", 1)\n"
	tree, source := parse(t, src)
	refs := New().ExtractReferences(tree, source, "call.py")

	require.Len(t, refs, 1)
	assert.Equal(t, model.RefCall, refs[0].Kind)
	assert.Equal(t, "greet", refs[0].Name)
	assert.Equal(t, 2, refs[0].ArgCount)
}

func TestExtractReferences_ImportFrom(t *testing.T) {
	src := "from os import path, sep\n"
	tree, source := parse(t, src)
	refs := New().ExtractReferences(tree, source, "imp.py")

	require.Len(t, refs, 1)
	assert.Equal(t, model.RefImport, refs[0].Kind)
	assert.Equal(t, "os", refs[0].ModuleName)
	assert.ElementsMatch(t, []string{"path", "sep"}, refs[0].ImportedNames)
}

func TestExtractReferences_AnnotatedAssignment(t *testing.T) {
	src := "count: int = 5\n"
	tree, source := parse(t, src)
	refs := New().ExtractReferences(tree, source, "ann.py")

	var assigns []model.Reference
	for _, r := range refs {
		if r.Kind == model.RefAssignment {
			assigns = append(assigns, r)
		}
	}
	require.Len(t, assigns, 1)
	assert.Equal(t, "count", assigns[0].Name)
	assert.Equal(t, "int", assigns[0].AnnotationType)
	assert.Equal(t, "int", assigns[0].InferredType)
}
