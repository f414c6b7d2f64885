package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

func TestCheckUndefinedSymbol_PythonUnknownRead(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefRead, Name: "mystery_value", Line: 5},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUndefinedSymbol(nil, refs, idx, "buf.py")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeUndefinedSymbol, diags[0].Code)
}

func TestCheckUndefinedSymbol_WildcardImportSuppressesPythonChecks(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefImport, ImportedNames: []string{"*"}, Line: 1},
		{Kind: model.RefRead, Name: "mystery_value", Line: 5},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUndefinedSymbol(nil, refs, idx, "buf.py")
	assert.Empty(t, diags)
}

func TestCheckUndefinedSymbol_CStdlibCallIsKnown(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "printf", Line: 4, ArgCount: 1},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUndefinedSymbol(nil, refs, idx, "buf.c")
	assert.Empty(t, diags)
}

func TestCheckUndefinedSymbol_CUnknownCallFlagged(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "frobnicate", Line: 4, ArgCount: 1},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUndefinedSymbol(nil, refs, idx, "buf.c")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeUndefinedSymbol, diags[0].Code)
}
