package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

func TestCheckUnusedExtern_NeverReferencedIsFlagged(t *testing.T) {
	symbols := []model.Symbol{
		{Name: "g_config", Kind: model.KindVariable, File: "buf.c", Line: 3, IsExtern: true},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUnusedExtern(symbols, nil, idx, "buf.c")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeUnusedExtern, diags[0].Code)
}

func TestCheckUnusedExtern_ReferencedIsClean(t *testing.T) {
	symbols := []model.Symbol{
		{Name: "g_config", Kind: model.KindVariable, File: "buf.c", Line: 3, IsExtern: true},
	}
	refs := []model.Reference{
		{Kind: model.RefRead, Name: "g_config", Line: 9},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUnusedExtern(symbols, refs, idx, "buf.c")
	assert.Empty(t, diags)
}

func TestCheckUnusedExtern_PythonFilesAreSkipped(t *testing.T) {
	symbols := []model.Symbol{
		{Name: "g_config", Kind: model.KindVariable, File: "buf.py", Line: 3, IsExtern: true},
	}
	idx := index.Build("/repo", nil)

	diags := CheckUnusedExtern(symbols, nil, idx, "buf.py")
	assert.Empty(t, diags)
}
