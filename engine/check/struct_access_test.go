package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

func TestCheckStructAccess_UnknownMemberIsFlagged(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "Point", Kind: model.KindStruct, File: "point.h", Line: 1,
			Members: []model.Field{{Name: "x", Type: "int"}, {Name: "y", Type: "int"}},
		},
	})
	symbols := []model.Symbol{
		{Name: "p", Kind: model.KindVariable, Type: "struct Point", File: "buf.c", Line: 5},
	}
	refs := []model.Reference{
		{Kind: model.RefMemberAccess, Name: "p", MemberName: "z", Line: 8},
	}

	diags := CheckStructAccess(symbols, refs, idx, "buf.c")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeStructAccess, diags[0].Code)
	assert.Contains(t, diags[0].Message, "x, y")
}

func TestCheckStructAccess_PointerToStructResolves(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "Point", Kind: model.KindStruct, File: "point.h", Line: 1,
			Members: []model.Field{{Name: "x", Type: "int"}},
		},
	})
	symbols := []model.Symbol{
		{Name: "p", Kind: model.KindVariable, Type: "struct Point *", File: "buf.c", Line: 5},
	}
	refs := []model.Reference{
		{Kind: model.RefMemberAccess, Name: "p", MemberName: "x", Line: 8},
	}

	diags := CheckStructAccess(symbols, refs, idx, "buf.c")
	assert.Empty(t, diags)
}

func TestCheckStructAccess_KnownMemberIsClean(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "Point", Kind: model.KindStruct, File: "point.h", Line: 1,
			Members: []model.Field{{Name: "x", Type: "int"}},
		},
	})
	symbols := []model.Symbol{
		{Name: "p", Kind: model.KindVariable, Type: "struct Point", File: "buf.c", Line: 5},
	}
	refs := []model.Reference{
		{Kind: model.RefMemberAccess, Name: "p", MemberName: "x", Line: 8},
	}

	diags := CheckStructAccess(symbols, refs, idx, "buf.c")
	assert.Empty(t, diags)
}
