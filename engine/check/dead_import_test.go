package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

func TestCheckDeadImport_UnusedNamedImportIsFlagged(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefImport, ImportedNames: []string{"json"}, Line: 1},
	}
	idx := index.Build("/repo", nil)

	diags := CheckDeadImport(nil, refs, idx, "buf.py")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeDeadImport, diags[0].Code)
	assert.Contains(t, diags[0].Message, "json")
}

func TestCheckDeadImport_UsedViaAttributeAccessIsClean(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefImport, ImportedNames: []string{"os"}, Line: 1},
		{Kind: model.RefMemberAccess, Name: "os", MemberName: "path", Line: 5},
	}
	idx := index.Build("/repo", nil)

	diags := CheckDeadImport(nil, refs, idx, "buf.py")
	assert.Empty(t, diags)
}

func TestCheckDeadImport_WildcardImportNeverFlagged(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefImport, ImportedNames: []string{"*"}, Line: 1},
	}
	idx := index.Build("/repo", nil)

	diags := CheckDeadImport(nil, refs, idx, "buf.py")
	assert.Empty(t, diags)
}

func TestCheckDeadImport_CFilesAreSkipped(t *testing.T) {
	refs := []model.Reference{
		{Kind: model.RefImport, ImportedNames: []string{"stdio"}, Line: 1},
	}
	idx := index.Build("/repo", nil)

	diags := CheckDeadImport(nil, refs, idx, "buf.c")
	assert.Empty(t, diags)
}
