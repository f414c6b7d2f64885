package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/model"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo_symbols.json")
	store := NewStore(path)

	size := 3
	want := []model.Symbol{
		{Name: "items", Kind: model.KindArray, File: "a.py", Line: 1, ArraySize: &size},
		{Name: "helper", Kind: model.KindFunction, File: "a.py", Line: 4},
	}

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Name, got[0].Name)
	require.NotNil(t, got[0].ArraySize)
	assert.Equal(t, 3, *got[0].ArraySize)
	assert.Equal(t, want[1].Name, got[1].Name)
}

func TestStore_LoadMissingFileReturnsNilNoError(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveTwiceKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo_symbols.json")
	store := NewStore(path)

	require.NoError(t, store.Save([]model.Symbol{{Name: "v1"}}))
	require.NoError(t, store.Save([]model.Symbol{{Name: "v2"}}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Name)

	backup, err := NewStore(path + ".bak").Load()
	require.NoError(t, err)
	require.Len(t, backup, 1)
	assert.Equal(t, "v1", backup[0].Name)
}
