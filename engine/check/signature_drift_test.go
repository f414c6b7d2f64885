package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

func TestCheckSignatureDrift_TooFewArguments(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "configure", Kind: model.KindFunction, File: "core.py", Line: 3,
			Params: []model.Param{{Name: "host"}, {Name: "port"}, {Name: "timeout", HasDefault: true}},
		},
	})
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "configure", Line: 20, ArgCount: 1},
	}

	diags := CheckSignatureDrift(nil, refs, idx, "caller.py")
	require.Len(t, diags, 1)
	assert.Equal(t, model.CodeSignatureDrift, diags[0].Code)
}

func TestCheckSignatureDrift_DefaultedParamAllowsFewerArgs(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "configure", Kind: model.KindFunction, File: "core.py", Line: 3,
			Params: []model.Param{{Name: "host"}, {Name: "port"}, {Name: "timeout", HasDefault: true}},
		},
	})
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "configure", Line: 20, ArgCount: 2},
	}

	diags := CheckSignatureDrift(nil, refs, idx, "caller.py")
	assert.Empty(t, diags)
}

func TestCheckSignatureDrift_CrossLanguageDefinitionInvisible(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "configure", Kind: model.KindFunction, File: "core.py", Line: 3,
			Params: []model.Param{{Name: "host"}, {Name: "port"}},
		},
	})
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "configure", Line: 20, ArgCount: 0},
	}

	diags := CheckSignatureDrift(nil, refs, idx, "caller.c")
	assert.Empty(t, diags)
}

func TestCheckSignatureDrift_VariadicHasNoUpperBound(t *testing.T) {
	idx := index.Build("/repo", []model.Symbol{
		{
			Name: "log_all", Kind: model.KindFunction, File: "core.py", Line: 3,
			Params: []model.Param{{Name: "*args"}}, IsVariadic: true,
		},
	})
	refs := []model.Reference{
		{Kind: model.RefCall, Name: "log_all", Line: 20, ArgCount: 12},
	}

	diags := CheckSignatureDrift(nil, refs, idx, "caller.py")
	assert.Empty(t, diags)
}
