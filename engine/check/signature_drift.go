package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckSignatureDrift flags a call whose argument count falls outside what
// the repository's latest function signature allows. Pack parameters
// (*args/**kwargs) never count toward the bound; a same-file definition
// wins over any other repo declaration of the same name.
func CheckSignatureDrift(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	funcs := make(map[string]model.Symbol)
	for _, s := range idx.All() {
		if s.Kind != model.KindFunction || s.Name == "" {
			continue
		}
		if LanguageOf(s.File) != lang {
			continue
		}
		if _, ok := funcs[s.Name]; !ok || sameFile(file, s.File) {
			funcs[s.Name] = s
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefCall {
			continue
		}
		def, ok := funcs[ref.Name]
		if !ok {
			continue
		}
		minArgs := def.MinRequiredArgs()
		maxArgs := def.MaxAllowedArgs()

		if ref.ArgCount < minArgs || (maxArgs >= 0 && ref.ArgCount > maxArgs) {
			var expected string
			switch {
			case def.IsVariadic:
				expected = fmt.Sprintf("at least %d", minArgs)
			case minArgs == maxArgs:
				expected = fmt.Sprintf("%d", minArgs)
			default:
				expected = fmt.Sprintf("%d to %d", minArgs, maxArgs)
			}
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeSignatureDrift,
				Message: fmt.Sprintf("Function '%s' expects %s argument(s) but %d provided (see %s:%d).",
					ref.Name, expected, ref.ArgCount, def.File, def.Line),
			})
		}
	}

	return diags
}
