package check

import (
	"fmt"
	"strings"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckArgTypeMismatch flags a call argument whose inferred literal type
// disagrees with the annotated parameter type at the same position. Only
// positions where both the call site and the declaration carry a resolved
// type are compared; method calls (a dotted callee name) are skipped since
// their target cannot be resolved to a declaration here.
func CheckArgTypeMismatch(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	funcs := make(map[string]model.Symbol)
	for _, s := range symbols {
		if s.Kind == model.KindFunction {
			funcs[s.Name] = s
		}
	}
	for _, s := range idx.All() {
		if s.Kind != model.KindFunction || s.Name == "" {
			continue
		}
		if LanguageOf(s.File) != lang {
			continue
		}
		if _, ok := funcs[s.Name]; !ok {
			funcs[s.Name] = s
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefCall || strings.Contains(ref.Name, ".") {
			continue
		}
		def, ok := funcs[ref.Name]
		if !ok || len(ref.ArgTypes) == 0 {
			continue
		}
		for i, argType := range ref.ArgTypes {
			if argType == "" || i >= len(def.Params) {
				continue
			}
			param := def.Params[i]
			if param.IsPack() || param.Type == "" {
				continue
			}
			if param.Type != argType {
				diags = append(diags, model.Diagnostic{
					File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeArgTypeMismatch,
					Message: fmt.Sprintf("Argument %d to '%s' is %s but parameter '%s' is declared %s (see %s:%d).",
						i+1, ref.Name, argType, param.Name, param.Type, def.File, def.Line),
				})
			}
		}
	}

	return diags
}
