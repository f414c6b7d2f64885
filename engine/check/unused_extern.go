package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckUnusedExtern flags an extern declaration in the buffer whose name is
// never touched by any reference in that same buffer.
func CheckUnusedExtern(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	if LanguageOf(file) != "c" {
		return diags
	}

	used := make(map[string]bool, len(refs))
	for _, ref := range refs {
		used[ref.Name] = true
		if ref.HasRHSName {
			used[ref.RHSName] = true
		}
	}

	for _, s := range symbols {
		if !s.IsExtern {
			continue
		}
		if used[s.Name] {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: s.Line, Severity: model.SeverityWarning, Code: model.CodeUnusedExtern,
			Message: fmt.Sprintf("Extern declaration '%s' is never referenced in this file.", s.Name),
		})
	}

	return diags
}
