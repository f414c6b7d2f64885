package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckFormatString flags a printf-family call whose specifier count
// disagrees with the number of arguments supplied after the format string.
func CheckFormatString(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	if LanguageOf(file) == "" {
		return diags
	}

	for _, ref := range refs {
		if ref.Kind != model.RefFormatCall {
			continue
		}
		if ref.FormatSpecifiers == ref.ArgCount {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeFormatString,
			Message: fmt.Sprintf("'%s(\"%s\", ...)' expects %d argument(s) for its format specifiers but %d provided.",
				ref.Name, ref.FormatString, ref.FormatSpecifiers, ref.ArgCount),
		})
	}

	return diags
}
