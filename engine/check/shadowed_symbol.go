package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckShadowedSymbol flags a local (non-empty scope) variable whose name
// collides with a module/file-scope variable visible either elsewhere in
// the buffer or anywhere else in the repository index. Collisions against
// other local variables, functions, classes or structs are not reported:
// only the variable-shadows-variable case.
func CheckShadowedSymbol(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	type decl struct {
		file string
		line int
	}
	fileScope := make(map[string]decl)

	for _, s := range symbols {
		if s.Kind != model.KindVariable && s.Kind != model.KindArray {
			continue
		}
		if s.Scope != "" {
			continue
		}
		if _, ok := fileScope[s.Name]; !ok {
			fileScope[s.Name] = decl{file: file, line: s.Line}
		}
	}
	for _, s := range idx.All() {
		if s.Kind != model.KindVariable && s.Kind != model.KindArray {
			continue
		}
		if s.Scope != "" {
			continue
		}
		if LanguageOf(s.File) != lang {
			continue
		}
		if sameFile(file, s.File) {
			continue
		}
		if _, ok := fileScope[s.Name]; !ok {
			fileScope[s.Name] = decl{file: s.File, line: s.Line}
		}
	}

	for _, s := range symbols {
		if s.Kind != model.KindVariable {
			continue
		}
		if s.Scope == "" {
			continue
		}
		d, ok := fileScope[s.Name]
		if !ok {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: s.Line, Severity: model.SeverityWarning, Code: model.CodeShadowedSymbol,
			Message: fmt.Sprintf("'%s' shadows the file-scope variable declared in %s:%d.", s.Name, d.file, d.line),
		})
	}

	return diags
}
