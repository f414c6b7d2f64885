package check

import (
	"fmt"
	"strings"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckStructAccess flags a member access on a variable whose declared type
// resolves to a known struct when the accessed member is not among that
// struct's members. C only: struct is a C-only symbol kind.
func CheckStructAccess(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	if LanguageOf(file) != "c" {
		return diags
	}

	// Only definitions with members count: a bare "struct Point p;" also
	// extracts a members-less struct symbol and must not mask the real one.
	structsByName := make(map[string]model.Symbol)
	for _, s := range symbols {
		if s.Kind == model.KindStruct && len(s.Members) > 0 {
			structsByName[s.Name] = s
		}
	}
	for _, s := range idx.All() {
		if s.Kind != model.KindStruct || s.Name == "" || len(s.Members) == 0 {
			continue
		}
		if LanguageOf(s.File) != "c" {
			continue
		}
		if _, ok := structsByName[s.Name]; !ok {
			structsByName[s.Name] = s
		}
	}

	varType := make(map[string]string)
	for _, s := range symbols {
		if s.HasType() {
			varType[s.Name] = s.Type
		}
	}
	for _, s := range idx.All() {
		if !s.HasType() || LanguageOf(s.File) != "c" {
			continue
		}
		if _, ok := varType[s.Name]; !ok {
			varType[s.Name] = s.Type
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefMemberAccess {
			continue
		}
		typ := strings.TrimSpace(strings.TrimSuffix(varType[ref.Name], "*"))
		structName := strings.TrimPrefix(typ, "struct ")
		def, ok := structsByName[structName]
		if !ok {
			continue
		}
		found := false
		var names []string
		for _, m := range def.Members {
			names = append(names, m.Name)
			if m.Name == ref.MemberName {
				found = true
				break
			}
		}
		if found {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeStructAccess,
			Message: fmt.Sprintf("'%s' has no member '%s'; available members: %s.",
				structName, ref.MemberName, strings.Join(names, ", ")),
		})
	}

	return diags
}
