package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckArrayBounds flags a statically-known out-of-range index access. The
// canonical size for a name prefers a repository definition from another
// file over the current buffer's own declaration, since a buffer extern
// may (wrongly) declare a different size than the real definition; the
// buffer's own array declarations only fill in names the repo doesn't
// already know, and the index's entries for the buffer's own file are used
// last, for names neither of the other two declares.
func CheckArrayBounds(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	type decl struct {
		size int
		file string
		line int
	}
	byName := make(map[string]decl)
	sameFileDecls := make(map[string]decl)

	for _, s := range idx.All() {
		size, ok := s.Size()
		if !ok {
			continue
		}
		if LanguageOf(s.File) != lang {
			continue
		}
		if sameFile(file, s.File) {
			sameFileDecls[s.Name] = decl{size: size, file: s.File, line: s.Line}
			continue
		}
		byName[s.Name] = decl{size: size, file: s.File, line: s.Line}
	}
	for _, s := range symbols {
		size, ok := s.Size()
		if !ok {
			continue
		}
		if _, exists := byName[s.Name]; exists {
			continue
		}
		f := s.File
		if f == "" {
			f = file
		}
		byName[s.Name] = decl{size: size, file: f, line: s.Line}
	}
	for name, d := range sameFileDecls {
		if _, exists := byName[name]; !exists {
			byName[name] = d
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefArrayAccess || !ref.HasIndexValue {
			continue
		}
		d, ok := byName[ref.Name]
		if !ok {
			continue
		}
		if ref.IndexValue < 0 || ref.IndexValue >= d.size {
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeArrayBounds,
				Message: fmt.Sprintf("Index %d exceeds declared size %d for '%s' (declared in %s:%d).",
					ref.IndexValue, d.size, ref.Name, d.file, d.line),
			})
		}
	}

	return diags
}
