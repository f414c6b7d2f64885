package check

import (
	"fmt"
	"strings"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckDeadImport flags an imported name that is never referenced anywhere
// in the buffer outside the import statement that bound it. A wildcard
// import can't be attributed to any one name and is skipped rather than
// flagged.
func CheckDeadImport(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	if LanguageOf(file) != "python" {
		return diags
	}

	used := make(map[string]bool, len(refs))
	for _, ref := range refs {
		switch ref.Kind {
		case model.RefImport:
			continue
		case model.RefRead, model.RefArrayAccess, model.RefArrayWrite, model.RefMemberAccess:
			used[baseName(ref.Name)] = true
		case model.RefCall:
			used[baseName(ref.Name)] = true
		}
		if ref.HasRHSName {
			used[baseName(ref.RHSName)] = true
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefImport {
			continue
		}
		for _, name := range ref.ImportedNames {
			if name == "*" {
				continue
			}
			if used[baseName(name)] {
				continue
			}
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityWarning, Code: model.CodeDeadImport,
				Message: fmt.Sprintf("Imported name '%s' is never used in this file.", name),
			})
		}
	}

	return diags
}

// baseName returns the leading segment of a dotted reference name
// ("os.path.join" -> "os"), or name unchanged if it carries no dot.
func baseName(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}
