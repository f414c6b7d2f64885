package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// CheckTypeMismatch detects cross-file type drift for a symbol: a buffer
// declaration (typically an extern) disagreeing with the repository's
// canonical definition, an array write assigning the wrong element type,
// and a read or array-access reference whose inferred type disagrees with
// the declared type. Same-language only; current-file repo entries are
// skipped since the buffer's own symbols are authoritative for it.
//
// A declared array size larger than the canonical definition's is reported
// here too, under SNIPE_ARRAY_BOUNDS, since it is a declaration-drift
// defect rather than an out-of-range access (see array_bounds.go for that).
func CheckTypeMismatch(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	localTypes := make(map[string]string, len(symbols))
	for _, s := range symbols {
		if s.HasType() {
			localTypes[s.Name] = s.Type
		}
	}
	for _, s := range symbols {
		if _, ok := localTypes[s.Name]; !ok {
			localTypes[s.Name] = string(s.Kind)
		}
	}

	repoByName := make(map[string]model.Symbol)
	for _, s := range idx.All() {
		if sameFile(file, s.File) {
			continue
		}
		if LanguageOf(s.File) != lang {
			continue
		}
		if s.Name == "" {
			continue
		}
		existing, ok := repoByName[s.Name]
		if !ok {
			repoByName[s.Name] = s
		} else if existing.IsExtern && !s.IsExtern {
			repoByName[s.Name] = s
		}
	}

	declarationMismatch := make(map[string]bool)
	for _, sym := range symbols {
		if !sym.IsExtern {
			continue
		}
		repoDef, ok := repoByName[sym.Name]
		if !ok {
			continue
		}
		repoType := typeOrKind(repoDef)
		bufType := typeOrKind(sym)
		typeMismatch := bufType != "" && repoType != "" && bufType != repoType

		repoSize, repoHasSize := repoDef.Size()
		bufSize, bufHasSize := sym.Size()
		sizeMismatch := bufHasSize && repoHasSize && bufSize > repoSize

		if typeMismatch {
			declarationMismatch[sym.Name] = true
			diags = append(diags, model.Diagnostic{
				File: file, Line: sym.Line, Severity: model.SeverityError, Code: model.CodeTypeMismatch,
				Message: fmt.Sprintf("'%s' is declared as %s in %s:%d but declared as %s here.",
					sym.Name, repoType, repoDef.File, repoDef.Line, bufType),
			})
		}
		if sizeMismatch {
			diags = append(diags, model.Diagnostic{
				File: file, Line: sym.Line, Severity: model.SeverityError, Code: model.CodeArrayBounds,
				Message: fmt.Sprintf("'%s' declares size %d but actual size is %d (in %s:%d).",
					sym.Name, bufSize, repoSize, repoDef.File, repoDef.Line),
			})
		}
	}

	symByName := make(map[string]model.Symbol, len(symbols))
	for _, s := range symbols {
		symByName[s.Name] = s
	}

	for _, ref := range refs {
		if ref.Kind != model.RefArrayWrite {
			continue
		}
		rhsType := ref.InferredType
		if rhsType == "" && ref.HasRHSName {
			rhsType = localTypes[ref.RHSName]
		}
		if rhsType == "" {
			continue
		}
		var elemType, elemFile string
		var elemLine int
		if sym, ok := symByName[ref.Name]; ok && sym.HasType() {
			elemType = sym.Type
			elemLine = sym.Line
			elemFile = file
		} else if repoDef, ok := repoByName[ref.Name]; ok {
			elemType = typeOrKind(repoDef)
			elemFile = repoDef.File
			elemLine = repoDef.Line
		}
		if elemType != "" && elemType != rhsType {
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeTypeMismatch,
				Message: fmt.Sprintf("Assigning %s to '%s' (element type %s in %s:%d).",
					rhsType, ref.Name, elemType, elemFile, elemLine),
			})
		}
	}

	for _, ref := range refs {
		if ref.Kind != model.RefRead && ref.Kind != model.RefArrayAccess {
			continue
		}
		if declarationMismatch[ref.Name] {
			continue
		}
		repoDef, ok := repoByName[ref.Name]
		if !ok || repoDef.IsExtern {
			continue
		}
		repoType := typeOrKind(repoDef)
		refType := ref.InferredType
		if refType == "" {
			refType = localTypes[ref.Name]
		}
		if refType != "" && repoType != "" && refType != repoType {
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeTypeMismatch,
				Message: fmt.Sprintf("'%s' is declared as %s in %s:%d but used as %s here.",
					ref.Name, repoType, repoDef.File, repoDef.Line, refType),
			})
		}
	}

	// Annotated-assignment vs RHS literal type (dynamic language only; C has
	// no annotated-assignment syntax so this reference kind never appears
	// for a C buffer).
	for _, ref := range refs {
		if ref.Kind != model.RefAssignment {
			continue
		}
		if ref.AnnotationType == "" || ref.InferredType == "" {
			continue
		}
		if ref.AnnotationType == ref.InferredType {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeTypeMismatch,
			Message: fmt.Sprintf("'%s' is annotated %s but assigned a %s value.",
				ref.Name, ref.AnnotationType, ref.InferredType),
		})
	}

	// Return-value type vs the enclosing function's declared return type.
	for _, ref := range refs {
		if ref.Kind != model.RefReturnValue {
			continue
		}
		if ref.DeclaredReturnType == "" || ref.ReturnValueType == "" {
			continue
		}
		if ref.DeclaredReturnType == ref.ReturnValueType {
			continue
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: ref.Line, Severity: model.SeverityError, Code: model.CodeTypeMismatch,
			Message: fmt.Sprintf("Function '%s' is declared to return %s but this return yields %s.",
				ref.Scope, ref.DeclaredReturnType, ref.ReturnValueType),
		})
	}

	return diags
}
