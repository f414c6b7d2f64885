// Package check implements the diagnostic rule pipeline: one pure function
// per rule, each taking the current buffer's Symbols and References
// alongside the repository-wide Index and returning the Diagnostics that
// rule found.
package check

import (
	"path/filepath"
	"strings"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// Func is the shape every rule in the pipeline conforms to.
type Func func(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic

// LanguageOf returns "c", "python" or "" for files outside either bucket.
func LanguageOf(path string) string {
	switch {
	case model.IsCFile(path):
		return "c"
	case model.IsPythonFile(path):
		return "python"
	default:
		return ""
	}
}

// sameFile reports whether repoFile (as recorded in the index, possibly
// relative) refers to the same file as current (the buffer's path).
func sameFile(current, repoFile string) bool {
	if repoFile == "" {
		return false
	}
	cur := filepath.ToSlash(current)
	repo := filepath.ToSlash(repoFile)
	return cur == repo || strings.HasSuffix(cur, "/"+repo)
}

func typeOrKind(s model.Symbol) string {
	if s.Type != "" {
		return s.Type
	}
	return string(s.Kind)
}
