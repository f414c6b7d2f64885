// Package provider defines the language-abstraction interface the symbol and
// reference extractors run against, and a small registry for looking
// providers up by file extension: Tree-sitter access plus
// symbol/reference extraction, nothing more.
package provider

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/snipeproj/snipe/engine/model"
)

// LanguageProvider supplies everything the extractor needs to turn a parsed
// buffer into Symbols and References for one language.
type LanguageProvider interface {
	// Lang returns the canonical language identifier ("python", "c").
	Lang() string

	// Extensions returns the file extensions this provider claims
	// (e.g. [".py"] or [".c", ".h"]).
	Extensions() []string

	// SitterLanguage returns the Tree-sitter grammar handle used to parse
	// source for this language.
	SitterLanguage() *sitter.Language

	// ExtractSymbols walks a parsed tree and returns the ordered Symbol
	// list for source, which belongs to file.
	ExtractSymbols(tree *sitter.Tree, source []byte, file string) []model.Symbol

	// ExtractReferences walks a parsed tree and returns the ordered
	// Reference list for source, which belongs to file.
	ExtractReferences(tree *sitter.Tree, source []byte, file string) []model.Reference
}

// Registry resolves a LanguageProvider by file extension.
type Registry struct {
	byExt map[string]LanguageProvider
}

// NewRegistry builds a Registry from the given providers, indexing each by
// every extension it claims.
func NewRegistry(providers ...LanguageProvider) *Registry {
	r := &Registry{byExt: make(map[string]LanguageProvider)}
	for _, p := range providers {
		for _, ext := range p.Extensions() {
			r.byExt[ext] = p
		}
	}
	return r
}

// Lookup returns the provider registered for ext (including the leading
// dot), or nil if the extension is unsupported.
func (r *Registry) Lookup(ext string) LanguageProvider {
	return r.byExt[ext]
}

// Extensions returns every extension this registry resolves, in no
// particular order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	return out
}
