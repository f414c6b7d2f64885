// Package index implements the repository-wide symbol index: a workspace
// scan that feeds a queryable in-memory table, persisted to disk between
// runs.
package index

import "github.com/snipeproj/snipe/engine/model"

// Index is a queryable, read-only view over a workspace's Symbol table. A
// new Index is built wholesale by Build (from a Scan's output); it is never
// mutated in place.
type Index struct {
	root    string
	symbols []model.Symbol
	byName  map[string][]*model.Symbol
	byFile  map[string][]*model.Symbol
}

// Build indexes symbols by name and by file. symbols is kept in the order
// given; callers that need deterministic ordering (Scan does) should sort
// before calling Build.
func Build(root string, symbols []model.Symbol) *Index {
	idx := &Index{
		root:    root,
		symbols: symbols,
		byName:  make(map[string][]*model.Symbol),
		byFile:  make(map[string][]*model.Symbol),
	}
	for i := range idx.symbols {
		s := &idx.symbols[i]
		idx.byName[s.Name] = append(idx.byName[s.Name], s)
		idx.byFile[s.File] = append(idx.byFile[s.File], s)
	}
	return idx
}

// Root returns the workspace root this index was built from.
func (x *Index) Root() string { return x.root }

// All returns every indexed symbol, in build order.
func (x *Index) All() []model.Symbol {
	out := make([]model.Symbol, len(x.symbols))
	copy(out, x.symbols)
	return out
}

// Lookup returns every symbol declared with the given name, across every
// file in the workspace.
func (x *Index) Lookup(name string) []model.Symbol {
	ptrs := x.byName[name]
	out := make([]model.Symbol, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

// Canonical returns the preferred declaration for name: the first non-extern
// declaration if one exists, else the first extern declaration encountered.
// A C translation unit can see many "extern int x;" re-declarations beside
// one real definition; checks that need "the" type or signature for a name
// use this instead of Lookup.
func (x *Index) Canonical(name string) (model.Symbol, bool) {
	ptrs := x.byName[name]
	if len(ptrs) == 0 {
		return model.Symbol{}, false
	}
	for _, p := range ptrs {
		if !p.IsExtern {
			return *p, true
		}
	}
	return *ptrs[0], true
}

// ByFile returns every symbol declared in file.
func (x *Index) ByFile(file string) []model.Symbol {
	ptrs := x.byFile[file]
	out := make([]model.Symbol, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

// Has reports whether any symbol with the given name is indexed.
func (x *Index) Has(name string) bool {
	return len(x.byName[name]) > 0
}
