// Package model defines the data records shared by the extractor, the
// repository index, and the checker pipeline.
package model

// SymbolKind enumerates the closed set of declaration shapes the extractor
// recognizes.
type SymbolKind string

const (
	KindVariable SymbolKind = "variable"
	KindFunction SymbolKind = "function"
	KindArray    SymbolKind = "array"
	KindClass    SymbolKind = "class"
	KindStruct   SymbolKind = "struct"
)

// Param is one entry in a function Symbol's parameter list. Pack parameters
// (Python *args/**kwargs) are recorded with their marker prefix still in
// Name so checkers that need to exclude them from positional counting can
// filter on it directly.
type Param struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	HasDefault bool   `json:"has_default,omitempty"`
}

// IsPack reports whether this parameter is a variadic positional or keyword
// pack (*args, **kwargs).
func (p Param) IsPack() bool {
	return len(p.Name) > 0 && p.Name[0] == '*'
}

// Field is one member of a struct Symbol.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Symbol is a declaration observed in source: a function, variable, array,
// class or struct. Not every attribute is populated for every kind; see the
// per-kind notes on each field.
type Symbol struct {
	Name  string     `json:"name"`
	Kind  SymbolKind `json:"kind"`
	Type  string     `json:"type,omitempty"`
	File  string     `json:"file_path"`
	Line  int        `json:"line"`
	Scope string     `json:"scope,omitempty"`

	// Array-only. A nil pointer means the size could not be statically
	// determined; present-but-zero is a legitimate empty array.
	ArraySize *int `json:"array_size,omitempty"`

	// Function-only.
	Params     []Param `json:"params,omitempty"`
	ReturnType string  `json:"return_type,omitempty"`
	IsVariadic bool    `json:"is_variadic,omitempty"`

	// C-only.
	IsExtern bool `json:"is_extern,omitempty"`

	// Struct-only.
	Members []Field `json:"members,omitempty"`
}

// HasType reports whether a normalized type string was recovered for this
// symbol.
func (s Symbol) HasType() bool { return s.Type != "" }

// Size returns the array's static size and whether one was recovered.
func (s Symbol) Size() (int, bool) {
	if s.ArraySize == nil {
		return 0, false
	}
	return *s.ArraySize, true
}

// MinRequiredArgs returns the number of positional parameters that must be
// supplied: total parameters minus defaulted and pack parameters.
func (s Symbol) MinRequiredArgs() int {
	n := 0
	for _, p := range s.Params {
		if p.IsPack() || p.HasDefault {
			continue
		}
		n++
	}
	return n
}

// MaxAllowedArgs returns the ceiling on positional argument count, or -1 if
// the symbol is variadic (unbounded).
func (s Symbol) MaxAllowedArgs() int {
	if s.IsVariadic {
		return -1
	}
	n := 0
	for _, p := range s.Params {
		if p.IsPack() {
			continue
		}
		n++
	}
	return n
}

// IsCFile reports whether path belongs to the C/header language bucket.
func IsCFile(path string) bool {
	return hasAnySuffix(path, ".c", ".h")
}

// IsPythonFile reports whether path belongs to the dynamic-language bucket.
func IsPythonFile(path string) bool {
	return hasAnySuffix(path, ".py")
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if len(s) >= len(suf) && s[len(s)-len(suf):] == suf {
			return true
		}
	}
	return false
}
