package model

// ReferenceKind enumerates the closed set of use-sites the extractor
// recognizes.
type ReferenceKind string

const (
	RefRead         ReferenceKind = "read"
	RefCall         ReferenceKind = "call"
	RefArrayAccess  ReferenceKind = "array_access"
	RefArrayWrite   ReferenceKind = "array_write"
	RefFormatCall   ReferenceKind = "format_call"
	RefImport       ReferenceKind = "import"
	RefReturnValue  ReferenceKind = "return_value"
	RefAssignment   ReferenceKind = "assignment"
	RefMemberAccess ReferenceKind = "member_access"
)

// Reference is a use-site, tagged by Kind. Only the fields relevant to that
// kind are populated; a flat struct (rather than one concrete type per kind)
// is used deliberately so the extraction walkers can build and discard these
// cheaply and so the type round-trips through JSON without a custom
// marshaler.
type Reference struct {
	Kind ReferenceKind
	Name string
	Line int

	// call, format_call
	ArgCount int
	ArgTypes []string // per-positional inferred type; empty entry means unresolved

	// array_access, array_write
	IndexValue    int
	HasIndexValue bool

	// array_write
	InferredType string
	RHSName      string
	HasRHSName   bool

	// format_call
	FormatSpecifiers int
	FormatString     string

	// import
	ImportedNames []string
	ModuleName    string

	// return_value
	ReturnValueType    string
	DeclaredReturnType string
	Scope              string

	// assignment
	AnnotationType string

	// member_access
	MemberName string
}

// HasWildcardImport reports whether refs contains an import reference whose
// imported names include the wildcard marker "*".
func HasWildcardImport(refs []Reference) bool {
	for _, r := range refs {
		if r.Kind != RefImport {
			continue
		}
		for _, n := range r.ImportedNames {
			if n == "*" {
				return true
			}
		}
	}
	return false
}
