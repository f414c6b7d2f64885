package engine

import "errors"

// Sentinel boundary errors: caller-facing failure modes that are not
// diagnostics.
var (
	// ErrInvalidWorkspaceRoot is returned when the workspace root passed to
	// Analyze/Refresh/GetSymbols/GetDiagnosticsSnapshot does not exist or is
	// not a directory.
	ErrInvalidWorkspaceRoot = errors.New("engine: invalid workspace root")

	// ErrUnsupportedLanguage names the case of a buffer whose file extension
	// has no registered language provider. Analyze does not return it: such
	// a buffer yields no diagnostics and a nil error.
	ErrUnsupportedLanguage = errors.New("engine: unsupported language")
)
