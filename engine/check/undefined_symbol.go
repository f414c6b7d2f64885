package check

import (
	"fmt"
	"strings"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// pythonBuiltins never triggers an undefined-symbol warning: builtins,
// standard exception types, and the handful of typing/dataclass names
// common enough to treat as ambient.
var pythonBuiltins = map[string]bool{
	"print": true, "len": true, "range": true, "int": true, "str": true, "float": true,
	"bool": true, "list": true, "dict": true, "tuple": true, "set": true, "frozenset": true,
	"type": true, "isinstance": true, "issubclass": true, "hasattr": true, "getattr": true,
	"setattr": true, "delattr": true, "property": true, "staticmethod": true, "classmethod": true,
	"super": true, "object": true, "None": true, "True": true, "False": true, "abs": true,
	"all": true, "any": true, "ascii": true, "bin": true, "breakpoint": true, "bytearray": true,
	"bytes": true, "callable": true, "chr": true, "compile": true, "complex": true,
	"copyright": true, "credits": true, "dir": true, "divmod": true, "enumerate": true,
	"eval": true, "exec": true, "exit": true, "filter": true, "format": true, "globals": true,
	"hash": true, "help": true, "hex": true, "id": true, "input": true, "iter": true,
	"license": true, "locals": true, "map": true, "max": true, "memoryview": true, "min": true,
	"next": true, "oct": true, "open": true, "ord": true, "pow": true, "quit": true, "repr": true,
	"reversed": true, "round": true, "slice": true, "sorted": true, "sum": true, "vars": true,
	"zip": true, "__import__": true, "NotImplemented": true, "Ellipsis": true, "__name__": true,
	"__file__": true, "__doc__": true, "__package__": true, "__spec__": true, "__loader__": true,
	"__builtins__": true,
	"Exception": true, "BaseException": true, "ValueError": true, "TypeError": true,
	"KeyError": true, "IndexError": true, "AttributeError": true, "ImportError": true,
	"ModuleNotFoundError": true, "FileNotFoundError": true, "OSError": true, "IOError": true,
	"RuntimeError": true, "StopIteration": true, "GeneratorExit": true, "SystemExit": true,
	"KeyboardInterrupt": true, "ArithmeticError": true, "ZeroDivisionError": true,
	"OverflowError": true, "FloatingPointError": true, "LookupError": true, "NameError": true,
	"UnboundLocalError": true, "SyntaxError": true, "IndentationError": true, "TabError": true,
	"SystemError": true, "UnicodeError": true, "UnicodeDecodeError": true,
	"UnicodeEncodeError": true, "UnicodeTranslateError": true, "Warning": true,
	"DeprecationWarning": true, "PendingDeprecationWarning": true, "RuntimeWarning": true,
	"SyntaxWarning": true, "ResourceWarning": true, "FutureWarning": true, "ImportWarning": true,
	"UnicodeWarning": true, "BytesWarning": true, "UserWarning": true, "AssertionError": true,
	"NotImplementedError": true, "RecursionError": true, "StopAsyncIteration": true,
	"ConnectionError": true, "BrokenPipeError": true, "ConnectionAbortedError": true,
	"ConnectionRefusedError": true, "ConnectionResetError": true, "BlockingIOError": true,
	"ChildProcessError": true, "FileExistsError": true, "InterruptedError": true,
	"IsADirectoryError": true, "NotADirectoryError": true, "PermissionError": true,
	"ProcessLookupError": true, "TimeoutError": true,
	"dataclass": true, "field": true, "abstractmethod": true, "override": true,
	"Optional": true, "Union": true, "List": true, "Dict": true, "Tuple": true, "Set": true,
	"Any": true, "Callable": true, "Iterator": true, "Generator": true, "Iterable": true,
	"Sequence": true, "Mapping": true, "MutableMapping": true, "TypeVar": true, "Generic": true,
	"Protocol": true,
}

var pythonCommonGlobals = map[string]bool{
	"self": true, "cls": true, "__name__": true, "__file__": true, "__doc__": true,
	"__all__": true, "__version__": true, "__author__": true, "__package__": true,
}

// cStdlibFunctions never triggers an undefined-function warning; it also
// covers the unsafe functions unsafe_function.go separately flags — they
// ARE defined, just discouraged.
var cStdlibFunctions = map[string]bool{
	"printf": true, "fprintf": true, "sprintf": true, "snprintf": true, "scanf": true,
	"fscanf": true, "sscanf": true, "vsprintf": true, "vsnprintf": true, "vscanf": true,
	"vfscanf": true, "vsscanf": true, "fopen": true, "fclose": true, "fread": true,
	"fwrite": true, "fgets": true, "fputs": true, "feof": true, "fseek": true, "ftell": true,
	"perror": true, "puts": true, "getchar": true, "putchar": true, "getc": true, "putc": true,
	"fgetc": true, "fputc": true, "gets": true, "gets_s": true, "rewind": true,
	"freopen": true, "tmpfile": true, "tmpnam": true, "tempnam": true, "setbuf": true,
	"setvbuf": true, "ungetc": true, "fflush": true, "ferror": true, "clearerr": true,
	"malloc": true, "calloc": true, "realloc": true, "free": true, "alloca": true,
	"exit": true, "abort": true, "atexit": true, "_exit": true, "at_quick_exit": true,
	"quick_exit": true, "system": true, "getenv": true, "secure_getenv": true, "abs": true,
	"labs": true, "llabs": true, "div": true, "ldiv": true, "lldiv": true, "rand": true,
	"srand": true, "random": true, "srandom": true, "drand48": true, "srand48": true,
	"atoi": true, "atol": true, "atoll": true, "atof": true, "strtol": true, "strtoul": true,
	"strtoll": true, "strtoull": true, "strtod": true, "strtof": true, "strtold": true,
	"qsort": true, "bsearch": true, "memcpy": true, "memset": true, "memmove": true,
	"memcmp": true, "memchr": true, "strcpy": true, "strncpy": true, "strcat": true,
	"strncat": true, "strcmp": true, "strncmp": true, "strlen": true, "strstr": true,
	"strchr": true, "strrchr": true, "strtok": true, "strtok_r": true, "strdup": true,
	"strndup": true, "stpcpy": true, "strlcpy": true, "strlcat": true, "bcopy": true,
	"bzero": true, "isalpha": true, "isdigit": true, "isalnum": true, "isspace": true,
	"isupper": true, "islower": true, "isprint": true, "iscntrl": true, "ispunct": true,
	"isxdigit": true, "isgraph": true, "toupper": true, "tolower": true, "time": true,
	"clock": true, "difftime": true, "mktime": true, "ctime": true, "ctime_r": true,
	"asctime": true, "asctime_r": true, "gmtime": true, "gmtime_r": true, "localtime": true,
	"localtime_r": true, "strftime": true, "fork": true, "vfork": true, "execl": true,
	"execle": true, "execlp": true, "execv": true, "execvp": true, "execve": true,
	"popen": true, "pclose": true, "wait": true, "waitpid": true, "pipe": true, "dup": true,
	"dup2": true, "signal": true, "sigaction": true, "raise": true, "kill": true,
	"open": true, "close": true, "read": true, "write": true, "lseek": true, "ioctl": true,
	"select": true, "poll": true, "getlogin": true, "getpwuid": true, "getuid": true,
	"geteuid": true, "sleep": true, "usleep": true, "nanosleep": true, "mkstemp": true,
	"mkdtemp": true, "mktemp": true, "putenv": true, "ftime": true, "va_start": true, "va_end": true, "va_arg": true, "va_copy": true,
	"assert": true, "sizeof": true, "offsetof": true, "NULL": true, "EOF": true, "main": true,
}

// CheckUndefinedSymbol flags a Python read or a call (either language)
// whose name resolves to nothing: not a buffer symbol, not anywhere in the
// repository index, not an import, and not a builtin/stdlib name. A
// wildcard import ("from x import *") suppresses the Python checks
// entirely, since any name could plausibly have come from it.
func CheckUndefinedSymbol(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	lang := LanguageOf(file)
	if lang == "" {
		return diags
	}

	known := make(map[string]bool)
	for _, s := range symbols {
		known[s.Name] = true
	}
	for _, s := range idx.All() {
		known[s.Name] = true
	}
	for _, ref := range refs {
		if ref.Kind == model.RefImport {
			for _, n := range ref.ImportedNames {
				known[n] = true
			}
		}
	}

	switch lang {
	case "python":
		if model.HasWildcardImport(refs) {
			return diags
		}
		isKnown := func(name string) bool {
			return known[name] || pythonBuiltins[name] || pythonCommonGlobals[name]
		}
		for _, ref := range refs {
			if ref.Kind != model.RefRead || isKnown(ref.Name) {
				continue
			}
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityWarning, Code: model.CodeUndefinedSymbol,
				Message: fmt.Sprintf("'%s' is not defined in this file, the repository, or Python builtins.", ref.Name),
			})
		}
		for _, ref := range refs {
			if ref.Kind != model.RefCall || strings.Contains(ref.Name, ".") || isKnown(ref.Name) {
				continue
			}
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityWarning, Code: model.CodeUndefinedSymbol,
				Message: fmt.Sprintf("Function '%s' is not defined in this file, the repository, or Python builtins.", ref.Name),
			})
		}

	case "c":
		for _, ref := range refs {
			if ref.Kind != model.RefCall || known[ref.Name] || cStdlibFunctions[ref.Name] {
				continue
			}
			diags = append(diags, model.Diagnostic{
				File: file, Line: ref.Line, Severity: model.SeverityWarning, Code: model.CodeUndefinedSymbol,
				Message: fmt.Sprintf("Function '%s' is not defined in this file, the repository, or the C standard library.", ref.Name),
			})
		}
	}

	return diags
}
