package check

import (
	"fmt"

	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
)

// dangerousEntry is one row of the hand-curated risk table.
type dangerousEntry struct {
	category   string
	reason     string
	suggestion string
}

// dangerousFunctions categorizes C standard-library calls the checker
// discourages. Every entry here is a WARNING unless also present in
// removedFunctions, which elevates it to ERROR.
var dangerousFunctions = map[string]dangerousEntry{
	"strcpy": {
		"Unsafe String Handling",
		"Does not bound the number of bytes copied and will overflow the destination buffer on long input",
		"Use strncpy or strlcpy with an explicit bound",
	},
	"strcat": {
		"Unsafe String Handling",
		"Appends without a destination bound and will overflow on long input",
		"Use strncat or strlcat with an explicit bound",
	},
	"gets": {
		"Unsafe String Handling",
		"Reads an unbounded line into a fixed buffer with no way to prevent overflow",
		"Use fgets with an explicit buffer size",
	},
	"sprintf": {
		"Unsafe Formatted Output",
		"Writes formatted output without a destination size bound",
		"Use snprintf with an explicit buffer size",
	},
	"vsprintf": {
		"Unsafe Formatted Output",
		"Writes formatted output without a destination size bound",
		"Use vsnprintf with an explicit buffer size",
	},
	"scanf": {
		"Potentially Unsafe Input",
		"The %s conversion reads an unbounded token into a fixed buffer",
		"Use fgets plus sscanf, or bound %s with a width specifier",
	},
	"gets_s": {
		"Potentially Unsafe Input",
		"Aborts the program on overflow instead of returning an error the caller can handle",
		"Use fgets with an explicit buffer size",
	},
	"tmpnam": {
		"Temporary-File Race",
		"Returns a name that can be claimed by another process between the call and the later open",
		"Use mkstemp, which creates and opens the file atomically",
	},
	"tempnam": {
		"Temporary-File Race",
		"Returns a name that can be claimed by another process between the call and the later open",
		"Use mkstemp, which creates and opens the file atomically",
	},
	"mktemp": {
		"Temporary-File Race",
		"Returns a name that can be claimed by another process between the call and the later open",
		"Use mkstemp, which creates and opens the file atomically",
	},
	"getenv": {
		"Memory/Environment Risk",
		"Returns a pointer into process environment storage that later getenv/putenv/setenv calls may invalidate",
		"Copy the returned string immediately if it must outlive the next environment mutation",
	},
	"putenv": {
		"Memory/Environment Risk",
		"Takes ownership of the string pointer without copying it, so a stack buffer passed in leaves a dangling entry",
		"Use setenv, which copies its arguments",
	},
	"rand": {
		"Weak PRNG",
		"Low-order bits are not uniformly distributed and period is often short and implementation-defined",
		"Use arc4random or a cryptographic RNG for anything security-sensitive",
	},
	"srand": {
		"Weak PRNG",
		"Seeds a generator whose output is not suitable for security-sensitive use",
		"Use arc4random or a cryptographic RNG for anything security-sensitive",
	},
	"atoi": {
		"Unsafe Type Conversion",
		"Has no way to signal a conversion error; invalid input silently becomes 0",
		"Use strtol and check errno/endptr for conversion failures",
	},
	"atol": {
		"Unsafe Type Conversion",
		"Has no way to signal a conversion error; invalid input silently becomes 0",
		"Use strtol and check errno/endptr for conversion failures",
	},
	"atof": {
		"Unsafe Type Conversion",
		"Has no way to signal a conversion error; invalid input silently becomes 0",
		"Use strtod and check errno/endptr for conversion failures",
	},
	"system": {
		"Command-Injection Risk",
		"Passes its argument through a shell, so any attacker-influenced substring is executed",
		"Use fork/exec or posix_spawn with an argument vector instead of a shell command line",
	},
	"popen": {
		"Command-Injection Risk",
		"Passes its argument through a shell, so any attacker-influenced substring is executed",
		"Use fork/exec or posix_spawn with an argument vector instead of a shell command line",
	},
	"signal": {
		"Unsafe Signal Handling",
		"Behavior varies across platforms and the set of functions safely callable from the handler is tiny",
		"Use sigaction, which has well-defined, portable semantics",
	},
	"memcpy": {
		"Dangerous Memory Ops",
		"Performs no bounds checking and has undefined behavior on overlapping regions",
		"Verify both buffers' sizes beforehand, and use memmove if the regions might overlap",
	},
	"strncpy": {
		"Dangerous Memory Ops",
		"Does not guarantee NUL-termination when the source is as long as or longer than the destination",
		"NUL-terminate the destination explicitly afterward, or use strlcpy",
	},
	"bcopy": {
		"Legacy/Obsolete",
		"Removed from POSIX in favor of memmove and retained only for backward compatibility",
		"Use memmove",
	},
	"bzero": {
		"Legacy/Obsolete",
		"Removed from POSIX in favor of memset and retained only for backward compatibility",
		"Use memset",
	},
	"ftime": {
		"Legacy/Obsolete",
		"Marked obsolete in POSIX with no portability guarantee across platforms",
		"Use clock_gettime",
	},
	"tmpfile": {
		"Potentially Unsafe I/O",
		"The file creation mode is not controllable and can race on some platforms",
		"Use mkstemp when the creation mode and location matter",
	},
	"getlogin": {
		"Unreliable Environment Info",
		"Depends on controlling-terminal state that is frequently absent (daemons, containers) and fails silently",
		"Use getpwuid(geteuid()) to resolve the invoking user reliably",
	},
	"ctime": {
		"Thread-Unsafe Time",
		"Writes into a static buffer shared across calls and threads",
		"Use ctime_r or strftime with a caller-owned buffer",
	},
	"asctime": {
		"Thread-Unsafe Time",
		"Writes into a static buffer shared across calls and threads",
		"Use asctime_r or strftime with a caller-owned buffer",
	},
	"localtime": {
		"Thread-Unsafe Time",
		"Writes into a static buffer shared across calls and threads",
		"Use localtime_r with a caller-owned buffer",
	},
	"gmtime": {
		"Thread-Unsafe Time",
		"Writes into a static buffer shared across calls and threads",
		"Use gmtime_r with a caller-owned buffer",
	},
	"strtok": {
		"Thread-Unsafe Time",
		"Keeps tokenizing state in a static buffer shared across calls and threads",
		"Use strtok_r with a caller-owned state pointer",
	},
}

// removedFunctions elevates the listed dangerousFunctions entries to ERROR:
// these were dropped from later revisions of the C standard rather than
// merely discouraged.
var removedFunctions = map[string]bool{
	"gets": true,
}

// CheckUnsafeFunction flags a call to a name in the dangerous-function
// table. C only: the table is a C standard-library risk catalog and has no
// dynamic-language analogue in this engine.
func CheckUnsafeFunction(symbols []model.Symbol, refs []model.Reference, idx *index.Index, file string) []model.Diagnostic {
	var diags []model.Diagnostic
	if LanguageOf(file) != "c" {
		return diags
	}

	for _, ref := range refs {
		if ref.Kind != model.RefCall {
			continue
		}
		entry, ok := dangerousFunctions[ref.Name]
		if !ok {
			continue
		}
		severity := model.SeverityWarning
		category := entry.category
		if removedFunctions[ref.Name] {
			severity = model.SeverityError
			category = "Removed from C Standard"
		}
		diags = append(diags, model.Diagnostic{
			File: file, Line: ref.Line, Severity: severity, Code: model.CodeUnsafeFunction,
			Message: fmt.Sprintf("'%s()' — %s. %s. %s.", ref.Name, category, entry.reason, entry.suggestion),
		})
	}

	return diags
}
