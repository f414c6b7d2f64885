// Package config assembles the one Config struct the cmd/snipe adapter
// (and any other standalone Engine caller) needs to construct a
// workspace-scoped engine.Engine: a flag set parsed with spf13/pflag, with
// an optional .env file supplying local developer overrides for the same
// values.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config holds everything needed to construct an engine.Engine and drive
// one workspace scan/analyze cycle from the command line.
type Config struct {
	WorkspaceRoot string
	MaxBytes      int64
	NoGitignore   bool
	Workers       int
	IncludeGlobs  []string
	ExcludeGlobs  []string
	JSONOutput    bool
	Verbose       bool
}

const (
	defaultMaxBytes = 5 * 1024 * 1024
)

// Load reads an optional ".env" file for local overrides (workspace root,
// max-bytes, gitignore toggle; silently ignored if absent) and then parses
// args against a flag set seeded from those overrides layered under
// hardcoded defaults.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := pflag.NewFlagSet("snipe", pflag.ContinueOnError)
	// The same argv is also parsed by the CLI layer for its own per-command
	// flags; anything this set doesn't recognize belongs to it.
	fs.ParseErrorsWhitelist.UnknownFlags = true

	root := fs.StringP("root", "r", envOr("SNIPE_ROOT", "."), "Workspace root to scan and analyze against.")
	maxBytes := fs.Int64("max-bytes", envOrInt64("SNIPE_MAX_BYTES", defaultMaxBytes), "Maximum file size to parse during a workspace scan.")
	noGitignore := fs.Bool("no-gitignore", envOrBool("SNIPE_NO_GITIGNORE", false), "Disable .gitignore filtering during a workspace scan.")
	workers := fs.Int("workers", 0, "Worker pool size for the workspace scan, 0 means a built-in default.")
	include := fs.StringSlice("include", nil, "Include glob patterns (relative to root).")
	exclude := fs.StringSlice("exclude", nil, "Exclude glob patterns (relative to root).")
	jsonOutput := fs.BoolP("json", "j", false, "Emit diagnostics as JSON instead of colorized text.")
	verbose := fs.BoolP("verbose", "v", false, "Accepted, but no command reads it: output is the same with or without it.")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	return &Config{
		WorkspaceRoot: *root,
		MaxBytes:      *maxBytes,
		NoGitignore:   *noGitignore,
		Workers:       *workers,
		IncludeGlobs:  *include,
		ExcludeGlobs:  *exclude,
		JSONOutput:    *jsonOutput,
		Verbose:       *verbose,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int64
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func envOrBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return fallback
	}
}
