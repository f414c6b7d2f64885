// Command snipe is a thin CLI adapter over the engine package: useful for
// exercising the analyzer end-to-end from a terminal, layered strictly on
// the engine's public API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/snipeproj/snipe/engine"
	"github.com/snipeproj/snipe/engine/index"
	"github.com/snipeproj/snipe/engine/model"
	"github.com/snipeproj/snipe/internal/config"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "snipe",
		Short: "Local static-analysis engine demo CLI",
		Long:  "Exercises the symbol/reference extractor, repository index, and diagnostic rule pipeline from the command line.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(os.Args[1:])
			return err
		},
	}

	root.AddCommand(analyzeCmd(&cfg), refreshCmd(&cfg), symbolsCmd(&cfg), diagnosticsCmd(&cfg))

	if err := root.Execute(); err != nil {
		fmt.Println(red("Error:"), err)
		os.Exit(1)
	}
}

func buildEngine(cfg *config.Config) *engine.Engine {
	return engine.New(engine.WithScanConfig(index.ScanConfig{
		MaxBytes:     cfg.MaxBytes,
		IncludeGlobs: cfg.IncludeGlobs,
		ExcludeGlobs: cfg.ExcludeGlobs,
		NoGitignore:  cfg.NoGitignore,
		Workers:      cfg.Workers,
	}))
}

func analyzeCmd(cfg **config.Config) *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a buffer's unsaved contents against the repository index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			path := args[0]
			buf, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			if showDiff {
				printDiff(path, buf)
			}

			eng := buildEngine(c)
			diags, err := eng.Analyze(context.Background(), buf, path, c.WorkspaceRoot)
			if err != nil {
				return err
			}
			printDiagnostics(c, diags)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showDiff, "diff", "D", false, "Show a unified diff of the buffer against the on-disk file before analyzing. The buffer is read from that same file, so no diff is ever printed.")
	return cmd
}

func refreshCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the repository index for the workspace root",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			eng := buildEngine(c)
			if err := eng.Refresh(context.Background(), c.WorkspaceRoot); err != nil {
				return err
			}
			fmt.Println(green("✓"), "repository index rebuilt for", c.WorkspaceRoot)
			return nil
		},
	}
}

func symbolsCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the repository's indexed symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			eng := buildEngine(c)
			symbols, err := eng.GetSymbols(context.Background(), c.WorkspaceRoot)
			if err != nil {
				return err
			}
			if c.JSONOutput {
				return json.NewEncoder(os.Stdout).Encode(symbols)
			}
			for _, s := range symbols {
				fmt.Printf("%s %s %s:%d", cyan(s.Kind), bold(s.Name), s.File, s.Line)
				if s.Type != "" {
					fmt.Printf(" : %s", s.Type)
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func diagnosticsCmd(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Show the most recently reported diagnostic snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			// A fresh process has analyzed nothing, so read the snapshot the
			// last analyze run persisted in the workspace state directory.
			data, err := os.ReadFile(filepath.Join(c.WorkspaceRoot, ".snipe", "diagnostics.json"))
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("reading diagnostics snapshot: %w", err)
			}
			var diags []model.Diagnostic
			if len(data) > 0 {
				if err := json.Unmarshal(data, &diags); err != nil {
					return fmt.Errorf("decoding diagnostics snapshot: %w", err)
				}
			}
			printDiagnostics(c, diags)
			return nil
		},
	}
}

func printDiagnostics(cfg *config.Config, diags []model.Diagnostic) {
	if cfg.JSONOutput {
		json.NewEncoder(os.Stdout).Encode(diags)
		return
	}
	if len(diags) == 0 {
		fmt.Println(green("✓"), "no diagnostics")
		return
	}
	for _, d := range diags {
		severity := yellow(d.Severity)
		if d.Severity == model.SeverityError {
			severity = red(d.Severity)
		}
		fmt.Printf("%s:%d %s %s %s\n", d.File, d.Line, severity, cyan(d.Code), d.Message)
	}
}

func printDiff(path string, buf []byte) {
	onDisk, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if string(onDisk) == string(buf) {
		return
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(onDisk)),
		B:        difflib.SplitLines(string(buf)),
		FromFile: filepath.Base(path),
		ToFile:   filepath.Base(path) + " (buffer)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return
	}
	fmt.Println(text)
}
