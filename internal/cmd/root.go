// Package cmd builds the eolfix command-line interface and wires the
// configuration, traversal, inspection, and reporting pieces together.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrison/eolfix/internal/config"
	"github.com/harrison/eolfix/internal/enforce"
	"github.com/harrison/eolfix/internal/executor"
	"github.com/harrison/eolfix/internal/logger"
	"github.com/harrison/eolfix/internal/reporter"
	"github.com/harrison/eolfix/internal/walker"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for eolfix.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eolfix --glob <pattern> [path...]",
		Short: "Ensure files end with exactly one trailing newline",
		Long: `eolfix scans one or more file trees, selects the files matching the given
glob patterns, and appends a trailing line terminator to every file that
lacks one. Files are never modified beyond that single append; empty files
are left alone.

Traversal honors .gitignore files and skips hidden entries unless told
otherwise. Inspection runs concurrently across files; results stream to the
terminal as they arrive, followed by a summary of counters.

Configuration is loaded from .eolfix.yaml in the working directory if
present. CLI flags override configuration file settings.

Examples:
  # Fix all Go files under the current directory
  eolfix --glob '*.go'

  # Report without modifying, across two trees
  eolfix -g '*.md' -g '*.txt' --dry-run docs/ notes/

  # Include hidden files and ignore .gitignore rules
  eolfix -g '*.yaml' --hidden --no-ignore

  # List every matched file, not only the modified ones
  eolfix -g '*.rs' --list`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE:    runRoot,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.Flags().StringArrayP("glob", "g", nil, "Glob pattern to match (repeatable, required)")
	cmd.Flags().BoolP("dry-run", "n", false, "Report files needing update without modifying them")
	cmd.Flags().Bool("no-ignore", false, "Do not honor .gitignore files")
	cmd.Flags().Bool("hidden", false, "Include hidden files and directories")
	cmd.Flags().Bool("list", false, "List every matched file, not only modified or errored ones")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().Int("max-concurrency", -1, "Maximum number of concurrent workers (0 = number of CPUs, -1 = use config)")
	cmd.Flags().String("config", "", "Path to config file (default: .eolfix.yaml)")
	cmd.Flags().String("log-dir", "", "Directory for run log files (empty = no run log)")

	_ = cmd.MarkFlagRequired("glob")

	return cmd
}

// runRoot implements the root command logic.
func runRoot(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	mergeFlags(cmd, cfg)

	globs, _ := cmd.Flags().GetStringArray("glob")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	terminator, err := enforce.ResolveTerminator(cfg.Newline)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	// Roots named on the command line must exist; failing one up front beats
	// a half-finished scan.
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			return fmt.Errorf("cannot access root path %s: %w", root, err)
		}
	}

	treeWalker, err := walker.New(walker.Options{
		Globs:    globs,
		Hidden:   cfg.Hidden,
		NoIgnore: cfg.NoIgnore,
	})
	if err != nil {
		return err
	}

	var sink reporter.Sink
	if cfg.LogDir != "" {
		runLog, err := logger.NewRunLog(cfg.LogDir, dryRun)
		if err != nil {
			return fmt.Errorf("failed to open run log: %w", err)
		}
		defer runLog.Close()
		sink = runLog
	}

	out := cmd.OutOrStdout()
	printPreamble(cmd, globs, roots, dryRun)

	consumer := reporter.New(out, reporter.Options{
		DryRun:  dryRun,
		ListAll: cfg.List,
		NoColor: cfg.NoColor,
		Sink:    sink,
	})

	inspector := enforce.NewInspector(dryRun, terminator)
	pipeline := executor.New(treeWalker, inspector, consumer, cfg.MaxConcurrency)

	result, err := pipeline.Run(cmd.Context(), roots)
	if err != nil {
		return err
	}

	if result.HasErrors() {
		return fmt.Errorf("%d error(s) occurred", result.ErrorCount)
	}
	return nil
}

// mergeFlags applies explicitly set CLI flags over the loaded configuration.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("max-concurrency") {
		if value, _ := cmd.Flags().GetInt("max-concurrency"); value >= 0 {
			cfg.MaxConcurrency = value
		}
	}
	if cmd.Flags().Changed("log-dir") {
		cfg.LogDir, _ = cmd.Flags().GetString("log-dir")
	}
	if cmd.Flags().Changed("no-color") {
		cfg.NoColor, _ = cmd.Flags().GetBool("no-color")
	}
	if cmd.Flags().Changed("hidden") {
		cfg.Hidden, _ = cmd.Flags().GetBool("hidden")
	}
	if cmd.Flags().Changed("no-ignore") {
		cfg.NoIgnore, _ = cmd.Flags().GetBool("no-ignore")
	}
	if cmd.Flags().Changed("list") {
		cfg.List, _ = cmd.Flags().GetBool("list")
	}
}

// printPreamble echoes the effective patterns, roots, and mode before the
// scan starts.
func printPreamble(cmd *cobra.Command, globs, roots []string, dryRun bool) {
	out := cmd.OutOrStdout()
	for _, glob := range globs {
		fmt.Fprintf(out, "glob: %s\n", glob)
	}
	for _, root := range roots {
		fmt.Fprintf(out, "path: %s\n", root)
	}
	if dryRun {
		fmt.Fprintln(out, "DRY RUN")
	}
	fmt.Fprintln(out)
}
