// Package cli implements the cobra command tree for jsonsort.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/jsonsort/internal/config"
	"github.com/hupe1980/jsonsort/internal/logging"
	"github.com/hupe1980/jsonsort/internal/version"
)

// Process exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitChanged = 3
)

// ExitError wraps an error with a specific process exit code. A nil Err
// means the failure has already been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	return execute(NewRootCommand(), os.Stderr)
}

func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}

		return exitErr.Code
	}

	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)

	return ExitFailure
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var (
		cfgFile string
		opts    sortOptions
	)

	cmd := &cobra.Command{
		Use:   "jsonsort [paths...]",
		Short: "Sort JSON documents by key",
		Long: `jsonsort rewrites JSON files in a canonical form: object keys sorted
by code point, consistent indentation, and a consistent line ending.

Directories are searched recursively. Package-manager and VCS files
(package.json, node_modules, .svn, ...) are never touched.

With no paths, a single document is read from stdin and the sorted
result is written to stdout.`,
		Example: `  jsonsort config/
  jsonsort --spaces --indent-count 4 a.json b.json
  jsonsort --git
  cat in.json | jsonsort --arrays > out.json`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			ok, err := version.GetInfo().Satisfies(cfg.RequiredVersion)
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			if !ok {
				return &ExitError{Code: ExitUsage, Err: fmt.Errorf(
					"jsonsort %s does not satisfy required-version %q", version.GetInfo().Version, cfg.RequiredVersion)}
			}

			logger := logging.Setup(cfg, cmd.ErrOrStderr())

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("configFile", cfg.ConfigFile),
				slog.String("logLevel", cfg.EffectiveLogLevel()),
				slog.Bool("arrays", cfg.Arrays),
				slog.Bool("spaces", cfg.Spaces),
				slog.Int("indentCount", cfg.IndentCount),
				slog.String("lineEnding", cfg.LineEnding),
				slog.Bool("dryRun", cfg.DryRun),
			)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args, opts)
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .jsonsort.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress report output")
	pf.BoolP("verbose", "v", false, "enable debug output (overrides --quiet)")

	// Formatting flags, shared with watch.
	pf.BoolP("arrays", "a", false, "also sort arrays whose elements are all strings")
	pf.BoolP("spaces", "s", false, "indent with spaces instead of tabs")
	pf.IntP("indent-count", "i", 0, "indent characters per level (default: 2 for spaces, 1 for tabs)")
	pf.StringP("line-ending", "l", "auto", "line ending: auto, cr, lf, crlf (auto keeps the file's own)")
	pf.StringSlice("exclude", nil, "glob patterns of paths to skip (repeatable)")

	f := cmd.Flags()
	f.BoolP("dry-run", "d", false, "report what would be sorted without writing")
	f.BoolVarP(&opts.git, "git", "g", false, "sort tracked files with unstaged modifications")
	f.BoolVar(&opts.diff, "diff", false, "print a unified diff for every file that changes")
	f.BoolVar(&opts.check, "check", false, "exit with code 3 if any file is not sorted (implies --dry-run)")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: err}
	})

	registerFlagCompletions(cmd)

	cmd.AddCommand(
		newVersionCommand(),
		newWatchCommand(),
		newConfigCommand(),
		newCompletionCommand(),
	)

	return cmd
}
