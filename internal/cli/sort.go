package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/jsonsort/internal/canon"
	"github.com/hupe1980/jsonsort/internal/config"
	"github.com/hupe1980/jsonsort/internal/diff"
	"github.com/hupe1980/jsonsort/internal/engine"
	"github.com/hupe1980/jsonsort/internal/fileset"
	"github.com/hupe1980/jsonsort/internal/gitstatus"
	"github.com/hupe1980/jsonsort/internal/logging"
	"github.com/hupe1980/jsonsort/internal/output"
)

type sortOptions struct {
	git   bool
	diff  bool
	check bool
}

func runSort(cmd *cobra.Command, args []string, opts sortOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	fc, err := cfg.FormatConfig()
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	rep := newReporter(cmd.ErrOrStderr(), useColor(cmd.ErrOrStderr(), cfg.NoColor), cfg.ReportQuiet())

	if !opts.git && len(args) == 0 {
		logger.Debug("reading document from stdin")
		return runStdin(cmd, rep, fc, opts)
	}

	roots := args

	if opts.git {
		logger.Debug("reading paths from git")

		roots, err = gitRoots()
		if err != nil {
			logger.Debug("reading git status failed", slog.String("error", err.Error()))
			rep.errorf("fatal: not a git repository")

			return &ExitError{Code: ExitFailure}
		}
	}

	resolver, err := fileset.New(
		fileset.WithIgnored(cfg.Ignore...),
		fileset.WithExclude(cfg.Exclude...),
		fileset.WithLogger(logger),
	)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	dryRun := cfg.DryRun || opts.check

	engineOpts := []engine.Option{
		engine.WithDryRun(dryRun),
		engine.WithLogger(logger),
	}

	var unsorted []unsortedFile

	if opts.diff || opts.check {
		printer := diff.NewPrinter(useColor(cmd.OutOrStdout(), cfg.NoColor))
		engineOpts = append(engineOpts, engine.WithChangeFunc(func(path, before, after string) {
			label := displayPath(path)

			result, ok := computeDiff(label, before, after, logger)
			if !ok {
				return
			}

			if opts.diff {
				printer.Write(cmd.OutOrStdout(), result)
			}

			if opts.check {
				unsorted = append(unsorted, unsortedFile{path: label, change: result.Describe()})
			}
		}))
	}

	outcomes := engine.SortPaths(ctx, resolver, engine.New(fc, engineOpts...), roots)
	for _, o := range outcomes {
		rep.outcome(o)
	}

	summary := engine.Summarize(outcomes)
	rep.totals(summary, dryRun, opts.check)
	rep.unsorted(unsorted)

	switch {
	case summary.Total == 0, summary.Failed > 0:
		return &ExitError{Code: ExitFailure}
	case opts.check && summary.Changed > 0:
		return &ExitError{Code: ExitChanged}
	default:
		return nil
	}
}

// runStdin sorts a single document from stdin to stdout.
func runStdin(cmd *cobra.Command, rep *reporter, fc canon.FormatConfig, opts sortOptions) error {
	in := cmd.InOrStdin()
	if isTerminal(in) {
		return &ExitError{Code: ExitUsage, Err: errors.New(
			"no paths given and stdin is a terminal: pass paths, --git, or pipe a JSON document")}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		rep.errorf("Error reading input: %v", err)
		return &ExitError{Code: ExitFailure}
	}

	if len(data) == 0 {
		rep.info("No input")
		return &ExitError{Code: ExitFailure}
	}

	text, err := canon.DecodeText(data)
	if err == nil {
		var sorted string

		sorted, err = canon.SortText(text, fc)
		if err == nil {
			return writeStdinResult(cmd, string(data), sorted, opts)
		}
	}

	kind, _ := canon.KindOf(err)
	logging.FromContext(cmd.Context()).Debug("sorting stdin failed", slog.String("error", err.Error()))
	rep.errorf("Error %s", kind)

	return &ExitError{Code: ExitFailure}
}

func writeStdinResult(cmd *cobra.Command, original, sorted string, opts sortOptions) error {
	changed := original != sorted
	out := cmd.OutOrStdout()

	switch {
	case opts.diff:
		if result, ok := computeDiff("<stdin>", original, sorted, logging.FromContext(cmd.Context())); ok {
			printer := diff.NewPrinter(useColor(out, config.FromContext(cmd.Context()).NoColor))
			printer.Write(out, result)
		}
	case !opts.check:
		if err := output.NewStdoutWriter(out).Write([]byte(sorted)); err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}
	}

	if opts.check && changed {
		return &ExitError{Code: ExitChanged}
	}

	return nil
}

// computeDiff diffs a document against its sorted form. A failure is logged
// at debug level and reported as false.
func computeDiff(label, before, after string, logger *slog.Logger) (*diff.Result, bool) {
	result, err := diff.Compute(before, after, diff.ForPath(label))
	if err != nil {
		logger.Debug("computing diff failed", slog.String("path", label), slog.String("error", err.Error()))
		return nil, false
	}

	return result, true
}

// gitRoots returns the modified files of the repository enclosing the
// working directory.
func gitRoots() ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return gitstatus.ModifiedFiles(cwd)
}
