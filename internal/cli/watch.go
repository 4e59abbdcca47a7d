package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/jsonsort/internal/config"
	"github.com/hupe1980/jsonsort/internal/engine"
	"github.com/hupe1980/jsonsort/internal/fileset"
	"github.com/hupe1980/jsonsort/internal/logging"
	"github.com/hupe1980/jsonsort/internal/watch"
)

func newWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Watch paths and sort JSON files as they change",
		Long: `Watch monitors files and directory trees and re-sorts them whenever
they change. Events are debounced to avoid rapid re-runs.

Only files whose sorted form differs from their content are rewritten,
so the watcher's own writes settle after one extra run.

With no paths, the working directory is watched.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			return runWatch(cmd, args, debounce)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "quiet period before re-sorting")

	return cmd
}

func runWatch(cmd *cobra.Command, roots []string, debounce time.Duration) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	fc, err := cfg.FormatConfig()
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	resolver, err := fileset.New(
		fileset.WithIgnored(cfg.Ignore...),
		fileset.WithExclude(cfg.Exclude...),
		fileset.WithLogger(logger),
	)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	eng := engine.New(fc, engine.WithSkipUnchanged(true), engine.WithLogger(logger))
	rep := newReporter(cmd.ErrOrStderr(), useColor(cmd.ErrOrStderr(), cfg.NoColor), cfg.ReportQuiet())

	runFn := func(runCtx context.Context) (*watch.RunResult, error) {
		outcomes := engine.SortPaths(runCtx, resolver, eng, roots)

		for _, o := range outcomes {
			if !o.Success() || o.Changed {
				rep.outcome(o)
			}
		}

		s := engine.Summarize(outcomes)

		return &watch.RunResult{Files: s.Total, Changed: s.Changed, Failed: s.Failed}, nil
	}

	opts := watch.DefaultOptions()
	opts.Roots = roots
	opts.Logger = logger
	opts.Out = cmd.ErrOrStderr()

	if debounce > 0 {
		opts.Debounce = debounce
	}

	if err := watch.Run(ctx, opts, runFn); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("watch: %w", err)}
	}

	return nil
}
