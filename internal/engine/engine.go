// Package engine runs the canonicalizer over a batch of files.
//
// Files are processed strictly one after another in the order given. Every
// failure is terminal for its file only: it is recorded in the file's
// [Outcome] and the batch continues with the next file.
package engine

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hupe1980/jsonsort/internal/canon"
	"github.com/hupe1980/jsonsort/internal/fileset"
	"github.com/hupe1980/jsonsort/internal/logging"
	"github.com/hupe1980/jsonsort/internal/output"
)

// Outcome is the result of processing one file.
type Outcome struct {
	// Path is the path as resolved, not canonicalized.
	Path string
	// Err is nil on success, otherwise a *canon.Error.
	Err error
	// Changed reports whether the canonical text differs from the file's
	// content. It is only meaningful on success.
	Changed bool
}

// Success reports whether the file was processed without error.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// Kind returns the failure kind, or 0 on success.
func (o Outcome) Kind() canon.ErrorKind {
	kind, _ := canon.KindOf(o.Err)
	return kind
}

// ChangeFunc observes files whose canonical text differs from their content.
// It is called before any write.
type ChangeFunc func(path, before, after string)

// Engine sorts files according to a FormatConfig.
type Engine struct {
	cfg           canon.FormatConfig
	dryRun        bool
	skipUnchanged bool
	onChange      ChangeFunc
	newWriter     output.WriterFactory
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDryRun computes outcomes without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(e *Engine) { e.dryRun = dryRun }
}

// WithSkipUnchanged skips the write for files that are already canonical.
func WithSkipUnchanged(skip bool) Option {
	return func(e *Engine) { e.skipUnchanged = skip }
}

// WithChangeFunc registers fn to observe changed files.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(e *Engine) { e.onChange = fn }
}

// WithWriterFactory replaces the destination used for write-back.
func WithWriterFactory(f output.WriterFactory) Option {
	return func(e *Engine) { e.newWriter = f }
}

// WithLogger sets the logger. Without it the logger is taken from the
// context passed to Run.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine.
func New(cfg canon.FormatConfig, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run processes files in order and returns one outcome per file. The context
// only supplies the logger; a started batch always runs to completion.
func (e *Engine) Run(ctx context.Context, files []string) []Outcome {
	logger := e.logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	outcomes := make([]Outcome, 0, len(files))

	for _, path := range files {
		o := e.sortFile(path, logger)
		if o.Err != nil {
			logger.Debug("sort failed", slog.String("path", path), slog.String("error", o.Err.Error()))
		}

		outcomes = append(outcomes, o)
	}

	return outcomes
}

func (e *Engine) sortFile(path string, logger *slog.Logger) Outcome {
	fail := func(kind canon.ErrorKind, err error) Outcome {
		return Outcome{Path: path, Err: &canon.Error{Kind: kind, Err: err}}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail(canon.NotFound, err)
		}

		return fail(canon.ReadError, err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // paths come from the resolver
	if err != nil {
		return fail(canon.ReadError, err)
	}

	text, err := canon.DecodeText(data)
	if err != nil {
		return Outcome{Path: path, Err: err}
	}

	formatted, err := canon.SortText(text, e.cfg)
	if err != nil {
		return Outcome{Path: path, Err: err}
	}

	changed := formatted != string(data)
	if changed && e.onChange != nil {
		e.onChange(path, string(data), formatted)
	}

	if e.dryRun || (e.skipUnchanged && !changed) {
		return Outcome{Path: path, Changed: changed}
	}

	if err := e.writer(path, logger).Write([]byte(formatted)); err != nil {
		return fail(canon.WriteError, err)
	}

	return Outcome{Path: path, Changed: changed}
}

func (e *Engine) writer(path string, logger *slog.Logger) output.Writer {
	if e.newWriter != nil {
		return e.newWriter(path)
	}

	return output.NewFileWriter(path, output.WithLogger(logger))
}

// SortPaths resolves roots with r and runs the engine over the result.
func SortPaths(ctx context.Context, r *fileset.Resolver, e *Engine, roots []string) []Outcome {
	return e.Run(ctx, r.Resolve(roots))
}

// Summary counts outcomes.
type Summary struct {
	Total   int
	Failed  int
	Changed int
}

// Succeeded returns the number of successful outcomes.
func (s Summary) Succeeded() int {
	return s.Total - s.Failed
}

// Summarize counts successes, failures and changed files.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}

	for _, o := range outcomes {
		switch {
		case !o.Success():
			s.Failed++
		case o.Changed:
			s.Changed++
		}
	}

	return s
}
