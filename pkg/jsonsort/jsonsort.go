// Package jsonsort provides a public Go API for canonicalizing JSON
// documents: object keys sorted, consistent indentation and a single line
// ending convention.
//
// Sorting a document in memory:
//
//	out, err := jsonsort.SortText(`{"b":1,"a":2}`, jsonsort.WithSpaces(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(out)
//
// Sorting files and directories in place:
//
//	outcomes, err := jsonsort.SortPaths(ctx, []string{"./config"},
//	    jsonsort.WithSortArrays(),
//	    jsonsort.WithExclude("fixtures/**"),
//	)
package jsonsort

import (
	"context"
	"log/slog"

	"github.com/hupe1980/jsonsort/internal/canon"
	"github.com/hupe1980/jsonsort/internal/engine"
	"github.com/hupe1980/jsonsort/internal/fileset"
	"github.com/hupe1980/jsonsort/internal/lineending"
	"github.com/hupe1980/jsonsort/internal/logging"
	"github.com/hupe1980/jsonsort/internal/maputil"
)

// ErrorKind classifies why a document could not be sorted.
type ErrorKind = canon.ErrorKind

// Error kinds.
const (
	NotFound   = canon.NotFound
	ReadError  = canon.ReadError
	ParseError = canon.ParseError
	WriteError = canon.WriteError
)

// Error is a classified failure.
type Error = canon.Error

// Outcome is the result of processing one file.
type Outcome = engine.Outcome

// KindOf returns the kind of a failure returned by this package.
func KindOf(err error) (ErrorKind, bool) {
	return canon.KindOf(err)
}

// Option configures a sort.
type Option func(*options)

type options struct {
	format  canon.FormatConfig
	dryRun  bool
	ignore  []string
	exclude []string
	logger  *slog.Logger
	err     error
}

// WithSpaces indents with n spaces per level.
func WithSpaces(n int) Option {
	return func(o *options) {
		o.format.IndentChar = ' '
		o.format.IndentCount = n
	}
}

// WithTabs indents with n tabs per level. One tab is the default.
func WithTabs(n int) Option {
	return func(o *options) {
		o.format.IndentChar = '\t'
		o.format.IndentCount = n
	}
}

// WithSortArrays sorts arrays whose elements are all strings,
// case-insensitively.
func WithSortArrays() Option { return func(o *options) { o.format.SortArrays = true } }

// WithLineEnding forces a line ending: "auto", "lf", "crlf" or "cr".
// Unknown values are reported by the sort functions.
func WithLineEnding(name string) Option {
	return func(o *options) {
		o.format.LineEnding, o.err = lineending.Parse(name)
	}
}

// WithDryRun computes outcomes for SortPaths without writing files.
func WithDryRun() Option { return func(o *options) { o.dryRun = true } }

// WithIgnore appends path substrings to the built-in ignore table.
func WithIgnore(substrings ...string) Option {
	return func(o *options) { o.ignore = append(o.ignore, substrings...) }
}

// WithExclude adds doublestar glob patterns for SortPaths.
func WithExclude(patterns ...string) Option {
	return func(o *options) { o.exclude = append(o.exclude, patterns...) }
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

func newOptions(opts []Option) *options {
	o := &options{format: canon.DefaultFormatConfig()}

	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	return o
}

func (o *options) validate() error {
	if o.err != nil {
		return o.err
	}

	return o.format.Validate()
}

// SortText canonicalizes a single JSON document held in memory.
func SortText(input string, opts ...Option) (string, error) {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return "", err
	}

	return canon.SortText(input, o.format)
}

// SortPaths sorts every JSON file below roots in place and returns one
// outcome per file. The error is only non-nil for invalid options; per-file
// failures are reported in the outcomes.
func SortPaths(ctx context.Context, roots []string, opts ...Option) ([]Outcome, error) {
	o := newOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	r, err := fileset.New(
		fileset.WithIgnored(o.ignore...),
		fileset.WithExclude(o.exclude...),
		fileset.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}

	e := engine.New(o.format, engine.WithDryRun(o.dryRun), engine.WithLogger(o.logger))

	return engine.SortPaths(ctx, r, e, roots), nil
}

// SortValue returns a sorted copy of a decoded JSON tree built from
// map[string]any and []any. Object keys have no order in Go maps, so only
// array sorting has a visible effect; keys are ordered when the value is
// marshaled. The input is not modified.
func SortValue(v any, opts ...Option) any {
	o := newOptions(opts)

	return canon.SortValue(maputil.DeepCopy(v), o.format.SortArrays)
}
