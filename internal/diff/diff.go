// Package diff renders unified diffs between a file's content and its
// canonical form.
//
// Lines are compared with their terminators normalized, so CR-only documents
// diff line by line and a change of newline convention does not turn every
// line into an identical-looking -/+ pair. Such changes are reported as a
// note instead.
package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/hupe1980/jsonsort/internal/lineending"
)

// Result holds the result of a unified diff computation.
type Result struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	OldLabel       string
	NewLabel       string
	// OldEnding and NewEnding are the detected newline conventions, or
	// SystemDefault for a document without any newline.
	OldEnding lineending.LineEnding
	NewEnding lineending.LineEnding
}

// EndingNote describes a change of line endings, or returns "" when line
// endings are unchanged.
func (r *Result) EndingNote() string {
	switch {
	case r.OldEnding != r.NewEnding &&
		r.OldEnding != lineending.SystemDefault && r.NewEnding != lineending.SystemDefault:
		return fmt.Sprintf("line endings changed (%s -> %s)", r.OldEnding, r.NewEnding)
	case r.HasDifferences && r.Unified == "":
		return "line endings changed"
	default:
		return ""
	}
}

// Describe summarizes the change in a few words, e.g. "2 hunks".
func (r *Result) Describe() string {
	note := r.EndingNote()

	if len(r.Hunks) == 0 {
		return note
	}

	unit := "hunks"
	if len(r.Hunks) == 1 {
		unit = "hunk"
	}

	desc := fmt.Sprintf("%d %s", len(r.Hunks), unit)
	if note != "" {
		desc += ", " + note
	}

	return desc
}

// Options configures diff computation.
type Options struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultOptions returns the default diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel: "original",
		NewLabel: "sorted",
		Context:  3,
	}
}

// ForPath returns options labelled a/<path> and b/<path>.
func ForPath(path string) Options {
	opts := DefaultOptions()
	opts.OldLabel = "a/" + path
	opts.NewLabel = "b/" + path

	return opts
}

// Compute computes a unified diff between two documents.
func Compute(oldDoc, newDoc string, opts Options) (*Result, error) {
	d := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	var hunks []string
	if unified != "" {
		hunks = extractHunks(unified)
	}

	return &Result{
		Unified:        unified,
		HasDifferences: unified != "" || oldDoc != newDoc,
		Hunks:          hunks,
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
		OldEnding:      endingOf(oldDoc),
		NewEnding:      endingOf(newDoc),
	}, nil
}

func endingOf(doc string) lineending.LineEnding {
	le, _ := lineending.Detect(doc)
	return le
}

// extractHunks splits unified diff output into individual hunks. The file
// header lines belong to the first hunk.
func extractHunks(unified string) []string {
	var (
		hunks   []string
		current strings.Builder
	)

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		if strings.HasPrefix(line, "@@") && current.Len() > 0 {
			hunks = append(hunks, current.String())
			current.Reset()
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if current.Len() > 0 {
		hunks = append(hunks, current.String())
	}

	return hunks
}

// Printer writes diffs, optionally colorized.
type Printer struct {
	header  *color.Color
	hunk    *color.Color
	removed *color.Color
	added   *color.Color
}

// NewPrinter creates a Printer. Colors are forced on or off regardless of
// the terminal, so callers decide once whether output is colorized.
func NewPrinter(colored bool) *Printer {
	p := &Printer{
		header:  color.New(color.Bold),
		hunk:    color.New(color.FgCyan),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}

	for _, c := range []*color.Color{p.header, p.hunk, p.removed, p.added} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// Write writes result to w. Identical documents produce no output. A change
// of line endings is printed as a trailing "\ " note line.
func (p *Printer) Write(w io.Writer, result *Result) {
	if !result.HasDifferences {
		return
	}

	body := result.Unified
	if body == "" {
		body = fmt.Sprintf("--- %s\n+++ %s\n", result.OldLabel, result.NewLabel)
	}

	for _, line := range strings.Split(strings.TrimSuffix(body, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			_, _ = p.header.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			_, _ = p.hunk.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			_, _ = p.removed.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			_, _ = p.added.Fprintln(w, line)
		default:
			_, _ = fmt.Fprintln(w, line)
		}
	}

	if note := result.EndingNote(); note != "" {
		_, _ = p.hunk.Fprintln(w, `\ `+note)
	}
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits a string into lines for diff processing. CRLF, LF and CR
// all terminate a line. Every element ends in exactly one "\n", including an
// unterminated last line, so difflib never joins two output lines.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(newlines.Replace(s), "\n")

	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}

	lines[last] += "\n"

	return lines
}
