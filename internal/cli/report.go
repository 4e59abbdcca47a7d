package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hupe1980/jsonsort/internal/engine"
)

// reporter writes the human-readable run report.
type reporter struct {
	w     io.Writer
	quiet bool

	ok      *color.Color
	fail    *color.Color
	notice  *color.Color
	summary *color.Color
}

func newReporter(w io.Writer, colored, quiet bool) *reporter {
	r := &reporter{
		w:       w,
		quiet:   quiet,
		ok:      color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		notice:  color.New(color.FgYellow, color.Bold),
		summary: color.New(color.FgGreen, color.Bold),
	}

	for _, c := range []*color.Color{r.ok, r.fail, r.notice, r.summary} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return r
}

// useColor reports whether output to w should be colorized.
func useColor(w io.Writer, noColor bool) bool {
	if noColor || color.NoColor {
		return false
	}

	return isTerminal(w)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

// outcome writes "<path> - OK" or "<path> - <ErrorKind>".
func (r *reporter) outcome(o engine.Outcome) {
	if r.quiet {
		return
	}

	if o.Success() {
		_, _ = fmt.Fprintf(r.w, "%s - %s\n", displayPath(o.Path), r.ok.Sprint("OK"))
		return
	}

	_, _ = fmt.Fprintf(r.w, "%s - %s\n", displayPath(o.Path), r.fail.Sprint(o.Kind()))
}

// totals writes the closing summary of a batch run.
func (r *reporter) totals(s engine.Summary, dryRun, check bool) {
	if r.quiet {
		return
	}

	_, _ = fmt.Fprintln(r.w)

	if dryRun {
		_, _ = r.notice.Fprintln(r.w, "--- DRY RUN ---")
	}

	switch {
	case s.Total == 0:
		_, _ = r.fail.Fprintln(r.w, "The inputs don't lead to any json files! Exiting.")
		return
	case s.Failed > 0:
		_, _ = r.summary.Fprintf(r.w, "%d files sorted\n", s.Succeeded())
		_, _ = r.fail.Fprintf(r.w, "%d files could not be sorted\n", s.Failed)
	default:
		_, _ = r.summary.Fprintf(r.w, "%d files sorted\n", s.Succeeded())
	}

	if check && s.Changed > 0 {
		_, _ = r.notice.Fprintf(r.w, "%d files are not sorted\n", s.Changed)
	}
}

// unsortedFile is a file that --check found not canonically formatted.
type unsortedFile struct {
	path   string
	change string
}

// unsorted lists the files --check would rewrite, with the size of each change.
func (r *reporter) unsorted(files []unsortedFile) {
	if r.quiet {
		return
	}

	for _, f := range files {
		if f.change == "" {
			_, _ = fmt.Fprintf(r.w, "  %s\n", f.path)
			continue
		}

		_, _ = fmt.Fprintf(r.w, "  %s: %s\n", f.path, f.change)
	}
}

// info writes a plain message unless quiet.
func (r *reporter) info(msg string) {
	if r.quiet {
		return
	}

	_, _ = fmt.Fprintln(r.w, msg)
}

// errorf writes an error message, even when quiet.
func (r *reporter) errorf(format string, args ...any) {
	_, _ = r.fail.Fprintf(r.w, format+"\n", args...)
}

// displayPath renders path relative to the working directory as "./rel".
// Paths outside the working directory are shown absolute.
func displayPath(path string) string {
	if full, err := canonical(path); err == nil {
		if cwd, cwdErr := canonical("."); cwdErr == nil {
			if rel, relErr := filepath.Rel(cwd, full); relErr == nil && !isOutside(rel) {
				return "./" + filepath.ToSlash(rel)
			}
		}

		return full
	}

	if filepath.IsAbs(path) {
		return path
	}

	return "./" + strings.TrimPrefix(filepath.ToSlash(path), "./")
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

func isOutside(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
