// Package fileset expands root paths into the concrete files a batch run
// processes.
//
// Directories are walked recursively, following symbolic links, and yield
// regular files only. Everything else is taken as a single candidate, even
// when it does not exist, so a missing path still surfaces as an outcome
// downstream. Candidates are dropped when their canonical path contains an
// ignored substring, matches an exclude glob, or canonicalizes to a path
// that was already accepted.
package fileset

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultIgnored lists package-manager, VCS and build noise. Entries match as
// substrings of the canonical absolute path.
var defaultIgnored = []string{
	"node_modules",
	"package.json",
	"package_lock.json",
	".DS_Store",
	"npm-debug.log",
	".svn",
	"CVS",
	"config.gypi",
	".lock-wscript",
	"package-lock.json",
	"npm-shrinkwrap.json",
}

// DefaultIgnored returns a copy of the built-in ignore table.
func DefaultIgnored() []string {
	return slices.Clone(defaultIgnored)
}

// Resolver expands roots into files. A Resolver holds no state between
// Resolve calls.
type Resolver struct {
	ignored []string
	exclude []string
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIgnored appends substrings to the built-in ignore table.
func WithIgnored(substrings ...string) Option {
	return func(r *Resolver) {
		for _, s := range substrings {
			if s = strings.TrimSpace(s); s != "" {
				r.ignored = append(r.ignored, s)
			}
		}
	}
}

// WithExclude adds doublestar glob patterns. A candidate is excluded when a
// pattern matches, in slash form, either its path as given or, for files
// found by walking a directory, its path relative to that directory.
func WithExclude(patterns ...string) Option {
	return func(r *Resolver) {
		for _, p := range patterns {
			if p = strings.TrimSpace(p); p != "" {
				r.exclude = append(r.exclude, filepath.ToSlash(p))
			}
		}
	}
}

// WithLogger sets a logger for the Resolver.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a Resolver with the built-in ignore table.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		ignored: DefaultIgnored(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	for _, p := range r.exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	return r, nil
}

// Resolve expands roots in order. The result preserves first-seen order and
// is deduplicated by canonical path. Directory order follows the filesystem
// listing and must not be relied on.
func (r *Resolver) Resolve(roots []string) []string {
	var (
		files []string
		seen  = make(map[string]struct{})
	)

	accept := func(path, rel string) {
		canonical, err := canonicalize(path)
		if err != nil {
			// Missing paths are never deduplicated or ignored.
			files = append(files, path)
			return
		}

		if r.ignoredPath(canonical) || r.excluded(path, rel) {
			r.logger.Debug("ignored", slog.String("path", path))
			return
		}

		if _, dup := seen[canonical]; dup {
			r.logger.Debug("duplicate", slog.String("path", path))
			return
		}

		seen[canonical] = struct{}{}
		files = append(files, path)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			accept(root, root)
			continue
		}

		r.walk(root, func(path string) {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}

			accept(path, rel)
		})
	}

	return files
}

// walk visits every regular file below dir, following symbolic links. There
// is no cycle detection.
func (r *Resolver) walk(dir string, visit func(string)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		r.logger.Debug("skipping unreadable directory", slog.String("path", dir), slog.String("error", err.Error()))
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				r.logger.Debug("skipping broken link", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}

			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			r.walk(path, visit)
		case mode.IsRegular():
			visit(path)
		}
	}
}

func (r *Resolver) ignoredPath(canonical string) bool {
	for _, s := range r.ignored {
		if strings.Contains(canonical, s) {
			return true
		}
	}

	return false
}

func (r *Resolver) excluded(path, rel string) bool {
	for _, p := range r.exclude {
		for _, candidate := range []string{filepath.ToSlash(path), filepath.ToSlash(rel)} {
			if ok, err := doublestar.Match(p, candidate); err == nil && ok {
				return true
			}
		}
	}

	return false
}

// canonicalize returns the absolute, symlink-free form of an existing path.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}
