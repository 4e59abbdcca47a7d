// Package gitstatus lists files with uncommitted changes in a git worktree.
package gitstatus

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/go-git/go-git/v5"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not a git repository")

// ModifiedFiles returns the absolute paths of files whose worktree status is
// modified or renamed in the repository enclosing dir. Untracked, deleted and
// staged-only files are not reported. The result is sorted.
func ModifiedFiles(dir string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}

		return nil, fmt.Errorf("opening repository: %w", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	root := w.Filesystem.Root()

	var files []string

	for name, st := range status {
		switch st.Worktree {
		case git.Modified, git.Renamed:
			files = append(files, filepath.Join(root, filepath.FromSlash(name)))
		}
	}

	slices.Sort(files)

	return files, nil
}
