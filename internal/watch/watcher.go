package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a batch run.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult summarizes one batch run.
type RunResult struct {
	Files   int
	Changed int
	Failed  int
}

// Options configures the watch behaviour.
type Options struct {
	// Roots are the files and directories to watch. Directories are
	// watched recursively.
	Roots []string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns the default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. Runs never overlap.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Roots) == 0 {
		return fmt.Errorf("no paths to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, root := range opts.Roots {
		if err := addRoot(watcher, root); err != nil {
			return fmt.Errorf("watching %q: %w", root, err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", strings.Join(opts.Roots, ", "), opts.Debounce)

	var mu sync.Mutex

	run := func(trigger string) {
		mu.Lock()
		defer mu.Unlock()

		if sigCtx.Err() != nil {
			return
		}

		doRun(sigCtx, opts, runFn, trigger)
	}

	run("(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(b Batch) {
		run(b.String())
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event) {
				continue
			}

			// New directories are watched too.
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single batch run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	status := "OK"
	if result.Failed > 0 {
		status = "FAILED"
	}

	fmt.Fprintf(opts.Out, "[%s] %s → %s (%d files, %d changed, %d failed)\n",
		now, trigger, status, result.Files, result.Changed, result.Failed)
}

// addRoot watches a directory tree, or a single file.
func addRoot(watcher *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return addRecursive(watcher, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	return watcher.Add(abs)
}

// addRecursive watches root and every directory below it. The walk mirrors
// the one that resolves files for a run: symbolic links are followed and
// hidden directories are entered, so every file a run can sort is watched.
// Directories whose files are always ignored are skipped.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return addTree(watcher, root, make(map[string]struct{}))
}

func addTree(watcher *fsnotify.Watcher, dir string, seen map[string]struct{}) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}

	// Link cycles.
	if _, ok := seen[canonical]; ok {
		return nil
	}

	seen[canonical] = struct{}{}

	if err := watcher.Add(dir); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if _, skip := skippedDirs[entry.Name()]; skip {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}

			mode = info.Mode().Type()
		}

		if !mode.IsDir() {
			continue
		}

		if err := addTree(watcher, path, seen); err != nil {
			return err
		}
	}

	return nil
}

// skippedDirs are directory names whose contents never reach a run.
var skippedDirs = map[string]struct{}{
	"node_modules": {},
	".svn":         {},
	"CVS":          {},
}

// isRelevant filters out events that cannot change a document.
func isRelevant(event fsnotify.Event) bool {
	if event.Op == 0 {
		return false
	}

	// Only care about write, create, remove, rename.
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name := filepath.Base(event.Name)

	// Editor swap, lock and backup files. Other dotfiles are sorted too.
	if strings.HasPrefix(name, ".#") || strings.HasSuffix(name, "~") ||
		strings.HasSuffix(name, ".swp") || strings.HasSuffix(name, ".swx") ||
		strings.HasPrefix(name, "#") {
		return false
	}

	return true
}
