package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/tokfilter/internal/report"
)

// RunFunc performs one filter pass.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single pass.
type RunResult struct {
	Report  *report.Report
	Outputs []string
}

// Options configures the watch behaviour.
type Options struct {
	// Inputs are the files whose changes trigger a run. Their parent
	// directories are watched; events on any other file are ignored, which
	// keeps the pass's own outputs from re-triggering it.
	Inputs []string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. A failing run is reported and
// the watcher keeps going.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input files to watch")
	}

	inputs, dirs, err := resolveInputs(opts.Inputs)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %d input file(s) (debounce=%s)\n", len(inputs), opts.Debounce)

	st := &state{opts: opts, runFn: runFn}

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		st.run(sigCtx, path)
	})
	defer debouncer.Stop()

	// Initial run goes through the debouncer so it cannot overlap a
	// change that arrives while it is still in progress.
	debouncer.Trigger("(initial)")

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, inputs) {
				continue
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

// state carries the previous report between runs. Runs are serialized by
// the debouncer.
type state struct {
	opts  Options
	runFn RunFunc
	prev  *report.Report
}

func (s *state) run(ctx context.Context, trigger string) {
	if ctx.Err() != nil {
		return
	}

	now := time.Now().Format("15:04:05")

	result, err := s.runFn(ctx)
	if err != nil {
		fmt.Fprintf(s.opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	if result == nil || result.Report == nil {
		fmt.Fprintf(s.opts.Out, "[%s] %s → OK\n", now, trigger)
		return
	}

	fmt.Fprintf(s.opts.Out, "[%s] %s → OK (%d removed across %d split(s))\n",
		now, trigger, result.Report.TotalRemoved(), len(result.Report.Splits))

	if s.prev != nil {
		fmt.Fprintf(s.opts.Out, "  changes: %s\n", DeltaSummary(Delta(s.prev, result.Report)))
	}

	s.prev = result.Report
}

// resolveInputs returns the absolute input paths as a set and the distinct
// directories that contain them.
func resolveInputs(paths []string) (map[string]struct{}, []string, error) {
	inputs := make(map[string]struct{}, len(paths))
	seenDirs := make(map[string]struct{})

	var dirs []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving input %q: %w", p, err)
		}

		inputs[abs] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := seenDirs[dir]; !ok {
			seenDirs[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}

	return inputs, dirs, nil
}

// isRelevant reports whether event touches one of the inputs.
func isRelevant(event fsnotify.Event, inputs map[string]struct{}) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := inputs[abs]

	return ok
}
