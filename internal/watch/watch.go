// Package watch re-evaluates a calculation file whenever it changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zephyrtronium/qubit"
	"github.com/zephyrtronium/qubit/internal/logger"
)

// DefaultDebounce is how long a file must be quiet before it is evaluated
// again.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives each evaluation. Exactly one of r and err is non-nil; err
// is set when the file could not be read.
type Handler func(r *qubit.Result, err error)

// Watcher evaluates one file on start and after every change to it. Each
// evaluation uses a new environment.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	format   qubit.Format
	opts     []qubit.EnvOption
	handle   Handler
	log      *logger.Logger
	debounce time.Duration
}

// New creates a watcher for the file at path. The file's directory is
// watched rather than the file itself, so that editors which replace files
// on save are followed.
func New(path string, f qubit.Format, handle Handler, log *logger.Logger, opts ...qubit.EnvOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	if log == nil {
		log = logger.Discard()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		watcher:  fw,
		format:   f,
		opts:     opts,
		handle:   handle,
		log:      log,
		debounce: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run evaluates the file, then again after each burst of changes, until ctx
// is done. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.eval()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("%s: %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)

		case <-timer.C:
			w.eval()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error: %v", err)
		}
	}
}

func (w *Watcher) eval() {
	b, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("reading %s: %v", w.path, err)
		w.handle(nil, fmt.Errorf("reading %s: %w", w.path, err))
		return
	}
	r := qubit.NewEnv(w.opts...).EvalText(string(b), w.format)
	w.log.Info("evaluated %s: %d lines", w.path, len(r.Lines))
	w.handle(r, nil)
}
