package language

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lexicon-lang/lexicon/internal/log"
)

// ReloadFunc receives a freshly loaded definition, or the error that
// prevented loading it.
type ReloadFunc func(*Definition, error)

// Watch calls fn each time the definition file at path changes, coalescing
// bursts of events that arrive within debounce. The parent directory is
// watched rather than the file so that editors which save by renaming are
// handled. Watch blocks until ctx is cancelled, waits for a running fn to
// return, and then returns nil.
func Watch(ctx context.Context, path string, debounce time.Duration, fn ReloadFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	log.Info(log.CatWatch, "Watching language definition", "path", abs, "debounce", debounce)

	d := newDebouncer(debounce, func() {
		def, err := Load(abs)
		if err != nil {
			log.Warn(log.CatWatch, "Reload failed", "path", abs, "error", err.Error())
		}
		fn(def, err)
	})
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				log.Debug(log.CatWatch, "Definition changed", "path", abs, "op", event.Op.String())
				d.trigger()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn(log.CatWatch, "Watcher error", "error", err.Error())
		}
	}
}

// debouncer runs fn once after the last trigger in a burst.
type debouncer struct {
	window  time.Duration
	fn      func()
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	running sync.WaitGroup
}

func newDebouncer(window time.Duration, fn func()) *debouncer {
	return &debouncer{window: window, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		d.running.Add(1)
		d.mu.Unlock()

		defer d.running.Done()
		d.fn()
	})
}

// stop cancels any pending call and waits for a running one to return.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}
