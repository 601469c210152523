// ABOUTME: fsnotify-based config file watcher for hot-reload
// ABOUTME: Watches the parent directory so editor rename-on-save is seen; bursts are debounced

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	pilog "github.com/mauromedda/unpack/internal/log"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls onChange once per burst of changes to a single file.
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
	stopped bool
}

// NewWatcher creates a watcher for path. It does nothing until Start.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides DefaultDebounce. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start begins watching. Subsequent calls are no-ops. The loop ends on Stop
// or when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running || w.stopped {
		return nil
	}
	if err := w.fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.running = true
	pilog.Debug("config: watching %s", w.path)

	go w.run(ctx, w.debounce)
	return nil
}

// Stop halts the watcher and waits for the loop to exit. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	wasRunning := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if wasRunning {
		<-w.doneCh
	}
	if err := w.fsw.Close(); err != nil {
		pilog.Warn("config: closing watcher: %v", err)
	}
}

// ForceCheck triggers onChange immediately, outside the event cycle.
func (w *Watcher) ForceCheck() {
	w.onChange()
}

func (w *Watcher) run(ctx context.Context, debounce time.Duration) {
	defer close(w.doneCh)

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		stopFn = func() {
			if timer != nil {
				timer.Stop()
			}
		}
	)
	defer stopFn()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			pilog.Debug("config: %s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			pilog.Warn("config: watcher error: %v", err)

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// WatchFile keeps store in sync with the YAML file at path. A file that fails
// to load or compile is logged and the live snapshot is kept.
func WatchFile(ctx context.Context, path string, store *Store) (*Watcher, error) {
	w, err := NewWatcher(path, func() {
		b, err := LoadFile(path)
		if err != nil {
			pilog.Warn("config: reload skipped: %v", err)
			return
		}
		if _, err := store.Replace(b); err != nil {
			pilog.Warn("config: reload rejected: %v", err)
			return
		}
		pilog.Info("config: reloaded %s", path)
	})
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}
