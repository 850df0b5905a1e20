package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 100 * time.Millisecond

// ReloadHandler receives a freshly loaded configuration.
type ReloadHandler func(cfg *Config)

// ErrorHandler receives load failures. The previous configuration stays
// in effect.
type ErrorHandler func(err error)

// Watcher reloads a configuration file when it changes on disk.
//
// The parent directory is watched rather than the file so that editors
// replacing the file through a rename are picked up.
type Watcher struct {
	path     string
	opts     []Option
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	onReload []ReloadHandler
	onError  []ErrorHandler
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay for rapid changes.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the logger for reload diagnostics.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithLoadOptions sets the options used for every reload.
func WithLoadOptions(opts ...Option) WatcherOption {
	return func(w *Watcher) {
		w.opts = opts
	}
}

// NewWatcher creates a watcher for the file at path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// OnReload registers a handler for successful reloads.
func (w *Watcher) OnReload(h ReloadHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, h)
}

// OnError registers a handler for failed reloads.
func (w *Watcher) OnError(h ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, h)
}

// Run watches until ctx is done. Handlers run on the Run goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	// A stopped timer whose channel fires once writes settle.
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.fail(fmt.Errorf("watch %s: %w", w.path, err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path, w.opts...)
	if err != nil {
		w.fail(err)
		return
	}
	w.logger.Info("config reloaded", slog.String("path", w.path))

	w.mu.Lock()
	handlers := append([]ReloadHandler(nil), w.onReload...)
	w.mu.Unlock()

	for _, h := range handlers {
		h(cfg)
	}
}

func (w *Watcher) fail(err error) {
	w.logger.Warn("config reload failed", slog.Any("error", err))

	w.mu.Lock()
	handlers := append([]ErrorHandler(nil), w.onError...)
	w.mu.Unlock()

	for _, h := range handlers {
		h(err)
	}
}
