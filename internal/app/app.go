// Package app wires configuration, logging, the document history, metrics
// and scripting into one application.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dshills/modstudio/internal/config"
	"github.com/dshills/modstudio/internal/engine/undo"
	"github.com/dshills/modstudio/internal/metrics"
	"github.com/dshills/modstudio/internal/mod"
	"github.com/dshills/modstudio/internal/plugin/lua"
)

// DocumentArea is the name of the area recording document edits.
const DocumentArea = "doc"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means
	// defaults and environment only.
	ConfigPath string

	// LogLevel overrides log.level when set.
	LogLevel string

	// LogOutput receives log records. Defaults to os.Stderr.
	LogOutput io.Writer

	// Output receives script print output. Defaults to os.Stdout.
	Output io.Writer

	// Registerer receives the undo metrics. Defaults to
	// prometheus.DefaultRegisterer when metrics are enabled; metrics are
	// always collected when it is set.
	Registerer prometheus.Registerer

	// Environment replaces the process environment for config overrides.
	Environment map[string]string

	// Title is the title of the new document.
	Title string
}

// Application owns the document, its history and the services around it.
type Application struct {
	mu sync.RWMutex

	opts   Options
	config *config.Config
	logger *slog.Logger

	area    *undo.Area
	editor  *mod.Editor
	metrics *metrics.Collector
	runtime *lua.Runtime
}

// New creates an application and registers its document area as the
// process-wide default area.
func New(opts Options) (*Application, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Title == "" {
		opts.Title = "Untitled"
	}

	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Config
	var loadOpts []config.Option
	if app.opts.Environment != nil {
		loadOpts = append(loadOpts, config.WithEnvironment(app.opts.Environment))
	}
	cfg, err := config.Load(app.opts.ConfigPath, loadOpts...)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if app.opts.LogLevel != "" {
		cfg.Log.Level = app.opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	app.config = cfg

	// 2. Logger
	app.logger = newLogger(cfg, app.opts.LogOutput)

	// 3. Document history
	app.area = undo.NewArea(DocumentArea,
		undo.WithMaxHistorySize(cfg.HistorySizeFor(DocumentArea)),
		undo.WithLogger(app.logger),
	)
	app.editor = mod.NewEditor(mod.NewDocument(app.opts.Title), app.area)
	undo.SetDefault(app.area)

	// 4. Metrics
	reg := app.opts.Registerer
	if reg == nil && cfg.Metrics.Enabled {
		reg = prometheus.DefaultRegisterer
	}
	if reg != nil {
		app.metrics, err = metrics.NewCollector(reg)
		if err != nil {
			return &InitError{Component: "metrics", Err: err}
		}
		app.metrics.Observe(app.area)
	}

	// 5. Scripting
	app.runtime, err = lua.NewRuntime(app.editor,
		lua.WithOutput(app.opts.Output),
		lua.WithLogger(app.logger),
	)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}

	app.logger.Debug("application initialized",
		slog.String("config", app.opts.ConfigPath),
		slog.Int("max_history_size", app.area.MaxHistorySize()),
	)
	return nil
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Area returns the document history.
func (app *Application) Area() *undo.Area {
	return app.area
}

// Editor returns the document editor.
func (app *Application) Editor() *mod.Editor {
	return app.editor
}

// Document returns the edited document.
func (app *Application) Document() *mod.Document {
	return app.editor.Document()
}

// Runtime returns the scripting runtime.
func (app *Application) Runtime() *lua.Runtime {
	return app.runtime
}

// Metrics returns the metrics collector, or nil when metrics are off.
func (app *Application) Metrics() *metrics.Collector {
	return app.metrics
}

// RunScript executes a script file. A transaction the script leaves open
// is canceled and reported as an error.
func (app *Application) RunScript(ctx context.Context, path string) error {
	if err := app.runtime.DoFile(ctx, path); err != nil {
		app.runtime.CancelPending()
		return fmt.Errorf("run %s: %w", path, err)
	}
	if app.runtime.CancelPending() {
		return fmt.Errorf("run %s: %w", path, ErrUnfinishedTransaction)
	}
	return nil
}

// ErrUnfinishedTransaction is returned when a script ends with an open
// transaction.
var ErrUnfinishedTransaction = errors.New("script left a transaction open")

// ApplyConfig applies reloadable settings: the history bound of the
// document area.
func (app *Application) ApplyConfig(cfg *config.Config) error {
	n := cfg.HistorySizeFor(app.area.Name())
	if err := app.area.SetMaxHistorySize(n); err != nil {
		return err
	}

	app.mu.Lock()
	app.config = cfg
	app.mu.Unlock()

	app.logger.Info("config applied", slog.String("area", app.area.Name()), slog.Int("max_history_size", n))
	return nil
}

// WatchConfig reloads the configuration file until ctx is done. It returns
// immediately when no file is configured.
func (app *Application) WatchConfig(ctx context.Context) error {
	if app.opts.ConfigPath == "" {
		return nil
	}

	var loadOpts []config.Option
	if app.opts.Environment != nil {
		loadOpts = append(loadOpts, config.WithEnvironment(app.opts.Environment))
	}
	w, err := config.NewWatcher(app.opts.ConfigPath,
		config.WithWatcherLogger(app.logger),
		config.WithLoadOptions(loadOpts...),
	)
	if err != nil {
		return err
	}
	w.OnReload(func(cfg *config.Config) {
		if err := app.ApplyConfig(cfg); err != nil {
			app.logger.Warn("config not applied", slog.Any("error", err))
		}
	})
	return w.Run(ctx)
}

// ServeMetrics serves /metrics on the configured address until ctx is done.
func (app *Application) ServeMetrics(ctx context.Context) error {
	if app.metrics == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{
		Addr:              app.Config().Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("serving metrics", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the scripting runtime and stops collecting metrics.
func (app *Application) Close() error {
	if app.metrics != nil {
		app.metrics.Forget(app.area)
	}
	return app.runtime.Close()
}
