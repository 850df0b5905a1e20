package lua

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modstudio/internal/engine/undo"
	"github.com/dshills/modstudio/internal/mod"
)

// DefaultExecutionTimeout bounds a single DoString or DoFile call.
const DefaultExecutionTimeout = 5 * time.Second

// Module is a table of functions exposed to scripts as a global.
type Module interface {
	// Name returns the global the module is installed as.
	Name() string

	// Register installs the module into L.
	Register(L *lua.LState) error
}

// Runtime executes scripts against a document editor.
type Runtime struct {
	L *lua.LState

	mu      sync.Mutex
	closed  bool
	timeout time.Duration
	out     io.Writer
	logger  *slog.Logger

	editor *mod.Editor

	// ctx is the context of the chunk being executed.
	ctx context.Context
	// tx is the transaction opened by undo.begin, if any.
	tx *undo.Tx
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithExecutionTimeout sets the deadline of each chunk. Zero disables it.
func WithExecutionTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRuntime creates a sandboxed runtime bound to editor.
func NewRuntime(editor *mod.Editor, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		timeout: DefaultExecutionTimeout,
		out:     io.Discard,
		logger:  slog.New(slog.DiscardHandler),
		editor:  editor,
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	removeLoaders(L)
	installPrint(L, r.out)
	r.L = L

	for _, m := range []Module{&undoModule{rt: r}, &docModule{rt: r}} {
		if err := m.Register(L); err != nil {
			L.Close()
			return nil, fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}
	return r, nil
}

// Editor returns the editor scripts operate on.
func (r *Runtime) Editor() *mod.Editor {
	return r.editor
}

// DoString executes a Lua chunk.
func (r *Runtime) DoString(ctx context.Context, code string) error {
	return r.exec(ctx, func() error { return r.L.DoString(code) })
}

// DoFile executes a Lua file.
func (r *Runtime) DoFile(ctx context.Context, path string) error {
	return r.exec(ctx, func() error { return r.L.DoFile(path) })
}

func (r *Runtime) exec(ctx context.Context, fn func() error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStateClosed
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	r.ctx = ctx
	r.L.SetContext(ctx)
	defer func() {
		r.L.RemoveContext()
		r.ctx = context.Background()
	}()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()

	err = fn()
	if err != nil && ctx.Err() != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

// InTransaction reports whether a script left a transaction open.
func (r *Runtime) InTransaction() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tx.Open()
}

// CancelPending cancels a transaction a script left open. It reports
// whether there was one.
func (r *Runtime) CancelPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelPendingLocked()
}

func (r *Runtime) cancelPendingLocked() bool {
	if !r.tx.Open() {
		r.tx = nil
		return false
	}
	r.logger.Warn("canceling transaction left open by script", slog.String("caption", r.tx.Caption()))
	_ = r.tx.Cancel()
	r.tx = nil
	return true
}

// Close cancels any pending transaction and releases the Lua state.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.cancelPendingLocked()
	r.L.Close()
	r.closed = true
	return nil
}
