package undo

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrCheckpointNotFound is returned when a checkpoint's command is no longer
// in the area's history.
var ErrCheckpointNotFound = errors.New("checkpoint not found in history")

// startMode selects how a transaction's visibility is decided.
type startMode int

const (
	startPlain startMode = iota
	startAffinity
	startInvisible
)

// Area is an isolated undo/redo history.
//
// An area holds the committed commands, a cursor pointing at the command
// that the next Undo reverts (-1 before the first command), an optional
// bound on the history length and at most one open transaction.
//
// The area's own bookkeeping is guarded by a mutex that is released while
// member callbacks run. Trackable containers are not synchronized.
type Area struct {
	id       uuid.UUID
	name     string
	logger   *slog.Logger
	notifier *Notifier

	mu            sync.Mutex
	history       []*Command
	cursor        int
	maxHistory    int
	active        *Tx
	affinityOwner any
	replaying     bool
}

// Option configures an Area.
type Option func(*Area)

// WithMaxHistorySize bounds the number of stored commands.
// Zero means unbounded; negative values are ignored.
func WithMaxHistorySize(n int) Option {
	return func(a *Area) {
		if n >= 0 {
			a.maxHistory = n
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Area) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewArea creates an empty area.
func NewArea(name string, opts ...Option) *Area {
	a := &Area{
		id:       uuid.New(),
		name:     name,
		logger:   slog.New(slog.DiscardHandler),
		notifier: NewNotifier(),
		cursor:   -1,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.logger = a.logger.With(slog.String("area", name))
	return a
}

// ID returns the area's unique identifier.
func (a *Area) ID() uuid.UUID {
	return a.id
}

// Name returns the area name.
func (a *Area) Name() string {
	return a.name
}

// Subscribe registers an observer for completed commits, undos and redos.
func (a *Area) Subscribe(observer Observer) *Subscription {
	return a.notifier.Subscribe(observer)
}

// Start opens a visible transaction and breaks any affinity chain.
func (a *Area) Start(ctx context.Context, caption string) (*Tx, error) {
	return a.begin(ctx, "start", caption, startPlain, nil)
}

// StartWithOwner opens a transaction that is merged into the previous
// command when owner matches the owner of the previous StartWithOwner call
// and the previous command has the same caption. Owners are compared by
// ==; pointers are the usual choice.
func (a *Area) StartWithOwner(ctx context.Context, caption string, owner any) (*Tx, error) {
	return a.begin(ctx, "start", caption, startAffinity, owner)
}

// StartInvisible opens a transaction whose changes are merged into the
// command at the cursor instead of getting their own history entry.
func (a *Area) StartInvisible(ctx context.Context, caption string) (*Tx, error) {
	return a.begin(ctx, "start invisible", caption, startInvisible, nil)
}

func (a *Area) begin(ctx context.Context, op, caption string, mode startMode, owner any) (*Tx, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := FromContext(ctx); ok {
		return nil, protocolError(a.name, op, ErrTransactionAlreadyOpen)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.active != nil || a.replaying {
		return nil, protocolError(a.name, op, ErrTransactionAlreadyOpen)
	}

	visible := true
	switch mode {
	case startPlain:
		a.affinityOwner = nil
	case startInvisible:
		visible = false
	case startAffinity:
		if sameOwner(owner, a.affinityOwner) && a.cursor >= 0 && a.history[a.cursor].caption == caption {
			visible = false
		} else {
			a.affinityOwner = owner
		}
	}

	tx := &Tx{area: a, cmd: newCommand(a, caption, visible)}
	tx.ctx = context.WithValue(ctx, txKey{}, tx)
	a.active = tx

	a.logger.Debug("transaction started",
		slog.String("caption", caption),
		slog.Bool("visible", visible))
	return tx, nil
}

// sameOwner compares affinity owners without panicking on
// non-comparable values.
func sameOwner(owner, prev any) bool {
	if owner == nil || prev == nil {
		return false
	}
	t := reflect.TypeOf(owner)
	if t != reflect.TypeOf(prev) || !t.Comparable() {
		return false
	}
	return owner == prev
}

// Commit commits the area's open transaction.
func (a *Area) Commit() error {
	a.mu.Lock()
	tx := a.active
	a.mu.Unlock()
	if tx == nil {
		return protocolError(a.name, "commit", ErrNoOpenTransaction)
	}
	return a.commit(tx)
}

// Cancel rolls back the area's open transaction.
func (a *Area) Cancel() error {
	a.mu.Lock()
	tx := a.active
	a.mu.Unlock()
	if tx == nil {
		return protocolError(a.name, "cancel", ErrNoOpenTransaction)
	}
	return a.cancel(tx)
}

// closeLocked detaches tx from the area and reports whether it was the open
// transaction. Callers hold a.mu.
func (a *Area) closeLocked(tx *Tx) bool {
	if a.active != tx || !tx.cmd.IsOpen() {
		return false
	}
	tx.cmd.open.Store(false)
	a.active = nil
	return true
}

func (a *Area) commit(tx *Tx) error {
	a.mu.Lock()
	if !a.closeLocked(tx) {
		a.mu.Unlock()
		return protocolError(a.name, "commit", ErrNoOpenTransaction)
	}
	cmd := tx.cmd
	if !cmd.HasChanges() {
		a.mu.Unlock()
		a.logger.Debug("empty transaction discarded", slog.String("caption", cmd.caption))
		return nil
	}
	a.replaying = true
	a.mu.Unlock()

	a.replay(cmd.commit)

	a.mu.Lock()
	clear(a.history[a.cursor+1:])
	a.history = a.history[:a.cursor+1]

	if cmd.visible {
		a.history = append(a.history, cmd)
		a.cursor++
		a.evictLocked()
	} else if a.cursor >= 0 {
		a.history[a.cursor].merge(cmd)
	} else {
		a.logger.Debug("invisible transaction dropped: no command to merge into",
			slog.String("caption", cmd.caption))
	}
	done := a.doneLocked(ActionCommit, cmd)
	a.mu.Unlock()

	a.logger.Debug("transaction committed",
		slog.String("caption", cmd.caption),
		slog.Bool("visible", cmd.visible),
		slog.Int("cursor", done.Cursor),
		slog.Int("history", done.HistoryLen))
	a.notifier.Notify(done)
	return nil
}

func (a *Area) cancel(tx *Tx) error {
	a.mu.Lock()
	if !a.closeLocked(tx) {
		a.mu.Unlock()
		return protocolError(a.name, "cancel", ErrNoOpenTransaction)
	}
	a.replaying = true
	a.mu.Unlock()

	a.replay(tx.cmd.undo)

	a.logger.Debug("transaction canceled", slog.String("caption", tx.cmd.caption))
	return nil
}

// replay runs member callbacks with the area marked as replaying, so the
// callbacks cannot open transactions or move the cursor.
func (a *Area) replay(fn func()) {
	defer func() {
		a.mu.Lock()
		a.replaying = false
		a.mu.Unlock()
	}()
	fn()
}

// Undo reverts the command at the cursor and moves the cursor back.
// It is a no-op when there is nothing to undo.
func (a *Area) Undo() error {
	a.mu.Lock()
	if a.active != nil || a.replaying {
		a.mu.Unlock()
		return protocolError(a.name, "undo", ErrTransactionAlreadyOpen)
	}
	a.affinityOwner = nil
	if a.cursor < 0 {
		a.mu.Unlock()
		return nil
	}
	cmd := a.history[a.cursor]
	a.cursor--
	a.replaying = true
	a.mu.Unlock()

	a.replay(cmd.undo)

	a.mu.Lock()
	done := a.doneLocked(ActionUndo, cmd)
	a.mu.Unlock()

	a.logger.Debug("command undone",
		slog.String("caption", cmd.caption),
		slog.Int("cursor", done.Cursor))
	a.notifier.Notify(done)
	return nil
}

// Redo moves the cursor forward and reapplies the command there.
// It is a no-op when there is nothing to redo.
func (a *Area) Redo() error {
	a.mu.Lock()
	if a.active != nil || a.replaying {
		a.mu.Unlock()
		return protocolError(a.name, "redo", ErrTransactionAlreadyOpen)
	}
	a.affinityOwner = nil
	if a.cursor >= len(a.history)-1 {
		a.mu.Unlock()
		return nil
	}
	a.cursor++
	cmd := a.history[a.cursor]
	a.replaying = true
	a.mu.Unlock()

	a.replay(cmd.redo)

	a.mu.Lock()
	done := a.doneLocked(ActionRedo, cmd)
	a.mu.Unlock()

	a.logger.Debug("command redone",
		slog.String("caption", cmd.caption),
		slog.Int("cursor", done.Cursor))
	a.notifier.Notify(done)
	return nil
}

// doneLocked builds the event for action. cmd is nil for actions that
// reshape the history rather than replay a command.
func (a *Area) doneLocked(action Action, cmd *Command) Done {
	d := Done{
		Area:       a.name,
		AreaID:     a.id,
		Action:     action,
		Cursor:     a.cursor,
		HistoryLen: len(a.history),
		Time:       time.Now(),
	}
	if cmd != nil {
		d.Caption = cmd.caption
		d.CommandID = cmd.id
		d.Visible = cmd.visible
	}
	return d
}

// evictLocked drops commands beyond the history bound. The oldest undoable
// commands go first; if the bound is still exceeded the newest redoable
// commands are dropped, so the command at the cursor always matches live
// state. It returns the number of commands dropped.
func (a *Area) evictLocked() int {
	if a.maxHistory <= 0 || len(a.history) <= a.maxHistory {
		return 0
	}
	excess := len(a.history) - a.maxHistory

	head := min(excess, a.cursor+1)
	clear(a.history[:head])
	a.history = a.history[head:]
	a.cursor -= head

	tail := excess - head
	clear(a.history[len(a.history)-tail:])
	a.history = a.history[:len(a.history)-tail]

	a.logger.Debug("history evicted",
		slog.Int("oldest", head),
		slog.Int("redoable", tail),
		slog.Int("cursor", a.cursor))
	return excess
}

// ClearHistory forgets every command without touching live state.
// Use it after bulk initialization that should not be undoable.
func (a *Area) ClearHistory() {
	a.mu.Lock()
	if len(a.history) == 0 {
		a.mu.Unlock()
		return
	}
	clear(a.history)
	a.history = nil
	a.cursor = -1
	done := a.doneLocked(ActionClear, nil)
	a.mu.Unlock()

	a.logger.Debug("history cleared")
	a.notifier.Notify(done)
}

// CanUndo returns true if undo is available.
func (a *Area) CanUndo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor >= 0
}

// CanRedo returns true if redo is available.
func (a *Area) CanRedo() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor < len(a.history)-1
}

// UndoCount returns the number of commands that can be undone.
func (a *Area) UndoCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor + 1
}

// RedoCount returns the number of commands that can be redone.
func (a *Area) RedoCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history) - 1 - a.cursor
}

// Len returns the number of commands in history.
func (a *Area) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

// Cursor returns the index of the command the next Undo reverts.
func (a *Area) Cursor() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cursor
}

// InTransaction reports whether a transaction is open on the area.
func (a *Area) InTransaction() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil
}

// Active returns the open transaction, if any.
func (a *Area) Active() (*Tx, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active, a.active != nil
}

// UndoCaptions yields the captions of undoable commands, the one the next
// Undo reverts first. History is read when iteration starts.
func (a *Area) UndoCaptions() iter.Seq[string] {
	return func(yield func(string) bool) {
		a.mu.Lock()
		cmds := slices.Clone(a.history[:a.cursor+1])
		a.mu.Unlock()

		for i := len(cmds) - 1; i >= 0; i-- {
			if !cmds[i].visible {
				continue
			}
			if !yield(cmds[i].caption) {
				return
			}
		}
	}
}

// RedoCaptions yields the captions of redoable commands, the one the next
// Redo reapplies first. History is read when iteration starts.
func (a *Area) RedoCaptions() iter.Seq[string] {
	return func(yield func(string) bool) {
		a.mu.Lock()
		cmds := slices.Clone(a.history[a.cursor+1:])
		a.mu.Unlock()

		for _, cmd := range cmds {
			if !cmd.visible {
				continue
			}
			if !yield(cmd.caption) {
				return
			}
		}
	}
}

// MaxHistorySize returns the history bound; zero means unbounded.
func (a *Area) MaxHistorySize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxHistory
}

// SetMaxHistorySize changes the history bound. Shrinking below the current
// length evicts the oldest undoable commands, then the newest redoable ones.
func (a *Area) SetMaxHistorySize(n int) error {
	a.mu.Lock()
	if n < 0 || a.active != nil {
		a.mu.Unlock()
		return &ConfigurationError{
			Area:    a.name,
			Setting: "max_history_size",
			Value:   n,
			Err:     ErrInvalidHistoryBound,
		}
	}
	a.maxHistory = n
	if a.evictLocked() == 0 {
		a.mu.Unlock()
		return nil
	}
	done := a.doneLocked(ActionTrim, nil)
	a.mu.Unlock()

	a.notifier.Notify(done)
	return nil
}

// Entry provides read-only info about a history entry.
type Entry struct {
	ID      uuid.UUID
	Caption string
	Visible bool
	Members int
	Merged  int
	Created time.Time
	// Undone is true for entries beyond the cursor.
	Undone bool
}

// Entries returns the history, oldest first.
func (a *Area) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]Entry, len(a.history))
	for i, cmd := range a.history {
		result[i] = Entry{
			ID:      cmd.id,
			Caption: cmd.caption,
			Visible: cmd.visible,
			Members: cmd.Members(),
			Merged:  cmd.Merged(),
			Created: cmd.created,
			Undone:  i > a.cursor,
		}
	}
	return result
}

// Transaction runs fn inside a transaction. The transaction is committed
// when fn returns nil and canceled otherwise.
func (a *Area) Transaction(ctx context.Context, caption string, fn func(tx *Tx) error) error {
	tx, err := a.Start(ctx, caption)
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	cmd *Command
}

// Checkpoint records the current history position.
func (a *Area) Checkpoint() Checkpoint {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cursor < 0 {
		return Checkpoint{}
	}
	return Checkpoint{cmd: a.history[a.cursor]}
}

// RestoreCheckpoint undoes or redoes until the cursor is back at cp.
func (a *Area) RestoreCheckpoint(cp Checkpoint) error {
	a.mu.Lock()
	target := -1
	if cp.cmd != nil {
		target = slices.Index(a.history, cp.cmd)
		if target < 0 {
			a.mu.Unlock()
			return ErrCheckpointNotFound
		}
	}
	a.mu.Unlock()

	for {
		cursor := a.Cursor()
		switch {
		case cursor > target:
			if err := a.Undo(); err != nil {
				return err
			}
		case cursor < target:
			if err := a.Redo(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}
