package undo

import (
	"context"
	"iter"
	"sync"
)

// DefaultAreaName is the name of the process-wide default area.
const DefaultAreaName = "default"

// facade forwards to the default area and re-emits its completion events,
// so observers survive SetDefault.
type facade struct {
	mu       sync.RWMutex
	area     *Area
	sub      *Subscription
	notifier *Notifier
}

var std = newFacade(NewArea(DefaultAreaName))

func newFacade(a *Area) *facade {
	f := &facade{notifier: NewNotifier()}
	f.bind(a)
	return f
}

func (f *facade) bind(a *Area) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sub.Unsubscribe()
	f.area = a
	f.sub = a.Subscribe(f.notifier.Notify)
}

func (f *facade) current() *Area {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.area
}

// Default returns the process-wide default area.
func Default() *Area {
	return std.current()
}

// SetDefault makes a the process-wide default area. Observers registered
// with OnCommandDone keep receiving events from the new area.
func SetDefault(a *Area) {
	if a == nil {
		return
	}
	std.bind(a)
}

// OnCommandDone subscribes to completion events of the default area.
func OnCommandDone(observer Observer) *Subscription {
	return std.notifier.Subscribe(observer)
}

// Start calls Start on the default area.
func Start(ctx context.Context, caption string) (*Tx, error) {
	return Default().Start(ctx, caption)
}

// StartWithOwner calls StartWithOwner on the default area.
func StartWithOwner(ctx context.Context, caption string, owner any) (*Tx, error) {
	return Default().StartWithOwner(ctx, caption, owner)
}

// StartInvisible calls StartInvisible on the default area.
func StartInvisible(ctx context.Context, caption string) (*Tx, error) {
	return Default().StartInvisible(ctx, caption)
}

// Commit commits the default area's open transaction.
func Commit() error { return Default().Commit() }

// Cancel cancels the default area's open transaction.
func Cancel() error { return Default().Cancel() }

// Undo undoes on the default area.
func Undo() error { return Default().Undo() }

// Redo redoes on the default area.
func Redo() error { return Default().Redo() }

// ClearHistory clears the default area's history.
func ClearHistory() { Default().ClearHistory() }

// CanUndo reports whether the default area can undo.
func CanUndo() bool { return Default().CanUndo() }

// CanRedo reports whether the default area can redo.
func CanRedo() bool { return Default().CanRedo() }

// UndoCaptions yields the default area's undo captions.
func UndoCaptions() iter.Seq[string] { return Default().UndoCaptions() }

// RedoCaptions yields the default area's redo captions.
func RedoCaptions() iter.Seq[string] { return Default().RedoCaptions() }

// MaxHistorySize returns the default area's history bound.
func MaxHistorySize() int { return Default().MaxHistorySize() }

// SetMaxHistorySize sets the default area's history bound.
func SetMaxHistorySize(n int) error { return Default().SetMaxHistorySize(n) }
