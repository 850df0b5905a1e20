package tracked

import (
	"github.com/dshills/modstudio/internal/engine/undo"
)

// Cell is a trackable single value.
type Cell[T any] struct {
	undo.Identity
	value T
}

// NewCell creates a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{Identity: undo.NewIdentity(), value: v}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.value
}

// Set replaces the value. The value held before the transaction is
// captured only on the first Set.
func (c *Cell[T]) Set(tx *undo.Tx, v T) error {
	_, err := undo.Enlist[*undo.Pair[T]](tx, c, func() *undo.Pair[T] {
		return undo.NewPair(c.value)
	})
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

// Update sets the value to fn applied to the current value.
func (c *Cell[T]) Update(tx *undo.Tx, fn func(T) T) error {
	return c.Set(tx, fn(c.value))
}

// OnCommit implements undo.Trackable.
func (c *Cell[T]) OnCommit(p *undo.Pair[T]) {
	p.New = c.value
}

// OnUndo implements undo.Trackable.
func (c *Cell[T]) OnUndo(p *undo.Pair[T]) {
	c.value = p.Old
}

// OnRedo implements undo.Trackable.
func (c *Cell[T]) OnRedo(p *undo.Pair[T]) {
	c.value = p.New
}
