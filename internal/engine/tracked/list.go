package tracked

import (
	"iter"
	"slices"

	"github.com/dshills/modstudio/internal/engine/undo"
)

// List is a trackable ordered sequence.
//
// The first structural mutation in a transaction snapshots the whole
// content; later mutations in the same transaction reuse that snapshot.
// Snapshots are shallow.
type List[T any] struct {
	undo.Identity
	items []T
}

// NewList creates a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	return &List[T]{Identity: undo.NewIdentity(), items: slices.Clone(items)}
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the element at index i. It panics if i is out of range,
// like indexing a slice.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// All iterates over index/element pairs.
func (l *List[T]) All() iter.Seq2[int, T] {
	return slices.All(l.items)
}

// Values iterates over the elements.
func (l *List[T]) Values() iter.Seq[T] {
	return slices.Values(l.items)
}

// IndexFunc returns the index of the first element satisfying f, or -1.
func (l *List[T]) IndexFunc(f func(T) bool) int {
	return slices.IndexFunc(l.items, f)
}

func (l *List[T]) enlist(tx *undo.Tx) error {
	_, err := undo.Enlist[*undo.Snapshot[T]](tx, l, func() *undo.Snapshot[T] {
		return undo.NewSnapshot(l.items)
	})
	return err
}

// Append adds elements to the end.
func (l *List[T]) Append(tx *undo.Tx, v ...T) error {
	if err := l.enlist(tx); err != nil {
		return err
	}
	l.items = append(l.items, v...)
	return nil
}

// Insert inserts elements at index i, 0 <= i <= Len().
func (l *List[T]) Insert(tx *undo.Tx, i int, v ...T) error {
	if err := requireOpen(tx, "insert"); err != nil {
		return err
	}
	if i < 0 || i > len(l.items) {
		return indexError("insert", i, len(l.items))
	}
	if err := l.enlist(tx); err != nil {
		return err
	}
	l.items = slices.Insert(l.items, i, v...)
	return nil
}

// RemoveAt removes and returns the element at index i.
func (l *List[T]) RemoveAt(tx *undo.Tx, i int) (T, error) {
	var zero T
	if err := requireOpen(tx, "remove"); err != nil {
		return zero, err
	}
	if i < 0 || i >= len(l.items) {
		return zero, indexError("remove", i, len(l.items))
	}
	if err := l.enlist(tx); err != nil {
		return zero, err
	}
	v := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	return v, nil
}

// RemoveFunc removes every element satisfying f and returns how many were
// removed. The list is not enlisted when nothing matches.
func (l *List[T]) RemoveFunc(tx *undo.Tx, f func(T) bool) (int, error) {
	if err := requireOpen(tx, "remove"); err != nil {
		return 0, err
	}
	if !slices.ContainsFunc(l.items, f) {
		return 0, nil
	}
	if err := l.enlist(tx); err != nil {
		return 0, err
	}
	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, f)
	return before - len(l.items), nil
}

// SetAt replaces the element at index i.
func (l *List[T]) SetAt(tx *undo.Tx, i int, v T) error {
	if err := requireOpen(tx, "set"); err != nil {
		return err
	}
	if i < 0 || i >= len(l.items) {
		return indexError("set", i, len(l.items))
	}
	if err := l.enlist(tx); err != nil {
		return err
	}
	l.items[i] = v
	return nil
}

// Move moves the element at index from so that it ends up at index to.
func (l *List[T]) Move(tx *undo.Tx, from, to int) error {
	if err := requireOpen(tx, "move"); err != nil {
		return err
	}
	n := len(l.items)
	if from < 0 || from >= n {
		return indexError("move", from, n)
	}
	if to < 0 || to >= n {
		return indexError("move", to, n)
	}
	if from == to {
		return nil
	}
	if err := l.enlist(tx); err != nil {
		return err
	}
	v := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, v)
	return nil
}

// Swap exchanges the elements at indexes i and j.
func (l *List[T]) Swap(tx *undo.Tx, i, j int) error {
	if err := requireOpen(tx, "swap"); err != nil {
		return err
	}
	n := len(l.items)
	if i < 0 || i >= n {
		return indexError("swap", i, n)
	}
	if j < 0 || j >= n {
		return indexError("swap", j, n)
	}
	if err := l.enlist(tx); err != nil {
		return err
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	return nil
}

// SortFunc sorts the list with cmp. The sort is stable.
func (l *List[T]) SortFunc(tx *undo.Tx, cmp func(a, b T) int) error {
	if err := l.enlist(tx); err != nil {
		return err
	}
	slices.SortStableFunc(l.items, cmp)
	return nil
}

// Reverse reverses the order of the elements.
func (l *List[T]) Reverse(tx *undo.Tx) error {
	if err := l.enlist(tx); err != nil {
		return err
	}
	slices.Reverse(l.items)
	return nil
}

// Replace replaces the whole content with a copy of items.
func (l *List[T]) Replace(tx *undo.Tx, items []T) error {
	if err := l.enlist(tx); err != nil {
		return err
	}
	l.items = slices.Clone(items)
	return nil
}

// Clear removes every element.
//
// When the list is not yet enlisted the live slice itself becomes the
// snapshot and the list starts over with an empty slice, saving a copy.
func (l *List[T]) Clear(tx *undo.Tx) error {
	if err := requireOpen(tx, "clear"); err != nil {
		return err
	}
	if tx.Command().IsEnlisted(l) {
		clear(l.items)
		l.items = l.items[:0]
		return nil
	}
	_, err := undo.Enlist[*undo.Snapshot[T]](tx, l, func() *undo.Snapshot[T] {
		return &undo.Snapshot[T]{Old: l.items}
	})
	if err != nil {
		return err
	}
	l.items = nil
	return nil
}

// OnCommit implements undo.Trackable.
func (l *List[T]) OnCommit(p *undo.Snapshot[T]) {
	p.New = slices.Clone(l.items)
}

// OnUndo implements undo.Trackable.
func (l *List[T]) OnUndo(p *undo.Snapshot[T]) {
	l.items = slices.Clone(p.Old)
}

// OnRedo implements undo.Trackable.
func (l *List[T]) OnRedo(p *undo.Snapshot[T]) {
	l.items = slices.Clone(p.New)
}
