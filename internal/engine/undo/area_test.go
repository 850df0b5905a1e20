package undo_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/modstudio/internal/engine/tracked"
	"github.com/dshills/modstudio/internal/engine/undo"
)

// commitSet runs one transaction that sets cell to v.
func commitSet[T any](t *testing.T, a *undo.Area, caption string, cell *tracked.Cell[T], v T) {
	t.Helper()
	tx, err := a.Start(context.Background(), caption)
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, v))
	require.NoError(t, tx.Commit())
}

func TestAreaScalarScenario(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(5)

	commitSet(t, a, "inc", cell, 6)

	assert.True(t, a.CanUndo())
	assert.False(t, a.CanRedo())

	require.NoError(t, a.Undo())
	assert.Equal(t, 5, cell.Get())
	assert.True(t, a.CanRedo())

	require.NoError(t, a.Redo())
	assert.Equal(t, 6, cell.Get())
}

func TestAreaUndoCaptionsNewestFirst(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell("")

	for _, caption := range []string{"first", "second", "third"} {
		commitSet(t, a, caption, cell, caption)
	}

	assert.Equal(t, []string{"third", "second", "first"}, slices.Collect(a.UndoCaptions()))
	assert.Empty(t, slices.Collect(a.RedoCaptions()))

	require.NoError(t, a.Undo())
	require.NoError(t, a.Undo())

	assert.Equal(t, []string{"first"}, slices.Collect(a.UndoCaptions()))
	assert.Equal(t, []string{"second", "third"}, slices.Collect(a.RedoCaptions()))
}

func TestAreaCaptionsStopEarly(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	for i := 1; i <= 5; i++ {
		commitSet(t, a, "step", cell, i)
	}

	n := 0
	for range a.UndoCaptions() {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestAreaCancelRestoresEveryMember(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(1)
	list := tracked.NewList("a", "b")
	props := tracked.NewMap(map[string]int{"x": 1})

	tx, err := a.Start(context.Background(), "edit")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, cell.Set(tx, cell.Get()+10))
		require.NoError(t, list.Append(tx, "z"))
		require.NoError(t, props.Set(tx, "x", i+100))
		require.NoError(t, props.Set(tx, "y", i))
	}
	require.NoError(t, tx.Cancel())

	assert.Equal(t, 1, cell.Get())
	assert.Equal(t, []string{"a", "b"}, list.Items())
	assert.Equal(t, map[string]int{"x": 1}, props.Clone())
	assert.False(t, a.CanUndo())
	assert.False(t, a.InTransaction())
}

func TestAreaUndoRedoRoundTrip(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(1)
	list := tracked.NewList(1, 2, 3)

	tx, err := a.Start(context.Background(), "mixed")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 2))
	require.NoError(t, cell.Set(tx, 3))
	require.NoError(t, list.Reverse(tx))
	require.NoError(t, tx.Commit())

	require.NoError(t, a.Undo())
	assert.Equal(t, 1, cell.Get())
	assert.Equal(t, []int{1, 2, 3}, list.Items())

	require.NoError(t, a.Redo())
	assert.Equal(t, 3, cell.Get())
	assert.Equal(t, []int{3, 2, 1}, list.Items())
}

func TestAreaEmptyCommitNotRecorded(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	commitSet(t, a, "real", cell, 1)

	var events []undo.Done
	a.Subscribe(func(d undo.Done) { events = append(events, d) })

	tx, err := a.Start(context.Background(), "nothing")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, a.UndoCount())
	assert.Equal(t, []string{"real"}, slices.Collect(a.UndoCaptions()))
	assert.Empty(t, events)
}

func TestAreaCommitTruncatesRedoTail(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	commitSet(t, a, "one", cell, 1)
	commitSet(t, a, "two", cell, 2)
	commitSet(t, a, "three", cell, 3)

	require.NoError(t, a.Undo())
	require.NoError(t, a.Undo())
	assert.Equal(t, 2, a.RedoCount())

	commitSet(t, a, "branch", cell, 10)

	assert.False(t, a.CanRedo())
	assert.Empty(t, slices.Collect(a.RedoCaptions()))
	assert.Equal(t, []string{"branch", "one"}, slices.Collect(a.UndoCaptions()))
	assert.Equal(t, 2, a.Len())
}

func TestAreaAffinityMerging(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	owner := &struct{ name string }{"crate"}

	for _, v := range []int{1, 2} {
		tx, err := a.StartWithOwner(context.Background(), "Drag", owner)
		require.NoError(t, err)
		require.NoError(t, cell.Set(tx, v))
		require.NoError(t, tx.Commit())
	}

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []string{"Drag"}, slices.Collect(a.UndoCaptions()))

	require.NoError(t, a.Undo())
	assert.Equal(t, 0, cell.Get())
	assert.False(t, a.CanUndo())

	require.NoError(t, a.Redo())
	assert.Equal(t, 2, cell.Get())
}

func TestAreaAffinityManyStepsKeepsLatest(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	owner := &struct{}{}

	for v := 1; v <= 10; v++ {
		tx, err := a.StartWithOwner(context.Background(), "Drag", owner)
		require.NoError(t, err)
		require.NoError(t, cell.Set(tx, v))
		require.NoError(t, tx.Commit())
	}

	require.Equal(t, 1, a.Len())
	require.NoError(t, a.Undo())
	assert.Equal(t, 0, cell.Get())
	require.NoError(t, a.Redo())
	assert.Equal(t, 10, cell.Get())
}

func TestAreaAffinityBrokenBy(t *testing.T) {
	owner := &struct{}{}
	other := &struct{ x int }{}

	tests := []struct {
		name    string
		between func(t *testing.T, a *undo.Area, cell *tracked.Cell[int])
		owner   any
		caption string
	}{
		{
			name:    "different owner",
			between: func(*testing.T, *undo.Area, *tracked.Cell[int]) {},
			owner:   other,
			caption: "Drag",
		},
		{
			name:    "different caption",
			between: func(*testing.T, *undo.Area, *tracked.Cell[int]) {},
			owner:   owner,
			caption: "Rotate",
		},
		{
			name:    "nil owner",
			between: func(*testing.T, *undo.Area, *tracked.Cell[int]) {},
			owner:   nil,
			caption: "Drag",
		},
		{
			name: "plain start",
			between: func(t *testing.T, a *undo.Area, cell *tracked.Cell[int]) {
				commitSet(t, a, "Drag", cell, 50)
			},
			owner:   owner,
			caption: "Drag",
		},
		{
			name: "undo and redo",
			between: func(t *testing.T, a *undo.Area, _ *tracked.Cell[int]) {
				require.NoError(t, a.Undo())
				require.NoError(t, a.Redo())
			},
			owner:   owner,
			caption: "Drag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := undo.NewArea("scene")
			cell := tracked.NewCell(0)

			tx, err := a.StartWithOwner(context.Background(), "Drag", owner)
			require.NoError(t, err)
			require.NoError(t, cell.Set(tx, 1))
			require.NoError(t, tx.Commit())

			tt.between(t, a, cell)
			before := a.UndoCount()

			tx, err = a.StartWithOwner(context.Background(), tt.caption, tt.owner)
			require.NoError(t, err)
			assert.True(t, tx.Visible())
			require.NoError(t, cell.Set(tx, 2))
			require.NoError(t, tx.Commit())

			assert.Equal(t, before+1, a.UndoCount())
		})
	}
}

func TestAreaAffinityNonComparableOwner(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	owner := []int{1}

	for v := 1; v <= 2; v++ {
		tx, err := a.StartWithOwner(context.Background(), "Drag", owner)
		require.NoError(t, err)
		require.NoError(t, cell.Set(tx, v))
		require.NoError(t, tx.Commit())
	}
	assert.Equal(t, 2, a.Len())
}

func TestAreaHistoryBound(t *testing.T) {
	const n, k = 3, 2
	a := undo.NewArea("scene", undo.WithMaxHistorySize(n))
	cell := tracked.NewCell(0)

	for i := 1; i <= n+k; i++ {
		commitSet(t, a, "set", cell, i)
	}

	assert.Equal(t, n, a.Len())
	assert.Equal(t, n-1, a.Cursor())

	for a.CanUndo() {
		require.NoError(t, a.Undo())
	}
	// The oldest k commands are gone, so undo stops at the value they produced.
	assert.Equal(t, k, cell.Get())
}

func TestAreaSetMaxHistorySize(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	for i := 1; i <= 5; i++ {
		commitSet(t, a, "set", cell, i)
	}

	require.NoError(t, a.SetMaxHistorySize(2))
	assert.Equal(t, 2, a.MaxHistorySize())
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 1, a.Cursor())

	err := a.SetMaxHistorySize(-1)
	require.Error(t, err)
	assert.ErrorIs(t, err, undo.ErrInvalidHistoryBound)
	var cfgErr *undo.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, -1, cfgErr.Value)

	tx, err := a.Start(context.Background(), "open")
	require.NoError(t, err)
	assert.ErrorIs(t, a.SetMaxHistorySize(10), undo.ErrInvalidHistoryBound)
	require.NoError(t, tx.Cancel())
	assert.Equal(t, 2, a.MaxHistorySize())
}

func TestAreaSetMaxHistorySizeMidHistory(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	for i := 1; i <= 5; i++ {
		commitSet(t, a, "set", cell, i)
	}
	for range 4 {
		require.NoError(t, a.Undo())
	}
	require.Equal(t, 1, cell.Get())
	require.Equal(t, 0, a.Cursor())

	require.NoError(t, a.SetMaxHistorySize(2))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, -1, a.Cursor())
	assert.Equal(t, 1, cell.Get())
	assert.False(t, a.CanUndo())

	require.NoError(t, a.Redo())
	assert.Equal(t, 2, cell.Get())
	require.NoError(t, a.Redo())
	assert.Equal(t, 3, cell.Get())
	assert.False(t, a.CanRedo())

	require.NoError(t, a.Undo())
	require.NoError(t, a.Undo())
	assert.Equal(t, 1, cell.Get())
}

func TestAreaSetMaxHistorySizeKeepsCursorCommand(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	for i := 1; i <= 5; i++ {
		commitSet(t, a, "set", cell, i)
	}
	require.NoError(t, a.Undo())
	require.NoError(t, a.Undo())
	require.Equal(t, 3, cell.Get())

	require.NoError(t, a.SetMaxHistorySize(3))
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 0, a.Cursor())
	assert.Equal(t, 2, a.RedoCount())
	assert.Equal(t, 3, cell.Get())

	require.NoError(t, a.Undo())
	assert.Equal(t, 2, cell.Get())
	for range 3 {
		require.NoError(t, a.Redo())
	}
	assert.Equal(t, 5, cell.Get())
	assert.False(t, a.CanRedo())
}

func TestAreaSetMaxHistorySizeEvents(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	for i := 1; i <= 3; i++ {
		commitSet(t, a, "set", cell, i)
	}

	var events []undo.Done
	a.Subscribe(func(d undo.Done) { events = append(events, d) })

	require.NoError(t, a.SetMaxHistorySize(10))
	assert.Empty(t, events)

	require.NoError(t, a.SetMaxHistorySize(1))
	require.Len(t, events, 1)
	assert.Equal(t, undo.ActionTrim, events[0].Action)
	assert.Equal(t, 1, events[0].HistoryLen)
	assert.Equal(t, 0, events[0].Cursor)
	assert.Empty(t, events[0].Caption)
}

func TestAreaInvisibleMergeScenario(t *testing.T) {
	a := undo.NewArea("scene")
	var trace []string
	position := newRecorder("position", 0, &trace)
	selection := newRecorder("selection", 0, &trace)

	tx, err := a.Start(context.Background(), "Move")
	require.NoError(t, err)
	require.NoError(t, position.set(tx, 10))
	require.NoError(t, tx.Commit())

	tx, err = a.StartInvisible(context.Background(), "Select")
	require.NoError(t, err)
	require.NoError(t, selection.set(tx, 1))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, []string{"Move"}, slices.Collect(a.UndoCaptions()))
	assert.Equal(t, 1, a.Entries()[0].Merged)

	trace = nil
	require.NoError(t, a.Undo())
	assert.Equal(t, []string{"undo selection", "undo position"}, trace)
	assert.Equal(t, 0, position.value)
	assert.Equal(t, 0, selection.value)

	trace = nil
	require.NoError(t, a.Redo())
	assert.Equal(t, []string{"redo position", "redo selection"}, trace)
	assert.Equal(t, 10, position.value)
	assert.Equal(t, 1, selection.value)
}

func TestAreaInvisibleWithoutHostIsDropped(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	var events []undo.Done
	a.Subscribe(func(d undo.Done) { events = append(events, d) })

	tx, err := a.StartInvisible(context.Background(), "Select")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 7))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 7, cell.Get())
	assert.Equal(t, 0, a.Len())
	assert.False(t, a.CanUndo())
	require.Len(t, events, 1)
	assert.False(t, events[0].Visible)
}

func TestAreaLatestMergeWins(t *testing.T) {
	a := undo.NewArea("scene")
	position := tracked.NewCell(0)
	selection := tracked.NewCell("")

	commitSet(t, a, "Move", position, 5)
	for _, sel := range []string{"a", "b"} {
		tx, err := a.StartInvisible(context.Background(), "Select")
		require.NoError(t, err)
		require.NoError(t, selection.Set(tx, sel))
		require.NoError(t, tx.Commit())
	}

	require.NoError(t, a.Undo())
	assert.Equal(t, 0, position.Get())
	// Only the most recent merged payload per member is kept.
	assert.Equal(t, "a", selection.Get())

	require.NoError(t, a.Redo())
	assert.Equal(t, 5, position.Get())
	assert.Equal(t, "b", selection.Get())
}

func TestAreaTransactionAlreadyOpen(t *testing.T) {
	a := undo.NewArea("scene")
	b := undo.NewArea("palette")

	tx, err := a.Start(context.Background(), "outer")
	require.NoError(t, err)
	defer tx.Close()

	_, err = a.Start(context.Background(), "same area")
	assert.ErrorIs(t, err, undo.ErrTransactionAlreadyOpen)

	_, err = b.Start(tx.Context(), "other area, same context")
	assert.ErrorIs(t, err, undo.ErrTransactionAlreadyOpen)
	var perr *undo.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "palette", perr.Area)

	assert.ErrorIs(t, a.Undo(), undo.ErrTransactionAlreadyOpen)
	assert.ErrorIs(t, a.Redo(), undo.ErrTransactionAlreadyOpen)

	inner, err := b.Start(context.Background(), "independent")
	require.NoError(t, err)
	require.NoError(t, inner.Cancel())
}

func TestAreaFreshContextOnOtherArea(t *testing.T) {
	scene := undo.NewArea("scene")
	palette := undo.NewArea("palette")
	shape := tracked.NewCell("cube")
	color := tracked.NewCell("red")

	outer, err := scene.Start(context.Background(), "Reshape")
	require.NoError(t, err)
	defer outer.Close()
	require.NoError(t, shape.Set(outer, "sphere"))

	// Exclusivity across areas is carried by the context, not the goroutine.
	inner, err := palette.Start(context.Background(), "Recolor")
	require.NoError(t, err)
	require.NoError(t, color.Set(inner, "blue"))
	require.NoError(t, inner.Commit())
	require.NoError(t, outer.Commit())

	assert.Equal(t, []string{"Reshape"}, slices.Collect(scene.UndoCaptions()))
	assert.Equal(t, []string{"Recolor"}, slices.Collect(palette.UndoCaptions()))

	require.NoError(t, palette.Undo())
	assert.Equal(t, "red", color.Get())
	assert.Equal(t, "sphere", shape.Get())
}

func TestAreaContextReusableAfterCommit(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	tx, err := a.Start(context.Background(), "first")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 1))
	require.NoError(t, tx.Commit())

	next, err := a.Start(tx.Context(), "second")
	require.NoError(t, err)
	require.NoError(t, next.Cancel())
}

func TestAreaNoOpenTransaction(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	assert.ErrorIs(t, a.Commit(), undo.ErrNoOpenTransaction)
	assert.ErrorIs(t, a.Cancel(), undo.ErrNoOpenTransaction)
	assert.ErrorIs(t, cell.Set(nil, 1), undo.ErrNoOpenTransaction)

	tx, err := a.Start(context.Background(), "once")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 1))
	require.NoError(t, tx.Commit())

	assert.ErrorIs(t, tx.Commit(), undo.ErrNoOpenTransaction)
	assert.ErrorIs(t, tx.Cancel(), undo.ErrNoOpenTransaction)
	assert.ErrorIs(t, cell.Set(tx, 2), undo.ErrNoOpenTransaction)
	assert.Equal(t, 1, cell.Get())
}

func TestAreaCommitAndCancelByArea(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	tx, err := a.Start(context.Background(), "by area")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 1))
	require.NoError(t, a.Commit())
	assert.True(t, a.CanUndo())

	tx, err = a.Start(context.Background(), "cancel by area")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 2))
	require.NoError(t, a.Cancel())
	assert.Equal(t, 1, cell.Get())
	assert.False(t, tx.Open())
}

func TestTxCloseCancelsUnlessCommitted(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	edit := func(commit bool) {
		tx, err := a.Start(context.Background(), "scoped")
		require.NoError(t, err)
		defer tx.Close()
		require.NoError(t, cell.Set(tx, cell.Get()+1))
		if commit {
			require.NoError(t, tx.Commit())
		}
	}

	edit(false)
	assert.Equal(t, 0, cell.Get())
	assert.False(t, a.InTransaction())

	edit(true)
	assert.Equal(t, 1, cell.Get())
	assert.Equal(t, 1, a.Len())
}

func TestAreaUndoRedoNoop(t *testing.T) {
	a := undo.NewArea("scene")
	var events []undo.Done
	a.Subscribe(func(d undo.Done) { events = append(events, d) })

	require.NoError(t, a.Undo())
	require.NoError(t, a.Redo())
	assert.Empty(t, events)
	assert.Equal(t, -1, a.Cursor())
}

func TestAreaClearHistory(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	commitSet(t, a, "init", cell, 42)

	a.ClearHistory()

	assert.False(t, a.CanUndo())
	assert.False(t, a.CanRedo())
	assert.Equal(t, -1, a.Cursor())
	assert.Equal(t, 42, cell.Get())
}

func TestAreaClearHistoryEvents(t *testing.T) {
	a := undo.NewArea("scene")
	var events []undo.Done
	a.Subscribe(func(d undo.Done) { events = append(events, d) })

	a.ClearHistory()
	assert.Empty(t, events)

	commitSet(t, a, "init", tracked.NewCell(0), 1)
	a.ClearHistory()
	require.Len(t, events, 2)
	assert.Equal(t, undo.ActionClear, events[1].Action)
	assert.Equal(t, 0, events[1].HistoryLen)
	assert.Equal(t, -1, events[1].Cursor)
	assert.Equal(t, "clear", events[1].Action.String())
}

func TestAreaEvents(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	var actions []undo.Action
	sub := a.Subscribe(func(d undo.Done) {
		assert.Equal(t, "scene", d.Area)
		assert.Equal(t, "edit", d.Caption)
		actions = append(actions, d.Action)
	})

	commitSet(t, a, "edit", cell, 1)
	require.NoError(t, a.Undo())
	require.NoError(t, a.Redo())
	sub.Unsubscribe()
	require.NoError(t, a.Undo())

	assert.Equal(t, []undo.Action{undo.ActionCommit, undo.ActionUndo, undo.ActionRedo}, actions)
}

func TestAreaTransactionHelper(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	boom := errors.New("boom")

	err := a.Transaction(context.Background(), "fails", func(tx *undo.Tx) error {
		require.NoError(t, cell.Set(tx, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cell.Get())
	assert.False(t, a.CanUndo())

	err = a.Transaction(context.Background(), "works", func(tx *undo.Tx) error {
		return cell.Set(tx, 2)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cell.Get())
	assert.Equal(t, []string{"works"}, slices.Collect(a.UndoCaptions()))
}

func TestAreaCheckpoint(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)

	start := a.Checkpoint()
	commitSet(t, a, "one", cell, 1)
	mid := a.Checkpoint()
	commitSet(t, a, "two", cell, 2)
	commitSet(t, a, "three", cell, 3)

	require.NoError(t, a.RestoreCheckpoint(mid))
	assert.Equal(t, 1, cell.Get())

	require.NoError(t, a.RestoreCheckpoint(start))
	assert.Equal(t, 0, cell.Get())

	require.NoError(t, a.Redo())
	require.NoError(t, a.Redo())
	require.NoError(t, a.Redo())
	require.NoError(t, a.RestoreCheckpoint(mid))
	assert.Equal(t, 1, cell.Get())

	a.ClearHistory()
	assert.ErrorIs(t, a.RestoreCheckpoint(mid), undo.ErrCheckpointNotFound)
}

func TestAreaEntries(t *testing.T) {
	a := undo.NewArea("scene")
	cell := tracked.NewCell(0)
	list := tracked.NewList[int]()

	tx, err := a.Start(context.Background(), "both")
	require.NoError(t, err)
	require.NoError(t, cell.Set(tx, 1))
	require.NoError(t, list.Append(tx, 1))
	require.NoError(t, tx.Commit())
	commitSet(t, a, "cell", cell, 2)
	require.NoError(t, a.Undo())

	entries := a.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "both", entries[0].Caption)
	assert.Equal(t, 2, entries[0].Members)
	assert.False(t, entries[0].Undone)
	assert.True(t, entries[1].Undone)
}
