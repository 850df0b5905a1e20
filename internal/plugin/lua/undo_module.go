package lua

import (
	"iter"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modstudio/internal/engine/undo"
)

// undoModule implements the undo API module.
type undoModule struct {
	rt *Runtime
}

// Name returns the module name.
func (m *undoModule) Name() string {
	return "undo"
}

// Register registers the module into the Lua state.
func (m *undoModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "begin", L.NewFunction(m.begin))
	L.SetField(mod, "begin_invisible", L.NewFunction(m.beginInvisible))
	L.SetField(mod, "commit", L.NewFunction(m.commit))
	L.SetField(mod, "cancel", L.NewFunction(m.cancel))
	L.SetField(mod, "undo", L.NewFunction(m.undo))
	L.SetField(mod, "redo", L.NewFunction(m.redo))
	L.SetField(mod, "can_undo", L.NewFunction(m.canUndo))
	L.SetField(mod, "can_redo", L.NewFunction(m.canRedo))
	L.SetField(mod, "undo_captions", L.NewFunction(m.undoCaptions))
	L.SetField(mod, "redo_captions", L.NewFunction(m.redoCaptions))
	L.SetField(mod, "clear", L.NewFunction(m.clear))
	L.SetField(mod, "in_transaction", L.NewFunction(m.inTransaction))

	L.SetGlobal(m.Name(), mod)
	return nil
}

func (m *undoModule) area() *undo.Area {
	return m.rt.editor.Area()
}

// begin(caption [, owner])
// Opens a transaction. With an owner, consecutive transactions with the
// same owner and caption merge into one history entry.
func (m *undoModule) begin(L *lua.LState) int {
	caption := L.CheckString(1)
	owner := L.Get(2)

	var (
		tx  *undo.Tx
		err error
	)
	if owner == lua.LNil {
		tx, err = m.area().Start(m.rt.ctx, caption)
	} else {
		tx, err = m.area().StartWithOwner(m.rt.ctx, caption, owner)
	}
	if err != nil {
		L.RaiseError("begin: %v", err)
		return 0
	}
	m.rt.tx = tx
	return 0
}

// begin_invisible(caption)
// Opens a transaction that merges into the latest history entry.
func (m *undoModule) beginInvisible(L *lua.LState) int {
	caption := L.CheckString(1)

	tx, err := m.area().StartInvisible(m.rt.ctx, caption)
	if err != nil {
		L.RaiseError("begin_invisible: %v", err)
		return 0
	}
	m.rt.tx = tx
	return 0
}

// commit()
func (m *undoModule) commit(L *lua.LState) int {
	tx := m.rt.tx
	m.rt.tx = nil
	if err := tx.Commit(); err != nil {
		L.RaiseError("commit: %v", err)
	}
	return 0
}

// cancel()
func (m *undoModule) cancel(L *lua.LState) int {
	tx := m.rt.tx
	m.rt.tx = nil
	if err := tx.Cancel(); err != nil {
		L.RaiseError("cancel: %v", err)
	}
	return 0
}

// undo()
func (m *undoModule) undo(L *lua.LState) int {
	if err := m.area().Undo(); err != nil {
		L.RaiseError("undo: %v", err)
	}
	return 0
}

// redo()
func (m *undoModule) redo(L *lua.LState) int {
	if err := m.area().Redo(); err != nil {
		L.RaiseError("redo: %v", err)
	}
	return 0
}

// can_undo() -> boolean
func (m *undoModule) canUndo(L *lua.LState) int {
	L.Push(lua.LBool(m.area().CanUndo()))
	return 1
}

// can_redo() -> boolean
func (m *undoModule) canRedo(L *lua.LState) int {
	L.Push(lua.LBool(m.area().CanRedo()))
	return 1
}

// undo_captions() -> {string}
// Most recent first.
func (m *undoModule) undoCaptions(L *lua.LState) int {
	L.Push(stringList(L, m.area().UndoCaptions()))
	return 1
}

// redo_captions() -> {string}
// Next redo first.
func (m *undoModule) redoCaptions(L *lua.LState) int {
	L.Push(stringList(L, m.area().RedoCaptions()))
	return 1
}

// clear()
func (m *undoModule) clear(L *lua.LState) int {
	m.area().ClearHistory()
	return 0
}

// in_transaction() -> boolean
func (m *undoModule) inTransaction(L *lua.LState) int {
	L.Push(lua.LBool(m.rt.tx.Open()))
	return 1
}

func stringList(L *lua.LState, seq iter.Seq[string]) *lua.LTable {
	t := L.NewTable()
	for s := range seq {
		t.Append(lua.LString(s))
	}
	return t
}
