package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/modstudio/internal/mod"
)

// docModule implements the doc API module.
type docModule struct {
	rt *Runtime
}

// Name returns the module name.
func (m *docModule) Name() string {
	return "doc"
}

// Register registers the module into the Lua state.
func (m *docModule) Register(L *lua.LState) error {
	t := L.NewTable()

	L.SetField(t, "add", L.NewFunction(m.add))
	L.SetField(t, "remove", L.NewFunction(m.remove))
	L.SetField(t, "move", L.NewFunction(m.move))
	L.SetField(t, "position", L.NewFunction(m.position))
	L.SetField(t, "rename", L.NewFunction(m.rename))
	L.SetField(t, "select", L.NewFunction(m.sel))
	L.SetField(t, "selection", L.NewFunction(m.selection))
	L.SetField(t, "set", L.NewFunction(m.set))
	L.SetField(t, "get", L.NewFunction(m.get))
	L.SetField(t, "unset", L.NewFunction(m.unset))
	L.SetField(t, "title", L.NewFunction(m.title))
	L.SetField(t, "objects", L.NewFunction(m.objects))

	L.SetGlobal(m.Name(), t)
	return nil
}

func (m *docModule) doc() *mod.Document {
	return m.rt.editor.Document()
}

// add(id, name)
func (m *docModule) add(L *lua.LState) int {
	id := L.CheckString(1)
	name := L.OptString(2, id)

	if _, err := m.doc().AddObject(m.rt.tx, id, name); err != nil {
		L.RaiseError("add: %v", err)
	}
	return 0
}

// remove(id)
func (m *docModule) remove(L *lua.LState) int {
	id := L.CheckString(1)

	if err := m.doc().RemoveObject(m.rt.tx, id); err != nil {
		L.RaiseError("remove: %v", err)
	}
	return 0
}

// move(id, x, y, z)
func (m *docModule) move(L *lua.LState) int {
	id := L.CheckString(1)
	pos := mod.Vec3{
		X: float64(L.CheckNumber(2)),
		Y: float64(L.CheckNumber(3)),
		Z: float64(L.CheckNumber(4)),
	}

	if err := m.doc().MoveObject(m.rt.tx, id, pos); err != nil {
		L.RaiseError("move: %v", err)
	}
	return 0
}

// position(id) -> x, y, z
func (m *docModule) position(L *lua.LState) int {
	id := L.CheckString(1)

	o, ok := m.doc().Object(id)
	if !ok {
		L.RaiseError("position: object %q: %v", id, mod.ErrObjectNotFound)
		return 0
	}
	p := o.Position.Get()
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	L.Push(lua.LNumber(p.Z))
	return 3
}

// rename(id, name)
func (m *docModule) rename(L *lua.LState) int {
	id := L.CheckString(1)
	name := L.CheckString(2)

	if err := m.doc().RenameObject(m.rt.tx, id, name); err != nil {
		L.RaiseError("rename: %v", err)
	}
	return 0
}

// select(id, ...)
// Replaces the selection. Calling it without ids clears the selection.
func (m *docModule) sel(L *lua.LState) int {
	ids := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		ids = append(ids, L.CheckString(i))
	}

	if err := m.doc().Select(m.rt.tx, ids...); err != nil {
		L.RaiseError("select: %v", err)
	}
	return 0
}

// selection() -> {string}
func (m *docModule) selection(L *lua.LState) int {
	L.Push(stringList(L, m.doc().Selection.Values()))
	return 1
}

// set(key, value)
func (m *docModule) set(L *lua.LState) int {
	key := L.CheckString(1)
	value := L.CheckString(2)

	if err := m.doc().SetProperty(m.rt.tx, key, value); err != nil {
		L.RaiseError("set: %v", err)
	}
	return 0
}

// get(key) -> string|nil
func (m *docModule) get(L *lua.LState) int {
	key := L.CheckString(1)

	v, ok := m.doc().Properties.Get(key)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(v))
	return 1
}

// unset(key) -> boolean
func (m *docModule) unset(L *lua.LState) int {
	key := L.CheckString(1)

	removed, err := m.doc().DeleteProperty(m.rt.tx, key)
	if err != nil {
		L.RaiseError("unset: %v", err)
		return 0
	}
	L.Push(lua.LBool(removed))
	return 1
}

// title([value]) -> string
// With an argument, sets the title first.
func (m *docModule) title(L *lua.LState) int {
	if L.GetTop() >= 1 {
		if err := m.doc().Title.Set(m.rt.tx, L.CheckString(1)); err != nil {
			L.RaiseError("title: %v", err)
			return 0
		}
	}
	L.Push(lua.LString(m.doc().Title.Get()))
	return 1
}

// objects() -> {{id, name, x, y, z}}
func (m *docModule) objects(L *lua.LState) int {
	list := L.NewTable()
	for o := range m.doc().Objects.Values() {
		p := o.Position.Get()
		t := L.NewTable()
		L.SetField(t, "id", lua.LString(o.ID))
		L.SetField(t, "name", lua.LString(o.Name.Get()))
		L.SetField(t, "x", lua.LNumber(p.X))
		L.SetField(t, "y", lua.LNumber(p.Y))
		L.SetField(t, "z", lua.LNumber(p.Z))
		list.Append(t)
	}
	L.Push(list)
	return 1
}
