// Package lua runs modstudio scripts.
//
// A Runtime owns one sandboxed gopher-lua state with the base, table,
// string and math libraries and two modules:
//
//	undo  begin, begin_invisible, commit, cancel, undo, redo, can_undo,
//	      can_redo, undo_captions, redo_captions, clear, in_transaction
//	doc   add, remove, move, position, rename, select, selection, set, get,
//	      unset, title, objects
//
// Mutating doc functions use the transaction opened by undo.begin; calling
// them without one raises a Lua error. A transaction may span several
// DoString calls, which lets a REPL begin on one line and commit on a later
// one.
//
//	undo.begin("Place crate")
//	doc.add("crate", "Crate")
//	doc.move("crate", 1, 0, 2)
//	undo.commit()
//
// gopher-lua states are not goroutine-safe; Runtime serializes calls.
package lua
