// Package mod holds the scene document edited through undo transactions.
//
// A Document is a titled collection of objects plus a selection and a set
// of free-form properties. All of its state lives in tracked containers, so
// every mutation takes an open *undo.Tx and can be undone as part of the
// enclosing command.
//
// Editor pairs a Document with an undo.Area and implements the gestures an
// interactive tool issues: dragging an object (consecutive drags of the same
// object collapse into one history entry) and moving an object while
// selecting it (the selection change rides along invisibly).
package mod
