// Package undo implements the undo/redo bridge between the edit engine and
// an undo history.
//
// Every committed mutation is packaged as an Operation, a closed sum of
// insert, delete, replace, and compound variants, and handed to a Controller
// via RecordEdit. The controller replays operations back into the engine
// through a registered apply callback; the engine consults InProgress so a
// replay-triggered mutation never re-enters the history.
//
// History is the package's default Controller. Hosts embedding the engine in
// a larger application can supply their own Controller instead.
package undo
