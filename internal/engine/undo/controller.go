package undo

// ApplyFunc replays an operation back into the document. The engine
// registers its ApplyOperation entry point here.
type ApplyFunc func(Operation) error

// Controller is the narrow contract between the engine and an undo history.
// The engine hands every committed mutation to RecordEdit and consults
// InProgress to keep replay-triggered mutations out of the history. The
// controller replays operations through the registered apply callback.
type Controller interface {
	// RecordEdit appends a committed operation to the history. The
	// operation is owned by the controller once handed off.
	RecordEdit(op Operation)

	// InProgress reports whether an undo or redo replay is running.
	InProgress() bool

	// SetApplyCallback registers the replay entry point. Single slot:
	// the last registered callback wins.
	SetApplyCallback(fn ApplyFunc)
}
