package undo

import (
	"errors"
	"sync"
)

// Errors returned by history operations.
var (
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
	ErrNoApplyCallback = errors.New("no apply callback registered")
)

// DefaultMaxEntries bounds the undo stack when no limit is configured.
const DefaultMaxEntries = 1000

// History is the default Controller: a pair of operation stacks with
// optional grouping into compound operations.
type History struct {
	mu sync.Mutex

	undoStack []Operation
	redoStack []Operation

	apply      ApplyFunc
	inProgress bool

	grouping   bool
	groupOps   []Operation
	maxEntries int
}

// Compile-time interface check.
var _ Controller = (*History)(nil)

// NewHistory creates a history bounded to maxEntries undo operations.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// RecordEdit appends a committed operation. Clears the redo stack.
func (h *History) RecordEdit(op Operation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupOps = append(h.groupOps, op)
		return
	}
	h.pushLocked(op)
}

func (h *History) pushLocked(op Operation) {
	h.undoStack = append(h.undoStack, op)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = append(h.undoStack[:0], h.undoStack[excess:]...)
	}
}

// InProgress reports whether a replay is running.
func (h *History) InProgress() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inProgress
}

// SetApplyCallback registers the replay entry point. Last registered wins.
func (h *History) SetApplyCallback(fn ApplyFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.apply = fn
}

// Undo replays the inverse of the most recent operation.
func (h *History) Undo() error {
	h.mu.Lock()
	if h.apply == nil {
		h.mu.Unlock()
		return ErrNoApplyCallback
	}
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	op := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	apply := h.apply
	h.inProgress = true
	h.mu.Unlock()

	err := apply(op.Invert())

	h.mu.Lock()
	h.inProgress = false
	if err != nil {
		h.undoStack = append(h.undoStack, op)
	} else {
		h.redoStack = append(h.redoStack, op)
	}
	h.mu.Unlock()
	return err
}

// Redo replays the most recently undone operation.
func (h *History) Redo() error {
	h.mu.Lock()
	if h.apply == nil {
		h.mu.Unlock()
		return ErrNoApplyCallback
	}
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	op := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	apply := h.apply
	h.inProgress = true
	h.mu.Unlock()

	err := apply(op)

	h.mu.Lock()
	h.inProgress = false
	if err != nil {
		h.redoStack = append(h.redoStack, op)
	} else {
		h.undoStack = append(h.undoStack, op)
	}
	h.mu.Unlock()
	return err
}

// BeginGroup starts collecting operations into one compound unit.
func (h *History) BeginGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = true
	h.groupOps = nil
}

// EndGroup closes the current group and records it. A single-operation
// group is recorded directly; an empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false

	switch len(h.groupOps) {
	case 0:
	case 1:
		h.pushLocked(h.groupOps[0])
	default:
		h.pushLocked(NewCompound(h.groupOps...))
	}
	h.groupOps = nil
}

// CancelGroup discards the current group without recording.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.grouping = false
	h.groupOps = nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of available undo operations.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of available redo operations.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.groupOps = nil
	h.grouping = false
}
