package engine

import (
	"github.com/dshills/editkit/internal/engine/selection"
)

// Cursor motions operate on the logical document and are fold-aware: lines
// strictly inside a folded range are skipped as if the fold were one visual
// line. Every motion is a non-silent selection change, so it flushes the
// write-buffer and resynchronizes the platform.

// MoveLeft moves the caret one offset left, or collapses an active
// selection to its near edge. With extend, the anchor stays put.
func (e *Engine) MoveLeft(extend bool) {
	e.mu.Lock()
	e.flushLocked()
	if !extend && !e.sel.IsEmpty() {
		e.setCaretLocked(e.sel.Start(), false)
	} else {
		e.setCaretLocked(e.sel.Caret-1, extend)
	}
	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// MoveRight moves the caret one offset right, or collapses an active
// selection to its far edge.
func (e *Engine) MoveRight(extend bool) {
	e.mu.Lock()
	e.flushLocked()
	if !extend && !e.sel.IsEmpty() {
		e.setCaretLocked(e.sel.End(), false)
	} else {
		e.setCaretLocked(e.sel.Caret+1, extend)
	}
	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// MoveUp moves the caret one visual line up, preserving the column. Lines
// strictly inside a folded range are skipped back to the fold's start line.
func (e *Engine) MoveUp(extend bool) {
	e.mu.Lock()
	e.flushLocked()

	line := e.store.LineAtOffset(e.sel.Caret)
	col := e.sel.Caret - e.store.LineStartOffset(line)

	if line == 0 {
		e.setCaretLocked(0, extend)
	} else {
		target := line - 1
		for {
			r, ok := e.folds.FoldedInterior(target)
			if !ok {
				break
			}
			target = r.StartLine
		}
		e.setCaretLocked(e.columnOffsetLocked(target, col), extend)
	}

	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// MoveDown moves the caret one visual line down, preserving the column. A
// line that begins a folded range jumps directly past the fold's end; fold
// interiors below are skipped the same way. Past the last line, the caret
// collapses to end of document.
func (e *Engine) MoveDown(extend bool) {
	e.mu.Lock()
	e.flushLocked()

	line := e.store.LineAtOffset(e.sel.Caret)
	col := e.sel.Caret - e.store.LineStartOffset(line)

	// A line beginning a folded range is covered by it, so the loop also
	// handles jumping from the fold's own start line.
	target := line + 1
	for {
		r, ok := e.folds.FoldedCovering(target)
		if !ok {
			break
		}
		target = r.EndLine + 1
	}

	if target >= e.store.LineCount() {
		e.setCaretLocked(e.store.Len(), extend)
	} else {
		e.setCaretLocked(e.columnOffsetLocked(target, col), extend)
	}

	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// MoveHome moves the caret to the start of its line.
func (e *Engine) MoveHome(extend bool) {
	e.mu.Lock()
	e.flushLocked()
	line := e.store.LineAtOffset(e.sel.Caret)
	e.setCaretLocked(e.store.LineStartOffset(line), extend)
	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// MoveEnd moves the caret to the end of its line, before the newline.
func (e *Engine) MoveEnd(extend bool) {
	e.mu.Lock()
	e.flushLocked()
	line := e.store.LineAtOffset(e.sel.Caret)
	e.setCaretLocked(e.store.LineEndOffset(line), extend)
	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// columnOffsetLocked returns the offset of the given column on a line,
// clamped to the line's length. Called post-flush.
func (e *Engine) columnOffsetLocked(line uint32, col ByteOffset) ByteOffset {
	start := e.store.LineStartOffset(line)
	length := ByteOffset(len(e.store.LineText(line)))
	if col > length {
		col = length
	}
	return start + col
}

// setCaretLocked moves the caret to the clamped offset, extending the
// selection when requested, and records the result as pushed to the
// platform.
func (e *Engine) setCaretLocked(offset ByteOffset, extend bool) {
	length := e.docLenLocked()
	if offset < 0 {
		offset = 0
	}
	if offset > length {
		offset = length
	}
	if extend {
		e.sel = e.sel.Extend(offset)
	} else {
		e.sel = selection.Cursor(offset)
	}
	e.pushSelLocked()
}
