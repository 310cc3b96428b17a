package engine

import (
	"strings"

	"github.com/dshills/editkit/internal/engine/selection"
	"github.com/dshills/editkit/internal/engine/undo"
)

// DeltaKind tags the variants of a platform edit delta.
type DeltaKind uint8

const (
	// DeltaSelect carries a selection change with no text change.
	DeltaSelect DeltaKind = iota

	// DeltaInsert inserts Text at Offset.
	DeltaInsert

	// DeltaDelete removes the range [Start, End).
	DeltaDelete

	// DeltaReplace replaces [Start, End) with Text.
	DeltaReplace
)

// Delta is one platform-reported edit event. Selection is the platform's
// post-edit selection; the engine overrides it when assist policy moves the
// caret somewhere else.
type Delta struct {
	Kind      DeltaKind
	Offset    ByteOffset
	Start     ByteOffset
	End       ByteOffset
	Text      string
	Selection Selection
}

// SelectDelta builds a selection-only delta.
func SelectDelta(sel Selection) Delta {
	return Delta{Kind: DeltaSelect, Selection: sel}
}

// InsertDelta builds an insertion delta.
func InsertDelta(offset ByteOffset, text string, sel Selection) Delta {
	return Delta{Kind: DeltaInsert, Offset: offset, Text: text, Selection: sel}
}

// DeleteDelta builds a deletion delta.
func DeleteDelta(start, end ByteOffset, sel Selection) Delta {
	return Delta{Kind: DeltaDelete, Start: start, End: end, Selection: sel}
}

// ReplaceDelta builds a replacement delta.
func ReplaceDelta(start, end ByteOffset, text string, sel Selection) Delta {
	return Delta{Kind: DeltaReplace, Start: start, End: end, Text: text, Selection: sel}
}

// ApplyDeltas consumes the ordered deltas of one input cycle and reconciles
// them into exactly one coherent document state, then notifies listeners
// once. Out-of-range deltas are no-ops; they originate from platform echo
// races, never user action. A cycle in which no delta changed any state
// notifies nobody.
func (e *Engine) ApplyDeltas(deltas []Delta) {
	e.mu.Lock()
	var textChanged, structureChanged, effect bool
	for _, d := range deltas {
		tc, sc, eff := e.applyDeltaLocked(d)
		textChanged = textChanged || tc
		structureChanged = structureChanged || sc
		effect = effect || eff
	}
	if !effect {
		e.mu.Unlock()
		return
	}
	n := e.notificationLocked(textChanged, structureChanged)
	e.mu.Unlock()
	e.fanOut(n)
}

// applyDeltaLocked dispatches one delta. Returns whether the logical text
// changed, whether the line structure changed, and whether the delta had any
// effect at all (a pure selection move counts; a rejected delta does not).
func (e *Engine) applyDeltaLocked(d Delta) (textChanged, structureChanged, effect bool) {
	switch d.Kind {
	case DeltaSelect:
		return false, false, e.applySelectLocked(d.Selection)
	case DeltaInsert:
		return e.applyInsertLocked(d.Offset, d.Text, d.Selection)
	case DeltaDelete:
		return e.applyDeleteLocked(d.Start, d.End, d.Selection)
	case DeltaReplace:
		return e.applyReplaceLocked(d.Start, d.End, d.Text, d.Selection)
	default:
		return false, false, false
	}
}

// applySelectLocked adopts a platform selection unless it is the echo of a
// selection this engine itself pushed to the platform. Returns whether the
// selection was adopted.
func (e *Engine) applySelectLocked(sel Selection) bool {
	if e.hasPushedSel && sel == e.pushedSel {
		return false
	}
	e.sel = sel.Clamp(e.docLenLocked())
	return true
}

// applyInsertLocked runs the insertion policy pipeline: bracket skip-over,
// bracket auto-close, newline auto-indent, then the buffering decision.
func (e *Engine) applyInsertLocked(offset ByteOffset, text string, reported Selection) (bool, bool, bool) {
	if offset < 0 || offset > e.docLenLocked() || text == "" {
		return false, false, false
	}

	after := reported

	if e.autoClose && len(text) == 1 {
		ch := text[0]
		// Skip-over: typing a closer that is already there just advances
		// the caret past it. Checked before auto-close so that quotes,
		// which open and close alike, do not double up.
		if isCloser(ch) {
			if b, ok := e.byteAtLocked(offset); ok && b == ch {
				e.sel = selection.Cursor(offset + 1)
				e.pushSelLocked()
				return false, false, true
			}
		}
		if closer, ok := closerFor(ch); ok {
			text = string([]byte{ch, closer})
			after = selection.Cursor(offset + 1)
		}
	}

	// Only a lone typed newline is transformed; pasted multi-line text
	// commits verbatim.
	if text == "\n" {
		var caret ByteOffset
		text, caret = e.autoIndentLocked(offset)
		after = selection.Cursor(caret)
	}

	e.commitInsertLocked(offset, text, after)
	if after != reported {
		// Assist policy moved the caret; the platform must be resynced
		// and its echo of the new selection ignored.
		e.pushSelLocked()
	}
	return true, strings.Contains(text, "\n"), true
}

// applyDeleteLocked routes a deletion through the buffer when it stays on
// one line, or directly to the store when it crosses a newline.
func (e *Engine) applyDeleteLocked(start, end ByteOffset, reported Selection) (bool, bool, bool) {
	if start < 0 || start > end || end > e.docLenLocked() || start == end {
		return false, false, false
	}
	deleted := e.sliceLocked(start, end)
	e.commitDeleteLocked(start, deleted, reported)
	return true, strings.Contains(deleted, "\n"), true
}

// applyReplaceLocked always flushes and performs an atomic delete-then-insert
// against the store. Replacements are rare and already batched by the caller,
// so they are not buffered.
func (e *Engine) applyReplaceLocked(start, end ByteOffset, text string, reported Selection) (bool, bool, bool) {
	if start < 0 || start > end || end > e.docLenLocked() {
		return false, false, false
	}
	structure := e.commitReplaceLocked(start, end, text, reported)
	return true, structure, true
}

// ============================================================================
// Commit paths (shared by deltas and the programmatic API)
// ============================================================================

// commitInsertLocked applies an insertion, routing non-newline text through
// the write-buffer and newline-crossing text directly to the store. Records
// the operation in logical (pre-flush) coordinates, which flushing preserves.
func (e *Engine) commitInsertLocked(offset ByteOffset, text string, after Selection) {
	before := e.sel
	end := offset + ByteOffset(len(text))

	if strings.Contains(text, "\n") {
		// Line-structure edits bypass the buffer entirely.
		e.flushLocked()
		if err := e.store.Insert(offset, text); err != nil {
			return
		}
		e.version++
		e.markEditLocked(offset, end, true)
	} else {
		line := e.lineAtOffsetLocked(offset)
		e.ensureBufferLocked(line)
		e.buf.InsertAt(int(offset-e.buf.StoreStart()), text)
		e.scheduleFlushLocked()
		e.markEditLocked(offset, end, false)
	}

	e.recordLocked(undo.NewInsert(offset, text, before, after))
	e.sel = after.Clamp(e.docLenLocked())
}

// commitDeleteLocked applies a deletion whose text is already known.
func (e *Engine) commitDeleteLocked(start ByteOffset, deleted string, after Selection) {
	before := e.sel
	end := start + ByteOffset(len(deleted))

	if strings.Contains(deleted, "\n") {
		e.flushLocked()
		if err := e.store.Delete(start, end); err != nil {
			return
		}
		e.version++
		e.markEditLocked(start, end, true)
	} else if deleted != "" {
		line := e.lineAtOffsetLocked(start)
		e.ensureBufferLocked(line)
		local := int(start - e.buf.StoreStart())
		e.buf.DeleteRange(local, local+len(deleted))
		e.scheduleFlushLocked()
		e.markEditLocked(start, end, false)
	}

	e.recordLocked(undo.NewDelete(start, deleted, before, after))
	e.sel = after.Clamp(e.docLenLocked())
}

// commitReplaceLocked applies an atomic replacement directly against the
// store. Returns whether the line structure changed.
func (e *Engine) commitReplaceLocked(start, end ByteOffset, text string, after Selection) bool {
	before := e.sel
	e.flushLocked()

	deleted := e.store.Slice(start, end)
	if err := e.store.Replace(start, end, text); err != nil {
		return false
	}
	e.version++

	structure := strings.Contains(deleted, "\n") || strings.Contains(text, "\n")
	e.markEditLocked(start, start+ByteOffset(len(text)), structure)

	e.recordLocked(undo.NewReplace(start, deleted, text, before, after))
	e.sel = after.Clamp(e.docLenLocked())
	return structure
}

// ============================================================================
// Assist policy helpers
// ============================================================================

// autoIndentLocked transforms a typed newline into the text to insert and
// the caret position after it. The indentation of the line holding the
// cursor carries over; a line whose trimmed end is a colon or opener gets
// one level deeper. When the cursor sits between an opener and its matching
// closer, a blank indented line is inserted between an opening and a
// matching closing line, with the caret on the blank line.
func (e *Engine) autoIndentLocked(offset ByteOffset) (string, ByteOffset) {
	line := e.lineAtOffsetLocked(offset)
	lineStart := e.lineStartLocked(line)
	lineText := e.lineTextLocked(line)

	col := int(offset - lineStart)
	if col > len(lineText) {
		col = len(lineText)
	}
	beforeCursor := lineText[:col]

	indent := leadingWhitespace(lineText)
	trimmed := strings.TrimRight(beforeCursor, " \t")

	var opener byte
	deeper := false
	if trimmed != "" {
		last := trimmed[len(trimmed)-1]
		if last == ':' || last == '{' || last == '[' || last == '(' {
			deeper = true
			opener = last
		}
	}

	if deeper && opener != ':' {
		if next, ok := e.nextNonBlankLocked(offset); ok && next == closerOf(opener) {
			text := "\n" + indent + e.indentUnit + "\n" + indent
			caret := offset + 1 + ByteOffset(len(indent)+len(e.indentUnit))
			return text, caret
		}
	}

	if deeper {
		indent += e.indentUnit
	}
	text := "\n" + indent
	return text, offset + ByteOffset(len(text))
}

// nextNonBlankLocked returns the first byte at or after offset that is not
// a space or tab, without crossing a newline.
func (e *Engine) nextNonBlankLocked(offset ByteOffset) (byte, bool) {
	for ; ; offset++ {
		b, ok := e.byteAtLocked(offset)
		if !ok || b == '\n' {
			return 0, false
		}
		if b != ' ' && b != '\t' {
			return b, true
		}
	}
}

// pushSelLocked remembers the selection as pushed to the platform, so its
// echo is not re-adopted as a user change.
func (e *Engine) pushSelLocked() {
	e.pushedSel = e.sel
	e.hasPushedSel = true
}

func leadingWhitespace(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}

// closerFor maps an auto-closing opener to its closer.
func closerFor(b byte) (byte, bool) {
	switch b {
	case '(':
		return ')', true
	case '{':
		return '}', true
	case '[':
		return ']', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	default:
		return 0, false
	}
}

// closerOf is closerFor without the ok result, for known openers.
func closerOf(b byte) byte {
	c, _ := closerFor(b)
	return c
}

func isCloser(b byte) bool {
	switch b {
	case ')', '}', ']', '"', '\'':
		return true
	default:
		return false
	}
}
