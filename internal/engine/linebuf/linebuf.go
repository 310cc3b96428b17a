// Package linebuf implements the single-line write-coalescing buffer that
// sits in front of the text store.
//
// At most one buffer is active per engine, covering exactly one line. Small
// same-line edits mutate the buffer's copy of the line instead of the store;
// a flush commits the accumulated changes as one batched store mutation.
// While a buffer is active and dirty it is the single source of truth for
// its line, and every document offset at or past the buffer's end must be
// shifted by the buffer's length delta before touching the store.
package linebuf

import (
	"github.com/dshills/editkit/internal/engine/textstore"
)

// ByteOffset is an alias for textstore.ByteOffset for convenience.
type ByteOffset = textstore.ByteOffset

// Buffer is a transient overlay over one line of the text store.
type Buffer struct {
	line       uint32
	storeStart ByteOffset
	origLen    int
	text       []byte
	dirty      bool
	flushed    bool
}

// Activate captures a baseline snapshot of the given line and returns an
// active buffer for it.
func Activate(store textstore.Store, line uint32) *Buffer {
	text := store.LineText(line)
	return &Buffer{
		line:       line,
		storeStart: store.LineStartOffset(line),
		origLen:    len(text),
		text:       []byte(text),
	}
}

// Line returns the buffered line index.
func (b *Buffer) Line() uint32 {
	return b.line
}

// StoreStart returns the store offset where the buffered line begins.
func (b *Buffer) StoreStart() ByteOffset {
	return b.storeStart
}

// Current returns the live, possibly-edited line content.
func (b *Buffer) Current() string {
	return string(b.text)
}

// Dirty returns true if the buffer differs from the store's copy.
func (b *Buffer) Dirty() bool {
	return b.dirty && !b.flushed
}

// Delta returns the length difference the buffer introduces: the amount by
// which offsets past the buffer's end must shift before hitting the store.
// Zero while the buffer is clean or flushed.
func (b *Buffer) Delta() ByteOffset {
	if !b.Dirty() {
		return 0
	}
	return ByteOffset(len(b.text) - b.origLen)
}

// End returns the logical offset just past the buffered line's content.
func (b *Buffer) End() ByteOffset {
	return b.storeStart + ByteOffset(len(b.text))
}

// Contains returns true if the logical offset resolves against the buffer
// rather than the store.
func (b *Buffer) Contains(offset ByteOffset) bool {
	return offset >= b.storeStart && offset <= b.End()
}

// InsertAt inserts text at a line-local offset. The offset is clamped to the
// current line content. The text must not contain a newline; newline-crossing
// edits bypass the buffer entirely.
func (b *Buffer) InsertAt(local int, text string) {
	if text == "" {
		return
	}
	if local < 0 {
		local = 0
	}
	if local > len(b.text) {
		local = len(b.text)
	}
	b.text = append(b.text, make([]byte, len(text))...)
	copy(b.text[local+len(text):], b.text[local:])
	copy(b.text[local:], text)
	b.dirty = true
}

// DeleteRange removes the line-local range [start, end), clamped to the
// current line content.
func (b *Buffer) DeleteRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	if start >= end {
		return
	}
	b.text = append(b.text[:start], b.text[end:]...)
	b.dirty = true
}

// Flush commits the buffer into the store as one delete-then-insert and
// deactivates it. Flushing a clean or already-flushed buffer is a no-op.
func (b *Buffer) Flush(store textstore.Store) error {
	if !b.Dirty() {
		b.flushed = true
		return nil
	}
	if b.origLen > 0 {
		if err := store.Delete(b.storeStart, b.storeStart+ByteOffset(b.origLen)); err != nil {
			return err
		}
	}
	if len(b.text) > 0 {
		if err := store.Insert(b.storeStart, string(b.text)); err != nil {
			return err
		}
	}
	b.flushed = true
	b.dirty = false
	return nil
}
