package textstore

import "errors"

// ByteOffset represents a byte position in the document.
type ByteOffset = int64

// Errors returned by store operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Store is the text store contract. The edit engine mutates and queries the
// document only through this interface.
//
// Implementations are not required to be safe for concurrent use; the engine
// serializes all access.
type Store interface {
	// Insert inserts text at the given offset.
	Insert(offset ByteOffset, text string) error

	// Delete removes the bytes in [start, end).
	Delete(start, end ByteOffset) error

	// Replace atomically replaces the bytes in [start, end) with text.
	Replace(start, end ByteOffset, text string) error

	// Len returns the total byte length of the document.
	Len() ByteOffset

	// Text returns the full document content.
	Text() string

	// ByteAt returns the byte at the given offset.
	ByteAt(offset ByteOffset) (byte, bool)

	// Slice returns the text in [start, end), clamped to the document.
	Slice(start, end ByteOffset) string

	// LineCount returns the number of lines. Never zero.
	LineCount() uint32

	// LineText returns the text of a line without its trailing newline.
	LineText(line uint32) string

	// LineAtOffset returns the line containing the given offset.
	LineAtOffset(offset ByteOffset) uint32

	// LineStartOffset returns the offset of the first byte of a line.
	LineStartOffset(line uint32) ByteOffset

	// LineEndOffset returns the offset just past the last byte of a line,
	// before its newline.
	LineEndOffset(line uint32) ByteOffset

	// Lines returns every line of the document in order, without newlines.
	Lines() []string
}
