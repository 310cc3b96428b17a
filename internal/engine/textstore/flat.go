package textstore

import (
	"sort"
	"strings"
)

// Flat is the default Store implementation: a contiguous byte slice paired
// with a maintained newline index. Edits splice the slice and patch the
// index incrementally; line lookups are binary searches over the index.
//
// Flat is suitable for documents up to a few megabytes. Larger documents
// should use a tree-backed Store behind the same interface.
type Flat struct {
	content []byte
	starts  []ByteOffset // start offset of each line; starts[0] is always 0
}

// Compile-time interface check.
var _ Store = (*Flat)(nil)

// New creates an empty store.
func New() *Flat {
	return &Flat{starts: []ByteOffset{0}}
}

// FromString creates a store with initial content.
func FromString(s string) *Flat {
	f := &Flat{content: []byte(s)}
	f.starts = append(f.starts, 0)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			f.starts = append(f.starts, ByteOffset(i+1))
		}
	}
	return f
}

// Insert inserts text at the given offset.
func (f *Flat) Insert(offset ByteOffset, text string) error {
	if offset < 0 || offset > f.Len() {
		return ErrOffsetOutOfRange
	}
	if text == "" {
		return nil
	}

	f.content = append(f.content, make([]byte, len(text))...)
	copy(f.content[offset+ByteOffset(len(text)):], f.content[offset:])
	copy(f.content[offset:], text)

	line := f.lineAt(offset)

	// Shift the starts of every line after the insertion point.
	for i := int(line) + 1; i < len(f.starts); i++ {
		f.starts[i] += ByteOffset(len(text))
	}

	// Register a new line start for every newline in the inserted text.
	if strings.Contains(text, "\n") {
		added := make([]ByteOffset, 0, 4)
		for i := 0; i < len(text); i++ {
			if text[i] == '\n' {
				added = append(added, offset+ByteOffset(i)+1)
			}
		}
		f.starts = append(f.starts, added...)
		sort.Slice(f.starts, func(i, j int) bool { return f.starts[i] < f.starts[j] })
	}

	return nil
}

// Delete removes the bytes in [start, end).
func (f *Flat) Delete(start, end ByteOffset) error {
	if start < 0 || start > end || end > f.Len() {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}

	f.content = append(f.content[:start], f.content[end:]...)

	// Drop line starts inside the deleted span and shift the rest back.
	kept := f.starts[:0]
	for _, s := range f.starts {
		switch {
		case s <= start:
			kept = append(kept, s)
		case s > end:
			kept = append(kept, s-(end-start))
		default:
			// Line start inside the deleted range: the line is gone.
		}
	}
	f.starts = kept

	return nil
}

// Replace atomically replaces the bytes in [start, end) with text.
func (f *Flat) Replace(start, end ByteOffset, text string) error {
	if start < 0 || start > end || end > f.Len() {
		return ErrRangeInvalid
	}
	if err := f.Delete(start, end); err != nil {
		return err
	}
	return f.Insert(start, text)
}

// Len returns the total byte length of the document.
func (f *Flat) Len() ByteOffset {
	return ByteOffset(len(f.content))
}

// Text returns the full document content.
func (f *Flat) Text() string {
	return string(f.content)
}

// IsEmpty returns true if the document has no content.
func (f *Flat) IsEmpty() bool {
	return len(f.content) == 0
}

// ByteAt returns the byte at the given offset.
func (f *Flat) ByteAt(offset ByteOffset) (byte, bool) {
	if offset < 0 || offset >= f.Len() {
		return 0, false
	}
	return f.content[offset], true
}

// Slice returns the text in [start, end), clamped to the document.
func (f *Flat) Slice(start, end ByteOffset) string {
	if start < 0 {
		start = 0
	}
	if end > f.Len() {
		end = f.Len()
	}
	if start >= end {
		return ""
	}
	return string(f.content[start:end])
}

// LineCount returns the number of lines.
func (f *Flat) LineCount() uint32 {
	return uint32(len(f.starts))
}

// LineText returns the text of a line without its trailing newline.
func (f *Flat) LineText(line uint32) string {
	if int(line) >= len(f.starts) {
		return ""
	}
	return string(f.content[f.starts[line]:f.LineEndOffset(line)])
}

// LineAtOffset returns the line containing the given offset.
// Offsets past the end resolve to the last line.
func (f *Flat) LineAtOffset(offset ByteOffset) uint32 {
	if offset < 0 {
		return 0
	}
	return f.lineAt(offset)
}

// lineAt returns the greatest line whose start is <= offset.
func (f *Flat) lineAt(offset ByteOffset) uint32 {
	i := sort.Search(len(f.starts), func(i int) bool { return f.starts[i] > offset })
	return uint32(i - 1)
}

// LineStartOffset returns the offset of the first byte of a line.
// Lines past the end resolve to the document length.
func (f *Flat) LineStartOffset(line uint32) ByteOffset {
	if int(line) >= len(f.starts) {
		return f.Len()
	}
	return f.starts[line]
}

// LineEndOffset returns the offset just past the last byte of a line,
// before its newline.
func (f *Flat) LineEndOffset(line uint32) ByteOffset {
	if int(line)+1 < len(f.starts) {
		return f.starts[line+1] - 1
	}
	return f.Len()
}

// Lines returns every line of the document in order, without newlines.
func (f *Flat) Lines() []string {
	lines := make([]string, len(f.starts))
	for i := range f.starts {
		lines[i] = f.LineText(uint32(i))
	}
	return lines
}
