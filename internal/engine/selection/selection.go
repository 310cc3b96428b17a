// Package selection provides the anchor/caret selection model for the edit
// engine. A Selection is an immutable value type over byte offsets in the
// logical document.
package selection

import (
	"fmt"

	"github.com/dshills/editkit/internal/engine/textstore"
)

// ByteOffset is an alias for textstore.ByteOffset for convenience.
type ByteOffset = textstore.ByteOffset

// Selection represents a range of selected text.
// Anchor is where the selection started; Caret is the position where typing
// occurs. When Anchor == Caret the selection is collapsed to a cursor.
type Selection struct {
	Anchor ByteOffset
	Caret  ByteOffset
}

// New creates a selection from anchor to caret.
func New(anchor, caret ByteOffset) Selection {
	return Selection{Anchor: anchor, Caret: caret}
}

// Cursor creates a collapsed selection at the given offset.
func Cursor(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Caret: offset}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Caret
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Caret {
		return s.Anchor
	}
	return s.Caret
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Caret {
		return s.Anchor
	}
	return s.Caret
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// Extend returns a selection with the anchor fixed and the caret moved.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Caret: offset}
}

// MoveTo returns a collapsed selection at the given offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Caret: offset}
}

// Collapse collapses the selection to a cursor at the caret.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Caret, Caret: s.Caret}
}

// CollapseToStart collapses the selection to its lower bound.
func (s Selection) CollapseToStart() Selection {
	start := s.Start()
	return Selection{Anchor: start, Caret: start}
}

// CollapseToEnd collapses the selection to its upper bound.
func (s Selection) CollapseToEnd() Selection {
	end := s.End()
	return Selection{Anchor: end, Caret: end}
}

// Clamp returns a selection with both ends limited to [0, length].
func (s Selection) Clamp(length ByteOffset) Selection {
	clamp := func(off ByteOffset) ByteOffset {
		if off < 0 {
			return 0
		}
		if off > length {
			return length
		}
		return off
	}
	return Selection{Anchor: clamp(s.Anchor), Caret: clamp(s.Caret)}
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("cursor@%d", s.Caret)
	}
	return fmt.Sprintf("sel[%d→%d]", s.Anchor, s.Caret)
}
