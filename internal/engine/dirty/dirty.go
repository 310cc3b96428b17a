// Package dirty tracks the minimal invalidated area a downstream renderer or
// highlighter must reprocess after engine mutations.
//
// The surface is pull-based: the engine widens the markers as edits commit,
// and the consumer reads them and acknowledges with Clear. It is a
// cache-invalidation handshake, not a queue.
package dirty

import (
	"github.com/dshills/editkit/internal/engine/textstore"
)

// ByteOffset is an alias for textstore.ByteOffset for convenience.
type ByteOffset = textstore.ByteOffset

// NoLine marks an unset DirtyLine.
const NoLine = ^uint32(0)

// Region is a byte range needing re-layout. Empty when Start == End.
type Region struct {
	Start ByteOffset
	End   ByteOffset
}

// IsEmpty returns true if the region covers nothing.
func (r Region) IsEmpty() bool {
	return r.End <= r.Start
}

// Union returns the smallest region covering both r and other.
func (r Region) Union(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	if other.Start < r.Start {
		r.Start = other.Start
	}
	if other.End > r.End {
		r.End = other.End
	}
	return r
}

// State holds the invalidation markers produced by the engine.
type State struct {
	// DirtyLine is the single line needing rehighlight, or NoLine.
	// Widened to NoLine plus a region when more than one line is touched.
	DirtyLine uint32

	// DirtyRegion is the byte range needing re-layout.
	DirtyRegion Region

	// LineStructureChanged reports that the line count changed.
	LineStructureChanged bool

	// HighlightsChanged reports that search highlights are stale.
	HighlightsChanged bool
}

// NewState returns a clean state.
func NewState() State {
	return State{DirtyLine: NoLine}
}

// MarkLine records a single-line invalidation. A second, different line
// widens the marker: DirtyLine keeps the first line and the region covers
// both edits, so consumers that only honor DirtyLine must also check
// DirtyRegion.
func (s *State) MarkLine(line uint32) {
	if s.DirtyLine == NoLine {
		s.DirtyLine = line
	}
}

// MarkRegion widens the dirty region to include [start, end).
func (s *State) MarkRegion(start, end ByteOffset) {
	s.DirtyRegion = s.DirtyRegion.Union(Region{Start: start, End: end})
}

// MarkStructure records a line-count change.
func (s *State) MarkStructure() {
	s.LineStructureChanged = true
}

// MarkHighlights records that search highlights must be recomputed.
func (s *State) MarkHighlights() {
	s.HighlightsChanged = true
}

// IsClean returns true if no markers are set.
func (s State) IsClean() bool {
	return s.DirtyLine == NoLine && s.DirtyRegion.IsEmpty() &&
		!s.LineStructureChanged && !s.HighlightsChanged
}

// Clear resets all markers. The consumer calls this after acting on them.
func (s *State) Clear() {
	*s = NewState()
}
