// Package fold provides the fold-range contract consulted by fold-aware
// navigation. Fold detection is owned by the surrounding system; the engine
// only reads ranges through the Provider interface.
package fold

import "sort"

// Range is a collapsible line interval. StartLine and EndLine are inclusive:
// when folded, lines StartLine through EndLine collapse to a single visual
// line and only StartLine remains visible.
type Range struct {
	StartLine uint32
	EndLine   uint32
	Folded    bool
}

// Contains returns true if the line lies within the range.
func (r Range) Contains(line uint32) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Interior returns true if the line is strictly inside the range: hidden
// when the range is folded.
func (r Range) Interior(line uint32) bool {
	return line > r.StartLine && line <= r.EndLine
}

// Provider supplies an ordered set of fold ranges, read-only from the
// engine's perspective.
type Provider interface {
	// Ranges returns all fold ranges ordered by start line.
	Ranges() []Range

	// FoldedAt returns the folded range whose start is the given line.
	FoldedAt(line uint32) (Range, bool)

	// FoldedCovering returns the folded range that contains the given
	// line, start included. Downward motion skips covered lines past the
	// fold's end.
	FoldedCovering(line uint32) (Range, bool)

	// FoldedInterior returns the folded range whose interior holds the
	// given line. Upward motion skips interior lines back to the fold's
	// start, which stays reachable.
	FoldedInterior(line uint32) (Range, bool)
}

// Set is the default Provider: a sorted slice of ranges with toggle support.
type Set struct {
	ranges []Range
}

// Compile-time interface check.
var _ Provider = (*Set)(nil)

// NewSet creates an empty fold set.
func NewSet() *Set {
	return &Set{}
}

// Add inserts a range, keeping the set ordered by start line.
func (s *Set) Add(r Range) {
	s.ranges = append(s.ranges, r)
	sort.Slice(s.ranges, func(i, j int) bool {
		return s.ranges[i].StartLine < s.ranges[j].StartLine
	})
}

// Remove deletes the range starting at the given line.
func (s *Set) Remove(startLine uint32) {
	for i, r := range s.ranges {
		if r.StartLine == startLine {
			s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
			return
		}
	}
}

// Toggle flips the folded state of the range starting at the given line.
func (s *Set) Toggle(startLine uint32) bool {
	for i, r := range s.ranges {
		if r.StartLine == startLine {
			s.ranges[i].Folded = !r.Folded
			return true
		}
	}
	return false
}

// Ranges returns all fold ranges ordered by start line.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// FoldedAt returns the folded range whose start is the given line.
func (s *Set) FoldedAt(line uint32) (Range, bool) {
	for _, r := range s.ranges {
		if r.Folded && r.StartLine == line {
			return r, true
		}
	}
	return Range{}, false
}

// FoldedCovering returns the folded range that contains the given line.
func (s *Set) FoldedCovering(line uint32) (Range, bool) {
	for _, r := range s.ranges {
		if r.Folded && r.Contains(line) {
			return r, true
		}
	}
	return Range{}, false
}

// FoldedInterior returns the folded range whose interior holds the given
// line.
func (s *Set) FoldedInterior(line uint32) (Range, bool) {
	for _, r := range s.ranges {
		if r.Folded && r.Interior(line) {
			return r, true
		}
	}
	return Range{}, false
}
