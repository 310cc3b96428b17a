package dirty

import "testing"

func TestRegionUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Region
		want Region
	}{
		{"both empty", Region{}, Region{}, Region{}},
		{"empty left", Region{}, Region{Start: 3, End: 7}, Region{Start: 3, End: 7}},
		{"empty right", Region{Start: 3, End: 7}, Region{}, Region{Start: 3, End: 7}},
		{"overlap", Region{Start: 2, End: 5}, Region{Start: 4, End: 9}, Region{Start: 2, End: 9}},
		{"disjoint", Region{Start: 0, End: 2}, Region{Start: 8, End: 10}, Region{Start: 0, End: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewStateIsClean(t *testing.T) {
	s := NewState()
	if !s.IsClean() {
		t.Error("new state should be clean")
	}
	if s.DirtyLine != NoLine {
		t.Errorf("DirtyLine = %d, want NoLine", s.DirtyLine)
	}
	// IsClean must be callable on a returned copy, not only on a variable.
	if !NewState().IsClean() {
		t.Error("IsClean on a returned value should report clean")
	}
}

func TestMarkLineKeepsFirst(t *testing.T) {
	s := NewState()
	s.MarkLine(4)
	s.MarkLine(9)
	if s.DirtyLine != 4 {
		t.Errorf("DirtyLine = %d, want 4", s.DirtyLine)
	}
}

func TestMarkersAndClear(t *testing.T) {
	s := NewState()
	s.MarkLine(2)
	s.MarkRegion(10, 20)
	s.MarkRegion(5, 12)
	s.MarkStructure()
	s.MarkHighlights()

	if s.IsClean() {
		t.Fatal("state should be dirty after marking")
	}
	if s.DirtyRegion != (Region{Start: 5, End: 20}) {
		t.Errorf("DirtyRegion = %v, want {5 20}", s.DirtyRegion)
	}
	if !s.LineStructureChanged || !s.HighlightsChanged {
		t.Error("structure and highlight flags should be set")
	}

	s.Clear()
	if !s.IsClean() {
		t.Error("state should be clean after Clear")
	}
}
