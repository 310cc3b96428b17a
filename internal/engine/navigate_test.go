package engine

import (
	"testing"

	"github.com/dshills/editkit/internal/engine/fold"
	"github.com/dshills/editkit/internal/engine/selection"
)

// sevenLines is "l0\nl1\n...\nl6": every line is 2 bytes wide, so line n
// starts at offset 3n.
const sevenLines = "l0\nl1\nl2\nl3\nl4\nl5\nl6"

func foldedEngine(content string, ranges ...FoldRange) *Engine {
	set := fold.NewSet()
	for _, r := range ranges {
		set.Add(r)
	}
	return New(WithContent(content), WithFlushDelay(0), WithFoldProvider(set))
}

func TestMoveLeftRight(t *testing.T) {
	e := newTestEngine("abc")
	e.SetSelection(selection.Cursor(1), false)

	e.MoveRight(false)
	if sel := e.Selection(); sel != selection.Cursor(2) {
		t.Errorf("after right: %v, want cursor@2", sel)
	}
	e.MoveLeft(false)
	e.MoveLeft(false)
	if sel := e.Selection(); sel != selection.Cursor(0) {
		t.Errorf("after two lefts: %v, want cursor@0", sel)
	}
	e.MoveLeft(false)
	if sel := e.Selection(); sel != selection.Cursor(0) {
		t.Errorf("left at start: %v, want cursor@0 (clamped)", sel)
	}
}

func TestMoveCollapsesSelection(t *testing.T) {
	e := newTestEngine("abcdef")

	e.SetSelection(selection.New(2, 4), false)
	e.MoveLeft(false)
	if sel := e.Selection(); sel != selection.Cursor(2) {
		t.Errorf("left collapses to near edge: %v, want cursor@2", sel)
	}

	e.SetSelection(selection.New(2, 4), false)
	e.MoveRight(false)
	if sel := e.Selection(); sel != selection.Cursor(4) {
		t.Errorf("right collapses to far edge: %v, want cursor@4", sel)
	}
}

func TestMoveExtend(t *testing.T) {
	e := newTestEngine("abcdef")
	e.SetSelection(selection.Cursor(2), false)

	e.MoveRight(true)
	e.MoveRight(true)
	if sel := e.Selection(); sel != selection.New(2, 4) {
		t.Errorf("extend right: %v, want [2,4]", sel)
	}
	e.MoveLeft(true)
	if sel := e.Selection(); sel != selection.New(2, 3) {
		t.Errorf("extend left: %v, want [2,3]", sel)
	}
}

func TestMoveUpDown(t *testing.T) {
	e := newTestEngine("one\ntwo\nthree")
	e.SetSelection(selection.Cursor(5), false) // line 1, col 1

	e.MoveUp(false)
	if sel := e.Selection(); sel != selection.Cursor(1) {
		t.Errorf("up: %v, want cursor@1", sel)
	}
	e.MoveDown(false)
	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(9) {
		t.Errorf("down twice: %v, want cursor@9", sel)
	}
}

func TestMoveUpFromFirstLine(t *testing.T) {
	e := newTestEngine("abc\ndef")
	e.SetSelection(selection.Cursor(2), false)

	e.MoveUp(false)
	if sel := e.Selection(); sel != selection.Cursor(0) {
		t.Errorf("up on line 0: %v, want cursor@0", sel)
	}
}

func TestMoveDownPastLastLine(t *testing.T) {
	e := newTestEngine("abc\ndef")
	e.SetSelection(selection.Cursor(5), false)

	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(7) {
		t.Errorf("down on last line: %v, want cursor@7 (end of document)", sel)
	}
}

func TestColumnClampedToShortLine(t *testing.T) {
	e := newTestEngine("longline\nab\nlongline")
	e.SetSelection(selection.Cursor(6), false) // line 0, col 6

	e.MoveDown(false)
	// Line 1 is 2 bytes; the column clamps to its end (offset 11).
	if sel := e.Selection(); sel != selection.Cursor(11) {
		t.Errorf("down to short line: %v, want cursor@11", sel)
	}
}

func TestMoveDownSkipsFold(t *testing.T) {
	// Caret on line 1, fold covering lines 2 through 5: Down lands on
	// line 6, the first line past the fold.
	e := foldedEngine(sevenLines, FoldRange{StartLine: 2, EndLine: 5, Folded: true})
	e.SetSelection(selection.Cursor(3), false) // line 1, col 0

	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(18) {
		t.Errorf("down over fold: %v, want cursor@18 (line 6)", sel)
	}
}

func TestMoveDownFromFoldStart(t *testing.T) {
	// The fold's start line stays visible; Down from it jumps past the end.
	e := foldedEngine(sevenLines, FoldRange{StartLine: 2, EndLine: 5, Folded: true})
	e.SetSelection(selection.Cursor(6), false) // line 2, the fold start

	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(18) {
		t.Errorf("down from fold start: %v, want cursor@18 (line 6)", sel)
	}
}

func TestMoveUpSkipsFoldInterior(t *testing.T) {
	// Up from below the fold lands on its start line, which stays visible.
	e := foldedEngine(sevenLines, FoldRange{StartLine: 2, EndLine: 5, Folded: true})
	e.SetSelection(selection.Cursor(18), false) // line 6

	e.MoveUp(false)
	if sel := e.Selection(); sel != selection.Cursor(6) {
		t.Errorf("up over fold: %v, want cursor@6 (line 2, fold start)", sel)
	}
}

func TestUnfoldedRangeIgnored(t *testing.T) {
	e := foldedEngine(sevenLines, FoldRange{StartLine: 2, EndLine: 5, Folded: false})
	e.SetSelection(selection.Cursor(3), false) // line 1

	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(6) {
		t.Errorf("down over unfolded range: %v, want cursor@6 (line 2)", sel)
	}
}

func TestAdjacentFoldsSkippedTogether(t *testing.T) {
	e := foldedEngine(sevenLines,
		FoldRange{StartLine: 1, EndLine: 2, Folded: true},
		FoldRange{StartLine: 3, EndLine: 4, Folded: true},
	)
	e.SetSelection(selection.Cursor(0), false) // line 0

	// One Down chains through both folds: line 1 is covered, landing past
	// it on line 3 is covered again, so the caret settles on line 5.
	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(15) {
		t.Errorf("down chaining folds: %v, want cursor@15 (line 5)", sel)
	}
}

func TestFoldAtDocumentEnd(t *testing.T) {
	e := foldedEngine(sevenLines, FoldRange{StartLine: 5, EndLine: 6, Folded: true})
	e.SetSelection(selection.Cursor(15), false) // line 5, the fold start

	e.MoveDown(false)
	if sel := e.Selection(); sel != selection.Cursor(20) {
		t.Errorf("down past trailing fold: %v, want cursor@20 (end of document)", sel)
	}
}

func TestHomeEnd(t *testing.T) {
	e := newTestEngine("abc\ndefgh\nij")
	e.SetSelection(selection.Cursor(6), false) // line 1, col 2

	e.MoveHome(false)
	if sel := e.Selection(); sel != selection.Cursor(4) {
		t.Errorf("home: %v, want cursor@4", sel)
	}
	e.MoveEnd(false)
	if sel := e.Selection(); sel != selection.Cursor(9) {
		t.Errorf("end: %v, want cursor@9", sel)
	}
}

func TestMotionFlushesBuffer(t *testing.T) {
	e := newTestEngine("abc")
	e.ApplyDeltas([]Delta{InsertDelta(3, "d", selection.Cursor(4))})

	e.MoveLeft(false)
	if v := e.Version(); v != 1 {
		t.Errorf("Version = %d, want 1 (motion must flush)", v)
	}
	if got := e.Text(); got != "abcd" {
		t.Errorf("Text = %q, want %q", got, "abcd")
	}
}
