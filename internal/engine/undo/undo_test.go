package undo

import (
	"errors"
	"testing"

	"github.com/dshills/editkit/internal/engine/selection"
)

func TestInvertInsert(t *testing.T) {
	op := NewInsert(5, "abc", selection.Cursor(5), selection.Cursor(8))
	inv := op.Invert()

	if inv.Kind != KindDelete {
		t.Fatalf("expected delete, got %v", inv.Kind)
	}
	if inv.Offset != 5 || inv.Text != "abc" {
		t.Errorf("expected delete 'abc'@5, got %q@%d", inv.Text, inv.Offset)
	}
	if inv.SelAfter != op.SelBefore || inv.SelBefore != op.SelAfter {
		t.Error("invert must swap selection endpoints")
	}
}

func TestInvertReplace(t *testing.T) {
	op := NewReplace(2, "old", "new!", selection.Cursor(5), selection.Cursor(6))
	inv := op.Invert()

	if inv.Kind != KindReplace {
		t.Fatalf("expected replace, got %v", inv.Kind)
	}
	if inv.Deleted != "new!" || inv.Inserted != "old" {
		t.Errorf("expected swapped texts, got deleted %q inserted %q", inv.Deleted, inv.Inserted)
	}
}

func TestInvertCompoundReversesChildren(t *testing.T) {
	op := NewCompound(
		NewInsert(0, "a", selection.Cursor(0), selection.Cursor(1)),
		NewDelete(3, "b", selection.Cursor(4), selection.Cursor(3)),
	)
	inv := op.Invert()

	if inv.Kind != KindCompound || len(inv.Children) != 2 {
		t.Fatalf("expected 2-child compound, got %v", inv)
	}
	if inv.Children[0].Kind != KindInsert || inv.Children[0].Text != "b" {
		t.Errorf("expected first child to re-insert 'b', got %v", inv.Children[0])
	}
	if inv.Children[1].Kind != KindDelete || inv.Children[1].Text != "a" {
		t.Errorf("expected second child to delete 'a', got %v", inv.Children[1])
	}
}

func TestDoubleInvertIsIdentity(t *testing.T) {
	op := NewReplace(7, "x", "yz", selection.New(7, 8), selection.Cursor(9))
	rt := op.Invert().Invert()

	if rt.Kind != op.Kind || rt.Offset != op.Offset ||
		rt.Deleted != op.Deleted || rt.Inserted != op.Inserted ||
		rt.SelBefore != op.SelBefore || rt.SelAfter != op.SelAfter {
		t.Errorf("double invert changed operation: %+v vs %+v", rt, op)
	}
}

func TestHasNewline(t *testing.T) {
	if NewInsert(0, "ab", Selection{}, Selection{}).HasNewline() {
		t.Error("plain insert should not report newline")
	}
	if !NewDelete(0, "a\nb", Selection{}, Selection{}).HasNewline() {
		t.Error("delete with newline should report it")
	}
	nested := NewCompound(NewInsert(0, "\n", Selection{}, Selection{}))
	if !nested.HasNewline() {
		t.Error("compound should report child newlines")
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(0)

	var applied []Operation
	h.SetApplyCallback(func(op Operation) error {
		applied = append(applied, op)
		return nil
	})

	op := NewInsert(0, "hi", selection.Cursor(0), selection.Cursor(2))
	h.RecordEdit(op)

	if !h.CanUndo() || h.CanRedo() {
		t.Fatal("expected undo available, redo not")
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if len(applied) != 1 || applied[0].Kind != KindDelete {
		t.Fatalf("expected replayed delete, got %v", applied)
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Fatal("expected redo available after undo")
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if len(applied) != 2 || applied[1].Kind != KindInsert {
		t.Fatalf("expected replayed insert, got %v", applied)
	}
}

func TestHistoryInProgressDuringReplay(t *testing.T) {
	h := NewHistory(0)

	var sawInProgress bool
	h.SetApplyCallback(func(Operation) error {
		sawInProgress = h.InProgress()
		// A replay-triggered record must not re-enter the history; the
		// engine checks InProgress before recording.
		return nil
	})

	h.RecordEdit(NewInsert(0, "x", Selection{}, Selection{}))
	if err := h.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	if !sawInProgress {
		t.Error("InProgress should report true during replay")
	}
	if h.InProgress() {
		t.Error("InProgress should report false after replay")
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	h.SetApplyCallback(func(Operation) error { return nil })

	if err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestHistoryNoCallback(t *testing.T) {
	h := NewHistory(0)
	h.RecordEdit(NewInsert(0, "x", Selection{}, Selection{}))

	if err := h.Undo(); !errors.Is(err, ErrNoApplyCallback) {
		t.Errorf("expected ErrNoApplyCallback, got %v", err)
	}
}

func TestHistoryRecordClearsRedo(t *testing.T) {
	h := NewHistory(0)
	h.SetApplyCallback(func(Operation) error { return nil })

	h.RecordEdit(NewInsert(0, "a", Selection{}, Selection{}))
	if err := h.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}

	h.RecordEdit(NewInsert(0, "b", Selection{}, Selection{}))
	if h.CanRedo() {
		t.Error("recording a new edit must clear the redo stack")
	}
}

func TestHistoryGrouping(t *testing.T) {
	h := NewHistory(0)
	h.SetApplyCallback(func(Operation) error { return nil })

	h.BeginGroup()
	h.RecordEdit(NewInsert(0, "a", Selection{}, Selection{}))
	h.RecordEdit(NewInsert(1, "b", Selection{}, Selection{}))
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("expected one grouped entry, got %d", h.UndoCount())
	}
}

func TestHistoryGroupOfOneRecordsDirectly(t *testing.T) {
	h := NewHistory(0)

	h.BeginGroup()
	h.RecordEdit(NewInsert(0, "a", Selection{}, Selection{}))
	h.EndGroup()

	var got Operation
	h.SetApplyCallback(func(op Operation) error {
		got = op
		return nil
	})
	if err := h.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got.Kind != KindDelete {
		t.Errorf("expected plain delete replay, got %v", got.Kind)
	}
}

func TestHistoryCancelGroup(t *testing.T) {
	h := NewHistory(0)

	h.BeginGroup()
	h.RecordEdit(NewInsert(0, "a", Selection{}, Selection{}))
	h.CancelGroup()

	if h.CanUndo() {
		t.Error("cancelled group must not be recorded")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := NewHistory(2)

	for i := 0; i < 5; i++ {
		h.RecordEdit(NewInsert(ByteOffset(i), "x", Selection{}, Selection{}))
	}
	if h.UndoCount() != 2 {
		t.Errorf("expected undo stack capped at 2, got %d", h.UndoCount())
	}
}
