package undo

import (
	"fmt"
	"strings"

	"github.com/dshills/editkit/internal/engine/selection"
	"github.com/dshills/editkit/internal/engine/textstore"
)

// ByteOffset is an alias for textstore.ByteOffset for convenience.
type ByteOffset = textstore.ByteOffset

// Selection is an alias for selection.Selection for convenience.
type Selection = selection.Selection

// Kind tags the variants of Operation. The set is closed; dispatch on it
// exhaustively.
type Kind uint8

const (
	// KindInsert inserts Text at Offset.
	KindInsert Kind = iota

	// KindDelete removes len(Text) bytes at Offset; Text is the removed text.
	KindDelete

	// KindReplace removes Deleted and inserts Inserted at Offset.
	KindReplace

	// KindCompound applies Children in order as one undoable unit.
	KindCompound
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindReplace:
		return "replace"
	case KindCompound:
		return "compound"
	default:
		return "unknown"
	}
}

// Operation is a single committed mutation, packaged for replay. It is
// immutable once recorded; the controller owns it after RecordEdit.
type Operation struct {
	Kind   Kind
	Offset ByteOffset

	// Text is the inserted text for KindInsert and the removed text for
	// KindDelete. Unused for other kinds.
	Text string

	// Deleted and Inserted carry the two halves of a KindReplace.
	Deleted  string
	Inserted string

	// SelBefore and SelAfter capture the selection around the edit so both
	// directions of a replay can restore it exactly.
	SelBefore Selection
	SelAfter  Selection

	// Children holds the ordered sub-operations of a KindCompound.
	Children []Operation
}

// NewInsert creates an insert operation.
func NewInsert(offset ByteOffset, text string, before, after Selection) Operation {
	return Operation{Kind: KindInsert, Offset: offset, Text: text, SelBefore: before, SelAfter: after}
}

// NewDelete creates a delete operation. Text is the removed text.
func NewDelete(offset ByteOffset, text string, before, after Selection) Operation {
	return Operation{Kind: KindDelete, Offset: offset, Text: text, SelBefore: before, SelAfter: after}
}

// NewReplace creates a replace operation.
func NewReplace(offset ByteOffset, deleted, inserted string, before, after Selection) Operation {
	return Operation{
		Kind:      KindReplace,
		Offset:    offset,
		Deleted:   deleted,
		Inserted:  inserted,
		SelBefore: before,
		SelAfter:  after,
	}
}

// NewCompound creates a compound operation from ordered sub-operations.
// The selection endpoints are taken from the first and last child.
func NewCompound(children ...Operation) Operation {
	op := Operation{Kind: KindCompound, Children: children}
	if len(children) > 0 {
		op.SelBefore = children[0].SelBefore
		op.SelAfter = children[len(children)-1].SelAfter
	}
	return op
}

// Invert returns the operation that exactly undoes this one.
func (op Operation) Invert() Operation {
	inv := Operation{
		Offset:    op.Offset,
		SelBefore: op.SelAfter,
		SelAfter:  op.SelBefore,
	}
	switch op.Kind {
	case KindInsert:
		inv.Kind = KindDelete
		inv.Text = op.Text
	case KindDelete:
		inv.Kind = KindInsert
		inv.Text = op.Text
	case KindReplace:
		inv.Kind = KindReplace
		inv.Deleted = op.Inserted
		inv.Inserted = op.Deleted
	case KindCompound:
		inv.Kind = KindCompound
		inv.Children = make([]Operation, len(op.Children))
		for i, child := range op.Children {
			inv.Children[len(op.Children)-1-i] = child.Invert()
		}
	}
	return inv
}

// HasNewline returns true if any text involved in the operation contains a
// line break.
func (op Operation) HasNewline() bool {
	if strings.Contains(op.Text, "\n") ||
		strings.Contains(op.Deleted, "\n") ||
		strings.Contains(op.Inserted, "\n") {
		return true
	}
	for _, child := range op.Children {
		if child.HasNewline() {
			return true
		}
	}
	return false
}

// Description returns a human-readable summary for history display.
func (op Operation) Description() string {
	switch op.Kind {
	case KindInsert:
		return describeText("Insert", op.Text)
	case KindDelete:
		return describeText("Delete", op.Text)
	case KindReplace:
		return fmt.Sprintf("Replace %d bytes", len(op.Deleted))
	case KindCompound:
		return fmt.Sprintf("Compound (%d edits)", len(op.Children))
	default:
		return "Edit"
	}
}

func describeText(verb, text string) string {
	if text == "\n" {
		return verb + " newline"
	}
	if len(text) <= 20 {
		return fmt.Sprintf("%s %q", verb, text)
	}
	return fmt.Sprintf("%s %d bytes", verb, len(text))
}
