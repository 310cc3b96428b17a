package engine

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/editkit/internal/engine/dirty"
	"github.com/dshills/editkit/internal/engine/fold"
	"github.com/dshills/editkit/internal/engine/linebuf"
	"github.com/dshills/editkit/internal/engine/selection"
	"github.com/dshills/editkit/internal/engine/textstore"
	"github.com/dshills/editkit/internal/engine/undo"
	"github.com/dshills/editkit/internal/search"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = textstore.ByteOffset

	// Selection is the anchor/caret selection over the logical document.
	Selection = selection.Selection

	// Operation is a recorded undoable edit.
	Operation = undo.Operation

	// FoldRange is a collapsible line interval.
	FoldRange = fold.Range

	// DirtyState is the renderer-facing invalidation surface.
	DirtyState = dirty.State
)

// Notification describes one committed engine change. Listeners receive
// exactly one Notification per reconciliation cycle, after all internal
// state is consistent.
type Notification struct {
	// Version is the document version after the change.
	Version uint64

	// Selection is the selection after the change.
	Selection Selection

	// TextChanged reports that the logical document content changed.
	TextChanged bool

	// StructureChanged reports that the line count changed.
	StructureChanged bool
}

// Listener observes committed engine changes. Fan-out is synchronous and
// in registration order.
type Listener func(Notification)

// ListenerHandle identifies a registered listener for removal.
type ListenerHandle = uuid.UUID

type listenerEntry struct {
	id uuid.UUID
	fn Listener
}

// undoer is satisfied by controllers that drive their own replay, such as
// the engine's default history.
type undoer interface {
	Undo() error
	Redo() error
}

// Engine is the incremental edit engine: the write-coalescing buffer, the
// delta reconciliation state machine, fold-aware navigation, and the
// undo/redo bridge, over a text store consumed through its contract.
type Engine struct {
	mu sync.Mutex

	store textstore.Store
	sel   Selection
	buf   *linebuf.Buffer

	version uint64

	controller undo.Controller
	folds      fold.Provider

	dirty dirty.State

	listeners []listenerEntry

	// Last selection this engine pushed to the platform, used to ignore
	// the platform echoing it back as a user change.
	pushedSel    Selection
	hasPushedSel bool

	// Assist configuration.
	autoClose  bool
	indentUnit string

	// Deferred flush scheduling.
	flushDelay time.Duration
	flushTimer *time.Timer

	// Construction state.
	initContent    string
	maxUndoEntries int
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		autoClose:      true,
		indentUnit:     DefaultIndentUnit,
		flushDelay:     DefaultFlushDelay,
		maxUndoEntries: DefaultMaxUndoEntries,
		dirty:          dirty.NewState(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		if e.initContent != "" {
			e.store = textstore.FromString(e.initContent)
		} else {
			e.store = textstore.New()
		}
	}
	if e.controller == nil {
		e.controller = undo.NewHistory(e.maxUndoEntries)
	}
	if e.folds == nil {
		e.folds = fold.NewSet()
	}

	e.controller.SetApplyCallback(e.ApplyOperation)

	return e
}

// ============================================================================
// Document Reads (buffer-aware)
// ============================================================================

// Text returns the canonical document content. Reading the full text
// crosses the write-buffer boundary, so any pending buffer is flushed first.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushLocked()
	return e.store.Text()
}

// Len returns the logical document length, including any pending buffer.
func (e *Engine) Len() ByteOffset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.docLenLocked()
}

// LineCount returns the number of lines. The write-buffer never holds a
// newline, so the count is unaffected by pending edits.
func (e *Engine) LineCount() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.LineCount()
}

// LineText returns the logical text of a line, without its newline.
func (e *Engine) LineText(line uint32) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineTextLocked(line)
}

// LineAtOffset returns the line containing the given logical offset.
func (e *Engine) LineAtOffset(offset ByteOffset) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineAtOffsetLocked(offset)
}

// LineStartOffset returns the logical offset of the first byte of a line.
func (e *Engine) LineStartOffset(line uint32) ByteOffset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineStartLocked(line)
}

// LineEndOffset returns the logical offset just past the last byte of a
// line, before its newline.
func (e *Engine) LineEndOffset(line uint32) ByteOffset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineEndLocked(line)
}

// Lines returns every logical line in order, without newlines.
func (e *Engine) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := e.store.Lines()
	if b := e.buf; b != nil && b.Dirty() && int(b.Line()) < len(lines) {
		lines[b.Line()] = b.Current()
	}
	return lines
}

// Version returns the document version. It increments on every committed
// mutation: buffer flush, direct store edit, or undo/redo replay.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel
}

// ============================================================================
// Buffer-aware coordinate translation
// ============================================================================

func (e *Engine) docLenLocked() ByteOffset {
	delta := ByteOffset(0)
	if e.buf != nil {
		delta = e.buf.Delta()
	}
	return e.store.Len() + delta
}

func (e *Engine) lineAtOffsetLocked(offset ByteOffset) uint32 {
	b := e.buf
	if b == nil || !b.Dirty() {
		return e.store.LineAtOffset(offset)
	}
	switch {
	case offset < b.StoreStart():
		return e.store.LineAtOffset(offset)
	case offset <= b.End():
		return b.Line()
	default:
		return e.store.LineAtOffset(offset - b.Delta())
	}
}

func (e *Engine) lineStartLocked(line uint32) ByteOffset {
	start := e.store.LineStartOffset(line)
	if b := e.buf; b != nil && b.Dirty() && line > b.Line() {
		start += b.Delta()
	}
	return start
}

func (e *Engine) lineTextLocked(line uint32) string {
	if b := e.buf; b != nil && b.Dirty() && line == b.Line() {
		return b.Current()
	}
	return e.store.LineText(line)
}

func (e *Engine) lineEndLocked(line uint32) ByteOffset {
	return e.lineStartLocked(line) + ByteOffset(len(e.lineTextLocked(line)))
}

// byteAtLocked resolves a logical offset to its byte, honoring the buffer.
func (e *Engine) byteAtLocked(offset ByteOffset) (byte, bool) {
	b := e.buf
	if b == nil || !b.Dirty() {
		return e.store.ByteAt(offset)
	}
	switch {
	case offset < b.StoreStart():
		return e.store.ByteAt(offset)
	case offset < b.End():
		cur := b.Current()
		return cur[offset-b.StoreStart()], true
	default:
		return e.store.ByteAt(offset - b.Delta())
	}
}

// sliceLocked returns the logical text in [start, end). A range that
// straddles the buffer boundary forces a flush first.
func (e *Engine) sliceLocked(start, end ByteOffset) string {
	b := e.buf
	if b == nil || !b.Dirty() {
		return e.store.Slice(start, end)
	}
	switch {
	case end <= b.StoreStart():
		return e.store.Slice(start, end)
	case start >= b.StoreStart() && end <= b.End():
		cur := b.Current()
		lo := start - b.StoreStart()
		hi := end - b.StoreStart()
		return cur[lo:hi]
	case start >= b.End():
		return e.store.Slice(start-b.Delta(), end-b.Delta())
	default:
		e.flushLocked()
		return e.store.Slice(start, end)
	}
}

// ============================================================================
// Write-buffer lifecycle
// ============================================================================

// Flush commits any pending write-buffer into the store.
func (e *Engine) Flush() {
	e.mu.Lock()
	n, notify := e.flushAndNotifyLocked()
	e.mu.Unlock()
	if notify {
		e.fanOut(n)
	}
}

// flushAndNotifyLocked flushes and prepares a notification if the flush
// committed anything.
func (e *Engine) flushAndNotifyLocked() (Notification, bool) {
	committed := e.buf != nil && e.buf.Dirty()
	e.flushLocked()
	if !committed {
		return Notification{}, false
	}
	return e.notificationLocked(false, false), true
}

// flushLocked commits and deactivates the buffer. Idempotent: flushing
// with no buffer, or a clean buffer, does nothing.
func (e *Engine) flushLocked() {
	if e.buf == nil {
		return
	}
	wasDirty := e.buf.Dirty()
	// Flush offsets are valid by the buffer invariant; a store error here
	// would mean the invariant was already broken.
	_ = e.buf.Flush(e.store)
	e.buf = nil
	e.cancelFlushLocked()
	if wasDirty {
		e.version++
	}
}

// scheduleFlushLocked arms the debounce timer, replacing any pending task.
func (e *Engine) scheduleFlushLocked() {
	e.cancelFlushLocked()
	if e.flushDelay <= 0 {
		return
	}
	e.flushTimer = time.AfterFunc(e.flushDelay, e.Flush)
}

func (e *Engine) cancelFlushLocked() {
	if e.flushTimer != nil {
		e.flushTimer.Stop()
		e.flushTimer = nil
	}
}

// ensureBufferLocked makes the buffer active for the given line, flushing
// any buffer that covers a different line.
func (e *Engine) ensureBufferLocked(line uint32) {
	if e.buf != nil && e.buf.Line() != line {
		e.flushLocked()
	}
	if e.buf == nil {
		e.buf = linebuf.Activate(e.store, line)
	}
}

// ============================================================================
// Selection
// ============================================================================

// SetSelection sets the selection. A non-silent change must resynchronize
// with the platform input connection: it flushes the buffer and is
// remembered so the platform echo of it is ignored. A silent change adjusts
// engine state only.
func (e *Engine) SetSelection(sel Selection, silent bool) {
	e.mu.Lock()
	if !silent {
		e.flushLocked()
	}
	e.sel = sel.Clamp(e.docLenLocked())
	if !silent {
		e.pushedSel = e.sel
		e.hasPushedSel = true
	}
	n := e.notificationLocked(false, false)
	e.mu.Unlock()
	e.fanOut(n)
}

// ============================================================================
// Programmatic editing API
// ============================================================================

// InsertText inserts text at the given offset, bypassing assist policy.
// Unlike the delta path, out-of-range offsets are an error.
func (e *Engine) InsertText(offset ByteOffset, text string) error {
	e.mu.Lock()
	if offset < 0 || offset > e.docLenLocked() {
		e.mu.Unlock()
		return ErrOffsetOutOfRange
	}
	after := selection.Cursor(offset + ByteOffset(len(text)))
	e.commitInsertLocked(offset, text, after)
	n := e.notificationLocked(true, strings.Contains(text, "\n"))
	e.mu.Unlock()
	e.fanOut(n)
	return nil
}

// DeleteRange removes the logical range [start, end). Inverted or
// out-of-bounds ranges are an error.
func (e *Engine) DeleteRange(start, end ByteOffset) error {
	e.mu.Lock()
	if start < 0 || start > end || end > e.docLenLocked() {
		e.mu.Unlock()
		return ErrRangeInvalid
	}
	deleted := e.sliceLocked(start, end)
	e.commitDeleteLocked(start, deleted, selection.Cursor(start))
	n := e.notificationLocked(true, strings.Contains(deleted, "\n"))
	e.mu.Unlock()
	e.fanOut(n)
	return nil
}

// ReplaceRange atomically replaces [start, end) with text. Inverted or
// out-of-bounds ranges are an error.
func (e *Engine) ReplaceRange(start, end ByteOffset, text string) error {
	e.mu.Lock()
	if start < 0 || start > end || end > e.docLenLocked() {
		e.mu.Unlock()
		return ErrRangeInvalid
	}
	structure := e.commitReplaceLocked(start, end, text,
		selection.Cursor(start+ByteOffset(len(text))))
	n := e.notificationLocked(true, structure)
	e.mu.Unlock()
	e.fanOut(n)
	return nil
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Controller returns the undo controller in use.
func (e *Engine) Controller() undo.Controller {
	return e.controller
}

// Undo replays the inverse of the last recorded operation. Available only
// when the controller drives its own replay (the default history does).
func (e *Engine) Undo() error {
	u, ok := e.controller.(undoer)
	if !ok {
		return ErrNotConfigured
	}
	return u.Undo()
}

// Redo replays the last undone operation.
func (e *Engine) Redo() error {
	u, ok := e.controller.(undoer)
	if !ok {
		return ErrNotConfigured
	}
	return u.Redo()
}

// ApplyOperation is the replay entry point registered with the undo
// controller. It flushes the buffer, applies the operation directly against
// the store, restores the recorded selection, and notifies once.
func (e *Engine) ApplyOperation(op Operation) error {
	e.mu.Lock()
	e.flushLocked()
	if err := e.applyOperationLocked(op); err != nil {
		e.mu.Unlock()
		return err
	}
	e.sel = op.SelAfter.Clamp(e.docLenLocked())
	n := e.notificationLocked(true, op.HasNewline())
	e.mu.Unlock()
	e.fanOut(n)
	return nil
}

// applyOperationLocked dispatches on the operation's kind. Compound
// operations recurse without notifying; the outer call notifies once.
func (e *Engine) applyOperationLocked(op Operation) error {
	switch op.Kind {
	case undo.KindInsert:
		if err := e.store.Insert(op.Offset, op.Text); err != nil {
			return err
		}
		e.version++
		e.markEditLocked(op.Offset, op.Offset+ByteOffset(len(op.Text)), strings.Contains(op.Text, "\n"))
	case undo.KindDelete:
		end := op.Offset + ByteOffset(len(op.Text))
		if err := e.store.Delete(op.Offset, end); err != nil {
			return err
		}
		e.version++
		e.markEditLocked(op.Offset, end, strings.Contains(op.Text, "\n"))
	case undo.KindReplace:
		end := op.Offset + ByteOffset(len(op.Deleted))
		if err := e.store.Replace(op.Offset, end, op.Inserted); err != nil {
			return err
		}
		e.version++
		structure := strings.Contains(op.Deleted, "\n") || strings.Contains(op.Inserted, "\n")
		e.markEditLocked(op.Offset, op.Offset+ByteOffset(len(op.Inserted)), structure)
	case undo.KindCompound:
		for _, child := range op.Children {
			if err := e.applyOperationLocked(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordLocked hands a committed operation to the controller, unless a
// replay is in progress.
func (e *Engine) recordLocked(op Operation) {
	if e.controller.InProgress() {
		return
	}
	e.controller.RecordEdit(op)
}

// ============================================================================
// Dirty surface
// ============================================================================

// Dirty returns the current invalidation markers.
func (e *Engine) Dirty() DirtyState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// ClearDirty acknowledges the invalidation markers, resetting them.
func (e *Engine) ClearDirty() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty.Clear()
}

// markEditLocked widens the dirty markers for an edit over [start, end).
func (e *Engine) markEditLocked(start, end ByteOffset, structure bool) {
	e.dirty.MarkRegion(start, end)
	if structure {
		e.dirty.MarkStructure()
	} else {
		e.dirty.MarkLine(e.lineAtOffsetLocked(start))
	}
}

// ============================================================================
// Search
// ============================================================================

// Search finds every match of pattern in the logical document and marks the
// highlight surface stale. A malformed regular expression degrades to no
// matches.
func (e *Engine) Search(pattern string, opts search.Options) []search.Match {
	e.mu.Lock()
	e.flushLocked()
	text := e.store.Text()
	e.dirty.MarkHighlights()
	e.mu.Unlock()
	return search.Find(text, pattern, opts)
}

// ============================================================================
// Listeners
// ============================================================================

// AddListener registers a change listener and returns its removal handle.
func (e *Engine) AddListener(fn Listener) ListenerHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := uuid.New()
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: fn})
	return id
}

// RemoveListener unregisters a listener by handle.
func (e *Engine) RemoveListener(handle ListenerHandle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, l := range e.listeners {
		if l.id == handle {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// notificationLocked captures the post-change state for fan-out.
func (e *Engine) notificationLocked(textChanged, structureChanged bool) Notification {
	return Notification{
		Version:          e.version,
		Selection:        e.sel,
		TextChanged:      textChanged,
		StructureChanged: structureChanged,
	}
}

// fanOut delivers a notification synchronously, in registration order.
// Called without the engine lock so listeners may read back into the engine.
func (e *Engine) fanOut(n Notification) {
	e.mu.Lock()
	snapshot := make([]listenerEntry, len(e.listeners))
	copy(snapshot, e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn(n)
	}
}
