// Package engine implements the incremental edit engine at the core of a
// code-editor component.
//
// The engine owns the document (a text store plus a monotonically
// increasing version counter), the anchor/caret selection, and a single-line
// write-coalescing buffer that absorbs bursts of same-line edits before they
// hit the store. Platform input arrives as ordered edit deltas; the engine
// reconciles each cycle into exactly one coherent document state, applying
// editor-assist policy (bracket auto-closing, auto-indent, fold-aware
// navigation) along the way, then notifies listeners once.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - textstore: the text store contract and its default implementation
//   - selection: the anchor/caret selection value type
//   - linebuf: the single-line write-coalescing buffer
//   - undo: the operation sum type, controller contract, and default history
//   - fold: the fold-range contract consulted during navigation
//   - dirty: the pull-based invalidation surface for renderers
//
// # Concurrency
//
// The engine assumes cooperative, effectively single-threaded use: all
// mutation happens through engine entry points, serialized by an internal
// mutex. The only asynchronous element is the debounced flush task, which
// re-enters the engine through the same mutex and therefore never
// interleaves with a mutation.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("if (x) {"))
//
//	// Feed platform deltas for one input cycle.
//	e.ApplyDeltas([]engine.Delta{
//		engine.InsertDelta(8, "\n", selection.Cursor(9)),
//	})
//
//	// Read the reconciled document.
//	text := e.Text()
//
// # Error Handling
//
// Out-of-range platform deltas are clamped or ignored; they originate from
// platform echo races, not user action, and never surface as errors.
// Programmatic misuse of the direct editing API (InsertText, DeleteRange,
// ReplaceRange) returns errors instead.
package engine
