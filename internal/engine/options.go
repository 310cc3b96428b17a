package engine

import (
	"time"

	"github.com/dshills/editkit/internal/engine/fold"
	"github.com/dshills/editkit/internal/engine/textstore"
	"github.com/dshills/editkit/internal/engine/undo"
)

// Default configuration values.
const (
	// DefaultFlushDelay is the debounce delay before a dirty write-buffer
	// is committed to the store.
	DefaultFlushDelay = 300 * time.Millisecond

	// DefaultIndentUnit is one level of auto-indent.
	DefaultIndentUnit = "  "

	// DefaultMaxUndoEntries bounds the default undo history.
	DefaultMaxUndoEntries = undo.DefaultMaxEntries
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial document content.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithStore supplies a text store implementation. The store must already
// hold the initial content; WithContent is ignored when a store is supplied.
func WithStore(store textstore.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithUndoController supplies an external undo controller in place of the
// engine's own history.
func WithUndoController(c undo.Controller) Option {
	return func(e *Engine) {
		e.controller = c
	}
}

// WithFoldProvider supplies the fold ranges consulted during navigation.
func WithFoldProvider(p fold.Provider) Option {
	return func(e *Engine) {
		e.folds = p
	}
}

// WithIndentUnit sets the whitespace string for one auto-indent level.
func WithIndentUnit(unit string) Option {
	return func(e *Engine) {
		if unit != "" {
			e.indentUnit = unit
		}
	}
}

// WithAutoClose enables or disables bracket auto-closing and skip-over.
func WithAutoClose(enabled bool) Option {
	return func(e *Engine) {
		e.autoClose = enabled
	}
}

// WithFlushDelay sets the write-buffer debounce delay. A zero or negative
// delay disables the deferred flush; the buffer then commits only on the
// explicit flush triggers.
func WithFlushDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.flushDelay = d
	}
}

// WithMaxUndoEntries bounds the engine's own undo history. Ignored when an
// external controller is supplied.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxUndoEntries = n
		}
	}
}
