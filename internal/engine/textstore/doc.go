// Package textstore defines the text store contract consumed by the edit
// engine and provides the default implementation.
//
// The store is the canonical character storage for a document: it supports
// offset-addressed insert/delete/replace, substring and byte access, and
// line-indexed lookup (line to start offset, offset to line, line text,
// line count). The engine consumes the store exclusively through the Store
// interface so alternative storage structures (ropes, piece tables) can be
// substituted without touching the engine.
//
// All offsets are byte positions in the document. Line numbers are
// 0-indexed. An empty document has exactly one (empty) line.
package textstore
