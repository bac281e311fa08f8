// Package vex implements the editing engine of a modal, terminal-based
// text editor in the tradition of vi.
//
// # Architecture
//
// The package is organized around these core types, leaves first:
//
//   - [Cell]: one displayed codepoint plus its width and syntax/overlay flags
//   - [Line]: a growable sequence of cells with an incoming syntax state
//   - [Buffer]: an open document — lines, cursor, mode, history
//   - [History]: the undo/redo journal, a doubly-linked chain of records
//   - [Dispatcher]: the modal keystroke state machine
//   - [Renderer]: maps buffer state through a [Viewport] to terminal paints
//   - [EditorShell]: owns the buffer list, active tab, split layout, and
//     drives the top-level read-dispatch-render loop
//
// # External collaborators
//
// The engine never touches a screen or a socket directly. It consumes
// small interfaces that a host program supplies:
//
//   - [Terminal]: raw terminal I/O (see package internal/tty for a real
//     implementation built on golang.org/x/term)
//   - [SyntaxLexer]: one plug-in per language (see package
//     internal/syntaxlex)
//
// A minimal host loop looks like:
//
//	term, _ := tty.Open()
//	sh := vex.NewEditorShell(term)
//	sh.Open("main.go")
//	err := sh.Run()
//
// # Modes
//
// The dispatcher recognizes nine modes: Normal, Insert, Replace, LineSel,
// CharSel, ColSel, ColInsert, Command, Search. See [Mode].
//
// # Undo
//
// Every mutation outside of file-load appends a [HistoryRecord] to the
// buffer's [History]. High-level actions are delimited by Break records;
// [Buffer.Undo] and [Buffer.Redo] walk the chain between breaks.
package vex
