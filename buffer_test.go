package vex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestBuffer builds a buffer holding the given lines (or one empty line
// when none are given), history empty, cursor at 1:1.
func newTestBuffer(lines ...string) *Buffer {
	b := NewBuffer()
	if len(lines) > 0 {
		b.Lines = b.Lines[:0]
		for _, l := range lines {
			b.Lines = append(b.Lines, NewLineFromRunes([]rune(l), b.TabStop))
		}
	}
	return b
}

func bufferText(b *Buffer) string {
	parts := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		parts = append(parts, l.String())
	}
	return strings.Join(parts, "\n")
}

func key(r rune) Key { return Key{Kind: KeyRune, R: r} }

func feed(t *testing.T, d *Dispatcher, input string) {
	t.Helper()
	for _, r := range input {
		if err := d.Dispatch(key(r)); err != nil {
			t.Fatalf("dispatch %q: %v", string(r), err)
		}
	}
}

func TestInsertAppendSaveQuit(t *testing.T) {
	// open "hello", append " world", write, check the bytes on disk
	b := newTestBuffer("hello")
	d := NewDispatcher(b)
	feed(t, d, "A world\x1b")

	path := filepath.Join(t.TempDir(), "foo.txt")
	if err := b.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "hello world\n" {
		t.Fatalf("expected %q, got %q", "hello world\n", string(data))
	}
	if b.Modified {
		t.Fatal("expected Modified false after save")
	}
}

func TestDeleteLineYankUndo(t *testing.T) {
	// dd on line 2 of a/b/c: deleted line lands in the register, u restores
	b := newTestBuffer("a", "b", "c")
	d := NewDispatcher(b)
	b.GotoLine(2)
	feed(t, d, "dd")

	if got := bufferText(b); got != "a\nc" {
		t.Fatalf("expected a/c after dd, got %q", got)
	}
	if b.Register.Kind != YankLines {
		t.Fatalf("expected a whole-lines yank, got kind %d", b.Register.Kind)
	}
	if len(b.Register.Lines) != 1 || string(b.Register.Lines[0]) != "b" {
		t.Fatalf("expected register [b], got %v", b.Register.Lines)
	}

	feed(t, d, "u")
	if got := bufferText(b); got != "a\nb\nc" {
		t.Fatalf("expected undo to restore a/b/c, got %q", got)
	}
}

func TestEditsUndoneRestoreText(t *testing.T) {
	// equal-count undos restore the pre-edit text
	b := newTestBuffer("alpha", "beta")
	before := bufferText(b)
	d := NewDispatcher(b)

	feed(t, d, "A!\x1b")  // group 1: append a char
	feed(t, d, "ohi\x1b") // group 2: open a line, type two chars
	b.GotoLine(1)
	feed(t, d, "dd") // group 3: delete a line

	if bufferText(b) == before {
		t.Fatal("edits should have changed the text")
	}
	feed(t, d, "uuu")
	if got := bufferText(b); got != before {
		t.Fatalf("expected 3 undos to restore %q, got %q", before, got)
	}
}

func TestModifiedTracksHistoryPosition(t *testing.T) {
	// Modified is true exactly when the history position differs from the
	// last save point
	b := newTestBuffer("x")
	if b.Modified {
		t.Fatal("fresh buffer should be unmodified")
	}
	b.InsertChar('y')
	if !b.Modified {
		t.Fatal("expected Modified after an insert")
	}
	b.MarkSaved()
	if b.Modified {
		t.Fatal("expected unmodified after MarkSaved")
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if !b.Modified {
		t.Fatal("expected Modified after undoing past the save point")
	}
	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if b.Modified {
		t.Fatal("expected unmodified after redoing back to the save point")
	}
}

func TestBufferNeverEmpty(t *testing.T) {
	b := newTestBuffer("only")
	b.DeleteLines(1, 1)
	if b.LineCount() != 1 {
		t.Fatalf("deleting the only line must leave one empty line, got %d", b.LineCount())
	}
	if b.Lines[0].Actual != 0 {
		t.Fatalf("expected the surviving line to be empty, got %q", b.Lines[0].String())
	}
}

func TestBackspaceMergesLines(t *testing.T) {
	b := newTestBuffer("ab", "cd")
	b.LineNo, b.ColNo = 2, 1
	b.Mode = ModeInsert
	b.DeleteAtCursor()
	if got := bufferText(b); got != "abcd" {
		t.Fatalf("expected merged abcd, got %q", got)
	}
	if b.LineNo != 1 || b.ColNo != 3 {
		t.Fatalf("expected cursor 1:3 at the join, got %d:%d", b.LineNo, b.ColNo)
	}
}

func TestInsertLineFeedAutoIndent(t *testing.T) {
	b := newTestBuffer("\tif x {")
	b.Tabs = true
	b.Mode = ModeInsert
	b.ColNo = b.Lines[0].Actual + 1
	b.InsertLineFeed()
	// leading whitespace copied, plus one indent unit for the brace
	if got := b.Lines[1].String(); got != "\t\t" {
		t.Fatalf("expected two tabs of indent after an open brace, got %q", got)
	}
	if b.LineNo != 2 || b.ColNo != 3 {
		t.Fatalf("expected cursor 2:3, got %d:%d", b.LineNo, b.ColNo)
	}
}

func TestInsertLineFeedClearsWhitespaceOnlyLine(t *testing.T) {
	b := newTestBuffer("    ")
	b.Mode = ModeInsert
	b.ColNo = 5
	b.InsertLineFeed()
	if b.Lines[0].Actual != 0 {
		t.Fatalf("expected the whitespace-only line to be cleared, got %q", b.Lines[0].String())
	}
}

func cellWidths(l *Line) []int {
	out := make([]int, l.Actual)
	for i := 0; i < l.Actual; i++ {
		out[i] = int(l.Cells[i].Width)
	}
	return out
}

func TestSplitRecomputesTabWidths(t *testing.T) {
	// pressing Enter in an unindented line with a tab past the cursor must
	// leave every cell of the right half with a width for its new column
	b := newTestBuffer("ab\tcd")
	b.Mode = ModeInsert
	b.ColNo = 2
	b.InsertLineFeed()

	if got := bufferText(b); got != "a\nb\tcd" {
		t.Fatalf("unexpected split result: %q", got)
	}
	right := b.Lines[1]
	want := []int{1, 7, 1, 1} // tab moved from column 2 to column 1
	for i, w := range want {
		if int(right.Cells[i].Width) != w {
			t.Fatalf("right-half widths %v, want %v", cellWidths(right), want)
		}
	}
}

func TestMergeRecomputesTabWidths(t *testing.T) {
	b := newTestBuffer("ab", "\tcd")
	if b.Lines[1].Cells[0].Width != 8 {
		t.Fatalf("setup: tab at column 0 should span 8, got %d", b.Lines[1].Cells[0].Width)
	}
	b.LineNo, b.ColNo = 2, 1
	b.Mode = ModeInsert
	b.DeleteAtCursor()

	if got := bufferText(b); got != "ab\tcd" {
		t.Fatalf("unexpected merge result: %q", got)
	}
	merged := b.Lines[0]
	want := []int{1, 1, 6, 1, 1} // tab now at column 2
	for i, w := range want {
		if int(merged.Cells[i].Width) != w {
			t.Fatalf("merged widths %v, want %v", cellWidths(merged), want)
		}
	}
}

func TestUndoRedoReplayRecomputesTabWidths(t *testing.T) {
	// the journal replay paths rebuild lines with Split/Merge too, so
	// widths must come back correct in both directions
	b := newTestBuffer("ab\tcd")
	b.Mode = ModeInsert
	b.ColNo = 2
	b.InsertLineFeed()
	b.Mode = ModeNormal
	b.History().Break()

	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	merged := b.Lines[0]
	if got := bufferText(b); got != "ab\tcd" {
		t.Fatalf("undo should re-merge, got %q", got)
	}
	if merged.Cells[2].Width != 6 {
		t.Fatalf("undo-merged widths %v, want tab width 6 at column 2", cellWidths(merged))
	}

	if err := b.Redo(); err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got := bufferText(b); got != "a\nb\tcd" {
		t.Fatalf("redo should re-split, got %q", got)
	}
	if b.Lines[1].Cells[1].Width != 7 {
		t.Fatalf("redo-split widths %v, want tab width 7 at column 1", cellWidths(b.Lines[1]))
	}
}

func TestWordMotions(t *testing.T) {
	b := newTestBuffer("foo bar, baz")
	b.WordRight()
	if b.ColNo != 5 {
		t.Fatalf("w: expected col 5 (bar), got %d", b.ColNo)
	}
	b.WordRight()
	if b.ColNo != 8 {
		t.Fatalf("w: expected col 8 (comma is its own class), got %d", b.ColNo)
	}
	b.WordRight()
	if b.ColNo != 10 {
		t.Fatalf("w: expected col 10 (baz), got %d", b.ColNo)
	}
	b.WordLeft()
	if b.ColNo != 8 {
		t.Fatalf("b: expected col 8, got %d", b.ColNo)
	}
	b.ColNo = 1
	b.WordEnd()
	if b.ColNo != 3 {
		t.Fatalf("e: expected col 3 (end of foo), got %d", b.ColNo)
	}
}

func TestWordRightCrossesLines(t *testing.T) {
	b := newTestBuffer("foo", "bar")
	b.ColNo = 1
	b.WordRight()
	if b.LineNo != 2 || b.ColNo != 1 {
		t.Fatalf("expected 2:1, got %d:%d", b.LineNo, b.ColNo)
	}
}

func TestGotoLineClamps(t *testing.T) {
	b := newTestBuffer("a", "b")
	b.GotoLine(99)
	if b.LineNo != 2 {
		t.Fatalf("expected clamp to 2, got %d", b.LineNo)
	}
	b.GotoLine(0)
	if b.LineNo != 1 {
		t.Fatalf("expected clamp to 1, got %d", b.LineNo)
	}
}

func TestIndentOutdentLines(t *testing.T) {
	b := newTestBuffer("one", "two")
	b.Tabs = true
	b.IndentLines(1, 2)
	if b.Lines[0].String() != "\tone" || b.Lines[1].String() != "\ttwo" {
		t.Fatalf("expected both lines indented, got %q / %q", b.Lines[0].String(), b.Lines[1].String())
	}
	b.OutdentLines(1, 2)
	if b.Lines[0].String() != "one" || b.Lines[1].String() != "two" {
		t.Fatalf("expected indent removed, got %q / %q", b.Lines[0].String(), b.Lines[1].String())
	}
}

func TestReadonlyRefusesMutation(t *testing.T) {
	b := newTestBuffer("ro")
	b.Readonly = true
	b.InsertChar('x')
	b.DeleteLines(1, 1)
	if got := bufferText(b); got != "ro" {
		t.Fatalf("readonly buffer mutated: %q", got)
	}
	if err := b.Save(""); err == nil {
		t.Fatal("expected readonly save to fail")
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	b := NewBuffer()
	path := filepath.Join(t.TempDir(), "new.txt")
	if err := b.Load(path); err != nil {
		t.Fatalf("load of a nonexistent path should start an empty buffer: %v", err)
	}
	if b.FileName != path || b.LineCount() != 1 {
		t.Fatalf("unexpected state: file=%q lines=%d", b.FileName, b.LineCount())
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.txt")
	content := "line one\n\tline two\nline three\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	b := NewBuffer()
	if err := b.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	out := filepath.Join(dir, "out.txt")
	if err := b.Save(out); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(out)
	if string(data) != content {
		t.Fatalf("round trip mismatch: %q vs %q", content, string(data))
	}
}
