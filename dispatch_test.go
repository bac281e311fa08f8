package vex

import (
	"testing"
)

func csi(seq string) Key { return Key{Kind: KeyCSI, Seq: seq} }

func TestColumnInsertAcrossLines(t *testing.T) {
	// Ctrl+V, j, I, X, Esc inserts X at the anchor column of both rows
	b := newTestBuffer("abc", "def", "ghi")
	d := NewDispatcher(b)
	feed(t, d, "\x16jIX\x1b")
	if got := bufferText(b); got != "Xabc\nXdef\nghi" {
		t.Fatalf("expected column insert on the first two rows, got %q", got)
	}
}

func TestColumnInsertBackspace(t *testing.T) {
	b := newTestBuffer("abc", "def")
	d := NewDispatcher(b)
	feed(t, d, "\x16jIXY")
	feed(t, d, "\x7f") // backspace removes the last lockstep insert
	feed(t, d, "\x1b")
	if got := bufferText(b); got != "Xabc\nXdef" {
		t.Fatalf("expected only X to survive, got %q", got)
	}
}

func TestColSelDeleteBlock(t *testing.T) {
	b := newTestBuffer("abcd", "efgh")
	d := NewDispatcher(b)
	feed(t, d, "\x16jlld")
	if got := bufferText(b); got != "d\nh" {
		t.Fatalf("expected the block removed from both rows, got %q", got)
	}
	reg := b.Register
	if reg.Kind != YankBlock || len(reg.Lines) != 2 {
		t.Fatalf("unexpected register: kind=%d n=%d", reg.Kind, len(reg.Lines))
	}
	if string(reg.Lines[0]) != "abc" || string(reg.Lines[1]) != "efg" {
		t.Fatalf("unexpected block capture: %q %q", string(reg.Lines[0]), string(reg.Lines[1]))
	}
	feed(t, d, "u")
	if got := bufferText(b); got != "abcd\nefgh" {
		t.Fatalf("expected undo to restore the block, got %q", got)
	}
}

func TestCountPrefixMotion(t *testing.T) {
	b := newTestBuffer("a", "b", "c", "d", "e")
	d := NewDispatcher(b)
	feed(t, d, "3j")
	if b.LineNo != 4 {
		t.Fatalf("expected 3j to land on line 4, got %d", b.LineNo)
	}
	feed(t, d, "2k")
	if b.LineNo != 2 {
		t.Fatalf("expected 2k to land on line 2, got %d", b.LineNo)
	}
}

func TestCountedGotoLine(t *testing.T) {
	b := newTestBuffer("a", "b", "c", "d")
	d := NewDispatcher(b)
	feed(t, d, "3G")
	if b.LineNo != 3 {
		t.Fatalf("expected 3G on line 3, got %d", b.LineNo)
	}
	feed(t, d, "G")
	if b.LineNo != 4 {
		t.Fatalf("expected G on the last line, got %d", b.LineNo)
	}
	feed(t, d, "gg")
	if b.LineNo != 1 {
		t.Fatalf("expected gg on line 1, got %d", b.LineNo)
	}
}

func TestReplaceSingleChar(t *testing.T) {
	b := newTestBuffer("cat")
	d := NewDispatcher(b)
	feed(t, d, "ri")
	if got := bufferText(b); got != "iat" {
		t.Fatalf("expected r+i to replace in place, got %q", got)
	}
	if b.Mode != ModeNormal {
		t.Fatalf("r must stay in Normal mode, got %v", b.Mode)
	}
}

func TestReplaceCharDoesNotTriggerCommand(t *testing.T) {
	// the replacement char must be taken literally even when it is itself
	// a Normal-mode command key
	b := newTestBuffer("cat")
	d := NewDispatcher(b)
	feed(t, d, "rd")
	if got := bufferText(b); got != "dat" {
		t.Fatalf("expected rd to replace with 'd', got %q", got)
	}
	feed(t, d, "x")
	if got := bufferText(b); got != "at" {
		t.Fatalf("pending operator leaked: %q", got)
	}
}

func TestReplaceModeOvertypes(t *testing.T) {
	b := newTestBuffer("abcd")
	d := NewDispatcher(b)
	feed(t, d, "RXY\x1b")
	if got := bufferText(b); got != "XYcd" {
		t.Fatalf("expected overtype, got %q", got)
	}
}

func TestLineSelectionDelete(t *testing.T) {
	b := newTestBuffer("a", "b", "c")
	d := NewDispatcher(b)
	feed(t, d, "Vjd")
	if got := bufferText(b); got != "c" {
		t.Fatalf("expected the first two lines deleted, got %q", got)
	}
	if b.Register.Kind != YankLines || len(b.Register.Lines) != 2 {
		t.Fatalf("expected two yanked lines, got %v", b.Register.Lines)
	}
}

func TestCharSelectionYankMultiline(t *testing.T) {
	b := newTestBuffer("abc", "def")
	d := NewDispatcher(b)
	feed(t, d, "lvjy") // anchor at 1:2, extend to 2:2, yank
	reg := b.Register
	if reg.Kind != YankChars || len(reg.Lines) != 2 {
		t.Fatalf("unexpected register: kind=%d n=%d", reg.Kind, len(reg.Lines))
	}
	if string(reg.Lines[0]) != "bc" || string(reg.Lines[1]) != "de" {
		t.Fatalf("unexpected capture: %q %q", string(reg.Lines[0]), string(reg.Lines[1]))
	}
}

func TestLineSelTabIndents(t *testing.T) {
	b := newTestBuffer("one", "two")
	b.Tabs = true
	d := NewDispatcher(b)
	feed(t, d, "Vj\t\x1b")
	if b.Lines[0].String() != "\tone" || b.Lines[1].String() != "\ttwo" {
		t.Fatalf("expected Tab to indent the selection, got %q / %q", b.Lines[0].String(), b.Lines[1].String())
	}
	feed(t, d, "ggVj")
	if err := d.Dispatch(csi("Z")); err != nil {
		t.Fatal(err)
	}
	feed(t, d, "\x1b")
	if b.Lines[0].String() != "one" || b.Lines[1].String() != "two" {
		t.Fatalf("expected Shift-Tab to outdent, got %q / %q", b.Lines[0].String(), b.Lines[1].String())
	}
}

func TestSelectionOverlayFollowsCursor(t *testing.T) {
	b := newTestBuffer("abcdef")
	d := NewDispatcher(b)
	feed(t, d, "vll")
	line := b.Lines[0]
	for i := 0; i < 3; i++ {
		if !line.Cells[i].HasFlag(FlagSelect) {
			t.Fatalf("expected FlagSelect on col %d", i)
		}
	}
	if line.Cells[3].HasFlag(FlagSelect) {
		t.Fatal("selection overlay extends past the cursor")
	}
	feed(t, d, "\x1b")
	if line.Cells[0].HasFlag(FlagSelect) {
		t.Fatal("leaving selection mode must clear the overlay")
	}
}

func TestSearchModeCommitAndCancel(t *testing.T) {
	b := newTestBuffer("needle in here")
	d := NewDispatcher(b)
	feed(t, d, "/needle\r")
	if b.Mode != ModeNormal || b.ColNo != 1 {
		t.Fatalf("expected committed search at col 1, got mode=%v col=%d", b.Mode, b.ColNo)
	}

	feed(t, d, "/zzz")
	feed(t, d, "\x1b")
	if b.Mode != ModeNormal {
		t.Fatalf("Esc should cancel search mode, got %v", b.Mode)
	}
	if string(b.Search) != "needle" {
		t.Fatalf("cancel must restore the previous pattern, got %q", string(b.Search))
	}
}

func TestBackwardSearch(t *testing.T) {
	b := newTestBuffer("one two one")
	b.LineNo, b.ColNo = 1, 9
	d := NewDispatcher(b)
	feed(t, d, "?one\r")
	if b.ColNo != 1 {
		t.Fatalf("expected backward search to land at col 1, got %d", b.ColNo)
	}
}

func TestStarSearchesWordUnderCursor(t *testing.T) {
	b := newTestBuffer("foo bar foo")
	d := NewDispatcher(b)
	feed(t, d, "*")
	if string(b.Search) != "foo" {
		t.Fatalf("expected * to set the pattern, got %q", string(b.Search))
	}
	if b.ColNo != 9 {
		t.Fatalf("expected the next occurrence at col 9, got %d", b.ColNo)
	}
}

func TestCommandHistoryCycling(t *testing.T) {
	b := newTestBuffer("x")
	d := NewDispatcher(b)
	feed(t, d, ":tabs\r")
	feed(t, d, ":spaces\r")

	feed(t, d, ":")
	if err := d.Dispatch(csi("A")); err != nil { // Up
		t.Fatal(err)
	}
	if d.CommandLine() != "spaces" {
		t.Fatalf("expected most recent entry first, got %q", d.CommandLine())
	}
	if err := d.Dispatch(csi("A")); err != nil {
		t.Fatal(err)
	}
	if d.CommandLine() != "tabs" {
		t.Fatalf("expected the older entry, got %q", d.CommandLine())
	}
	if err := d.Dispatch(csi("B")); err != nil { // Down
		t.Fatal(err)
	}
	if d.CommandLine() != "spaces" {
		t.Fatalf("expected Down to walk forward, got %q", d.CommandLine())
	}
	feed(t, d, "\x1b")
}

func TestCommandHistoryDeduplicates(t *testing.T) {
	b := newTestBuffer("x")
	d := NewDispatcher(b)
	feed(t, d, ":tabs\r:spaces\r:tabs\r")
	if len(d.cmdHistory) != 2 {
		t.Fatalf("expected the repeat to dedup, got %v", d.cmdHistory)
	}
	if d.cmdHistory[1] != "tabs" {
		t.Fatalf("expected the repeat moved to most-recent, got %v", d.cmdHistory)
	}
}

func TestCommandCompletion(t *testing.T) {
	b := newTestBuffer("x")
	d := NewDispatcher(b)
	feed(t, d, ":spl")
	feed(t, d, "\t")
	if d.CommandLine() != "split" {
		t.Fatalf("expected completion to split, got %q", d.CommandLine())
	}
	feed(t, d, "\x1b")

	d.SyntaxNames = func() []string { return []string{"c", "python"} }
	feed(t, d, ":syntax py\t")
	if d.CommandLine() != "syntax python" {
		t.Fatalf("expected syntax-name completion, got %q", d.CommandLine())
	}
	feed(t, d, "\x1b")
}

func TestUndoAtOldestReportsExhausted(t *testing.T) {
	b := newTestBuffer("x")
	d := NewDispatcher(b)
	err := d.Dispatch(key('u'))
	verr, ok := err.(*Error)
	if !ok || verr.Kind != ErrKindHistoryExhausted {
		t.Fatalf("expected history-exhausted, got %v", err)
	}
}

func TestCountedUndoRedo(t *testing.T) {
	b := newTestBuffer("x")
	d := NewDispatcher(b)
	feed(t, d, "Aa\x1bAb\x1bAc\x1b") // three break-delimited append groups
	if got := bufferText(b); got != "xabc" {
		t.Fatalf("unexpected setup: %q", got)
	}
	feed(t, d, "2u")
	if got := bufferText(b); got != "xa" {
		t.Fatalf("expected 2u to unwind two groups, got %q", got)
	}
	feed(t, d, "\x12") // Ctrl+R
	if got := bufferText(b); got != "xab" {
		t.Fatalf("expected redo of one group, got %q", got)
	}
}

func TestArrowKeysMove(t *testing.T) {
	b := newTestBuffer("abc", "def")
	d := NewDispatcher(b)
	if err := d.Dispatch(csi("B")); err != nil {
		t.Fatal(err)
	}
	if b.LineNo != 2 {
		t.Fatalf("expected Down to move to line 2, got %d", b.LineNo)
	}
	if err := d.Dispatch(csi("C")); err != nil {
		t.Fatal(err)
	}
	if b.ColNo != 2 {
		t.Fatalf("expected Right to move to col 2, got %d", b.ColNo)
	}
}

func TestPreferredColumnSurvivesShortLine(t *testing.T) {
	b := newTestBuffer("abcdef", "x", "uvwxyz")
	d := NewDispatcher(b)
	feed(t, d, "llll") // col 5
	feed(t, d, "j")
	if b.ColNo != 1 {
		t.Fatalf("expected clamp to the short line, got col %d", b.ColNo)
	}
	feed(t, d, "j")
	if b.ColNo != 5 {
		t.Fatalf("expected the preferred column to return, got col %d", b.ColNo)
	}
}
