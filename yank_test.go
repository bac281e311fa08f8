package vex

import "testing"

func TestLineYankPasteRoundTrip(t *testing.T) {
	// yank then P restores the slice byte-identically
	b := newTestBuffer("one", "two", "three")
	b.YankLines(1, 2)
	b.GotoLine(3)
	b.PasteBefore()
	if got := bufferText(b); got != "one\ntwo\none\ntwo\nthree" {
		t.Fatalf("unexpected paste result: %q", got)
	}
}

func TestLinePasteAfter(t *testing.T) {
	b := newTestBuffer("a", "b")
	b.YankLines(2, 2)
	b.GotoLine(1)
	b.PasteAfter()
	if got := bufferText(b); got != "a\nb\nb" {
		t.Fatalf("expected line spliced below, got %q", got)
	}
	if b.LineNo != 2 {
		t.Fatalf("expected cursor on the pasted line, got %d", b.LineNo)
	}
}

func TestCharYankPasteInline(t *testing.T) {
	b := newTestBuffer("hello")
	b.YankChars(0, 1, 4) // "ell"
	if b.Register.Kind != YankChars || string(b.Register.Lines[0]) != "ell" {
		t.Fatalf("unexpected register: kind=%d %v", b.Register.Kind, b.Register.Lines)
	}
	b.ColNo = 5
	b.PasteAfter()
	if got := bufferText(b); got != "helloell" {
		t.Fatalf("expected inline splice, got %q", got)
	}
}

func TestCharRangeYankDeletePaste(t *testing.T) {
	// multi-line char selection: partial first, full middle, partial last
	b := newTestBuffer("alpha", "middle", "omega")
	b.YankCharRange(1, 2, 3, 2) // "pha", "middle", "om"
	reg := b.Register
	if reg.Kind != YankChars || len(reg.Lines) != 3 {
		t.Fatalf("unexpected register shape: kind=%d n=%d", reg.Kind, len(reg.Lines))
	}
	if string(reg.Lines[0]) != "pha" || string(reg.Lines[1]) != "middle" || string(reg.Lines[2]) != "om" {
		t.Fatalf("unexpected capture: %q %q %q", string(reg.Lines[0]), string(reg.Lines[1]), string(reg.Lines[2]))
	}

	b.DeleteCharRange(1, 2, 3, 2)
	if got := bufferText(b); got != "alega" {
		t.Fatalf("expected remainder merged into one line, got %q", got)
	}

	// pasting the capture back at the deletion point restores the text
	b.LineNo, b.ColNo = 1, 2
	b.PasteAfter()
	if got := bufferText(b); got != "alpha\nmiddle\nomega" {
		t.Fatalf("paste-after-delete should restore the original, got %q", got)
	}
}

func TestBlockYankCapture(t *testing.T) {
	b := newTestBuffer("abcd", "efgh", "ij")
	b.YankBlock(1, 3, 1, 3) // cols 2-3 of each line
	reg := b.Register
	if reg.Kind != YankBlock || len(reg.Lines) != 3 {
		t.Fatalf("unexpected register: kind=%d n=%d", reg.Kind, len(reg.Lines))
	}
	if string(reg.Lines[0]) != "bc" || string(reg.Lines[1]) != "fg" || string(reg.Lines[2]) != "j" {
		t.Fatalf("unexpected block capture: %v", reg.Lines)
	}
}

func TestDeleteCharsYanksFirst(t *testing.T) {
	b := newTestBuffer("abcdef")
	b.DeleteChars(0, 1, 4)
	if got := bufferText(b); got != "aef" {
		t.Fatalf("expected aef, got %q", got)
	}
	if string(b.Register.Lines[0]) != "bcd" {
		t.Fatalf("expected register bcd, got %q", string(b.Register.Lines[0]))
	}
	if err := b.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := bufferText(b); got != "abcdef" {
		t.Fatalf("expected undo to restore, got %q", got)
	}
}

func TestRegisterClear(t *testing.T) {
	b := newTestBuffer("x")
	b.YankLines(1, 1)
	b.Register.Clear()
	b.PasteAfter()
	if got := bufferText(b); got != "x" {
		t.Fatalf("paste of a cleared register must be a no-op, got %q", got)
	}
}

func TestSharedRegisterAcrossBuffers(t *testing.T) {
	shared := &Register{}
	a := newTestBuffer("from a")
	a.Register = shared
	c := newTestBuffer("z")
	c.Register = shared

	a.YankLines(1, 1)
	c.PasteAfter()
	if got := bufferText(c); got != "z\nfrom a" {
		t.Fatalf("expected the yank to cross buffers, got %q", got)
	}
}
