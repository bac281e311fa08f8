package vex

import "testing"

func TestHistoryUndoExhausted(t *testing.T) {
	h := NewHistory()
	err := h.Undo(func(*HistoryRecord) error { return nil })
	if err != ErrHistoryExhausted {
		t.Fatalf("expected ErrHistoryExhausted on a fresh journal, got %v", err)
	}
}

func TestHistoryRedoExhausted(t *testing.T) {
	h := NewHistory()
	err := h.Redo(func(*HistoryRecord) error { return nil })
	if err != ErrHistoryExhausted {
		t.Fatalf("expected ErrHistoryExhausted on a fresh journal, got %v", err)
	}
}

func TestHistoryBreakIsIdempotent(t *testing.T) {
	h := NewHistory()
	h.Append(HistoryRecord{Kind: HInsert})
	before := h.Position()
	h.Break()
	afterFirst := h.Position()
	h.Break()
	afterSecond := h.Position()
	if afterFirst == before {
		t.Fatal("expected Break to append a record after a real edit")
	}
	if afterFirst != afterSecond {
		t.Fatal("expected back-to-back Break calls to be a no-op")
	}
}

func TestHistoryAppendTruncatesDivergentBranch(t *testing.T) {
	h := NewHistory()
	h.Append(HistoryRecord{Kind: HInsert, ColIdx: 0})
	h.Break()
	h.Append(HistoryRecord{Kind: HInsert, ColIdx: 1})
	var undone []int
	if err := h.Undo(func(r *HistoryRecord) error {
		undone = append(undone, r.ColIdx)
		return nil
	}); err != nil {
		t.Fatalf("unexpected undo error: %v", err)
	}
	if len(undone) != 1 || undone[0] != 1 {
		t.Fatalf("expected to undo only the col=1 insert group, got %v", undone)
	}

	// A fresh edit from here should discard the undone record rather than
	// leaving it reachable by Redo.
	h.Append(HistoryRecord{Kind: HInsert, ColIdx: 2})
	if err := h.Redo(func(*HistoryRecord) error { return nil }); err != ErrHistoryExhausted {
		t.Fatalf("expected the divergent branch to be gone, got %v", err)
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	h := NewHistory()
	h.Append(HistoryRecord{Kind: HInsert, ColIdx: 0, NewCP: 'a'})
	h.Break()
	h.Append(HistoryRecord{Kind: HInsert, ColIdx: 1, NewCP: 'b'})
	h.Break()

	var inverse, forward []rune
	if err := h.Undo(func(r *HistoryRecord) error {
		inverse = append(inverse, r.NewCP)
		return nil
	}); err != nil {
		t.Fatalf("unexpected undo error: %v", err)
	}
	if len(inverse) != 1 || inverse[0] != 'b' {
		t.Fatalf("expected undo to replay only the last group, got %v", string(inverse))
	}

	if err := h.Redo(func(r *HistoryRecord) error {
		forward = append(forward, r.NewCP)
		return nil
	}); err != nil {
		t.Fatalf("unexpected redo error: %v", err)
	}
	if len(forward) != 1 || forward[0] != 'b' {
		t.Fatalf("expected redo to replay the group it just undid, got %v", string(forward))
	}
}
