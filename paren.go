package vex

var parenPairs = map[rune]rune{
	'(': ')', '[': ']', '{': '}', '<': '>',
}

var parenPairsRev = map[rune]rune{
	')': '(', ']': '[', '}': '{', '>': '<',
}

// MatchParen scans for the bracket matching the one under (or just after)
// the cursor, the way vi's `%` does: opening brackets match forward,
// closing brackets match backward, skipping nested pairs of the same kind
// along the way. Only brackets painted with the same syntax
// class as the starting cell count, so a ')' inside a string literal never
// closes a '(' in code. Returns the 1-based line/column of the match and
// ok=true, or ok=false if the cursor isn't on a bracket or no match exists
// before a buffer boundary.
func (b *Buffer) MatchParen() (line, col int, ok bool) {
	startLine, startCol := b.findBracketAtCursor()
	if startLine == 0 {
		return 0, 0, false
	}
	start := b.Lines[startLine-1].Cells[startCol-1]
	open := start.Codepoint
	class := start.Flags.Class()

	if closer, isOpen := parenPairs[open]; isOpen {
		return b.scanForward(startLine, startCol, open, closer, class)
	}
	if opener, isClose := parenPairsRev[open]; isClose {
		return b.scanBackward(startLine, startCol, opener, open, class)
	}
	return 0, 0, false
}

// findBracketAtCursor returns the 1-based position of a bracket at the
// cursor, or the one immediately to its left if the cursor cell itself is
// not a bracket, or (0,0) if neither is a bracket.
func (b *Buffer) findBracketAtCursor() (line, col int) {
	l := b.CurrentLine()
	for _, c := range []int{b.ColNo - 1, b.ColNo - 2} {
		if c < 0 || c >= l.Actual {
			continue
		}
		r := l.Cells[c].Codepoint
		if _, ok := parenPairs[r]; ok {
			return b.LineNo, c + 1
		}
		if _, ok := parenPairsRev[r]; ok {
			return b.LineNo, c + 1
		}
	}
	return 0, 0
}

func (b *Buffer) scanForward(startLine, startCol int, open, closer rune, class SyntaxClass) (int, int, bool) {
	depth := 0
	li, ci := startLine-1, startCol-1
	for li < len(b.Lines) {
		line := b.Lines[li]
		for ci < line.Actual {
			cell := line.Cells[ci]
			if cell.Flags.Class() == class {
				switch cell.Codepoint {
				case open:
					depth++
				case closer:
					depth--
					if depth == 0 {
						return li + 1, ci + 1, true
					}
				}
			}
			ci++
		}
		li++
		ci = 0
	}
	return 0, 0, false
}

func (b *Buffer) scanBackward(startLine, startCol int, opener, closer rune, class SyntaxClass) (int, int, bool) {
	depth := 0
	li, ci := startLine-1, startCol-1
	for li >= 0 {
		line := b.Lines[li]
		if ci >= line.Actual {
			ci = line.Actual - 1
		}
		for ci >= 0 {
			cell := line.Cells[ci]
			if cell.Flags.Class() == class {
				switch cell.Codepoint {
				case closer:
					depth++
				case opener:
					depth--
					if depth == 0 {
						return li + 1, ci + 1, true
					}
				}
			}
			ci--
		}
		li--
		if li >= 0 {
			ci = b.Lines[li].Actual - 1
		}
	}
	return 0, 0, false
}

// paintParenMatch marks the cursor's bracket and its match with FlagParen,
// when HighlightingParen is enabled and a match exists. Called by the
// renderer right before a frame is drawn, not from the syntax cascade,
// since it depends on the live cursor position rather than line content.
// The previous frame's marks are cleared first so exactly one pair is ever
// lit.
func (b *Buffer) paintParenMatch() {
	for _, l := range b.Lines {
		for i := 0; i < l.Actual; i++ {
			l.Cells[i].ClearFlag(FlagParen)
		}
	}
	if !b.HighlightingParen {
		return
	}
	cl, cc, ok := b.MatchParen()
	if !ok {
		return
	}
	startLine, startCol := b.findBracketAtCursor()
	if startLine == 0 {
		return
	}
	b.Lines[startLine-1].Cells[startCol-1].SetFlag(FlagParen)
	b.Lines[cl-1].Cells[cc-1].SetFlag(FlagParen)
}
