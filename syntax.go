package vex

// SyntaxState is the cursor a lexer drives across one line. Line, LineNo and
// State are seeded before Calculate runs; I starts at 0 and Calculate
// advances it by painting or skipping cells.
type SyntaxState struct {
	Line   *Line
	LineNo int // 1-based
	I      int // 0-based offset into Line, the lexer's read/paint cursor
	State  int
}

// CharAt returns the codepoint at the cursor, or 0 past the end of line.
func (s *SyntaxState) CharAt() rune { return s.CharAtOffset(0) }

// CharAtOffset returns the codepoint n cells ahead of the cursor (n may be
// negative), or 0 if that offset is out of range.
func (s *SyntaxState) CharAtOffset(n int) rune {
	i := s.I + n
	if i < 0 || i >= s.Line.Actual {
		return 0
	}
	return s.Line.Cells[i].Codepoint
}

// AtEnd reports whether the cursor has reached the end of the line.
func (s *SyntaxState) AtEnd() bool { return s.I >= s.Line.Actual }

// Paint assigns class to the next n cells and advances the cursor past them.
// n is clamped to the remaining line length.
func (s *SyntaxState) Paint(n int, class SyntaxClass) {
	end := s.I + n
	if end > s.Line.Actual {
		end = s.Line.Actual
	}
	for ; s.I < end; s.I++ {
		s.Line.Cells[s.I].Flags = s.Line.Cells[s.I].Flags.WithClass(class)
	}
}

// Skip advances the cursor by n cells without painting.
func (s *SyntaxState) Skip(n int) {
	s.I += n
	if s.I > s.Line.Actual {
		s.I = s.Line.Actual
	}
}

// Match reports whether the literal appears at the cursor without consuming
// it.
func (s *SyntaxState) Match(lit string) bool {
	r := []rune(lit)
	for i, c := range r {
		if s.CharAtOffset(i) != c {
			return false
		}
	}
	return true
}

// MatchAndPaint paints lit's length with class if it matches at the cursor
// and, when qualifier is non-nil, the character following it fails the
// qualifier (so "int" doesn't match inside "internal"). Returns whether it
// painted.
func (s *SyntaxState) MatchAndPaint(lit string, class SyntaxClass, qualifier func(rune) bool) bool {
	if !s.Match(lit) {
		return false
	}
	n := len([]rune(lit))
	if qualifier != nil && qualifier(s.CharAtOffset(n)) {
		return false
	}
	s.Paint(n, class)
	return true
}

// FindKeywords paints the identifier-like run at the cursor with class if it
// exactly matches one of keywords, using isWordChar as the qualifier (the
// run must not continue past the match). Returns whether it painted.
func FindKeywords(s *SyntaxState, keywords []string, class SyntaxClass, isWordChar func(rune) bool) bool {
	start := s.I
	j := start
	for j < s.Line.Actual && isWordChar(s.Line.Cells[j].Codepoint) {
		j++
	}
	if j == start {
		return false
	}
	word := string(s.Line.Runes()[start:j])
	for _, kw := range keywords {
		if kw == word {
			s.Paint(j-start, class)
			return true
		}
	}
	return false
}

// NestBaseState computes the sub-lexer's incoming state from the host's
// outgoing state: the host reserves every state value at or above
// lowBound for the nested lexer.
func NestBaseState(hostState, lowBound int) int {
	if hostState < lowBound {
		return -1
	}
	return hostState - lowBound
}

// NestResult translates a nested lexer's return value back into the host's
// state space.
func NestResult(nestedReturn, lowBound int) int {
	if nestedReturn == -1 {
		return lowBound
	}
	return nestedReturn + lowBound
}

// SyntaxLexer is the plug-in capability for per-language highlighting.
// Selection is by longest-matching extension against the filename.
type SyntaxLexer interface {
	Name() string
	Extensions() []string
	PrefersSpaces() bool
	// Calculate lexes one line, painting cell flags as it goes, and returns
	// the outgoing state for the line below (-1 = clean/closed).
	Calculate(state *SyntaxState) int
}

// recomputeSyntax re-lexes lineIdx (0-based) and cascades to the next line
// whenever its incoming state changes. The cascade is a fixed-point
// iteration: it terminates when a line's istate is unchanged.
func (b *Buffer) recomputeSyntax(lineIdx int) {
	if lineIdx < 0 || lineIdx >= len(b.Lines) {
		return
	}
	if b.Syntax == nil {
		line := b.Lines[lineIdx]
		line.ClearFlags()
		b.reapplyOverlays(line, lineIdx)
		return
	}
	for {
		line := b.Lines[lineIdx]
		line.ClearFlags()

		st := &SyntaxState{Line: line, LineNo: lineIdx + 1, State: line.IState}
		for {
			ret := b.Syntax.Calculate(st)
			if ret == 0 {
				continue
			}
			st.State = ret
			break
		}

		b.reapplyOverlays(line, lineIdx)

		if lineIdx+1 >= len(b.Lines) {
			return
		}
		next := b.Lines[lineIdx+1]
		if next.IState == st.State {
			return
		}
		next.IState = st.State
		lineIdx++
	}
}

// Recalculate re-lexes the whole buffer from scratch — `:recalc`, or the
// host program changing b.Syntax from outside the package.
func (b *Buffer) Recalculate() { b.recomputeSyntaxAll() }

// recomputeSyntaxAll re-lexes the whole buffer from scratch in one linear
// pass (used after a full load, a syntax-lexer change, or `:recalc`):
// every line is lexed exactly once, each line's istate set to the previous
// line's exit state.
func (b *Buffer) recomputeSyntaxAll() {
	if b.Syntax == nil {
		for _, l := range b.Lines {
			l.ClearFlags()
			l.IState = noIState
		}
		for i, l := range b.Lines {
			b.reapplyOverlays(l, i)
		}
		return
	}
	state := noIState
	for i, l := range b.Lines {
		l.IState = state
		l.ClearFlags()
		st := &SyntaxState{Line: l, LineNo: i + 1, State: state}
		for {
			ret := b.Syntax.Calculate(st)
			if ret == 0 {
				continue
			}
			state = ret
			break
		}
		b.reapplyOverlays(l, i)
	}
}
