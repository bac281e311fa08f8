package syntaxlex

import "github.com/vexedit/vex"

// Makefile highlights '#' comments, $(VAR)/${VAR} expansions, and a
// target's leading "name:" as a type, with a small hand state machine
// rather than a real parser.
type Makefile struct{}

func (Makefile) Name() string         { return "makefile" }
func (Makefile) Extensions() []string { return []string{"Makefile", ".mk"} }
func (Makefile) PrefersSpaces() bool  { return false }

func (Makefile) Calculate(s *vex.SyntaxState) int {
	if s.I == 0 && !s.AtEnd() && s.CharAt() != '\t' {
		if col := findTargetColon(s); col >= 0 {
			s.Paint(col, vex.ClassType)
		}
	}
	for !s.AtEnd() {
		switch {
		case s.CharAt() == '#':
			s.Paint(lineRemaining(s), vex.ClassComment)
			return -1
		case s.CharAt() == '$' && (s.CharAtOffset(1) == '(' || s.CharAtOffset(1) == '{'):
			scanMakeVar(s)
		default:
			s.Skip(1)
		}
	}
	return -1
}

func findTargetColon(s *vex.SyntaxState) int {
	for i := 0; i < s.Line.Actual; i++ {
		if s.CharAtOffset(i) == ':' {
			return i
		}
		if s.CharAtOffset(i) == ' ' {
			return -1
		}
	}
	return -1
}

func scanMakeVar(s *vex.SyntaxState) {
	open := s.CharAtOffset(1)
	closer := rune(')')
	if open == '{' {
		closer = '}'
	}
	start := s.I
	i := start + 2
	for i < s.Line.Actual && s.Line.Cells[i].Codepoint != closer {
		i++
	}
	if i < s.Line.Actual {
		i++
	}
	s.Paint(i-start, vex.ClassPragma)
}
