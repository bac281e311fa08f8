package syntaxlex

import "github.com/vexedit/vex"

// mdNestLowBound reserves every state value at or above this for the
// nested C lexer driving a fenced ```c code block: the host translates
// its own outgoing state into the nested lexer's space with
// NestBaseState/NestResult so the two lexers' state numbering never
// collides.
const mdNestLowBound = 1000

// Markdown highlights '#' headers, '*'/'_' emphasis as bold, backtick
// spans and fenced code blocks as strings, link text as links, and demos
// the nested-lexer protocol by handing ```c fenced blocks to the C lexer.
type Markdown struct{}

func (Markdown) Name() string         { return "markdown" }
func (Markdown) Extensions() []string { return []string{".md", ".markdown"} }
func (Markdown) PrefersSpaces() bool  { return true }

func (Markdown) Calculate(s *vex.SyntaxState) int {
	if s.State >= mdNestLowBound {
		return mdCalculateFenced(s)
	}

	if s.Match("```") {
		lang := mdFenceLang(s)
		s.Paint(3+len(lang), vex.ClassPragma)
		s.Skip(lineRemaining(s))
		if lang == "c" {
			return NestMarkdownFence(s)
		}
		return -1
	}

	if s.I == 0 && s.CharAt() == '#' {
		s.Paint(lineRemaining(s), vex.ClassType)
		return -1
	}

	for !s.AtEnd() {
		switch c := s.CharAt(); {
		case c == '`':
			scanBackticks(s)
		case c == '*' || c == '_':
			scanEmphasis(s, c)
		case c == '[':
			scanLink(s)
		default:
			s.Skip(1)
		}
	}
	return -1
}

// NestMarkdownFence seeds the state for the line following a ```c opener:
// the C lexer starts clean (its own -1/initial state), translated into the
// host's namespace.
func NestMarkdownFence(s *vex.SyntaxState) int {
	return vex.NestResult(-1, mdNestLowBound)
}

func mdCalculateFenced(s *vex.SyntaxState) int {
	if s.Match("```") {
		s.Paint(3, vex.ClassPragma)
		s.Skip(lineRemaining(s))
		return -1
	}
	nested := &vex.SyntaxState{Line: s.Line, LineNo: s.LineNo, I: s.I, State: vex.NestBaseState(s.State, mdNestLowBound)}
	ret := (C{}).Calculate(nested)
	s.I = nested.I
	return vex.NestResult(ret, mdNestLowBound)
}

func mdFenceLang(s *vex.SyntaxState) string {
	i := s.I + 3
	start := i
	for i < s.Line.Actual && s.CharAtOffset(i-s.I) != ' ' {
		i++
	}
	runes := s.Line.Runes()
	if start >= len(runes) {
		return ""
	}
	end := i
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[start:end])
}

func scanBackticks(s *vex.SyntaxState) {
	start := s.I
	s.Skip(1)
	for !s.AtEnd() && s.CharAt() != '`' {
		s.Skip(1)
	}
	if !s.AtEnd() {
		s.Skip(1)
	}
	end := s.I
	s.I = start
	s.Paint(end-start, vex.ClassString)
}

func scanEmphasis(s *vex.SyntaxState, marker rune) {
	start := s.I
	n := 1
	if s.CharAtOffset(1) == marker {
		n = 2
	}
	s.Skip(n)
	for !s.AtEnd() && !s.Match(string(marker)+string(marker)) && s.CharAt() != marker {
		s.Skip(1)
	}
	if !s.AtEnd() {
		s.Skip(n)
	}
	end := s.I
	s.I = start
	s.Paint(end-start, vex.ClassBold)
}

func scanLink(s *vex.SyntaxState) {
	start := s.I
	depth := 0
	for !s.AtEnd() {
		if s.CharAt() == '[' {
			depth++
		}
		if s.CharAt() == ')' {
			s.Skip(1)
			break
		}
		s.Skip(1)
		if depth == 0 && s.I > start+1 && s.Line.Cells[s.I-1].Codepoint == ']' && s.CharAt() != '(' {
			break
		}
	}
	end := s.I
	s.I = start
	s.Paint(end-start, vex.ClassLink)
}
