package syntaxlex

import "github.com/vexedit/vex"

// INI highlights "[section]" headers, "key = value" separators, and ';'/'#'
// comment lines — the format internal/rc's own bimrc parser reads, given a
// highlighter here for editing bimrc files themselves.
type INI struct{}

func (INI) Name() string         { return "ini" }
func (INI) Extensions() []string { return []string{".ini", ".cfg", ".bimrc"} }
func (INI) PrefersSpaces() bool  { return false }

func (INI) Calculate(s *vex.SyntaxState) int {
	if s.AtEnd() {
		return -1
	}
	switch s.CharAt() {
	case ';', '#':
		s.Paint(lineRemaining(s), vex.ClassComment)
		return -1
	case '[':
		if end := findCloseBracket(s); end >= 0 {
			s.Paint(end+1, vex.ClassType)
			return -1
		}
	}
	for !s.AtEnd() {
		if s.CharAt() == '=' {
			s.Paint(1, vex.ClassPragma)
			continue
		}
		s.Skip(1)
	}
	return -1
}

func findCloseBracket(s *vex.SyntaxState) int {
	for i := 1; i < s.Line.Actual; i++ {
		if s.CharAtOffset(i) == ']' {
			return i
		}
	}
	return -1
}
