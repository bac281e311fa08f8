package syntaxlex

import "github.com/vexedit/vex"

const xmlStateComment = 1

// XML highlights tags as types, attribute strings, <!-- --> comments
// (which carry across lines via the continuation state), and &entity;
// references as escapes.
type XML struct{}

func (XML) Name() string         { return "xml" }
func (XML) Extensions() []string { return []string{".xml", ".html", ".htm", ".svg"} }
func (XML) PrefersSpaces() bool  { return true }

func (XML) Calculate(s *vex.SyntaxState) int {
	if s.State == xmlStateComment {
		if !xmlCloseComment(s) {
			return xmlStateComment
		}
	}

	for !s.AtEnd() {
		c := s.CharAt()
		switch {
		case c == '<' && s.Match("<!--"):
			s.Paint(4, vex.ClassComment)
			if !xmlCloseComment(s) {
				return xmlStateComment
			}
		case c == '<':
			scanXMLTag(s)
		case c == '&':
			scanXMLEntity(s)
		default:
			s.Skip(1)
		}
	}
	return -1
}

// xmlCloseComment paints comment text up to and including "-->", reporting
// whether the comment closed on this line.
func xmlCloseComment(s *vex.SyntaxState) bool {
	for !s.AtEnd() {
		if s.Match("-->") {
			s.Paint(3, vex.ClassComment)
			return true
		}
		s.Paint(1, vex.ClassComment)
	}
	return false
}

func scanXMLTag(s *vex.SyntaxState) {
	for !s.AtEnd() {
		c := s.CharAt()
		switch {
		case c == '>':
			s.Paint(1, vex.ClassType)
			return
		case c == '"':
			scanCString(s, '"')
		default:
			s.Paint(1, vex.ClassType)
		}
	}
}

func scanXMLEntity(s *vex.SyntaxState) {
	start := s.I
	i := start + 1
	for i < s.Line.Actual && s.Line.Cells[i].Codepoint != ';' && i-start < 10 {
		i++
	}
	if i >= s.Line.Actual || s.Line.Cells[i].Codepoint != ';' {
		s.Skip(1)
		return
	}
	s.Paint(i-start+1, vex.ClassEscape)
}
