package syntaxlex

import "github.com/vexedit/vex"

var pyKeywords = []string{
	"def", "class", "if", "elif", "else", "while", "for", "in", "not", "and",
	"or", "is", "return", "yield", "import", "from", "as", "with", "try",
	"except", "finally", "raise", "lambda", "pass", "break", "continue",
	"global", "nonlocal", "assert", "del", "async", "await", "None", "True",
	"False", "self",
}

func isPyWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
func isPyWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Python highlights keywords, '#' comments, numeric literals, and
// single/double/triple-quoted strings. It does not track triple-quoted
// strings across lines.
type Python struct{}

func (Python) Name() string         { return "python" }
func (Python) Extensions() []string { return []string{".py"} }
func (Python) PrefersSpaces() bool  { return true }

func (Python) Calculate(s *vex.SyntaxState) int {
	for !s.AtEnd() {
		c := s.CharAt()
		switch {
		case c == '#':
			s.Paint(lineRemaining(s), vex.ClassComment)
			return -1
		case c == '"' || c == '\'':
			scanCString(s, c)
		case isDigit(c):
			scanNumber(s)
		case isPyWordStart(c):
			if vex.FindKeywords(s, pyKeywords, vex.ClassKeyword, isPyWordChar) {
				continue
			}
			skipWord(s, isPyWordChar)
		default:
			s.Skip(1)
		}
	}
	return -1
}
