package syntaxlex

import "github.com/vexedit/vex"

var jsonLiterals = []string{"true", "false", "null"}

// JSON highlights string keys/values, numbers, and the true/false/null
// literals. It doesn't distinguish a key from a value string — both paint
// as ClassString — the distinction would need a real parser for little
// visual payoff.
type JSON struct{}

func (JSON) Name() string         { return "json" }
func (JSON) Extensions() []string { return []string{".json"} }
func (JSON) PrefersSpaces() bool  { return true }

func (JSON) Calculate(s *vex.SyntaxState) int {
	for !s.AtEnd() {
		switch c := s.CharAt(); {
		case c == '"':
			scanCString(s, '"')
		case isDigit(c) || (c == '-' && isDigit(s.CharAtOffset(1))):
			scanNumber(s)
		case isPyWordStart(c):
			if vex.FindKeywords(s, jsonLiterals, vex.ClassKeyword, isPyWordChar) {
				continue
			}
			skipWord(s, isPyWordChar)
		default:
			s.Skip(1)
		}
	}
	return -1
}
