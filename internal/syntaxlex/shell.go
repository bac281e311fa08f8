package syntaxlex

import "github.com/vexedit/vex"

var shKeywords = []string{
	"if", "then", "else", "elif", "fi", "for", "while", "do", "done", "case",
	"esac", "function", "in", "return", "local", "export", "readonly",
	"shift", "break", "continue", "exit",
}

func isShWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
func isShWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Shell highlights POSIX shell scripts: keywords, '#' comments, quoted
// strings, and "$VAR"/"${VAR}" expansions (reusing Makefile's ${...}
// scanner for the braced form).
type Shell struct{}

func (Shell) Name() string         { return "shell" }
func (Shell) Extensions() []string { return []string{".sh", ".bash"} }
func (Shell) PrefersSpaces() bool  { return false }

func (Shell) Calculate(s *vex.SyntaxState) int {
	for !s.AtEnd() {
		switch c := s.CharAt(); {
		case c == '#':
			s.Paint(lineRemaining(s), vex.ClassComment)
			return -1
		case c == '"' || c == '\'':
			scanCString(s, c)
		case c == '$' && s.CharAtOffset(1) == '{':
			scanMakeVar(s)
		case c == '$' && isShWordStart(s.CharAtOffset(1)):
			s.Skip(1)
			skipWord(s, isShWordChar)
		case isShWordStart(c):
			if vex.FindKeywords(s, shKeywords, vex.ClassKeyword, isShWordChar) {
				continue
			}
			skipWord(s, isShWordChar)
		default:
			s.Skip(1)
		}
	}
	return -1
}
