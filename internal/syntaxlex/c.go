package syntaxlex

import "github.com/vexedit/vex"

// c lexer states: 0 = clean, cStateComment = inside a /* */ block.
const cStateComment = 1

var cKeywords = []string{
	"if", "else", "while", "for", "do", "switch", "case", "default", "break",
	"continue", "return", "goto", "sizeof", "typedef", "struct", "union",
	"enum", "static", "const", "volatile", "extern", "inline", "void",
	"register", "restrict",
}

var cTypes = []string{
	"int", "char", "long", "short", "unsigned", "signed", "float", "double",
	"size_t", "uint8_t", "uint16_t", "uint32_t", "uint64_t", "int8_t",
	"int16_t", "int32_t", "int64_t", "bool", "FILE",
}

func isCWordChar(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isCWordStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// C highlights C/C++-family source: keywords, types, string/char literals
// with backslash escapes, line and block comments, preprocessor directives,
// and numeric literals.
type C struct{}

func (C) Name() string         { return "c" }
func (C) Extensions() []string { return []string{".c", ".h", ".cpp", ".cc", ".hpp"} }
func (C) PrefersSpaces() bool  { return false }

func (C) Calculate(s *vex.SyntaxState) int {
	if s.State == cStateComment {
		if continueBlockComment(s) == cStateComment {
			return cStateComment
		}
	}

	for !s.AtEnd() {
		c := s.CharAt()

		switch {
		case c == '/' && s.CharAtOffset(1) == '*':
			s.Paint(2, vex.ClassComment)
			if continueBlockComment(s) == cStateComment {
				return cStateComment
			}
		case c == '/' && s.CharAtOffset(1) == '/':
			s.Paint(lineRemaining(s), vex.ClassComment)
			return -1
		case c == '#':
			s.Paint(lineRemaining(s), vex.ClassPragma)
			return -1
		case c == '"':
			scanCString(s, '"')
		case c == '\'':
			scanCString(s, '\'')
		case isDigit(c):
			scanNumber(s)
		case isCWordStart(c):
			if vex.FindKeywords(s, cKeywords, vex.ClassKeyword, isCWordChar) {
				continue
			}
			if vex.FindKeywords(s, cTypes, vex.ClassType, isCWordChar) {
				continue
			}
			skipWord(s, isCWordChar)
		default:
			s.Skip(1)
		}
	}
	return -1
}

func continueBlockComment(s *vex.SyntaxState) int {
	for !s.AtEnd() {
		if s.Match("*/") {
			s.Paint(2, vex.ClassComment)
			return -1
		}
		s.Paint(1, vex.ClassComment)
	}
	return cStateComment
}

func scanCString(s *vex.SyntaxState, quote rune) {
	start := s.I
	class := vex.ClassString
	if quote == '\'' {
		class = vex.ClassString2
	}

	i := start + 1
	for i < s.Line.Actual {
		if s.Line.Cells[i].Codepoint == '\\' {
			i += 2
			continue
		}
		if s.Line.Cells[i].Codepoint == quote {
			i++
			break
		}
		i++
	}
	s.Paint(i-start, class)
}

func scanNumber(s *vex.SyntaxState) {
	start := s.I
	for !s.AtEnd() && (isDigit(s.CharAt()) || s.CharAt() == '.' || s.CharAt() == 'x' || s.CharAt() == 'X' ||
		(s.CharAt() >= 'a' && s.CharAt() <= 'f') || (s.CharAt() >= 'A' && s.CharAt() <= 'F') ||
		s.CharAt() == 'u' || s.CharAt() == 'U' || s.CharAt() == 'l' || s.CharAt() == 'L') {
		s.Skip(1)
	}
	s.Paint(s.I-start, vex.ClassNumeral)
}

func skipWord(s *vex.SyntaxState, isWordChar func(rune) bool) {
	for !s.AtEnd() && isWordChar(s.CharAt()) {
		s.Skip(1)
	}
}

func lineRemaining(s *vex.SyntaxState) int { return s.Line.Actual - s.I }
