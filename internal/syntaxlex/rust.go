package syntaxlex

import "github.com/vexedit/vex"

const rustStateComment = 1

var rustKeywords = []string{
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "fn", "for", "if", "impl", "in", "let", "loop",
	"match", "mod", "move", "mut", "pub", "ref", "return", "self", "static",
	"struct", "super", "trait", "type", "unsafe", "use", "where", "while",
}

var rustTypes = []string{
	"bool", "char", "str", "String", "Vec", "Option", "Result", "Box",
	"i8", "i16", "i32", "i64", "i128", "isize",
	"u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64",
}

// Rust highlights Rust source: keywords, core types, string/char literals,
// line and block comments, #[attributes], and lifetimes. Block comments
// reuse the C lexer's continuation state since the /* */ grammar is the
// same (Rust's comment nesting is approximated as non-nesting).
type Rust struct{}

func (Rust) Name() string         { return "rust" }
func (Rust) Extensions() []string { return []string{".rs"} }
func (Rust) PrefersSpaces() bool  { return true }

func (Rust) Calculate(s *vex.SyntaxState) int {
	if s.State == rustStateComment {
		if ret := continueBlockComment(s); ret == cStateComment {
			return rustStateComment
		}
		// fall through to the rest of the line after the comment closes
	}

	for !s.AtEnd() {
		c := s.CharAt()
		switch {
		case c == '/' && s.CharAtOffset(1) == '*':
			s.Paint(2, vex.ClassComment)
			if continueBlockComment(s) == cStateComment {
				return rustStateComment
			}
		case c == '/' && s.CharAtOffset(1) == '/':
			s.Paint(lineRemaining(s), vex.ClassComment)
			return -1
		case c == '#' && s.CharAtOffset(1) == '[':
			scanRustAttribute(s)
		case c == '"':
			scanCString(s, '"')
		case c == '\'' && s.CharAtOffset(2) == '\'':
			scanCString(s, '\'')
		case c == '\'' && isCWordStart(s.CharAtOffset(1)):
			// lifetime: 'a, 'static
			s.Paint(1, vex.ClassEscape)
			start := s.I
			for !s.AtEnd() && isCWordChar(s.CharAt()) {
				s.Skip(1)
			}
			n := s.I - start
			s.I = start
			s.Paint(n, vex.ClassEscape)
		case isDigit(c):
			scanNumber(s)
		case isCWordStart(c):
			if vex.FindKeywords(s, rustKeywords, vex.ClassKeyword, isCWordChar) {
				continue
			}
			if vex.FindKeywords(s, rustTypes, vex.ClassType, isCWordChar) {
				continue
			}
			skipWord(s, isCWordChar)
		default:
			s.Skip(1)
		}
	}
	return -1
}

func scanRustAttribute(s *vex.SyntaxState) {
	start := s.I
	i := start + 2
	for i < s.Line.Actual && s.Line.Cells[i].Codepoint != ']' {
		i++
	}
	if i < s.Line.Actual {
		i++
	}
	s.Paint(i-start, vex.ClassPragma)
}
