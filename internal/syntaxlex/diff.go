package syntaxlex

import "github.com/vexedit/vex"

// Diff highlights unified-diff output: '+' lines green, '-' lines red,
// '@@' hunk headers as notices, matching the RevStatus coloring the
// gutter uses for live edits but applied to literal diff text instead
// .
type Diff struct{}

func (Diff) Name() string         { return "diff" }
func (Diff) Extensions() []string { return []string{".diff", ".patch"} }
func (Diff) PrefersSpaces() bool  { return false }

func (Diff) Calculate(s *vex.SyntaxState) int {
	if s.AtEnd() {
		return -1
	}
	switch s.CharAt() {
	case '+':
		s.Paint(lineRemaining(s), vex.ClassDiffPlus)
	case '-':
		s.Paint(lineRemaining(s), vex.ClassDiffMinus)
	case '@':
		if s.Match("@@") {
			s.Paint(lineRemaining(s), vex.ClassNotice)
		} else {
			s.Skip(lineRemaining(s))
		}
	default:
		s.Skip(lineRemaining(s))
	}
	return -1
}
