package syntaxlex

import (
	"testing"

	"github.com/vexedit/vex"
)

func lexed(lx vex.SyntaxLexer, lines ...string) *vex.Buffer {
	b := vex.NewBuffer()
	b.Lines = b.Lines[:0]
	for _, l := range lines {
		b.Lines = append(b.Lines, vex.NewLineFromRunes([]rune(l), b.TabStop))
	}
	b.Syntax = lx
	b.Recalculate()
	return b
}

func classAt(b *vex.Buffer, line, col int) vex.SyntaxClass {
	return b.Lines[line-1].Cells[col-1].Flags.Class()
}

func TestForPathSelection(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.c", "c"},
		{"lib.rs", "rust"},
		{"script.py", "python"},
		{"notes.md", "markdown"},
		{"Makefile", "makefile"},
		{"conf.ini", "ini"},
		{"page.html", "xml"},
		{"data.json", "json"},
		{"run.sh", "shell"},
		{"change.patch", "diff"},
	}
	for _, c := range cases {
		lx := ForPath(c.path)
		if lx == nil {
			t.Errorf("%s: no lexer", c.path)
			continue
		}
		if lx.Name() != c.want {
			t.Errorf("%s: got %s, want %s", c.path, lx.Name(), c.want)
		}
	}
	if ForPath("binary.bin") != nil {
		t.Error("expected no lexer for an unknown extension")
	}
}

func TestCKeywordsTypesStrings(t *testing.T) {
	b := lexed(C{}, `if (x) return "str"; // note`)
	if classAt(b, 1, 1) != vex.ClassKeyword {
		t.Fatal("expected 'if' painted as keyword")
	}
	if classAt(b, 1, 16) != vex.ClassString {
		t.Fatal("expected the string literal painted")
	}
	if classAt(b, 1, 23) != vex.ClassComment {
		t.Fatal("expected the line comment painted")
	}
}

func TestCBlockCommentSpansLines(t *testing.T) {
	b := lexed(C{}, "/* open", "still in", "done */ int x;")
	if b.Lines[1].IState != cStateComment {
		t.Fatalf("expected the comment state to flow into line 2, got %d", b.Lines[1].IState)
	}
	if classAt(b, 2, 1) != vex.ClassComment {
		t.Fatal("expected the interior line painted as comment")
	}
	if classAt(b, 3, 9) != vex.ClassType {
		t.Fatal("expected code after the close painted normally")
	}
	if b.Lines[2].IState != cStateComment {
		t.Fatalf("line 3 enters still inside the comment, got %d", b.Lines[2].IState)
	}
}

func TestCPreprocessor(t *testing.T) {
	b := lexed(C{}, "#include <stdio.h>")
	if classAt(b, 1, 1) != vex.ClassPragma {
		t.Fatal("expected the directive painted as pragma")
	}
}

func TestPythonKeywordAndComment(t *testing.T) {
	b := lexed(Python{}, "def f():  # doc")
	if classAt(b, 1, 1) != vex.ClassKeyword {
		t.Fatal("expected 'def' as keyword")
	}
	if classAt(b, 1, 11) != vex.ClassComment {
		t.Fatal("expected the comment painted")
	}
}

func TestRustLexer(t *testing.T) {
	b := lexed(Rust{}, `fn main() { let x: u32 = 0; }`)
	if classAt(b, 1, 1) != vex.ClassKeyword {
		t.Fatal("expected 'fn' as keyword")
	}
	if classAt(b, 1, 20) != vex.ClassType {
		t.Fatal("expected 'u32' as type")
	}
	b = lexed(Rust{}, "#[derive(Debug)]")
	if classAt(b, 1, 1) != vex.ClassPragma {
		t.Fatal("expected the attribute as pragma")
	}
}

func TestDiffLexer(t *testing.T) {
	b := lexed(Diff{}, "+new", "-old", "@@ -1 +1 @@", "context")
	if classAt(b, 1, 1) != vex.ClassDiffPlus {
		t.Fatal("expected + line painted DiffPlus")
	}
	if classAt(b, 2, 1) != vex.ClassDiffMinus {
		t.Fatal("expected - line painted DiffMinus")
	}
	if classAt(b, 3, 1) != vex.ClassNotice {
		t.Fatal("expected hunk header painted Notice")
	}
	if classAt(b, 4, 1) != vex.ClassNone {
		t.Fatal("expected context unpainted")
	}
}

func TestXMLCommentSpansLines(t *testing.T) {
	b := lexed(XML{}, "<a><!-- open", "still -->done<b>")
	if b.Lines[1].IState != xmlStateComment {
		t.Fatalf("expected comment state into line 2, got %d", b.Lines[1].IState)
	}
	if classAt(b, 2, 1) != vex.ClassComment {
		t.Fatal("expected the continuation painted as comment")
	}
	if classAt(b, 2, 14) != vex.ClassType {
		t.Fatal("expected the tag after the close painted")
	}
}

func TestMarkdownBasics(t *testing.T) {
	b := lexed(Markdown{}, "# Title", "some `code` here")
	if classAt(b, 1, 1) != vex.ClassType {
		t.Fatal("expected the header painted")
	}
	if classAt(b, 2, 7) != vex.ClassString {
		t.Fatal("expected the backtick span painted")
	}
}

func TestMarkdownNestedFence(t *testing.T) {
	b := lexed(Markdown{}, "```c", "int x;", "```", "after")
	if b.Lines[1].IState < mdNestLowBound {
		t.Fatalf("expected the fenced line in the nested state space, got %d", b.Lines[1].IState)
	}
	if classAt(b, 2, 1) != vex.ClassType {
		t.Fatal("expected the nested C lexer to paint 'int'")
	}
	if b.Lines[3].IState != -1 {
		t.Fatalf("expected the closing fence to return to the host state, got %d", b.Lines[3].IState)
	}
}

func TestMakefileTargetAndVar(t *testing.T) {
	b := lexed(Makefile{}, "all: dep", "\techo $(VAR)")
	if classAt(b, 1, 1) != vex.ClassType {
		t.Fatal("expected the target painted")
	}
	if classAt(b, 2, 7) != vex.ClassPragma {
		t.Fatal("expected the $(VAR) expansion painted")
	}
}

func TestShellLexer(t *testing.T) {
	b := lexed(Shell{}, `if [ -n "$x" ]; then # c`)
	if classAt(b, 1, 1) != vex.ClassKeyword {
		t.Fatal("expected 'if' as keyword")
	}
	if classAt(b, 1, 23) != vex.ClassComment {
		t.Fatal("expected the trailing comment painted")
	}
}

func TestJSONLexer(t *testing.T) {
	b := lexed(JSON{}, `{"k": true, "n": 42}`)
	if classAt(b, 1, 2) != vex.ClassString {
		t.Fatal("expected the key string painted")
	}
	if classAt(b, 1, 7) != vex.ClassKeyword {
		t.Fatal("expected 'true' as literal keyword")
	}
	if classAt(b, 1, 18) != vex.ClassNumeral {
		t.Fatal("expected the number painted")
	}
}

func TestINILexer(t *testing.T) {
	b := lexed(INI{}, "[section]", "key = value", "; comment")
	if classAt(b, 1, 1) != vex.ClassType {
		t.Fatal("expected the section header painted")
	}
	if classAt(b, 2, 5) != vex.ClassPragma {
		t.Fatal("expected the '=' painted")
	}
	if classAt(b, 3, 1) != vex.ClassComment {
		t.Fatal("expected the comment painted")
	}
}
