package rc

import (
	"strings"
	"testing"

	"github.com/vexedit/vex"
)

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	in := strings.NewReader("# a comment\n\ntheme=dark\npadding 2\n  # indented comment\n")
	settings, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 2 {
		t.Fatalf("expected 2 settings, got %v", settings)
	}
	if settings[0].Name != "theme" || settings[0].Value != "dark" {
		t.Fatalf("unexpected first setting: %+v", settings[0])
	}
	if settings[1].Name != "padding" || settings[1].Value != "2" {
		t.Fatalf("unexpected second setting: %+v", settings[1])
	}
}

func TestApplySetsBufferAndViewport(t *testing.T) {
	buf := vex.NewBuffer()
	view := vex.NewViewport(24, 80)
	in := strings.NewReader(strings.Join([]string{
		"tabstop=4",
		"hlparen=1",
		"hlcurrent=1",
		"padding=5",
		"splitpercent=40",
		"scrollamount=3",
		"shiftscrolling=1",
		"colorgutter=1",
		"smartcase=0",
	}, "\n"))

	leftover, err := Apply(in, buf, view)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftover) != 0 {
		t.Fatalf("expected no leftovers, got %v", leftover)
	}
	if buf.TabStop != 4 || !buf.HighlightingParen || buf.SmartCase {
		t.Fatalf("buffer settings not applied: %+v", buf)
	}
	if view.Padding != 5 || view.SplitPercent != 40 || view.ScrollAmount != 3 ||
		!view.ShiftScrolling || !view.ColorGutter || !view.HighlightCurrentLine {
		t.Fatalf("viewport settings not applied: %+v", view)
	}
}

func TestApplyReturnsHostLevelKeys(t *testing.T) {
	buf := vex.NewBuffer()
	view := vex.NewViewport(24, 80)
	in := strings.NewReader("theme=light\ngit=1\nhistory=0\npadding=1\n")
	leftover, err := Apply(in, buf, view)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(leftover))
	for _, s := range leftover {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "theme,git,history" {
		t.Fatalf("unexpected leftovers: %v", names)
	}
	if view.Padding != 1 {
		t.Fatal("recognized keys around the leftovers must still apply")
	}
}

func TestApplyRejectsBadValue(t *testing.T) {
	buf := vex.NewBuffer()
	view := vex.NewViewport(24, 80)
	if _, err := Apply(strings.NewReader("splitpercent=200\n"), buf, view); err == nil {
		t.Fatal("expected out-of-range splitpercent to error")
	}
	if _, err := Apply(strings.NewReader("nonsense=1\n"), buf, view); err == nil {
		t.Fatal("expected an unknown key to error")
	}
}
