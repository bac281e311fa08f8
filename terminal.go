package vex

import "strings"

// Terminal is the external collaborator the editor renders through and
// reads capability flags from. A concrete implementation lives
// in internal/tty; tests and headless tools can substitute their own.
type Terminal interface {
	// Size returns the current terminal size in cells.
	Size() (rows, cols int)
	// Write sends raw bytes (already-composed escape sequences or text) to
	// the terminal.
	Write(p []byte) (int, error)
	// Flush forces any buffered output to the terminal immediately.
	Flush() error
	// Capabilities reports what this terminal supports, used to degrade
	// rendering gracefully.
	Capabilities() Capabilities
}

// Capabilities is the negotiated feature set for a terminal connection,
// computed once at init and consulted in the paint paths rather than
// branching per-terminal there. An empty $TERM gets the conservative
// zero value plus 256-color and Unicode; KnownTerminal looks up richer
// defaults by $TERM.
type Capabilities struct {
	TrueColor    bool // 24-bit SGR (38;2;r;g;b)
	Color256     bool // 256-color SGR (38;5;n)
	Italic       bool // SGR 3
	BCE          bool // background color erase: EL fills with current bg
	Scroll       bool // CSI r scroll regions
	AltScreen    bool // CSI ?1049h
	HideShow     bool // CSI ?25l / ?25h cursor visibility
	MouseReport  bool // SGR mouse mode (1006)
	Bright       bool // bright (90-97) color variants
	Title        bool // OSC 0/2 window title
	BracketPaste bool // CSI ?2004h paste bracketing
	Unicode      bool // full UTF-8 output (vs. replacement glyphs)
}

// fullCaps is the everything-works baseline modern emulators get before
// the per-terminal overrides below subtract from it.
var fullCaps = Capabilities{
	TrueColor: true, Color256: true, Italic: true, BCE: true, Scroll: true,
	AltScreen: true, HideShow: true, MouseReport: true, Bright: true,
	Title: true, BracketPaste: true, Unicode: true,
}

// KnownTerminal computes the capability set for a $TERM value, applying
// the known-terminal overrides: `linux` has no scroll regions, `cons25`
// supports almost nothing, `sortix` has no title, `tmux*` loses scroll
// and bce, `screen*` loses 24-bit and italics. An empty value gets only
// 256-color and Unicode; any other unrecognized value keeps the full set.
func KnownTerminal(term string) Capabilities {
	if term == "" {
		return Capabilities{Color256: true, Unicode: true}
	}
	caps := fullCaps
	switch {
	case term == "linux":
		caps.Scroll = false
		caps.TrueColor = false
		caps.Italic = false
		caps.Title = false
		caps.MouseReport = false
	case term == "cons25":
		caps = Capabilities{Bright: true}
	case term == "sortix":
		caps.Title = false
		caps.TrueColor = false
	case strings.HasPrefix(term, "tmux"):
		caps.Scroll = false
		caps.BCE = false
	case strings.HasPrefix(term, "screen"):
		caps.TrueColor = false
		caps.Italic = false
	case term == "vt100":
		caps = Capabilities{Scroll: true}
	case term == "xterm":
		caps.TrueColor = false
	}
	return caps
}

// NoopTerminal discards all output and reports a fixed size; useful for
// tests that drive a Buffer/Editor without a real screen.
type NoopTerminal struct {
	Rows, Cols int
}

func (n NoopTerminal) Size() (int, int) {
	if n.Rows == 0 {
		return 24, 80
	}
	return n.Rows, n.Cols
}
func (NoopTerminal) Write(p []byte) (int, error) { return len(p), nil }
func (NoopTerminal) Flush() error                { return nil }
func (NoopTerminal) Capabilities() Capabilities  { return Capabilities{Color256: true, Unicode: true} }

var _ Terminal = NoopTerminal{}
