package vex

import (
	"fmt"
	"image/color"
	"strings"
)

// Viewport holds per-window layout/display settings independent of any one
// buffer: gutter toggles, geometry, and the active theme.
type Viewport struct {
	Rows, Cols int

	ShowLineNumbers bool
	RelativeNumber  bool

	// Padding is cursor_padding: how many rows of context
	// place_cursor_actual keeps between the cursor and the top/bottom edge
	// of the text area before scrolling.
	Padding int

	HighlightCurrentLine bool
	ColorGutter          bool

	// SplitPercent is the width share (1-99) the left pane gets when a
	// second split is open.
	SplitPercent int

	// ShiftScrolling scrolls the view by ScrollAmount lines instead of
	// repositioning the cursor when the mouse wheel reports (bimrc's
	// shiftscrolling / scrollamount keys).
	ShiftScrolling bool
	ScrollAmount   int

	Theme *Theme
}

// NewViewport returns a viewport sized rows x cols with line numbers on
// and the built-in theme.
func NewViewport(rows, cols int) *Viewport {
	return &Viewport{Rows: rows, Cols: cols, ShowLineNumbers: true, SplitPercent: 50, ScrollAmount: 5, Theme: &DefaultTheme}
}

// gutterWidth returns how many columns the line-number gutter occupies,
// growing with the buffer's line count.
func (v *Viewport) gutterWidth(lineCount int) int {
	if !v.ShowLineNumbers {
		return 0
	}
	digits := 1
	for n := lineCount; n >= 10; n /= 10 {
		digits++
	}
	if digits < 3 {
		digits = 3
	}
	return digits + 1
}

// Renderer draws a Buffer through a Viewport onto a Terminal, and tracks
// the buffer's Offset/COffset scroll state needed to keep the cursor
// visible.
type Renderer struct {
	Term Terminal
	View *Viewport

	caps Capabilities

	// TabBar names the open tabs, painted on the top row when there is
	// more than one; the shell refreshes it before each frame.
	TabBar    []string
	ActiveTab int
}

// NewRenderer returns a renderer bound to term, sizing its viewport from
// the terminal's current dimensions.
func NewRenderer(term Terminal) *Renderer {
	rows, cols := term.Size()
	return &Renderer{Term: term, View: NewViewport(rows, cols), caps: term.Capabilities()}
}

// scrollToCursor adjusts buf.Offset/COffset so the cursor line and column
// stay within the visible window.
func (r *Renderer) scrollToCursor(buf *Buffer, textRows, textCols int) {
	if textRows < 1 {
		textRows = 1
	}
	padding := r.View.Padding
	if padding*2 >= textRows {
		padding = 0 // a degenerate window falls back to edge-exact scrolling
	}
	if buf.LineNo-1 < buf.Offset+padding {
		buf.Offset = buf.LineNo - 1 - padding
	}
	if buf.LineNo-1 >= buf.Offset+textRows-padding {
		buf.Offset = buf.LineNo - textRows + padding
	}
	if buf.Offset > len(buf.Lines)-1 {
		buf.Offset = len(buf.Lines) - 1
	}
	if buf.Offset < 0 {
		buf.Offset = 0
	}

	if textCols < 1 {
		textCols = 1
	}
	col := buf.ColNo - 1
	if col < buf.COffset {
		buf.COffset = col
	}
	if col >= buf.COffset+textCols {
		buf.COffset = col - textCols + 1
	}
	if buf.COffset < 0 {
		buf.COffset = 0
	}
}

// Redraw repaints the whole frame for a single unsplit buffer: optional
// tab bar, text area, status line, and command or message line, then
// places the real cursor.
func (r *Renderer) Redraw(buf *Buffer, disp *Dispatcher, status string) error {
	return r.RedrawSplit(buf, nil, disp, status)
}

// RedrawSplit repaints the frame with an optional right-hand pane: the
// active buffer occupies the left SplitPercent% of the width, side the
// rest. side == nil paints full-width.
func (r *Renderer) RedrawSplit(buf, side *Buffer, disp *Dispatcher, status string) error {
	buf.paintParenMatch()

	tabRows := 0
	if len(r.TabBar) > 1 {
		tabRows = 1
	}
	textRows := r.View.Rows - 2 - tabRows
	if textRows < 1 {
		textRows = 1
	}

	leftCols := r.View.Cols
	if side != nil {
		leftCols = r.View.Cols * r.View.SplitPercent / 100
		if leftCols < 2 {
			leftCols = 2
		}
	}
	gutter := r.View.gutterWidth(len(buf.Lines))
	r.scrollToCursor(buf, textRows, leftCols-gutter)

	var sb strings.Builder
	sb.WriteString("\x1b[H")

	if tabRows > 0 {
		r.writeTabBar(&sb)
	}

	for row := 0; row < textRows; row++ {
		sb.WriteString("\x1b[K")
		r.writePaneRow(&sb, buf, row, gutter, leftCols)
		if side != nil {
			sb.WriteString("\x1b[0m│")
			sideGutter := r.View.gutterWidth(len(side.Lines))
			r.writePaneRow(&sb, side, row, sideGutter, r.View.Cols-leftCols-1)
		}
		sb.WriteString("\r\n")
	}

	r.writeStatusLine(&sb, buf, status)
	r.writeCommandLine(&sb, buf, disp)

	ln, col := r.cursorScreenPos(buf, gutter)
	fmt.Fprintf(&sb, "\x1b[%d;%dH", ln+tabRows, col)

	if _, err := r.Term.Write([]byte(sb.String())); err != nil {
		return err
	}
	return r.Term.Flush()
}

func (r *Renderer) writePaneRow(sb *strings.Builder, buf *Buffer, row, gutter, width int) {
	lineIdx := buf.Offset + row
	if lineIdx >= len(buf.Lines) {
		if gutter > 0 {
			sb.WriteString(strings.Repeat(" ", gutter))
		}
		return
	}
	current := r.View.HighlightCurrentLine && lineIdx+1 == buf.LineNo
	r.writeGutter(sb, lineIdx, buf, gutter)
	r.writeLine(sb, buf.Lines[lineIdx], buf.COffset, width-gutter, current)
}

func (r *Renderer) writeTabBar(sb *strings.Builder) {
	theme := r.View.Theme
	sb.WriteString("\x1b[K")
	for i, name := range r.TabBar {
		if name == "" {
			name = "[No Name]"
		}
		if i == r.ActiveTab {
			r.writeSGR(sb, theme.Background, theme.Foreground)
		} else {
			r.writeSGR(sb, theme.StatusFg, theme.StatusBg)
		}
		fmt.Fprintf(sb, " %s ", name)
	}
	sb.WriteString("\x1b[0m\r\n")
}

func (r *Renderer) writeGutter(sb *strings.Builder, lineIdx int, buf *Buffer, gutter int) {
	if gutter == 0 {
		return
	}
	n := lineIdx + 1
	if r.View.RelativeNumber && lineIdx+1 != buf.LineNo {
		n = lineIdx + 1 - buf.LineNo
		if n < 0 {
			n = -n
		}
	}
	text := fmt.Sprintf("%d", n)
	pad := gutter - 1 - len(text)
	if pad < 0 {
		pad = 0
	}
	if r.View.ColorGutter {
		r.writeSGR(sb, r.View.Theme.GutterFg, revStatusColor(buf.Lines[lineIdx].RevStatus, r.View.Theme))
	}
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(text)
	sb.WriteString(" ")
	if r.View.ColorGutter {
		sb.WriteString("\x1b[0m")
	}
}

// revStatusColor resolves a line's git-diff gutter marker to a background color, falling back to the theme's
// ordinary gutter background for "unchanged".
func revStatusColor(status RevStatus, theme *Theme) color.RGBA {
	switch status {
	case RevAdded:
		return theme.Classes[ClassDiffPlus]
	case RevModified, RevModifiedVCS, RevModifiedAndDeletion, RevDeletionBelow:
		return theme.Classes[ClassDiffMinus]
	default:
		return theme.GutterBg
	}
}

// writeLine emits one text row, starting at hoffset (0-based cell column)
// and filling at most width columns, painting SGR color transitions only
// when the class/overlay actually changes (a cheap diff against the
// previous cell's rendered attributes).
func (r *Renderer) writeLine(sb *strings.Builder, line *Line, hoffset, width int, current bool) {
	theme := r.View.Theme
	col := 0
	i := 0
	for i < line.Actual && col < hoffset {
		col += int(line.Cells[i].Width)
		i++
	}

	var lastFg color.RGBA
	var lastBg color.RGBA
	painted := false

	written := 0
	for ; i < line.Actual && written < width; i++ {
		cell := line.Cells[i]
		fg, bg := r.colorsFor(cell, theme, current)
		if !painted || fg != lastFg || bg != lastBg {
			r.writeSGR(sb, fg, bg)
			lastFg, lastBg, painted = fg, bg, true
		}
		sb.WriteString(FallbackGlyph(cell.Codepoint))
		written += int(cell.Width)
	}
	if current && written < width {
		r.writeSGR(sb, theme.Foreground, theme.CurrentLine)
		sb.WriteString(strings.Repeat(" ", width-written))
		painted = true
	}
	if painted {
		sb.WriteString("\x1b[0m")
	}
}

func (r *Renderer) colorsFor(cell Cell, theme *Theme, current bool) (fg, bg color.RGBA) {
	fg = theme.ColorFor(cell.Flags.Class())
	bg = theme.Background
	if current {
		bg = theme.CurrentLine
	}
	if cell.HasFlag(FlagParen) {
		bg = theme.ParenMatch
	}
	if cell.HasFlag(FlagSearch) {
		bg = theme.Search
	}
	if cell.HasFlag(FlagSelect) {
		bg = theme.Select
	}
	return fg, bg
}

// writeSGR emits the color transition, using 24-bit SGR when the terminal
// supports it and degrading to the nearest 256-color index otherwise
// .
func (r *Renderer) writeSGR(sb *strings.Builder, fg, bg color.RGBA) {
	if r.caps.TrueColor {
		fmt.Fprintf(sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm", fg.R, fg.G, fg.B, bg.R, bg.G, bg.B)
		return
	}
	fmt.Fprintf(sb, "\x1b[38;5;%dm\x1b[48;5;%dm", rgbTo256(fg), rgbTo256(bg))
}

// rgbTo256 maps an RGB color onto the xterm 6x6x6 cube (or the grayscale
// ramp when r==g==b), the standard degradation for non-truecolor
// terminals.
func rgbTo256(c color.RGBA) int {
	if c.R == c.G && c.G == c.B {
		if c.R < 8 {
			return 16
		}
		if c.R > 248 {
			return 231
		}
		return 232 + (int(c.R)-8)/10
	}
	quant := func(v uint8) int {
		if v < 48 {
			return 0
		}
		if v < 115 {
			return 1
		}
		return (int(v) - 35) / 40
	}
	return 16 + 36*quant(c.R) + 6*quant(c.G) + quant(c.B)
}

func (r *Renderer) writeStatusLine(sb *strings.Builder, buf *Buffer, status string) {
	theme := r.View.Theme
	sb.WriteString("\x1b[K")
	r.writeSGR(sb, theme.StatusFg, theme.StatusBg)

	name := buf.FileName
	if name == "" {
		name = "[No Name]"
	}
	modFlag := ""
	if buf.Modified {
		modFlag = " [+]"
	}
	roFlag := ""
	if buf.Readonly {
		roFlag = " [RO]"
	}
	left := fmt.Sprintf(" %s%s%s", name, modFlag, roFlag)
	right := fmt.Sprintf("%d:%d ", buf.LineNo, buf.ColNo)
	if status != "" {
		right = status + "  " + right
	}

	pad := r.View.Cols - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	sb.WriteString(left)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(right)
	sb.WriteString("\x1b[0m\r\n")
}

func (r *Renderer) writeCommandLine(sb *strings.Builder, buf *Buffer, disp *Dispatcher) {
	sb.WriteString("\x1b[K")
	switch buf.Mode {
	case ModeCommand:
		sb.WriteString(":" + disp.CommandLine())
	case ModeSearch:
		lead := "/"
		if disp.SearchBackward() {
			lead = "?"
		}
		sb.WriteString(lead + disp.CommandLine())
	default:
		sb.WriteString("-- " + buf.Mode.String() + " --")
		if count := disp.PendingCountText(); count != "" {
			sb.WriteString(" " + count)
		}
	}
}

// cursorScreenPos converts the buffer's logical cursor into 1-based
// terminal row/col, accounting for the gutter and scroll offsets.
func (r *Renderer) cursorScreenPos(buf *Buffer, gutter int) (row, col int) {
	row = buf.LineNo - buf.Offset
	if row < 1 {
		row = 1
	}
	screenCol := 0
	line := buf.CurrentLine()
	for i := 0; i < buf.ColNo-1 && i < line.Actual; i++ {
		screenCol += int(line.Cells[i].Width)
	}
	col = gutter + screenCol - buf.COffset + 1
	if col < 1 {
		col = 1
	}
	return row, col
}
