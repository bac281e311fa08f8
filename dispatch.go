package vex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Dispatcher drives one Buffer through keystrokes, holding the small bits
// of state a single key can't carry on its own: a pending count prefix, a
// pending operator (d/y/g waiting for a second key), and the command-line
// editing state Command and Search modes share.
type Dispatcher struct {
	Buf  *Buffer
	View *Viewport // optional; enables :set linenumbers/relativenumber

	count    int
	hasCount bool
	pending  rune // 'd', 'y', 'g', 'r', or 0

	cmdline        []rune
	searchBackward bool // the direction `/` vs `?` entered Search mode with
	searchPrev     []rune
	searchPrevSet  bool // pre-entry snapshot, restored when Esc cancels

	// selFirst/selLast carry a line selection's range into Command mode
	// when `:` is pressed from LineSel.
	selFirst, selLast int

	// cmdHistory is the bounded, deduplicating MRU list Up/Down cycle
	// through in Command mode. histPos is an
	// index into it while cycling, or len(cmdHistory) for "not cycling /
	// back at the in-progress line".
	cmdHistory []string
	histPos    int
	histDraft  []rune // the in-progress line, stashed when Up starts cycling

	// SyntaxNames/ThemeNames feed Tab completion for `:syntax` and
	// `:theme` arguments; nil leaves those argument positions
	// uncompleted. The host program wires them.
	SyntaxNames func() []string
	ThemeNames  func() []string

	LastResult CommandResult
}

// maxCmdHistory caps the command-mode recall list.
const maxCmdHistory = 255

// pushCmdHistory records line as the most recent command, moving it to the
// end (and deduplicating) if already present.
func (d *Dispatcher) pushCmdHistory(line string) {
	if line == "" {
		return
	}
	for i, h := range d.cmdHistory {
		if h == line {
			d.cmdHistory = append(d.cmdHistory[:i], d.cmdHistory[i+1:]...)
			break
		}
	}
	d.cmdHistory = append(d.cmdHistory, line)
	if len(d.cmdHistory) > maxCmdHistory {
		d.cmdHistory = d.cmdHistory[len(d.cmdHistory)-maxCmdHistory:]
	}
	d.histPos = len(d.cmdHistory)
}

// historyUp/historyDown move the cursor through cmdHistory, stashing and
// restoring the in-progress line at the boundary.
func (d *Dispatcher) historyUp() {
	if len(d.cmdHistory) == 0 || d.histPos == 0 {
		return
	}
	if d.histPos == len(d.cmdHistory) {
		d.histDraft = append([]rune(nil), d.cmdline...)
	}
	d.histPos--
	d.cmdline = []rune(d.cmdHistory[d.histPos])
}

func (d *Dispatcher) historyDown() {
	if d.histPos >= len(d.cmdHistory) {
		return
	}
	d.histPos++
	if d.histPos == len(d.cmdHistory) {
		d.cmdline = d.histDraft
		return
	}
	d.cmdline = []rune(d.cmdHistory[d.histPos])
}

// NewDispatcher returns a dispatcher driving buf.
func NewDispatcher(buf *Buffer) *Dispatcher { return &Dispatcher{Buf: buf} }

// takeCount returns the pending numeric prefix (defaulting to 1) and clears
// it.
func (d *Dispatcher) takeCount() int {
	n := 1
	if d.hasCount && d.count > 0 {
		n = d.count
	}
	d.count, d.hasCount = 0, false
	return n
}

// Dispatch feeds one decoded key to the dispatcher and returns a non-nil
// *Error on a recoverable failure; the editor shell reports it
// on the status line and keeps going.
func (d *Dispatcher) Dispatch(k Key) error {
	switch d.Buf.Mode {
	case ModeNormal:
		return d.dispatchNormal(k)
	case ModeInsert, ModeReplace:
		return d.dispatchInsert(k)
	case ModeLineSel, ModeCharSel, ModeColSel:
		return d.dispatchSelect(k)
	case ModeColInsert:
		return d.dispatchColInsert(k)
	case ModeCommand:
		return d.dispatchCommand(k)
	case ModeSearch:
		return d.dispatchSearch(k)
	}
	return nil
}

// dispatchArrow translates a cursor-key CSI into the equivalent hjkl
// motion, shared by Normal, the selection modes, and Insert.
func (d *Dispatcher) dispatchArrow(seq string) bool {
	b := d.Buf
	switch seq {
	case "A":
		b.LineNo--
	case "B":
		b.LineNo++
	case "C":
		b.ColNo++
	case "D":
		b.ColNo--
	case "H":
		b.ColNo = 1
	case "F":
		b.ColNo = b.CurrentLine().Actual + 1
	case "5~": // PageUp
		b.LineNo -= d.pageSize()
	case "6~": // PageDown
		b.LineNo += d.pageSize()
	default:
		return false
	}
	b.clampCursor()
	if b.Mode.IsSelection() {
		b.recomputeSyntaxAll()
	}
	return true
}

func (d *Dispatcher) pageSize() int {
	if d.View != nil && d.View.Rows > 2 {
		return d.View.Rows - 2
	}
	return 20
}

func (d *Dispatcher) dispatchNormal(k Key) error {
	if k.Kind == KeyCSI {
		d.dispatchArrow(k.Seq)
		return nil
	}
	if k.Kind != KeyRune {
		return nil
	}
	r := k.R

	if d.pending == 'r' {
		d.pending = 0
		if r != 0x1B {
			d.Buf.ReplaceChar(r)
		}
		return nil
	}

	if r >= '1' && r <= '9' || (r == '0' && d.hasCount) {
		d.count = d.count*10 + int(r-'0')
		d.hasCount = true
		return nil
	}

	b := d.Buf
	countWasSet := d.hasCount
	n := d.takeCount()

	if d.pending == 'g' {
		d.pending = 0
		if r == 'g' {
			if countWasSet {
				b.GotoLine(n)
			} else {
				b.GotoLine(1)
			}
		}
		return nil
	}

	switch r {
	case 'i':
		b.Mode = ModeInsert
	case 'a':
		b.ColNo++
		b.Mode = ModeInsert
		b.clampCursor()
	case 'I':
		b.FirstNonBlank()
		b.Mode = ModeInsert
	case 'A':
		b.ColNo = b.CurrentLine().Actual + 1
		b.Mode = ModeInsert
	case 'o':
		b.ColNo = b.CurrentLine().Actual + 1
		b.InsertLineFeed()
		b.Mode = ModeInsert
	case 'O':
		b.OpenLineAbove()
		b.Mode = ModeInsert
	case 'R':
		b.Mode = ModeReplace
	case 'v':
		d.startSelect(ModeCharSel)
	case 'V':
		d.startSelect(ModeLineSel)
	case 0x16: // Ctrl+V
		d.startSelect(ModeColSel)
	case 'h':
		b.ColNo -= n
		b.clampCursor()
	case 'l':
		b.ColNo += n
		b.clampCursor()
	case 'j':
		b.LineNo += n
		d.verticalClamp()
	case 'k':
		b.LineNo -= n
		d.verticalClamp()
	case '0':
		b.ColNo = 1
	case '^':
		b.FirstNonBlank()
	case '$':
		b.ColNo = b.CurrentLine().Actual
		if b.ColNo < 1 {
			b.ColNo = 1
		}
	case 'w':
		for i := 0; i < n; i++ {
			b.WordRight()
		}
	case 'b':
		for i := 0; i < n; i++ {
			b.WordLeft()
		}
	case 'e':
		for i := 0; i < n; i++ {
			b.WordEnd()
		}
	case '{':
		for i := 0; i < n; i++ {
			b.ParagraphBackward()
		}
	case '}':
		for i := 0; i < n; i++ {
			b.ParagraphForward()
		}
	case 'g':
		d.pending = 'g'
		if countWasSet {
			d.count, d.hasCount = n, true
		}
	case 'G':
		if countWasSet {
			b.GotoLine(n)
		} else {
			b.GotoLine(len(b.Lines))
		}
	case 'x':
		for i := 0; i < n; i++ {
			if b.ColNo <= b.CurrentLine().Actual {
				b.DeleteChars(b.LineNo-1, b.ColNo-1, b.ColNo)
			}
		}
	case 'X':
		for i := 0; i < n && b.ColNo > 1; i++ {
			b.DeleteChars(b.LineNo-1, b.ColNo-2, b.ColNo-1)
		}
	case 'D':
		if b.ColNo <= b.CurrentLine().Actual {
			b.DeleteChars(b.LineNo-1, b.ColNo-1, b.CurrentLine().Actual)
		}
	case 'r':
		d.pending = 'r'
	case 'p':
		for i := 0; i < n; i++ {
			b.PasteAfter()
		}
	case 'P':
		for i := 0; i < n; i++ {
			b.PasteBefore()
		}
	case 'u':
		for i := 0; i < n; i++ {
			if err := b.Undo(); err != nil {
				return err
			}
		}
	case 0x12: // Ctrl+R
		for i := 0; i < n; i++ {
			if err := b.Redo(); err != nil {
				return err
			}
		}
	case 'd':
		if d.pending == 'd' {
			d.applyLineOperator(n)
			d.pending = 0
		} else {
			d.pending = 'd'
			if countWasSet {
				d.count, d.hasCount = n, true
			}
		}
	case 'y':
		if d.pending == 'y' {
			b.YankLines(b.LineNo, b.LineNo+n-1)
			d.pending = 0
		} else {
			d.pending = 'y'
			if countWasSet {
				d.count, d.hasCount = n, true
			}
		}
	case '%':
		if ln, col, ok := b.MatchParen(); ok {
			b.LineNo, b.ColNo = ln, col
		}
	case '*':
		d.searchWordUnderCursor()
	case '/':
		d.enterSearch(false)
	case '?':
		d.enterSearch(true)
	case 'n':
		for i := 0; i < n; i++ {
			if err := d.continueSearch(false); err != nil {
				return err
			}
		}
	case 'N':
		for i := 0; i < n; i++ {
			if err := d.continueSearch(true); err != nil {
				return err
			}
		}
	case ':':
		b.Mode = ModeCommand
		d.cmdline = d.cmdline[:0]
		d.selFirst, d.selLast = 0, 0
	case 0x0C: // Ctrl+L: the shell repaints every frame; nothing to do here
	case 0x1A: // Ctrl+Z
		d.LastResult.Suspend = true
	case 0x1B:
		d.pending = 0
	}

	if r != 'j' && r != 'k' && d.pending == 0 {
		b.PreferredCol = b.ColNo
	}
	return nil
}

// verticalClamp applies the remembered preferred column after a j/k
// motion, then clamps.
func (d *Dispatcher) verticalClamp() {
	b := d.Buf
	if b.PreferredCol > 0 {
		b.ColNo = b.PreferredCol
	}
	b.clampCursor()
}

func (d *Dispatcher) enterSearch(backward bool) {
	d.Buf.Mode = ModeSearch
	d.searchBackward = backward
	d.cmdline = d.cmdline[:0]
	d.searchPrev = append([]rune(nil), d.Buf.Search...)
	d.searchPrevSet = d.Buf.SearchSet
}

// continueSearch repeats the committed search: `n` keeps its direction,
// `N` (reverse=true) flips it. Both wrap.
func (d *Dispatcher) continueSearch(reverse bool) error {
	backward := d.searchBackward
	if reverse {
		backward = !backward
	}
	if backward {
		return d.Buf.FindPrev()
	}
	return d.Buf.FindNext()
}

// searchWordUnderCursor implements `*`: take the word under the cursor as
// the search pattern and jump to its next occurrence.
func (d *Dispatcher) searchWordUnderCursor() {
	b := d.Buf
	line := b.CurrentLine()
	col := b.ColNo - 1
	if col >= line.Actual || classify(line.Cells[col].Codepoint) != classWord {
		return
	}
	start, end := col, col+1
	for start > 0 && classify(line.Cells[start-1].Codepoint) == classWord {
		start--
	}
	for end < line.Actual && classify(line.Cells[end].Codepoint) == classWord {
		end++
	}
	b.SetSearch(append([]rune(nil), line.Runes()[start:end]...))
	d.searchBackward = false
	_ = b.FindNext()
}

func (d *Dispatcher) applyLineOperator(n int) {
	b := d.Buf
	last := b.LineNo + n - 1
	if last > len(b.Lines) {
		last = len(b.Lines)
	}
	b.DeleteLines(b.LineNo, last)
}

func (d *Dispatcher) startSelect(mode Mode) {
	b := d.Buf
	b.Mode = mode
	b.StartLine = b.LineNo
	b.SelCol = b.ColNo
	b.recomputeSyntaxAll()
}

func (d *Dispatcher) dispatchInsert(k Key) error {
	b := d.Buf
	if k.Kind == KeyCSI {
		if k.Seq == "3~" { // Delete
			if b.ColNo <= b.CurrentLine().Actual {
				b.deleteCellAt(b.LineNo-1, b.ColNo-1)
			}
			return nil
		}
		d.dispatchArrow(k.Seq)
		return nil
	}
	if k.Kind != KeyRune {
		return nil
	}
	switch k.R {
	case 0x1B:
		b.Mode = ModeNormal
		b.ColNo--
		b.clampCursor()
		b.history.Break()
	case 0x7F, 0x08:
		b.DeleteAtCursor()
	case '\r', '\n':
		b.InsertLineFeed()
	case '\t':
		if b.Tabs {
			b.InsertChar('\t')
		} else {
			for i := 0; i < b.TabStop; i++ {
				b.InsertChar(' ')
			}
		}
	default:
		if b.Mode == ModeReplace && b.ColNo <= b.CurrentLine().Actual {
			b.ReplaceChar(k.R)
			b.ColNo++
		} else {
			b.InsertChar(k.R)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchSelect(k Key) error {
	b := d.Buf
	if k.Kind == KeyCSI {
		if k.Seq == "Z" && b.Mode == ModeLineSel { // Shift-Tab
			first, last := orderedRange(b.StartLine, b.LineNo)
			b.OutdentLines(first, last)
			b.recomputeSyntaxAll()
			return nil
		}
		d.dispatchArrow(k.Seq)
		return nil
	}
	if k.Kind != KeyRune {
		return nil
	}
	switch k.R {
	case 0x1B:
		b.Mode = ModeNormal
		b.recomputeSyntaxAll()
	case 'h':
		b.ColNo--
	case 'l':
		b.ColNo++
	case 'j':
		b.LineNo++
	case 'k':
		b.LineNo--
	case 'w':
		b.WordRight()
	case 'b':
		b.WordLeft()
	case '0':
		b.ColNo = 1
	case '$':
		b.ColNo = max(1, b.CurrentLine().Actual)
	case 'G':
		b.GotoLine(len(b.Lines))
	case '\t':
		if b.Mode == ModeLineSel {
			first, last := orderedRange(b.StartLine, b.LineNo)
			b.IndentLines(first, last)
		}
	case 'd', 'x', 'D':
		d.applySelectionOp(true)
	case 'y':
		d.applySelectionOp(false)
	case ':':
		if b.Mode == ModeLineSel {
			d.selFirst, d.selLast = orderedRange(b.StartLine, b.LineNo)
			b.Mode = ModeCommand
			d.cmdline = d.cmdline[:0]
			b.recomputeSyntaxAll()
		}
	case 'I':
		if b.Mode == ModeColSel {
			if b.SelCol < b.ColNo {
				b.ColNo = b.SelCol
			}
			b.SelCol = b.ColNo
			b.Mode = ModeColInsert
		}
	}
	b.clampCursor()
	if b.Mode.IsSelection() {
		b.recomputeSyntaxAll()
	}
	return nil
}

func orderedRange(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func (d *Dispatcher) applySelectionOp(delete bool) {
	b := d.Buf
	if delete && b.Readonly {
		b.Mode = ModeNormal
		b.recomputeSyntaxAll()
		return
	}
	switch b.Mode {
	case ModeLineSel:
		first, last := orderedRange(b.StartLine, b.LineNo)
		if delete {
			b.DeleteLines(first, last)
		} else {
			b.YankLines(first, last)
		}
	case ModeCharSel:
		first, last := b.StartLine, b.LineNo
		firstCol, lastCol := b.SelCol, b.ColNo
		if first > last || (first == last && firstCol > lastCol) {
			first, last = last, first
			firstCol, lastCol = lastCol, firstCol
		}
		if delete {
			b.DeleteCharRange(first, firstCol-1, last, lastCol)
		} else {
			b.YankCharRange(first, firstCol-1, last, lastCol)
		}
	case ModeColSel:
		lo, hi := orderedRange(b.SelCol, b.ColNo)
		first, last := orderedRange(b.StartLine, b.LineNo)
		b.YankBlock(first, last, lo-1, hi)
		if delete {
			b.history.Break()
			for ln := first; ln <= last; ln++ {
				end := hi
				if end > b.Lines[ln-1].Actual {
					end = b.Lines[ln-1].Actual
				}
				for c := lo - 1; c < end; c++ {
					b.deleteCellAt(ln-1, lo-1)
				}
			}
			b.history.Break()
			b.LineNo, b.ColNo = first, lo
		}
	}
	b.Mode = ModeNormal
	b.recomputeSyntaxAll()
}

func (d *Dispatcher) dispatchColInsert(k Key) error {
	// Column-insert is entered from ColSel with 'I'; keystrokes splice
	// into every selected line in lockstep at the anchor column, backspace
	// removes the last lockstep insertion, and Escape commits back to
	// Normal. Lines shorter than the anchor column are left
	// untouched.
	b := d.Buf
	if k.Kind != KeyRune {
		return nil
	}
	lo, hi := orderedRange(b.StartLine, b.LineNo)
	switch k.R {
	case 0x1B:
		b.Mode = ModeNormal
		b.history.Break()
		b.recomputeSyntaxAll()
	case 0x7F, 0x08:
		if b.ColNo <= b.SelCol {
			return nil
		}
		for ln := lo; ln <= hi; ln++ {
			col := b.ColNo - 2
			if col < b.Lines[ln-1].Actual {
				b.deleteCellAt(ln-1, col)
			}
		}
		b.ColNo--
	default:
		for ln := lo; ln <= hi; ln++ {
			col := b.ColNo - 1
			if col > b.Lines[ln-1].Actual {
				continue
			}
			b.insertCellAt(ln-1, col, k.R)
		}
		b.ColNo++
	}
	return nil
}

func (d *Dispatcher) dispatchSearch(k Key) error {
	b := d.Buf
	switch k.Kind {
	case KeyRune:
		switch k.R {
		case '\r', '\n':
			b.SetSearch(append([]rune(nil), d.cmdline...))
			b.Mode = ModeNormal
			return b.FindFirst(d.searchBackward)
		case 0x1B:
			// cancel: restore the pre-entry pattern and its overlays
			//.
			b.Mode = ModeNormal
			b.Search = d.searchPrev
			b.SearchSet = d.searchPrevSet
			b.recomputeSyntaxAll()
		case 0x7F, 0x08:
			if len(d.cmdline) > 0 {
				d.cmdline = d.cmdline[:len(d.cmdline)-1]
			}
		default:
			d.cmdline = append(d.cmdline, k.R)
		}
	}
	return nil
}

func (d *Dispatcher) dispatchCommand(k Key) error {
	b := d.Buf
	switch k.Kind {
	case KeyCSI:
		switch k.Seq {
		case "A": // Up
			d.historyUp()
		case "B": // Down
			d.historyDown()
		}
		return nil
	case KeyRune:
		switch k.R {
		case '\r', '\n':
			line := string(d.cmdline)
			b.Mode = ModeNormal
			d.cmdline = d.cmdline[:0]
			d.pushCmdHistory(line)
			if d.selFirst > 0 && strings.HasPrefix(strings.TrimSpace(line), "s") {
				line = fmt.Sprintf("%d,%d%s", d.selFirst, d.selLast, strings.TrimSpace(line))
			}
			d.selFirst, d.selLast = 0, 0
			if strings.TrimSpace(line) == "history" {
				d.LastResult = CommandResult{Message: d.historySummary()}
				return nil
			}
			res, err := ExecuteCommand(b, d.View, line)
			d.LastResult = res
			return err
		case 0x1B:
			b.Mode = ModeNormal
			d.cmdline = d.cmdline[:0]
			d.selFirst, d.selLast = 0, 0
			d.histPos = len(d.cmdHistory)
		case '\t':
			d.completeCommand()
		case 0x7F, 0x08:
			if len(d.cmdline) > 0 {
				d.cmdline = d.cmdline[:len(d.cmdline)-1]
			}
		default:
			d.cmdline = append(d.cmdline, k.R)
		}
	}
	return nil
}

// commandNames is the completion vocabulary for the first word of a colon
// command.
var commandNames = []string{
	"clearyank", "colorgutter", "e", "git", "help", "history", "hlcurrent",
	"hlparen", "indent", "noh", "noindent", "padding", "q", "qa", "recalc",
	"set", "smartcase", "spaces", "split", "splitpercent", "syntax",
	"tabn", "tabnew", "tabp", "tabs", "tabstop", "theme", "unsplit", "w",
	"wq",
}

// completeCommand performs context-aware Tab completion over (command,
// syntax-name, theme-name, filesystem-path): the candidate set depends on
// which word the cursor is in and what command the line started with.
func (d *Dispatcher) completeCommand() {
	line := string(d.cmdline)
	word := line
	prefixLen := 0
	if i := strings.LastIndexByte(line, ' '); i >= 0 {
		word = line[i+1:]
		prefixLen = i + 1
	}

	var candidates []string
	fields := strings.Fields(line)
	switch {
	case prefixLen == 0:
		candidates = commandNames
	case len(fields) == 0:
		return
	default:
		switch fields[0] {
		case "syntax":
			if d.SyntaxNames != nil {
				candidates = d.SyntaxNames()
			}
		case "theme":
			if d.ThemeNames != nil {
				candidates = d.ThemeNames()
			}
		case "e", "w", "tabnew", "split":
			candidates = completePath(word)
		}
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return
	}
	sort.Strings(matches)
	completed := matches[0]
	if len(matches) > 1 {
		completed = commonPrefix(matches)
		if len(completed) <= len(word) {
			return
		}
	}
	d.cmdline = []rune(line[:prefixLen] + completed)
}

func commonPrefix(ss []string) string {
	p := ss[0]
	for _, s := range ss[1:] {
		for !strings.HasPrefix(s, p) {
			p = p[:len(p)-1]
		}
	}
	return p
}

// completePath lists directory entries matching the partial path typed so
// far, appending '/' to directories so completion can keep descending.
func completePath(partial string) []string {
	dir, base := filepath.Split(partial)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		full := dir + name
		if e.IsDir() {
			full += "/"
		}
		out = append(out, full)
	}
	return out
}

// historySummary renders the last few command-mode entries for `:history`.
func (d *Dispatcher) historySummary() string {
	if len(d.cmdHistory) == 0 {
		return "(no command history)"
	}
	n := len(d.cmdHistory)
	start := 0
	if n > 5 {
		start = n - 5
	}
	return strings.Join(d.cmdHistory[start:], "; ")
}

// CommandLine returns the text the user has typed so far in Command or
// Search mode, for the status-line renderer.
func (d *Dispatcher) CommandLine() string { return string(d.cmdline) }

// SearchBackward reports which direction Search mode was entered with, so
// the command line can show '?' instead of '/'.
func (d *Dispatcher) SearchBackward() bool { return d.searchBackward }

// PendingCountText renders the in-progress numeric prefix, or "" if none.
func (d *Dispatcher) PendingCountText() string {
	if !d.hasCount {
		return ""
	}
	return strconv.Itoa(d.count)
}
