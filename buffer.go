package vex

import (
	"bufio"
	"os"
	"strings"

	"github.com/google/uuid"
)

// wordClass buckets a rune for word-motion purposes. Whitespace is always class 0 and always skipped.
type wordClass int

const (
	classSpace wordClass = iota
	classWord
	classPunct
)

func classify(r rune) wordClass {
	switch {
	case r == ' ' || r == '\t':
		return classSpace
	case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r > 0x7F:
		return classWord
	default:
		return classPunct
	}
}

// Buffer is an open document: lines, cursor, viewport, mode, history, and
// optional syntax lexer.
type Buffer struct {
	ID uuid.UUID

	Lines []*Line

	Mode Mode

	FileName string
	Modified bool
	Readonly bool

	Tabs    bool // true => hard tabs, false => spaces
	TabStop int
	Indent  bool // auto-indent on newline

	Offset       int // top visible line, 0-based
	COffset      int // horizontal scroll in cells
	LineNo       int // 1-based cursor line
	ColNo        int // 1-based cursor column
	PreferredCol int // remembered display column for vertical motion

	Search    []rune
	SearchSet bool

	Syntax SyntaxLexer

	history         *History
	lastSaveHistory int

	Width, Left int // split geometry
	StartLine   int // selection anchor line
	SelCol      int // selection anchor column (ColSel/ColInsert)

	HighlightingParen bool
	SmartCase         bool // case-insensitive search when pattern has no uppercase

	// Register is the yank/delete clipboard. It defaults to a buffer-private
	// instance so a Buffer is usable standalone (tests, `vex -c`), but
	// EditorShell points every buffer it owns at one shared *Register so
	// all splits/tabs see the same single global clipboard.
	Register *Register
	loading  bool
}

// NewBuffer returns a buffer with a single empty line; a buffer never
// holds zero lines.
func NewBuffer() *Buffer {
	b := &Buffer{
		ID:        uuid.New(),
		Lines:     []*Line{NewLine()},
		Mode:      ModeNormal,
		TabStop:   8,
		Indent:    true,
		LineNo:    1,
		ColNo:     1,
		SmartCase: true,
		Register:  &Register{},
		history:   NewHistory(),
	}
	return b
}

// LineCount returns the number of lines, always >= 1.
func (b *Buffer) LineCount() int { return len(b.Lines) }

// Line returns the 1-based line, or nil if out of range.
func (b *Buffer) Line(n int) *Line {
	if n < 1 || n > len(b.Lines) {
		return nil
	}
	return b.Lines[n-1]
}

// CurrentLine returns the line the cursor is on.
func (b *Buffer) CurrentLine() *Line { return b.Line(b.LineNo) }

// History exposes the undo journal for tests and the dispatcher's Break
// calls; mutation helpers below are the normal path.
func (b *Buffer) History() *History { return b.history }

// MarkSaved records the current history position as the save point;
// Modified becomes false until the next mutation.
func (b *Buffer) MarkSaved() {
	b.lastSaveHistory = b.history.Position()
	b.Modified = false
}

func (b *Buffer) touchModified() {
	b.Modified = b.history.Position() != b.lastSaveHistory
}

// Load replaces the buffer's contents with path's, resetting history.
func (b *Buffer) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			b.FileName = path
			b.Lines = []*Line{NewLine()}
			b.history = NewHistory()
			b.lastSaveHistory = 0
			b.LineNo, b.ColNo = 1, 1
			return nil
		}
		return &Error{Kind: ErrKindIOOpen, Cause: err}
	}
	defer f.Close()

	b.loading = true
	defer func() { b.loading = false }()

	var lines []*Line
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, NewLineFromRunes([]rune(scanner.Text()), b.TabStop))
	}
	if err := scanner.Err(); err != nil {
		return &Error{Kind: ErrKindIOOpen, Cause: err}
	}
	if len(lines) == 0 {
		lines = []*Line{NewLine()}
	}

	b.Lines = lines
	b.FileName = path
	b.history = NewHistory()
	b.lastSaveHistory = 0
	b.Modified = false
	b.LineNo, b.ColNo = 1, 1
	b.recomputeSyntaxAll()
	return nil
}

// Save writes the buffer to path (or the buffer's FileName if path is
// empty), one line per text line plus a trailing newline.
func (b *Buffer) Save(path string) error {
	if b.Readonly {
		return &Error{Kind: ErrKindReadonly, Message: "buffer is readonly"}
	}
	if path == "" {
		path = b.FileName
	}
	if path == "" {
		return errf(ErrKindIOWrite, "no file name")
	}

	f, err := os.Create(path)
	if err != nil {
		return &Error{Kind: ErrKindIOWrite, Cause: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range b.Lines {
		if _, err := w.WriteString(l.String()); err != nil {
			return &Error{Kind: ErrKindIOWrite, Cause: err}
		}
		if _, err := w.WriteString("\n"); err != nil {
			return &Error{Kind: ErrKindIOWrite, Cause: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &Error{Kind: ErrKindIOWrite, Cause: err}
	}

	b.FileName = path
	b.MarkSaved()
	return nil
}

// --- low-level mutation primitives (record history, retrigger syntax) ---

func (b *Buffer) indentUnit() string {
	if b.Tabs {
		return "\t"
	}
	n := b.TabStop
	if n <= 0 {
		n = 8
	}
	return strings.Repeat(" ", n)
}

// insertCellAt inserts cell at (lineIdx 0-based, col 0-based), recording
// history and cascading syntax, unless loading.
func (b *Buffer) insertCellAt(lineIdx, col int, cp rune) {
	line := b.Lines[lineIdx]
	line.InsertCell(Cell{Codepoint: cp}, col)
	recomputeTabWidths(line.Cells[:line.Actual], b.TabStop)
	line.RevStatus = RevModified
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HInsert, LineIdx: lineIdx, ColIdx: col, NewCP: cp})
		b.touchModified()
		b.recomputeSyntax(lineIdx)
	}
}

// deleteCellAt removes the cell at (lineIdx, col), returning it.
func (b *Buffer) deleteCellAt(lineIdx, col int) rune {
	line := b.Lines[lineIdx]
	old := line.Cells[col].Codepoint
	line.DeleteCell(col)
	recomputeTabWidths(line.Cells[:line.Actual], b.TabStop)
	line.RevStatus = RevModified
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HDelete, LineIdx: lineIdx, ColIdx: col, OldCP: old})
		b.touchModified()
		b.recomputeSyntax(lineIdx)
	}
	return old
}

// replaceCellAt overwrites the cell at (lineIdx, col) with cp.
func (b *Buffer) replaceCellAt(lineIdx, col int, cp rune) {
	line := b.Lines[lineIdx]
	old := line.ReplaceCell(Cell{Codepoint: cp}, col).Codepoint
	recomputeTabWidths(line.Cells[:line.Actual], b.TabStop)
	line.RevStatus = RevModified
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HReplace, LineIdx: lineIdx, ColIdx: col, NewCP: cp, OldCP: old})
		b.touchModified()
		b.recomputeSyntax(lineIdx)
	}
}

// addLineAt inserts a new (possibly pre-populated) line at 0-based idx.
func (b *Buffer) addLineAt(idx int, l *Line) {
	b.Lines = append(b.Lines, nil)
	copy(b.Lines[idx+1:], b.Lines[idx:])
	b.Lines[idx] = l
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HAddLine, LineIdx: idx, NewLine: l.Copy()})
		b.touchModified()
		b.recomputeSyntax(idx)
	}
}

// removeLineAt deletes the line at 0-based idx (the buffer must keep at
// least one line; callers are responsible for that): shift the tail down
// by one, clear the last slot.
func (b *Buffer) removeLineAt(idx int) *Line {
	removed := b.Lines[idx]
	copy(b.Lines[idx:], b.Lines[idx+1:])
	b.Lines = b.Lines[:len(b.Lines)-1]
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HRemoveLine, LineIdx: idx, OldLine: removed.Copy()})
		b.touchModified()
		if idx < len(b.Lines) {
			b.recomputeSyntax(idx)
		}
	}
	return removed
}

// replaceLineAt swaps the line at idx wholesale, recording both snapshots.
func (b *Buffer) replaceLineAt(idx int, newLine *Line) {
	old := b.Lines[idx]
	b.Lines[idx] = newLine
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HReplaceLine, LineIdx: idx, OldLine: old.Copy(), NewLine: newLine.Copy()})
		b.touchModified()
		b.recomputeSyntax(idx)
	}
}

// splitLineAt divides the line at idx at column col into two lines. Both
// halves get their tab widths recomputed: every cell of the right half
// lands at a new column, and a trailing tab on the left half may now span
// differently.
func (b *Buffer) splitLineAt(idx, col int) {
	left, right := b.Lines[idx].Split(col)
	right.IState = left.IState
	recomputeTabWidths(left.Cells[:left.Actual], b.TabStop)
	recomputeTabWidths(right.Cells[:right.Actual], b.TabStop)
	b.Lines = append(b.Lines, nil)
	copy(b.Lines[idx+2:], b.Lines[idx+1:])
	b.Lines[idx] = left
	b.Lines[idx+1] = right
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HSplitLine, LineIdx: idx, SplitCol: col})
		b.touchModified()
		b.recomputeSyntax(idx)
	}
}

// mergeLinesAt merges the line at idx+1 into idx, shifting the lines
// from idx+2 down by one.
func (b *Buffer) mergeLinesAt(idx int) {
	splitCol := b.Lines[idx].Actual
	b.Lines[idx].Merge(b.Lines[idx+1])
	recomputeTabWidths(b.Lines[idx].Cells[:b.Lines[idx].Actual], b.TabStop)
	copy(b.Lines[idx+1:], b.Lines[idx+2:])
	b.Lines = b.Lines[:len(b.Lines)-1]
	if !b.loading {
		b.history.Append(HistoryRecord{Kind: HMergeLines, LineIdx: idx, SplitCol: splitCol})
		b.touchModified()
		b.recomputeSyntax(idx)
	}
}

// --- cursor-level editing operations ---

// clampCursor keeps the cursor on a valid line and column for the
// current mode.
func (b *Buffer) clampCursor() {
	if b.LineNo < 1 {
		b.LineNo = 1
	}
	if b.LineNo > len(b.Lines) {
		b.LineNo = len(b.Lines)
	}
	line := b.CurrentLine()
	maxCol := line.Actual
	if b.Mode == ModeInsert {
		maxCol++
	} else if maxCol < 1 {
		maxCol = 1
	}
	if b.ColNo < 1 {
		b.ColNo = 1
	}
	if b.ColNo > maxCol {
		b.ColNo = maxCol
	}
}

// InsertChar inserts r at the cursor and advances the cursor past it.
func (b *Buffer) InsertChar(r rune) {
	if b.Readonly {
		return
	}
	if r == '\n' {
		b.InsertLineFeed()
		return
	}
	b.insertCellAt(b.LineNo-1, b.ColNo-1, r)
	b.ColNo++
}

// DeleteAtCursor implements backspace: deletes the cell before the cursor,
// merging with the previous line when at column 1.
func (b *Buffer) DeleteAtCursor() {
	if b.Readonly {
		return
	}
	if b.ColNo > 1 {
		b.deleteCellAt(b.LineNo-1, b.ColNo-2)
		b.ColNo--
		return
	}
	if b.LineNo == 1 {
		return
	}
	prevLen := b.Lines[b.LineNo-2].Actual
	b.mergeLinesAt(b.LineNo - 2)
	b.LineNo--
	b.ColNo = prevLen + 1
}

// ReplaceChar overwrites the cell under the cursor, leaving the rest of the
// model intact (Normal-mode `r<x>`).
func (b *Buffer) ReplaceChar(r rune) {
	if b.Readonly {
		return
	}
	line := b.CurrentLine()
	if b.ColNo < 1 || b.ColNo > line.Actual {
		return
	}
	b.replaceCellAt(b.LineNo-1, b.ColNo-1, r)
}

// inBlockComment reports whether line's istate indicates "inside a
// multi-line comment" for auto-indent purposes. Lexers are expected to use
// positive state values for open constructs; callers without a richer
// contract treat any state > 0 matching ClassComment-painted trailing cells
// as a comment continuation.
func inBlockComment(l *Line) bool {
	if l.Actual == 0 {
		return false
	}
	return l.Cells[l.Actual-1].Flags.Class() == ClassComment && l.IState > 0
}

func leadingWhitespace(l *Line) string {
	var sb strings.Builder
	for i := 0; i < l.Actual; i++ {
		c := l.Cells[i].Codepoint
		if c != ' ' && c != '\t' {
			break
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

func trimmedEndsWith(l *Line, suffixes ...byte) bool {
	i := l.Actual - 1
	for i >= 0 && (l.Cells[i].Codepoint == ' ' || l.Cells[i].Codepoint == '\t') {
		i--
	}
	if i < 0 {
		return false
	}
	last := l.Cells[i].Codepoint
	for _, s := range suffixes {
		if rune(s) == last {
			return true
		}
	}
	return false
}

func isAllWhitespace(l *Line) bool {
	for i := 0; i < l.Actual; i++ {
		c := l.Cells[i].Codepoint
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// InsertLineFeed splits the current line at the cursor and auto-indents
// the new line.
func (b *Buffer) InsertLineFeed() {
	if b.Readonly {
		return
	}
	idx := b.LineNo - 1
	prev := b.Lines[idx]
	wasWhitespaceOnly := isAllWhitespace(prev)

	b.splitLineAt(idx, b.ColNo-1)

	if b.Indent {
		var prefix string
		switch {
		case inBlockComment(prev):
			lead := leadingWhitespace(prev)
			switch {
			case strings.HasPrefix(strings.TrimLeft(prev.String(), " \t"), "/*"):
				prefix = lead + " * "
			case strings.HasPrefix(strings.TrimLeft(prev.String(), " \t"), "*"):
				prefix = lead + " * "
			default:
				prefix = lead
			}
		default:
			prefix = leadingWhitespace(prev)
			if trimmedEndsWith(prev, '{', ':') {
				prefix += b.indentUnit()
			}
		}
		for i, r := range []rune(prefix) {
			b.insertCellAt(idx+1, i, r)
		}
		if wasWhitespaceOnly {
			// rule 4: clear the line we split from if it was pure
			// whitespace, to avoid leaving trailing whitespace behind.
			for prev.Actual > 0 {
				b.deleteCellAt(idx, 0)
			}
		}
		b.LineNo = idx + 2
		b.ColNo = len([]rune(prefix)) + 1
		return
	}

	b.LineNo = idx + 2
	b.ColNo = 1
}

// WordLeft moves the cursor to the start of the previous word (vi `b`):
// skip whitespace backward, then skip one class of word characters.
func (b *Buffer) WordLeft() {
	line, col := b.CurrentLine(), b.ColNo-1
	ln := b.LineNo
	for {
		for col == 0 {
			if ln == 1 {
				b.LineNo, b.ColNo = 1, 1
				return
			}
			ln--
			line = b.Lines[ln-1]
			col = line.Actual
		}
		col--
		if col >= 0 && col < line.Actual && classify(line.Cells[col].Codepoint) != classSpace {
			break
		}
		if col < 0 {
			col = 0
			break
		}
	}
	if col < line.Actual {
		cls := classify(line.Cells[col].Codepoint)
		for col > 0 && classify(line.Cells[col-1].Codepoint) == cls {
			col--
		}
	}
	b.LineNo, b.ColNo = ln, col+1
}

// WordRight moves the cursor to the start of the next word (vi `w`).
func (b *Buffer) WordRight() {
	line, col := b.CurrentLine(), b.ColNo-1
	ln := b.LineNo
	if col < line.Actual {
		cls := classify(line.Cells[col].Codepoint)
		for col < line.Actual && classify(line.Cells[col].Codepoint) == cls {
			col++
		}
	}
	for {
		if col >= line.Actual {
			if ln == len(b.Lines) {
				b.LineNo, b.ColNo = ln, line.Actual+1
				return
			}
			ln++
			line = b.Lines[ln-1]
			col = 0
			if line.Actual == 0 {
				break
			}
			continue
		}
		if classify(line.Cells[col].Codepoint) != classSpace {
			break
		}
		col++
	}
	b.LineNo, b.ColNo = ln, col+1
}

// WordEnd moves the cursor to the last character of the current or next
// word (vi `e`).
func (b *Buffer) WordEnd() {
	line, col := b.CurrentLine(), b.ColNo-1
	ln := b.LineNo
	col++
	for {
		if col >= line.Actual {
			if ln == len(b.Lines) {
				b.LineNo, b.ColNo = ln, max(1, line.Actual)
				return
			}
			ln++
			line = b.Lines[ln-1]
			col = 0
			continue
		}
		if classify(line.Cells[col].Codepoint) != classSpace {
			break
		}
		col++
	}
	cls := classify(line.Cells[col].Codepoint)
	for col+1 < line.Actual && classify(line.Cells[col+1].Codepoint) == cls {
		col++
	}
	b.LineNo, b.ColNo = ln, col+1
}

// FirstNonBlank moves the cursor to the first non-whitespace column (vi
// `^`), or column 1 on a blank line.
func (b *Buffer) FirstNonBlank() {
	line := b.CurrentLine()
	for i := 0; i < line.Actual; i++ {
		c := line.Cells[i].Codepoint
		if c != ' ' && c != '\t' {
			b.ColNo = i + 1
			return
		}
	}
	b.ColNo = 1
}

// ParagraphForward moves to the next empty line (vi `}`), or the last line.
func (b *Buffer) ParagraphForward() {
	for ln := b.LineNo + 1; ln <= len(b.Lines); ln++ {
		if b.Lines[ln-1].Actual == 0 {
			b.LineNo, b.ColNo = ln, 1
			return
		}
	}
	b.LineNo, b.ColNo = len(b.Lines), 1
}

// ParagraphBackward moves to the previous empty line (vi `{`), or line 1.
func (b *Buffer) ParagraphBackward() {
	for ln := b.LineNo - 1; ln >= 1; ln-- {
		if b.Lines[ln-1].Actual == 0 {
			b.LineNo, b.ColNo = ln, 1
			return
		}
	}
	b.LineNo, b.ColNo = 1, 1
}

// OpenLineAbove inserts an empty line above the cursor, auto-indented to
// match the current line (vi `O`), leaving the cursor on it.
func (b *Buffer) OpenLineAbove() {
	if b.Readonly {
		return
	}
	idx := b.LineNo - 1
	prefix := ""
	if b.Indent {
		prefix = leadingWhitespace(b.Lines[idx])
	}
	b.addLineAt(idx, NewLine())
	for i, r := range []rune(prefix) {
		b.insertCellAt(idx, i, r)
	}
	b.LineNo = idx + 1
	b.ColNo = len([]rune(prefix)) + 1
}

// IndentLines prepends one indent unit to each of lines [first,last]
// (1-based, inclusive) — LineSel's Tab.
func (b *Buffer) IndentLines(first, last int) {
	if b.Readonly {
		return
	}
	if first > last {
		first, last = last, first
	}
	unit := []rune(b.indentUnit())
	b.history.Break()
	for ln := first; ln <= last; ln++ {
		if b.Lines[ln-1].Actual == 0 {
			continue
		}
		for i, r := range unit {
			b.insertCellAt(ln-1, i, r)
		}
	}
	b.history.Break()
}

// OutdentLines strips one indent unit (a leading tab, or up to tabstop
// spaces) from each of lines [first,last] — LineSel's Shift-Tab.
func (b *Buffer) OutdentLines(first, last int) {
	if b.Readonly {
		return
	}
	if first > last {
		first, last = last, first
	}
	b.history.Break()
	for ln := first; ln <= last; ln++ {
		line := b.Lines[ln-1]
		if line.Actual == 0 {
			continue
		}
		if line.Cells[0].Codepoint == '\t' {
			b.deleteCellAt(ln-1, 0)
			continue
		}
		n := b.TabStop
		if n <= 0 {
			n = 8
		}
		for i := 0; i < n && line.Actual > 0 && line.Cells[0].Codepoint == ' '; i++ {
			b.deleteCellAt(ln-1, 0)
		}
	}
	b.history.Break()
}

// GotoLine moves the cursor to 1-based line n, column 1, clamping to range.
func (b *Buffer) GotoLine(n int) {
	if n < 1 {
		n = 1
	}
	if n > len(b.Lines) {
		n = len(b.Lines)
	}
	b.LineNo = n
	b.ColNo = 1
	b.PreferredCol = 1
}

// --- undo/redo ---

// Undo reverses the most recent undo-group. Returns ErrHistoryExhausted if
// already at the oldest state.
func (b *Buffer) Undo() error {
	err := b.history.Undo(b.applyInverse)
	b.touchModified()
	b.clampCursor()
	return err
}

// Redo re-applies the next undo-group. Returns ErrHistoryExhausted if
// already at the newest state.
func (b *Buffer) Redo() error {
	err := b.history.Redo(b.applyForward)
	b.touchModified()
	b.clampCursor()
	return err
}

func (b *Buffer) applyInverse(rec *HistoryRecord) error {
	switch rec.Kind {
	case HInsert:
		b.Lines[rec.LineIdx].DeleteCell(rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+1
	case HDelete:
		b.Lines[rec.LineIdx].InsertCell(Cell{Codepoint: rec.OldCP}, rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+2
	case HReplace:
		b.Lines[rec.LineIdx].ReplaceCell(Cell{Codepoint: rec.OldCP}, rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+1
	case HAddLine:
		b.Lines = append(b.Lines[:rec.LineIdx], b.Lines[rec.LineIdx+1:]...)
		b.LineNo = rec.LineIdx + 1
		if b.LineNo > len(b.Lines) {
			b.LineNo = len(b.Lines)
		}
		b.ColNo = 1
	case HRemoveLine:
		restored := make([]*Line, len(b.Lines)+1)
		copy(restored, b.Lines[:rec.LineIdx])
		restored[rec.LineIdx] = rec.OldLine.Copy()
		copy(restored[rec.LineIdx+1:], b.Lines[rec.LineIdx:])
		b.Lines = restored
		b.LineNo, b.ColNo = rec.LineIdx+1, 1
	case HReplaceLine:
		b.Lines[rec.LineIdx] = rec.OldLine.Copy()
		b.LineNo, b.ColNo = rec.LineIdx+1, 1
	case HSplitLine:
		b.Lines[rec.LineIdx].Merge(b.Lines[rec.LineIdx+1])
		recomputeTabWidths(b.Lines[rec.LineIdx].Cells[:b.Lines[rec.LineIdx].Actual], b.TabStop)
		b.Lines = append(b.Lines[:rec.LineIdx+1], b.Lines[rec.LineIdx+2:]...)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.SplitCol+1
	case HMergeLines:
		left, right := b.Lines[rec.LineIdx].Split(rec.SplitCol)
		recomputeTabWidths(left.Cells[:left.Actual], b.TabStop)
		recomputeTabWidths(right.Cells[:right.Actual], b.TabStop)
		b.Lines = append(b.Lines, nil)
		copy(b.Lines[rec.LineIdx+2:], b.Lines[rec.LineIdx+1:])
		b.Lines[rec.LineIdx] = left
		b.Lines[rec.LineIdx+1] = right
		b.LineNo, b.ColNo = rec.LineIdx+2, 1
	}
	if rec.LineIdx >= 0 && rec.LineIdx < len(b.Lines) {
		l := b.Lines[rec.LineIdx]
		recomputeTabWidths(l.Cells[:l.Actual], b.TabStop)
		b.recomputeSyntax(rec.LineIdx)
	}
	return nil
}

func (b *Buffer) applyForward(rec *HistoryRecord) error {
	switch rec.Kind {
	case HInsert:
		b.Lines[rec.LineIdx].InsertCell(Cell{Codepoint: rec.NewCP}, rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+2
	case HDelete:
		b.Lines[rec.LineIdx].DeleteCell(rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+1
	case HReplace:
		b.Lines[rec.LineIdx].ReplaceCell(Cell{Codepoint: rec.NewCP}, rec.ColIdx)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.ColIdx+1
	case HAddLine:
		restored := make([]*Line, len(b.Lines)+1)
		copy(restored, b.Lines[:rec.LineIdx])
		restored[rec.LineIdx] = rec.NewLine.Copy()
		copy(restored[rec.LineIdx+1:], b.Lines[rec.LineIdx:])
		b.Lines = restored
		b.LineNo, b.ColNo = rec.LineIdx+1, 1
	case HRemoveLine:
		b.Lines = append(b.Lines[:rec.LineIdx], b.Lines[rec.LineIdx+1:]...)
		b.LineNo = rec.LineIdx + 1
		if b.LineNo > len(b.Lines) {
			b.LineNo = len(b.Lines)
		}
		b.ColNo = 1
	case HReplaceLine:
		b.Lines[rec.LineIdx] = rec.NewLine.Copy()
		b.LineNo, b.ColNo = rec.LineIdx+1, 1
	case HSplitLine:
		left, right := b.Lines[rec.LineIdx].Split(rec.SplitCol)
		recomputeTabWidths(left.Cells[:left.Actual], b.TabStop)
		recomputeTabWidths(right.Cells[:right.Actual], b.TabStop)
		b.Lines = append(b.Lines, nil)
		copy(b.Lines[rec.LineIdx+2:], b.Lines[rec.LineIdx+1:])
		b.Lines[rec.LineIdx] = left
		b.Lines[rec.LineIdx+1] = right
		b.LineNo, b.ColNo = rec.LineIdx+2, 1
	case HMergeLines:
		b.Lines[rec.LineIdx].Merge(b.Lines[rec.LineIdx+1])
		recomputeTabWidths(b.Lines[rec.LineIdx].Cells[:b.Lines[rec.LineIdx].Actual], b.TabStop)
		b.Lines = append(b.Lines[:rec.LineIdx+1], b.Lines[rec.LineIdx+2:]...)
		b.LineNo, b.ColNo = rec.LineIdx+1, rec.SplitCol+1
	}
	if rec.LineIdx >= 0 && rec.LineIdx < len(b.Lines) {
		l := b.Lines[rec.LineIdx]
		recomputeTabWidths(l.Cells[:l.Actual], b.TabStop)
		b.recomputeSyntax(rec.LineIdx)
	}
	return nil
}
