package vex

// YankKind tags what shape of text a Register holds, since paste behaves
// differently for each: a line-yank always pastes as whole
// lines above/below the cursor, a char-yank splices into the current line,
// and a block-yank pastes one slice per line starting at a fixed column.
type YankKind int

const (
	YankChars YankKind = iota
	YankLines
	YankBlock
)

// Register holds the last yanked or deleted text, mirroring the single
// unnamed register vi uses for p/P.
type Register struct {
	Kind  YankKind
	Lines [][]rune // one entry per captured line; YankChars entries are partial
}

// Clear empties the register (`:clearyank`), so a subsequent `p`/`P` is a
// no-op until the next yank or delete.
func (r *Register) Clear() { *r = Register{} }

// YankLines captures whole lines [first,last] (1-based, inclusive) without
// removing them.
func (b *Buffer) YankLines(first, last int) {
	if first > last {
		first, last = last, first
	}
	reg := Register{Kind: YankLines}
	for ln := first; ln <= last; ln++ {
		reg.Lines = append(reg.Lines, append([]rune(nil), b.Lines[ln-1].Runes()...))
	}
	*b.Register = reg
}

// DeleteLines removes lines [first,last] (1-based, inclusive), yanking them
// first, and leaves at least one empty line behind.
func (b *Buffer) DeleteLines(first, last int) {
	if b.Readonly {
		return
	}
	if first > last {
		first, last = last, first
	}
	b.YankLines(first, last)
	b.history.Break()
	for ln := last; ln >= first; ln-- {
		if len(b.Lines) == 1 {
			b.replaceLineAt(0, NewLine())
			break
		}
		b.removeLineAt(ln - 1)
	}
	b.history.Break()
	if first > len(b.Lines) {
		first = len(b.Lines)
	}
	b.LineNo, b.ColNo = first, 1
}

// YankChars captures the run between (lineIdx,startCol) and
// (lineIdx,endCol) on a single line, endCol exclusive.
func (b *Buffer) YankChars(lineIdx, startCol, endCol int) {
	line := b.Lines[lineIdx]
	if endCol > line.Actual {
		endCol = line.Actual
	}
	if startCol < 0 || startCol >= endCol {
		*b.Register = Register{Kind: YankChars, Lines: [][]rune{{}}}
		return
	}
	run := append([]rune(nil), line.Runes()[startCol:endCol]...)
	*b.Register = Register{Kind: YankChars, Lines: [][]rune{run}}
}

// DeleteChars removes the run between (lineIdx,startCol) and
// (lineIdx,endCol) (exclusive), yanking it first.
func (b *Buffer) DeleteChars(lineIdx, startCol, endCol int) {
	if b.Readonly {
		return
	}
	b.YankChars(lineIdx, startCol, endCol)
	if endCol > b.Lines[lineIdx].Actual {
		endCol = b.Lines[lineIdx].Actual
	}
	b.history.Break()
	for c := startCol; c < endCol; c++ {
		b.deleteCellAt(lineIdx, startCol)
	}
	b.history.Break()
	b.LineNo, b.ColNo = lineIdx+1, startCol+1
	b.clampCursor()
}

// YankCharRange captures a multi-line char selection: a partial first line
// from startCol, full middle lines, and a partial last line through endCol
// (both 0-based, endCol exclusive; lines 1-based). first must be <= last;
// a single-line range degenerates to YankChars.
func (b *Buffer) YankCharRange(first, startCol, last, endCol int) {
	if first == last {
		b.YankChars(first-1, startCol, endCol)
		return
	}
	reg := Register{Kind: YankChars}
	firstRunes := b.Lines[first-1].Runes()
	if startCol > len(firstRunes) {
		startCol = len(firstRunes)
	}
	reg.Lines = append(reg.Lines, append([]rune(nil), firstRunes[startCol:]...))
	for ln := first + 1; ln < last; ln++ {
		reg.Lines = append(reg.Lines, append([]rune(nil), b.Lines[ln-1].Runes()...))
	}
	lastRunes := b.Lines[last-1].Runes()
	if endCol > len(lastRunes) {
		endCol = len(lastRunes)
	}
	reg.Lines = append(reg.Lines, append([]rune(nil), lastRunes[:endCol]...))
	*b.Register = reg
}

// DeleteCharRange removes a multi-line char selection, yanking it first:
// the tail of the first line, every middle line, the head of the last
// line, then merges what remains of first and last into one line.
func (b *Buffer) DeleteCharRange(first, startCol, last, endCol int) {
	if b.Readonly {
		return
	}
	if first == last {
		b.DeleteChars(first-1, startCol, endCol)
		return
	}
	b.YankCharRange(first, startCol, last, endCol)
	b.history.Break()

	firstLine := b.Lines[first-1]
	for firstLine.Actual > startCol {
		b.deleteCellAt(first-1, startCol)
	}
	lastLine := b.Lines[last-1]
	if endCol > lastLine.Actual {
		endCol = lastLine.Actual
	}
	for c := 0; c < endCol; c++ {
		b.deleteCellAt(last-1, 0)
	}
	for ln := last - 1; ln > first; ln-- {
		b.removeLineAt(ln - 1)
	}
	b.mergeLinesAt(first - 1)

	b.history.Break()
	b.LineNo, b.ColNo = first, startCol+1
	b.clampCursor()
}

// YankBlock captures a rectangular run [startCol,endCol) from lines
// [first,last], short lines contributing a shorter (possibly empty) slice.
func (b *Buffer) YankBlock(first, last, startCol, endCol int) {
	if first > last {
		first, last = last, first
	}
	if startCol > endCol {
		startCol, endCol = endCol, startCol
	}
	reg := Register{Kind: YankBlock}
	for ln := first; ln <= last; ln++ {
		runes := b.Lines[ln-1].Runes()
		lo, hi := startCol, endCol
		if lo > len(runes) {
			lo = len(runes)
		}
		if hi > len(runes) {
			hi = len(runes)
		}
		reg.Lines = append(reg.Lines, append([]rune(nil), runes[lo:hi]...))
	}
	*b.Register = reg
}

// PasteAfter inserts the register's contents after the cursor (vi `p`),
// moving the cursor onto the pasted text. Behavior branches on
// Register.Kind.
func (b *Buffer) PasteAfter() { b.paste(false) }

// PasteBefore inserts the register's contents before the cursor (vi `P`).
func (b *Buffer) PasteBefore() { b.paste(true) }

func (b *Buffer) paste(before bool) {
	if b.Readonly || len(b.Register.Lines) == 0 {
		return
	}
	b.history.Break()
	defer b.history.Break()

	switch b.Register.Kind {
	case YankLines:
		idx := b.LineNo
		if before {
			idx = b.LineNo - 1
		}
		for i, text := range b.Register.Lines {
			b.addLineAt(idx+i, NewLineFromRunes(append([]rune(nil), text...), b.TabStop))
		}
		b.LineNo = idx + 1
		b.ColNo = 1
	case YankChars:
		b.pasteChars(before)
	case YankBlock:
		col := b.ColNo
		if before {
			col = b.ColNo - 1
		}
		for i, text := range b.Register.Lines {
			ln := b.LineNo - 1 + i
			if ln >= len(b.Lines) {
				break
			}
			line := b.Lines[ln]
			at := col
			if at > line.Actual {
				at = line.Actual
			}
			for j, r := range text {
				b.insertCellAt(ln, at+j, r)
			}
		}
	}
}

// pasteChars splices a char-shaped register at the cursor. A single
// captured run goes inline; a multi-line capture splits the current line
// at the paste point, appends the first run there, inserts the middle
// lines whole, and prepends the last run to the split-off tail — the exact
// inverse of YankCharRange, so a yank/paste round trip restores the
// original slice byte for byte.
func (b *Buffer) pasteChars(before bool) {
	idx := b.LineNo - 1
	line := b.Lines[idx]
	at := b.ColNo
	if before {
		at = b.ColNo - 1
	}
	if at > line.Actual {
		at = line.Actual
	}
	if at < 0 {
		at = 0
	}

	if len(b.Register.Lines) == 1 {
		text := b.Register.Lines[0]
		for i, r := range text {
			b.insertCellAt(idx, at+i, r)
		}
		b.ColNo = at + len(text)
		if b.ColNo < 1 {
			b.ColNo = 1
		}
		return
	}

	b.splitLineAt(idx, at)
	first := b.Register.Lines[0]
	for i, r := range first {
		b.insertCellAt(idx, at+i, r)
	}
	mid := b.Register.Lines[1 : len(b.Register.Lines)-1]
	for i, text := range mid {
		b.addLineAt(idx+1+i, NewLineFromRunes(append([]rune(nil), text...), b.TabStop))
	}
	lastIdx := idx + 1 + len(mid)
	last := b.Register.Lines[len(b.Register.Lines)-1]
	for i, r := range last {
		b.insertCellAt(lastIdx, i, r)
	}
	b.LineNo, b.ColNo = lastIdx+1, len(last)+1
	b.clampCursor()
}
