package vex

// reapplyOverlays paints the presentation-only flags that sit outside the
// syntax cascade: the active selection and the last search match. These run
// after Calculate has set the class bits for lineIdx, since ClearFlags wipes
// both kinds of bits together at the start of recomputeSyntax.
func (b *Buffer) reapplyOverlays(line *Line, lineIdx int) {
	b.paintSelection(line, lineIdx)
	b.paintSearchMatches(line, lineIdx)
}

// paintSelection sets FlagSelect on the cells lineIdx contributes to the
// active visual-mode selection, if any.
func (b *Buffer) paintSelection(line *Line, lineIdx int) {
	if !b.Mode.IsSelection() {
		return
	}
	lo, hi := b.LineNo, b.StartLine
	if lo > hi {
		lo, hi = hi, lo
	}
	ln := lineIdx + 1
	if ln < lo || ln > hi {
		return
	}

	switch b.Mode {
	case ModeLineSel:
		for i := 0; i < line.Actual; i++ {
			line.Cells[i].SetFlag(FlagSelect)
		}
	case ModeCharSel:
		startCol, endCol := 0, line.Actual
		first, last := b.StartLine, b.LineNo
		firstCol, lastCol := b.SelCol, b.ColNo
		if first > last || (first == last && firstCol > lastCol) {
			first, last = last, first
			firstCol, lastCol = lastCol, firstCol
		}
		if ln == first {
			startCol = firstCol - 1
		}
		if ln == last {
			endCol = lastCol
		}
		if startCol < 0 {
			startCol = 0
		}
		if endCol > line.Actual {
			endCol = line.Actual
		}
		for i := startCol; i < endCol; i++ {
			line.Cells[i].SetFlag(FlagSelect)
		}
	case ModeColSel, ModeColInsert:
		lo, hi := b.SelCol, b.ColNo
		if lo > hi {
			lo, hi = hi, lo
		}
		startCol, endCol := lo-1, hi
		if startCol < 0 {
			startCol = 0
		}
		if endCol > line.Actual {
			endCol = line.Actual
		}
		for i := startCol; i < endCol; i++ {
			line.Cells[i].SetFlag(FlagSelect)
		}
	}
}

// paintSearchMatches sets FlagSearch on every occurrence of the active
// search pattern in line, honoring the smart-case fold searchIn applies.
func (b *Buffer) paintSearchMatches(line *Line, lineIdx int) {
	if !b.SearchSet || len(b.Search) == 0 {
		return
	}
	runes := line.Runes()
	n := len(b.Search)
	for from := 0; from+n <= len(runes); {
		col := searchIn(runes, b.Search, from, b.SmartCase)
		if col == -1 {
			return
		}
		for j := 0; j < n && col+j < line.Actual; j++ {
			line.Cells[col+j].SetFlag(FlagSearch)
		}
		from = col + 1
	}
}
