package vex

import (
	"golang.org/x/text/cases"
)

var caseFolder = cases.Fold()

// smartCaseFolds reports whether a search pattern should be matched
// case-insensitively: true when the pattern contains no uppercase letters,
// false the moment it contains one. Folding uses
// golang.org/x/text/cases rather than strings.ToLower so the "does this
// pattern contain an uppercase letter" check is Unicode-correct beyond
// ASCII.
func smartCaseFolds(pattern string) bool {
	return pattern == caseFolder.String(pattern)
}

// SetSearch installs pattern as the active search term and repaints the
// match overlay across the buffer. An empty pattern clears the overlay.
func (b *Buffer) SetSearch(pattern []rune) {
	b.Search = pattern
	b.SearchSet = len(pattern) > 0
	b.recomputeSyntaxAll()
}

// searchIn scans line's runes for pattern starting at fromCol (0-based,
// inclusive), honoring the smart-case fold, and returns the 0-based column
// of the first match at or after fromCol, or -1.
func searchIn(line []rune, pattern []rune, fromCol int, smartCase bool) int {
	if len(pattern) == 0 || fromCol > len(line) {
		return -1
	}
	hay, needle := line, pattern
	if smartCase && smartCaseFolds(string(pattern)) {
		hay = []rune(caseFolder.String(string(line)))
		needle = []rune(caseFolder.String(string(pattern)))
	}
	for i := fromCol; i+len(needle) <= len(hay); i++ {
		match := true
		for j, r := range needle {
			if hay[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// FindFirst searches from the cursor (inclusive) in the given direction
// without wrapping — the semantics of committing an initial `/` or `?`
// . On success it moves the cursor to the match.
func (b *Buffer) FindFirst(backward bool) error {
	if !b.SearchSet {
		return errf(ErrKindPatternNotFound, "no search pattern")
	}
	if backward {
		for li := b.LineNo - 1; li >= 0; li-- {
			runes := b.Lines[li].Runes()
			limit := len(runes)
			if li == b.LineNo-1 {
				// a backward search starts strictly before the cursor
				limit = b.ColNo - 2 + len(b.Search)
			}
			best := -1
			for col := 0; col+len(b.Search) <= limit && col+len(b.Search) <= len(runes); col++ {
				if searchIn(runes, b.Search, col, b.SmartCase) == col {
					best = col
				}
			}
			if best != -1 {
				b.LineNo, b.ColNo = li+1, best+1
				return nil
			}
		}
		return errf(ErrKindPatternNotFound, "pattern not found: %s", string(b.Search))
	}
	for li := b.LineNo - 1; li < len(b.Lines); li++ {
		from := 0
		if li == b.LineNo-1 {
			from = b.ColNo - 1
		}
		col := searchIn(b.Lines[li].Runes(), b.Search, from, b.SmartCase)
		if col != -1 {
			b.LineNo, b.ColNo = li+1, col+1
			return nil
		}
	}
	return errf(ErrKindPatternNotFound, "pattern not found: %s", string(b.Search))
}

// FindNext searches forward from just past the cursor, wrapping around the
// end of the buffer back to the start. On
// success it moves the cursor to the match and returns nil; on failure it
// leaves the cursor untouched and returns ErrKindPatternNotFound.
func (b *Buffer) FindNext() error {
	if !b.SearchSet {
		return errf(ErrKindPatternNotFound, "no search pattern")
	}
	total := len(b.Lines)
	startLine := b.LineNo - 1
	startCol := b.ColNo

	for offset := 0; offset <= total; offset++ {
		li := (startLine + offset) % total
		from := 0
		if offset == 0 {
			from = startCol
		}
		col := searchIn(b.Lines[li].Runes(), b.Search, from, b.SmartCase)
		if col != -1 {
			b.LineNo, b.ColNo = li+1, col+1
			return nil
		}
	}
	return errf(ErrKindPatternNotFound, "pattern not found: %s", string(b.Search))
}

// FindPrev searches backward from just before the cursor, wrapping to the
// end of the buffer.
func (b *Buffer) FindPrev() error {
	if !b.SearchSet {
		return errf(ErrKindPatternNotFound, "no search pattern")
	}
	total := len(b.Lines)
	startLine := b.LineNo - 1
	startCol := b.ColNo - 2

	for offset := 0; offset <= total; offset++ {
		li := ((startLine-offset)%total + total) % total
		runes := b.Lines[li].Runes()
		limit := len(runes)
		if offset == 0 {
			limit = startCol + len(b.Search)
			if limit < 0 {
				continue
			}
		}
		best := -1
		for col := 0; col+len(b.Search) <= limit && col+len(b.Search) <= len(runes); col++ {
			if searchIn(runes, b.Search, col, b.SmartCase) == col {
				best = col
			}
		}
		if best != -1 {
			b.LineNo, b.ColNo = li+1, best+1
			return nil
		}
	}
	return errf(ErrKindPatternNotFound, "pattern not found: %s", string(b.Search))
}

// Substitute implements `:start,end s/pattern/replacement/flags`. global replaces every match per line rather than just the first.
// Returns the number of replacements made; a zero count with a nil error is
// not an error (vi's no-op-is-fine convention), but a
// caller wanting ErrKindPatternNotFound on zero hits should check count.
func (b *Buffer) Substitute(lineStart, lineEnd int, pattern, replacement []rune, global, ignoreCase bool) (int, error) {
	if b.Readonly {
		return 0, &Error{Kind: ErrKindReadonly}
	}
	if lineStart < 1 {
		lineStart = 1
	}
	if lineEnd > len(b.Lines) {
		lineEnd = len(b.Lines)
	}
	if len(pattern) == 0 {
		return 0, errf(ErrKindInvalidArgument, "empty pattern")
	}

	// `i` forces case-folding regardless of smart case; otherwise the
	// buffer's own smart-case setting governs, same as interactive search.
	smartCase := b.SmartCase
	if ignoreCase {
		smartCase = true
		pattern = []rune(caseFolder.String(string(pattern)))
	}

	count := 0
	b.history.Break()
	for ln := lineStart; ln <= lineEnd; ln++ {
		idx := ln - 1
		from := 0
		for {
			runes := b.Lines[idx].Runes()
			col := searchIn(runes, pattern, from, smartCase)
			if col == -1 {
				break
			}
			b.spliceLine(idx, col, len(pattern), replacement)
			count++
			if !global {
				break
			}
			// advance past the replacement so a replacement containing
			// the pattern doesn't re-match forever.
			from = col + len(replacement)
		}
	}
	b.history.Break()
	return count, nil
}

// spliceLine replaces the n cells at col in line idx with replacement,
// recorded as individual cell edits so Undo/Redo can reverse it cell by
// cell, matching the primitives the rest of the engine already has.
func (b *Buffer) spliceLine(idx, col, n int, replacement []rune) {
	for i := 0; i < n; i++ {
		b.deleteCellAt(idx, col)
	}
	for i, r := range replacement {
		b.insertCellAt(idx, col+i, r)
	}
}
