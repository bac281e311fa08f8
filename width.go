package vex

import (
	"fmt"

	"github.com/unilibs/uniwidth"
)

// widthOf returns the rendered column width of r, assuming it lands at
// display column col (0-based) under the given tabstop. Control characters,
// the 0x80-0x9F C1 range, and invalid/unknown codepoints use the literal
// literal escapes the renderer paints for them; everything else defers to an
// east-asian-width oracle.
func widthOf(r rune, col, tabstop int) int {
	switch {
	case r == '\t':
		if tabstop <= 0 {
			tabstop = 8
		}
		return tabstop - (col % tabstop)
	case r < 0x20:
		return 2 // ^X
	case r == 0x7F:
		return 2 // ^?
	case r >= 0x80 && r <= 0x9F:
		return 4 // <xx>
	case r == 0xA0:
		return 1 // rendered as "_"
	}

	if !validCodepoint(r) {
		return fallbackWidth(r)
	}

	w := uniwidth.RuneWidth(r)
	if w < 0 {
		return fallbackWidth(r)
	}
	if w == 0 {
		// Combining marks occupy no column of their own, but the cell
		// model still reserves one slot to hold them, so treat as width 1
		// for the per-cell width field (the renderer prints it attached
		// to the previous base character).
		return 1
	}
	return w
}

func validCodepoint(r rune) bool {
	return r >= 0 && r <= 0x10FFFF && !(r >= 0xD800 && r <= 0xDFFF)
}

// fallbackWidth renders an unrenderable/unknown codepoint as "[U+XXXX]"
// (or the 6-hex-digit form for astral codepoints).
func fallbackWidth(r rune) int {
	if r < 0x10000 {
		return len(fmt.Sprintf("[U+%04X]", uint32(r)))
	}
	return len(fmt.Sprintf("[U+%06X]", uint32(r)))
}

// FallbackGlyph renders the literal text the width functions above account
// for, so the renderer can paint exactly what was measured.
func FallbackGlyph(r rune) string {
	switch {
	case r == '\t':
		return "\t"
	case r < 0x20:
		return string([]rune{'^', rune('@' + r)})
	case r == 0x7F:
		return "^?"
	case r >= 0x80 && r <= 0x9F:
		return fmt.Sprintf("<%02x>", r)
	case r == 0xA0:
		return "_"
	}
	if !validCodepoint(r) || uniwidth.RuneWidth(r) < 0 {
		if r < 0x10000 {
			return fmt.Sprintf("[U+%04X]", uint32(r))
		}
		return fmt.Sprintf("[U+%06X]", uint32(r))
	}
	return string(r)
}

// recomputeTabWidths is a strict left-to-right pass: every cell's width
// is re-derived from its current column position, since a tab's width
// depends on where it lands.
func recomputeTabWidths(cells []Cell, tabstop int) {
	col := 0
	for i := range cells {
		cells[i].Width = uint8(widthOf(cells[i].Codepoint, col, tabstop))
		col += int(cells[i].Width)
	}
}
