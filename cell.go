package vex

// SyntaxClass identifies the highlight class painted onto a cell. The set is
// fixed: a lexer may only ever produce one of these, never invent a new one.
type SyntaxClass uint8

const (
	ClassNone SyntaxClass = iota
	ClassKeyword
	ClassString
	ClassComment
	ClassType
	ClassPragma
	ClassNumeral
	ClassString2
	ClassDiffPlus
	ClassDiffMinus
	ClassNotice
	ClassBold
	ClassLink
	ClassEscape
)

// CellFlags packs the low nibble (syntax class, 0-13) with two transient
// overlay bits. Overlays are never persisted: they are recomputed from mode,
// selection, and search state after every mutation.
type CellFlags uint8

const (
	flagClassMask CellFlags = 0x0F
	FlagSelect    CellFlags = 1 << 5
	FlagSearch    CellFlags = 1 << 6
	FlagParen     CellFlags = 1 << 7
)

// Class extracts the syntax class painted onto this cell.
func (f CellFlags) Class() SyntaxClass { return SyntaxClass(f & flagClassMask) }

// WithClass returns f with its class nibble replaced, overlays untouched.
func (f CellFlags) WithClass(c SyntaxClass) CellFlags {
	return (f &^ flagClassMask) | CellFlags(c)&flagClassMask
}

// Cell is one displayed codepoint: its rune, its rendered column width, and
// a flag byte holding a syntax class plus the SELECT/SEARCH overlays.
type Cell struct {
	Codepoint rune
	Width     uint8
	Flags     CellFlags
}

// NewCell builds a cell for r with width computed at the given column
// (tabs need their column to size correctly) and tabstop.
func NewCell(r rune, col, tabstop int) Cell {
	return Cell{Codepoint: r, Width: uint8(widthOf(r, col, tabstop))}
}

// HasFlag reports whether every bit in mask is set.
func (c Cell) HasFlag(mask CellFlags) bool { return c.Flags&mask == mask }

// SetFlag enables the bits in mask without touching others.
func (c *Cell) SetFlag(mask CellFlags) { c.Flags |= mask }

// ClearFlag disables the bits in mask without touching others.
func (c *Cell) ClearFlag(mask CellFlags) { c.Flags &^= mask }

// Copy returns a value copy; Cell has no pointer fields, so this is just
// named for symmetry with Line.Copy, which does need to deep-copy.
func (c Cell) Copy() Cell { return c }
