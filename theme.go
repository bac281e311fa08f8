package vex

import "image/color"

// Theme maps each SyntaxClass plus the overlay states to a display color,
// keyed by the editor's own semantic classes rather than ANSI slot
// numbers. internal/theme loads and unmarshals these from YAML;
// DefaultTheme is the built-in fallback.
type Theme struct {
	Name string

	Foreground color.RGBA
	Background color.RGBA

	Classes map[SyntaxClass]color.RGBA

	Select     color.RGBA
	Search     color.RGBA
	ParenMatch color.RGBA

	GutterFg    color.RGBA
	GutterBg    color.RGBA
	StatusFg    color.RGBA
	StatusBg    color.RGBA
	ErrorBg     color.RGBA
	NoticeBg    color.RGBA
	CurrentLine color.RGBA // `:hlcurrent`'s background tint for the cursor's row
}

// ColorFor resolves the display color for a cell's painted class, falling
// back to the theme's default Foreground when the class has no explicit
// entry (e.g. ClassNone).
func (t *Theme) ColorFor(c SyntaxClass) color.RGBA {
	if col, ok := t.Classes[c]; ok {
		return col
	}
	return t.Foreground
}

// DefaultTheme is the built-in palette used when no theme file is loaded
// (internal/theme's embedded YAML definitions mirror it).
var DefaultTheme = Theme{
	Name:       "default",
	Foreground: color.RGBA{229, 229, 229, 255},
	Background: color.RGBA{0, 0, 0, 255},
	Classes: map[SyntaxClass]color.RGBA{
		ClassKeyword:   {95, 175, 255, 255},
		ClassString:    {175, 215, 95, 255},
		ClassString2:   {175, 215, 95, 255},
		ClassComment:   {102, 102, 102, 255},
		ClassType:      {215, 175, 95, 255},
		ClassPragma:    {215, 95, 175, 255},
		ClassNumeral:   {215, 135, 255, 255},
		ClassDiffPlus:  {13, 188, 121, 255},
		ClassDiffMinus: {205, 49, 49, 255},
		ClassNotice:    {229, 229, 16, 255},
		ClassBold:      {255, 255, 255, 255},
		ClassLink:      {36, 114, 200, 255},
		ClassEscape:    {188, 63, 188, 255},
	},
	Select:      color.RGBA{70, 70, 110, 255},
	Search:      color.RGBA{120, 100, 20, 255},
	ParenMatch:  color.RGBA{80, 80, 80, 255},
	GutterFg:    color.RGBA{102, 102, 102, 255},
	GutterBg:    color.RGBA{0, 0, 0, 255},
	StatusFg:    color.RGBA{0, 0, 0, 255},
	StatusBg:    color.RGBA{175, 175, 175, 255},
	ErrorBg:     color.RGBA{205, 49, 49, 255},
	NoticeBg:    color.RGBA{36, 114, 200, 255},
	CurrentLine: color.RGBA{30, 30, 30, 255},
}
