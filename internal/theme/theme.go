// Package theme loads vex.Theme values from YAML, plus ships a couple of
// built-in themes as embedded assets.
package theme

import (
	"embed"
	"image/color"

	"gopkg.in/yaml.v3"

	"github.com/vexedit/vex"
)

//go:embed builtin/*.yaml
var builtin embed.FS

// yamlColor unmarshals a "#rrggbb" string into color.RGBA. Any other form
// (including "r,g,b") yields black.
type yamlColor color.RGBA

func (c *yamlColor) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	r, g, b := parseHexColor(s)
	*c = yamlColor(color.RGBA{R: r, G: g, B: b, A: 255})
	return nil
}

func parseHexColor(s string) (r, g, b uint8) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	hex := func(c byte) uint8 {
		switch {
		case c >= '0' && c <= '9':
			return c - '0'
		case c >= 'a' && c <= 'f':
			return c - 'a' + 10
		case c >= 'A' && c <= 'F':
			return c - 'A' + 10
		}
		return 0
	}
	pair := func(hi, lo byte) uint8 { return hex(hi)<<4 | hex(lo) }
	return pair(s[1], s[2]), pair(s[3], s[4]), pair(s[5], s[6])
}

// doc mirrors vex.Theme's shape for YAML unmarshaling; vex.Theme itself
// stays free of struct tags since its color.RGBA fields aren't
// YAML-shaped 1:1 (the class map is keyed by an integer enum, not a
// string).
type doc struct {
	Name        string               `yaml:"name"`
	Foreground  yamlColor            `yaml:"foreground"`
	Background  yamlColor            `yaml:"background"`
	Select      yamlColor            `yaml:"select"`
	Search      yamlColor            `yaml:"search"`
	ParenMatch  yamlColor            `yaml:"paren_match"`
	GutterFg    yamlColor            `yaml:"gutter_fg"`
	GutterBg    yamlColor            `yaml:"gutter_bg"`
	StatusFg    yamlColor            `yaml:"status_fg"`
	StatusBg    yamlColor            `yaml:"status_bg"`
	ErrorBg     yamlColor            `yaml:"error_bg"`
	NoticeBg    yamlColor            `yaml:"notice_bg"`
	CurrentLine yamlColor            `yaml:"current_line"`
	Classes     map[string]yamlColor `yaml:"classes"`
}

var classNames = map[string]vex.SyntaxClass{
	"keyword":    vex.ClassKeyword,
	"string":     vex.ClassString,
	"string2":    vex.ClassString2,
	"comment":    vex.ClassComment,
	"type":       vex.ClassType,
	"pragma":     vex.ClassPragma,
	"numeral":    vex.ClassNumeral,
	"diff_plus":  vex.ClassDiffPlus,
	"diff_minus": vex.ClassDiffMinus,
	"notice":     vex.ClassNotice,
	"bold":       vex.ClassBold,
	"link":       vex.ClassLink,
	"escape":     vex.ClassEscape,
}

// Parse unmarshals one theme document from YAML bytes.
func Parse(data []byte) (*vex.Theme, error) {
	var d doc
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	t := &vex.Theme{
		Name:        d.Name,
		Foreground:  color.RGBA(d.Foreground),
		Background:  color.RGBA(d.Background),
		Select:      color.RGBA(d.Select),
		Search:      color.RGBA(d.Search),
		ParenMatch:  color.RGBA(d.ParenMatch),
		GutterFg:    color.RGBA(d.GutterFg),
		GutterBg:    color.RGBA(d.GutterBg),
		StatusFg:    color.RGBA(d.StatusFg),
		StatusBg:    color.RGBA(d.StatusBg),
		ErrorBg:     color.RGBA(d.ErrorBg),
		NoticeBg:    color.RGBA(d.NoticeBg),
		CurrentLine: color.RGBA(d.CurrentLine),
		Classes:     make(map[vex.SyntaxClass]color.RGBA, len(d.Classes)),
	}
	for name, c := range d.Classes {
		if class, ok := classNames[name]; ok {
			t.Classes[class] = color.RGBA(c)
		}
	}
	return t, nil
}

// Load reads a named built-in theme ("dark", "light") from the embedded
// asset set.
func Load(name string) (*vex.Theme, error) {
	data, err := builtin.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Names lists the built-in themes available via Load.
func Names() []string { return []string{"dark", "light"} }
