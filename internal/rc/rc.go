// Package rc parses bimrc-style configuration files: one "key value" (or
// "key=value") setting per line, '#' comments, blank lines ignored. This is
// deliberately a stdlib-only scanner (bufio.Scanner over a simple grammar)
// rather than a third-party config library — see DESIGN.md for why no
// packaged format (YAML/TOML/INI-with-sections) fits a flat key=value list
// this small.
package rc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/vexedit/vex"
)

// Setting is one parsed directive.
type Setting struct {
	Name  string
	Value string
}

// Parse reads r line by line and returns the settings it finds, skipping
// blank lines and lines whose first non-space byte is '#'.
func Parse(r io.Reader) ([]Setting, error) {
	var out []Setting
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, _ := strings.Cut(line, "=")
		if !strings.Contains(line, "=") {
			name, value, _ = strings.Cut(line, " ")
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		out = append(out, Setting{Name: name, Value: value})
	}
	return out, scanner.Err()
}

// Apply parses r as a bimrc and applies every setting it recognizes to buf
// and/or view. Keys that belong to
// the host program rather than a Buffer/Viewport pair (theme, git,
// history) are returned unapplied for the caller to handle; a malformed
// value stops at the first error so a broken bimrc is reported once at
// startup.
func Apply(r io.Reader, buf *vex.Buffer, view *vex.Viewport) ([]Setting, error) {
	settings, err := Parse(r)
	if err != nil {
		return nil, err
	}
	var leftover []Setting
	for _, s := range settings {
		applied, err := applyOne(buf, view, s)
		if err != nil {
			return nil, err
		}
		if !applied {
			leftover = append(leftover, s)
		}
	}
	return leftover, nil
}

func applyOne(buf *vex.Buffer, view *vex.Viewport, s Setting) (bool, error) {
	if view != nil {
		switch s.Name {
		case "padding":
			n, err := intValue(s)
			if err != nil {
				return false, err
			}
			view.Padding = n
			return true, nil
		case "splitpercent":
			n, err := intValue(s)
			if err != nil || n < 1 || n > 99 {
				return false, vex.NewInvalidArgumentError(s.Name, s.Value)
			}
			view.SplitPercent = n
			return true, nil
		case "scrollamount":
			n, err := intValue(s)
			if err != nil {
				return false, err
			}
			view.ScrollAmount = n
			return true, nil
		case "shiftscrolling":
			v, err := boolValue(s)
			if err != nil {
				return false, err
			}
			view.ShiftScrolling = v
			return true, nil
		case "hlcurrent":
			v, err := boolValue(s)
			if err != nil {
				return false, err
			}
			view.HighlightCurrentLine = v
			return true, nil
		case "colorgutter":
			v, err := boolValue(s)
			if err != nil {
				return false, err
			}
			view.ColorGutter = v
			return true, nil
		case "linenumbers", "number", "nu":
			v, err := boolValue(s)
			if err != nil {
				return false, err
			}
			view.ShowLineNumbers = v
			return true, nil
		case "relativenumber", "rnu":
			v, err := boolValue(s)
			if err != nil {
				return false, err
			}
			view.RelativeNumber = v
			return true, nil
		}
	}
	switch s.Name {
	case "hlparen":
		v, err := boolValue(s)
		if err != nil {
			return false, err
		}
		buf.HighlightingParen = v
		return true, nil
	case "smartcase":
		v, err := boolValue(s)
		if err != nil {
			return false, err
		}
		buf.SmartCase = v
		return true, nil
	case "theme", "git", "history":
		return false, nil // host-level; returned to the caller
	}
	return true, vex.ApplySetting(buf, s.Name, s.Value)
}

func boolValue(s Setting) (bool, error) {
	switch s.Value {
	case "", "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	default:
		return false, vex.NewInvalidArgumentError(s.Name, s.Value)
	}
}

func intValue(s Setting) (int, error) {
	n, err := strconv.Atoi(s.Value)
	if err != nil || n < 0 {
		return 0, vex.NewInvalidArgumentError(s.Name, s.Value)
	}
	return n, nil
}
