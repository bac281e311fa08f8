package vex

import "strconv"

// ApplySetting implements the handful of boolean/integer options `:set`
// and internal/rc both drive against a Buffer. Unknown names are reported
// rather than silently ignored, so a typo in a bimrc shows up immediately.
func ApplySetting(b *Buffer, name, value string) error {
	boolVal := func() (bool, error) {
		switch value {
		case "", "1", "true", "on":
			return true, nil
		case "0", "false", "off":
			return false, nil
		default:
			return false, errf(ErrKindInvalidArgument, "expected 0/1 for %s, got %q", name, value)
		}
	}

	switch name {
	case "tabs", "expandtab":
		v, err := boolVal()
		if err != nil {
			return err
		}
		if name == "expandtab" {
			v = !v
		}
		b.Tabs = v
	case "tabstop":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return errf(ErrKindInvalidArgument, "invalid tabstop: %q", value)
		}
		b.TabStop = n
		for _, l := range b.Lines {
			recomputeTabWidths(l.Cells[:l.Actual], b.TabStop)
		}
	case "autoindent", "indent":
		v, err := boolVal()
		if err != nil {
			return err
		}
		b.Indent = v
	case "readonly", "ro":
		v, err := boolVal()
		if err != nil {
			return err
		}
		b.Readonly = v
	case "paren", "showparen", "matchparen":
		v, err := boolVal()
		if err != nil {
			return err
		}
		b.HighlightingParen = v
	default:
		return errf(ErrKindInvalidArgument, "unknown setting: %s", name)
	}
	return nil
}
