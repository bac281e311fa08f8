package vex

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// CommandResult tells the editor shell what a colon-command wants beyond
// what it already did to the buffer/viewport: quit, open a new buffer
// (tab, split, or a shell-pipe scratch buffer), or some other effect that
// needs access the Buffer/Viewport pair doesn't have.
// ExecuteCommand never touches an *EditorShell directly — it stays testable
// against a bare Buffer — and instead returns these as intents for the
// shell to carry out, the same separation Dispatch already uses for Quit.
type CommandResult struct {
	Quit      bool
	QuitAll   bool
	QuitForce bool
	NewBuffer *Buffer // set for `!cmd` and `tabnew`/`split` with a file argument

	OpenTab bool // `:tabnew` with no file: open a scratch buffer as a new tab
	TabNext bool
	TabPrev bool

	Split   bool // `:split` with no file: duplicate the active buffer into a new pane
	Unsplit bool

	// Suspend asks the shell to release the terminal and stop the process
	// (Ctrl+Z); the tty layer re-acquires on SIGCONT.
	Suspend bool

	SyntaxName string
	SyntaxSet  bool
	ThemeName  string
	ThemeSet   bool
	GitOn      bool
	GitSet     bool
	ClearYank  bool

	// Message is a non-error informational status, e.g. ":history" or ":help" output, or
	// a substitution's "replaced N instances" report.
	Message string
}

// ExecuteCommand parses and runs one Command-mode line, following the
// [range]name[!] [args] colon grammar. The leading ':' itself is
// not part of line — Command mode's cmdline buffer never holds it.
func ExecuteCommand(b *Buffer, view *Viewport, line string) (CommandResult, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return CommandResult{}, nil
	}

	if line[0] == '!' {
		nb, err := shellOut(line[1:])
		return CommandResult{NewBuffer: nb}, err
	}

	rangeStart, rangeEnd, rest := parseRange(b, line)

	// A bare address ("42", "$") is a goto.
	if rest == "" && line != "" {
		b.GotoLine(rangeEnd)
		return CommandResult{}, nil
	}

	name, bang, args := parseNameBangArgs(rest)

	switch name {
	case "e", "edit":
		target := strings.TrimSpace(args)
		if target == "" {
			target = b.FileName
		}
		if target == "" {
			return CommandResult{}, errf(ErrKindParseCommand, "no file name")
		}
		return CommandResult{}, b.Load(target)
	case "w", "write":
		return CommandResult{}, b.Save(strings.TrimSpace(args))
	case "q", "quit":
		if b.Modified && !bang {
			return CommandResult{}, errf(ErrKindParseCommand, "no write since last change (add ! to override)")
		}
		return CommandResult{Quit: true, QuitForce: bang}, nil
	case "qa", "quitall", "qall":
		if b.Modified && !bang {
			return CommandResult{}, errf(ErrKindParseCommand, "no write since last change (add ! to override)")
		}
		return CommandResult{Quit: true, QuitAll: true, QuitForce: bang}, nil
	case "wq", "x":
		if err := b.Save(strings.TrimSpace(args)); err != nil {
			return CommandResult{}, err
		}
		return CommandResult{Quit: true}, nil
	case "s", "substitute":
		return runSubstitute(b, rangeStart, rangeEnd, args)
	case "set":
		return CommandResult{}, runSet(b, view, args)
	case "noh", "nohl", "nohlsearch":
		b.SetSearch(nil)
	case "syntax":
		name := strings.TrimSpace(args)
		if name == "" || name == "none" {
			b.Syntax = nil
			b.recomputeSyntaxAll()
			return CommandResult{}, nil
		}
		return CommandResult{SyntaxName: name, SyntaxSet: true}, nil
	case "theme":
		name := strings.TrimSpace(args)
		if name == "" {
			return CommandResult{}, errf(ErrKindParseCommand, "usage: theme NAME")
		}
		return CommandResult{ThemeName: name, ThemeSet: true}, nil
	case "tabs":
		b.Tabs = true
	case "spaces":
		b.Tabs = false
	case "tabstop":
		return CommandResult{}, ApplySetting(b, "tabstop", strings.TrimSpace(args))
	case "indent":
		b.Indent = true
	case "noindent":
		b.Indent = false
	case "padding":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || n < 0 {
			return CommandResult{}, errf(ErrKindInvalidArgument, "invalid padding: %q", args)
		}
		if view != nil {
			view.Padding = n
		}
	case "hlparen":
		v, err := parseBoolSetting(name, strings.TrimSpace(args))
		if err != nil {
			return CommandResult{}, err
		}
		b.HighlightingParen = v
	case "hlcurrent":
		v, err := parseBoolSetting(name, strings.TrimSpace(args))
		if err != nil {
			return CommandResult{}, err
		}
		if view != nil {
			view.HighlightCurrentLine = v
		}
	case "smartcase":
		v, err := parseBoolSetting(name, strings.TrimSpace(args))
		if err != nil {
			return CommandResult{}, err
		}
		b.SmartCase = v
	case "colorgutter":
		v, err := parseBoolSetting(name, strings.TrimSpace(args))
		if err != nil {
			return CommandResult{}, err
		}
		if view != nil {
			view.ColorGutter = v
		}
	case "splitpercent":
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || n < 1 || n > 99 {
			return CommandResult{}, errf(ErrKindInvalidArgument, "invalid splitpercent: %q", args)
		}
		if view != nil {
			view.SplitPercent = n
		}
	case "git":
		v, err := parseBoolSetting(name, strings.TrimSpace(args))
		if err != nil {
			return CommandResult{}, err
		}
		return CommandResult{GitOn: v, GitSet: true}, nil
	case "clearyank":
		return CommandResult{ClearYank: true}, nil
	case "history":
		return CommandResult{Message: "history: use Up/Down in command mode to recall previous commands"}, nil
	case "recalc":
		b.recomputeSyntaxAll()
	case "help":
		return CommandResult{Message: helpText}, nil
	case "tabnew":
		target := strings.TrimSpace(args)
		if target == "" {
			return CommandResult{OpenTab: true}, nil
		}
		nb := NewBuffer()
		if err := nb.Load(target); err != nil {
			return CommandResult{}, err
		}
		return CommandResult{NewBuffer: nb}, nil
	case "tabn", "tabnext":
		return CommandResult{TabNext: true}, nil
	case "tabp", "tabprevious", "tabprev":
		return CommandResult{TabPrev: true}, nil
	case "split", "sp":
		target := strings.TrimSpace(args)
		if target == "" {
			return CommandResult{Split: true}, nil
		}
		nb := NewBuffer()
		if err := nb.Load(target); err != nil {
			return CommandResult{}, err
		}
		return CommandResult{NewBuffer: nb, Split: true}, nil
	case "unsplit":
		return CommandResult{Unsplit: true}, nil
	default:
		return CommandResult{}, errf(ErrKindParseCommand, "unknown command: %s", name)
	}
	return CommandResult{}, nil
}

// helpText is `:help`'s status-line output.
const helpText = "i/a/o/O insert, v/V/^V select, :w :q :wq write/quit, /pattern search, u/^R undo/redo"

// parseRange recognizes the leading [range] grammar: "%", "N", "N,M",
// ".", "$", and a bare default of the current line when nothing matches.
// It returns the 1-based [start,end] and the remainder of the line.
func parseRange(b *Buffer, line string) (start, end int, rest string) {
	start, end = b.LineNo, b.LineNo
	if strings.HasPrefix(line, "%") {
		return 1, len(b.Lines), strings.TrimPrefix(line, "%")
	}

	i := 0
	parseAddr := func() (int, bool) {
		if i >= len(line) {
			return 0, false
		}
		switch line[i] {
		case '.':
			i++
			return b.LineNo, true
		case '$':
			i++
			return len(b.Lines), true
		}
		j := i
		for j < len(line) && line[j] >= '0' && line[j] <= '9' {
			j++
		}
		if j == i {
			return 0, false
		}
		n, _ := strconv.Atoi(line[i:j])
		i = j
		return n, true
	}

	first, ok := parseAddr()
	if !ok {
		return start, end, line
	}
	start = first
	end = first
	if i < len(line) && line[i] == ',' {
		i++
		second, ok2 := parseAddr()
		if ok2 {
			end = second
		}
	}
	return start, end, line[i:]
}

// parseNameBangArgs splits "name[!] args" into its three parts.
func parseNameBangArgs(rest string) (name string, bang bool, args string) {
	rest = strings.TrimSpace(rest)
	i := 0
	for i < len(rest) && (rest[i] >= 'a' && rest[i] <= 'z' || rest[i] == '%') {
		i++
	}
	name = rest[:i]
	if i < len(rest) && rest[i] == '!' {
		bang = true
		i++
	}
	args = strings.TrimSpace(rest[i:])
	return name, bang, args
}

// runSubstitute parses "pattern/replacement/flags" with the delimiter
// taken from the first character after `s` and applies it over [start,end].
func runSubstitute(b *Buffer, start, end int, args string) (CommandResult, error) {
	if len(args) == 0 {
		return CommandResult{}, errf(ErrKindParseCommand, "expected /pattern/replacement/")
	}
	delim := args[0]
	parts := splitDelimited(args[1:], delim)
	if len(parts) < 2 {
		return CommandResult{}, errf(ErrKindParseCommand, "malformed substitution: %s", args)
	}
	pattern, replacement := parts[0], parts[1]
	flags := ""
	if len(parts) > 2 {
		flags = parts[2]
	}
	global := strings.ContainsRune(flags, 'g')
	ignoreCase := strings.ContainsRune(flags, 'i')

	count, err := b.Substitute(start, end, []rune(pattern), []rune(replacement), global, ignoreCase)
	if err != nil {
		return CommandResult{}, err
	}
	if count == 0 {
		return CommandResult{}, errf(ErrKindPatternNotFound, "pattern not found: %s", pattern)
	}
	return CommandResult{Message: fmt.Sprintf("replaced %d instances of %s", count, pattern)}, nil
}

// splitDelimited splits s on delim, honoring a backslash escape of delim
// within a field (so "a\/b" stays "a/b" rather than splitting there).
func splitDelimited(s string, delim byte) []string {
	var fields []string
	var cur []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == delim {
			cur = append(cur, delim)
			i++
			continue
		}
		if s[i] == delim {
			fields = append(fields, string(cur))
			cur = nil
			continue
		}
		cur = append(cur, s[i])
	}
	fields = append(fields, string(cur))
	return fields
}

// runSet applies a `:set name[=value]` or `:set name value` toggle.
// Boolean options accept 0/1 or no value (meaning "1"). Buffer-level
// options go through ApplySetting, which internal/rc also calls; rc keeps
// its own switch for the remaining bimrc keys.
func runSet(b *Buffer, view *Viewport, args string) error {
	name, value, _ := strings.Cut(args, " ")
	if n, v, ok := strings.Cut(name, "="); ok {
		name, value = n, v
	}
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)

	if view != nil {
		switch name {
		case "linenumbers", "number", "nu":
			v, err := parseBoolSetting(name, value)
			if err != nil {
				return err
			}
			view.ShowLineNumbers = v
			return nil
		case "relativenumber", "rnu":
			v, err := parseBoolSetting(name, value)
			if err != nil {
				return err
			}
			view.RelativeNumber = v
			return nil
		case "hlcurrent", "cursorline":
			v, err := parseBoolSetting(name, value)
			if err != nil {
				return err
			}
			view.HighlightCurrentLine = v
			return nil
		case "colorgutter":
			v, err := parseBoolSetting(name, value)
			if err != nil {
				return err
			}
			view.ColorGutter = v
			return nil
		case "padding":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return errf(ErrKindInvalidArgument, "invalid padding: %q", value)
			}
			view.Padding = n
			return nil
		case "splitpercent":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 || n > 99 {
				return errf(ErrKindInvalidArgument, "invalid splitpercent: %q", value)
			}
			view.SplitPercent = n
			return nil
		}
	}
	switch name {
	case "smartcase":
		v, err := parseBoolSetting(name, value)
		if err != nil {
			return err
		}
		b.SmartCase = v
		return nil
	}
	return ApplySetting(b, name, value)
}

func parseBoolSetting(name, value string) (bool, error) {
	switch value {
	case "", "1", "true", "on":
		return true, nil
	case "0", "false", "off":
		return false, nil
	default:
		return false, errf(ErrKindInvalidArgument, "expected 0/1 for %s, got %q", name, value)
	}
}

// shellOut runs cmd through the shell and loads its stdout into a new
// scratch buffer the way `:r !cmd` family features do in vi lineage.
func shellOut(cmd string) (*Buffer, error) {
	out, err := exec.Command("sh", "-c", cmd).Output()
	if err != nil {
		return nil, &Error{Kind: ErrKindIOWrite, Cause: err}
	}

	scratch := NewBuffer()
	scratch.loading = true
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	scratch.Lines = scratch.Lines[:0]
	for _, l := range lines {
		scratch.Lines = append(scratch.Lines, NewLineFromRunes([]rune(l), scratch.TabStop))
	}
	if len(scratch.Lines) == 0 {
		scratch.Lines = []*Line{NewLine()}
	}
	scratch.loading = false
	scratch.FileName = fmt.Sprintf("!%s", cmd)
	scratch.Readonly = true
	return scratch, nil
}
