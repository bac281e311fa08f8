// Command vex is a modal, vi-style terminal text editor.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/inconshreveable/log15/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vexedit/vex"
	"github.com/vexedit/vex/internal/biminfo"
	"github.com/vexedit/vex/internal/gitgutter"
	"github.com/vexedit/vex/internal/rc"
	"github.com/vexedit/vex/internal/syntaxlex"
	"github.com/vexedit/vex/internal/theme"
	"github.com/vexedit/vex/internal/tty"
)

// version is stamped by the release build; left at "dev" for `go build`
// without ldflags.
var version = "dev"

var log = newLogger()

// newLogger returns a log15 logger that discards everything unless
// VEX_DEBUG_LOG names a file: a raw-mode editor can't share stderr with
// its own screen, so logging is opt-in and file-backed.
func newLogger() log15.Logger {
	l := log15.New()
	path := os.Getenv("VEX_DEBUG_LOG")
	if path == "" {
		l.SetHandler(log15.DiscardHandler())
		return l
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.SetHandler(log15.DiscardHandler())
		return l
	}
	l.SetHandler(log15.StreamHandler(f, log15.LogfmtFormat()))
	return l
}

// termOptions are the capability toggles `-O` accepts;
// nosyntax and nohistory are editor-level, the rest flow to the tty.
var termOptions = map[string]bool{
	"noaltscreen": true, "noscroll": true, "nomouse": true,
	"nounicode": true, "nobright": true, "nohideshow": true,
	"notitle": true, "nobce": true,
}

type options struct {
	readonly bool
	catFile  string
	catNums  string
	rcPath   string
	toggles  []string

	noSyntax  bool
	noHistory bool
	ttyOpts   []string
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "vex [file[:line]]",
		Short: "A modal, vi-style terminal text editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate(versionText())

	bindFlags(root.Flags(), opts)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bindFlags(flags *pflag.FlagSet, opts *options) {
	flags.BoolVarP(&opts.readonly, "readonly", "R", false, "open the initial buffer read-only")
	flags.StringVarP(&opts.catFile, "cat", "c", "", "print FILE with syntax highlighting and exit")
	flags.StringVarP(&opts.catNums, "cat-numbered", "C", "", "print FILE with highlighting and line numbers, then exit")
	flags.StringVarP(&opts.rcPath, "rcfile", "u", "", "load PATH instead of ~/.bimrc")
	flags.StringArrayVarP(&opts.toggles, "option", "O", nil, "disable a capability (noaltscreen, nomouse, nosyntax, ...)")
}

// versionText renders `--version`'s output: the version plus the available
// lexers and themes.
func versionText() string {
	var names []string
	for _, lx := range syntaxlex.All() {
		names = append(names, lx.Name())
	}
	return fmt.Sprintf("vex %s\n syntax: %s\n themes: %s\n",
		version, strings.Join(names, " "), strings.Join(theme.Names(), " "))
}

func run(opts *options, args []string) error {
	for _, o := range opts.toggles {
		switch o {
		case "nosyntax":
			opts.noSyntax = true
		case "nohistory":
			opts.noHistory = true
		default:
			if !termOptions[o] {
				return fmt.Errorf("unknown -O option: %s", o)
			}
			opts.ttyOpts = append(opts.ttyOpts, o)
		}
	}

	if opts.catFile != "" || opts.catNums != "" {
		path, numbered := opts.catFile, false
		if path == "" {
			path, numbered = opts.catNums, true
		}
		return cat(path, numbered, opts.noSyntax)
	}

	term, err := tty.Open(opts.ttyOpts...)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer term.Close()

	sh := vex.NewEditorShell(term)
	sh.SyntaxLookup = func(name string) vex.SyntaxLexer {
		for _, lx := range syntaxlex.All() {
			if lx.Name() == name {
				return lx
			}
		}
		return nil
	}
	sh.ThemeLookup = theme.Load
	sh.GitGutter = gitgutter.Annotate
	sh.SyntaxNames = func() []string {
		var out []string
		for _, lx := range syntaxlex.All() {
			out = append(out, lx.Name())
		}
		return out
	}
	sh.ThemeNames = theme.Names
	disp := sh.Splits[0].Dispatcher
	disp.SyntaxNames = sh.SyntaxNames
	disp.ThemeNames = sh.ThemeNames

	gitOn, err := applyConfig(opts, sh)
	if err != nil {
		log.Warn("bimrc load failed", "err", err)
	}

	infoPath := biminfo.DefaultPath()
	if opts.noHistory {
		infoPath = ""
	}

	var path string
	if len(args) == 1 {
		var gotoLine int
		path, gotoLine = splitPathLine(args[0])
		if err := sh.Open(path); err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		buf := sh.Splits[0].Buf
		if !opts.noSyntax {
			if lx := syntaxlex.ForPath(path); lx != nil {
				buf.Syntax = lx
				if lx.PrefersSpaces() {
					buf.Tabs = false
				}
				buf.Recalculate()
			}
		}
		if gitOn {
			gitgutter.Annotate(buf, path)
		}
		if gotoLine > 0 {
			buf.GotoLine(gotoLine)
		} else if ln, col, ok := biminfo.Restore(infoPath, path); ok {
			buf.GotoLine(ln)
			buf.ColNo = col
		}
		term.SetTitle("vex - " + path)
		log.Debug("buffer open", "id", buf.ID, "file", path, "lines", buf.LineCount())
	}
	if opts.readonly {
		sh.Splits[0].Buf.Readonly = true
	}

	log.Info("vex starting", "version", version, "file", path)
	runErr := sh.Run()

	for _, s := range sh.Splits {
		if s.Buf.FileName == "" || strings.HasPrefix(s.Buf.FileName, "!") {
			continue
		}
		if err := biminfo.Update(infoPath, s.Buf.FileName, s.Buf.LineNo, s.Buf.ColNo); err != nil {
			log.Warn("biminfo update failed", "err", err)
		}
	}
	return runErr
}

// applyConfig loads the bimrc (respecting -u) and applies the host-level
// leftovers (theme, git, history) the rc package hands back. Returns
// whether the git gutter starts enabled.
func applyConfig(opts *options, sh *vex.EditorShell) (gitOn bool, err error) {
	path := opts.rcPath
	if path == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return false, nil
		}
		path = home + "/.bimrc"
	}
	f, err := os.Open(path)
	if err != nil {
		return false, nil // no rc file is the common case, not an error
	}
	defer f.Close()

	leftover, err := rc.Apply(f, sh.Splits[0].Buf, sh.Renderer.View)
	if err != nil {
		return false, err
	}
	for _, s := range leftover {
		switch s.Name {
		case "theme":
			if th, terr := theme.Load(s.Value); terr == nil {
				sh.Renderer.View.Theme = th
			} else {
				log.Warn("unknown theme in bimrc", "name", s.Value)
			}
		case "git":
			gitOn = s.Value == "" || s.Value == "1" || s.Value == "true" || s.Value == "on"
		case "history":
			if s.Value == "0" || s.Value == "false" || s.Value == "off" {
				opts.noHistory = true
			}
		}
	}
	return gitOn, nil
}

// cat implements `-c`/`-C`: print a file with syntax highlighting to
// stdout, optionally with line numbers, without entering the
// editor at all.
func cat(path string, numbered, noSyntax bool) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	buf := vex.NewBuffer()
	if err := buf.Load(path); err != nil {
		return err
	}
	if !noSyntax {
		if lx := syntaxlex.ForPath(path); lx != nil {
			buf.Syntax = lx
			buf.Recalculate()
		}
	}

	th := &vex.DefaultTheme
	out := os.Stdout
	for i, line := range buf.Lines {
		if numbered {
			fmt.Fprintf(out, "\x1b[90m%4d \x1b[0m", i+1)
		}
		var last vex.SyntaxClass
		painted := false
		for c := 0; c < line.Actual; c++ {
			cell := line.Cells[c]
			class := cell.Flags.Class()
			if !painted || class != last {
				col := th.ColorFor(class)
				fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm", col.R, col.G, col.B)
				last, painted = class, true
			}
			fmt.Fprint(out, vex.FallbackGlyph(cell.Codepoint))
		}
		fmt.Fprint(out, "\x1b[0m\n")
	}
	return nil
}

// splitPathLine parses the "path[:line]" positional argument.
func splitPathLine(arg string) (path string, line int) {
	idx := strings.LastIndex(arg, ":")
	if idx <= 0 {
		return arg, 0
	}
	n, err := strconv.Atoi(arg[idx+1:])
	if err != nil {
		return arg, 0
	}
	return arg[:idx], n
}
