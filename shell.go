package vex

import "time"

// Split is one pane of the editor shell: its own buffer and dispatcher.
// Layout is computed by the renderer on each frame; the shell does not
// write the Buffer's Width/Left fields.
type Split struct {
	Buf        *Buffer
	Dispatcher *Dispatcher
}

// EditorShell is the top-level cooperative event loop (component J):
// it owns every open buffer (one per tab), the active split, and drives
// Terminal reads through the Decoder into the active Dispatcher, redrawing
// after each key.
type EditorShell struct {
	Term     Terminal
	Renderer *Renderer
	Decoder  *Decoder

	Splits []*Split // one per open tab (`:tabnew`/`:tabn`/`:tabp`)
	Active int

	// SidePane is the second, right-hand pane opened by `:split`; nil when
	// unsplit. It renders alongside Splits[Active] but is
	// not itself a tab — `:unsplit` just drops it.
	SidePane *Split

	// Yank is the single global clipboard.
	// Every Split's Buffer.Register points at this same instance so a yank
	// in one tab is visible to a paste in another.
	Yank *Register

	// SyntaxLookup, ThemeLookup, and GitGutter are injected by the host
	// program (cmd/vex) so `:syntax`, `:theme`, and `:git` can resolve
	// plug-in collaborators that live in internal/ packages the core
	// engine can't import without an import cycle.
	SyntaxLookup func(name string) SyntaxLexer
	ThemeLookup  func(name string) (*Theme, error)
	GitGutter    func(buf *Buffer, path string)

	// SyntaxNames/ThemeNames feed command-mode Tab completion; propagated
	// to every Dispatcher the shell creates.
	SyntaxNames func() []string
	ThemeNames  func() []string

	Status string // last status/error message, cleared on the next keypress

	quit bool
}

// NewEditorShell wires a shell around term with one buffer open.
func NewEditorShell(term Terminal) *EditorShell {
	r := NewRenderer(term)
	yank := &Register{}
	buf := NewBuffer()
	buf.Register = yank
	disp := &Dispatcher{Buf: buf, View: r.View}
	return &EditorShell{
		Term:     term,
		Renderer: r,
		Decoder:  NewDecoder(),
		Splits:   []*Split{{Buf: buf, Dispatcher: disp}},
		Yank:     yank,
	}
}

// Open loads path into the active split's buffer.
func (sh *EditorShell) Open(path string) error {
	return sh.active().Buf.Load(path)
}

// newDispatcher builds a dispatcher wired to the shell's completion
// sources.
func (sh *EditorShell) newDispatcher(buf *Buffer) *Dispatcher {
	return &Dispatcher{Buf: buf, View: sh.Renderer.View, SyntaxNames: sh.SyntaxNames, ThemeNames: sh.ThemeNames}
}

func (sh *EditorShell) active() *Split { return sh.Splits[sh.Active] }

// OpenSplit opens buf as a new tab, switching to it. The name is kept from before this session's tracked work;
// it predates SidePane, which is the real side-by-side split.
func (sh *EditorShell) OpenSplit(buf *Buffer) {
	buf.Register = sh.Yank
	disp := sh.newDispatcher(buf)
	sh.Splits = append(sh.Splits, &Split{Buf: buf, Dispatcher: disp})
	sh.Active = len(sh.Splits) - 1
}

// TabNext/TabPrev cycle the active tab, wrapping.
func (sh *EditorShell) TabNext() {
	sh.Active = (sh.Active + 1) % len(sh.Splits)
}

func (sh *EditorShell) TabPrev() {
	sh.Active = (sh.Active - 1 + len(sh.Splits)) % len(sh.Splits)
}

// OpenSidePane opens buf (or, if nil, the active buffer again) as the
// right-hand pane of a side-by-side split.
func (sh *EditorShell) OpenSidePane(buf *Buffer) {
	if buf == nil {
		buf = sh.active().Buf
	} else {
		buf.Register = sh.Yank
	}
	sh.SidePane = &Split{Buf: buf, Dispatcher: sh.newDispatcher(buf)}
}

// Unsplit closes the side pane, if any.
func (sh *EditorShell) Unsplit() { sh.SidePane = nil }

// CloseActive removes the active split; if it was the last one, the shell
// quits instead.
func (sh *EditorShell) CloseActive() {
	if len(sh.Splits) <= 1 {
		sh.quit = true
		return
	}
	sh.Splits = append(sh.Splits[:sh.Active], sh.Splits[sh.Active+1:]...)
	if sh.Active >= len(sh.Splits) {
		sh.Active = len(sh.Splits) - 1
	}
}

// Step processes exactly one decoded key against the active split,
// redrawing afterward. It's the unit the top-level Run loop repeats, and
// is exported separately so tests and a headless driver can single-step
// without an attached terminal.
func (sh *EditorShell) Step(k Key) error {
	active := sh.active()
	sh.Status = ""

	if err := active.Dispatcher.Dispatch(k); err != nil {
		if verr, ok := err.(*Error); ok {
			sh.Status = verr.Error()
		} else {
			sh.Status = err.Error()
		}
	}

	res := active.Dispatcher.LastResult
	active.Dispatcher.LastResult = CommandResult{}
	sh.applyResult(res)

	if sh.quit {
		return nil
	}
	return sh.redraw()
}

// redraw refreshes the tab bar from the current split list and paints the
// active pane (plus the side pane, when a split is open).
func (sh *EditorShell) redraw() error {
	sh.Renderer.TabBar = sh.Renderer.TabBar[:0]
	for _, s := range sh.Splits {
		sh.Renderer.TabBar = append(sh.Renderer.TabBar, s.Buf.FileName)
	}
	sh.Renderer.ActiveTab = sh.Active

	var side *Buffer
	if sh.SidePane != nil {
		side = sh.SidePane.Buf
	}
	return sh.Renderer.RedrawSplit(sh.active().Buf, side, sh.active().Dispatcher, sh.Status)
}

// Suspender is implemented by terminals that can release the tty for a
// Ctrl+Z job-control stop and re-acquire it on SIGCONT.
type Suspender interface {
	Suspend() error
}

// applyResult carries out every shell-level intent ExecuteCommand returned
// ; Buffer/Viewport-level effects were already applied by
// ExecuteCommand itself before Dispatch returned.
func (sh *EditorShell) applyResult(res CommandResult) {
	if res.Message != "" {
		sh.Status = res.Message
	}

	if res.Suspend {
		if s, ok := sh.Term.(Suspender); ok {
			_ = s.Suspend()
		}
	}

	if res.ClearYank {
		sh.Yank.Clear()
	}

	if res.SyntaxSet {
		if sh.SyntaxLookup != nil {
			if lex := sh.SyntaxLookup(res.SyntaxName); lex != nil {
				sh.active().Buf.Syntax = lex
				sh.active().Buf.recomputeSyntaxAll()
			} else {
				sh.Status = "unknown syntax: " + res.SyntaxName
			}
		}
	}
	if res.ThemeSet && sh.ThemeLookup != nil {
		if th, err := sh.ThemeLookup(res.ThemeName); err == nil {
			sh.Renderer.View.Theme = th
		} else {
			sh.Status = "unknown theme: " + res.ThemeName
		}
	}
	if res.GitSet && sh.GitGutter != nil {
		if res.GitOn {
			sh.GitGutter(sh.active().Buf, sh.active().Buf.FileName)
		} else {
			for _, l := range sh.active().Buf.Lines {
				l.RevStatus = RevUnchanged
			}
		}
	}

	if res.OpenTab {
		sh.OpenSplit(NewBuffer())
	}
	if res.TabNext {
		sh.TabNext()
	}
	if res.TabPrev {
		sh.TabPrev()
	}

	if res.Split {
		sh.OpenSidePane(res.NewBuffer)
	} else if res.NewBuffer != nil {
		sh.OpenSplit(res.NewBuffer)
	}
	if res.Unsplit {
		sh.Unsplit()
	}

	if res.Quit {
		if res.QuitAll {
			sh.quit = true
			return
		}
		sh.CloseActive()
	}
}

// rawReader is implemented by terminals that can perform one blocking read
// with a timeout. Run's readMore callback for the Decoder uses it; for a
// Terminal without it (like NoopTerminal) readMore returns nil
// immediately, which the decoder treats as "nothing more is coming".
type rawReader interface {
	ReadTimeout(timeout time.Duration) ([]byte, error)
}

// Run drives the cooperative loop until a quit command closes the last
// split or term stops producing input. term must additionally
// implement rawReader for the escape-sequence disambiguation timeout;
// internal/tty's concrete Terminal does.
func (sh *EditorShell) Run() error {
	reader, _ := sh.Term.(rawReader)

	readMore := func(timeout time.Duration) []byte {
		if reader == nil {
			return nil
		}
		b, err := reader.ReadTimeout(timeout)
		if err != nil {
			return nil
		}
		return b
	}

	if err := sh.redraw(); err != nil {
		return err
	}

	for !sh.quit {
		if !sh.Decoder.Pending() {
			if reader == nil {
				return nil
			}
			b, err := reader.ReadTimeout(0)
			if err != nil {
				return err
			}
			if len(b) == 0 {
				continue
			}
			sh.Decoder.Feed(b)
		}
		k, ok := sh.Decoder.Next(readMore)
		if !ok {
			continue
		}
		if err := sh.Step(k); err != nil {
			return err
		}
	}
	return nil
}
