// Package tty implements vex.Terminal against a real file-descriptor
// connected to a controlling terminal: raw mode, SIGWINCH-driven resize,
// alt-screen/mouse acquisition, job-control suspend, and a read loop with
// the escape-disambiguation timeout the decoder needs.
package tty

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/vexedit/vex"
)

// TTY is a concrete vex.Terminal backed by os.Stdin/os.Stdout.
type TTY struct {
	in, out *os.File
	inFd    int

	mu         sync.Mutex
	oldState   *term.State
	rows, cols int

	caps vex.Capabilities

	sigwinch chan os.Signal
	sigcont  chan os.Signal
	done     chan struct{}
}

// Open puts stdin into raw mode, enters the alt-screen, and enables mouse
// reporting when the terminal supports them. disabled lists `-O noX`
// capability overrides applied before acquisition. Call Close to restore
// the terminal's original state; Close always runs the teardown sequence
// even on a fatal-error path.
func Open(disabled ...string) (*TTY, error) {
	in, out := os.Stdin, os.Stdout
	inFd := int(in.Fd())

	old, err := term.MakeRaw(inFd)
	if err != nil {
		return nil, err
	}

	t := &TTY{
		in: in, out: out, inFd: inFd, oldState: old,
		caps:     vex.KnownTerminal(os.Getenv("TERM")),
		sigwinch: make(chan os.Signal, 1),
		sigcont:  make(chan os.Signal, 1),
		done:     make(chan struct{}),
	}
	for _, name := range disabled {
		if err := t.DisableCapability(name); err != nil {
			term.Restore(inFd, old)
			return nil, err
		}
	}
	t.cols, t.rows, _ = term.GetSize(int(out.Fd()))
	t.acquire()

	signal.Notify(t.sigwinch, syscall.SIGWINCH)
	signal.Notify(t.sigcont, syscall.SIGCONT)
	go t.watchSignals()

	return t, nil
}

// acquire emits the screen-acquisition sequences the capability set
// allows: alt-screen, mouse reporting, bracketed paste, hidden-then-shown
// cursor handled by the renderer.
func (t *TTY) acquire() {
	if t.caps.AltScreen {
		t.out.WriteString("\x1b[?1049h")
	}
	if t.caps.MouseReport {
		t.out.WriteString("\x1b[?1000h\x1b[?1006h")
	}
	if t.caps.BracketPaste {
		t.out.WriteString("\x1b[?2004h")
	}
}

// release undoes acquire, leaving the terminal as the shell expects it.
func (t *TTY) release() {
	if t.caps.BracketPaste {
		t.out.WriteString("\x1b[?2004l")
	}
	if t.caps.MouseReport {
		t.out.WriteString("\x1b[?1006l\x1b[?1000l")
	}
	if t.caps.AltScreen {
		t.out.WriteString("\x1b[?1049l")
	}
	if t.caps.HideShow {
		t.out.WriteString("\x1b[?25h")
	}
}

func (t *TTY) watchSignals() {
	for {
		select {
		case <-t.sigwinch:
			t.mu.Lock()
			t.cols, t.rows, _ = term.GetSize(int(t.out.Fd()))
			t.mu.Unlock()
		case <-t.sigcont:
			// resumed after a Suspend: re-enter raw mode and re-acquire
			// the screen.
			t.mu.Lock()
			if st, err := term.MakeRaw(t.inFd); err == nil {
				t.oldState = st
			}
			t.acquire()
			t.cols, t.rows, _ = term.GetSize(int(t.out.Fd()))
			t.mu.Unlock()
		case <-t.done:
			return
		}
	}
}

// Suspend implements vex.Suspender: release the terminal, then stop this
// process the way the default SIGTSTP handler would. The SIGCONT watcher
// re-acquires when the user foregrounds the process again.
func (t *TTY) Suspend() error {
	t.mu.Lock()
	t.release()
	if t.oldState != nil {
		term.Restore(t.inFd, t.oldState)
	}
	t.mu.Unlock()
	return syscall.Kill(0, syscall.SIGTSTP)
}

// Close restores the terminal's original mode and screen.
func (t *TTY) Close() error {
	close(t.done)
	signal.Stop(t.sigwinch)
	signal.Stop(t.sigcont)
	t.release()
	if t.oldState != nil {
		return term.Restore(t.inFd, t.oldState)
	}
	return nil
}

// SetTitle sets the window title via OSC 2 when the terminal supports it.
func (t *TTY) SetTitle(title string) {
	if !t.caps.Title {
		return
	}
	fmt.Fprintf(t.out, "\x1b]2;%s\x07", title)
}

// Size implements vex.Terminal.
func (t *TTY) Size() (rows, cols int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rows == 0 {
		return 24, 80
	}
	return t.rows, t.cols
}

// Write implements vex.Terminal.
func (t *TTY) Write(p []byte) (int, error) { return t.out.Write(p) }

// Flush implements vex.Terminal; os.File has no internal buffer to flush,
// so this is a no-op kept only to satisfy the interface the way a buffered
// implementation would need to.
func (t *TTY) Flush() error { return nil }

// Capabilities implements vex.Terminal.
func (t *TTY) Capabilities() vex.Capabilities { return t.caps }

// DisableCapability turns off one named feature, the `-O noX` CLI surface
// . Unknown names report an error so a typo is visible.
func (t *TTY) DisableCapability(name string) error {
	switch name {
	case "noaltscreen":
		t.caps.AltScreen = false
	case "noscroll":
		t.caps.Scroll = false
	case "nomouse":
		t.caps.MouseReport = false
	case "nounicode":
		t.caps.Unicode = false
	case "nobright":
		t.caps.Bright = false
	case "nohideshow":
		t.caps.HideShow = false
	case "notitle":
		t.caps.Title = false
	case "nobce":
		t.caps.BCE = false
	default:
		return fmt.Errorf("unknown option: %s", name)
	}
	return nil
}

// ReadTimeout implements the shell's rawReader contract: it blocks for up
// to timeout waiting for input on the fd (timeout == 0 means block
// indefinitely), returning whatever bytes are available once readable.
func (t *TTY) ReadTimeout(timeout time.Duration) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
	ms := -1
	if timeout > 0 {
		ms = int(timeout / time.Millisecond)
	}
	n, err := unix.Poll(fds, ms)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, 4096)
	m, err := t.in.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:m], nil
}

var _ vex.Terminal = (*TTY)(nil)
var _ vex.Suspender = (*TTY)(nil)
