//go:build !tinygo

package hal

import (
	"fmt"
	"os"

	"github.com/creack/pty"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type restoreFunc func() error

func (f restoreFunc) Close() error { return f() }

// makeRaw puts f into raw mode when it is a terminal so every keystroke is
// delivered as typed, including '\r' for Enter.
func makeRaw(f *os.File) (restoreFunc, error) {
	fd := f.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return func() error { return nil }, nil
	}
	old, err := term.MakeRaw(int(fd))
	if err != nil {
		return nil, fmt.Errorf("hal: raw mode: %w", err)
	}
	return func() error { return term.Restore(int(fd), old) }, nil
}

// openStdio uses the process's own terminal as the serial port. Raw mode
// turns off the terminal's own signal keys, so Ctrl-C is handed to
// onInterrupt.
func openStdio(onInterrupt func()) (*hostSerial, error) {
	restore, err := makeRaw(os.Stdin)
	if err != nil {
		return nil, err
	}
	s := newHostSerial(os.Stdout, restore)
	s.onInterrupt = onInterrupt
	s.start(os.Stdin)
	return s, nil
}

// openPTY creates a pseudo-terminal that serial programs (screen, minicom,
// picocom) can attach to. The slave stays open so reads on the master do not
// fail before a client connects.
func openPTY(announce func(path string)) (*hostSerial, error) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("hal: open pty: %w", err)
	}
	if _, err := term.MakeRaw(int(tty.Fd())); err != nil {
		_ = ptmx.Close()
		_ = tty.Close()
		return nil, fmt.Errorf("hal: pty raw mode: %w", err)
	}
	if announce != nil {
		announce(tty.Name())
	}
	s := newHostSerial(ptmx, tty, ptmx)
	s.start(ptmx)
	return s, nil
}
