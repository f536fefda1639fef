package terminal

import "fmt"

// Feed runs one input byte through the line editor.
//
// '\b' erases, '\t' completes, '\r' commits; every other byte (including
// '\n') is text.
func (t *Terminal) Feed(b byte) {
	if b == 0x7f && t.opts.DELIsBackspace {
		b = '\b'
	}

	switch b {
	case '\b':
		t.backspace()
	case '\t':
		t.complete()
	case '\r':
		t.commit()
	default:
		t.insert(b)
	}
}

func (t *Terminal) backspace() {
	t.line.pop()
	t.redraw()
}

// complete replaces the line with the first command matching it. There is
// no cycling: later matches are never offered.
func (t *Terminal) complete() {
	if t.line.size() == 0 {
		return
	}
	partial := t.line.text()

	var (
		cmd Command
		ok  bool
	)
	if t.opts.Completion == CompletePrefix {
		cmd, ok = t.reg.FindPrefix(partial)
	} else {
		cmd, ok = t.reg.FindContaining(partial)
	}
	if !ok {
		return
	}
	t.line.set(cmd.Name)
	t.redraw()
}

func (t *Terminal) commit() {
	if t.line.size() >= t.opts.MinCommitLen {
		text := t.line.text()
		if cmd, ok := t.reg.FindExact(text); ok {
			t.log.Debugw("dispatch", "name", cmd.Name)
			t.dispatch(cmd)
		} else {
			err := &CommandNotFoundError{Name: text}
			t.writeString(err.Error())
			t.log.Infow("command not found", "line", text)
		}
	}
	t.writeString(crlf)
	t.line.reset()
	t.overrun = false
}

// dispatch runs cmd on the poll task. A panicking callback is reported and
// the terminal carries on.
func (t *Terminal) dispatch(cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			t.writeString(crlf + fmt.Sprintf("%s panicked: %v", cmd.Name, r))
			t.log.Warnw("command panicked", "name", cmd.Name, "value", fmt.Sprint(r))
		}
	}()
	cmd.Run()
}

// insert stores b when there is room and echoes it either way, so the
// screen can show more than the buffer will commit.
func (t *Terminal) insert(b byte) {
	if !t.line.push(b) && !t.overrun {
		t.overrun = true
		t.log.Debugw("line buffer full", "capacity", len(t.line.buf))
	}
	t.write([]byte{b})
}

// redraw returns to column 0 and reprints the line. Terminals keep any
// stale tail from a longer previous render.
func (t *Terminal) redraw() {
	t.writeString("\r" + t.line.text())
}
