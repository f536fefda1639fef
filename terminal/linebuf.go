package terminal

// DefaultLineBuffer is the default line buffer capacity in bytes.
const DefaultLineBuffer = 30

// lineBuffer is the in-progress command text. buf is allocated once and
// never grows; bytes past n are stale until clear.
type lineBuffer struct {
	buf []byte
	n   int
}

func newLineBuffer(capacity int) lineBuffer {
	if capacity <= 0 {
		capacity = DefaultLineBuffer
	}
	return lineBuffer{buf: make([]byte, capacity)}
}

func (l *lineBuffer) size() int  { return l.n }
func (l *lineBuffer) full() bool { return l.n == len(l.buf) }

// push stores b if there is room and reports whether it did.
func (l *lineBuffer) push(b byte) bool {
	if l.full() {
		return false
	}
	l.buf[l.n] = b
	l.n++
	return true
}

// pop removes the last byte, if any, and terminates the text at the new
// length.
func (l *lineBuffer) pop() {
	if l.n > 0 {
		l.n--
	}
	l.buf[l.n] = 0
}

// set replaces the content with s, truncated to capacity.
func (l *lineBuffer) set(s string) {
	clear(l.buf)
	l.n = copy(l.buf, s)
}

func (l *lineBuffer) text() string { return string(l.buf[:l.n]) }

// reset zeroes every byte and empties the buffer.
func (l *lineBuffer) reset() {
	clear(l.buf)
	l.n = 0
}
