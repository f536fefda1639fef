package terminal

import "fmt"

const crlf = "\r\n"

// Output errors are dropped: the console has nowhere else to report them.
func (t *Terminal) write(b []byte) {
	_, _ = t.port.Write(b)
}

func (t *Terminal) writeString(s string) {
	if s == "" {
		return
	}
	t.write([]byte(s))
}

func (t *Terminal) println(s string) {
	t.writeString(s + crlf)
}

func (t *Terminal) printf(format string, args ...any) {
	t.writeString(fmt.Sprintf(format, args...))
}

// Write sends p to the port. Command callbacks use it to print.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.port.Write(p)
}
