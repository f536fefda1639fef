package terminal

import (
	"bytes"
	"context"
	"testing"
)

// scriptPort is an in-memory Port fed from a byte script.
type scriptPort struct {
	in  []byte
	out bytes.Buffer

	// readyAfter is how many Ready calls report false first.
	readyAfter int
	readyCalls int
}

func (p *scriptPort) Buffered() int { return len(p.in) }

func (p *scriptPort) ReadByte() (byte, error) {
	b := p.in[0]
	p.in = p.in[1:]
	return b, nil
}

func (p *scriptPort) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *scriptPort) Ready() bool {
	p.readyCalls++
	return p.readyCalls > p.readyAfter
}

func (p *scriptPort) take() string {
	s := p.out.String()
	p.out.Reset()
	return s
}

func newStarted(t *testing.T, opts Options) (*Terminal, *scriptPort) {
	t.Helper()
	port := &scriptPort{}
	if opts.Clock == nil {
		opts.Clock = func() uint64 { return 1234 }
	}
	term := New(port, opts)
	if err := term.Begin(context.Background()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	port.take()
	return term, port
}

// typeString queues s and polls until it is consumed.
func typeString(term *Terminal, port *scriptPort, s string) {
	port.in = append(port.in, s...)
	for term.Poll() {
	}
}
