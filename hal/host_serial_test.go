//go:build !tinygo

package hal

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
)

func waitBuffered(t *testing.T, s Serial, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for s.Buffered() < n {
		if time.Now().After(deadline) {
			t.Fatalf("buffered=%d, want %d", s.Buffered(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHostSerialReadsInOrder(t *testing.T) {
	s := newHostSerial(io.Discard)
	s.start(bytes.NewReader([]byte("ab\r")))
	waitBuffered(t, s, 3)

	var got []byte
	for s.Buffered() > 0 {
		b, err := s.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte: %v", err)
		}
		got = append(got, b)
	}
	if string(got) != "ab\r" {
		t.Fatalf("got %q", got)
	}
	if _, err := s.ReadByte(); err != ErrNoData {
		t.Fatalf("err=%v, want ErrNoData", err)
	}
}

func TestHostSerialDropsOnOverflow(t *testing.T) {
	s := newHostSerial(io.Discard)
	for i := 0; i < hostRXBytes; i++ {
		if !s.inject('x') {
			t.Fatalf("inject %d failed", i)
		}
	}
	if s.inject('y') {
		t.Fatal("expected overflow to drop byte")
	}
	if s.Dropped() != 1 {
		t.Fatalf("dropped=%d, want 1", s.Dropped())
	}
	if s.Buffered() != hostRXBytes {
		t.Fatalf("buffered=%d, want %d", s.Buffered(), hostRXBytes)
	}
}

func TestHostSerialInterruptIsNotQueued(t *testing.T) {
	interrupted := make(chan struct{}, 1)
	s := newHostSerial(io.Discard)
	s.onInterrupt = func() { interrupted <- struct{}{} }
	s.start(bytes.NewReader([]byte{'a', ctrlC, 'b'}))

	select {
	case <-interrupted:
	case <-time.After(time.Second):
		t.Fatal("interrupt not delivered")
	}
	waitBuffered(t, s, 2)
	a, _ := s.ReadByte()
	b, _ := s.ReadByte()
	if a != 'a' || b != 'b' {
		t.Fatalf("got %q %q, want a b", a, b)
	}
}

func TestPTYRoundTrip(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	s := newHostSerial(ptmx, tty, ptmx)
	s.start(ptmx)
	defer s.Close()

	if _, err := makeRaw(tty); err != nil {
		t.Fatalf("makeRaw: %v", err)
	}

	if _, err := tty.Write([]byte("help\r")); err != nil {
		t.Fatalf("client write: %v", err)
	}
	waitBuffered(t, s, 5)

	if _, err := s.Write([]byte("ok\r\n")); err != nil {
		t.Fatalf("serial write: %v", err)
	}
	buf := make([]byte, 4)
	if _, err := io.ReadFull(tty, buf); err != nil {
		t.Fatalf("client read: %v", err)
	}
	if string(buf) != "ok\r\n" {
		t.Fatalf("client got %q", buf)
	}
}
