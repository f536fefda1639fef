//go:build !tinygo

package hal

import (
	"io"
	"sync"
)

// hostRXBytes bounds the receive queue the same way a UART ring buffer does.
const hostRXBytes = 256

const ctrlC = 0x03

type hostSerial struct {
	mu sync.Mutex
	w  io.Writer

	rx      chan byte
	dropped uint64

	// onInterrupt, when set, consumes Ctrl-C instead of queueing it.
	onInterrupt func()

	closers []io.Closer
}

func newHostSerial(w io.Writer, closers ...io.Closer) *hostSerial {
	return &hostSerial{
		w:       w,
		rx:      make(chan byte, hostRXBytes),
		closers: closers,
	}
}

// start begins copying r into the receive queue.
func (s *hostSerial) start(r io.Reader) {
	go s.readLoop(r)
}

func (s *hostSerial) readLoop(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if b == ctrlC && s.onInterrupt != nil {
				s.onInterrupt()
				continue
			}
			s.inject(b)
		}
		if err != nil {
			return
		}
	}
}

// inject queues one received byte. A full queue drops the byte.
func (s *hostSerial) inject(b byte) bool {
	select {
	case s.rx <- b:
		return true
	default:
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		return false
	}
}

func (s *hostSerial) Buffered() int { return len(s.rx) }

func (s *hostSerial) ReadByte() (byte, error) {
	select {
	case b := <-s.rx:
		return b, nil
	default:
		return 0, ErrNoData
	}
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *hostSerial) Ready() bool { return true }

// Dropped returns how many received bytes were lost to a full queue.
func (s *hostSerial) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *hostSerial) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
