//go:build tinygo && !baremetal

package hal

import (
	"os"
	"time"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	serial *tinyGoHostSerial
	t      *tinyGoHostTime
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` on linux where there is no USB port: the
// console is stdin/stdout in whatever mode the terminal is already in.
func New() HAL {
	return &tinyGoHostHAL{
		logger: &tinyGoHostLogger{},
		serial: newTinyGoHostSerial(),
		t:      newTinyGoHostTime(),
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHostHAL) Time() Time       { return h.t }
func (h *tinyGoHostHAL) Display() Display { return nil }

type tinyGoHostSerial struct {
	rx chan byte
}

func newTinyGoHostSerial() *tinyGoHostSerial {
	s := &tinyGoHostSerial{rx: make(chan byte, 256)}
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := os.Stdin.Read(buf)
			for _, b := range buf[:n] {
				// Cooked terminals send '\n' for Enter.
				if b == '\n' {
					b = '\r'
				}
				select {
				case s.rx <- b:
				default:
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return s
}

func (s *tinyGoHostSerial) Buffered() int { return len(s.rx) }

func (s *tinyGoHostSerial) ReadByte() (byte, error) {
	select {
	case b := <-s.rx:
		return b, nil
	default:
		return 0, ErrNoData
	}
}

func (s *tinyGoHostSerial) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (s *tinyGoHostSerial) Ready() bool                  { return true }

type tinyGoHostTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoHostTime() *tinyGoHostTime {
	t := &tinyGoHostTime{ch: make(chan uint64, 16)}
	go func() {
		ticker := time.NewTicker(1 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			t.seq++
			select {
			case t.ch <- t.seq:
			default:
			}
		}
	}()
	return t
}

func (t *tinyGoHostTime) Ticks() <-chan uint64 { return t.ch }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}
