//go:build !tinygo

package hal

import "time"

// hostTime converts wall-clock time into a millisecond tick stream. It only
// advances when step is called by a runner.
type hostTime struct {
	ch    chan uint64
	start time.Time
	last  uint64
}

func newHostTime() *hostTime {
	return &hostTime{ch: make(chan uint64, 1024)}
}

func (t *hostTime) Ticks() <-chan uint64 { return t.ch }

func (t *hostTime) step() {
	now := time.Now()
	if t.start.IsZero() {
		t.start = now
	}
	ms := uint64(now.Sub(t.start) / time.Millisecond)
	if ms == t.last {
		return
	}
	t.last = ms
	select {
	case t.ch <- ms:
	default:
	}
}
