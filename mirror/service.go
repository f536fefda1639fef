// Package mirror renders a copy of the console output on a display.
package mirror

import (
	"nanoterm/hal"
	"nanoterm/kernel"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

const (
	queueChunks = 16
	// refreshMS paces redraws to roughly 60 frames per second.
	refreshMS = 16
)

// Service is a kernel task that feeds queued console bytes to a tinyterm
// terminal and presents the framebuffer when something changed.
type Service struct {
	disp hal.Display

	q       chan []byte
	dropped uint64

	d *fbDisplay
	t *tinyterm.Terminal
}

// New creates a mirror for disp. A nil display makes every write a no-op.
func New(disp hal.Display) *Service {
	return &Service{disp: disp, q: make(chan []byte, queueChunks)}
}

// Write queues a copy of p for rendering. It never blocks: when the queue
// is full the chunk is dropped, so the console is never slowed by the
// screen.
func (s *Service) Write(p []byte) (int, error) {
	if s.disp == nil || len(p) == 0 {
		return len(p), nil
	}
	chunk := append([]byte(nil), p...)
	select {
	case s.q <- chunk:
	default:
		s.dropped++
	}
	return len(p), nil
}

// Dropped reports how many chunks were discarded because the queue was full.
func (s *Service) Dropped() uint64 { return s.dropped }

func (s *Service) Step(ctx *kernel.Context) {
	if !s.init() {
		ctx.Sleep(refreshMS)
		return
	}

	dirty := false
drain:
	for {
		select {
		case chunk := <-s.q:
			_, _ = s.t.Write(chunk)
			dirty = true
		default:
			break drain
		}
	}
	if dirty {
		s.t.Display()
	}
	ctx.Sleep(refreshMS)
}

func (s *Service) init() bool {
	if s.t != nil {
		return true
	}
	if s.disp == nil {
		return false
	}
	fb := s.disp.Framebuffer()
	if fb == nil {
		return false
	}
	fb.ClearRGB(0, 0, 0)
	s.d = &fbDisplay{fb: fb}
	s.t = tinyterm.NewTerminal(s.d)
	s.t.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})
	_ = fb.Present()
	return true
}
