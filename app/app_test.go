package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"nanoterm/config"
	"nanoterm/hal"
	"nanoterm/kernel"
)

type fakeSerial struct {
	in  []byte
	out bytes.Buffer
}

func (s *fakeSerial) Buffered() int { return len(s.in) }

func (s *fakeSerial) ReadByte() (byte, error) {
	if len(s.in) == 0 {
		return 0, hal.ErrNoData
	}
	b := s.in[0]
	s.in = s.in[1:]
	return b, nil
}

func (s *fakeSerial) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *fakeSerial) Ready() bool                 { return true }

type fakeTime struct{ ch chan uint64 }

func (t fakeTime) Ticks() <-chan uint64 { return t.ch }

type fakeLogger struct{ lines []string }

func (l *fakeLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *fakeLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type fakeFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newFakeFB(w, h int) *fakeFB { return &fakeFB{w: w, h: h, buf: make([]byte, w*h*2)} }

func (f *fakeFB) Width() int              { return f.w }
func (f *fakeFB) Height() int             { return f.h }
func (f *fakeFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *fakeFB) StrideBytes() int        { return f.w * 2 }
func (f *fakeFB) Buffer() []byte          { return f.buf }
func (f *fakeFB) Present() error          { f.presents++; return nil }

func (f *fakeFB) ClearRGB(r, g, b uint8) {
	p := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

type fakeDisplay struct{ fb *fakeFB }

func (d fakeDisplay) Framebuffer() hal.Framebuffer { return d.fb }

type fakeHAL struct {
	log    *fakeLogger
	serial *fakeSerial
	t      fakeTime
	disp   hal.Display
}

func newFakeHAL() *fakeHAL {
	return &fakeHAL{
		log:    &fakeLogger{},
		serial: &fakeSerial{},
		t:      fakeTime{ch: make(chan uint64, 16)},
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Serial() hal.Serial   { return h.serial }
func (h *fakeHAL) Time() hal.Time       { return h.t }
func (h *fakeHAL) Display() hal.Display { return h.disp }

func newSystem(t *testing.T, h *fakeHAL, cfg config.Config) *System {
	t.Helper()
	s, err := New(context.Background(), h, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewPrintsStartupAndSchedulesTerminal(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())

	if got := h.serial.out.String(); got != "Starting nanoterm...\r\n" {
		t.Fatalf("startup output %q", got)
	}
	tasks := s.Kernel().Tasks()
	if len(tasks) != 1 || tasks[0].Name != "terminal" {
		t.Fatalf("tasks=%+v, want only terminal", tasks)
	}
	if tasks[0].Priority != kernel.PriorityNormal || tasks[0].StackBytes != 2048 {
		t.Fatalf("terminal task config %+v", tasks[0])
	}
	if s.Terminal().Registry().Len() != 2 {
		t.Fatalf("registry len=%d, want 2 built-ins", s.Terminal().Registry().Len())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Terminal.LineBuffer = 0
	_, err := New(context.Background(), newFakeHAL(), cfg, nil)
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err=%v, want ErrInvalid", err)
	}
}

func TestStepRunsHelp(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())
	h.serial.out.Reset()

	h.serial.in = []byte("help\r")
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	out := h.serial.out.String()
	for _, want := range []string{"help", "nanoterm Help Menu", "runtime-ms\r\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
	if len(h.serial.in) != 0 {
		t.Fatalf("%d bytes left unread", len(h.serial.in))
	}
}

func TestHostBackspaceKeyErases(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())
	h.serial.out.Reset()

	h.serial.in = []byte("helpx\x7f\r")
	_ = s.Step()
	out := h.serial.out.String()
	if !strings.Contains(out, "nanoterm Help Menu") || strings.Contains(out, "is not registered") {
		t.Fatalf("DEL did not erase: %q", out)
	}
}

func TestStepAdvancesClockFromTicks(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())
	h.serial.out.Reset()

	h.t.ch <- 41
	h.t.ch <- 42
	h.serial.in = []byte("runtime-ms\r")
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := s.Kernel().NowTick(); got != 42 {
		t.Fatalf("NowTick=%d, want 42", got)
	}
	if out := h.serial.out.String(); !strings.HasSuffix(out, "\r\n42\r\n\r\n") {
		t.Fatalf("output %q", out)
	}
}

func TestIdleTerminalSleepsUntilTick(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())

	// First step finds no input and puts the terminal to sleep.
	_ = s.Step()
	h.serial.in = []byte("x")
	_ = s.Step()
	if len(h.serial.in) != 1 {
		t.Fatal("terminal ran before its idle delay elapsed")
	}

	h.t.ch <- 10
	_ = s.Step()
	if len(h.serial.in) != 0 {
		t.Fatal("terminal did not wake after idle delay")
	}
	if got := s.Terminal().Line(); got != "x" {
		t.Fatalf("line=%q, want x", got)
	}
}

func TestRegisteredCommandRunsFromSerial(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())

	ran := 0
	if err := s.Terminal().RegisterCommand("blink", func() { ran++ }); err != nil {
		t.Fatalf("RegisterCommand: %v", err)
	}
	h.serial.in = []byte("blink\r")
	_ = s.Step()
	if ran != 1 {
		t.Fatalf("ran=%d, want 1", ran)
	}
}

func TestPrefixCompletionFromConfig(t *testing.T) {
	h := newFakeHAL()
	cfg := config.Default()
	cfg.Terminal.Completion = config.CompletionPrefix
	s := newSystem(t, h, cfg)

	h.serial.in = []byte("ms\t")
	_ = s.Step()
	if got := s.Terminal().Line(); got != "ms" {
		t.Fatalf("line=%q, prefix mode must not complete a substring", got)
	}
}

func TestMirrorReceivesConsoleOutput(t *testing.T) {
	h := newFakeHAL()
	fb := newFakeFB(160, 80)
	h.disp = fakeDisplay{fb: fb}

	cfg := config.Default()
	cfg.Host.Mirror = true
	s := newSystem(t, h, cfg)

	tasks := s.Kernel().Tasks()
	if len(tasks) != 2 || tasks[1].Name != "mirror" {
		t.Fatalf("tasks=%+v, want terminal and mirror", tasks)
	}

	h.serial.in = []byte("help\r")
	_ = s.Step()
	if !strings.Contains(h.serial.out.String(), "nanoterm Help Menu") {
		t.Fatal("serial output lost behind the mirror")
	}
	if fb.presents == 0 {
		t.Fatal("mirror never presented")
	}
	if s.mirror.Dropped() != 0 {
		t.Fatalf("mirror dropped %d chunks", s.mirror.Dropped())
	}
}

func TestMirrorSkippedWithoutDisplay(t *testing.T) {
	h := newFakeHAL()
	cfg := config.Default()
	cfg.Host.Mirror = true
	s := newSystem(t, h, cfg)
	if s.mirror != nil || len(s.Kernel().Tasks()) != 1 {
		t.Fatal("mirror scheduled without a display")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newFakeHAL()
	s := newSystem(t, h, config.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err=%v, want context.Canceled", err)
	}
}
