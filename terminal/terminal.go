// Package terminal implements a line-oriented command console for a serial
// port: a fixed-capacity command registry and a per-byte input state machine
// with backspace editing, tab completion and exact-name dispatch.
package terminal

import (
	"context"
	"time"

	"nanoterm/kernel"
)

// Port is the duplex byte channel the terminal runs on.
type Port interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// readier is implemented by ports that can report whether the far side is
// attached.
type readier interface {
	Ready() bool
}

// Logger receives structured diagnostics. *zap.SugaredLogger satisfies it.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

type nopLogger struct{}

func (nopLogger) Debugw(string, ...any) {}
func (nopLogger) Infow(string, ...any)  {}
func (nopLogger) Warnw(string, ...any)  {}

// CompletionMode selects how tab matches the typed text against names.
type CompletionMode uint8

const (
	// CompleteContains matches the text anywhere in a name.
	CompleteContains CompletionMode = iota
	// CompletePrefix matches only at the start of a name.
	CompletePrefix
)

type Options struct {
	Commands   int
	LineBuffer int

	// MinCommitLen is the shortest line looked up on Enter. Shorter lines
	// are discarded silently. The default of 2 drops single characters.
	MinCommitLen int

	Completion     CompletionMode
	DELIsBackspace bool

	// IdleDelayMS is how long Step sleeps when no byte is waiting.
	IdleDelayMS uint32

	StartupMessage string

	// Clock returns milliseconds since start for runtime-ms. Nil means
	// time since New.
	Clock func() uint64

	Log Logger
}

// DefaultOptions returns the device defaults.
func DefaultOptions() Options {
	return Options{
		Commands:       DefaultCommands,
		LineBuffer:     DefaultLineBuffer,
		MinCommitLen:   2,
		Completion:     CompleteContains,
		IdleDelayMS:    10,
		StartupMessage: "Starting nanoterm...",
	}
}

// Terminal owns the line buffer and registry for one port. Only its poll
// task touches the line buffer.
type Terminal struct {
	port Port
	opts Options
	log  Logger

	reg  *Registry
	line lineBuffer

	overrun bool
	began   bool
}

// New builds a terminal on port. Zero option fields take their defaults.
func New(port Port, opts Options) *Terminal {
	def := DefaultOptions()
	if opts.Commands <= 0 {
		opts.Commands = def.Commands
	}
	if opts.LineBuffer <= 0 {
		opts.LineBuffer = def.LineBuffer
	}
	if opts.MinCommitLen <= 0 {
		opts.MinCommitLen = def.MinCommitLen
	}
	if opts.IdleDelayMS == 0 {
		opts.IdleDelayMS = def.IdleDelayMS
	}
	if opts.Clock == nil {
		start := time.Now()
		opts.Clock = func() uint64 { return uint64(time.Since(start) / time.Millisecond) }
	}
	log := opts.Log
	if log == nil {
		log = nopLogger{}
	}

	return &Terminal{
		port: port,
		opts: opts,
		log:  log,
		reg:  NewRegistry(opts.Commands),
		line: newLineBuffer(opts.LineBuffer),
	}
}

// Registry exposes the command table.
func (t *Terminal) Registry() *Registry { return t.reg }

// RegisterCommand adds a command. When the registry is full the command is
// dropped, a message is written to the port and ErrRegistryFull is returned.
func (t *Terminal) RegisterCommand(name string, run func()) error {
	err := t.reg.Register(name, run)
	if err == nil {
		t.log.Debugw("command registered", "name", name, "count", t.reg.Len())
		if len(name) > len(t.line.buf) {
			t.log.Warnw("command name longer than line buffer",
				"name", name, "line_buffer", len(t.line.buf))
		}
		return nil
	}
	if isRegistryFull(err) {
		t.printf("Maximum number of commands already registered. Could not register %s!", name)
		t.log.Warnw("registry full", "name", name, "capacity", t.reg.Cap())
		return err
	}
	t.log.Warnw("command rejected", "name", name, "err", err)
	return err
}

// Begin waits for the port to be ready, prints the startup message and
// registers the built-in commands. Calling it again is a no-op.
// It does not start polling: schedule the terminal as a kernel task
// afterwards, as app.New does.
func (t *Terminal) Begin(ctx context.Context) error {
	if t.began {
		return nil
	}
	if r, ok := t.port.(readier); ok {
		idle := time.Duration(t.opts.IdleDelayMS) * time.Millisecond
		for !r.Ready() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idle):
			}
		}
	}

	t.println(t.opts.StartupMessage)
	t.began = true
	for _, b := range t.builtins() {
		_ = t.RegisterCommand(b.Name, b.Run)
	}
	t.log.Infow("terminal started",
		"commands", t.reg.Cap(),
		"line_buffer", len(t.line.buf),
	)
	return nil
}

// Step is the kernel task body: consume one byte if one is waiting,
// otherwise sleep for the idle delay.
func (t *Terminal) Step(ctx *kernel.Context) {
	if t.Poll() {
		return
	}
	ctx.Sleep(t.opts.IdleDelayMS)
}

// Poll processes at most one waiting byte and reports whether it did.
func (t *Terminal) Poll() bool {
	if t.port.Buffered() <= 0 {
		return false
	}
	b, err := t.port.ReadByte()
	if err != nil {
		return false
	}
	t.Feed(b)
	return true
}

// Line returns the text currently held in the line buffer.
func (t *Terminal) Line() string { return t.line.text() }
