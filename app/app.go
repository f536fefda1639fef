package app

import (
	"context"
	"fmt"

	"nanoterm/config"
	"nanoterm/hal"
	"nanoterm/kernel"
	"nanoterm/mirror"
	"nanoterm/terminal"
)

// stepBudget caps how many task steps run per HAL tick on the host.
const stepBudget = 256

// System is the running console: HAL, kernel and the tasks on it.
type System struct {
	h      hal.HAL
	k      *kernel.Kernel
	term   *terminal.Terminal
	mirror *mirror.Service
}

// New validates cfg, starts the terminal on the HAL serial port and
// schedules its tasks. It blocks in Terminal.Begin until the port is ready.
func New(ctx context.Context, h hal.HAL, cfg config.Config, log terminal.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	serial := h.Serial()
	if serial == nil {
		return nil, fmt.Errorf("app: HAL has no serial port")
	}

	s := &System{h: h, k: kernel.New()}

	var port terminal.Port = serial
	if cfg.Host.Mirror || cfg.Host.Window {
		if disp := h.Display(); disp != nil {
			s.mirror = mirror.New(disp)
			port = teePort{Serial: serial, mirror: s.mirror}
		}
	}

	s.term = terminal.New(port, terminalOptions(cfg, s.k, log))
	installPanicHandler(h, log)

	if err := s.term.Begin(ctx); err != nil {
		return nil, fmt.Errorf("app: terminal begin: %w", err)
	}
	if _, err := s.k.AddTask(s.term, kernel.TaskConfig{
		Name:       "terminal",
		Priority:   cfg.Priority(),
		StackBytes: cfg.Task.StackBytes,
	}); err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if _, err := s.k.AddTask(s.mirror, kernel.TaskConfig{Name: "mirror", Priority: kernel.PriorityLow}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func terminalOptions(cfg config.Config, k *kernel.Kernel, log terminal.Logger) terminal.Options {
	opts := terminal.Options{
		Commands:       cfg.Terminal.Commands,
		LineBuffer:     cfg.Terminal.LineBuffer,
		MinCommitLen:   cfg.Terminal.MinCommitLen,
		DELIsBackspace: cfg.Terminal.DELIsBackspace,
		IdleDelayMS:    cfg.IdleDelayMS(),
		StartupMessage: cfg.Terminal.StartupMessage,
		Clock:          k.NowTick,
		Log:            log,
	}
	if cfg.Terminal.Completion == config.CompletionPrefix {
		opts.Completion = terminal.CompletePrefix
	}
	return opts
}

// Terminal returns the console so callers can register commands.
func (s *System) Terminal() *terminal.Terminal { return s.term }

// Kernel returns the scheduler.
func (s *System) Kernel() *kernel.Kernel { return s.k }

// Step advances the clock from the HAL tick stream and runs ready tasks.
// Host runners call it once per tick.
func (s *System) Step() error {
	s.drainTicks()
	for i := 0; i < stepBudget; i++ {
		if !s.k.Step() {
			break
		}
	}
	return nil
}

func (s *System) drainTicks() {
	ht := s.h.Time()
	if ht == nil {
		return
	}
	ch := ht.Ticks()
	if ch == nil {
		return
	}
	for {
		select {
		case seq := <-ch:
			s.k.TickTo(seq)
		default:
			return
		}
	}
}

// Run forwards HAL ticks to the kernel and schedules tasks until ctx ends.
func (s *System) Run(ctx context.Context) error {
	if ht := s.h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case seq := <-ch:
						s.k.TickTo(seq)
					}
				}
			}()
		}
	}
	return s.k.Run(ctx)
}

// Run starts the console with cfg and blocks forever (TinyGo entrypoint).
func Run(h hal.HAL, cfg config.Config, log terminal.Logger) {
	s, err := New(context.Background(), h, cfg, log)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("nanoterm: " + err.Error())
		}
		select {}
	}
	_ = s.Run(context.Background())
	select {}
}

// teePort copies console output to the display mirror.
type teePort struct {
	hal.Serial
	mirror *mirror.Service
}

func (p teePort) Write(b []byte) (int, error) {
	n, err := p.Serial.Write(b)
	_, _ = p.mirror.Write(b[:n])
	return n, err
}
