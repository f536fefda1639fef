// Package config holds the tunables of the serial terminal and its host
// runner.
package config

import (
	"errors"
	"fmt"
	"time"

	"nanoterm/kernel"
)

// Completion modes for the tab key.
const (
	CompletionContains = "contains"
	CompletionPrefix   = "prefix"
)

type Config struct {
	Terminal Terminal `yaml:"terminal"`
	Task     Task     `yaml:"task"`
	Log      Log      `yaml:"log"`
	Host     Host     `yaml:"host"`
}

type Terminal struct {
	// Commands is the registry capacity.
	Commands int `yaml:"commands"`
	// LineBuffer is the line buffer capacity in bytes.
	LineBuffer int `yaml:"line_buffer"`
	// IdleDelay is how long the poll task sleeps when no byte is waiting.
	IdleDelay time.Duration `yaml:"idle_delay"`
	// Completion is "contains" (match anywhere in the name) or "prefix".
	Completion string `yaml:"completion"`
	// MinCommitLen is the shortest line that is looked up on Enter.
	MinCommitLen   int    `yaml:"min_commit_len"`
	DELIsBackspace bool   `yaml:"del_is_backspace"`
	StartupMessage string `yaml:"startup_message"`
}

type Task struct {
	Priority   string `yaml:"priority"`
	StackBytes uint32 `yaml:"stack_bytes"`
}

type Log struct {
	Level string `yaml:"level"`
	// Mode is "dev" (console encoding) or "prod" (JSON).
	Mode string `yaml:"mode"`
	// File overrides the log path. Empty means the state directory.
	File string `yaml:"file"`
}

type Host struct {
	PTY    bool `yaml:"pty"`
	Window bool `yaml:"window"`
	Mirror bool `yaml:"mirror"`
	Hz     int  `yaml:"hz"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
}

// Default returns the device defaults: 10 commands, 30-byte line buffer,
// 10ms idle delay, normal priority with a 2 KiB stack. DEL erases on the
// host and is plain text on the device.
func Default() Config {
	return Config{
		Terminal: Terminal{
			Commands:       10,
			LineBuffer:     30,
			IdleDelay:      10 * time.Millisecond,
			Completion:     CompletionContains,
			MinCommitLen:   2,
			DELIsBackspace: defaultDELIsBackspace,
			StartupMessage: "Starting nanoterm...",
		},
		Task: Task{
			Priority:   kernel.PriorityNormal.String(),
			StackBytes: kernel.DefaultStackBytes,
		},
		Log: Log{
			Level: "info",
			Mode:  "prod",
		},
		Host: Host{
			Hz:     1000,
			Width:  320,
			Height: 240,
		},
	}
}

var ErrInvalid = errors.New("config: invalid")

// Validate reports the first invalid field.
func (c Config) Validate() error {
	t := c.Terminal
	switch {
	case t.Commands <= 0:
		return fmt.Errorf("%w: terminal.commands must be positive, got %d", ErrInvalid, t.Commands)
	case t.LineBuffer <= 0:
		return fmt.Errorf("%w: terminal.line_buffer must be positive, got %d", ErrInvalid, t.LineBuffer)
	case t.IdleDelay <= 0:
		return fmt.Errorf("%w: terminal.idle_delay must be positive, got %s", ErrInvalid, t.IdleDelay)
	case t.MinCommitLen < 1:
		return fmt.Errorf("%w: terminal.min_commit_len must be at least 1, got %d", ErrInvalid, t.MinCommitLen)
	}
	if t.Completion != CompletionContains && t.Completion != CompletionPrefix {
		return fmt.Errorf("%w: terminal.completion %q", ErrInvalid, t.Completion)
	}
	if _, ok := kernel.ParsePriority(c.Task.Priority); !ok {
		return fmt.Errorf("%w: task.priority %q", ErrInvalid, c.Task.Priority)
	}
	if c.Task.StackBytes < kernel.MinStackBytes {
		return fmt.Errorf("%w: task.stack_bytes %d below %d", ErrInvalid, c.Task.StackBytes, kernel.MinStackBytes)
	}
	if c.Host.Hz <= 0 {
		return fmt.Errorf("%w: host.hz must be positive, got %d", ErrInvalid, c.Host.Hz)
	}
	if (c.Host.Mirror || c.Host.Window) && (c.Host.Width <= 0 || c.Host.Height <= 0) {
		return fmt.Errorf("%w: host display %dx%d", ErrInvalid, c.Host.Width, c.Host.Height)
	}
	return nil
}

// Priority returns the parsed task priority, falling back to normal.
func (c Config) Priority() kernel.Priority {
	if p, ok := kernel.ParsePriority(c.Task.Priority); ok {
		return p
	}
	return kernel.PriorityNormal
}

// IdleDelayMS returns the idle delay in whole milliseconds, at least 1.
func (c Config) IdleDelayMS() uint32 {
	ms := c.Terminal.IdleDelay / time.Millisecond
	if ms < 1 {
		return 1
	}
	return uint32(ms)
}
