//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

// HostConfig selects the host backends.
type HostConfig struct {
	// PTY exposes the console on a pseudo-terminal instead of stdin/stdout.
	PTY bool

	// Display allocates an in-memory framebuffer for the console mirror.
	Display bool
	Width   int
	Height  int

	// OnInterrupt is called when Ctrl-C arrives on the stdio console.
	OnInterrupt func()
}

type hostHAL struct {
	logger *hostLogger
	serial *hostSerial
	t      *hostTime
	fb     *hostFramebuffer
	kbd    *hostKeyboard
}

// New returns a host HAL implementation.
//
// Log lines go to stderr: stdout belongs to the console when PTY is off.
func New(cfg HostConfig) (HAL, error) {
	logger := &hostLogger{w: os.Stderr}

	var (
		serial *hostSerial
		err    error
	)
	if cfg.PTY {
		serial, err = openPTY(func(path string) {
			logger.WriteLineString("nanoterm: serial console on " + path)
		})
	} else {
		serial, err = openStdio(cfg.OnInterrupt)
	}
	if err != nil {
		return nil, err
	}

	h := &hostHAL{
		logger: logger,
		serial: serial,
		t:      newHostTime(),
	}
	if cfg.Display {
		if cfg.Width <= 0 || cfg.Height <= 0 {
			_ = serial.Close()
			return nil, fmt.Errorf("hal: invalid display size %dx%d", cfg.Width, cfg.Height)
		}
		h.fb = newHostFramebuffer(cfg.Width, cfg.Height)
		h.kbd = newHostKeyboard(serial.inject)
	}
	return h, nil
}

func (h *hostHAL) Logger() Logger { return h.logger }
func (h *hostHAL) Serial() Serial { return h.serial }
func (h *hostHAL) Time() Time     { return h.t }

func (h *hostHAL) Display() Display {
	if h.fb == nil {
		return nil
	}
	return hostDisplay{fb: h.fb}
}

// Close restores the terminal and releases the serial port.
func (h *hostHAL) Close() error {
	return h.serial.Close()
}

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, s, "\r\n")
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\r', '\n'})
}
