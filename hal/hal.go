package hal

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")
	// ErrNoData is returned by Serial.ReadByte when the RX buffer is empty.
	ErrNoData = errors.New("serial: no data")
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Serial is a duplex byte channel with a bounded receive buffer.
//
// ReadByte never blocks; callers poll Buffered first.
type Serial interface {
	Buffered() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)

	// Ready reports whether the port is open on the far side.
	Ready() bool
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// Each value is the number of milliseconds since the HAL started.
type Time interface {
	Ticks() <-chan uint64
}

// HAL provides the only contact point between the system and the outside world.
//
// Display may return nil on boards without a screen.
type HAL interface {
	Logger() Logger
	Serial() Serial
	Time() Time
	Display() Display
}
