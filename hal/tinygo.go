//go:build tinygo && baremetal

package hal

import (
	"machine"
	"time"
)

type tinyGoHAL struct {
	logger *uartLogger
	serial *usbSerial
	t      *tinyGoTime
}

// New returns the HAL for an nRF52840 board (Arduino Nano 33 BLE).
//
// Console: USB CDC (machine.Serial). Log lines: UART0 on the TX/RX header
// pins, 115200 8N1.
func New() HAL {
	uart := machine.DefaultUART
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	_ = machine.Serial.Configure(machine.UARTConfig{})

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		serial: &usbSerial{port: machine.Serial},
		t:      newTinyGoTime(),
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) Serial() Serial   { return h.serial }
func (h *tinyGoHAL) Time() Time       { return h.t }
func (h *tinyGoHAL) Display() Display { return nil }

type tinyGoTime struct {
	ch  chan uint64
	seq uint64
}

func newTinyGoTime() *tinyGoTime {
	t := &tinyGoTime{ch: make(chan uint64, 16)}
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

func (t *tinyGoTime) Ticks() <-chan uint64 { return t.ch }

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type usbSerial struct {
	port machine.Serialer
}

func (s *usbSerial) Buffered() int { return s.port.Buffered() }

func (s *usbSerial) ReadByte() (byte, error) {
	if s.port.Buffered() == 0 {
		return 0, ErrNoData
	}
	return s.port.ReadByte()
}

func (s *usbSerial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Ready reports whether a host has opened the USB port (DTR asserted).
// Ports without DTR are always ready.
func (s *usbSerial) Ready() bool {
	if d, ok := s.port.(interface{ DTR() bool }); ok {
		return d.DTR()
	}
	return true
}
