//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// hostKeyboard feeds window key presses into the serial receive path, so the
// window behaves like a terminal attached to the port.
type hostKeyboard struct {
	inject func(byte) bool
	chars  []rune
}

func newHostKeyboard(inject func(byte) bool) *hostKeyboard {
	return &hostKeyboard{inject: inject}
}

func (k *hostKeyboard) poll() {
	if k == nil || k.inject == nil {
		return
	}

	k.chars = ebiten.AppendInputChars(k.chars[:0])
	for _, r := range k.chars {
		// Single-byte input only.
		if r < 0x20 || r > 0x7e {
			continue
		}
		k.inject(byte(r))
	}

	for _, key := range []struct {
		key ebiten.Key
		b   byte
	}{
		{ebiten.KeyEnter, '\r'},
		{ebiten.KeyNumpadEnter, '\r'},
		{ebiten.KeyBackspace, '\b'},
		{ebiten.KeyTab, '\t'},
	} {
		if inpututil.IsKeyJustPressed(key.key) {
			k.inject(key.b)
		}
	}
}
