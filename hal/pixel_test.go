package hal

import "testing"

func TestPixel565Primaries(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		r, g, b := pack565(c[0], c[1], c[2]).rgb()
		if r != c[0] || g != c[1] || b != c[2] {
			t.Fatalf("%v -> %d,%d,%d", c, r, g, b)
		}
	}
}

func TestLoad565LittleEndian(t *testing.T) {
	buf := []byte{0x00, 0xF8, 0x1F, 0x00}
	if p := load565(buf, 0); p != pack565(255, 0, 0) {
		t.Fatalf("red=%#04x", uint16(p))
	}
	if p := load565(buf, 2); p != pack565(0, 0, 255) {
		t.Fatalf("blue=%#04x", uint16(p))
	}
}
