package mirror

import (
	"image/color"

	"nanoterm/hal"

	"tinygo.org/x/drivers"
)

// fbDisplay adapts an RGB565 framebuffer to the tinyterm Displayer API.
type fbDisplay struct {
	fb hal.Framebuffer
}

// NewDisplay wraps an RGB565 framebuffer as a drivers.Displayer.
func NewDisplay(fb hal.Framebuffer) drivers.Displayer {
	return &fbDisplay{fb: fb}
}

// pixels returns the buffer, width and height when the framebuffer can be
// drawn on.
func (d *fbDisplay) pixels() (buf []byte, w, h int, ok bool) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return nil, 0, 0, false
	}
	buf = d.fb.Buffer()
	w, h = d.fb.Width(), d.fb.Height()
	return buf, w, h, buf != nil && w > 0 && h > 0
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	buf, w, h, ok := d.pixels()
	if !ok || x < 0 || y < 0 || int(x) >= w || int(y) >= h {
		return
	}
	putPixel(buf, int(y)*d.fb.StrideBytes()+int(x)*2, rgb565(c))
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	buf, w, h, ok := d.pixels()
	if !ok {
		return nil
	}
	x0, x1 := clamp(int(x), 0, w), clamp(int(x)+int(width), 0, w)
	y0, y1 := clamp(int(y), 0, h), clamp(int(y)+int(height), 0, h)

	p := rgb565(c)
	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			putPixel(buf, py*stride+px*2, p)
		}
	}
	return nil
}

// ScrollUp moves the picture up by lines rows and blanks the bottom.
func (d *fbDisplay) ScrollUp(lines int16, bg color.RGBA) error {
	buf, w, h, ok := d.pixels()
	if !ok || lines <= 0 {
		return nil
	}
	n := int(lines)
	if n >= h {
		return d.FillRectangle(0, 0, int16(w), int16(h), bg)
	}
	stride := d.fb.StrideBytes()
	keep := (h - n) * stride
	if n*stride+keep > len(buf) {
		return d.FillRectangle(0, 0, int16(w), int16(h), bg)
	}
	copy(buf[:keep], buf[n*stride:n*stride+keep])
	return d.FillRectangle(0, int16(h-n), int16(w), int16(n), bg)
}

// SetScroll is a no-op: the framebuffer has no hardware scroll.
func (d *fbDisplay) SetScroll(int16) {}

func (d *fbDisplay) SetRotation(drivers.Rotation) error { return nil }

func putPixel(buf []byte, off int, p uint16) {
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(p)
	buf[off+1] = byte(p >> 8)
}

func rgb565(c color.RGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
