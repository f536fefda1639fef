//go:build !tinygo && cgo

package hal

import (
	"fmt"
	"image"
	"io"

	"nanoterm/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window that shows the framebuffer and turns
// typed keys into serial input. It blocks until the window closes.
func RunWindow(h HAL, newApp func(HAL) (func() error, error)) error {
	hh, ok := h.(*hostHAL)
	if !ok {
		return fmt.Errorf("hal: window runner needs the host HAL, got %T", h)
	}
	if hh.fb == nil {
		return fmt.Errorf("hal: window runner needs a display")
	}
	if c, ok := h.(io.Closer); ok {
		defer c.Close()
	}

	step, err := newApp(hh)
	if err != nil {
		return err
	}

	g := &hostGame{h: hh, step: step}
	ebiten.SetWindowTitle("nanoterm (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(hh.fb.width*2, hh.fb.height*2)
	ebiten.SetTPS(250)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	frame   uint64
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.frame = 0
	}

	frame, fresh := fb.snapshotRGB565(g.scratch, g.frame)
	if !fresh {
		screen.DrawImage(g.fbImg, nil)
		return
	}
	g.frame = frame

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := load565(src, i).rgb()
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
