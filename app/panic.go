package app

import (
	"fmt"
	"image/color"
	"strings"

	"nanoterm/hal"
	"nanoterm/kernel"
	"nanoterm/mirror"
	"nanoterm/terminal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	panicFontHeight = 10
	panicFontOffset = 6
)

// installPanicHandler reports a crashed task on the log line and, when a
// display is attached, on screen. The other tasks keep running.
func installPanicHandler(h hal.HAL, log terminal.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}
		if log != nil {
			log.Warnw("task panicked", "task", info.TaskName, "value", fmt.Sprint(info.Value))
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		if fb := disp.Framebuffer(); fb != nil {
			drawPanic(fb, lines)
		}
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"nanoterm panic:",
		fmt.Sprintf("task: %d (%s)", info.TaskID, info.TaskName),
		fmt.Sprintf("at: %dms", info.Tick),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// drawPanic writes straight to fb: the mirror task may be the one that
// crashed.
func drawPanic(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(255, 255, 255)
	d := mirror.NewDisplay(fb)
	fg := color.RGBA{A: 255}

	y := int16(panicFontOffset)
	for _, line := range lines {
		if int(y) > fb.Height() {
			break
		}
		tinyfont.WriteLine(d, &proggy.TinySZ8pt7b, 0, y, line, fg)
		y += panicFontHeight
	}
	_ = fb.Present()
}
