package app

import (
	"errors"
	"strings"
	"testing"

	"nanoterm/kernel"
)

func TestPanicLines(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{
		TaskID:   3,
		TaskName: "mirror",
		Tick:     1500,
		Value:    errors.New("boom"),
		Stack:    []byte("goroutine 1\n\nmain.main()\n"),
	})
	want := []string{
		"nanoterm panic:",
		"task: 3 (mirror)",
		"at: 1500ms",
		"panic: boom",
		"stack:",
		"goroutine 1",
		"main.main()",
	}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("lines=%q\nwant  %q", lines, want)
	}
}

func TestPanicLinesWithoutStack(t *testing.T) {
	lines := panicLines(kernel.PanicInfo{TaskName: "terminal", Value: "x"})
	if got := lines[len(lines)-1]; got != "stack: unavailable" {
		t.Fatalf("last line %q", got)
	}
}

func TestDrawPanicWritesText(t *testing.T) {
	fb := newFakeFB(160, 40)
	drawPanic(fb, []string{"nanoterm panic:", "task: 0 (terminal)"})

	if fb.presents != 1 {
		t.Fatalf("presents=%d, want 1", fb.presents)
	}
	dark := 0
	for i := 0; i+1 < len(fb.buf); i += 2 {
		if fb.buf[i] == 0 && fb.buf[i+1] == 0 {
			dark++
		}
	}
	if dark == 0 {
		t.Fatal("no text pixels drawn")
	}
}
