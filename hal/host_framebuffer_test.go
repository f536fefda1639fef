//go:build !tinygo

package hal

import "testing"

func TestFramebufferSnapshotOnlyAfterPresent(t *testing.T) {
	fb := newHostFramebuffer(2, 1)
	dst := make([]byte, len(fb.buf))

	if _, ok := fb.snapshotRGB565(dst, 0); ok {
		t.Fatal("snapshot before any Present")
	}
	fb.ClearRGB(255, 255, 255)
	_ = fb.Present()

	frame, ok := fb.snapshotRGB565(dst, 0)
	if !ok || frame != 1 {
		t.Fatalf("frame=%d ok=%v, want 1 true", frame, ok)
	}
	if dst[0] != 0xFF || dst[3] != 0xFF {
		t.Fatalf("dst=%x, want white", dst)
	}
	if _, ok := fb.snapshotRGB565(dst, frame); ok {
		t.Fatal("snapshot repeated without a new Present")
	}
}
