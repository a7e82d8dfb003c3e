package testpattern

import (
	"bytes"
	"image/jpeg"
	"testing"
	"time"
)

func TestRenderSize(t *testing.T) {
	r := New(320, 240)
	img := r.Render(0, 0)
	if got := img.Bounds().Size(); got.X != 320 || got.Y != 240 {
		t.Fatalf("size = %v, want 320x240", got)
	}
	if img.Pix[3] != 255 {
		t.Errorf("alpha = %d, want opaque", img.Pix[3])
	}
}

func TestRenderChangesOverTime(t *testing.T) {
	r := New(160, 120)
	a := r.Render(0, 0)
	b := r.Render(15, 500*time.Millisecond)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("frames half a second apart should differ")
	}
}

func TestRenderJPEG(t *testing.T) {
	r := New(64, 48)
	data, err := r.RenderJPEG(3, 100*time.Millisecond, 80)
	if err != nil {
		t.Fatalf("RenderJPEG: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Errorf("decoded size = %v", img.Bounds())
	}
}
