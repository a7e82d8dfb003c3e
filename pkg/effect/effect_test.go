package effect

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

func fill(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyNoneReturnsInput(t *testing.T) {
	src := fill(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	if got := Apply(src, ports.EffectNone); got != src {
		t.Error("EffectNone should return the input image")
	}
}

func TestApplyAllocates(t *testing.T) {
	src := fill(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	for _, kind := range []ports.EffectKind{ports.EffectGrayscale, ports.EffectEdgeDetect, ports.EffectBlur, ports.EffectSepia} {
		t.Run(kind.String(), func(t *testing.T) {
			dst := Apply(src, kind)
			if dst == src {
				t.Fatal("effect should allocate a new image")
			}
			if dst.Rect != src.Rect {
				t.Errorf("bounds = %v, want %v", dst.Rect, src.Rect)
			}
		})
	}
}

func TestGrayscale(t *testing.T) {
	src := fill(2, 2, color.RGBA{R: 255, G: 0, B: 0, A: 128})
	got := Grayscale(src).RGBAAt(0, 0)
	// 0.299 * 255 = 76.2
	if got.R != 76 || got.G != 76 || got.B != 76 {
		t.Errorf("gray = %v, want 76", got)
	}
	if got.A != 128 {
		t.Errorf("alpha = %d, want 128", got.A)
	}
}

func TestSepiaClamps(t *testing.T) {
	got := Sepia(fill(1, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})).RGBAAt(0, 0)
	if got.R != 255 || got.G != 255 {
		t.Errorf("white sepia = %v, want clamped R and G", got)
	}
	// 0.272 + 0.534 + 0.131 = 0.937
	if got.B < 238 || got.B > 239 {
		t.Errorf("white sepia B = %d, want 238.9 rounded either way", got.B)
	}
	if a := Sepia(fill(1, 1, color.RGBA{R: 10, A: 90})).RGBAAt(0, 0).A; a != 90 {
		t.Errorf("sepia alpha = %d, want 90", a)
	}
}

func TestGaussianKernel(t *testing.T) {
	k := gaussianKernel(DefaultBlurKernel)
	if len(k) != 15 {
		t.Fatalf("len = %d, want 15", len(k))
	}
	var sum float64
	for _, v := range k {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("kernel sum = %v, want 1", sum)
	}
	if k[7] <= k[6] || k[0] != k[14] {
		t.Error("kernel should be symmetric with its peak in the middle")
	}
}

func TestBlurPreservesFlatImage(t *testing.T) {
	c := color.RGBA{R: 40, G: 120, B: 200, A: 77}
	got := GaussianBlur(fill(20, 20, c), DefaultBlurKernel)
	near := func(a, b uint8) bool { return a == b || a+1 == b || a == b+1 }
	for _, p := range []image.Point{{0, 0}, {10, 10}, {19, 19}} {
		px := got.RGBAAt(p.X, p.Y)
		if !near(px.R, c.R) || !near(px.G, c.G) || !near(px.B, c.B) || px.A != c.A {
			t.Errorf("pixel %v = %v, want %v", p, px, c)
		}
	}
}

func TestBlurSmoothsStep(t *testing.T) {
	src := fill(30, 4, color.RGBA{A: 255})
	for y := 0; y < 4; y++ {
		for x := 15; x < 30; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	got := GaussianBlur(src, DefaultBlurKernel)
	left, right := got.RGBAAt(14, 2).R, got.RGBAAt(15, 2).R
	if left == 0 || right == 255 {
		t.Errorf("step not smoothed: left=%d right=%d", left, right)
	}
	if left >= right {
		t.Errorf("blur should keep ordering: left=%d right=%d", left, right)
	}
}

func TestEdgeDetect(t *testing.T) {
	src := fill(16, 16, color.RGBA{A: 255})
	for y := 0; y < 16; y++ {
		for x := 8; x < 16; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	got := EdgeDetect(src, DefaultLowThreshold, DefaultHighThreshold)

	edges := 0
	for x := 0; x < 16; x++ {
		px := got.RGBAAt(x, 8)
		if px.R == 255 {
			edges++
			if x != 7 && x != 8 {
				t.Errorf("edge at x=%d, want next to the step", x)
			}
		} else if px.R != 0 {
			t.Errorf("pixel x=%d = %d, want black or white", x, px.R)
		}
		if px.A != 255 {
			t.Errorf("alpha at x=%d = %d", x, px.A)
		}
	}
	if edges != 1 {
		t.Errorf("found %d edge pixels in row, want 1 after suppression", edges)
	}

	flat := EdgeDetect(fill(16, 16, color.RGBA{R: 90, A: 255}), DefaultLowThreshold, DefaultHighThreshold)
	if flat.RGBAAt(8, 8).R != 0 {
		t.Error("flat image should have no edges")
	}
}

func TestEdgeDetectTinyImage(t *testing.T) {
	got := EdgeDetect(fill(2, 2, color.RGBA{R: 255, A: 200}), 100, 200)
	if got.RGBAAt(1, 1) != (color.RGBA{A: 200}) {
		t.Errorf("tiny image = %v, want black with source alpha", got.RGBAAt(1, 1))
	}
}

func TestProcessor(t *testing.T) {
	p := NewProcessor()
	if p.Current() != ports.EffectNone {
		t.Errorf("initial effect = %v, want none", p.Current())
	}

	kind, err := p.SetID(4)
	if err != nil {
		t.Fatalf("SetID(4) failed: %v", err)
	}
	if kind != ports.EffectSepia || p.Current() != ports.EffectSepia {
		t.Errorf("effect = %v, want sepia", p.Current())
	}

	for _, id := range []int{-1, 5, 99} {
		kind, err := p.SetID(id)
		if !errors.Is(err, pipeline.ErrConfiguration) {
			t.Errorf("SetID(%d) error = %v, want configuration error", id, err)
		}
		if kind != ports.EffectSepia {
			t.Errorf("SetID(%d) changed effect to %v", id, kind)
		}
	}

	if err := p.Set(ports.EffectKind(7)); !errors.Is(err, pipeline.ErrConfiguration) {
		t.Errorf("Set(7) error = %v, want configuration error", err)
	}

	src := fill(2, 2, color.RGBA{R: 255, A: 255})
	if err := p.Set(ports.EffectNone); err != nil {
		t.Fatal(err)
	}
	if p.ApplyCurrent(src) != src {
		t.Error("ApplyCurrent with none should return input")
	}
}
