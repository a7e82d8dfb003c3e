// Package testpattern draws synthetic frames with the gg library. The pattern
// makes pacing visible in a recording: a bar sweeps once per second and the
// frame number and capture time are printed in the corner.
package testpattern

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Color bars across the top, SMPTE order.
var bars = []color.RGBA{
	{192, 192, 192, 255},
	{192, 192, 0, 255},
	{0, 192, 192, 255},
	{0, 192, 0, 255},
	{192, 0, 192, 255},
	{192, 0, 0, 255},
	{0, 0, 192, 255},
}

// Renderer draws pattern frames of a fixed size.
type Renderer struct {
	width  int
	height int
}

// New creates a Renderer.
func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Size returns the frame dimensions.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws frame n captured elapsed after the source started.
func (r *Renderer) Render(n int, elapsed time.Duration) *image.RGBA {
	w, h := float64(r.width), float64(r.height)
	dc := gg.NewContext(r.width, r.height)

	// background slowly cycles through hues
	phase := elapsed.Seconds() / 8
	dc.SetRGB(
		0.25+0.15*math.Sin(2*math.Pi*phase),
		0.25+0.15*math.Sin(2*math.Pi*(phase+1.0/3)),
		0.25+0.15*math.Sin(2*math.Pi*(phase+2.0/3)),
	)
	dc.Clear()

	barH := h / 4
	barW := w / float64(len(bars))
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*barW, 0, math.Ceil(barW), barH)
		dc.Fill()
	}

	frac := math.Mod(elapsed.Seconds(), 1)
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(frac*(w-4), barH, 4, h-barH)
	dc.Fill()

	radius := math.Min(w, h) / 10
	cx := w/2 + (w/4)*math.Cos(2*math.Pi*frac)
	cy := (h+barH)/2 + (h/4-barH/4)*math.Sin(2*math.Pi*frac)
	dc.SetRGB(1, 0.6, 0)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(
		fmt.Sprintf("#%d  %.3fs", n, elapsed.Seconds()),
		8, h-8, 0, 0,
	)

	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Copy(out, image.Point{}, dc.Image(), dc.Image().Bounds(), draw.Src, nil)
	return out
}

// RenderJPEG draws frame n and encodes it as JPEG.
func (r *Renderer) RenderJPEG(n int, elapsed time.Duration, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r.Render(n, elapsed), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
