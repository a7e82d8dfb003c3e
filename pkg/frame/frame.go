// Package frame provides owned video frames and the ordered frame queue
// that sits between ingest and the pacing scheduler.
package frame

import (
	"image"
	"sync/atomic"
	"time"
)

// Frame is an RGBA image with its capture timestamp.
//
// A Frame has exactly one owner at a time. Ownership moves from the producer
// into the Queue on Push and from the Queue to the scheduler on Pop; the
// final owner calls Release once the frame has been written.
type Frame struct {
	Image     *image.RGBA
	Timestamp time.Time

	pool     *Pool
	released atomic.Bool
}

// New wraps img as a Frame that is not backed by a pool.
func New(img *image.RGBA, ts time.Time) *Frame {
	return &Frame{Image: img, Timestamp: ts}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int {
	return f.Image.Rect.Dx()
}

// Height returns the frame height in pixels.
func (f *Frame) Height() int {
	return f.Image.Rect.Dy()
}

// Clone returns an independent copy of f, drawn from the same pool.
func (f *Frame) Clone() *Frame {
	var dst *image.RGBA
	if f.pool != nil {
		dst = f.pool.getImage(f.Width(), f.Height())
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, f.Width(), f.Height()))
	}
	copyPixels(dst, f.Image)
	return &Frame{Image: dst, Timestamp: f.Timestamp, pool: f.pool}
}

// Release returns the pixel buffer to its pool. Only the first call has an
// effect; it reports whether this call performed the release.
func (f *Frame) Release() bool {
	if !f.released.CompareAndSwap(false, true) {
		return false
	}
	if f.pool != nil {
		f.pool.put(f.Image)
	}
	f.Image = nil
	return true
}

// Released reports whether Release has been called.
func (f *Frame) Released() bool {
	return f.released.Load()
}

func copyPixels(dst, src *image.RGBA) {
	w := src.Rect.Dx() * 4
	h := src.Rect.Dy()
	if src.Stride == w && dst.Stride == w {
		copy(dst.Pix, src.Pix[:w*h])
		return
	}
	for y := 0; y < h; y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
}
