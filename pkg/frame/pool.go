package frame

import (
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// Pool recycles pixel buffers of a single frame size.
//
// Buffers of any other size are allocated normally and dropped on release.
type Pool struct {
	width  int
	height int
	images sync.Pool

	allocated atomic.Int64
	reused    atomic.Int64
}

// NewPool creates a pool for width x height RGBA frames.
func NewPool(width, height int) *Pool {
	return &Pool{width: width, height: height}
}

// Get returns a frame wrapping a buffer of the pool size. Recycled buffers
// keep their previous contents.
// The caller owns the frame and must eventually Release it.
func (p *Pool) Get(ts time.Time) *Frame {
	return &Frame{Image: p.getImage(p.width, p.height), Timestamp: ts, pool: p}
}

// Adopt wraps an existing image so that its buffer returns to the pool when
// the frame is released.
func (p *Pool) Adopt(img *image.RGBA, ts time.Time) *Frame {
	return &Frame{Image: img, Timestamp: ts, pool: p}
}

// Allocated returns the number of buffers allocated by the pool.
func (p *Pool) Allocated() int64 {
	return p.allocated.Load()
}

// Reused returns the number of buffers served from the free list.
func (p *Pool) Reused() int64 {
	return p.reused.Load()
}

func (p *Pool) getImage(width, height int) *image.RGBA {
	if width == p.width && height == p.height {
		if v := p.images.Get(); v != nil {
			p.reused.Add(1)
			return v.(*image.RGBA)
		}
	}
	p.allocated.Add(1)
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (p *Pool) put(img *image.RGBA) {
	if img == nil || img.Rect.Dx() != p.width || img.Rect.Dy() != p.height || img.Rect.Min != (image.Point{}) {
		return
	}
	p.images.Put(img)
}
