// Package effect applies per-frame image effects.
package effect

import (
	"image"
	"sync/atomic"

	"github.com/user/recstream/pkg/pipeline"
	"github.com/user/recstream/pkg/ports"
)

// Apply returns src transformed by kind.
// EffectNone returns src itself; every other kind allocates a new image.
// Unknown kinds behave like EffectNone.
func Apply(src *image.RGBA, kind ports.EffectKind) *image.RGBA {
	switch kind {
	case ports.EffectGrayscale:
		return Grayscale(src)
	case ports.EffectEdgeDetect:
		return EdgeDetect(src, DefaultLowThreshold, DefaultHighThreshold)
	case ports.EffectBlur:
		return GaussianBlur(src, DefaultBlurKernel)
	case ports.EffectSepia:
		return Sepia(src)
	default:
		return src
	}
}

// Processor holds the effect in force and applies it to frames.
// Set may be called from any goroutine.
type Processor struct {
	current atomic.Int32
}

// NewProcessor creates a Processor with EffectNone selected.
func NewProcessor() *Processor {
	return &Processor{}
}

// Set selects the effect applied to subsequent frames.
func (p *Processor) Set(kind ports.EffectKind) error {
	if !kind.Valid() {
		return pipeline.Errorf(pipeline.KindConfiguration, "unknown effect id %d", int(kind))
	}
	p.current.Store(int32(kind))
	return nil
}

// SetID validates a raw effect id and selects it.
func (p *Processor) SetID(id int) (ports.EffectKind, error) {
	if id < int(ports.EffectNone) || id > int(ports.EffectSepia) {
		return p.Current(), pipeline.Errorf(pipeline.KindConfiguration, "effect id must be 0-4, got %d", id)
	}
	kind := ports.EffectKind(id)
	p.current.Store(int32(kind))
	return kind, nil
}

// Current returns the selected effect.
func (p *Processor) Current() ports.EffectKind {
	return ports.EffectKind(p.current.Load())
}

// Apply implements ports.ImageEffect.
func (p *Processor) Apply(src *image.RGBA, kind ports.EffectKind) *image.RGBA {
	return Apply(src, kind)
}

// ApplyCurrent applies the selected effect to src.
func (p *Processor) ApplyCurrent(src *image.RGBA) *image.RGBA {
	return Apply(src, p.Current())
}

var _ ports.ImageEffect = (*Processor)(nil)
