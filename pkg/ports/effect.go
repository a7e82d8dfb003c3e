package ports

import "image"

// EffectKind identifies a per-frame image effect.
type EffectKind int32

const (
	EffectNone EffectKind = iota
	EffectGrayscale
	EffectEdgeDetect
	EffectBlur
	EffectSepia
)

// String returns the effect name.
func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectGrayscale:
		return "grayscale"
	case EffectEdgeDetect:
		return "edge"
	case EffectBlur:
		return "blur"
	case EffectSepia:
		return "sepia"
	default:
		return "unknown"
	}
}

// Valid reports whether k is a known effect.
func (k EffectKind) Valid() bool {
	return k >= EffectNone && k <= EffectSepia
}

// ParseEffectKind parses an effect name. Unknown names map to EffectNone.
func ParseEffectKind(s string) EffectKind {
	switch s {
	case "grayscale", "gray":
		return EffectGrayscale
	case "edge", "edges", "canny":
		return EffectEdgeDetect
	case "blur":
		return EffectBlur
	case "sepia":
		return EffectSepia
	default:
		return EffectNone
	}
}

// ImageEffect abstracts a pure image transform.
type ImageEffect interface {
	// Apply returns src transformed by kind. The result never aliases src
	// unless kind is EffectNone, in which case src itself is returned.
	Apply(src *image.RGBA, kind EffectKind) *image.RGBA
}
