package effect

import (
	"image"

	bildeffect "github.com/anthonynsimon/bild/effect"
)

// luma returns the BT.601 luma of an RGB triple, rounded.
func luma(r, g, b uint8) uint8 {
	// 0.299, 0.587, 0.114 in 16.16 fixed point
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}

func newLike(src *image.RGBA) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
}

// Grayscale converts src to BT.601 luma replicated across RGB.
func Grayscale(src *image.RGBA) *image.RGBA {
	dst := newLike(src)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for i := 0; i < len(s); i += 4 {
			l := luma(s[i], s[i+1], s[i+2])
			d[i], d[i+1], d[i+2], d[i+3] = l, l, l, s[i+3]
		}
	}
	return dst
}

// Sepia applies the classic sepia tone matrix.
func Sepia(src *image.RGBA) *image.RGBA {
	return bildeffect.Sepia(src)
}

// lumaPlane extracts a w*h luma plane from src.
func lumaPlane(src *image.RGBA) []uint8 {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		row := out[y*w : (y+1)*w]
		for x := range row {
			row[x] = luma(s[x*4], s[x*4+1], s[x*4+2])
		}
	}
	return out
}
