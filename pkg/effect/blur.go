package effect

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// DefaultBlurKernel is the Gaussian kernel size used by EffectBlur.
const DefaultBlurKernel = 15

// gaussianKernel returns normalized weights for an odd ksize, deriving sigma
// from the kernel size the way OpenCV does when sigma is zero.
func gaussianKernel(ksize int) []float64 {
	sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
	k := make([]float64, ksize)
	half := ksize / 2
	var sum float64
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// GaussianBlur applies a separable ksize x ksize Gaussian blur to the color
// channels of src. Alpha is copied unchanged and edge pixels are extended.
// ksize is rounded up to odd.
func GaussianBlur(src *image.RGBA, ksize int) *image.RGBA {
	if ksize < 1 {
		ksize = 1
	}
	if ksize%2 == 0 {
		ksize++
	}
	row := convolution.NewKernel(ksize, 1)
	copy(row.Matrix, gaussianKernel(ksize))

	opts := &convolution.Options{KeepAlpha: true}
	out := convolution.Convolve(src, row, opts)
	return convolution.Convolve(out, row.Transposed(), opts)
}
