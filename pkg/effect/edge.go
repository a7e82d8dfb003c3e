package effect

import (
	"image"
)

// Canny thresholds used by EffectEdgeDetect.
const (
	DefaultLowThreshold  = 100
	DefaultHighThreshold = 200
)

// EdgeDetect runs Canny edge detection on the luma of src and renders edges
// white on black. Alpha is copied from src.
//
// Gradients come from 3x3 Sobel operators with L1 magnitude. After
// non-maximum suppression, pixels at or above high seed edges and pixels
// above low join an edge when 8-connected to one.
func EdgeDetect(src *image.RGBA, low, high int) *image.RGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := newLike(src)
	if w < 3 || h < 3 {
		copyAlpha(dst, src)
		return dst
	}

	lum := lumaPlane(src)
	mag := make([]int32, w*h)
	dir := make([]uint8, w*h)

	at := func(x, y int) int32 {
		return int32(lum[reflect101(y, h)*w+reflect101(x, w)])
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag[y*w+x] = abs32(gx) + abs32(gy)
			dir[y*w+x] = quantizeDirection(gx, gy)
		}
	}

	// 0 = suppressed, 1 = weak candidate, 2 = strong edge
	state := make([]uint8, w*h)
	stack := make([]int, 0, 64)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := mag[i]
			if m <= int32(low) {
				continue
			}
			var a, b int32
			switch dir[i] {
			case 0:
				a, b = mag[i-1], mag[i+1]
			case 1:
				a, b = mag[i-w+1], mag[i+w-1]
			case 2:
				a, b = mag[i-w], mag[i+w]
			default:
				a, b = mag[i-w-1], mag[i+w+1]
			}
			if m < a || m <= b {
				continue
			}
			if m >= int32(high) {
				state[i] = 2
				stack = append(stack, i)
			} else {
				state[i] = 1
			}
		}
	}

	// hysteresis
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == 1 {
					state[j] = 2
					stack = append(stack, j)
				}
			}
		}
	}

	for y := 0; y < h; y++ {
		d := dst.Pix[y*dst.Stride:]
		s := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			if state[y*w+x] == 2 {
				d[x*4], d[x*4+1], d[x*4+2] = 255, 255, 255
			}
			d[x*4+3] = s[x*4+3]
		}
	}
	return dst
}

// quantizeDirection buckets the gradient angle into 0°, 45°, 90° or 135°.
func quantizeDirection(gx, gy int32) uint8 {
	ax, ay := abs32(gx), abs32(gy)
	// tan(22.5°) ≈ 0.4142 and tan(67.5°) ≈ 2.4142, scaled by 10000
	switch {
	case ay*10000 <= ax*4142:
		return 0
	case ay*10000 >= ax*24142:
		return 2
	case (gx > 0) == (gy > 0):
		return 3
	default:
		return 1
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func copyAlpha(dst, src *image.RGBA) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Pix[y*dst.Stride+x*4+3] = src.Pix[y*src.Stride+x*4+3]
		}
	}
}

// reflect101 maps an out-of-range index back into [0, n) mirroring around
// the edge pixel.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
