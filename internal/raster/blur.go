package raster

import "math"

// GaussianBlur returns a blurred copy of the buffer using a separable
// Gaussian kernel. The radius is clamped to [2, 5]; sigma follows the
// OpenCV convention for an automatically derived kernel width.
func GaussianBlur(g *Gray, radius int) *Gray {
	if !g.Valid() {
		return g
	}
	if radius < 2 {
		radius = 2
	}
	if radius > 5 {
		radius = 5
	}

	kernel := gaussianKernel(radius)
	w, h := g.W, g.H

	// Horizontal pass
	tmp := NewGray(w, h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*w:]
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				xi := x + k
				if xi < 0 {
					xi = 0
				} else if xi >= w {
					xi = w - 1
				}
				sum += kernel[k+radius] * float64(row[xi])
			}
			tmp.Pix[y*w+x] = uint8(sum + 0.5)
		}
	}

	// Vertical pass
	out := NewGray(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float64
			for k := -radius; k <= radius; k++ {
				yi := y + k
				if yi < 0 {
					yi = 0
				} else if yi >= h {
					yi = h - 1
				}
				sum += kernel[k+radius] * float64(tmp.Pix[yi*w+x])
			}
			out.Pix[y*w+x] = uint8(sum + 0.5)
		}
	}

	return out
}

func gaussianKernel(radius int) []float64 {
	// Matches OpenCV's derived sigma for ksize = 2*radius+1.
	sigma := 0.3*(float64(radius)-1) + 0.8
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
