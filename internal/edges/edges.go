// Package edges builds binary edge maps from grayscale frames by combining
// multi-threshold gradient passes with an adaptive local-mean threshold,
// refined by light morphology.
package edges

import (
	"math"

	"cardscan/internal/raster"
)

// ThresholdPair holds the weak/strong magnitude thresholds of one gradient pass.
type ThresholdPair struct {
	Low  float64
	High float64
}

// Options configures edge map construction.
type Options struct {
	GaussianRadius     int             // noise-reduction blur radius, clamped to [2,5]
	GradientThresholds []ThresholdPair // one hysteresis pass per pair
	AdaptiveBlock      int             // local-mean window size (odd)
	AdaptiveC          float64         // constant subtracted from the local mean
	DilatePasses       int
	ErodePasses        int
	FinalDilatePasses  int
}

// DefaultOptions returns edge detection options tuned for ID-card outlines
// under varying lighting.
func DefaultOptions() Options {
	return Options{
		GaussianRadius: 2,
		GradientThresholds: []ThresholdPair{
			{Low: 20, High: 80},
			{Low: 40, High: 120},
			{Low: 30, High: 100},
		},
		AdaptiveBlock:     11,
		AdaptiveC:         2,
		DilatePasses:      3,
		ErodePasses:       1,
		FinalDilatePasses: 1,
	}
}

// Build converts a grayscale buffer into a binary edge map. Each gradient
// threshold pair produces a hysteresis-linked pass, all passes are OR-combined
// with the adaptive threshold pass, and the result is closed up with
// dilate/erode/dilate. Malformed input yields an all-zero map.
func Build(g *raster.Gray, opts Options) *raster.Binary {
	if !g.Valid() {
		if g != nil {
			return raster.NewBinary(g.W, g.H)
		}
		return raster.NewBinary(0, 0)
	}

	blurred := raster.GaussianBlur(g, opts.GaussianRadius)
	mag := sobelMagnitude(blurred)

	out := raster.NewBinary(g.W, g.H)
	for _, pair := range opts.GradientThresholds {
		out.Or(hysteresisPass(mag, g.W, g.H, pair.Low, pair.High))
	}
	out.Or(adaptiveThreshold(blurred, opts.AdaptiveBlock, opts.AdaptiveC))

	out = dilate(out, opts.DilatePasses)
	out = erode(out, opts.ErodePasses)
	out = dilate(out, opts.FinalDilatePasses)

	return out
}

// sobelMagnitude computes the gradient magnitude with 3x3 Sobel kernels.
func sobelMagnitude(g *raster.Gray) []float64 {
	w, h := g.W, g.H
	mag := make([]float64, w*h)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			p00 := float64(g.Pix[(y-1)*w+x-1])
			p01 := float64(g.Pix[(y-1)*w+x])
			p02 := float64(g.Pix[(y-1)*w+x+1])
			p10 := float64(g.Pix[y*w+x-1])
			p12 := float64(g.Pix[y*w+x+1])
			p20 := float64(g.Pix[(y+1)*w+x-1])
			p21 := float64(g.Pix[(y+1)*w+x])
			p22 := float64(g.Pix[(y+1)*w+x+1])

			gx := (p02 + 2*p12 + p22) - (p00 + 2*p10 + p20)
			gy := (p20 + 2*p21 + p22) - (p00 + 2*p01 + p02)
			mag[y*w+x] = math.Sqrt(gx*gx + gy*gy)
		}
	}

	return mag
}

// hysteresisPass thresholds the gradient magnitude with two levels and keeps
// weak edges only when 8-connected to a strong edge, walking outward from the
// strong pixels with an explicit stack.
func hysteresisPass(mag []float64, w, h int, low, high float64) *raster.Binary {
	out := raster.NewBinary(w, h)
	if len(mag) != w*h {
		return out
	}

	const (
		none   = 0
		weak   = 1
		strong = 2
	)
	class := make([]uint8, w*h)
	stack := make([]int, 0, 256)

	for i, m := range mag {
		switch {
		case m >= high:
			class[i] = strong
			stack = append(stack, i)
			out.Pix[i] = 255
		case m >= low:
			class[i] = weak
		}
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := idx%w, idx/w

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				ni := ny*w + nx
				if class[ni] == weak {
					class[ni] = strong
					out.Pix[ni] = 255
					stack = append(stack, ni)
				}
			}
		}
	}

	return out
}

// adaptiveThreshold marks pixels darker than their local block mean minus a
// constant (inverse-binary), catching card outlines in low-contrast scenes.
// Uses a summed-area table so the window mean is O(1) per pixel.
func adaptiveThreshold(g *raster.Gray, block int, c float64) *raster.Binary {
	w, h := g.W, g.H
	out := raster.NewBinary(w, h)
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	half := block / 2

	// Integral image with a zero row/column of padding.
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(g.Pix[y*w+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	for y := 0; y < h; y++ {
		y0, y1 := y-half, y+half
		if y0 < 0 {
			y0 = 0
		}
		if y1 >= h {
			y1 = h - 1
		}
		for x := 0; x < w; x++ {
			x0, x1 := x-half, x+half
			if x0 < 0 {
				x0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}

			count := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := float64(sum) / float64(count)

			if float64(g.Pix[y*w+x]) < mean-c {
				out.Pix[y*w+x] = 255
			}
		}
	}

	return out
}

// dilate grows set regions by one 4-connected pixel per pass.
func dilate(b *raster.Binary, passes int) *raster.Binary {
	for i := 0; i < passes; i++ {
		b = dilateOnce(b)
	}
	return b
}

func dilateOnce(b *raster.Binary) *raster.Binary {
	w, h := b.W, b.H
	out := raster.NewBinary(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Pix[y*w+x] != 0 ||
				b.Get(x-1, y) || b.Get(x+1, y) ||
				b.Get(x, y-1) || b.Get(x, y+1) {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}

// erode shrinks set regions by one 4-connected pixel per pass.
func erode(b *raster.Binary, passes int) *raster.Binary {
	for i := 0; i < passes; i++ {
		b = erodeOnce(b)
	}
	return b
}

func erodeOnce(b *raster.Binary) *raster.Binary {
	w, h := b.W, b.H
	out := raster.NewBinary(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Pix[y*w+x] != 0 &&
				b.Get(x-1, y) && b.Get(x+1, y) &&
				b.Get(x, y-1) && b.Get(x, y+1) {
				out.Pix[y*w+x] = 255
			}
		}
	}
	return out
}
