// Package quality provides the independent frame quality assessors (blur,
// glare, distance, centering) and the validator aggregating them.
package quality

import (
	"gonum.org/v1/gonum/stat"

	"cardscan/internal/raster"
	"cardscan/pkg/geometry"
)

// BlurOptions configures the sharpness check.
type BlurOptions struct {
	// Threshold is the minimum Laplacian variance considered sharp.
	Threshold float64
}

// DefaultBlurOptions returns the default sharpness threshold.
func DefaultBlurOptions() BlurOptions {
	return BlurOptions{Threshold: 40.0}
}

// BlurResult reports the sharpness verdict and the underlying metric.
type BlurResult struct {
	Blurry   bool
	Variance float64
}

// DetectBlur measures sharpness as the variance of the discrete Laplacian
// response. With corners given, only pixels inside the card polygon are
// considered; a nil polygon measures the whole frame. Malformed input yields
// a conservative blurry verdict.
func DetectBlur(g *raster.Gray, corners []geometry.Point2D, opts BlurOptions) BlurResult {
	if !g.Valid() {
		return BlurResult{Blurry: true}
	}

	x0, y0, x1, y1 := 1, 1, g.W-1, g.H-1
	if len(corners) >= 3 {
		box := geometry.BoundingBoxInt(corners).Clamp(g.W, g.H)
		if box.Empty() {
			return BlurResult{Blurry: true}
		}
		if box.X > x0 {
			x0 = box.X
		}
		if box.Y > y0 {
			y0 = box.Y
		}
		if box.X+box.Width < x1 {
			x1 = box.X + box.Width
		}
		if box.Y+box.Height < y1 {
			y1 = box.Y + box.Height
		}
	}

	w := g.W
	values := make([]float64, 0, (x1-x0)*(y1-y0))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if len(corners) >= 3 {
				p := geometry.Point2D{X: float64(x), Y: float64(y)}
				if !geometry.PointInPolygon(p, corners) {
					continue
				}
			}
			// Laplacian kernel [[0,1,0],[1,-4,1],[0,1,0]]
			v := float64(g.Pix[(y-1)*w+x]) + float64(g.Pix[(y+1)*w+x]) +
				float64(g.Pix[y*w+x-1]) + float64(g.Pix[y*w+x+1]) -
				4*float64(g.Pix[y*w+x])
			values = append(values, v)
		}
	}

	if len(values) < 2 {
		return BlurResult{Blurry: true}
	}

	mean := stat.Mean(values, nil)
	variance := stat.MomentAbout(2, values, mean, nil)
	return BlurResult{Blurry: variance < opts.Threshold, Variance: variance}
}
