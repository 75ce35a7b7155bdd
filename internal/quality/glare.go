package quality

import (
	"image"

	"cardscan/pkg/colorutil"
	"cardscan/pkg/geometry"
)

// GlareOptions configures the overexposure check.
type GlareOptions struct {
	// Threshold is the intensity at or above which a pixel counts as glare.
	Threshold uint8
	// MaxPercentage is the largest acceptable glare fraction of the card area.
	MaxPercentage float64
}

// DefaultGlareOptions returns the default glare limits.
func DefaultGlareOptions() GlareOptions {
	return GlareOptions{Threshold: 240, MaxPercentage: 0.01}
}

// GlareResult reports the glare verdict for the card region.
type GlareResult struct {
	Acceptable bool
	Percentage float64
	Message    string
}

// DetectGlare measures the fraction of overexposed pixels inside the card
// polygon. A pixel counts as glare when either its grayscale intensity or its
// HSV value channel reaches the threshold; specular highlights on laminated
// cards often saturate a single channel before the luma does. Malformed input
// yields a conservative not-acceptable result.
func DetectGlare(img image.Image, corners []geometry.Point2D, opts GlareOptions) GlareResult {
	failed := GlareResult{Acceptable: false, Percentage: 1.0, Message: "Card not detected"}
	if img == nil || len(corners) < 3 {
		return failed
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	box := geometry.BoundingBoxInt(corners).Clamp(w, h)
	if box.Empty() {
		return failed
	}

	cardPixels, glarePixels := 0, 0
	for y := box.Y; y < box.Y+box.Height; y++ {
		for x := box.X; x < box.X+box.Width; x++ {
			p := geometry.Point2D{X: float64(x), Y: float64(y)}
			if !geometry.PointInPolygon(p, corners) {
				continue
			}
			cardPixels++

			r16, g16, b16, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			r, g, b := uint8(r16>>8), uint8(g16>>8), uint8(b16>>8)
			if colorutil.Luminance(r, g, b) >= opts.Threshold ||
				colorutil.ValueChannel(r, g, b) >= opts.Threshold {
				glarePixels++
			}
		}
	}

	if cardPixels == 0 {
		return failed
	}

	percentage := float64(glarePixels) / float64(cardPixels)
	result := GlareResult{
		Acceptable: percentage <= opts.MaxPercentage,
		Percentage: percentage,
	}
	switch {
	case result.Acceptable:
		result.Message = "Glare acceptable"
	case percentage > 2*opts.MaxPercentage:
		result.Message = "Strong reflections detected"
	default:
		result.Message = "Avoid reflections"
	}
	return result
}
