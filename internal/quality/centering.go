package quality

import (
	"math"

	"cardscan/pkg/geometry"
)

// CenteringStatus classifies the card's position relative to the frame center.
type CenteringStatus string

const (
	CenteringUnknown   CenteringStatus = "unknown"
	CenteringCentered  CenteringStatus = "centered"
	CenteringOffCenter CenteringStatus = "off_center"
)

// CenteringOptions configures the centering tolerance.
type CenteringOptions struct {
	// Tolerance is the allowed centroid offset per axis as a fraction of the
	// frame dimension.
	Tolerance float64
}

// DefaultCenteringOptions returns the default centering tolerance.
func DefaultCenteringOptions() CenteringOptions {
	return CenteringOptions{Tolerance: 0.15}
}

// CenteringResult reports the centering verdict.
type CenteringResult struct {
	Status   CenteringStatus
	Centered bool
	Message  string
}

// AnalyzeCentering compares the corner centroid against the frame center.
// Off-center cards get a directional message along the axis with the larger
// relative offset.
func AnalyzeCentering(frameW, frameH int, corners []geometry.Point2D, opts CenteringOptions) CenteringResult {
	if frameW <= 0 || frameH <= 0 || len(corners) < 3 {
		return CenteringResult{Status: CenteringUnknown, Message: "Card not detected"}
	}

	centroid := geometry.Centroid(corners)
	dx := centroid.X - float64(frameW)/2
	dy := centroid.Y - float64(frameH)/2

	if math.Abs(dx) <= float64(frameW)*opts.Tolerance &&
		math.Abs(dy) <= float64(frameH)*opts.Tolerance {
		return CenteringResult{Status: CenteringCentered, Centered: true, Message: "Centered"}
	}

	var message string
	if math.Abs(dx)/float64(frameW) > math.Abs(dy)/float64(frameH) {
		if dx > 0 {
			message = "Move document left"
		} else {
			message = "Move document right"
		}
	} else {
		if dy > 0 {
			message = "Move document up"
		} else {
			message = "Move document down"
		}
	}
	return CenteringResult{Status: CenteringOffCenter, Message: message}
}
