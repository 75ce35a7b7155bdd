package quality

import (
	"cardscan/pkg/geometry"
)

// DistanceStatus classifies the card's apparent distance from the camera.
type DistanceStatus string

const (
	DistanceUnknown  DistanceStatus = "unknown"
	DistanceTooFar   DistanceStatus = "too_far"
	DistanceTooClose DistanceStatus = "too_close"
	DistanceOptimal  DistanceStatus = "optimal"
)

// DistanceOptions configures the area-ratio distance bands.
type DistanceOptions struct {
	MinAreaRatio float64
	MaxAreaRatio float64
	OptimalMin   float64
	OptimalMax   float64
}

// DefaultDistanceOptions returns the default distance bands.
func DefaultDistanceOptions() DistanceOptions {
	return DistanceOptions{
		MinAreaRatio: 0.10,
		MaxAreaRatio: 0.75,
		OptimalMin:   0.20,
		OptimalMax:   0.65,
	}
}

// DistanceResult reports the distance verdict.
type DistanceResult struct {
	Status  DistanceStatus
	Optimal bool
	Message string
}

// AnalyzeDistance uses the polygon-to-frame area ratio as a distance proxy.
func AnalyzeDistance(frameW, frameH int, corners []geometry.Point2D, opts DistanceOptions) DistanceResult {
	frameArea := float64(frameW) * float64(frameH)
	if frameArea <= 0 || len(corners) < 3 {
		return DistanceResult{Status: DistanceUnknown, Message: "Card not detected"}
	}

	ratio := geometry.Area(corners) / frameArea

	var status DistanceStatus
	switch {
	case ratio < opts.MinAreaRatio:
		status = DistanceTooFar
	case ratio > opts.MaxAreaRatio:
		status = DistanceTooClose
	case ratio >= opts.OptimalMin && ratio <= opts.OptimalMax:
		status = DistanceOptimal
	case ratio < opts.OptimalMin:
		status = DistanceTooFar
	default:
		status = DistanceTooClose
	}

	switch status {
	case DistanceOptimal:
		return DistanceResult{Status: status, Optimal: true, Message: "Distance OK"}
	case DistanceTooFar:
		return DistanceResult{Status: status, Message: "Move document closer"}
	default:
		return DistanceResult{Status: status, Message: "Move document farther"}
	}
}
