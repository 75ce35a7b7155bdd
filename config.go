// Package cardscan implements the on-device ID-card scanning pipeline: it
// turns decoded camera frames into real-time alignment guidance and, on
// capture, a rectified card image. The package holds no camera, rendering or
// network concerns; callers feed it pixel buffers and consume structured
// results.
package cardscan

import (
	"cardscan/internal/detect"
	"cardscan/internal/quality"
	"cardscan/internal/warp"
)

// Config aggregates every tunable of the pipeline. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Detect configures the edge map, contour, polygon and selector stages.
	Detect detect.Options

	// Quality assessor thresholds.
	Blur      quality.BlurOptions
	Glare     quality.GlareOptions
	Distance  quality.DistanceOptions
	Centering quality.CenteringOptions

	// Warp configures the rectified output image.
	Warp warp.Options

	// HistorySize is the detection window length; StableThreshold is the
	// number of positives within it required for a stable detection.
	HistorySize     int
	StableThreshold int

	// AutoCaptureThreshold is the good-frame count that triggers an
	// automatic capture.
	AutoCaptureThreshold int

	// MaxDetectDim caps the longer frame side during guidance detection;
	// larger frames are downscaled first. 0 disables downscaling.
	MaxDetectDim int

	// JPEGQuality is the encoding quality of the captured card image.
	JPEGQuality int
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Detect:               detect.DefaultOptions(),
		Blur:                 quality.DefaultBlurOptions(),
		Glare:                quality.DefaultGlareOptions(),
		Distance:             quality.DefaultDistanceOptions(),
		Centering:            quality.DefaultCenteringOptions(),
		Warp:                 warp.DefaultOptions(),
		HistorySize:          5,
		StableThreshold:      3,
		AutoCaptureThreshold: 30,
		MaxDetectDim:         640,
		JPEGQuality:          95,
	}
}
