package quality

import (
	"fmt"
	"image"

	"cardscan/internal/detect"
	"cardscan/internal/raster"
)

// ValidatorOptions configures the aggregate quality check.
type ValidatorOptions struct {
	Detect    detect.Options
	Blur      BlurOptions
	Glare     GlareOptions
	Distance  DistanceOptions
	Centering CenteringOptions
}

// DefaultValidatorOptions returns validator options with all assessors at
// their defaults.
func DefaultValidatorOptions() ValidatorOptions {
	return ValidatorOptions{
		Detect:    detect.DefaultOptions(),
		Blur:      DefaultBlurOptions(),
		Glare:     DefaultGlareOptions(),
		Distance:  DefaultDistanceOptions(),
		Centering: DefaultCenteringOptions(),
	}
}

// Validation aggregates the assessor verdicts for one frame.
type Validation struct {
	Valid           bool                `json:"valid"`
	CardDetected    bool                `json:"card_detected"`
	Sharp           bool                `json:"sharp"`
	GlareAcceptable bool                `json:"glare_acceptable"`
	DistanceOptimal bool                `json:"distance_optimal"`
	Centered        bool                `json:"centered"`
	BlurVariance    float64             `json:"blur_variance"`
	Messages        []string            `json:"messages"`
	Corners         *detect.CardCorners `json:"card_corners,omitempty"`
}

// Validator runs single-shot detection followed by every quality assessor.
type Validator struct {
	opts ValidatorOptions
}

// NewValidator creates a validator.
func NewValidator(opts ValidatorOptions) *Validator {
	return &Validator{opts: opts}
}

// Validate checks whether a frame meets capture quality. Detection runs
// first; without a card the remaining checks are skipped. Overall validity
// requires detection, sharpness, acceptable glare and optimal distance.
// Centering is reported but does not gate validity.
func (v *Validator) Validate(img image.Image) Validation {
	var result Validation

	gray := raster.FromImage(img)
	if gray == nil {
		result.Messages = append(result.Messages, "Card not detected")
		return result
	}

	corners, found := detect.NewDetector(v.opts.Detect).DetectOnce(gray)
	if !found {
		result.Messages = append(result.Messages, "Card not detected")
		return result
	}
	result.CardDetected = true
	result.Corners = &corners
	poly := corners.Slice()

	blur := DetectBlur(gray, poly, v.opts.Blur)
	result.Sharp = !blur.Blurry
	result.BlurVariance = blur.Variance
	if blur.Blurry {
		result.Messages = append(result.Messages, fmt.Sprintf("Image is blurry (variance: %.1f)", blur.Variance))
	}

	glare := DetectGlare(img, poly, v.opts.Glare)
	result.GlareAcceptable = glare.Acceptable
	if !glare.Acceptable {
		result.Messages = append(result.Messages, glare.Message)
	}

	distance := AnalyzeDistance(gray.W, gray.H, poly, v.opts.Distance)
	result.DistanceOptimal = distance.Optimal
	if !distance.Optimal {
		result.Messages = append(result.Messages, distance.Message)
	}

	centering := AnalyzeCentering(gray.W, gray.H, poly, v.opts.Centering)
	result.Centered = centering.Centered

	result.Valid = result.CardDetected && result.Sharp &&
		result.GlareAcceptable && result.DistanceOptimal
	if result.Valid {
		result.Messages = append(result.Messages, "Quality check passed")
	}

	return result
}
