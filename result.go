package cardscan

import (
	"cardscan/internal/detect"
	"cardscan/internal/quality"
)

// Mode selects how a session decides when to capture.
type Mode string

const (
	// ModeAuto captures automatically after enough consecutive good frames.
	ModeAuto Mode = "auto"
	// ModeManual leaves capture to an explicit Capture call.
	ModeManual Mode = "manual"
)

// Status values reported in GuidanceResult for checks the guidance path does
// not run. Distance and centering statuses come from the quality package.
const (
	StatusUnknown = "unknown"

	BlurSharp  = "sharp"
	BlurBlurry = "blurry"

	GlareAcceptable = "acceptable"
	GlareExcessive  = "excessive"
)

// CornerList is the wire form of the four card corners, ordered top-left,
// top-right, bottom-right, bottom-left, each as an [x, y] pair in source
// frame coordinates.
type CornerList [4][2]float64

// GuidanceResult is the per-frame feedback produced by ProcessFrame.
// CardCorners is nil while no card is being tracked.
type GuidanceResult struct {
	CardDetected   bool        `json:"card_detected"`
	Message        string      `json:"message"`
	Distance       string      `json:"distance"`
	Centering      string      `json:"centering"`
	Blur           string      `json:"blur"`
	Glare          string      `json:"glare"`
	ReadyToCapture bool        `json:"ready_to_capture"`
	CardCorners    *CornerList `json:"card_corners"`
}

// CaptureResult is the outcome of a capture attempt. WarpedImage holds the
// rectified card as JPEG bytes on success; OriginalImage echoes the caller's
// source frame bytes when provided.
type CaptureResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	WarpedImage   []byte `json:"warped_image,omitempty"`
	OriginalImage []byte `json:"original_image,omitempty"`
}

// Validation re-exports the aggregate quality verdict.
type Validation = quality.Validation

func newCornerList(c detect.CardCorners) *CornerList {
	var list CornerList
	for i, p := range c {
		list[i] = [2]float64{p.X, p.Y}
	}
	return &list
}
