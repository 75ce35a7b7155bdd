package cardscan

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"cardscan/internal/detect"
	"cardscan/internal/logger"
	"cardscan/internal/quality"
	"cardscan/internal/raster"
	"cardscan/internal/warp"
	"cardscan/pkg/geometry"
)

// Session is the stateful pipeline orchestrator for one scanning session. It
// owns the detector's selection memory, the stabilization window and the
// auto-capture counter, and serializes all per-frame state under one mutex so
// each frame's updates land atomically.
type Session struct {
	mu sync.Mutex

	cfg Config
	log logger.Logger

	detector   *detect.Detector
	stabilizer *detect.Stabilizer
	warper     *warp.Engine
	validator  *quality.Validator

	goodFrames int
	captures   chan CaptureResult
}

// NewSession creates a session. A nil logger disables logging.
func NewSession(cfg Config, log logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		cfg:        cfg,
		log:        log,
		detector:   detect.NewDetector(cfg.Detect),
		stabilizer: detect.NewStabilizer(cfg.HistorySize, cfg.StableThreshold),
		warper:     warp.NewEngine(cfg.Warp),
		validator: quality.NewValidator(quality.ValidatorOptions{
			Detect:    cfg.Detect,
			Blur:      cfg.Blur,
			Glare:     cfg.Glare,
			Distance:  cfg.Distance,
			Centering: cfg.Centering,
		}),
		captures: make(chan CaptureResult, 1),
	}
}

// Captures delivers automatic captures triggered by ProcessFrame in auto
// mode. The channel holds one pending result; further captures while it is
// full are dropped.
func (s *Session) Captures() <-chan CaptureResult {
	return s.captures
}

// ProcessFrame runs the guidance pass on one frame. Detection happens on a
// downscaled copy with corners mapped back to source coordinates. Blur and
// glare are not measured on the guidance path and report "unknown". In auto
// mode a run of ready frames ending at the configured threshold triggers a
// capture delivered on the Captures channel.
func (s *Session) ProcessFrame(img image.Image, mode Mode) GuidanceResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	frameW, frameH := 0, 0
	found := false
	var corners detect.CardCorners

	if img != nil {
		bounds := img.Bounds()
		frameW, frameH = bounds.Dx(), bounds.Dy()

		scaled, scale := raster.Downscale(img, s.cfg.MaxDetectDim)
		if gray := raster.FromImage(scaled); gray.Valid() {
			corners, found = s.detector.DetectFrame(gray)
			if found && scale != 1.0 {
				corners = corners.Scale(scale)
			}
		}
	}

	state, effective, tracked := s.stabilizer.Update(found, corners)
	if s.stabilizer.Positives() == 0 {
		s.detector.Reset()
	}

	// A malformed frame counts as a miss even while corners are remembered;
	// there are no dimensions to judge quality against.
	if !tracked || frameW <= 0 || frameH <= 0 {
		if mode == ModeAuto && s.goodFrames > 0 {
			s.goodFrames--
		}
		return GuidanceResult{
			Message:   "Place document in frame",
			Distance:  StatusUnknown,
			Centering: StatusUnknown,
			Blur:      StatusUnknown,
			Glare:     StatusUnknown,
		}
	}

	poly := effective.Slice()
	distance := quality.AnalyzeDistance(frameW, frameH, poly, s.cfg.Distance)
	centering := quality.AnalyzeCentering(frameW, frameH, poly, s.cfg.Centering)

	stable := state == detect.Stable
	ready := stable && distance.Optimal && centering.Centered

	var message string
	switch {
	case !distance.Optimal:
		message = distance.Message
	case !centering.Centered:
		message = centering.Message
	default:
		message = "Hold still..."
	}

	result := GuidanceResult{
		CardDetected:   stable,
		Message:        message,
		Distance:       string(distance.Status),
		Centering:      string(centering.Status),
		Blur:           StatusUnknown,
		Glare:          StatusUnknown,
		ReadyToCapture: ready,
		CardCorners:    newCornerList(effective),
	}

	if mode == ModeAuto {
		if ready {
			s.goodFrames++
		} else if s.goodFrames > 0 {
			s.goodFrames--
		}
		if s.goodFrames >= s.cfg.AutoCaptureThreshold {
			s.goodFrames = 0
			capture := s.captureLocked(img, nil)
			s.log.Info("session", "auto capture", map[string]interface{}{
				"success": capture.Success,
			})
			select {
			case s.captures <- capture:
			default:
				s.log.Warn("session", "auto capture dropped, channel full", nil)
			}
		}
	}

	s.log.Debug("session", "frame processed", map[string]interface{}{
		"state":    state.String(),
		"distance": result.Distance,
		"ready":    ready,
	})
	return result
}

// Capture runs the single-shot capture pass on a full-resolution frame. The
// optional original bytes are echoed back in the result for callers that want
// to keep the unwarped source alongside the card crop.
func (s *Session) Capture(img image.Image, original []byte) CaptureResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captureLocked(img, original)
}

func (s *Session) captureLocked(img image.Image, original []byte) CaptureResult {
	gray := raster.FromImage(img)
	if !gray.Valid() {
		return CaptureResult{Message: "Card not detected"}
	}

	corners, found := s.detector.DetectOnce(gray)
	if !found {
		s.log.Info("session", "capture failed, no card", nil)
		return CaptureResult{Message: "Card not detected"}
	}

	// Capture-time sharpness is judged on the whole frame so a blurry
	// background does not slip through on a small sharp region.
	blur := quality.DetectBlur(gray, nil, s.cfg.Blur)
	if blur.Blurry {
		s.log.Info("session", "capture failed, blurry", map[string]interface{}{
			"variance": blur.Variance,
		})
		return CaptureResult{
			Message: fmt.Sprintf("Image is too blurry (variance: %.1f)", blur.Variance),
		}
	}

	warped := s.warper.Warp(img, [4]geometry.Point2D(corners))
	if warped == nil {
		return CaptureResult{Message: "Failed to extract card image"}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, warped, &jpeg.Options{Quality: s.cfg.JPEGQuality}); err != nil {
		s.log.Error("session", err, map[string]interface{}{"stage": "encode"})
		return CaptureResult{Message: "Failed to encode card image"}
	}

	s.log.Info("session", "card captured", map[string]interface{}{
		"bytes":    buf.Len(),
		"variance": blur.Variance,
	})
	return CaptureResult{
		Success:       true,
		Message:       "Card captured successfully",
		WarpedImage:   buf.Bytes(),
		OriginalImage: original,
	}
}

// Validate runs the aggregate quality check on one frame without touching
// session state.
func (s *Session) Validate(img image.Image) Validation {
	return s.validator.Validate(img)
}

// Reset clears all per-session state: selection memory, the stabilization
// window and the auto-capture counter.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detector.Reset()
	s.stabilizer.Reset()
	s.goodFrames = 0
}
