package cardscan_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"strings"
	"testing"

	"cardscan"
)

func uniformFrame(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestProcessFrameNoCard(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	result := session.ProcessFrame(uniformFrame(160, 120, 60), cardscan.ModeManual)

	if result.CardDetected {
		t.Error("uniform frame must not detect a card")
	}
	if result.Message != "Place document in frame" {
		t.Errorf("message = %q, want placement prompt", result.Message)
	}
	if result.Distance != cardscan.StatusUnknown || result.Centering != cardscan.StatusUnknown {
		t.Errorf("distance/centering = %q/%q, want unknown", result.Distance, result.Centering)
	}
	if result.Blur != cardscan.StatusUnknown || result.Glare != cardscan.StatusUnknown {
		t.Error("guidance never measures blur or glare")
	}
	if result.ReadyToCapture {
		t.Error("nothing to capture")
	}
	if result.CardCorners != nil {
		t.Errorf("corners = %v, want nil", result.CardCorners)
	}
}

func TestProcessFrameNilImage(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	result := session.ProcessFrame(nil, cardscan.ModeAuto)

	if result.Message != "Place document in frame" {
		t.Errorf("message = %q, nil frame must act like a miss", result.Message)
	}
	if result.CardCorners != nil {
		t.Error("nil frame must not report corners")
	}
}

func TestCaptureNoCard(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	result := session.Capture(uniformFrame(160, 120, 60), nil)

	if result.Success {
		t.Error("capture on an empty frame must fail")
	}
	if result.Message != "Card not detected" {
		t.Errorf("message = %q", result.Message)
	}
	if result.WarpedImage != nil {
		t.Error("failed capture must not carry image bytes")
	}
}

func TestCaptureNilImage(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	result := session.Capture(nil, nil)
	if result.Success {
		t.Error("nil frame must fail")
	}
}

func TestValidateNoCard(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	v := session.Validate(uniformFrame(128, 96, 90))
	if v.Valid || v.CardDetected {
		t.Error("uniform frame must not validate")
	}
}

func TestSessionReset(t *testing.T) {
	session := cardscan.NewSession(cardscan.DefaultConfig(), nil)
	session.ProcessFrame(uniformFrame(64, 48, 50), cardscan.ModeAuto)
	session.Reset()

	result := session.ProcessFrame(uniformFrame(64, 48, 50), cardscan.ModeAuto)
	if result.Message != "Place document in frame" {
		t.Errorf("message after reset = %q", result.Message)
	}
}

func TestGuidanceResultJSON(t *testing.T) {
	result := cardscan.GuidanceResult{
		Message:   "Place document in frame",
		Distance:  cardscan.StatusUnknown,
		Centering: cardscan.StatusUnknown,
		Blur:      cardscan.StatusUnknown,
		Glare:     cardscan.StatusUnknown,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	for _, key := range []string{
		`"card_detected":false`,
		`"message":"Place document in frame"`,
		`"ready_to_capture":false`,
		`"card_corners":null`,
	} {
		if !strings.Contains(s, key) {
			t.Errorf("JSON missing %s: %s", key, s)
		}
	}

	var back cardscan.GuidanceResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.CardCorners != nil {
		t.Error("absent corners must round-trip as nil")
	}
}

func TestGuidanceResultJSONWithCorners(t *testing.T) {
	corners := cardscan.CornerList{{10, 20}, {110, 20}, {110, 80}, {10, 80}}
	result := cardscan.GuidanceResult{
		CardDetected:   true,
		Message:        "Hold still...",
		Distance:       "optimal",
		Centering:      "centered",
		Blur:           cardscan.StatusUnknown,
		Glare:          cardscan.StatusUnknown,
		ReadyToCapture: true,
		CardCorners:    &corners,
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back cardscan.GuidanceResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.CardCorners == nil || *back.CardCorners != corners {
		t.Errorf("corners round-tripped to %v", back.CardCorners)
	}
}

func TestCaptureResultJSONOmitsEmptyImages(t *testing.T) {
	result := cardscan.CaptureResult{Message: "Card not detected"}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "warped_image") {
		t.Errorf("empty image bytes must be omitted: %s", data)
	}
}

func TestCaptureResultJSONRoundTripsImages(t *testing.T) {
	result := cardscan.CaptureResult{
		Success:       true,
		Message:       "Card captured successfully",
		WarpedImage:   []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02},
		OriginalImage: []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x03},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "warped_image") || !strings.Contains(string(data), "original_image") {
		t.Fatalf("image fields missing: %s", data)
	}

	var back cardscan.CaptureResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Success || back.Message != result.Message {
		t.Errorf("status round-tripped to %+v", back)
	}
	if !bytes.Equal(back.WarpedImage, result.WarpedImage) {
		t.Errorf("warped image round-tripped to %x", back.WarpedImage)
	}
	if !bytes.Equal(back.OriginalImage, result.OriginalImage) {
		t.Errorf("original image round-tripped to %x", back.OriginalImage)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := cardscan.DefaultConfig()
	if cfg.HistorySize != 5 || cfg.StableThreshold != 3 {
		t.Errorf("history = %d/%d, want 5/3", cfg.HistorySize, cfg.StableThreshold)
	}
	if cfg.AutoCaptureThreshold != 30 {
		t.Errorf("auto-capture threshold = %d, want 30", cfg.AutoCaptureThreshold)
	}
	if cfg.MaxDetectDim != 640 {
		t.Errorf("detect dimension cap = %d, want 640", cfg.MaxDetectDim)
	}
	if cfg.JPEGQuality != 95 {
		t.Errorf("JPEG quality = %d, want 95", cfg.JPEGQuality)
	}
}
