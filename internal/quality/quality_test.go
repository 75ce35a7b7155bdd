package quality

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"cardscan/internal/raster"
	"cardscan/pkg/geometry"
)

func fillGray(w, h int, v uint8) *raster.Gray {
	g := raster.NewGray(w, h)
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func fillImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestDetectBlurFlatRegion(t *testing.T) {
	g := fillGray(50, 50, 128)
	result := DetectBlur(g, nil, DefaultBlurOptions())
	if !result.Blurry {
		t.Error("flat region has zero Laplacian variance and must be blurry")
	}
	if result.Variance != 0 {
		t.Errorf("variance = %v, want 0", result.Variance)
	}
}

func TestDetectBlurTexturedRegion(t *testing.T) {
	g := raster.NewGray(50, 50)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if (x+y)%2 == 0 {
				g.Pix[y*50+x] = 255
			}
		}
	}
	result := DetectBlur(g, nil, DefaultBlurOptions())
	if result.Blurry {
		t.Errorf("checkerboard should be sharp, variance = %v", result.Variance)
	}
}

func TestDetectBlurPolygonMask(t *testing.T) {
	// Flat inside the polygon, textured outside: the mask must hide the
	// texture and yield a blurry verdict.
	g := fillGray(60, 60, 100)
	for x := 0; x < 60; x++ {
		if x%2 == 0 {
			g.Pix[x] = 255 // top row texture, outside the polygon
			g.Pix[59*60+x] = 255
		}
	}
	poly := []geometry.Point2D{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}, {X: 10, Y: 50}}

	result := DetectBlur(g, poly, DefaultBlurOptions())
	if !result.Blurry {
		t.Errorf("masked flat region should be blurry, variance = %v", result.Variance)
	}
}

func TestDetectBlurMalformed(t *testing.T) {
	if result := DetectBlur(nil, nil, DefaultBlurOptions()); !result.Blurry {
		t.Error("nil buffer must be blurry")
	}

	offscreen := []geometry.Point2D{{X: -50, Y: -50}, {X: -10, Y: -50}, {X: -10, Y: -10}, {X: -50, Y: -10}}
	if result := DetectBlur(fillGray(20, 20, 128), offscreen, DefaultBlurOptions()); !result.Blurry {
		t.Error("polygon outside the frame must be blurry")
	}
}

func TestDetectGlareDarkCard(t *testing.T) {
	img := fillImage(100, 80, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	poly := []geometry.Point2D{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 70}, {X: 10, Y: 70}}

	result := DetectGlare(img, poly, DefaultGlareOptions())
	if !result.Acceptable {
		t.Errorf("dark card reported glare: %+v", result)
	}
	if result.Message != "Glare acceptable" {
		t.Errorf("message = %q", result.Message)
	}
	if result.Percentage != 0 {
		t.Errorf("percentage = %v, want 0", result.Percentage)
	}
}

func TestDetectGlareSaturatedCard(t *testing.T) {
	img := fillImage(100, 80, color.RGBA{R: 250, G: 250, B: 250, A: 255})
	poly := []geometry.Point2D{{X: 10, Y: 10}, {X: 90, Y: 10}, {X: 90, Y: 70}, {X: 10, Y: 70}}

	result := DetectGlare(img, poly, DefaultGlareOptions())
	if result.Acceptable {
		t.Error("fully saturated card must not be acceptable")
	}
	if result.Message != "Strong reflections detected" {
		t.Errorf("message = %q, want strong reflections", result.Message)
	}
	if result.Percentage < 0.99 {
		t.Errorf("percentage = %v, want ~1.0", result.Percentage)
	}
}

func TestDetectGlareSingleChannel(t *testing.T) {
	// Only the blue channel saturates; the HSV value channel catches it
	// even though the luma stays low.
	img := fillImage(60, 60, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	poly := []geometry.Point2D{{X: 5, Y: 5}, {X: 55, Y: 5}, {X: 55, Y: 55}, {X: 5, Y: 55}}

	result := DetectGlare(img, poly, DefaultGlareOptions())
	if result.Acceptable {
		t.Error("saturated value channel must count as glare")
	}
}

func TestDetectGlareMalformed(t *testing.T) {
	result := DetectGlare(nil, nil, DefaultGlareOptions())
	if result.Acceptable || result.Percentage != 1.0 {
		t.Errorf("nil input must fail conservatively, got %+v", result)
	}
	if !strings.Contains(result.Message, "not detected") {
		t.Errorf("message = %q", result.Message)
	}
}

func TestAnalyzeDistance(t *testing.T) {
	// Frame 200x100; polygon areas chosen per band.
	tests := []struct {
		name    string
		w, h    float64
		status  DistanceStatus
		message string
	}{
		{"far below minimum", 40, 30, DistanceTooFar, "Move document closer"},
		{"below optimal", 60, 50, DistanceTooFar, "Move document closer"},
		{"optimal", 100, 60, DistanceOptimal, "Distance OK"},
		{"above optimal", 160, 90, DistanceTooClose, "Move document farther"},
		{"above maximum", 190, 95, DistanceTooClose, "Move document farther"},
	}
	for _, tt := range tests {
		poly := []geometry.Point2D{
			{X: 0, Y: 0}, {X: tt.w, Y: 0}, {X: tt.w, Y: tt.h}, {X: 0, Y: tt.h},
		}
		result := AnalyzeDistance(200, 100, poly, DefaultDistanceOptions())
		if result.Status != tt.status {
			t.Errorf("%s: status = %v, want %v", tt.name, result.Status, tt.status)
		}
		if result.Message != tt.message {
			t.Errorf("%s: message = %q, want %q", tt.name, result.Message, tt.message)
		}
		if result.Optimal != (tt.status == DistanceOptimal) {
			t.Errorf("%s: Optimal flag inconsistent with status", tt.name)
		}
	}
}

func TestAnalyzeDistanceMalformed(t *testing.T) {
	result := AnalyzeDistance(0, 0, nil, DefaultDistanceOptions())
	if result.Status != DistanceUnknown {
		t.Errorf("status = %v, want unknown", result.Status)
	}
}

func TestAnalyzeCentering(t *testing.T) {
	frameW, frameH := 200, 100
	shift := func(dx, dy float64) []geometry.Point2D {
		return []geometry.Point2D{
			{X: 80 + dx, Y: 40 + dy}, {X: 120 + dx, Y: 40 + dy},
			{X: 120 + dx, Y: 60 + dy}, {X: 80 + dx, Y: 60 + dy},
		}
	}

	tests := []struct {
		name    string
		dx, dy  float64
		status  CenteringStatus
		message string
	}{
		{"centered", 0, 0, CenteringCentered, "Centered"},
		{"within tolerance", 20, 10, CenteringCentered, "Centered"},
		{"shifted right", 60, 0, CenteringOffCenter, "Move document left"},
		{"shifted left", -60, 0, CenteringOffCenter, "Move document right"},
		{"shifted down", 0, 30, CenteringOffCenter, "Move document up"},
		{"shifted up", 0, -30, CenteringOffCenter, "Move document down"},
	}
	for _, tt := range tests {
		result := AnalyzeCentering(frameW, frameH, shift(tt.dx, tt.dy), DefaultCenteringOptions())
		if result.Status != tt.status {
			t.Errorf("%s: status = %v, want %v", tt.name, result.Status, tt.status)
		}
		if result.Message != tt.message {
			t.Errorf("%s: message = %q, want %q", tt.name, result.Message, tt.message)
		}
	}
}

func TestCenteredCardScenario(t *testing.T) {
	// 640x400 frame, centered card with area ratio 0.35 and aspect 1.6:
	// both verdicts must be positive, so a stable detection is ready to
	// capture.
	frameW, frameH := 640, 400
	w := math.Sqrt(0.35 * float64(frameW) * float64(frameH) * 1.6)
	h := w / 1.6
	x0 := (float64(frameW) - w) / 2
	y0 := (float64(frameH) - h) / 2
	poly := []geometry.Point2D{
		{X: x0, Y: y0}, {X: x0 + w, Y: y0},
		{X: x0 + w, Y: y0 + h}, {X: x0, Y: y0 + h},
	}

	distance := AnalyzeDistance(frameW, frameH, poly, DefaultDistanceOptions())
	if distance.Status != DistanceOptimal || !distance.Optimal {
		t.Errorf("distance = %+v, want optimal", distance)
	}
	centering := AnalyzeCentering(frameW, frameH, poly, DefaultCenteringOptions())
	if centering.Status != CenteringCentered || !centering.Centered {
		t.Errorf("centering = %+v, want centered", centering)
	}
}

func TestAnalyzeCenteringDominantAxis(t *testing.T) {
	// Off on both axes; the larger relative offset picks the message.
	poly := []geometry.Point2D{
		{X: 160, Y: 70}, {X: 200, Y: 70}, {X: 200, Y: 90}, {X: 160, Y: 90},
	}
	// Centroid (180, 80) in a 200x100 frame: dx/w = 0.4, dy/h = 0.3.
	result := AnalyzeCentering(200, 100, poly, DefaultCenteringOptions())
	if result.Message != "Move document left" {
		t.Errorf("message = %q, want horizontal correction", result.Message)
	}
}

func TestValidatorNoCard(t *testing.T) {
	v := NewValidator(DefaultValidatorOptions())
	result := v.Validate(fillImage(64, 64, color.RGBA{R: 40, G: 40, B: 40, A: 255}))

	if result.Valid || result.CardDetected {
		t.Error("uniform frame must not validate")
	}
	if len(result.Messages) == 0 || result.Messages[0] != "Card not detected" {
		t.Errorf("messages = %v", result.Messages)
	}
	if result.Corners != nil {
		t.Error("no corners expected without a detection")
	}
}
