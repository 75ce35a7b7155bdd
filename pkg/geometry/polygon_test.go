package geometry

import (
	"math"
	"testing"
)

func TestSignedAreaWinding(t *testing.T) {
	// Clockwise in image coordinates (y grows downward).
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	if got := SignedArea(square); got != 100 {
		t.Errorf("SignedArea = %v, want 100", got)
	}

	reversed := []Point2D{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if got := SignedArea(reversed); got != -100 {
		t.Errorf("SignedArea reversed = %v, want -100", got)
	}
	if got := Area(reversed); got != 100 {
		t.Errorf("Area reversed = %v, want 100", got)
	}
}

func TestAreaStartIndexInvariance(t *testing.T) {
	poly := []Point2D{{1, 2}, {8, 1}, {9, 7}, {2, 6}}
	want := Area(poly)

	for shift := 1; shift < len(poly); shift++ {
		rotated := append(append([]Point2D{}, poly[shift:]...), poly[:shift]...)
		if got := Area(rotated); math.Abs(got-want) > 1e-9 {
			t.Errorf("Area shifted by %d = %v, want %v", shift, got, want)
		}
	}
}

func TestAreaDegenerate(t *testing.T) {
	if got := Area([]Point2D{{1, 1}, {2, 2}}); got != 0 {
		t.Errorf("Area of two points = %v, want 0", got)
	}
	if got := Area(nil); got != 0 {
		t.Errorf("Area of nil = %v, want 0", got)
	}
}

func TestPerimeter(t *testing.T) {
	rect := []Point2D{{0, 0}, {30, 0}, {30, 20}, {0, 20}}
	if got := Perimeter(rect); math.Abs(got-100) > 1e-9 {
		t.Errorf("Perimeter = %v, want 100", got)
	}
	if got := Perimeter([]Point2D{{0, 0}}); got != 0 {
		t.Errorf("Perimeter of one point = %v, want 0", got)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{5, 5}, true},
		{"outside right", Point2D{15, 5}, false},
		{"outside above", Point2D{5, -1}, false},
		{"near corner inside", Point2D{0.5, 0.5}, true},
	}
	for _, tt := range tests {
		if got := PointInPolygon(tt.p, square); got != tt.want {
			t.Errorf("%s: PointInPolygon(%v) = %v, want %v", tt.name, tt.p, got, tt.want)
		}
	}

	// Concave L-shape: the notch is outside.
	l := []Point2D{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	if PointInPolygon(Point2D{8, 8}, l) {
		t.Error("notch point reported inside concave polygon")
	}
	if !PointInPolygon(Point2D{2, 8}, l) {
		t.Error("leg point reported outside concave polygon")
	}

	if PointInPolygon(Point2D{1, 1}, square[:2]) {
		t.Error("degenerate polygon reported containment")
	}
}

func TestPerpendicularDistance(t *testing.T) {
	a := Point2D{0, 0}
	b := Point2D{10, 0}

	if got := PerpendicularDistance(Point2D{5, 3}, a, b); math.Abs(got-3) > 1e-9 {
		t.Errorf("distance = %v, want 3", got)
	}
	if got := PerpendicularDistance(Point2D{5, 0}, a, b); got > 1e-9 {
		t.Errorf("on-line distance = %v, want 0", got)
	}

	// Degenerate segment falls back to point distance.
	if got := PerpendicularDistance(Point2D{3, 4}, a, a); math.Abs(got-5) > 1e-9 {
		t.Errorf("degenerate distance = %v, want 5", got)
	}
}
