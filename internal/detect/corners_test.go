package detect

import (
	"testing"

	"cardscan/pkg/geometry"
)

func TestOrderCorners(t *testing.T) {
	tl := geometry.Point2D{X: 10, Y: 10}
	tr := geometry.Point2D{X: 90, Y: 12}
	br := geometry.Point2D{X: 92, Y: 60}
	bl := geometry.Point2D{X: 8, Y: 58}

	shuffles := [][]geometry.Point2D{
		{br, tl, bl, tr},
		{tr, br, tl, bl},
		{bl, tr, br, tl},
	}
	want := CardCorners{tl, tr, br, bl}

	for i, input := range shuffles {
		if got := OrderCorners(input); got != want {
			t.Errorf("shuffle %d: OrderCorners = %v, want %v", i, got, want)
		}
	}
}

func TestOrderCornersIdempotent(t *testing.T) {
	corners := CardCorners{
		{X: 5, Y: 5}, {X: 55, Y: 7}, {X: 57, Y: 40}, {X: 4, Y: 38},
	}
	once := OrderCorners(corners.Slice())
	twice := OrderCorners(once.Slice())
	if once != twice {
		t.Errorf("ordering not idempotent: %v vs %v", once, twice)
	}
}

func TestOrderCornersTooFew(t *testing.T) {
	got := OrderCorners([]geometry.Point2D{{X: 1, Y: 1}, {X: 2, Y: 2}})
	if got != (CardCorners{}) {
		t.Errorf("short input should yield zero corners, got %v", got)
	}
}

func TestCardCornersScale(t *testing.T) {
	c := CardCorners{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 4}}
	scaled := c.Scale(2)
	want := CardCorners{{X: 2, Y: 4}, {X: 6, Y: 4}, {X: 6, Y: 8}, {X: 2, Y: 8}}
	if scaled != want {
		t.Errorf("Scale = %v, want %v", scaled, want)
	}
	if a := c.Area(); a != 4 {
		t.Errorf("Area = %v, want 4", a)
	}
}
