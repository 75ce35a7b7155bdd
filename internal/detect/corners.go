// Package detect selects ID-card candidates from approximated polygons and
// stabilizes detections across frames.
package detect

import (
	"cardscan/pkg/geometry"
)

// CardCorners holds the four detected card corners ordered
// top-left, top-right, bottom-right, bottom-left.
type CardCorners [4]geometry.Point2D

// Slice returns the corners as a point slice.
func (c CardCorners) Slice() []geometry.Point2D {
	return []geometry.Point2D{c[0], c[1], c[2], c[3]}
}

// Area returns the quadrilateral area via the shoelace formula.
func (c CardCorners) Area() float64 {
	return geometry.Area(c.Slice())
}

// Centroid returns the average corner position.
func (c CardCorners) Centroid() geometry.Point2D {
	return geometry.Centroid(c.Slice())
}

// Scale returns the corners with both coordinates multiplied by factor.
func (c CardCorners) Scale(factor float64) CardCorners {
	return CardCorners{
		c[0].Scale(factor),
		c[1].Scale(factor),
		c[2].Scale(factor),
		c[3].Scale(factor),
	}
}

// OrderCorners orders four points into the canonical top-left, top-right,
// bottom-right, bottom-left sequence using the coordinate sum/difference
// rule: the top-left corner has the smallest x+y, the bottom-right the
// largest, the top-right the smallest y-x, the bottom-left the largest.
// The ordering is idempotent.
func OrderCorners(points []geometry.Point2D) CardCorners {
	var c CardCorners
	if len(points) < 4 {
		return c
	}

	sumMin, sumMax := 0, 0
	diffMin, diffMax := 0, 0
	for i, p := range points[:4] {
		sum := p.X + p.Y
		diff := p.Y - p.X
		if sum < points[sumMin].X+points[sumMin].Y {
			sumMin = i
		}
		if sum > points[sumMax].X+points[sumMax].Y {
			sumMax = i
		}
		if diff < points[diffMin].Y-points[diffMin].X {
			diffMin = i
		}
		if diff > points[diffMax].Y-points[diffMax].X {
			diffMax = i
		}
	}

	c[0] = points[sumMin]  // top-left
	c[1] = points[diffMin] // top-right
	c[2] = points[sumMax]  // bottom-right
	c[3] = points[diffMax] // bottom-left
	return c
}
