package geometry

import "math"

// SignedArea computes the signed area of a polygon using the shoelace formula.
// The sign depends on vertex winding: positive for counter-clockwise order in
// a Y-up coordinate system (clockwise in image coordinates).
func SignedArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}

	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}

// Area computes the absolute polygon area using the shoelace formula.
func Area(polygon []Point2D) float64 {
	return math.Abs(SignedArea(polygon))
}

// Perimeter computes the perimeter of a closed polygon: the sum of Euclidean
// distances between consecutive vertices, including the closing edge.
func Perimeter(polygon []Point2D) float64 {
	if len(polygon) < 2 {
		return 0
	}

	var sum float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		sum += polygon[i].Distance(polygon[(i+1)%n])
	}
	return sum
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// PerpendicularDistance returns the distance from point p to the line through
// a and b. When a and b coincide the segment is degenerate and the distance
// to a is returned instead.
func PerpendicularDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 1e-12 {
		return p.Distance(a)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}
