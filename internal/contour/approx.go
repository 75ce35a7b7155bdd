package contour

import (
	"cardscan/pkg/geometry"
)

// DefaultEpsilonFractions is the ascending ladder of Douglas-Peucker epsilons,
// each a fraction of the contour perimeter.
var DefaultEpsilonFractions = []float64{0.02, 0.04, 0.06, 0.08}

// Approximate reduces a closed contour to a polygon. Each epsilon fraction is
// tried in order; the first producing exactly 4 vertices wins. When none does,
// the best result with 3-5 vertices (closest vertex count to 4) is returned as
// an explicit fallback. Returns false when no usable polygon exists.
func Approximate(points []geometry.Point2D, epsFractions []float64) ([]geometry.Point2D, bool) {
	if len(points) < 3 {
		return nil, false
	}
	if len(epsFractions) == 0 {
		epsFractions = DefaultEpsilonFractions
	}

	perimeter := geometry.Perimeter(points)
	if perimeter <= 0 {
		return nil, false
	}

	var fallback []geometry.Point2D
	for _, frac := range epsFractions {
		poly := approximateClosed(points, frac*perimeter)
		if len(poly) == 4 {
			return poly, true
		}
		if len(poly) >= 3 && len(poly) <= 5 && closerToQuad(poly, fallback) {
			fallback = poly
		}
	}

	if fallback != nil {
		return fallback, true
	}
	return nil, false
}

func closerToQuad(candidate, current []geometry.Point2D) bool {
	if current == nil {
		return true
	}
	return abs(len(candidate)-4) < abs(len(current)-4)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// approximateClosed runs Douglas-Peucker on a closed point sequence by
// splitting it at the point farthest from the start, simplifying both halves,
// and dropping any merged vertex that ends up within epsilon of its
// neighbors' chord.
func approximateClosed(points []geometry.Point2D, epsilon float64) []geometry.Point2D {
	n := len(points)
	if n < 3 {
		return points
	}

	// Split at the point farthest from the first point.
	far := 0
	var maxDist float64
	for i := 1; i < n; i++ {
		if d := points[0].Distance(points[i]); d > maxDist {
			maxDist = d
			far = i
		}
	}
	if far == 0 {
		// All points coincide.
		return points[:1]
	}

	first := douglasPeucker(points[:far+1], epsilon)
	second := make([]geometry.Point2D, 0, n-far+1)
	second = append(second, points[far:]...)
	second = append(second, points[0])
	second = douglasPeucker(second, epsilon)

	merged := make([]geometry.Point2D, 0, len(first)+len(second)-2)
	merged = append(merged, first...)
	if len(second) > 2 {
		merged = append(merged, second[1:len(second)-1]...)
	}

	return dropCollinear(merged, epsilon)
}

// douglasPeucker simplifies an open polyline, always keeping both endpoints.
func douglasPeucker(points []geometry.Point2D, epsilon float64) []geometry.Point2D {
	if len(points) < 3 {
		return points
	}

	a := points[0]
	b := points[len(points)-1]
	var maxDist float64
	idx := 0
	for i := 1; i < len(points)-1; i++ {
		if d := geometry.PerpendicularDistance(points[i], a, b); d > maxDist {
			maxDist = d
			idx = i
		}
	}

	if maxDist <= epsilon {
		return []geometry.Point2D{a, b}
	}

	left := douglasPeucker(points[:idx+1], epsilon)
	right := douglasPeucker(points[idx:], epsilon)

	out := make([]geometry.Point2D, 0, len(left)+len(right)-1)
	out = append(out, left...)
	out = append(out, right[1:]...)
	return out
}

// dropCollinear removes polygon vertices lying within epsilon of the chord
// between their neighbors. The split points of the closed-curve simplification
// are never tested for removal by Douglas-Peucker itself, so a split landing
// mid-edge would otherwise survive as a spurious vertex.
func dropCollinear(poly []geometry.Point2D, epsilon float64) []geometry.Point2D {
	for len(poly) > 3 {
		removed := false
		for i := 0; i < len(poly); i++ {
			prev := poly[(i+len(poly)-1)%len(poly)]
			next := poly[(i+1)%len(poly)]
			if geometry.PerpendicularDistance(poly[i], prev, next) <= epsilon {
				poly = append(poly[:i], poly[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}
	return poly
}
