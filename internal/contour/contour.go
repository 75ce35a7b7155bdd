// Package contour extracts connected components from binary edge maps and
// reduces their boundaries to approximate polygons.
package contour

import (
	"cardscan/internal/raster"
	"cardscan/pkg/geometry"
)

// MinPoints is the default minimum component size; smaller components are
// discarded as speckle.
const MinPoints = 6

// Contour is one connected edge component. Points holds every component
// pixel in row-major discovery order; Boundary holds the outer boundary
// walked clockwise from the topmost-leftmost pixel, with straight runs
// compressed to their endpoints. The simplifier consumes Boundary, which is
// ordered the way a polygon expects; Points is not.
type Contour struct {
	Points   []geometry.PointInt
	Boundary []geometry.PointInt
}

// Len returns the number of pixels in the contour.
func (c Contour) Len() int { return len(c.Points) }

// Points2D returns the component pixels as floating-point coordinates.
func (c Contour) Points2D() []geometry.Point2D {
	return toFloat(c.Points)
}

// Boundary2D returns the ordered boundary as floating-point coordinates.
func (c Contour) Boundary2D() []geometry.Point2D {
	return toFloat(c.Boundary)
}

func toFloat(pts []geometry.PointInt) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = p.ToFloat()
	}
	return out
}

// Trace collects the 8-connected components of a binary mask and walks each
// one's outer boundary. Components are reported in row-major order of their
// first-encountered pixel; those smaller than minPoints are dropped. The fill
// uses an explicit array-backed stack and a flat visited slice so memory
// stays bounded on large blobs.
func Trace(b *raster.Binary, minPoints int) []Contour {
	if !b.Valid() {
		return nil
	}
	if minPoints <= 0 {
		minPoints = MinPoints
	}

	w, h := b.W, b.H
	visited := make([]bool, w*h)
	stack := make([]int, 0, 1024)
	var contours []Contour

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if visited[idx] || b.Pix[idx] == 0 {
				continue
			}

			points := make([]geometry.PointInt, 0, 64)
			visited[idx] = true
			stack = append(stack[:0], idx)

			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cx, cy := cur%w, cur/w
				points = append(points, geometry.PointInt{X: cx, Y: cy})

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						ni := ny*w + nx
						if !visited[ni] && b.Pix[ni] != 0 {
							visited[ni] = true
							stack = append(stack, ni)
						}
					}
				}
			}

			if len(points) >= minPoints {
				contours = append(contours, Contour{
					Points:   points,
					Boundary: traceBoundary(b, points[0]),
				})
			}
		}
	}

	return contours
}

// Clockwise Moore neighborhood, starting east.
var (
	mooreDX = [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	mooreDY = [8]int{0, 1, 1, 1, 0, -1, -1, -1}
)

func mooreDir(dx, dy int) int {
	for i := 0; i < 8; i++ {
		if mooreDX[i] == dx && mooreDY[i] == dy {
			return i
		}
	}
	return 0
}

// traceBoundary walks the outer boundary of the component containing start
// using Moore neighbor tracing. start must be the component's
// topmost-leftmost pixel, so its west neighbor is guaranteed background and
// seeds the clockwise scan. Any foreground pixel 8-adjacent to the walk
// belongs to the same component, so the raw mask can be walked directly.
func traceBoundary(b *raster.Binary, start geometry.PointInt) []geometry.PointInt {
	pts := []geometry.PointInt{start}
	push := func(p geometry.PointInt) {
		if n := len(pts); n >= 2 {
			a, m := pts[n-2], pts[n-1]
			// Drop the middle point of a straight run.
			if (m.X-a.X)*(p.Y-m.Y) == (m.Y-a.Y)*(p.X-m.X) {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	cur := start
	back := geometry.PointInt{X: start.X - 1, Y: start.Y}

	maxSteps := 4 * (b.W*b.H + 1)
	for step := 0; step < maxSteps; step++ {
		// Scan the neighbors clockwise, starting just past the backtrack
		// pixel; back tracks the last background pixel examined.
		d := mooreDir(back.X-cur.X, back.Y-cur.Y)
		var next geometry.PointInt
		found := false
		for k := 1; k <= 8; k++ {
			i := (d + k) % 8
			t := geometry.PointInt{X: cur.X + mooreDX[i], Y: cur.Y + mooreDY[i]}
			if b.Get(t.X, t.Y) {
				next = t
				found = true
				break
			}
			back = t
		}
		if !found {
			// Isolated pixel.
			break
		}

		cur = next
		if cur == start {
			break
		}
		push(cur)
	}

	// The final run can be collinear across the seam back to the start.
	for len(pts) >= 3 {
		a, m := pts[len(pts)-2], pts[len(pts)-1]
		p := pts[0]
		if (m.X-a.X)*(p.Y-m.Y)-(m.Y-a.Y)*(p.X-m.X) != 0 {
			break
		}
		pts = pts[:len(pts)-1]
	}

	return pts
}
