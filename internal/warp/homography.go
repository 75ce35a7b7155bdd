// Package warp rectifies the detected card quadrilateral into a fixed-size
// image via a 4-point projective transform.
package warp

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"cardscan/pkg/geometry"
)

// Homography is a 3x3 projective matrix in row-major order with the
// bottom-right element fixed at 1.
type Homography [9]float64

// Identity returns the identity homography.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps a point through the homography with perspective divide.
// A vanishing denominator maps far outside any practical image.
func (h Homography) Apply(p geometry.Point2D) geometry.Point2D {
	denom := h[6]*p.X + h[7]*p.Y + h[8]
	if denom == 0 {
		return geometry.Point2D{X: -1e9, Y: -1e9}
	}
	return geometry.Point2D{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / denom,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / denom,
	}
}

// Invert returns the inverse homography computed from the cofactor matrix
// and determinant. A near-singular matrix (|det| < 1e-6) yields the identity
// instead of amplifying noise through a division by almost zero.
func (h Homography) Invert() Homography {
	det := h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
	if math.Abs(det) < 1e-6 {
		return Identity()
	}

	inv := Homography{
		h[4]*h[8] - h[5]*h[7],
		h[2]*h[7] - h[1]*h[8],
		h[1]*h[5] - h[2]*h[4],
		h[5]*h[6] - h[3]*h[8],
		h[0]*h[8] - h[2]*h[6],
		h[2]*h[3] - h[0]*h[5],
		h[3]*h[7] - h[4]*h[6],
		h[1]*h[6] - h[0]*h[7],
		h[0]*h[4] - h[1]*h[3],
	}
	for i := range inv {
		inv[i] /= det
	}
	return inv
}

// Compute solves for the homography mapping src[i] to dst[i] via the direct
// linear transform: an 8x8 system with two rows per correspondence, solved by
// Gaussian elimination with partial pivoting. Returns false when the
// correspondences are degenerate (three collinear points, repeated points).
func Compute(src, dst [4]geometry.Point2D) (Homography, bool) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y
		r := 2 * i

		// dx = (h0*sx + h1*sy + h2) / (h6*sx + h7*sy + 1)
		a.Set(r, 0, sx)
		a.Set(r, 1, sy)
		a.Set(r, 2, 1)
		a.Set(r, 6, -sx*dx)
		a.Set(r, 7, -sy*dx)
		b.SetVec(r, dx)

		// dy = (h3*sx + h4*sy + h5) / (h6*sx + h7*sy + 1)
		a.Set(r+1, 3, sx)
		a.Set(r+1, 4, sy)
		a.Set(r+1, 5, 1)
		a.Set(r+1, 6, -sx*dy)
		a.Set(r+1, 7, -sy*dy)
		b.SetVec(r+1, dy)
	}

	var params mat.VecDense
	if err := params.SolveVec(a, b); err != nil {
		return Identity(), false
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = params.AtVec(i)
	}
	h[8] = 1
	return h, true
}
