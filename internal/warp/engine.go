package warp

import (
	"image"
	"image/color"
	"math"

	"cardscan/pkg/geometry"
)

// Physical ID-1 card dimensions (ISO/IEC 7810).
const (
	CardWidthMM  = 85.6
	CardHeightMM = 53.98

	mmPerInch = 25.4
)

// Options configures the rectified output image.
type Options struct {
	// DPI sets the output resolution when explicit dimensions are absent.
	DPI float64
	// OutputWidth and OutputHeight override the DPI-derived size when both
	// are positive.
	OutputWidth  int
	OutputHeight int
}

// DefaultOptions returns warp options producing a 100 DPI card image.
func DefaultOptions() Options {
	return Options{DPI: 100}
}

// OutputSize returns the rectified image dimensions in pixels.
func (o Options) OutputSize() (int, int) {
	if o.OutputWidth > 0 && o.OutputHeight > 0 {
		return o.OutputWidth, o.OutputHeight
	}
	dpi := o.DPI
	if dpi <= 0 {
		dpi = 100
	}
	w := int(CardWidthMM / mmPerInch * dpi)
	h := int(CardHeightMM / mmPerInch * dpi)
	return w, h
}

// Engine rectifies card quadrilaterals into flat images.
type Engine struct {
	opts Options
}

// NewEngine creates a warp engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Warp maps the quadrilateral bounded by the ordered corners onto the fixed
// output rectangle. Each destination pixel is inverse-mapped into the source
// and bilinearly sampled; destinations falling outside the source stay black.
// Near-degenerate corner sets degrade to an identity mapping rather than
// failing. Returns nil only for a nil source image.
func (e *Engine) Warp(src image.Image, corners [4]geometry.Point2D) *image.RGBA {
	if src == nil {
		return nil
	}

	dstW, dstH := e.opts.OutputSize()
	dst := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: float64(dstW - 1), Y: 0},
		{X: float64(dstW - 1), Y: float64(dstH - 1)},
		{X: 0, Y: float64(dstH - 1)},
	}

	forward, ok := Compute(corners, dst)
	if !ok {
		forward = Identity()
	}
	inverse := forward.Invert()

	bounds := src.Bounds()
	srcW := float64(bounds.Dx())
	srcH := float64(bounds.Dy())
	out := image.NewRGBA(image.Rect(0, 0, dstW, dstH))

	// Inverse-mapping a corner can land a float epsilon outside the source
	// rectangle; clamp those back instead of painting them black.
	const boundsEps = 1e-6

	for y := 0; y < dstH; y++ {
		for x := 0; x < dstW; x++ {
			sp := inverse.Apply(geometry.Point2D{X: float64(x), Y: float64(y)})
			if sp.X < -boundsEps || sp.Y < -boundsEps ||
				sp.X > srcW-1+boundsEps || sp.Y > srcH-1+boundsEps {
				out.SetRGBA(x, y, color.RGBA{A: 255})
				continue
			}
			sx := math.Min(math.Max(sp.X, 0), srcW-1)
			sy := math.Min(math.Max(sp.Y, 0), srcH-1)
			out.SetRGBA(x, y, bilinearSample(src, sx, sy))
		}
	}

	return out
}

// bilinearSample blends the four pixels around the fractional coordinate,
// per channel. The coordinate must already be within source bounds.
func bilinearSample(src image.Image, x, y float64) color.RGBA {
	bounds := src.Bounds()
	x0 := int(x)
	y0 := int(y)
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 > bounds.Dx()-1 {
		x1 = bounds.Dx() - 1
	}
	if y1 > bounds.Dy()-1 {
		y1 = bounds.Dy() - 1
	}
	fx := x - float64(x0)
	fy := y - float64(y0)

	c00 := channels(src, bounds, x0, y0)
	c10 := channels(src, bounds, x1, y0)
	c01 := channels(src, bounds, x0, y1)
	c11 := channels(src, bounds, x1, y1)

	var blended [3]float64
	for i := 0; i < 3; i++ {
		top := c00[i] + (c10[i]-c00[i])*fx
		bot := c01[i] + (c11[i]-c01[i])*fx
		blended[i] = top + (bot-top)*fy
	}

	return color.RGBA{
		R: uint8(blended[0] + 0.5),
		G: uint8(blended[1] + 0.5),
		B: uint8(blended[2] + 0.5),
		A: 255,
	}
}

func channels(src image.Image, bounds image.Rectangle, x, y int) [3]float64 {
	r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
	return [3]float64{float64(r >> 8), float64(g >> 8), float64(b >> 8)}
}
