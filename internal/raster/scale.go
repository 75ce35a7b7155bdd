package raster

import (
	"image"

	"golang.org/x/image/draw"
)

// Downscale resizes an image so its longer side does not exceed maxDim,
// preserving aspect ratio. It returns the (possibly original) image and the
// factor by which coordinates in the result must be multiplied to map back
// to the source. maxDim <= 0 disables scaling.
func Downscale(img image.Image, maxDim int) (image.Image, float64) {
	if img == nil || maxDim <= 0 {
		return img, 1.0
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return img, 1.0
	}

	scale := float64(longest) / float64(maxDim)
	dw := int(float64(w)/scale + 0.5)
	dh := int(float64(h)/scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, scale
}
