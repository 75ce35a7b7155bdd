// Package colorutil provides shared color conversion utilities.
package colorutil

import (
	"image/color"
	"math"
)

// Luminance converts 8-bit RGB to an 8-bit grayscale intensity using the
// BT.601 weights (the same weighting used by image/color's GrayModel).
func Luminance(r, g, b uint8) uint8 {
	y := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	return uint8(y + 0.5)
}

// LuminanceColor converts any color to an 8-bit grayscale intensity.
func LuminanceColor(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()
	return Luminance(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// ValueChannel returns the HSV value channel (0-255) for 8-bit RGB, which is
// simply the maximum of the three channels.
func ValueChannel(r, g, b uint8) uint8 {
	v := r
	if g > v {
		v = g
	}
	if b > v {
		v = b
	}
	return v
}
