// Package raster provides the flat pixel buffers the detection pipeline
// operates on: grayscale intensity planes and binary masks.
package raster

import (
	"image"

	"cardscan/pkg/colorutil"
)

// Gray is a row-major 8-bit grayscale buffer.
type Gray struct {
	W, H int
	Pix  []uint8
}

// NewGray allocates a zeroed grayscale buffer.
func NewGray(w, h int) *Gray {
	if w <= 0 || h <= 0 {
		return &Gray{}
	}
	return &Gray{W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the intensity at (x, y). Out-of-bounds reads return 0.
func (g *Gray) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.W || y >= g.H {
		return 0
	}
	return g.Pix[y*g.W+x]
}

// Valid reports whether the buffer has consistent dimensions and storage.
func (g *Gray) Valid() bool {
	return g != nil && g.W > 0 && g.H > 0 && len(g.Pix) == g.W*g.H
}

// Binary is a row-major binary mask; set pixels hold 255, clear pixels 0.
type Binary struct {
	W, H int
	Pix  []uint8
}

// NewBinary allocates a zeroed (all-clear) binary mask.
func NewBinary(w, h int) *Binary {
	if w <= 0 || h <= 0 {
		return &Binary{}
	}
	return &Binary{W: w, H: h, Pix: make([]uint8, w*h)}
}

// Get reports whether the pixel at (x, y) is set. Out-of-bounds reads are clear.
func (b *Binary) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.Pix[y*b.W+x] != 0
}

// Set marks the pixel at (x, y). Out-of-bounds writes are ignored.
func (b *Binary) Set(x, y int) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.Pix[y*b.W+x] = 255
}

// Or merges another mask of the same dimensions into this one.
func (b *Binary) Or(other *Binary) {
	if other == nil || other.W != b.W || other.H != b.H {
		return
	}
	for i, v := range other.Pix {
		if v != 0 {
			b.Pix[i] = 255
		}
	}
}

// Count returns the number of set pixels.
func (b *Binary) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Valid reports whether the mask has consistent dimensions and storage.
func (b *Binary) Valid() bool {
	return b != nil && b.W > 0 && b.H > 0 && len(b.Pix) == b.W*b.H
}

// FromImage converts a decoded image to a grayscale buffer using BT.601
// luminance. Returns nil for a nil or empty image.
func FromImage(img image.Image) *Gray {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}

	g := NewGray(w, h)

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(g.Pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				i := x * 4
				g.Pix[y*w+x] = colorutil.Luminance(row[i], row[i+1], row[i+2])
			}
		}
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := src.Pix[y*src.Stride:]
			for x := 0; x < w; x++ {
				i := x * 4
				g.Pix[y*w+x] = colorutil.Luminance(row[i], row[i+1], row[i+2])
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			copy(g.Pix[y*w:(y+1)*w], src.Y[y*src.YStride:y*src.YStride+w])
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.Pix[y*w+x] = colorutil.LuminanceColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
	}

	return g
}
