package utils

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

type ColorFloat [4]float32

var ColorWhite = ColorFloat{1, 1, 1, 1}

func (c ColorFloat) Vec4() mgl32.Vec4 {
	return mgl32.Vec4(c)
}

// NRGBA8 quantizes to 8 bits per component, rounding to nearest.
func (c ColorFloat) NRGBA8() color.NRGBA {
	q := func(f float32) uint8 {
		return uint8(clamp01(f)*255 + 0.5)
	}
	return color.NRGBA{R: q(c[0]), G: q(c[1]), B: q(c[2]), A: q(c[3])}
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	} else if f > 1 {
		return 1
	}
	return f
}
