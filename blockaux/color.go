package blockaux

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// ContrastColor returns white over dark backgrounds and black over light ones,
// judged by Rec. 709 relative luminance.
func ContrastColor(bg color.Color) color.Color {
	r, g, b := unitRGB(bg)
	if 0.2126*r+0.7152*g+0.0722*b < 0.5 {
		return color.White
	}
	return color.Black
}

// InterpColor blends c0 towards c1 by t, component wise in RGB. t is clamped to [0,1].
func InterpColor(c0, c1 color.Color, t float32) color.RGBA {
	t = ms1.Clamp(t, 0, 1)
	r0, g0, b0 := unitRGB(c0)
	r1, g1, b1 := unitRGB(c1)
	return color.RGBA{
		R: uint8(ms1.Interp(r0, r1, t) * math.MaxUint8),
		G: uint8(ms1.Interp(g0, g1, t) * math.MaxUint8),
		B: uint8(ms1.Interp(b0, b1, t) * math.MaxUint8),
		A: 255,
	}
}

func unitRGB(c color.Color) (r, g, b float32) {
	r0, g0, b0, _ := c.RGBA()
	return float32(r0) / 0xffff, float32(g0) / 0xffff, float32(b0) / 0xffff
}
