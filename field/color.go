package field

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

var ColorWhite = Color{1, 1, 1, 1}
var ColorBlack = Color{0, 0, 0, 1}
var ColorGreen = Color{0, 1, 0, 1}
var ColorTransparent = Color{0, 0, 0, 0}

// Color is a straight rgba color value with components in linear rgb
// color space.
type Color [4]float32

// ColorSRGBA creates a Color value from non linear srgb encoded values.
// The color values will be transferred into linear rgb space. Use this if
// you picked a color from an image or a color picker.
func ColorSRGBA(r, g, b, a float32) Color {
	return Color{degamma(r), degamma(g), degamma(b), a}
}

// Components returns the color components.
func (c Color) Components() (r, g, b, a float32) {
	return c[0], c[1], c[2], c[3]
}

func (c Color) Alpha() float32 {
	return c[3]
}

// WithAlpha returns a new color with the alpha component set to the given value.
func (c Color) WithAlpha(alpha float32) Color {
	c[3] = alpha
	return c
}

// Scale returns a new color with the rgb components scaled by f.
func (c Color) Scale(f float32) Color {
	return Color{c[0] * f, c[1] * f, c[2] * f, c[3]}
}

// ToWGPU converts the color into the float64 clear color value used by
// render pass attachments.
func (c Color) ToWGPU() wgpu.Color {
	return wgpu.Color{
		R: float64(c[0]),
		G: float64(c[1]),
		B: float64(c[2]),
		A: float64(c[3]),
	}
}

func degamma(value float32) float32 {
	x := float64(value)

	// https://www.w3.org/TR/css-color-4/#color-conversion-code
	sign := math.Copysign(1, x)
	abs := math.Abs(x)
	if abs <= 0.04045 {
		return float32(x / 12.92)
	}

	return float32(sign * math.Pow((abs+0.055)/1.055, 2.4))
}
