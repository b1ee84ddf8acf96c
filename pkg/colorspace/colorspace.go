// Package colorspace provides linear and sRGB color types with alpha and
// the transfer functions between them. Script color values and uniform
// values are always linear; sRGB appears only at the edges (color literals
// in scripts, texture declarations, final display).
package colorspace

import (
	"image/color"
	"math"
)

// LinearRGBA is a linear-space color with alpha.
type LinearRGBA struct {
	R, G, B, A float32
}

// NewLinear creates a linear color from its components.
func NewLinear(r, g, b, a float32) LinearRGBA {
	return LinearRGBA{R: r, G: g, B: b, A: a}
}

// SrgbRGBA is an sRGB color. The alpha component stays linear.
type SrgbRGBA struct {
	R, G, B, A float32
}

// NewSrgb creates an sRGB color from its components.
func NewSrgb(r, g, b, a float32) SrgbRGBA {
	return SrgbRGBA{R: r, G: g, B: b, A: a}
}

// SrgbFromRGBA unpacks a 0xRRGGBBAA value into an sRGB color.
func SrgbFromRGBA(rgba uint32) SrgbRGBA {
	return SrgbRGBA{
		R: float32((rgba>>24)&0xff) / 255.0,
		G: float32((rgba>>16)&0xff) / 255.0,
		B: float32((rgba>>8)&0xff) / 255.0,
		A: float32(rgba&0xff) / 255.0,
	}
}

func srgbToLinear(v float32) float32 {
	switch {
	case v <= 0.0:
		return 0.0
	case v <= 0.04045:
		return v / 12.92
	case v <= 1.0:
		return float32(math.Pow(float64(v+0.055)/1.055, 2.4))
	default:
		return 1.0
	}
}

func linearToSrgb(v float32) float32 {
	switch {
	case v <= 0.0:
		return 0.0
	case v < 0.0031308:
		return v * 12.92
	case v <= 1.0:
		return float32(math.Pow(float64(v), 1.0/2.4))*1.055 - 0.055
	default:
		return 1.0
	}
}

// Linear converts the color to linear space.
func (c SrgbRGBA) Linear() LinearRGBA {
	return LinearRGBA{
		R: srgbToLinear(c.R),
		G: srgbToLinear(c.G),
		B: srgbToLinear(c.B),
		A: c.A,
	}
}

// Srgb converts the color to sRGB space.
func (c LinearRGBA) Srgb() SrgbRGBA {
	return SrgbRGBA{
		R: linearToSrgb(c.R),
		G: linearToSrgb(c.G),
		B: linearToSrgb(c.B),
		A: c.A,
	}
}

// NRGBA converts the color to an 8-bit non-premultiplied stdlib color,
// applying the sRGB transfer function for display.
func (c LinearRGBA) NRGBA() color.NRGBA {
	s := c.Srgb()
	return color.NRGBA{
		R: uint8(clamp01(s.R)*255 + 0.5),
		G: uint8(clamp01(s.G)*255 + 0.5),
		B: uint8(clamp01(s.B)*255 + 0.5),
		A: uint8(clamp01(s.A)*255 + 0.5),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
