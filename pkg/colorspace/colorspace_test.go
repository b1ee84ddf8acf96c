package colorspace

import (
	"image/color"
	"math"
	"testing"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestSrgbFromRGBA(t *testing.T) {
	c := SrgbFromRGBA(0x80FF00C0)
	if !approxEqual(c.R, 128.0/255.0) {
		t.Errorf("R = %v", c.R)
	}
	if !approxEqual(c.G, 1.0) {
		t.Errorf("G = %v", c.G)
	}
	if !approxEqual(c.B, 0.0) {
		t.Errorf("B = %v", c.B)
	}
	if !approxEqual(c.A, 192.0/255.0) {
		t.Errorf("A = %v", c.A)
	}
}

func TestSrgbToLinear_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		srgb float32
		want float32
	}{
		{"black", 0.0, 0.0},
		{"white", 1.0, 1.0},
		{"linear segment", 0.04, 0.04 / 12.92},
		{"mid gray", 128.0 / 255.0, 0.21586},
		{"above range clamps", 1.5, 1.0},
		{"below range clamps", -0.5, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSrgb(tt.srgb, tt.srgb, tt.srgb, 1.0).Linear()
			if !approxEqual(got.R, tt.want) {
				t.Errorf("Linear().R = %v, want %v", got.R, tt.want)
			}
		})
	}
}

func TestAlphaStaysLinear(t *testing.T) {
	lin := NewSrgb(0.5, 0.5, 0.5, 0.5).Linear()
	if lin.A != 0.5 {
		t.Errorf("A = %v, want 0.5 untouched", lin.A)
	}
	srgb := NewLinear(0.5, 0.5, 0.5, 0.5).Srgb()
	if srgb.A != 0.5 {
		t.Errorf("A = %v, want 0.5 untouched", srgb.A)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []float32{0.0, 0.001, 0.04045, 0.1, 0.5, 0.9, 1.0}
	for _, v := range values {
		got := NewSrgb(v, v, v, 1.0).Linear().Srgb()
		if !approxEqual(got.R, v) {
			t.Errorf("round trip of %v = %v", v, got.R)
		}
	}
}

func TestNRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   LinearRGBA
		want color.NRGBA
	}{
		{"black", NewLinear(0, 0, 0, 1), color.NRGBA{0, 0, 0, 255}},
		{"white", NewLinear(1, 1, 1, 1), color.NRGBA{255, 255, 255, 255}},
		{"mid gray", NewLinear(0.21586, 0.21586, 0.21586, 1), color.NRGBA{128, 128, 128, 255}},
		{"over range clamps", NewLinear(2, 2, 2, 2), color.NRGBA{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}
