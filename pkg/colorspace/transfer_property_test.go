package colorspace

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_TransferRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("srgb to linear and back is identity within tolerance", prop.ForAll(
		func(v float64) bool {
			s := float32(v)
			got := NewSrgb(s, s, s, 1.0).Linear().Srgb().R
			return math.Abs(float64(got-s)) < 1e-4
		},
		gen.Float64Range(0.0, 1.0),
	))

	properties.Property("transfer functions are monotonic", prop.ForAll(
		func(a, b float64) bool {
			lo, hi := float32(math.Min(a, b)), float32(math.Max(a, b))
			return srgbToLinear(lo) <= srgbToLinear(hi) &&
				linearToSrgb(lo) <= linearToSrgb(hi)
		},
		gen.Float64Range(0.0, 1.0),
		gen.Float64Range(0.0, 1.0),
	))

	properties.Property("linear values stay in range", prop.ForAll(
		func(v float64) bool {
			l := srgbToLinear(float32(v))
			return l >= 0.0 && l <= 1.0
		},
		gen.Float64Range(-2.0, 2.0),
	))

	properties.TestingRun(t)
}
