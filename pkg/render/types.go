// Package render defines the types shared between the bytecode compiler
// and rendering backends: render-target pixel formats, pipeline state
// enums, and the Backend contract the interpreter drives.
package render

// TargetFormat is the pixel format of one color buffer of a render target.
type TargetFormat int

const (
	// sRGB formats
	FormatSrgb8 TargetFormat = iota
	FormatSrgba8

	// linear 8-bit formats
	FormatR8
	FormatRgb8
	FormatRgba8

	// linear 16-bit formats
	FormatR16
	FormatR16F
	FormatRgb16
	FormatRgb16F
	FormatRgba16
	FormatRgba16F

	// linear 32-bit formats
	FormatR32F
	FormatRgb32F
	FormatRgba32F
)

var formatNames = map[string]TargetFormat{
	"srgb8":   FormatSrgb8,
	"srgba8":  FormatSrgba8,
	"r8":      FormatR8,
	"rgb8":    FormatRgb8,
	"rgba8":   FormatRgba8,
	"r16":     FormatR16,
	"r16f":    FormatR16F,
	"rgb16":   FormatRgb16,
	"rgb16f":  FormatRgb16F,
	"rgba16":  FormatRgba16,
	"rgba16f": FormatRgba16F,
	"r32f":    FormatR32F,
	"rgb32f":  FormatRgb32F,
	"rgba32f": FormatRgba32F,
}

// TargetFormatFromString parses a pixel format name as it appears in a
// render-target declaration.
func TargetFormatFromString(s string) (TargetFormat, bool) {
	f, ok := formatNames[s]
	return f, ok
}

// String returns the script-level name of the format.
func (f TargetFormat) String() string {
	for name, format := range formatNames {
		if format == f {
			return name
		}
	}
	return "unknown"
}

// BlendMode selects the blending equation for one color buffer.
type BlendMode int

const (
	BlendNone BlendMode = iota
	BlendAdd
	BlendAlpha
	BlendOitCoverage
)

// BlendModeFromString parses a blend mode name used by
// pipeline_set_blending.
func BlendModeFromString(s string) (BlendMode, bool) {
	switch s {
	case "none":
		return BlendNone, true
	case "add":
		return BlendAdd, true
	case "alpha_blend":
		return BlendAlpha, true
	case "oit_coverage_blend":
		return BlendOitCoverage, true
	}
	return 0, false
}

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendAdd:
		return "add"
	case BlendAlpha:
		return "alpha_blend"
	case BlendOitCoverage:
		return "oit_coverage_blend"
	}
	return "unknown"
}

// ZTestMode selects the depth test function.
type ZTestMode int

const (
	ZTestLessEqual ZTestMode = iota
	ZTestEqual
	ZTestAlways
)

// ZTestModeFromString parses a z-test mode name used by pipeline_set_ztest.
func ZTestModeFromString(s string) (ZTestMode, bool) {
	switch s {
	case "less_equal":
		return ZTestLessEqual, true
	case "equal":
		return ZTestEqual, true
	case "always":
		return ZTestAlways, true
	}
	return 0, false
}

func (m ZTestMode) String() string {
	switch m {
	case ZTestLessEqual:
		return "less_equal"
	case ZTestEqual:
		return "equal"
	case ZTestAlways:
		return "always"
	}
	return "unknown"
}

// CullingMode selects which triangle faces are culled.
type CullingMode int

const (
	CullFront CullingMode = iota
	CullBack
	CullNone
)

// CullingModeFromString parses a culling mode name used by
// pipeline_set_culling.
func CullingModeFromString(s string) (CullingMode, bool) {
	switch s {
	case "front":
		return CullFront, true
	case "back":
		return CullBack, true
	case "none":
		return CullNone, true
	}
	return 0, false
}

func (m CullingMode) String() string {
	switch m {
	case CullFront:
		return "front"
	case CullBack:
		return "back"
	case CullNone:
		return "none"
	}
	return "unknown"
}
