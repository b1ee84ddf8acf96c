package render

import "testing"

func TestTargetFormatFromString(t *testing.T) {
	tests := []struct {
		name string
		want TargetFormat
	}{
		{"srgb8", FormatSrgb8},
		{"srgba8", FormatSrgba8},
		{"r8", FormatR8},
		{"rgba8", FormatRgba8},
		{"rgba16f", FormatRgba16F},
		{"rgba32f", FormatRgba32F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := TargetFormatFromString(tt.name)
			if !ok || f != tt.want {
				t.Errorf("TargetFormatFromString(%q) = %v, %v", tt.name, f, ok)
			}
			if f.String() != tt.name {
				t.Errorf("String() = %q, want %q", f.String(), tt.name)
			}
		})
	}

	if _, ok := TargetFormatFromString("rgba64"); ok {
		t.Error("rgba64 should not parse")
	}
}

func TestBlendModeFromString(t *testing.T) {
	tests := []struct {
		name string
		want BlendMode
	}{
		{"none", BlendNone},
		{"add", BlendAdd},
		{"alpha_blend", BlendAlpha},
		{"oit_coverage_blend", BlendOitCoverage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := BlendModeFromString(tt.name)
			if !ok || m != tt.want {
				t.Errorf("BlendModeFromString(%q) = %v, %v", tt.name, m, ok)
			}
			if m.String() != tt.name {
				t.Errorf("String() = %q, want %q", m.String(), tt.name)
			}
		})
	}

	if _, ok := BlendModeFromString("multiply"); ok {
		t.Error("multiply should not parse")
	}
}

func TestZTestModeFromString(t *testing.T) {
	tests := []struct {
		name string
		want ZTestMode
	}{
		{"less_equal", ZTestLessEqual},
		{"equal", ZTestEqual},
		{"always", ZTestAlways},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ZTestModeFromString(tt.name)
			if !ok || m != tt.want {
				t.Errorf("ZTestModeFromString(%q) = %v, %v", tt.name, m, ok)
			}
			if m.String() != tt.name {
				t.Errorf("String() = %q, want %q", m.String(), tt.name)
			}
		})
	}

	if _, ok := ZTestModeFromString("never"); ok {
		t.Error("never should not parse")
	}
}

func TestCullingModeFromString(t *testing.T) {
	tests := []struct {
		name string
		want CullingMode
	}{
		{"front", CullFront},
		{"back", CullBack},
		{"none", CullNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := CullingModeFromString(tt.name)
			if !ok || m != tt.want {
				t.Errorf("CullingModeFromString(%q) = %v, %v", tt.name, m, ok)
			}
			if m.String() != tt.name {
				t.Errorf("String() = %q, want %q", m.String(), tt.name)
			}
		})
	}

	if _, ok := CullingModeFromString("both"); ok {
		t.Error("both should not parse")
	}
}
