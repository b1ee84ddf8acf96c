package timeline

import (
	"strings"
	"testing"
)

const sampleTrackFile = `
fps = 60.0

[[track]]
name = "verse:intensity"

[[track.key]]
row = 0.0
value = 0.0

[[track.key]]
row = 60.0
value = 1.0

[[track]]
name = "bass"

[[track.key]]
row = 30.0
value = 2.0
`

func TestParseKeyframes(t *testing.T) {
	kf, err := ParseKeyframes([]byte(sampleTrackFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kf.FPS != 60.0 {
		t.Errorf("fps = %v, want 60", kf.FPS)
	}
	if !kf.Has("verse:intensity") || !kf.Has("bass") {
		t.Error("expected both tracks to be defined")
	}
	if kf.Has("chorus") {
		t.Error("chorus should not be defined")
	}
}

func TestParseKeyframes_DefaultFPS(t *testing.T) {
	kf, err := ParseKeyframes([]byte(`[[track]]
name = "a"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if kf.FPS != 24.0 {
		t.Errorf("fps = %v, want the 24 default", kf.FPS)
	}
}

func TestParseKeyframes_DuplicateTrack(t *testing.T) {
	_, err := ParseKeyframes([]byte(`
[[track]]
name = "a"

[[track]]
name = "a"
`))
	if err == nil || !strings.Contains(err.Error(), `duplicate track "a"`) {
		t.Fatalf("error = %v", err)
	}
}

func TestParseKeyframes_SortsKeysByRow(t *testing.T) {
	kf, err := ParseKeyframes([]byte(`
[[track]]
name = "a"

[[track.key]]
row = 10.0
value = 5.0

[[track.key]]
row = 0.0
value = 1.0
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := kf.ValueAt("a", 5.0)
	if !ok || v != 3.0 {
		t.Errorf("ValueAt(5) = %v, %v, want 3", v, ok)
	}
}

func TestKeyframes_ValueAt(t *testing.T) {
	kf, err := ParseKeyframes([]byte(sampleTrackFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		track string
		row   float32
		want  float32
	}{
		{"at first key", "verse:intensity", 0.0, 0.0},
		{"midpoint", "verse:intensity", 30.0, 0.5},
		{"quarter", "verse:intensity", 15.0, 0.25},
		{"at last key", "verse:intensity", 60.0, 1.0},
		{"clamped before", "verse:intensity", -10.0, 0.0},
		{"clamped after", "verse:intensity", 120.0, 1.0},
		{"single key before", "bass", 0.0, 2.0},
		{"single key after", "bass", 99.0, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := kf.ValueAt(tt.track, tt.row)
			if !ok {
				t.Fatalf("track %q not found", tt.track)
			}
			if v != tt.want {
				t.Errorf("ValueAt(%q, %v) = %v, want %v", tt.track, tt.row, v, tt.want)
			}
		})
	}
}

func TestKeyframes_ValueAtMissingTrack(t *testing.T) {
	kf := EmptyKeyframes()
	if _, ok := kf.ValueAt("nope", 0); ok {
		t.Error("expected ok=false for an undefined track")
	}
}

func TestKeyframeProvider_RequireTrack(t *testing.T) {
	kf, err := ParseKeyframes([]byte(sampleTrackFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := NewKeyframeProvider(kf)

	if err := p.RequireTrack("bass"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err = p.RequireTrack("chorus:amount")
	if err == nil || !strings.Contains(err.Error(), `does not define sync track "chorus:amount"`) {
		t.Errorf("error = %v", err)
	}
}

func TestKeyframeProvider_ValueFollowsClock(t *testing.T) {
	kf, err := ParseKeyframes([]byte(sampleTrackFile))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := NewKeyframeProvider(kf)

	// Force the clock instead of sleeping: 0.5s at 60 fps is row 30.
	p.clock = playClock{time: 0.5}
	v, ok := p.Value("verse:intensity")
	if !ok || v != 0.5 {
		t.Errorf("Value = %v, %v, want 0.5", v, ok)
	}
	if p.Time() != 0.5 {
		t.Errorf("Time = %v, want 0.5", p.Time())
	}
}
