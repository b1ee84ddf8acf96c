package timeline

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml"
)

// Key is a single keyframe: a row position on the timeline and a value.
// Rows are converted to seconds through the track file's fps.
type Key struct {
	Row   float32 `toml:"row"`
	Value float32 `toml:"value"`
}

// Track is a named curve made of keyframes, linearly interpolated.
type Track struct {
	Name string `toml:"name"`
	Keys []Key  `toml:"key"`
}

// Keyframes is a parsed track file: a row rate plus a set of named tracks.
type Keyframes struct {
	FPS    float64
	tracks map[string][]Key
}

type trackFile struct {
	FPS    float64 `toml:"fps"`
	Tracks []Track `toml:"track"`
}

// LoadKeyframes reads a TOML track file. Keys within each track are sorted
// by row; duplicate track names are an error.
func LoadKeyframes(path string) (*Keyframes, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}
	return ParseKeyframes(buff)
}

// ParseKeyframes parses track file contents.
func ParseKeyframes(buff []byte) (*Keyframes, error) {
	var tf trackFile
	if err := toml.Unmarshal(buff, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse track file: %w", err)
	}
	if tf.FPS <= 0 {
		tf.FPS = 24.0
	}

	kf := &Keyframes{FPS: tf.FPS, tracks: map[string][]Key{}}
	for _, t := range tf.Tracks {
		if _, ok := kf.tracks[t.Name]; ok {
			return nil, fmt.Errorf("duplicate track %q in track file", t.Name)
		}
		keys := append([]Key(nil), t.Keys...)
		sort.Slice(keys, func(i, j int) bool { return keys[i].Row < keys[j].Row })
		kf.tracks[t.Name] = keys
	}
	return kf, nil
}

// EmptyKeyframes returns a track table with no tracks, for projects that
// declare no track file.
func EmptyKeyframes() *Keyframes {
	return &Keyframes{FPS: 24.0, tracks: map[string][]Key{}}
}

// Has reports whether the named track exists.
func (kf *Keyframes) Has(track string) bool {
	_, ok := kf.tracks[track]
	return ok
}

// ValueAt evaluates the named track at the given row. Before the first key
// the track holds the first value, after the last key the last value, and
// between keys the value is linearly interpolated.
func (kf *Keyframes) ValueAt(track string, row float32) (float32, bool) {
	keys, ok := kf.tracks[track]
	if !ok {
		return 0, false
	}
	if len(keys) == 0 {
		return 0, true
	}
	if row <= keys[0].Row {
		return keys[0].Value, true
	}
	last := keys[len(keys)-1]
	if row >= last.Row {
		return last.Value, true
	}
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Row > row })
	a, b := keys[i-1], keys[i]
	t := (row - a.Row) / (b.Row - a.Row)
	return a.Value + (b.Value-a.Value)*t, true
}

// KeyframeProvider plays a keyframe track file against a pausable wall
// clock. It is the offline stand-in for a live sync editor.
type KeyframeProvider struct {
	keys  *Keyframes
	clock playClock
}

// NewKeyframeProvider starts playback at time zero.
func NewKeyframeProvider(keys *Keyframes) *KeyframeProvider {
	p := &KeyframeProvider{keys: keys}
	p.clock.play()
	return p
}

// RequireTrack fails when the track file does not define the track, so a
// script referencing a misspelled track dies at load time.
func (p *KeyframeProvider) RequireTrack(track string) error {
	if !p.keys.Has(track) {
		return fmt.Errorf("track file does not define sync track %q", track)
	}
	return nil
}

func (p *KeyframeProvider) Update() {
	p.clock.update()
}

func (p *KeyframeProvider) Time() float32 {
	return float32(p.clock.time)
}

func (p *KeyframeProvider) Value(track string) (float32, bool) {
	row := float32(p.clock.time * p.keys.FPS)
	return p.keys.ValueAt(track, row)
}
