package timeline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sinshu/go-meltysynth/meltysynth"
)

// SampleRate is the rate the soundtrack is synthesized and played at.
const SampleRate = 44100

// MusicProvider drives the demo clock from the soundtrack. A MIDI file is
// synthesized through a SoundFont and streamed to the audio device; the
// demo time is the number of samples handed to the device divided by the
// sample rate, so picture and sound cannot drift apart. Track values come
// from the same keyframe table the KeyframeProvider uses.
type MusicProvider struct {
	keys   *Keyframes
	stream *musicStream
	player *audio.Player
}

// NewMusicProvider synthesizes the MIDI file at midiPath through the
// SoundFont at soundFontPath and starts playback on the given audio
// context. The context must use SampleRate.
func NewMusicProvider(ctx *audio.Context, keys *Keyframes, soundFontPath, midiPath string) (*MusicProvider, error) {
	sfData, err := os.ReadFile(soundFontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read SoundFont: %w", err)
	}
	sf, err := meltysynth.NewSoundFont(bytes.NewReader(sfData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SoundFont: %w", err)
	}

	midiData, err := os.ReadFile(midiPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	midiFile, err := meltysynth.NewMidiFile(bytes.NewReader(midiData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI file: %w", err)
	}

	settings := meltysynth.NewSynthesizerSettings(SampleRate)
	synthesizer, err := meltysynth.NewSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}
	sequencer := meltysynth.NewMidiFileSequencer(synthesizer)
	sequencer.Play(midiFile, false)

	stream := &musicStream{sequencer: sequencer}
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player: %w", err)
	}
	player.Play()

	return &MusicProvider{keys: keys, stream: stream, player: player}, nil
}

func (p *MusicProvider) RequireTrack(track string) error {
	if !p.keys.Has(track) {
		return fmt.Errorf("track file does not define sync track %q", track)
	}
	return nil
}

// Update is a no-op: time advances as the audio device pulls samples.
func (p *MusicProvider) Update() {}

func (p *MusicProvider) Time() float32 {
	return p.stream.time()
}

func (p *MusicProvider) Value(track string) (float32, bool) {
	row := p.Time() * float32(p.keys.FPS)
	return p.keys.ValueAt(track, row)
}

// musicStream implements io.Reader for the audio player, rendering stereo
// int16 samples from the sequencer and counting them.
type musicStream struct {
	sequencer *meltysynth.MidiFileSequencer
	samples   int64
	mutex     sync.Mutex
}

func (ms *musicStream) Read(p []byte) (int, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	// 2 channels * 2 bytes per sample.
	sampleCount := len(p) / 4
	left := make([]float32, sampleCount)
	right := make([]float32, sampleCount)
	ms.sequencer.Render(left, right)

	for i := 0; i < sampleCount; i++ {
		binary.LittleEndian.PutUint16(p[i*4:], uint16(int16(left[i]*32767)))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(int16(right[i]*32767)))
	}

	ms.samples += int64(sampleCount)
	return sampleCount * 4, nil
}

func (ms *musicStream) time() float32 {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	return float32(ms.samples) / SampleRate
}
