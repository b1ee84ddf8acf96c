// Package project loads glint project files. A project is a directory
// holding a `glint.toml` next to the demo script, shaders, textures and
// the sync track file; the TOML file names the entry script and the
// window setup.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// DefaultFileName is the project file searched for in a project directory.
const DefaultFileName = "glint.toml"

// Project is a parsed and validated project file. Dir is the directory
// the file was loaded from; all paths in the file are relative to it.
type Project struct {
	Dir string

	Title    string `toml:"title"`
	Script   string `toml:"script"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
	LogLevel string `toml:"log-level,omitempty"`

	Soundtrack *Soundtrack `toml:"soundtrack,omitempty"`
	Sync       *Sync       `toml:"sync,omitempty"`
}

// Soundtrack names the MIDI file and the SoundFont it is rendered with.
// When present, the soundtrack drives the demo clock.
type Soundtrack struct {
	Midi      string `toml:"midi"`
	SoundFont string `toml:"soundfont"`
}

// Sync names the keyframe track file.
type Sync struct {
	Tracks string `toml:"tracks"`
}

// Load reads the project file at path and validates it. Path may also be
// a project directory, in which case DefaultFileName inside it is used.
func Load(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat project path: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}

	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}

	p := &Project{Dir: filepath.Dir(path)}
	if err := toml.Unmarshal(buff, p); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) validate() error {
	if p.Script == "" {
		return fmt.Errorf("project file does not name a script")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("project window size must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.Title == "" {
		p.Title = "glint"
	}
	if p.Soundtrack != nil {
		if p.Soundtrack.Midi == "" || p.Soundtrack.SoundFont == "" {
			return fmt.Errorf("soundtrack section must name both midi and soundfont")
		}
	}
	return nil
}

// ScriptPath returns the absolute-ish path of the entry script.
func (p *Project) ScriptPath() string {
	return filepath.Join(p.Dir, p.Script)
}

// TracksPath returns the path of the sync track file, or "" when the
// project declares none.
func (p *Project) TracksPath() string {
	if p.Sync == nil || p.Sync.Tracks == "" {
		return ""
	}
	return filepath.Join(p.Dir, p.Sync.Tracks)
}
