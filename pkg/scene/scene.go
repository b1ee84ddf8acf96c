// Package scene turns a script file into a drawable unit: read, parse,
// compile, preload the backend resources in declaration order, then draw
// once per frame. A scene is replaced as a whole on reload; when reloading
// fails, the previous scene keeps running.
package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/glintlab/glint/pkg/compiler/bytecode"
	"github.com/glintlab/glint/pkg/compiler/parser"
	"github.com/glintlab/glint/pkg/fileutil"
	"github.com/glintlab/glint/pkg/render"
	"github.com/glintlab/glint/pkg/timeline"
	"github.com/glintlab/glint/pkg/vm"
)

// Scene is a compiled script bound to a backend's loaded resources.
type Scene struct {
	Path    string
	Source  string
	Program *bytecode.Program
}

// Load builds a scene from the script at path: the source is parsed and
// compiled, then every declared shader program, model, texture and IBL
// set is loaded through the backend in declaration order, so the indices
// the backend assigns line up with the compiled handles.
func Load(log *slog.Logger, path string, backend render.Backend) (*Scene, error) {
	log.Info("Opening demo", "path", path)

	src, err := fileutil.ReadScript(path)
	if err != nil {
		return nil, err
	}

	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	compiled, err := bytecode.Compile(src, prog)
	if err != nil {
		return nil, err
	}

	if err := preload(compiled, backend); err != nil {
		return nil, err
	}

	return &Scene{Path: path, Source: src, Program: compiled}, nil
}

// preload loads declared resources in declaration order and checks the
// index the backend hands back against the declaration's handle.
func preload(compiled *bytecode.Program, backend render.Backend) error {
	h := compiled.Header

	for i, p := range h.Programs {
		index, err := backend.LoadProgram(p.Vert, p.Frag)
		if err != nil {
			return fmt.Errorf("failed to load shader program %d: %w", i, err)
		}
		if index != uint32(i) {
			return fmt.Errorf("backend assigned shader program index %d, expected %d", index, i)
		}
	}
	for i, path := range h.Models {
		index, err := backend.LoadModel(path)
		if err != nil {
			return fmt.Errorf("failed to load model %s: %w", path, err)
		}
		if index != uint32(i) {
			return fmt.Errorf("backend assigned model index %d, expected %d", index, i)
		}
	}
	for i, t := range h.Textures {
		index, err := backend.LoadTexture(t.Path, t.SRGB)
		if err != nil {
			return fmt.Errorf("failed to load texture %s: %w", t.Path, err)
		}
		if index != uint32(i) {
			return fmt.Errorf("backend assigned texture index %d, expected %d", index, i)
		}
	}
	for i, ibl := range h.Ibls {
		index, err := backend.LoadIbl(ibl.Folder)
		if err != nil {
			return fmt.Errorf("failed to load IBL set %s: %w", ibl.Folder, err)
		}
		if index != uint32(i) {
			return fmt.Errorf("backend assigned IBL index %d, expected %d", index, i)
		}
	}
	return nil
}

// RequireTracks declares every sync track the script reads with the
// provider, so missing tracks are caught before the first frame.
func (s *Scene) RequireTracks(provider timeline.Provider) error {
	for track := range s.Program.Header.SyncTracks {
		if err := provider.RequireTrack(track); err != nil {
			return err
		}
	}
	return nil
}

// Draw runs the script's main function for one frame.
func (s *Scene) Draw(backend render.Backend, tracks vm.TrackSource, width, height, timeSec float32) error {
	return vm.Execute(s.Program, backend, tracks, width, height, timeSec)
}

// Dir returns the scene's project directory.
func (s *Scene) Dir() string {
	return filepath.Dir(s.Path)
}
