// Package app wires the pieces into a runnable program: command line,
// project file, logger, timeline provider, preview backend and the ebiten
// game loop with hot reload.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/glintlab/glint/pkg/backend/preview"
	"github.com/glintlab/glint/pkg/cli"
	"github.com/glintlab/glint/pkg/compiler/bytecode"
	"github.com/glintlab/glint/pkg/compiler/parser"
	"github.com/glintlab/glint/pkg/diag"
	"github.com/glintlab/glint/pkg/fileutil"
	"github.com/glintlab/glint/pkg/logger"
	"github.com/glintlab/glint/pkg/project"
	"github.com/glintlab/glint/pkg/scene"
	"github.com/glintlab/glint/pkg/timeline"
)

// Application manages startup and the main loop.
type Application struct {
	config *cli.Config
	proj   *project.Project
	log    *slog.Logger
}

// New creates an Application.
func New() *Application {
	return &Application{}
}

// Run parses args, loads the project and runs the window loop until the
// window closes or the timeout expires.
func (app *Application) Run(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}
	app.config = config

	if config.ShowHelp {
		cli.PrintHelp()
		return nil
	}
	if config.ProjectPath == "" {
		cli.PrintHelp()
		return fmt.Errorf("no project path given")
	}

	proj, err := project.Load(config.ProjectPath)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	app.proj = proj

	// The project file may set a log level; an explicit flag wins.
	level := config.LogLevel
	if level == "info" && proj.LogLevel != "" {
		level = proj.LogLevel
	}
	if err := logger.InitLogger(level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.log = logger.GetLogger()

	app.log.Info("Application started", "project", proj.Dir, "script", proj.Script)

	provider, err := app.buildProvider()
	if err != nil {
		return fmt.Errorf("failed to build timeline provider: %w", err)
	}

	g := &game{
		log:      app.log,
		proj:     proj,
		provider: provider,
		watcher:  scene.NewWatcher(proj.Dir, 500*time.Millisecond),
	}
	if app.config.Timeout > 0 {
		g.deadline = time.Now().Add(app.config.Timeout)
	}
	g.loadScene()

	ebiten.SetWindowSize(proj.Width, proj.Height)
	ebiten.SetWindowTitle(proj.Title)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}

// buildProvider picks the timeline provider: the soundtrack drives the
// clock when the project has one, otherwise a pausable wall clock plays
// the keyframe tracks.
func (app *Application) buildProvider() (timeline.Provider, error) {
	keys := timeline.EmptyKeyframes()
	if path := app.proj.TracksPath(); path != "" {
		loaded, err := timeline.LoadKeyframes(path)
		if err != nil {
			return nil, err
		}
		keys = loaded
		app.log.Info("Track file loaded", "path", path)
	}

	if st := app.proj.Soundtrack; st != nil {
		ctx := audio.NewContext(timeline.SampleRate)
		provider, err := timeline.NewMusicProvider(ctx, keys,
			fileutil.Resolve(app.proj.Dir, st.SoundFont),
			fileutil.Resolve(app.proj.Dir, st.Midi))
		if err != nil {
			return nil, err
		}
		app.log.Info("Soundtrack loaded", "midi", st.Midi, "soundfont", st.SoundFont)
		return provider, nil
	}

	return timeline.NewKeyframeProvider(keys), nil
}

// game is the ebiten.Game driving the demo. The scene and its backend are
// replaced together on reload; a failed reload keeps the running pair.
type game struct {
	log      *slog.Logger
	proj     *project.Project
	provider timeline.Provider
	watcher  *scene.Watcher
	deadline time.Time

	backend *preview.Backend
	scene   *scene.Scene
}

// loadScene builds a fresh backend and scene from the project's script.
// On failure the previous pair stays in place and the error is shown.
func (g *game) loadScene() {
	backend := preview.New(g.log, g.proj.Dir)
	s, err := scene.Load(g.log, g.proj.ScriptPath(), backend)
	if err != nil {
		g.reportLoadError(err)
		return
	}
	if err := s.RequireTracks(g.provider); err != nil {
		diag.PrintErrorMessage("Sync Error", err)
		return
	}
	g.backend = backend
	g.scene = s
	g.log.Info("Scene loaded", "path", s.Path,
		"targets", len(s.Program.Header.Targets),
		"programs", len(s.Program.Header.Programs))
}

func (g *game) reportLoadError(err error) {
	var pe *parser.Error
	var se *bytecode.SemanticError
	switch {
	case errors.As(err, &pe), errors.As(err, &se):
		src, readErr := fileutil.ReadScript(g.proj.ScriptPath())
		if readErr != nil {
			diag.PrintErrorMessage("Load Error", err)
			return
		}
		kind := "Parse"
		if se != nil {
			kind = "Semantic"
		}
		diag.PrintCompileError(kind, g.proj.ScriptPath(), src, err)
	default:
		diag.PrintErrorMessage("Load Error", err)
	}
}

func (g *game) Update() error {
	if !g.deadline.IsZero() && time.Now().After(g.deadline) {
		g.log.Info("Timeout reached, exiting")
		return ebiten.Termination
	}
	if g.watcher.Changed() {
		g.log.Info("Project changed, reloading")
		g.loadScene()
	}
	g.provider.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.scene == nil || g.backend == nil {
		return
	}
	g.backend.SetScreen(screen)
	w := float32(g.proj.Width)
	h := float32(g.proj.Height)
	if err := g.scene.Draw(g.backend, g.provider, w, h, g.provider.Time()); err != nil {
		// A runtime error aborts this frame only; the next frame retries.
		g.log.Error("Frame failed", "error", err)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.proj.Width, g.proj.Height
}
