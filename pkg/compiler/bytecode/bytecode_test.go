package bytecode

import (
	"errors"
	"strings"
	"testing"

	"github.com/glintlab/glint/pkg/compiler/parser"
	"github.com/glintlab/glint/pkg/render"
)

func compileSource(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	compiled, err := Compile(src, prog)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return compiled
}

func compileError(t *testing.T, src string) *SemanticError {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Compile(src, prog)
	if err == nil {
		t.Fatal("expected a semantic error")
	}
	var se *SemanticError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *SemanticError", err)
	}
	return se
}

func TestCompile_HeaderDeduplication(t *testing.T) {
	src := `
fn pass() {
	program({vert: "quad.vert", frag: "blur.frag"})
	uniform_texture_srgb("tex", "noise.png")
	draw_fullscreenquad()
}

fn main() {
	program({vert: "quad.vert", frag: "blur.frag"})
	program({vert: "quad.vert", frag: "scene.frag"})
	uniform_texture_srgb("tex", "noise.png")
	uniform_texture_linear("lut", "noise.png")
	draw_model("cube.obj")
	draw_model("cube.obj")
	pass()
}`

	compiled := compileSource(t, src)
	h := compiled.Header

	// Two distinct programs, first-seen order.
	if len(h.Programs) != 2 {
		t.Fatalf("programs = %d, want 2", len(h.Programs))
	}
	if h.Programs[0].Frag != "blur.frag" || h.Programs[1].Frag != "scene.frag" {
		t.Errorf("program order = %q, %q", h.Programs[0].Frag, h.Programs[1].Frag)
	}

	// Same path with different srgb flags is two distinct textures.
	if len(h.Textures) != 2 {
		t.Fatalf("textures = %d, want 2", len(h.Textures))
	}
	if !h.Textures[0].SRGB || h.Textures[1].SRGB {
		t.Errorf("texture srgb flags = %v, %v, want true, false", h.Textures[0].SRGB, h.Textures[1].SRGB)
	}

	if len(h.Models) != 1 || h.Models[0] != "cube.obj" {
		t.Fatalf("models = %v, want [cube.obj]", h.Models)
	}
}

func TestCompile_ExternalResourcesExcludeIblFolders(t *testing.T) {
	src := `
fn main() {
	program({vert: "a.vert", frag: "a.frag"})
	uniform_texture_srgb("t", "tex.png")
	uniform_ibl("env/studio")
	draw_model("cube.obj")
}`

	h := compileSource(t, src).Header

	for _, want := range []string{"a.vert", "a.frag", "tex.png", "cube.obj"} {
		if _, ok := h.ExternalResources[want]; !ok {
			t.Errorf("external resources missing %q", want)
		}
	}
	if _, ok := h.ExternalResources["env/studio"]; ok {
		t.Error("IBL folder must not appear in external resources")
	}
	if len(h.Ibls) != 1 || h.Ibls[0].Folder != "env/studio" {
		t.Errorf("ibls = %v", h.Ibls)
	}
}

func TestCompile_SyncTracksCollected(t *testing.T) {
	src := `
rendertarget rt(sync.res.w, sync.res.h)

fn main() {
	if sync.verse.intensity > 0.5 {
		uniform_float("a", sync.bass)
	}
}`

	h := compileSource(t, src).Header

	for _, want := range []string{"res:w", "res:h", "verse:intensity", "bass"} {
		if _, ok := h.SyncTracks[want]; !ok {
			t.Errorf("sync tracks missing %q, got %v", want, h.SyncTracks)
		}
	}
}

func TestCompile_ScreenNameReserved(t *testing.T) {
	se := compileError(t, `rendertarget screen(1, 1)`)
	if !strings.Contains(se.Error(), "reserved") {
		t.Errorf("error = %q, want reserved-name message", se.Error())
	}
}

func TestCompile_DuplicateTargetName(t *testing.T) {
	se := compileError(t, "rendertarget rt(1, 1)\nrendertarget rt(2, 2)")
	if !strings.Contains(se.Error(), "multiple definitions") {
		t.Errorf("error = %q, want duplicate message", se.Error())
	}
}

func TestCompile_BindUnknownTarget(t *testing.T) {
	src := `fn main() { bind_rt("nope") }`
	se := compileError(t, src)
	if !strings.Contains(se.Error(), "unknown render target") {
		t.Errorf("error = %q", se.Error())
	}
	// The slice points at the argument, not the whole call.
	if got := se.Slice().Text(src); got != "nope" {
		t.Errorf("error slice text = %q, want %q", got, "nope")
	}
}

func TestCompile_BindScreen(t *testing.T) {
	compiled := compileSource(t, `fn main() { bind_rt("screen") }`)
	body := compiled.Functions["main"].Body
	if len(body) != 1 {
		t.Fatalf("body length = %d", len(body))
	}
	if _, ok := body[0].(*BindScreenTarget); !ok {
		t.Fatalf("op = %T, want BindScreenTarget", body[0])
	}
}

func TestCompile_UnknownShaderStage(t *testing.T) {
	src := `fn main() { program({vert: "a.vert", frag: "a.frag", banana: "x"}) }`
	se := compileError(t, src)
	if !strings.Contains(se.Error(), "unknown shader stage") {
		t.Errorf("error = %q", se.Error())
	}
	if got := se.Slice().Text(src); got != "banana" {
		t.Errorf("error slice text = %q, want %q", got, "banana")
	}
}

func TestCompile_MissingMandatoryStages(t *testing.T) {
	se := compileError(t, `fn main() { program({vert: "a.vert"}) }`)
	if !strings.Contains(se.Error(), "vert and frag shaders are mandatory") {
		t.Errorf("error = %q", se.Error())
	}
}

func TestCompile_BuiltinArity(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bind_rt", `fn main() { bind_rt("a", "b") }`},
		{"clear", `fn main() { clear() }`},
		{"viewport", `fn main() { viewport(0, 0, 1) }`},
		{"uniform_rtt", `fn main() { uniform_rtt("n") }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := compileError(t, tt.src)
			if !strings.Contains(se.Error(), "arguments") {
				t.Errorf("error = %q, want arity message", se.Error())
			}
		})
	}
}

func TestCompile_TargetBufferResolution(t *testing.T) {
	src := `
rendertarget gbuf(1280, 720, albedo=rgba8, normal=rgba16f)

fn main() {
	uniform_rtt("tex", "gbuf.normal")
	pipeline_set_blending("add", "gbuf.albedo")
	pipeline_set_blending("alpha_blend", "screen")
}`

	compiled := compileSource(t, src)
	body := compiled.Functions["main"].Body

	rtt, ok := body[0].(*UniformRenderTargetTexture)
	if !ok {
		t.Fatalf("op 0 = %T", body[0])
	}
	if rtt.Target != 0 || rtt.Buffer != 1 {
		t.Errorf("rtt = target %d buffer %d, want 0/1", rtt.Target, rtt.Buffer)
	}

	blend, ok := body[1].(*SetBlending)
	if !ok {
		t.Fatalf("op 1 = %T", body[1])
	}
	if blend.Buffer != 0 || blend.Mode != render.BlendAdd {
		t.Errorf("blend = buffer %d mode %v", blend.Buffer, blend.Mode)
	}

	screenBlend, ok := body[2].(*SetBlending)
	if !ok {
		t.Fatalf("op 2 = %T", body[2])
	}
	if screenBlend.Buffer != 0 {
		t.Errorf("screen blend buffer = %d, want 0", screenBlend.Buffer)
	}
}

func TestCompile_UnknownTargetBuffer(t *testing.T) {
	src := `
rendertarget rt(1, 1, c=rgba8)
fn main() { uniform_rtt("tex", "rt.missing") }`
	se := compileError(t, src)
	if !strings.Contains(se.Error(), "unknown buffer") {
		t.Errorf("error = %q", se.Error())
	}
}

func TestCompile_DotOnlyOnVariables(t *testing.T) {
	se := compileError(t, `fn main() { uniform_float("a", f().x) }`)
	if !strings.Contains(se.Error(), "`.` operator can only be used with variable names") {
		t.Errorf("error = %q", se.Error())
	}
}

func TestCompile_ConditionalStructurePreserved(t *testing.T) {
	src := `
fn main() {
	if t > 0.5 {
		draw_fullscreenquad()
	} else {
		clear(#000000)
		draw_fullscreenquad()
	}
}`

	compiled := compileSource(t, src)
	body := compiled.Functions["main"].Body

	cond, ok := body[0].(*Conditional)
	if !ok {
		t.Fatalf("op = %T, want Conditional", body[0])
	}
	if len(cond.Then) != 1 || len(cond.Else) != 2 {
		t.Errorf("then/else = %d/%d ops, want 1/2", len(cond.Then), len(cond.Else))
	}
}

func TestCompile_UserCallFallsThrough(t *testing.T) {
	src := `
fn flash(v: float) { uniform_float("flash", v) }
fn main() { flash(1.0) }`

	compiled := compileSource(t, src)
	body := compiled.Functions["main"].Body

	call, ok := body[0].(*CallUser)
	if !ok {
		t.Fatalf("op = %T, want CallUser", body[0])
	}
	if call.Call.Name != "flash" || len(call.Call.Args) != 1 {
		t.Errorf("call = %q with %d args", call.Call.Name, len(call.Call.Args))
	}
}
