package bytecode

import (
	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/render"
)

// ScreenTargetName is the reserved render-target name for the window's
// buffer. It cannot be declared by a script.
const ScreenTargetName = "screen"

// TextureDecl declares an external texture. Identity is structural:
// the same path with the same color space is the same texture.
type TextureDecl struct {
	Path string
	SRGB bool
}

// IblDecl declares an image-based-lighting set loaded from a folder.
type IblDecl struct {
	Folder string
}

// BufferFormat is one named color buffer of a render target.
type BufferFormat struct {
	Name   string
	Format render.TargetFormat
}

// RenderTarget is a resolved render-target declaration. Width and height
// stay expressions; they are evaluated per frame.
type RenderTarget struct {
	Name     string
	Width    Expr
	Height   Expr
	Formats  []BufferFormat
	HasDepth bool
}

// bufferIndex returns the index of the named color buffer.
func (rt *RenderTarget) bufferIndex(name string) (uint32, bool) {
	for i := range rt.Formats {
		if rt.Formats[i].Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// ProgramDecl declares a shader-program combination. Vert and Frag are
// mandatory; the other stages are optional (empty when absent). Identity
// is structural equality over all fields.
type ProgramDecl struct {
	Vert     string
	TessCtrl string
	TessEval string
	Geom     string
	Frag     string
	Comp     string
}

// stagePaths returns the non-empty stage paths.
func (p *ProgramDecl) stagePaths() []string {
	var out []string
	for _, path := range []string{p.Vert, p.TessCtrl, p.TessEval, p.Geom, p.Frag, p.Comp} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

// Header is the resolved, deduplicated table of every declaration in a
// source program. It is built once per compile, before bytecode emission,
// and is immutable afterward. Slice order determines the stable integer
// handle assigned to each declaration.
type Header struct {
	SyncTracks map[string]struct{}
	Targets    []RenderTarget
	Programs   []ProgramDecl
	Models     []string
	Textures   []TextureDecl
	Ibls       []IblDecl

	// ExternalResources is the union of every shader stage path, model
	// path and texture path referenced by the declarations above, used by
	// loaders to preload files. IBL folders are deliberately absent: IBL
	// data follows a multi-file folder convention handled by the loader
	// itself.
	ExternalResources map[string]struct{}
}

// collectHeader scans the whole syntax tree once and builds the Header.
func collectHeader(src string, prog *ast.Program) (*Header, error) {
	h := &Header{
		SyncTracks:        make(map[string]struct{}),
		ExternalResources: make(map[string]struct{}),
	}

	prog.VisitSyncTracks(src, func(track string) {
		h.SyncTracks[track] = struct{}{}
	})

	if err := h.collectTargets(src, prog); err != nil {
		return nil, err
	}
	if err := h.collectDeclarations(src, prog); err != nil {
		return nil, err
	}
	h.collectExternalResources()
	return h, nil
}

func (h *Header) collectTargets(src string, prog *ast.Program) error {
	for i := range prog.RenderTargets {
		decl := &prog.RenderTargets[i]
		name := decl.Name.Text(src)
		if name == ScreenTargetName {
			return errorAt(decl, "the render target name `screen` is reserved for the window's buffer")
		}
		for j := range h.Targets {
			if h.Targets[j].Name == name {
				return errorAt(decl, "multiple definitions of `%s` found", name)
			}
		}

		width, err := compileExpr(src, decl.Width)
		if err != nil {
			return err
		}
		height, err := compileExpr(src, decl.Height)
		if err != nil {
			return err
		}
		target := RenderTarget{
			Name:     name,
			Width:    width,
			Height:   height,
			HasDepth: decl.HasDepth,
		}
		for _, buf := range decl.Buffers {
			target.Formats = append(target.Formats, BufferFormat{
				Name:   buf.Name.Text(src),
				Format: buf.Format,
			})
		}
		h.Targets = append(h.Targets, target)
	}
	return nil
}

// collectDeclarations walks every statement of every function body looking
// for the builtin calls that declare external resources. Declarations are
// deduplicated by structural equality, preserving first-seen order.
// Statements nested in both branches of conditionals are visited alike.
func (h *Header) collectDeclarations(src string, prog *ast.Program) error {
	for i := range prog.Functions {
		if err := h.collectFromBlock(src, prog.Functions[i].Body); err != nil {
			return err
		}
	}
	return nil
}

func (h *Header) collectFromBlock(src string, block []ast.Stmt) error {
	for _, stmt := range block {
		switch s := stmt.(type) {
		case *ast.CallStmt:
			if err := h.collectFromCall(src, s.Call); err != nil {
				return err
			}
		case *ast.IfStmt:
			if err := h.collectFromBlock(src, s.Then); err != nil {
				return err
			}
			if s.Else != nil {
				if err := h.collectFromBlock(src, s.Else); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (h *Header) collectFromCall(src string, call *ast.CallExpr) error {
	switch call.FuncName(src) {
	case "program":
		if len(call.Args) != 1 {
			return nil
		}
		decl, err := programDeclFromAST(src, call.Args[0])
		if err != nil {
			return err
		}
		for i := range h.Programs {
			if h.Programs[i] == *decl {
				return nil
			}
		}
		h.Programs = append(h.Programs, *decl)

	case "draw_model":
		if len(call.Args) != 1 {
			return nil
		}
		path, err := expectString(src, call.Args[0])
		if err != nil {
			return err
		}
		for _, m := range h.Models {
			if m == path {
				return nil
			}
		}
		h.Models = append(h.Models, path)

	case "uniform_texture_srgb", "uniform_texture_linear":
		if len(call.Args) != 2 {
			return nil
		}
		path, err := expectString(src, call.Args[1])
		if err != nil {
			return err
		}
		decl := TextureDecl{Path: path, SRGB: call.FuncName(src) == "uniform_texture_srgb"}
		for i := range h.Textures {
			if h.Textures[i] == decl {
				return nil
			}
		}
		h.Textures = append(h.Textures, decl)

	case "uniform_ibl":
		if len(call.Args) != 1 {
			return nil
		}
		folder, err := expectString(src, call.Args[0])
		if err != nil {
			return err
		}
		decl := IblDecl{Folder: folder}
		for i := range h.Ibls {
			if h.Ibls[i] == decl {
				return nil
			}
		}
		h.Ibls = append(h.Ibls, decl)
	}
	return nil
}

func (h *Header) collectExternalResources() {
	for i := range h.Programs {
		for _, path := range h.Programs[i].stagePaths() {
			h.ExternalResources[path] = struct{}{}
		}
	}
	for _, model := range h.Models {
		h.ExternalResources[model] = struct{}{}
	}
	for i := range h.Textures {
		h.ExternalResources[h.Textures[i].Path] = struct{}{}
	}
}

// programDeclFromAST decodes the dictionary argument of a program(...)
// call. Keys name shader stages; vert and frag are mandatory.
func programDeclFromAST(src string, arg ast.Expr) (*ProgramDecl, error) {
	dict, ok := arg.(*ast.DictExpr)
	if !ok {
		return nil, errorAt(arg, "expected dict")
	}

	decl := &ProgramDecl{}
	for i := range dict.Entries {
		entry := &dict.Entries[i]
		stage := entry.Key.Text(src)
		path, err := expectString(src, entry.Value)
		if err != nil {
			return nil, err
		}
		switch stage {
		case "vert":
			decl.Vert = path
		case "tess_ctrl":
			decl.TessCtrl = path
		case "tess_eval":
			decl.TessEval = path
		case "geom":
			decl.Geom = path
		case "frag":
			decl.Frag = path
		case "comp":
			decl.Comp = path
		default:
			return nil, &SemanticError{S: entry.Key, Message: "unknown shader stage: " + stage}
		}
	}

	if decl.Vert == "" || decl.Frag == "" {
		return nil, errorAt(arg, "vert and frag shaders are mandatory")
	}
	return decl, nil
}

// targetIndex looks up a render target by name.
func (h *Header) targetIndex(name string) (uint32, bool) {
	for i := range h.Targets {
		if h.Targets[i].Name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// programIndex looks up a program declaration by structural equality.
func (h *Header) programIndex(decl *ProgramDecl) (uint32, bool) {
	for i := range h.Programs {
		if h.Programs[i] == *decl {
			return uint32(i), true
		}
	}
	return 0, false
}

// modelIndex looks up a model by path.
func (h *Header) modelIndex(path string) (uint32, bool) {
	for i, m := range h.Models {
		if m == path {
			return uint32(i), true
		}
	}
	return 0, false
}

// textureIndex looks up a texture declaration by structural equality.
func (h *Header) textureIndex(decl TextureDecl) (uint32, bool) {
	for i := range h.Textures {
		if h.Textures[i] == decl {
			return uint32(i), true
		}
	}
	return 0, false
}

// iblIndex looks up an IBL declaration by structural equality.
func (h *Header) iblIndex(decl IblDecl) (uint32, bool) {
	for i := range h.Ibls {
		if h.Ibls[i] == decl {
			return uint32(i), true
		}
	}
	return 0, false
}
