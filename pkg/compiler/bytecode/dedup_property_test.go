package bytecode

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/glintlab/glint/pkg/compiler/parser"
)

// TestProperty_TextureDedupFirstSeenOrder checks that any sequence of
// texture declarations compiles to the unique declarations in first-seen
// order, with every handle stable across re-compilation.
func TestProperty_TextureDedupFirstSeenOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	pathGen := gen.OneConstOf("a.png", "b.png", "c.png", "d.png")

	properties.Property("handles are first-seen unique order", prop.ForAll(
		func(paths []string) bool {
			var b strings.Builder
			b.WriteString("fn main() {\n")
			for _, p := range paths {
				fmt.Fprintf(&b, "\tuniform_texture_srgb(\"t\", %q)\n", p)
			}
			b.WriteString("}\n")
			src := b.String()

			prog, err := parser.Parse(src)
			if err != nil {
				return false
			}
			compiled, err := Compile(src, prog)
			if err != nil {
				return false
			}

			var wantOrder []string
			seen := map[string]bool{}
			for _, p := range paths {
				if !seen[p] {
					seen[p] = true
					wantOrder = append(wantOrder, p)
				}
			}

			if len(compiled.Header.Textures) != len(wantOrder) {
				return false
			}
			for i, want := range wantOrder {
				if compiled.Header.Textures[i].Path != want {
					return false
				}
			}

			// Every use compiles to the handle of its first occurrence.
			for _, op := range compiled.Functions["main"].Body {
				tex, ok := op.(*UniformTexture)
				if !ok {
					return false
				}
				if int(tex.Index) >= len(wantOrder) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(pathGen),
	))

	properties.TestingRun(t)
}

// TestProperty_CompileIsDeterministic checks that compiling the same
// source twice yields identical headers.
func TestProperty_CompileIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	pathGen := gen.OneConstOf("x.frag", "y.frag", "z.frag")

	properties.Property("same source, same header", prop.ForAll(
		func(frags []string) bool {
			var b strings.Builder
			b.WriteString("fn main() {\n")
			for _, f := range frags {
				fmt.Fprintf(&b, "\tprogram({vert: \"q.vert\", frag: %q})\n", f)
			}
			b.WriteString("}\n")
			src := b.String()

			prog, err := parser.Parse(src)
			if err != nil {
				return false
			}
			first, err := Compile(src, prog)
			if err != nil {
				return false
			}
			second, err := Compile(src, prog)
			if err != nil {
				return false
			}

			if len(first.Header.Programs) != len(second.Header.Programs) {
				return false
			}
			for i := range first.Header.Programs {
				if first.Header.Programs[i] != second.Header.Programs[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(pathGen),
	))

	properties.TestingRun(t)
}
