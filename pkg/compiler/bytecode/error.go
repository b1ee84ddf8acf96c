package bytecode

import (
	"fmt"

	"github.com/glintlab/glint/pkg/compiler/ast"
	"github.com/glintlab/glint/pkg/compiler/source"
)

// SemanticError is a compile-time error carrying the offending node's
// source slice. Compilation stops at the first semantic error; the whole
// unit is rejected.
type SemanticError struct {
	S       source.Slice
	Message string
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic error: %s", e.Message)
}

// Slice returns the offending source span.
func (e *SemanticError) Slice() source.Slice { return e.S }

// Snippet renders the offending span against the original source.
func (e *SemanticError) Snippet(src string) string {
	return source.NewSnippet(e.S, src).String()
}

func errorAt(node ast.Node, format string, args ...any) *SemanticError {
	return &SemanticError{S: node.Slice(), Message: fmt.Sprintf(format, args...)}
}
