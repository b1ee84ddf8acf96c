// Package source provides byte-range addressing into script source text.
// Every AST node and every compile error carries a Slice so that
// diagnostics can be rendered lazily against the original source string.
package source

import (
	"fmt"
	"strings"
)

// Slice is a half-open [Begin,End) byte range into the source text.
// It does not hold a reference to the text itself; the text is threaded
// through explicitly wherever a snippet has to be recovered.
type Slice struct {
	Begin int
	End   int
}

// NewSlice creates a Slice covering [begin,end).
func NewSlice(begin, end int) Slice {
	return Slice{Begin: begin, End: end}
}

// Text returns the source text covered by the slice.
func (s Slice) Text(src string) string {
	return src[s.Begin:s.End]
}

// Join returns the smallest slice covering both s and other.
func (s Slice) Join(other Slice) Slice {
	out := s
	if other.Begin < out.Begin {
		out.Begin = other.Begin
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// Position is a zero-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// locate translates a byte offset into a line/column position.
// Returns false if the offset lies past the end of the source.
func locate(src string, offset int) (Position, bool) {
	counter := 0
	for i, line := range strings.Split(src, "\n") {
		if counter+len(line)+1 > offset {
			return Position{Line: i, Column: offset - counter}, true
		}
		counter += len(line) + 1
	}
	return Position{}, false
}

// Snippet renders the source span covered by a slice for user-facing
// diagnostics: the offending line(s) prefixed with line numbers, with the
// span underlined. Single-position slices render a caret instead.
type Snippet struct {
	Source string
	Slice  Slice
}

// NewSnippet creates a snippet for the given slice of src.
func NewSnippet(slice Slice, src string) Snippet {
	return Snippet{Source: src, Slice: slice}
}

// String renders the snippet.
func (sn Snippet) String() string {
	lo, ok := locate(sn.Source, sn.Slice.Begin)
	if !ok {
		return ""
	}
	hi, ok := locate(sn.Source, sn.Slice.End)
	if !ok {
		hi = lo
	}

	lines := strings.Split(sn.Source, "\n")

	if lo == hi {
		return fmt.Sprintf("%s\n%s^", lines[lo.Line], strings.Repeat(" ", lo.Column))
	}

	var b strings.Builder
	caret := lo.Column
	for line := lo.Line; line <= hi.Line; line++ {
		srcLine := lines[line]
		span := len(srcLine) - caret
		if line == hi.Line {
			span = hi.Column - caret
		}
		if span < 0 {
			span = 0
		}
		fmt.Fprintf(&b, "%03d: %s\n", line+1, srcLine)
		b.WriteString(strings.Repeat(" ", caret+5))
		b.WriteString(strings.Repeat("~", span))
		b.WriteByte('\n')
		caret = 0
	}
	return b.String()
}

// LineColumn returns the one-based line and column of the slice's start.
func (s Slice) LineColumn(src string) (line, column int) {
	pos, ok := locate(src, s.Begin)
	if !ok {
		return 0, 0
	}
	return pos.Line + 1, pos.Column + 1
}
