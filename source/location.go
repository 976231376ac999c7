// Package source holds the location model shared by every stage of the
// pipeline: the preprocessor, the expression/line grammar, and the layout
// engine all tag their nodes with a Location so diagnostics can point back
// into the original files.
package source

import "fmt"

// RelativeLocation is an (offset, length) span measured from the start of
// the immediate parent slice. The parser records these while it still holds
// zero-copy string slices; they are cheap to construct and don't need to
// know which file they came from.
type RelativeLocation struct {
	Offset int
	Length int
}

// Relative builds a RelativeLocation from an offset and a length.
func Relative(offset, length int) RelativeLocation {
	return RelativeLocation{Offset: offset, Length: length}
}

// RelativeFromSlices derives a RelativeLocation from three slices of the
// same backing string: the parent slice, the slice at the start of the
// located span, and the slice just after it. This mirrors how the AST
// builders record spans while parsing (before/after cursors), without
// requiring manual offset arithmetic at every call site.
func RelativeFromSlices(parent, start, end string) RelativeLocation {
	offset := len(parent) - len(start)
	length := len(start) - len(end)
	return RelativeLocation{Offset: offset, Length: length}
}

// AbsoluteLocation is a fully resolved (file, offset, length) span; Offset
// counts bytes from the start of File. Invariant: an absolute location's
// span is contained within its parent's span.
type AbsoluteLocation struct {
	File   string
	Offset int
	Length int
}

// ToAbsolute converts a RelativeLocation into an AbsoluteLocation given its
// parent's already-absolute location. The child's offset is the parent's
// offset plus the child's relative offset; this is the single post-pass
// described in the data model.
func (r RelativeLocation) ToAbsolute(parent AbsoluteLocation) AbsoluteLocation {
	return AbsoluteLocation{
		File:   parent.File,
		Offset: parent.Offset + r.Offset,
		Length: r.Length,
	}
}

func (a AbsoluteLocation) String() string {
	return fmt.Sprintf("%s:+%d#%d", a.File, a.Offset, a.Length)
}

// Position is a human-facing (file, line, column) location used for
// diagnostics once an AbsoluteLocation has been mapped back through a
// Provenance (see preprocess.Provenance).
type Position struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}
