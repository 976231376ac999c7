package preprocess

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/z33-asm/source"
)

// DirectiveError is raised by an explicit #error directive.
type DirectiveError struct {
	Message string
	Loc     source.AbsoluteLocation
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s: #error %s", e.Loc, e.Message)
}

// IncludeCycleError reports a #include chain that revisits a path already
// open higher up the include stack.
type IncludeCycleError struct {
	Path  string
	Stack []string
	Loc   source.AbsoluteLocation
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("%s: circular include of %q (stack: %s)", e.Loc, e.Path, strings.Join(e.Stack, " -> "))
}

// UndefinedConditionalNameError reports a #if/#elif condition referencing a
// name with no #define in scope, distinct from expr's own
// ErrUndefinedVariable so a preprocessor diagnostic doesn't leak the
// expression package's vocabulary.
type UndefinedConditionalNameError struct {
	Name string
	Loc  source.AbsoluteLocation
}

func (e *UndefinedConditionalNameError) Error() string {
	return fmt.Sprintf("%s: undefined name %q in conditional", e.Loc, e.Name)
}

// MalformedDirectiveError covers directive syntax errors: a missing key, an
// unparsable #if condition, an #include with no path, an unknown directive
// keyword.
type MalformedDirectiveError struct {
	Detail string
	Loc    source.AbsoluteLocation
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Detail)
}

// UnterminatedIfError reports a #if with no matching #endif.
type UnterminatedIfError struct {
	Loc source.AbsoluteLocation
}

func (e *UnterminatedIfError) Error() string {
	return fmt.Sprintf("%s: unterminated #if", e.Loc)
}

// DanglingDirectiveError reports a #elif, #else or #endif with no open #if.
type DanglingDirectiveError struct {
	Keyword string
	Loc     source.AbsoluteLocation
}

func (e *DanglingDirectiveError) Error() string {
	return fmt.Sprintf("%s: #%s with no matching #if", e.Loc, e.Keyword)
}
