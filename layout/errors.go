package layout

import (
	"fmt"

	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/source"
)

// DuplicateLabelError reports a label defined more than once.
type DuplicateLabelError struct {
	Label string
	Loc   source.RelativeLocation
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("offset %d: label %q already defined", e.Loc.Offset, e.Label)
}

// InvalidDirectiveArgumentError reports a directive argument that violates
// its kind's shape constraint: a missing expression for .word/.space/.addr,
// a negative .space count, or a negative .addr target.
type InvalidDirectiveArgumentError struct {
	Kind parser.DirectiveKind
	Loc  source.RelativeLocation
}

func (e *InvalidDirectiveArgumentError) Error() string {
	return fmt.Sprintf("offset %d: invalid argument for %s", e.Loc.Offset, e.Kind)
}

// DirectiveArgumentEvaluationError wraps a failure evaluating a directive's
// expression argument (e.g. a label reference in .space, which must be
// evaluated against the empty context).
type DirectiveArgumentEvaluationError struct {
	Kind  parser.DirectiveKind
	Inner error
	Loc   source.RelativeLocation
}

func (e *DirectiveArgumentEvaluationError) Error() string {
	return fmt.Sprintf("offset %d: evaluating %s argument: %v", e.Loc.Offset, e.Kind, e.Inner)
}

func (e *DirectiveArgumentEvaluationError) Unwrap() error { return e.Inner }

// MemoryOverlapError reports a write to an address already occupied by an
// earlier placement.
type MemoryOverlapError struct {
	Address uint64
	Loc     source.RelativeLocation
}

func (e *MemoryOverlapError) Error() string {
	return fmt.Sprintf("offset %d: memory overlap at address %d", e.Loc.Offset, e.Address)
}
