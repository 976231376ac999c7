package resolve

import (
	"fmt"

	"github.com/lookbusy1344/z33-asm/source"
)

// LabelResolutionError wraps a failure evaluating a labelable instruction
// argument against the label table — most commonly a reference to a label
// that was never defined.
type LabelResolutionError struct {
	Mnemonic string
	Inner    error
	Loc      source.RelativeLocation
}

func (e *LabelResolutionError) Error() string {
	return fmt.Sprintf("offset %d: resolving %s argument: %v", e.Loc.Offset, e.Mnemonic, e.Inner)
}

func (e *LabelResolutionError) Unwrap() error { return e.Inner }
