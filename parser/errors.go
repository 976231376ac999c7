package parser

import (
	"fmt"

	"github.com/lookbusy1344/z33-asm/source"
)

// SyntaxError covers any line-grammar violation that isn't more specifically
// typed below: an unexpected character, a malformed operand, a missing
// register name.
type SyntaxError struct {
	Detail string
	Loc    source.RelativeLocation
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Loc.Offset, e.Detail)
}

// UnknownMnemonicError reports an instruction mnemonic with no schema
// entry: parse failure with a pointer at the mnemonic token.
type UnknownMnemonicError struct {
	Mnemonic string
	Loc      source.RelativeLocation
}

func (e *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("offset %d: unknown mnemonic %q", e.Loc.Offset, e.Mnemonic)
}

// ArityError reports an instruction called with the wrong number of
// arguments for its schema.
type ArityError struct {
	Mnemonic string
	Want     int
	Got      int
	Loc      source.RelativeLocation
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("offset %d: %s expects %d argument(s), got %d", e.Loc.Offset, e.Mnemonic, e.Want, e.Got)
}

// UnterminatedStringError reports a string literal with no closing quote
// before end of line or end of input.
type UnterminatedStringError struct {
	Loc source.RelativeLocation
}

func (e *UnterminatedStringError) Error() string {
	return fmt.Sprintf("offset %d: unterminated string literal", e.Loc.Offset)
}

// DirectiveArgumentShapeError reports a directive whose argument doesn't
// structurally match its kind (e.g. .string with no quoted literal).
// Enforced by the grammar, not by layout.
type DirectiveArgumentShapeError struct {
	Kind DirectiveKind
	Loc  source.RelativeLocation
}

func (e *DirectiveArgumentShapeError) Error() string {
	return fmt.Sprintf("offset %d: %s argument has the wrong shape", e.Loc.Offset, e.Kind)
}

// UnknownDirectiveError reports a directive keyword other than
// word/space/addr/string.
type UnknownDirectiveError struct {
	Keyword string
	Loc     source.RelativeLocation
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("offset %d: unknown directive .%s", e.Loc.Offset, e.Keyword)
}
