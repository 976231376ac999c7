// Package parser implements the line grammar and program parser: it
// splits preprocessed text into logical lines (honoring
// backslash-newline continuations and string escapes), then parsing each
// line into an optional label list, an optional directive or instruction,
// and an optional trailing comment.
package parser

import (
	"fmt"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/source"
)

// DirectiveKind is the sum type: Word | Space | Addr |
// String, each constraining its argument's shape.
type DirectiveKind int

const (
	DirWord DirectiveKind = iota
	DirSpace
	DirAddr
	DirString
)

func (k DirectiveKind) String() string {
	switch k {
	case DirWord:
		return ".word"
	case DirSpace:
		return ".space"
	case DirAddr:
		return ".addr"
	case DirString:
		return ".string"
	default:
		return fmt.Sprintf("DirectiveKind(%d)", int(k))
	}
}

// Directive is a `.kind argument` line Expr holds the
// parsed expression for Word/Space/Addr; StringLit holds the decoded string
// for String. Exactly one of the two is meaningful, selected by Kind.
type Directive struct {
	Kind      DirectiveKind
	Expr      *expr.RelativeNode
	StringLit string
	Loc       source.RelativeLocation
}

// ArgumentKind distinguishes the instruction operand forms this module
// supports: a bare register, an immediate/labelable expression, a
// register-indirect memory reference, and an indexed (offset + register)
// memory reference.
type ArgumentKind int

const (
	ArgRegister ArgumentKind = iota
	ArgImmediate
	ArgIndirect
	ArgIndexed
)

// InstructionArgument is one operand of an Instruction. Register is
// populated for ArgRegister/ArgIndirect/ArgIndexed (the base register
// name, without its leading '%'). Expr is populated for ArgImmediate
// (the whole operand) and ArgIndexed (the offset expression).
type InstructionArgument struct {
	Kind     ArgumentKind
	Register string
	Expr     *expr.RelativeNode
	Loc      source.RelativeLocation
}

// Instruction is a mnemonic plus its ordered arguments
// Exactly one argument position may be labelable, per the instruction's
// Schema (see schema.go); that position is resolved against the label table
// after layout, not here.
type Instruction struct {
	Mnemonic  string
	Arguments []InstructionArgument
	Loc       source.RelativeLocation
}

// ContentKind distinguishes what, if anything, a Line carries besides its
// labels and comment.
type ContentKind int

const (
	ContentNone ContentKind = iota
	ContentDirective
	ContentInstruction
)

// Line is one logical program line: an ordered list of
// labels (insertion order preserved), optional content, optional comment.
// A label with no content still binds, to the address of whatever placement
// follows it.
type Line struct {
	Symbols     []string
	SymbolLocs  []source.RelativeLocation
	ContentKind ContentKind
	Directive   *Directive
	Instruction *Instruction
	Comment     string
	HasComment  bool
	Loc         source.RelativeLocation
}

// Program is the ordered sequence of parsed Lines It
// carries no symbol table of its own; the layout engine (package layout)
// builds labels while walking Lines in order.
type Program struct {
	Lines []Line
}
