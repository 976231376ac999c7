// Package layout implements the memory layout engine: a
// single monotone-cursor pass over a parsed Program that binds every label to
// an address and places every instruction, word, reserved block, and string
// character into a sparse memory map.
package layout

import (
	"sort"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/parser"
)

// ProgramStart is the address the layout cursor starts at, before the first
// line of the program is placed. Assembler-facing config may override this
// (see the config package); the layout engine itself only needs a starting
// value handed to it by the caller.
const ProgramStart uint64 = 0

// PlacementKind distinguishes what occupies a memory cell.
type PlacementKind int

const (
	// PlacementReserved is an uninitialized cell carved out by .space.
	PlacementReserved PlacementKind = iota
	// PlacementChar is one Unicode scalar value written by .string.
	PlacementChar
	// PlacementLine is one cell holding an instruction or a .word value;
	// LineIndex identifies which Program.Lines entry produced it, so a
	// later stage (the label resolver, a memory_report renderer) can go
	// back to the source Instruction or Directive.
	PlacementLine
)

// Placement is what occupies a single memory cell's
// Reserved | Char(scalar) | Line(LineContent) sum type.
type Placement struct {
	Kind      PlacementKind
	Char      rune
	LineIndex int
}

// Layout is the result of placing a Program in memory: every label's bound
// address, and every occupied cell's Placement.
type Layout struct {
	Labels map[string]uint64
	Memory map[uint64]Placement
}

// Build runs the layout algorithm over prog, starting the cursor at start.
// It binds labels in declaration order, failing on a duplicate; places one
// cell per instruction or .word; evaluates .space/.addr arguments against
// the empty context (label-free constants only, since these decide where
// later labels land); and writes one Char cell per Unicode scalar value of
// a .string's decoded text.
func Build(prog *parser.Program, start uint64) (*Layout, error) {
	cursor := start
	labels := make(map[string]uint64)
	memory := make(map[uint64]Placement)

	place := func(addr uint64, p Placement, loc parser.Line) error {
		if _, exists := memory[addr]; exists {
			return &MemoryOverlapError{Address: addr, Loc: loc.Loc}
		}
		memory[addr] = p
		return nil
	}

	for i := range prog.Lines {
		line := &prog.Lines[i]

		for j, label := range line.Symbols {
			if _, exists := labels[label]; exists {
				return nil, &DuplicateLabelError{Label: label, Loc: line.SymbolLocs[j]}
			}
			labels[label] = cursor
		}

		switch line.ContentKind {
		case parser.ContentNone:
			// no placement

		case parser.ContentInstruction:
			if err := place(cursor, Placement{Kind: PlacementLine, LineIndex: i}, *line); err != nil {
				return nil, err
			}
			cursor++

		case parser.ContentDirective:
			d := line.Directive
			switch d.Kind {
			case parser.DirWord:
				if d.Expr == nil {
					return nil, &InvalidDirectiveArgumentError{Kind: d.Kind, Loc: d.Loc}
				}
				if err := place(cursor, Placement{Kind: PlacementLine, LineIndex: i}, *line); err != nil {
					return nil, err
				}
				cursor++

			case parser.DirSpace:
				n, err := evalNonNegative(d)
				if err != nil {
					return nil, err
				}
				for k := uint64(0); k < n; k++ {
					if err := place(cursor+k, Placement{Kind: PlacementReserved}, *line); err != nil {
						return nil, err
					}
				}
				cursor += n

			case parser.DirAddr:
				addr, err := evalNonNegative(d)
				if err != nil {
					return nil, err
				}
				cursor = addr

			case parser.DirString:
				for _, r := range d.StringLit {
					if err := place(cursor, Placement{Kind: PlacementChar, Char: r}, *line); err != nil {
						return nil, err
					}
					cursor++
				}
			}
		}
	}

	return &Layout{Labels: labels, Memory: memory}, nil
}

// evalNonNegative evaluates a .space or .addr directive's expression against
// the empty context and narrows it to a non-negative uint64: these
// arguments must be label-free constants, and a negative count or target
// is a shape violation rather than an evaluation failure.
func evalNonNegative(d *parser.Directive) (uint64, error) {
	if d.Expr == nil {
		return 0, &InvalidDirectiveArgumentError{Kind: d.Kind, Loc: d.Loc}
	}
	v, err := expr.Eval(d.Expr, expr.EmptyContext{}, expr.WidthFull)
	if err != nil {
		return 0, &DirectiveArgumentEvaluationError{Kind: d.Kind, Inner: err, Loc: d.Loc}
	}
	if v.Sign() < 0 {
		return 0, &InvalidDirectiveArgumentError{Kind: d.Kind, Loc: d.Loc}
	}
	n, err := expr.Narrow(v)
	if err != nil {
		return 0, &DirectiveArgumentEvaluationError{Kind: d.Kind, Inner: err, Loc: d.Loc}
	}
	return n, nil
}

// ReportEntry is one row of a memory_report listing
type ReportEntry struct {
	Address   uint64
	Placement Placement
}

// Report returns every occupied cell in address order, for the inspector
// and for a textual memory_report rendering.
func (l *Layout) Report() []ReportEntry {
	entries := make([]ReportEntry, 0, len(l.Memory))
	for addr, p := range l.Memory {
		entries = append(entries, ReportEntry{Address: addr, Placement: p})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	return entries
}
