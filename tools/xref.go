package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
	"github.com/lookbusy1344/z33-asm/source"
)

// Reference is one use of a label name by a labelable instruction argument.
type Reference struct {
	Line int // index into Program.Lines
	Loc  source.RelativeLocation
}

// Symbol is one label's definition plus every place it's referenced.
type Symbol struct {
	Name       string
	Address    uint64
	Defined    bool // false if referenced but never bound by layout.Build
	References []Reference
}

// XRefReport is the complete cross-reference table for a Program, sorted by
// address for bound symbols and then alphabetically for unbound ones.
type XRefReport struct {
	Symbols []*Symbol
}

// XRefGenerator walks a parsed Program together with the Layout built from
// it, collecting each label's definition site and reference sites.
type XRefGenerator struct {
	prog *parser.Program
	lay  *layout.Layout

	symbols map[string]*Symbol
}

// NewXRefGenerator creates a cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate builds the XRefReport for prog and lay.
func (g *XRefGenerator) Generate(prog *parser.Program, lay *layout.Layout) *XRefReport {
	g.prog = prog
	g.lay = lay
	g.symbols = make(map[string]*Symbol)

	for name, addr := range lay.Labels {
		g.symbols[name] = &Symbol{Name: name, Address: addr, Defined: true}
	}

	for i := range prog.Lines {
		line := &prog.Lines[i]
		if line.ContentKind != parser.ContentInstruction {
			continue
		}
		inst := line.Instruction
		schema, ok := parser.LookupSchema(inst.Mnemonic)
		if !ok || schema.LabelableIndex < 0 || schema.LabelableIndex >= len(inst.Arguments) {
			continue
		}
		arg := inst.Arguments[schema.LabelableIndex]
		if arg.Kind != parser.ArgImmediate || arg.Expr == nil {
			continue
		}
		g.collectReferences(arg.Expr, i, arg.Loc)
	}

	names := make([]string, 0, len(g.symbols))
	for name := range g.symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool {
		sa, sb := g.symbols[names[a]], g.symbols[names[b]]
		if sa.Defined != sb.Defined {
			return sa.Defined // defined symbols sort first
		}
		if sa.Defined {
			return sa.Address < sb.Address
		}
		return sa.Name < sb.Name
	})

	report := &XRefReport{}
	for _, name := range names {
		report.Symbols = append(report.Symbols, g.symbols[name])
	}
	return report
}

// collectReferences walks a variable reference out of an expression tree,
// recording every KindVariable leaf as a use of the enclosing argument's
// location (the grammar doesn't carry a leaf's own absolute span, only the
// whole argument's, so every name found inside one argument shares that
// argument's reference site).
func (g *XRefGenerator) collectReferences(node *expr.RelativeNode, line int, loc source.RelativeLocation) {
	if node == nil {
		return
	}
	if node.Kind == expr.KindVariable {
		sym, ok := g.symbols[node.Name]
		if !ok {
			sym = &Symbol{Name: node.Name, Defined: false}
			g.symbols[node.Name] = sym
		}
		sym.References = append(sym.References, Reference{Line: line, Loc: loc})
		return
	}
	if node.Left.Node != nil {
		g.collectReferences(node.Left.Node, line, loc)
	}
	if node.Right.Node != nil {
		g.collectReferences(node.Right.Node, line, loc)
	}
}

// String renders the report as a flat, greppable table: one line per
// symbol, address in hex for bound symbols, reference count trailing.
func (r *XRefReport) String() string {
	var b strings.Builder
	for _, sym := range r.Symbols {
		if sym.Defined {
			fmt.Fprintf(&b, "%-24s 0x%08x  %d reference(s)\n", sym.Name, sym.Address, len(sym.References))
		} else {
			fmt.Fprintf(&b, "%-24s %-10s  %d reference(s)\n", sym.Name, "undefined", len(sym.References))
		}
	}
	return b.String()
}
