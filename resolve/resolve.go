// Package resolve implements the boundary between this module and a
// physical-processor backend: it walks a laid-out Program and, for every
// instruction's labelable argument, evaluates the stored expression against
// the label table, producing a concrete value a codegen stage can consume.
package resolve

import (
	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
)

// Resolution is one instruction's labelable argument, resolved to a value.
type Resolution struct {
	LineIndex int
	ArgIndex  int
	Value     *expr.Value
}

// labelContext adapts a layout's label map to expr.Context, resolving each
// label's address as a Value.
type labelContext map[string]uint64

func (l labelContext) ResolveVariable(name string) (*expr.Value, bool) {
	addr, ok := l[name]
	if !ok {
		return nil, false
	}
	v := new(expr.Value)
	v.SetUint64(addr)
	return v, true
}

// ResolveLabelArguments walks prog and resolves the labelable argument of
// every instruction (per its Schema's LabelableIndex) against l.Labels.
// An instruction with no labelable argument position, or whose labelable
// argument isn't itself present (e.g. a schema says there should be an
// argument at that index but the instruction has fewer), is skipped rather
// than treated as an error: arity was already enforced at parse time.
func ResolveLabelArguments(prog *parser.Program, l *layout.Layout) ([]Resolution, error) {
	ctx := labelContext(l.Labels)
	var out []Resolution

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

		v, err := expr.Eval(arg.Expr, ctx, expr.WidthFull)
		if err != nil {
			return nil, &LabelResolutionError{Mnemonic: inst.Mnemonic, Inner: err, Loc: arg.Loc}
		}

		out = append(out, Resolution{LineIndex: i, ArgIndex: schema.LabelableIndex, Value: v})
	}

	return out, nil
}
