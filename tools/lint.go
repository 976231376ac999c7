// Package tools hosts static-analysis utilities that sit downstream of the
// core pipeline: a linter and a cross-reference reporter, both walking a
// parsed Program and the Layout built from it rather than reasoning about
// addressing modes the way the teacher's ARM-specific tools did.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/z33-asm/expr"
	"github.com/lookbusy1344/z33-asm/layout"
	"github.com/lookbusy1344/z33-asm/parser"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LintIssue represents a single lint finding, located by its offset into
// the preprocessed output (the same coordinate space every AST node uses;
// a caller maps it to file:line:column via preprocess.Provenance).
type LintIssue struct {
	Level   LintLevel
	Offset  int
	Message string
	Code    string // "UNDEF_LABEL", "UNUSED_LABEL", or "INVALID_DIRECTIVE"
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("offset %d: %s: %s [%s]", i.Offset, i.Level, i.Message, i.Code)
}

// LintOptions controls linter behavior.
type LintOptions struct {
	CheckUnused  bool
	CheckUndef   bool
	CheckDirects bool
}

// DefaultLintOptions returns the default set of enabled checks.
func DefaultLintOptions() *LintOptions {
	return &LintOptions{CheckUnused: true, CheckUndef: true, CheckDirects: true}
}

// Linter analyzes a parsed Program for issues layout/resolve don't already
// reject outright: unused labels, undefined labelable targets reported (at
// error level) before resolve.ResolveLabelArguments would hard-fail, and
// directive argument-count sanity.
type Linter struct {
	options *LintOptions
	issues  []*LintIssue

	prog *parser.Program
	lay  *layout.Layout

	referenced map[string]bool
}

// NewLinter creates a new linter.
func NewLinter(options *LintOptions) *Linter {
	if options == nil {
		options = DefaultLintOptions()
	}
	return &Linter{options: options, referenced: make(map[string]bool)}
}

// Lint analyzes prog (and its already-built lay, which supplies the label
// table) and returns every issue found, sorted by offset.
func (l *Linter) Lint(prog *parser.Program, lay *layout.Layout) []*LintIssue {
	l.prog = prog
	l.lay = lay
	l.issues = nil
	l.referenced = make(map[string]bool)

	if l.options.CheckUndef {
		l.checkUndefinedLabels()
	}
	if l.options.CheckUnused {
		l.checkUnusedLabels()
	}
	if l.options.CheckDirects {
		l.checkDirectives()
	}

	sort.Slice(l.issues, func(i, j int) bool { return l.issues[i].Offset < l.issues[j].Offset })
	return l.issues
}

// checkUndefinedLabels walks every instruction's labelable argument,
// evaluating it against the label table the same way resolve.
// ResolveLabelArguments eventually will, so an undefined name buried in an
// arithmetic expression (e.g. "jmp nowhere+1") is caught here too, as a
// LintError issue reported ahead of that hard failure.
func (l *Linter) checkUndefinedLabels() {
	ctx := labelContext(l.lay.Labels)
	for i := range l.prog.Lines {
		line := &l.prog.Lines[i]
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
		l.markReferenced(arg.Expr)

		if _, err := expr.Eval(arg.Expr, ctx, expr.WidthFull); err != nil {
			evalErr, ok := err.(*expr.EvaluationError)
			if !ok || evalErr.Kind != expr.ErrUndefinedVariable {
				continue
			}
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Offset:  arg.Loc.Offset,
				Message: fmt.Sprintf("undefined label %q", evalErr.Variable),
				Code:    "UNDEF_LABEL",
			})
		}
	}
}

// markReferenced records every variable name appearing anywhere in node as
// referenced, so checkUnusedLabels doesn't flag a label used only inside an
// arithmetic expression.
func (l *Linter) markReferenced(node *expr.RelativeNode) {
	if node == nil {
		return
	}
	if node.Kind == expr.KindVariable {
		l.referenced[node.Name] = true
		return
	}
	l.markReferenced(node.Left.Node)
	l.markReferenced(node.Right.Node)
}

// labelContext adapts a label table to expr.Context, mirroring
// resolve.labelContext (unexported there, so duplicated here rather than
// exported for a second caller).
type labelContext map[string]uint64

func (c labelContext) ResolveVariable(name string) (*expr.Value, bool) {
	addr, ok := c[name]
	if !ok {
		return nil, false
	}
	v := new(expr.Value)
	v.SetUint64(addr)
	return v, true
}

// checkUnusedLabels warns about labels defined but never referenced by a
// labelable instruction argument.
func (l *Linter) checkUnusedLabels() {
	names := make([]string, 0, len(l.lay.Labels))
	for name := range l.lay.Labels {
		names = append(names, name)
	}
	sort.Strings(names)

	offsets := labelOffsets(l.prog)
	for _, name := range names {
		if isSpecialLabel(name) || l.referenced[name] {
			continue
		}
		l.issues = append(l.issues, &LintIssue{
			Level:   LintWarning,
			Offset:  offsets[name],
			Message: fmt.Sprintf("label %q defined but never referenced", name),
			Code:    "UNUSED_LABEL",
		})
	}
}

// checkDirectives flags a directive whose parsed shape is internally
// inconsistent: a non-string directive missing its expression. .string
// directives are not checked. The grammar already rejects
// these at parse time (see parser.DirectiveArgumentShapeError); this is the
// linter's own defensive re-check over an already-parsed Program, the same
// "layout still re-checks defensively" posture layout.Build takes.
func (l *Linter) checkDirectives() {
	for i := range l.prog.Lines {
		line := &l.prog.Lines[i]
		if line.ContentKind != parser.ContentDirective {
			continue
		}
		d := line.Directive
		if d.Kind == parser.DirString {
			continue
		}
		if d.Expr == nil {
			l.issues = append(l.issues, &LintIssue{
				Level:   LintError,
				Offset:  d.Loc.Offset,
				Message: fmt.Sprintf("%s directive requires an expression argument", d.Kind),
				Code:    "INVALID_DIRECTIVE",
			})
		}
	}
}

func labelOffsets(prog *parser.Program) map[string]int {
	offsets := make(map[string]int)
	for i := range prog.Lines {
		line := &prog.Lines[i]
		for j, name := range line.Symbols {
			if _, exists := offsets[name]; !exists {
				offsets[name] = line.SymbolLocs[j].Offset
			}
		}
	}
	return offsets
}

func isSpecialLabel(name string) bool {
	special := []string{"_start", "main", "start"}
	for _, s := range special {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
