package parser_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/parser"
)

func mustParse(t *testing.T, text string) *parser.Program {
	t.Helper()
	p, err := parser.ParseProgram(text)
	if err != nil {
		t.Fatalf("ParseProgram(%q) failed: %v", text, err)
	}
	return p
}

func TestLabelAndInstruction(t *testing.T) {
	p := mustParse(t, "start: add %a, %b\n")
	if len(p.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(p.Lines))
	}
	line := p.Lines[0]
	if len(line.Symbols) != 1 || line.Symbols[0] != "start" {
		t.Errorf("expected label 'start', got %v", line.Symbols)
	}
	if line.ContentKind != parser.ContentInstruction {
		t.Fatalf("expected instruction content")
	}
	if line.Instruction.Mnemonic != "add" || len(line.Instruction.Arguments) != 2 {
		t.Errorf("got instruction %+v", line.Instruction)
	}
}

func TestMultipleLabels(t *testing.T) {
	p := mustParse(t, "a: b: nop\n")
	if len(p.Lines[0].Symbols) != 2 {
		t.Fatalf("expected 2 labels, got %v", p.Lines[0].Symbols)
	}
}

func TestLabelWithNoContent(t *testing.T) {
	p := mustParse(t, "done:\n")
	line := p.Lines[0]
	if len(line.Symbols) != 1 || line.ContentKind != parser.ContentNone {
		t.Errorf("expected label-only line, got %+v", line)
	}
}

func TestDirectiveWord(t *testing.T) {
	p := mustParse(t, ".word 1 + 2\n")
	d := p.Lines[0].Directive
	if d == nil || d.Kind != parser.DirWord {
		t.Fatalf("expected .word directive, got %+v", d)
	}
}

func TestDirectiveString(t *testing.T) {
	p := mustParse(t, `.string "hi\n"`+"\n")
	d := p.Lines[0].Directive
	if d == nil || d.Kind != parser.DirString {
		t.Fatalf("expected .string directive, got %+v", d)
	}
	if d.StringLit != "hi\n" {
		t.Errorf("got %q", d.StringLit)
	}
}

func TestDirectiveStringWithContinuation(t *testing.T) {
	p := mustParse(t, ".string \"hel\\\nlo\"\n")
	d := p.Lines[0].Directive
	if d == nil || d.Kind != parser.DirString {
		t.Fatalf("expected .string directive, got %+v", d)
	}
	if d.StringLit != "hello" {
		t.Errorf("got %q, want %q (continuation should join the lines)", d.StringLit, "hello")
	}
}

func TestDirectiveStringRejectsNonStringArgument(t *testing.T) {
	_, err := parser.ParseProgram(".string 3\n")
	if _, ok := err.(*parser.DirectiveArgumentShapeError); !ok {
		t.Fatalf("expected DirectiveArgumentShapeError, got %T: %v", err, err)
	}
}

func TestCommentOnlyLine(t *testing.T) {
	p := mustParse(t, "# just a comment\n")
	line := p.Lines[0]
	if !line.HasComment || line.ContentKind != parser.ContentNone {
		t.Errorf("expected comment-only line, got %+v", line)
	}
}

func TestTrailingComment(t *testing.T) {
	p := mustParse(t, "nop # halts nothing\n")
	line := p.Lines[0]
	if !line.HasComment || line.ContentKind != parser.ContentInstruction {
		t.Errorf("expected instruction with trailing comment, got %+v", line)
	}
}

func TestLineContinuation(t *testing.T) {
	p := mustParse(t, "add %a, \\\n%b\n")
	line := p.Lines[0]
	if line.ContentKind != parser.ContentInstruction || len(line.Instruction.Arguments) != 2 {
		t.Fatalf("expected a single continued instruction line, got %+v", line)
	}
}

func TestIndirectAndIndexedOperands(t *testing.T) {
	p := mustParse(t, "mov (%a), %b\n")
	arg := p.Lines[0].Instruction.Arguments[0]
	if arg.Kind != parser.ArgIndirect || arg.Register != "a" {
		t.Errorf("got %+v", arg)
	}

	p2 := mustParse(t, "mov 4(%a), %b\n")
	arg2 := p2.Lines[0].Instruction.Arguments[0]
	if arg2.Kind != parser.ArgIndexed || arg2.Register != "a" {
		t.Errorf("got %+v", arg2)
	}
}

func TestUnknownMnemonic(t *testing.T) {
	_, err := parser.ParseProgram("frobnicate %a\n")
	if _, ok := err.(*parser.UnknownMnemonicError); !ok {
		t.Errorf("expected UnknownMnemonicError, got %T: %v", err, err)
	}
}

func TestArityMismatch(t *testing.T) {
	_, err := parser.ParseProgram("add %a\n")
	if _, ok := err.(*parser.ArityError); !ok {
		t.Errorf("expected ArityError, got %T: %v", err, err)
	}
}

func TestEmptyLineIsValid(t *testing.T) {
	p := mustParse(t, "\n\n")
	if len(p.Lines) != 2 {
		t.Fatalf("expected 2 empty lines, got %d", len(p.Lines))
	}
}
