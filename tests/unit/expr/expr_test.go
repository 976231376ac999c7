package expr_test

import (
	"math/big"
	"testing"

	"github.com/lookbusy1344/z33-asm/expr"
)

func evalString(t *testing.T, input string) *big.Int {
	t.Helper()
	node, rest, err := expr.Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	if rest != "" {
		t.Fatalf("Parse(%q) left trailing input %q", input, rest)
	}
	v, err := expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", input, err)
	}
	return v
}

func TestCalculation(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"1 + 2", 3},
		{"-3", -3},
		{"5+2 * 3", 11},
		{"(5 + 2) * 3", 21},
		{"0xFF * 2", 0x1FE},
		{"0x0F <<4", 0xF0},
		{"0xF0>> 4", 0x0F},
		{"0xAF & 0xF0", 0xA0},
		{"0x0F | 0xF0", 0xFF},
		{"0b1010", 0b1010},
		{"0o17", 0o17},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := evalString(t, tt.input)
			if got.Cmp(big.NewInt(tt.want)) != 0 {
				t.Errorf("evaluate(%q) = %s, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestVariableResolution(t *testing.T) {
	node, _, err := expr.Parse("base + 4")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ctx := expr.MapContext{"base": big.NewInt(100)}
	v, err := expr.Eval(node, ctx, expr.WidthFull)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if v.Cmp(big.NewInt(104)) != 0 {
		t.Errorf("got %s, want 104", v)
	}
}

func TestUndefinedVariable(t *testing.T) {
	node, _, err := expr.Parse("unknown")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	var evalErr *expr.EvaluationError
	if err == nil {
		t.Fatal("expected an error")
	}
	if !asEvaluationError(err, &evalErr) || evalErr.Kind != expr.ErrUndefinedVariable {
		t.Errorf("expected ErrUndefinedVariable, got %v", err)
	}
}

func TestDivideByZero(t *testing.T) {
	node, _, err := expr.Parse("1 / 0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	var evalErr *expr.EvaluationError
	if !asEvaluationError(err, &evalErr) || evalErr.Kind != expr.ErrDivideByZero {
		t.Errorf("expected ErrDivideByZero, got %v", err)
	}
}

func TestShiftOutOfRange(t *testing.T) {
	node, _, err := expr.Parse("1 << 64")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	_, err = expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	var evalErr *expr.EvaluationError
	if !asEvaluationError(err, &evalErr) || evalErr.Kind != expr.ErrShiftOutOfRange {
		t.Errorf("expected ErrShiftOutOfRange, got %v", err)
	}
}

func TestBitwiseNotNarrowing(t *testing.T) {
	node, _, err := expr.Parse("~0")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	full, err := expr.Eval(node, expr.EmptyContext{}, expr.WidthFull)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if full.Cmp(big.NewInt(-1)) != 0 {
		t.Errorf("full-width ~0 = %s, want -1", full)
	}

	narrowed, err := expr.Eval(node, expr.EmptyContext{}, expr.WidthCell(8))
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if narrowed.Cmp(big.NewInt(0xFF)) != 0 {
		t.Errorf("8-bit ~0 = %s, want 255", narrowed)
	}
}

func TestNarrowOverflow(t *testing.T) {
	big127 := new(big.Int).Lsh(big.NewInt(1), 127)
	_, err := expr.Narrow(big127)
	if err == nil {
		t.Fatal("expected overflow error")
	}
}

func asEvaluationError(err error, target **expr.EvaluationError) bool {
	e, ok := err.(*expr.EvaluationError)
	if !ok {
		return false
	}
	*target = e
	return true
}
