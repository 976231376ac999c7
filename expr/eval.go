package expr

import (
	"errors"
	"fmt"
	"math/big"
)

// Context resolves a variable name to a Value during evaluation. The
// layout engine passes an empty context for .space/.addr sizing (label
// addresses aren't known yet); the label resolver passes the label table
// for labelable instruction operands.
type Context interface {
	ResolveVariable(name string) (*Value, bool)
}

// EmptyContext resolves nothing; every variable reference fails with
// UndefinedVariable. Used at layout time for .space/.addr arguments, which
// the spec requires to be label-free constants.
type EmptyContext struct{}

func (EmptyContext) ResolveVariable(string) (*Value, bool) { return nil, false }

// MapContext resolves variables from a plain map, the shape both the
// layout engine's label table and the preprocessor's #define table take.
type MapContext map[string]*Value

func (m MapContext) ResolveVariable(name string) (*Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Width selects how ~x (bitwise complement) narrows its operand. The
// evaluator itself is width-agnostic for every other operator; only
// BitwiseNot needs to know the cell width
type Width struct {
	bits int // 0 means "full Value width", no narrowing
}

// WidthFull is used at layout time and whenever the consumer's eventual
// narrowing step (not Eval itself) is responsible for catching overflow.
var WidthFull = Width{bits: 0}

// WidthCell builds a narrowing width of n bits, for use by a codegen stage
// that needs ~x evaluated against its concrete cell width. This module has
// no codegen stage of its own (§1 scopes instruction encoding out), so only
// WidthFull is exercised today; WidthCell is exposed for that future
// consumer.
func WidthCell(bits int) Width { return Width{bits: bits} }

// EvaluationError is the taxonomy of expression-evaluation failures a
// caller can recover from by name.
type EvaluationError struct {
	Kind     EvalErrorKind
	Variable string
}

type EvalErrorKind int

const (
	ErrUndefinedVariable EvalErrorKind = iota
	ErrDivideByZero
	ErrShiftOutOfRange
	ErrOverflow
)

func (e *EvaluationError) Error() string {
	switch e.Kind {
	case ErrUndefinedVariable:
		return fmt.Sprintf("undefined variable %q", e.Variable)
	case ErrDivideByZero:
		return "divide by zero"
	case ErrShiftOutOfRange:
		return "shift amount out of range [0, 63]"
	case ErrOverflow:
		return "value overflows the expected width"
	default:
		return "expression evaluation error"
	}
}

// Is lets errors.Is match two EvaluationErrors by Kind alone, e.g.
// errors.Is(err, &EvaluationError{Kind: ErrDivideByZero}).
func (e *EvaluationError) Is(target error) bool {
	var other *EvaluationError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Eval evaluates an expression node against ctx, narrowing ~ (BitwiseNot)
// against width. Arithmetic is performed in Value (effectively unbounded
// precision), mirroring "signed integer semantics"
func Eval[L any](n *Node[L], ctx Context, width Width) (*Value, error) {
	switch n.Kind {
	case KindBinaryOr, KindBinaryAnd, KindLeftShift, KindRightShift,
		KindSum, KindSubtract, KindMultiply, KindDivide:
		left, err := Eval(n.Left.Node, ctx, width)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right.Node, ctx, width)
		if err != nil {
			return nil, err
		}
		return evalBinary(n.Kind, left, right)

	case KindNegate:
		operand, err := Eval(n.Left.Node, ctx, width)
		if err != nil {
			return nil, err
		}
		return new(big.Int).Neg(operand), nil

	case KindBitwiseNot:
		operand, err := Eval(n.Left.Node, ctx, width)
		if err != nil {
			return nil, err
		}
		return bitwiseNot(operand, width), nil

	case KindLiteral:
		return new(big.Int).Set(n.LiteralValue), nil

	case KindVariable:
		v, ok := ctx.ResolveVariable(n.Name)
		if !ok {
			return nil, &EvaluationError{Kind: ErrUndefinedVariable, Variable: n.Name}
		}
		return new(big.Int).Set(v), nil

	default:
		return nil, fmt.Errorf("unknown expression node kind %v", n.Kind)
	}
}

func evalBinary(kind Kind, left, right *Value) (*Value, error) {
	result := new(big.Int)
	switch kind {
	case KindBinaryOr:
		result.Or(left, right)
	case KindBinaryAnd:
		result.And(left, right)
	case KindLeftShift:
		amount, err := shiftAmount(right)
		if err != nil {
			return nil, err
		}
		result.Lsh(left, amount)
	case KindRightShift:
		amount, err := shiftAmount(right)
		if err != nil {
			return nil, err
		}
		result.Rsh(left, amount)
	case KindSum:
		result.Add(left, right)
	case KindSubtract:
		result.Sub(left, right)
	case KindMultiply:
		result.Mul(left, right)
	case KindDivide:
		if right.Sign() == 0 {
			return nil, &EvaluationError{Kind: ErrDivideByZero}
		}
		result.Quo(left, right)
	}
	return result, nil
}

func shiftAmount(v *Value) (uint, error) {
	if v.Sign() < 0 || v.Cmp(big.NewInt(63)) > 0 {
		return 0, &EvaluationError{Kind: ErrShiftOutOfRange}
	}
	return uint(v.Int64()), nil
}

// bitwiseNot narrows operand to width.bits (if non-zero) before
// complementing: "~x: bitwise complement narrowed against
// the implicit cell width at use site". At WidthFull, complement is the
// arbitrary-precision two's-complement identity ~x == -x-1.
func bitwiseNot(operand *Value, width Width) *Value {
	if width.bits == 0 {
		one := big.NewInt(1)
		return new(big.Int).Sub(new(big.Int).Neg(operand), one)
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width.bits)), big.NewInt(1))
	masked := new(big.Int).And(operand, mask)
	return new(big.Int).Xor(masked, mask)
}

// Narrow converts a Value down to a uint64, failing with Overflow if the
// value doesn't fit. This is the "final narrowing step"
func Narrow(v *Value) (uint64, error) {
	if !v.IsUint64() {
		return 0, &EvaluationError{Kind: ErrOverflow}
	}
	return v.Uint64(), nil
}

// NarrowSigned converts a Value down to an int64, failing with Overflow if
// the value doesn't fit.
func NarrowSigned(v *Value) (int64, error) {
	if !v.IsInt64() {
		return 0, &EvaluationError{Kind: ErrOverflow}
	}
	return v.Int64(), nil
}
