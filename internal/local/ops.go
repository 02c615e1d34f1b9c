package local

import (
	"fmt"
	"math"
	"math/cmplx"
	"reflect"
	"strings"
)

// Op identifies a forwarded operator.
type Op int

// Binary operators, then unary ones.
const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpLshift
	OpRshift
	OpBitAnd
	OpBitXor
	OpBitOr
	OpNeg
	OpPos
	OpAbs
	OpInvert
)

var opNames = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpLshift:   "<<",
	OpRshift:   ">>",
	OpBitAnd:   "&",
	OpBitXor:   "^",
	OpBitOr:    "|",
	OpNeg:      "-",
	OpPos:      "+",
	OpAbs:      "abs",
	OpInvert:   "~",
}

// String implements fmt.Stringer.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}

	return fmt.Sprintf("Op(%d)", int(op))
}

// Operand lets a value implement operators itself. Apply returns false to
// decline, in which case the built-in numeric dispatch takes over.
type Operand interface {
	Apply(op Op, other any) (any, bool)
}

// RightOperand lets a value implement reflected operators, for expressions
// where it appears on the right-hand side. ApplyRight returns false to
// decline; the dispatcher then retries with the plain operator and the
// operands reversed.
type RightOperand interface {
	ApplyRight(op Op, left any) (any, bool)
}

// InplaceOperand lets a value implement mutating operators. ApplyInplace
// returns false to decline.
type InplaceOperand interface {
	ApplyInplace(op Op, other any) bool
}

// Hasher lets a value provide its own hash for forwarding.
type Hasher interface {
	Hash() uint64
}

// Iterator is the stateful iteration capability a proxy forwards Next to.
type Iterator interface {
	Next() (any, bool)
}

// ScopedResource is the scoped-acquisition capability a proxy forwards
// Enter and Exit to.
type ScopedResource interface {
	// Enter acquires the resource and returns the value the scope binds.
	Enter() (any, error)

	// Exit releases the resource. cause is the error the scope body ended
	// with, nil on normal completion.
	Exit(cause error) error
}

// numKind classifies a value for numeric dispatch.
type numKind int

const (
	numNone numKind = iota
	numInt
	numUint
	numFloat
	numComplex
)

func kindOf(v any) numKind {
	if v == nil {
		return numNone
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return numUint
	case reflect.Float32, reflect.Float64:
		return numFloat
	case reflect.Complex64, reflect.Complex128:
		return numComplex
	default:
		return numNone
	}
}

func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch kindOf(v) {
	case numInt:
		return rv.Int(), true
	case numUint:
		return int64(rv.Uint()), true
	case numFloat:
		return int64(rv.Float()), true
	default:
		return 0, false
	}
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch kindOf(v) {
	case numInt:
		return float64(rv.Int()), true
	case numUint:
		return float64(rv.Uint()), true
	case numFloat:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func toComplex128(v any) (complex128, bool) {
	if kindOf(v) == numComplex {
		return reflect.ValueOf(v).Complex(), true
	}

	if f, ok := toFloat64(v); ok {
		return complex(f, 0), true
	}

	return 0, false
}

// apply dispatches a binary operator. The left operand gets first refusal
// through the Operand interface; built-in dispatch covers numeric kinds,
// string concatenation and repetition, and same-typed slice concatenation.
func apply(op Op, left, right any) (any, error) {
	if o, ok := left.(Operand); ok {
		if v, ok := o.Apply(op, right); ok {
			return v, nil
		}
	}

	if v, ok, err := applyNumeric(op, left, right); ok {
		return v, err
	}

	if v, ok := applyString(op, left, right); ok {
		return v, nil
	}

	if v, ok := applySlice(op, left, right); ok {
		return v, nil
	}

	return nil, newOpError(op, left, right)
}

func applyNumeric(op Op, left, right any) (any, bool, error) {
	lk, rk := kindOf(left), kindOf(right)
	if lk == numNone || rk == numNone {
		return nil, false, nil
	}

	if lk == numComplex || rk == numComplex {
		v, ok := applyComplex(op, left, right)
		return v, ok, nil
	}

	if lk == numFloat || rk == numFloat || op == OpDiv {
		// True division always promotes to float.
		v, ok := applyFloat(op, left, right)
		return v, ok, nil
	}

	return applyInt(op, left, right)
}

func applyInt(op Op, left, right any) (any, bool, error) {
	a, _ := toInt64(left)
	b, _ := toInt64(right)

	switch op {
	case OpAdd:
		return a + b, true, nil
	case OpSub:
		return a - b, true, nil
	case OpMul:
		return a * b, true, nil
	case OpFloorDiv:
		if b == 0 {
			return nil, true, ErrDivisionByZero
		}

		q := a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			q--
		}

		return q, true, nil
	case OpMod:
		if b == 0 {
			return nil, true, ErrDivisionByZero
		}

		return a % b, true, nil
	case OpPow:
		if b < 0 {
			return math.Pow(float64(a), float64(b)), true, nil
		}

		return intPow(a, b), true, nil
	case OpLshift:
		return a << uint64(b), true, nil
	case OpRshift:
		return a >> uint64(b), true, nil
	case OpBitAnd:
		return a & b, true, nil
	case OpBitXor:
		return a ^ b, true, nil
	case OpBitOr:
		return a | b, true, nil
	default:
		return nil, false, nil
	}
}

func applyFloat(op Op, left, right any) (any, bool) {
	a, _ := toFloat64(left)
	b, _ := toFloat64(right)

	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		return a / b, true
	case OpFloorDiv:
		return math.Floor(a / b), true
	case OpMod:
		return math.Mod(a, b), true
	case OpPow:
		return math.Pow(a, b), true
	default:
		return nil, false
	}
}

func applyComplex(op Op, left, right any) (any, bool) {
	a, ok := toComplex128(left)
	if !ok {
		return nil, false
	}

	b, ok := toComplex128(right)
	if !ok {
		return nil, false
	}

	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		return a / b, true
	case OpPow:
		return cmplx.Pow(a, b), true
	default:
		return nil, false
	}
}

func applyString(op Op, left, right any) (any, bool) {
	ls, lok := left.(string)
	rs, rok := right.(string)

	switch op {
	case OpAdd:
		if lok && rok {
			return ls + rs, true
		}
	case OpMul:
		if lok {
			if n, ok := toInt64(right); ok && n >= 0 {
				return strings.Repeat(ls, int(n)), true
			}
		}

		if rok {
			if n, ok := toInt64(left); ok && n >= 0 {
				return strings.Repeat(rs, int(n)), true
			}
		}
	}

	return nil, false
}

func applySlice(op Op, left, right any) (any, bool) {
	if op != OpAdd {
		return nil, false
	}

	lv, rv := reflect.ValueOf(left), reflect.ValueOf(right)
	if lv.Kind() != reflect.Slice || rv.Kind() != reflect.Slice || lv.Type() != rv.Type() {
		return nil, false
	}

	out := reflect.MakeSlice(lv.Type(), 0, lv.Len()+rv.Len())
	out = reflect.AppendSlice(out, lv)
	out = reflect.AppendSlice(out, rv)

	return out.Interface(), true
}

func intPow(base, exp int64) int64 {
	result := int64(1)

	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}

		base *= base
		exp >>= 1
	}

	return result
}

// applyUnary dispatches a unary operator over numeric kinds.
func applyUnary(op Op, v any) (any, error) {
	switch kindOf(v) {
	case numInt, numUint:
		n, _ := toInt64(v)

		switch op {
		case OpNeg:
			return -n, nil
		case OpPos:
			return n, nil
		case OpAbs:
			if n < 0 {
				return -n, nil
			}

			return n, nil
		case OpInvert:
			return ^n, nil
		}
	case numFloat:
		f, _ := toFloat64(v)

		switch op {
		case OpNeg:
			return -f, nil
		case OpPos:
			return f, nil
		case OpAbs:
			return math.Abs(f), nil
		}
	case numComplex:
		c, _ := toComplex128(v)

		switch op {
		case OpNeg:
			return -c, nil
		case OpPos:
			return c, nil
		case OpAbs:
			return cmplx.Abs(c), nil
		}
	}

	return nil, newOpError(op, v, nil)
}

// compare orders two values. Numeric kinds compare across types; strings
// compare lexicographically. Anything else is unordered.
func compare(left, right any) (int, error) {
	lf, lok := toFloat64(left)
	rf, rok := toFloat64(right)

	if lok && rok {
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		default:
			return 0, nil
		}
	}

	ls, lok := left.(string)
	rs, rok := right.(string)

	if lok && rok {
		return strings.Compare(ls, rs), nil
	}

	return 0, fmt.Errorf("cannot order %T and %T", left, right)
}

// equal reports value equality: numeric kinds compare across types, all
// other values compare by deep equality.
func equal(left, right any) bool {
	if c, err := compare(left, right); err == nil {
		return c == 0
	}

	return reflect.DeepEqual(left, right)
}

// truth reports the truthiness of a value: nil, zero numbers, and empty
// strings and containers are false; a Bool method takes precedence.
func truth(v any) bool {
	if v == nil {
		return false
	}

	if b, ok := v.(bool); ok {
		return b
	}

	if b, ok := v.(interface{ Bool() bool }); ok {
		return b.Bool()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return !rv.IsNil()
	default:
		return true
	}
}
