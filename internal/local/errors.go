package local

import (
	"errors"
	"fmt"
)

// ErrUnbound is the sentinel for all "nothing bound for the calling context"
// conditions. Use errors.Is to discriminate an unbound slot from a resolved
// object that lacks a capability.
var ErrUnbound = errors.New("unbound")

// ErrObjectUnbound is reported when a stack-backed proxy resolves against an
// empty stack. It unwraps to ErrUnbound; the distinct message aids debugging.
var ErrObjectUnbound = fmt.Errorf("object %w", ErrUnbound)

// ErrDivisionByZero is reported for integer floor division or modulo with a
// zero divisor. True division promotes to float and follows IEEE semantics
// instead.
var ErrDivisionByZero = errors.New("integer division or modulo by zero")

// UnboundError reports that no value is bound under a specific attribute name
// for the calling context. It unwraps to ErrUnbound.
type UnboundError struct {
	// Name is the attribute that had no binding.
	Name string
}

// Error implements the error interface.
func (e *UnboundError) Error() string {
	return fmt.Sprintf("no object bound to %s", e.Name)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnboundError) Unwrap() error {
	return ErrUnbound
}

// NewUnboundError creates an unbound error naming the missing attribute.
func NewUnboundError(name string) error {
	return &UnboundError{Name: name}
}

// OpError reports a forwarded operator that neither operand supports.
type OpError struct {
	// Op is the operator that failed.
	Op Op

	// Left and Right are the operands. Right is nil for unary operators.
	Left  any
	Right any
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Right == nil {
		return fmt.Sprintf("operator %s not supported for %T", e.Op, e.Left)
	}

	return fmt.Sprintf("operator %s not supported between %T and %T", e.Op, e.Left, e.Right)
}

func newOpError(op Op, left, right any) error {
	return &OpError{Op: op, Left: left, Right: right}
}

// IsUnbound reports whether err indicates an unbound context or attribute.
func IsUnbound(err error) bool {
	return errors.Is(err, ErrUnbound)
}

// IsOpError reports whether err indicates an unsupported forwarded operator.
func IsOpError(err error) bool {
	var opErr *OpError

	return errors.As(err, &opErr)
}
