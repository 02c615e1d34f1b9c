package local

import (
	"fmt"
	"hash/maphash"
	"io"
	"iter"
	"math"
	"reflect"
	"strings"

	"github.com/mitchellh/copystructure"
)

// Proxy is a late-binding forwarding handle. It wraps a resolver and
// forwards every operation to whatever the resolver returns at the moment of
// use; nothing is ever cached, so the same proxy observes different objects
// from different contexts and observes rebinding within one context.
//
// The binding style is fixed at construction: either a direct resolver
// passed to NewProxy, or a resolver synthesized by Storage.Proxy or
// Stack.Proxy. Operations return the real result of the resolved object,
// never another proxy, with one exception: the in-place operators mutate the
// resolved object and return the proxy itself, preserving reference
// semantics for chained reassignment.
//
// Only Bool and String tolerate an unbound proxy. Every other operation
// reports the unbound condition (errors.Is(err, ErrUnbound)) distinctly from
// a resolved object lacking the requested capability.
type Proxy struct {
	resolve func() (any, error)
	name    string
}

// ProxyOption configures a Proxy.
type ProxyOption func(*Proxy)

// Named sets the display name used in diagnostics.
func Named(name string) ProxyOption {
	return func(p *Proxy) {
		p.name = name
	}
}

// NewProxy creates a proxy over a direct resolver. The resolver runs on
// every forwarded operation and must be safe to call from any context that
// shares the proxy.
func NewProxy(resolve func() (any, error), opts ...ProxyOption) *Proxy {
	p := &Proxy{resolve: resolve}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the display name, empty if none was set.
func (p *Proxy) Name() string {
	return p.name
}

// Resolve returns the object currently bound for the calling context. Use it
// when you need the real object, for example to hand it to another context.
func (p *Proxy) Resolve() (any, error) {
	return p.resolve()
}

// MustResolve returns the currently bound object and panics when unbound.
// Use it when prior code guarantees the binding exists.
func (p *Proxy) MustResolve() any {
	v, err := p.resolve()
	if err != nil {
		panic(fmt.Sprintf("local: proxy %s: %v", p.displayName(), err))
	}

	return v
}

func (p *Proxy) displayName() string {
	if p.name != "" {
		return p.name
	}

	return "(unnamed)"
}

// Bool reports the truthiness of the resolved object. An unbound proxy is
// false; this is the one operation required to tolerate unbound.
func (p *Proxy) Bool() bool {
	obj, err := p.resolve()
	if err != nil {
		return false
	}

	return truth(obj)
}

// String implements fmt.Stringer. An unbound proxy renders as an explicit
// unbound marker instead of failing.
func (p *Proxy) String() string {
	obj, err := p.resolve()
	if err != nil {
		return "<Proxy unbound>"
	}

	return fmt.Sprint(obj)
}

// unwrap substitutes a proxy operand with its resolved object so that
// proxy-to-proxy operations work on the real values.
func unwrap(v any) (any, error) {
	if other, ok := v.(*Proxy); ok {
		return other.resolve()
	}

	return v, nil
}

// Eq reports whether the resolved object equals other. Numeric values
// compare across types; everything else compares by deep equality.
func (p *Proxy) Eq(other any) (bool, error) {
	obj, err := p.resolve()
	if err != nil {
		return false, err
	}

	other, err = unwrap(other)
	if err != nil {
		return false, err
	}

	return equal(obj, other), nil
}

// Ne reports whether the resolved object differs from other.
func (p *Proxy) Ne(other any) (bool, error) {
	eq, err := p.Eq(other)

	return !eq, err
}

func (p *Proxy) order(other any) (int, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	other, err = unwrap(other)
	if err != nil {
		return 0, err
	}

	return compare(obj, other)
}

// Lt reports resolved < other.
func (p *Proxy) Lt(other any) (bool, error) {
	c, err := p.order(other)

	return c < 0, err
}

// Le reports resolved <= other.
func (p *Proxy) Le(other any) (bool, error) {
	c, err := p.order(other)

	return c <= 0, err
}

// Gt reports resolved > other.
func (p *Proxy) Gt(other any) (bool, error) {
	c, err := p.order(other)

	return c > 0, err
}

// Ge reports resolved >= other.
func (p *Proxy) Ge(other any) (bool, error) {
	c, err := p.order(other)

	return c >= 0, err
}

var hashSeed = maphash.MakeSeed()

// Hash forwards hashing to the resolved object: a Hasher implementation
// wins, then any comparable value hashes consistently for the process
// lifetime. Non-comparable values are unhashable.
func (p *Proxy) Hash() (uint64, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	if h, ok := obj.(Hasher); ok {
		return h.Hash(), nil
	}

	if obj == nil || !reflect.TypeOf(obj).Comparable() {
		return 0, fmt.Errorf("unhashable value of type %T", obj)
	}

	return maphash.Comparable(hashSeed, obj), nil
}

// Attr returns the named attribute of the resolved object: a method, an
// exported struct field, or a string-keyed map entry. The lookup is
// forwarded, never intercepted: a missing attribute is the resolved object's
// failure, not an unbound proxy.
func (p *Proxy) Attr(name string) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	return attrGet(obj, name)
}

// SetAttr assigns the named attribute on the resolved object. The object
// must be addressable for struct fields (bind a pointer, not a value) or be
// a string-keyed map.
func (p *Proxy) SetAttr(name string, value any) error {
	obj, err := p.resolve()
	if err != nil {
		return err
	}

	return attrSet(obj, name, value)
}

// DelAttr removes the named attribute. Only map-backed attributes can be
// removed; struct fields are part of the type.
func (p *Proxy) DelAttr(name string) error {
	obj, err := p.resolve()
	if err != nil {
		return err
	}

	return attrDel(obj, name)
}

// Call invokes the resolved object as a function.
func (p *Proxy) Call(args ...any) ([]any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	fn := reflect.ValueOf(obj)
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%T is not callable", obj)
	}

	in, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)
	results := make([]any, len(out))

	for i, v := range out {
		results[i] = v.Interface()
	}

	return results, nil
}

// Len returns the length of the resolved object (string, slice, array, map,
// or channel), or the result of its own Len method.
func (p *Proxy) Len() (int, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	if l, ok := obj.(interface{ Len() int }); ok {
		return l.Len(), nil
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("%T has no length", obj)
	}
}

// Item returns the element of the resolved container at key: a map entry, or
// an index into a slice, array, or string. Negative indexes count from the
// end.
func (p *Proxy) Item(key any) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertValue(rv.Type().Key(), key)
		if err != nil {
			return nil, err
		}

		v := rv.MapIndex(kv)
		if !v.IsValid() {
			return nil, fmt.Errorf("key %v not present in %T", key, obj)
		}

		return v.Interface(), nil
	case reflect.Slice, reflect.Array, reflect.String:
		i, err := sequenceIndex(rv.Len(), key, obj)
		if err != nil {
			return nil, err
		}

		return rv.Index(i).Interface(), nil
	default:
		return nil, fmt.Errorf("%T is not indexable", obj)
	}
}

// SetItem assigns the element of the resolved container at key.
func (p *Proxy) SetItem(key, value any) error {
	obj, err := p.resolve()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertValue(rv.Type().Key(), key)
		if err != nil {
			return err
		}

		vv, err := convertValue(rv.Type().Elem(), value)
		if err != nil {
			return err
		}

		rv.SetMapIndex(kv, vv)

		return nil
	case reflect.Slice:
		i, err := sequenceIndex(rv.Len(), key, obj)
		if err != nil {
			return err
		}

		vv, err := convertValue(rv.Type().Elem(), value)
		if err != nil {
			return err
		}

		rv.Index(i).Set(vv)

		return nil
	default:
		return fmt.Errorf("%T does not support item assignment", obj)
	}
}

// DelItem removes the element of the resolved map at key.
func (p *Proxy) DelItem(key any) error {
	obj, err := p.resolve()
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("%T does not support item deletion", obj)
	}

	kv, err := convertValue(rv.Type().Key(), key)
	if err != nil {
		return err
	}

	if !rv.MapIndex(kv).IsValid() {
		return fmt.Errorf("key %v not present in %T", key, obj)
	}

	rv.SetMapIndex(kv, reflect.Value{})

	return nil
}

// Contains reports membership: a map key, a slice or array element, or a
// substring.
func (p *Proxy) Contains(item any) (bool, error) {
	obj, err := p.resolve()
	if err != nil {
		return false, err
	}

	item, err = unwrap(item)
	if err != nil {
		return false, err
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Map:
		kv, err := convertValue(rv.Type().Key(), item)
		if err != nil {
			return false, nil //nolint:nilerr // inconvertible key is simply not a member
		}

		return rv.MapIndex(kv).IsValid(), nil
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if equal(rv.Index(i).Interface(), item) {
				return true, nil
			}
		}

		return false, nil
	case reflect.String:
		sub, ok := item.(string)
		if !ok {
			return false, fmt.Errorf("cannot search for %T in a string", item)
		}

		return strings.Contains(rv.String(), sub), nil
	default:
		return false, fmt.Errorf("%T is not a container", obj)
	}
}

// Iter returns a sequence over the resolved object: elements of a slice or
// array, keys of a map, runes of a string, received values of a channel, or
// the values of its own Iterator implementation.
func (p *Proxy) Iter() (iter.Seq[any], error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	if it, ok := obj.(Iterator); ok {
		return func(yield func(any) bool) {
			for {
				v, ok := it.Next()
				if !ok || !yield(v) {
					return
				}
			}
		}, nil
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, nil
	case reflect.Map:
		return func(yield func(any) bool) {
			for _, k := range rv.MapKeys() {
				if !yield(k.Interface()) {
					return
				}
			}
		}, nil
	case reflect.String:
		s := rv.String()

		return func(yield func(any) bool) {
			for _, r := range s {
				if !yield(r) {
					return
				}
			}
		}, nil
	case reflect.Chan:
		return func(yield func(any) bool) {
			for {
				v, ok := rv.Recv()
				if !ok || !yield(v.Interface()) {
					return
				}
			}
		}, nil
	default:
		return nil, fmt.Errorf("%T is not iterable", obj)
	}
}

// Reversed returns a sequence over the resolved slice, array, or string in
// reverse order.
func (p *Proxy) Reversed() (iter.Seq[any], error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := rv.Len() - 1; i >= 0; i-- {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, nil
	case reflect.String:
		runes := []rune(rv.String())

		return func(yield func(any) bool) {
			for i := len(runes) - 1; i >= 0; i-- {
				if !yield(runes[i]) {
					return
				}
			}
		}, nil
	default:
		return nil, fmt.Errorf("%T is not reversible", obj)
	}
}

// Next advances the resolved object's own iterator.
func (p *Proxy) Next() (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	it, ok := obj.(Iterator)
	if !ok {
		return nil, fmt.Errorf("%T is not an iterator", obj)
	}

	v, ok := it.Next()
	if !ok {
		return nil, io.EOF
	}

	return v, nil
}

// binary resolves and applies a left-hand operator.
func (p *Proxy) binary(op Op, other any) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	other, err = unwrap(other)
	if err != nil {
		return nil, err
	}

	return apply(op, obj, other)
}

// rbinary resolves and applies a reflected (right-hand) operator: the
// resolved object's own RightOperand implementation first; if absent or
// declined, the plain operator with the operands reversed.
func (p *Proxy) rbinary(op Op, left any) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	left, err = unwrap(left)
	if err != nil {
		return nil, err
	}

	if ro, ok := obj.(RightOperand); ok {
		if v, ok := ro.ApplyRight(op, left); ok {
			return v, nil
		}
	}

	return apply(op, left, obj)
}

// inplace resolves and applies a mutating operator, returning the proxy
// itself. The resolved object must be mutable: either an InplaceOperand or a
// pointer whose pointee accepts the computed result.
func (p *Proxy) inplace(op Op, other any) (*Proxy, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	other, err = unwrap(other)
	if err != nil {
		return nil, err
	}

	if iop, ok := obj.(InplaceOperand); ok {
		if iop.ApplyInplace(op, other) {
			return p, nil
		}
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		elem := rv.Elem()

		result, err := apply(op, elem.Interface(), other)
		if err != nil {
			return nil, err
		}

		converted, err := convertValue(elem.Type(), result)
		if err != nil {
			return nil, err
		}

		elem.Set(converted)

		return p, nil
	}

	return nil, newOpError(op, obj, other)
}

// Add returns resolved + other.
func (p *Proxy) Add(other any) (any, error) { return p.binary(OpAdd, other) }

// Sub returns resolved - other.
func (p *Proxy) Sub(other any) (any, error) { return p.binary(OpSub, other) }

// Mul returns resolved * other.
func (p *Proxy) Mul(other any) (any, error) { return p.binary(OpMul, other) }

// Div returns resolved / other as true division: integer operands promote
// to float.
func (p *Proxy) Div(other any) (any, error) { return p.binary(OpDiv, other) }

// FloorDiv returns the floored quotient of resolved and other.
func (p *Proxy) FloorDiv(other any) (any, error) { return p.binary(OpFloorDiv, other) }

// Mod returns resolved % other.
func (p *Proxy) Mod(other any) (any, error) { return p.binary(OpMod, other) }

// Pow returns resolved raised to other.
func (p *Proxy) Pow(other any) (any, error) { return p.binary(OpPow, other) }

// Lshift returns resolved << other.
func (p *Proxy) Lshift(other any) (any, error) { return p.binary(OpLshift, other) }

// Rshift returns resolved >> other.
func (p *Proxy) Rshift(other any) (any, error) { return p.binary(OpRshift, other) }

// BitAnd returns resolved & other.
func (p *Proxy) BitAnd(other any) (any, error) { return p.binary(OpBitAnd, other) }

// BitXor returns resolved ^ other.
func (p *Proxy) BitXor(other any) (any, error) { return p.binary(OpBitXor, other) }

// BitOr returns resolved | other.
func (p *Proxy) BitOr(other any) (any, error) { return p.binary(OpBitOr, other) }

// RAdd returns left + resolved, preferring the resolved object's reflected
// implementation.
func (p *Proxy) RAdd(left any) (any, error) { return p.rbinary(OpAdd, left) }

// RSub returns left - resolved.
func (p *Proxy) RSub(left any) (any, error) { return p.rbinary(OpSub, left) }

// RMul returns left * resolved.
func (p *Proxy) RMul(left any) (any, error) { return p.rbinary(OpMul, left) }

// RDiv returns left / resolved.
func (p *Proxy) RDiv(left any) (any, error) { return p.rbinary(OpDiv, left) }

// RFloorDiv returns the floored quotient of left and resolved.
func (p *Proxy) RFloorDiv(left any) (any, error) { return p.rbinary(OpFloorDiv, left) }

// RMod returns left % resolved.
func (p *Proxy) RMod(left any) (any, error) { return p.rbinary(OpMod, left) }

// RPow returns left raised to resolved.
func (p *Proxy) RPow(left any) (any, error) { return p.rbinary(OpPow, left) }

// RLshift returns left << resolved.
func (p *Proxy) RLshift(left any) (any, error) { return p.rbinary(OpLshift, left) }

// RRshift returns left >> resolved.
func (p *Proxy) RRshift(left any) (any, error) { return p.rbinary(OpRshift, left) }

// RBitAnd returns left & resolved.
func (p *Proxy) RBitAnd(left any) (any, error) { return p.rbinary(OpBitAnd, left) }

// RBitXor returns left ^ resolved.
func (p *Proxy) RBitXor(left any) (any, error) { return p.rbinary(OpBitXor, left) }

// RBitOr returns left | resolved.
func (p *Proxy) RBitOr(left any) (any, error) { return p.rbinary(OpBitOr, left) }

// IAdd adds other into the resolved object and returns the proxy.
func (p *Proxy) IAdd(other any) (*Proxy, error) { return p.inplace(OpAdd, other) }

// ISub subtracts other from the resolved object and returns the proxy.
func (p *Proxy) ISub(other any) (*Proxy, error) { return p.inplace(OpSub, other) }

// IMul multiplies the resolved object by other and returns the proxy.
func (p *Proxy) IMul(other any) (*Proxy, error) { return p.inplace(OpMul, other) }

// IDiv divides the resolved object by other and returns the proxy.
func (p *Proxy) IDiv(other any) (*Proxy, error) { return p.inplace(OpDiv, other) }

// IFloorDiv floor-divides the resolved object by other and returns the proxy.
func (p *Proxy) IFloorDiv(other any) (*Proxy, error) { return p.inplace(OpFloorDiv, other) }

// IMod reduces the resolved object modulo other and returns the proxy.
func (p *Proxy) IMod(other any) (*Proxy, error) { return p.inplace(OpMod, other) }

// IPow raises the resolved object to other and returns the proxy.
func (p *Proxy) IPow(other any) (*Proxy, error) { return p.inplace(OpPow, other) }

// ILshift left-shifts the resolved object by other and returns the proxy.
func (p *Proxy) ILshift(other any) (*Proxy, error) { return p.inplace(OpLshift, other) }

// IRshift right-shifts the resolved object by other and returns the proxy.
func (p *Proxy) IRshift(other any) (*Proxy, error) { return p.inplace(OpRshift, other) }

// IBitAnd ands other into the resolved object and returns the proxy.
func (p *Proxy) IBitAnd(other any) (*Proxy, error) { return p.inplace(OpBitAnd, other) }

// IBitXor xors other into the resolved object and returns the proxy.
func (p *Proxy) IBitXor(other any) (*Proxy, error) { return p.inplace(OpBitXor, other) }

// IBitOr ors other into the resolved object and returns the proxy.
func (p *Proxy) IBitOr(other any) (*Proxy, error) { return p.inplace(OpBitOr, other) }

// Neg returns the negated resolved value.
func (p *Proxy) Neg() (any, error) { return p.unary(OpNeg) }

// Pos returns the resolved value unchanged, validating it is numeric.
func (p *Proxy) Pos() (any, error) { return p.unary(OpPos) }

// Abs returns the absolute resolved value.
func (p *Proxy) Abs() (any, error) { return p.unary(OpAbs) }

// Invert returns the bitwise complement of the resolved value.
func (p *Proxy) Invert() (any, error) { return p.unary(OpInvert) }

func (p *Proxy) unary(op Op) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	return applyUnary(op, obj)
}

// Int converts the resolved value to an integer, truncating floats.
func (p *Proxy) Int() (int64, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	n, ok := toInt64(obj)
	if !ok {
		return 0, fmt.Errorf("cannot convert %T to integer", obj)
	}

	return n, nil
}

// Float converts the resolved value to a float.
func (p *Proxy) Float() (float64, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	f, ok := toFloat64(obj)
	if !ok {
		return 0, fmt.Errorf("cannot convert %T to float", obj)
	}

	return f, nil
}

// Complex converts the resolved value to a complex number.
func (p *Proxy) Complex() (complex128, error) {
	obj, err := p.resolve()
	if err != nil {
		return 0, err
	}

	c, ok := toComplex128(obj)
	if !ok {
		return 0, fmt.Errorf("cannot convert %T to complex", obj)
	}

	return c, nil
}

// Round rounds the resolved value to ndigits decimal places. Integers pass
// through unchanged.
func (p *Proxy) Round(ndigits int) (any, error) {
	return p.rounding(func(f float64) float64 {
		pow := math.Pow(10, float64(ndigits))
		return math.Round(f*pow) / pow
	})
}

// Trunc truncates the resolved value toward zero.
func (p *Proxy) Trunc() (any, error) { return p.rounding(math.Trunc) }

// Floor rounds the resolved value toward negative infinity.
func (p *Proxy) Floor() (any, error) { return p.rounding(math.Floor) }

// Ceil rounds the resolved value toward positive infinity.
func (p *Proxy) Ceil() (any, error) { return p.rounding(math.Ceil) }

func (p *Proxy) rounding(fn func(float64) float64) (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	switch kindOf(obj) {
	case numInt, numUint:
		n, _ := toInt64(obj)
		return n, nil
	case numFloat:
		f, _ := toFloat64(obj)
		return fn(f), nil
	default:
		return nil, fmt.Errorf("cannot round %T", obj)
	}
}

// Enter acquires the resolved object as a scoped resource. A ScopedResource
// implementation wins; a plain io.Closer enters as itself.
func (p *Proxy) Enter() (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	if sr, ok := obj.(ScopedResource); ok {
		return sr.Enter()
	}

	if _, ok := obj.(io.Closer); ok {
		return obj, nil
	}

	return nil, fmt.Errorf("%T is not a scoped resource", obj)
}

// Exit releases the resolved object's scoped acquisition. cause is the error
// the scope body ended with, nil on normal completion.
func (p *Proxy) Exit(cause error) error {
	obj, err := p.resolve()
	if err != nil {
		return err
	}

	if sr, ok := obj.(ScopedResource); ok {
		return sr.Exit(cause)
	}

	if c, ok := obj.(io.Closer); ok {
		return c.Close()
	}

	return fmt.Errorf("%T is not a scoped resource", obj)
}

// Copy returns a shallow copy of the resolved object, not of the proxy:
// slices and maps get a new top-level container sharing element values,
// pointers to structs get a copied struct, plain values copy by assignment.
func (p *Proxy) Copy() (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(obj)

	switch rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)

		return out.Interface(), nil
	case reflect.Map:
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		for _, k := range rv.MapKeys() {
			out.SetMapIndex(k, rv.MapIndex(k))
		}

		return out.Interface(), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return obj, nil
		}

		out := reflect.New(rv.Type().Elem())
		out.Elem().Set(rv.Elem())

		return out.Interface(), nil
	default:
		return obj, nil
	}
}

// DeepCopy returns a deep copy of the resolved object.
func (p *Proxy) DeepCopy() (any, error) {
	obj, err := p.resolve()
	if err != nil {
		return nil, err
	}

	out, err := copystructure.Copy(obj)
	if err != nil {
		return nil, fmt.Errorf("deep copying %T: %w", obj, err)
	}

	return out, nil
}
