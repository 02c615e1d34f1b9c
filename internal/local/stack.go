package local

// stackAttr is the single storage slot a Stack occupies.
const stackAttr = "stack"

// Stack keeps a per-context stack of values on top of one Storage slot.
// Pushing lazily creates the sequence; popping the last element releases the
// context's entry entirely, so an exhausted stack is indistinguishable from
// one that was never used.
type Stack struct {
	local *Storage
}

// NewStack creates an empty context-bound stack.
func NewStack(opts ...StorageOption) *Stack {
	return &Stack{local: NewStorage(opts...)}
}

// Ident returns the identity of the calling context as this stack sees it.
func (s *Stack) Ident() ContextID {
	return s.local.Ident()
}

// SetIdent replaces the identity function of the backing storage. The same
// sharing caveat as Storage.SetIdent applies.
func (s *Stack) SetIdent(fn IdentFunc) {
	s.local.SetIdent(fn)
}

// Push appends a value to the calling context's stack and returns the
// sequence as it stands after the append.
func (s *Stack) Push(v any) []any {
	cur, _ := s.local.Lookup(stackAttr)
	seq, _ := cur.([]any)
	seq = append(seq, v)
	s.local.Set(stackAttr, seq)

	return seq
}

// Pop removes and returns the topmost value. Popping an empty stack is not
// an error: it returns (nil, false), which keeps teardown idempotent.
// Popping the last remaining value releases the context's storage entry.
func (s *Stack) Pop() (any, bool) {
	cur, ok := s.local.Lookup(stackAttr)
	if !ok {
		return nil, false
	}

	seq := cur.([]any)
	if len(seq) == 1 {
		s.local.Release()
		return seq[0], true
	}

	v := seq[len(seq)-1]
	s.local.Set(stackAttr, seq[:len(seq)-1])

	return v, true
}

// Top returns the topmost value without mutating the stack. The boolean is
// false both when nothing was ever pushed and when the stack has been fully
// popped.
func (s *Stack) Top() (any, bool) {
	cur, ok := s.local.Lookup(stackAttr)
	if !ok {
		return nil, false
	}

	seq := cur.([]any)
	if len(seq) == 0 {
		return nil, false
	}

	return seq[len(seq)-1], true
}

// Len reports the number of contexts that currently have a stack.
func (s *Stack) Len() int {
	return s.local.Len()
}

// Size reports the depth of the calling context's stack.
func (s *Stack) Size() int {
	cur, ok := s.local.Lookup(stackAttr)
	if !ok {
		return 0
	}

	return len(cur.([]any))
}

// Release removes the calling context's stack.
func (s *Stack) Release() {
	s.local.Release()
}

// ReleaseID removes the given context's stack. Idempotent.
func (s *Stack) ReleaseID(id ContextID) {
	s.local.ReleaseID(id)
}

// Proxy returns a forwarding handle over the topmost value of whichever
// context uses the handle. Resolving against an empty stack fails with
// ErrObjectUnbound.
func (s *Stack) Proxy(opts ...ProxyOption) *Proxy {
	resolve := func() (any, error) {
		v, ok := s.Top()
		if !ok {
			return nil, ErrObjectUnbound
		}

		return v, nil
	}

	return NewProxy(resolve, opts...)
}
