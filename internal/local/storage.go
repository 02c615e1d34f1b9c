package local

import "sync"

// Storage maps the identity of the executing context to a set of named
// values. The outer table is shared by every context that uses the storage
// and is safe for concurrent first-writes and releases; each per-context
// value set belongs to exactly one context and must only be touched by it.
type Storage struct {
	ident IdentFunc
	table sync.Map // ContextID -> map[string]any
}

// StorageOption configures a Storage (and, through it, a Stack).
type StorageOption func(*Storage)

// WithIdent overrides the identity function. The default is GoroutineIdent.
func WithIdent(fn IdentFunc) StorageOption {
	return func(s *Storage) {
		s.ident = fn
	}
}

// NewStorage creates an empty context-bound storage.
func NewStorage(opts ...StorageOption) *Storage {
	s := &Storage{ident: GoroutineIdent}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ident returns the identity of the calling context as this storage sees it.
// Use it to link other context-keyed state to the same identity.
func (s *Storage) Ident() ContextID {
	return s.ident()
}

// SetIdent replaces the identity function. Call it before the storage is
// shared between contexts; it exists so a Manager can apply one identity
// function uniformly across its members at construction time.
func (s *Storage) SetIdent(fn IdentFunc) {
	s.ident = fn
}

// Set binds a value under the given name for the calling context, creating
// the context's value set on first write.
func (s *Storage) Set(name string, value any) {
	id := s.ident()

	if m, ok := s.table.Load(id); ok {
		m.(map[string]any)[name] = value
		return
	}

	// Only the owning context inserts its own entry, so a concurrent
	// LoadOrStore for the same id cannot happen; LoadOrStore still keeps
	// the insert race between different ids safe.
	m, _ := s.table.LoadOrStore(id, map[string]any{})
	m.(map[string]any)[name] = value
}

// Lookup returns the value bound under name for the calling context.
// The boolean result distinguishes "nothing bound" from a bound nil.
func (s *Storage) Lookup(name string) (any, bool) {
	m, ok := s.table.Load(s.ident())
	if !ok {
		return nil, false
	}

	v, ok := m.(map[string]any)[name]

	return v, ok
}

// Get returns the value bound under name for the calling context, or an
// UnboundError if the context has no entry or the entry lacks the name.
func (s *Storage) Get(name string) (any, error) {
	v, ok := s.Lookup(name)
	if !ok {
		return nil, NewUnboundError(name)
	}

	return v, nil
}

// Delete removes the binding under name for the calling context. The
// context's value set stays in place even when it becomes empty; an empty
// set reads the same as an absent one. Deleting an unbound name returns an
// UnboundError.
func (s *Storage) Delete(name string) error {
	m, ok := s.table.Load(s.ident())
	if !ok {
		return NewUnboundError(name)
	}

	values := m.(map[string]any)
	if _, ok := values[name]; !ok {
		return NewUnboundError(name)
	}

	delete(values, name)

	return nil
}

// Release removes everything bound for the calling context.
func (s *Storage) Release() {
	s.ReleaseID(s.ident())
}

// ReleaseID removes everything bound for the given context. It is
// idempotent: releasing a context with no data is a no-op. Release normally
// runs from a cleanup hook on the owning context, but the explicit-id form
// lets an external scheduler reclaim an abandoned context's slot.
func (s *Storage) ReleaseID(id ContextID) {
	s.table.Delete(id)
}

// Len reports the number of contexts that currently have an entry for this
// storage.
func (s *Storage) Len() int {
	n := 0

	s.table.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Range calls fn for each (context id, value set) pair until fn returns
// false. It is a live view with sync.Map semantics, not a snapshot: entries
// inserted or released concurrently may or may not be visited. The value set
// passed to fn belongs to its owning context; treat it as read-only.
func (s *Storage) Range(fn func(id ContextID, values map[string]any) bool) {
	s.table.Range(func(k, v any) bool {
		return fn(k.(ContextID), v.(map[string]any))
	})
}

// Proxy returns a forwarding handle over the value bound under name for
// whichever context uses the handle. Resolution happens on every operation,
// so the proxy can be created before anything is bound.
func (s *Storage) Proxy(name string, opts ...ProxyOption) *Proxy {
	resolve := func() (any, error) {
		v, ok := s.Lookup(name)
		if !ok {
			return nil, NewUnboundError(name)
		}

		return v, nil
	}

	return NewProxy(resolve, append([]ProxyOption{Named(name)}, opts...)...)
}
