package local

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// Local is the capability a Manager requires of its members: per-context
// release plus a swappable identity function. Storage and Stack both
// implement it.
type Local interface {
	// Release removes everything bound for the calling context.
	Release()

	// ReleaseID removes everything bound for the given context. Idempotent.
	ReleaseID(id ContextID)

	// SetIdent replaces the identity function.
	SetIdent(fn IdentFunc)
}

// Manager aggregates storages and stacks so their per-context data can be
// released in one call at the end of a logical scope. Locals cannot manage
// their own lifecycle: something outside the bound code has to know when a
// scope ends, and that something talks to the Manager.
//
// A Manager is process-lifetime state: create it once, register members as
// they are created, and call ReleaseCurrent (directly or through one of the
// scope-end hooks) once per logical scope.
type Manager struct {
	mu       sync.Mutex
	locals   []Local
	ident    IdentFunc
	releases atomic.Uint64
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerIdent overrides the identity function on the manager and on
// every member passed to NewManager. Members registered later keep their own
// identity function; re-apply explicitly if they must match.
func WithManagerIdent(fn IdentFunc) ManagerOption {
	return func(m *Manager) {
		m.ident = fn
		for _, l := range m.locals {
			l.SetIdent(fn)
		}
	}
}

// NewManager creates a manager over the given members. Pass nil to start
// empty and Register members later.
func NewManager(locals []Local, opts ...ManagerOption) *Manager {
	m := &Manager{
		locals: append([]Local(nil), locals...),
		ident:  GoroutineIdent,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Register adds a member. Registration order is release order. The member's
// identity function is left untouched.
func (m *Manager) Register(l Local) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.locals = append(m.locals, l)
}

// Ident returns the context identity the manager itself uses. You cannot
// change what the members use through this method; it exists to link other
// context-keyed state to the same identity.
func (m *Manager) Ident() ContextID {
	return m.ident()
}

// Releases reports how many bulk releases have run. Feeds the metrics
// collector.
func (m *Manager) Releases() uint64 {
	return m.releases.Load()
}

// ReleaseCurrent releases every member's data for the current context, in
// registration order. Each member resolves the context identity itself, and
// a member with nothing bound is a no-op, never a reason to stop the loop.
func (m *Manager) ReleaseCurrent() {
	m.mu.Lock()
	locals := append([]Local(nil), m.locals...)
	m.mu.Unlock()

	for _, l := range locals {
		l.Release()
	}

	m.releases.Add(1)
}

// WrapBody wraps a response body so that ReleaseCurrent runs exactly once,
// as soon as the body is fully read or closed, whichever happens first. The
// caller owns the discipline of eventually exhausting or closing the body;
// until then the context's data stays bound.
func (m *Manager) WrapBody(rc io.ReadCloser) io.ReadCloser {
	return &closingBody{body: rc, manager: m}
}

// String implements fmt.Stringer.
func (m *Manager) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return fmt.Sprintf("<Manager storages: %d>", len(m.locals))
}

// closingBody is an io.ReadCloser that triggers a bulk release on
// end-of-stream or close.
type closingBody struct {
	body    io.ReadCloser
	manager *Manager
	once    sync.Once
}

// Read implements io.Reader. Reaching io.EOF triggers the release before the
// EOF is returned to the caller.
func (b *closingBody) Read(p []byte) (int, error) {
	n, err := b.body.Read(p)
	if err == io.EOF {
		b.once.Do(b.manager.ReleaseCurrent)
	}

	return n, err
}

// Close implements io.Closer. The release runs before the wrapped body's
// Close, and at most once across Read and Close.
func (b *closingBody) Close() error {
	b.once.Do(b.manager.ReleaseCurrent)

	return b.body.Close()
}
