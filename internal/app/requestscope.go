// Package app provides the application layer wiring request-scoped state.
package app

import (
	"time"

	"github.com/jsamuelsen/go-locals/internal/local"
)

// RequestInfo is the per-request value bound for the duration of one HTTP
// request. Handlers resolve it through Scope.Current instead of threading it
// through call signatures.
type RequestInfo struct {
	// RequestID is the unique identifier assigned by the request-id
	// middleware.
	RequestID string

	// Method is the HTTP method.
	Method string

	// Path is the request path.
	Path string

	// ClientIP is the remote client address.
	ClientIP string

	// Start is when the request entered the pipeline.
	Start time.Time
}

// Scope bundles the context-bound state of the request pipeline: a stack of
// request infos (nested dispatch pushes again), a storage for named
// per-request attributes, and a manager releasing both when the request ends.
type Scope struct {
	// Requests holds the RequestInfo stack for each execution context.
	Requests *local.Stack

	// Attrs holds named per-request attributes.
	Attrs *local.Storage

	// Manager releases Requests and Attrs together.
	Manager *local.Manager

	// Current resolves to the innermost RequestInfo of the calling context.
	Current *local.Proxy
}

// ScopeOption configures a Scope.
type ScopeOption func(*scopeOptions)

type scopeOptions struct {
	ident local.IdentFunc
}

// WithScopeIdent overrides the identity function shared by the scope's
// storages. Use it when requests are multiplexed onto cooperative tasks
// instead of goroutines. The function must report a stable id for the
// lifetime of one task: pin explicitly allocated ids with local.FixedIdent
// rather than installing an allocator directly.
func WithScopeIdent(fn local.IdentFunc) ScopeOption {
	return func(o *scopeOptions) {
		o.ident = fn
	}
}

// NewScope creates the request scope. All members share one identity
// function, so a context switch is observed consistently across them.
func NewScope(opts ...ScopeOption) *Scope {
	var o scopeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var storageOpts []local.StorageOption
	if o.ident != nil {
		storageOpts = append(storageOpts, local.WithIdent(o.ident))
	}

	requests := local.NewStack(storageOpts...)
	attrs := local.NewStorage(storageOpts...)

	var managerOpts []local.ManagerOption
	if o.ident != nil {
		managerOpts = append(managerOpts, local.WithManagerIdent(o.ident))
	}

	return &Scope{
		Requests: requests,
		Attrs:    attrs,
		Manager:  local.NewManager([]local.Local{requests, attrs}, managerOpts...),
		Current:  requests.Proxy(local.Named("request")),
	}
}

// Bind pushes info onto the calling context's request stack.
func (s *Scope) Bind(info RequestInfo) {
	s.Requests.Push(info)
}

// Release drops everything bound for the calling context.
func (s *Scope) Release() {
	s.Manager.ReleaseCurrent()
}

// CurrentInfo resolves the innermost RequestInfo for the calling context.
func (s *Scope) CurrentInfo() (RequestInfo, error) {
	v, err := s.Current.Resolve()
	if err != nil {
		return RequestInfo{}, err
	}

	info, ok := v.(RequestInfo)
	if !ok {
		return RequestInfo{}, local.ErrObjectUnbound
	}

	return info, nil
}

// SetAttr binds a named attribute for the calling context.
func (s *Scope) SetAttr(name string, value any) {
	s.Attrs.Set(name, value)
}

// Attr returns the named attribute bound for the calling context.
func (s *Scope) Attr(name string) (any, error) {
	return s.Attrs.Get(name)
}

// DelAttr removes the named attribute for the calling context.
func (s *Scope) DelAttr(name string) error {
	return s.Attrs.Delete(name)
}
