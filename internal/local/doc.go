// Package local provides context-bound storage: mutable state keyed by the
// identity of the executing context (a goroutine by default, or any unit of
// concurrent execution with a stable identity token), plus a forwarding proxy
// whose operations resolve to whatever object is currently bound for the
// calling context.
//
// # Storage and Stack
//
// A Storage maps the current context identity to a set of named values:
//
//	users := local.NewStorage()
//	users.Set("user", currentUser)   // visible only to this context
//	u, err := users.Get("user")
//
// A Stack layers push/pop semantics on top of a single storage slot, which is
// the natural shape for nested request or task scopes:
//
//	scopes := local.NewStack()
//	scopes.Push(outer)
//	scopes.Push(inner)
//	top, ok := scopes.Top() // inner
//
// # Proxies
//
// A Proxy is a late-binding handle. It never caches: every operation invokes
// the resolver again, so the same proxy observes different objects from
// different contexts, and observes rebinding within one context:
//
//	current := scopes.Proxy()
//	v, err := current.Resolve()
//
// Proxies forward a wide operation surface (truthiness, comparison, attribute
// and item access, invocation, iteration, arithmetic, scoped resources,
// copying) to the resolved object. Only Bool and String tolerate an unbound
// proxy; every other operation reports the unbound condition to the caller.
//
// # Cleanup
//
// A Manager aggregates storages and stacks so that everything bound for the
// current context can be released in one call at the end of a logical scope,
// either explicitly via ReleaseCurrent, through the release-once body wrapper
// WrapBody, or through the HTTP middleware in the adapters layer.
//
// # Identity
//
// The identity function is chosen explicitly at construction. GoroutineIdent
// is the default; FixedIdent and NewSequenceIdent support tests and
// cooperatively scheduled tasks. A context that exits without releasing its
// slot leaks that slot until released explicitly, which is exactly what the
// Manager's scope-end hooks are for.
//
// Binding and reading must happen on the context that owns the data. Code
// that spawns goroutines must not reach into another context's slot through
// this package; hand the resolved value over instead.
package local
