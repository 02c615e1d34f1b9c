package app

import (
	"context"
	"fmt"
)

// DefaultMaxBoundContexts is the bound-context threshold above which the
// scope checker reports unhealthy.
const DefaultMaxBoundContexts = 10_000

// ScopeChecker reports the health of the request scope. The number of
// execution contexts holding bindings should track the number of in-flight
// requests; a count far above that means release hooks are being skipped and
// per-request state is accumulating.
type ScopeChecker struct {
	scope    *Scope
	maxBound int
}

// NewScopeChecker creates a checker for scope. maxBound <= 0 selects
// DefaultMaxBoundContexts.
func NewScopeChecker(scope *Scope, maxBound int) *ScopeChecker {
	if maxBound <= 0 {
		maxBound = DefaultMaxBoundContexts
	}

	return &ScopeChecker{scope: scope, maxBound: maxBound}
}

// Name returns the checker identifier used in health responses.
func (c *ScopeChecker) Name() string {
	return "scope"
}

// Check returns an error when the bound-context count exceeds the threshold.
func (c *ScopeChecker) Check(_ context.Context) error {
	bound := c.scope.Requests.Len() + c.scope.Attrs.Len()
	if bound > c.maxBound {
		return fmt.Errorf("%d contexts hold bindings (limit %d), possible release leak", bound, c.maxBound)
	}

	return nil
}
