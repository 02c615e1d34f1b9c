package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/go-locals/internal/local"
)

// Parallel executes fns concurrently and returns on first error. Each
// function runs on its own goroutine, which means its own execution context:
// the parent's scope bindings are invisible there. Parallel therefore
// snapshots the parent's RequestInfo and attributes, binds them inside each
// worker, and releases them when the worker exits, so code resolving through
// scope.Current keeps working below the fork.
//
// All goroutines are canceled when any function returns an error.
func (s *Scope) Parallel(ctx context.Context, fns ...func(context.Context) error) error {
	info, infoErr := s.CurrentInfo()
	attrs := s.snapshotAttrs()

	g, ctx := errgroup.WithContext(ctx)

	for _, fn := range fns {
		g.Go(func() error {
			if infoErr == nil || len(attrs) > 0 {
				if infoErr == nil {
					s.Bind(info)
				}

				for k, v := range attrs {
					s.Attrs.Set(k, v)
				}

				defer s.Release()
			}

			return fn(ctx)
		})
	}

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("parallel execution failed: %w", err)
	}

	return nil
}

// snapshotAttrs copies the calling context's attribute map, nil if nothing is
// bound.
func (s *Scope) snapshotAttrs() map[string]any {
	var attrs map[string]any

	own := s.Attrs.Ident()
	s.Attrs.Range(func(id local.ContextID, data map[string]any) bool {
		if id != own {
			return true
		}

		attrs = make(map[string]any, len(data))
		for k, v := range data {
			attrs[k] = v
		}

		return false
	})

	return attrs
}
