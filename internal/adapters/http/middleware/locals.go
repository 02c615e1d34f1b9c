package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-locals/internal/app"
)

// Locals returns middleware that binds the request scope for the duration of
// one request. It:
//   - Pushes a RequestInfo for the current execution context
//   - Runs the rest of the chain
//   - Releases everything the scope bound, even on panic
//
// Gin runs a handler chain on a single goroutine, so the binding made here is
// the one handlers resolve through scope.Current. Handlers that spawn their
// own goroutines must bind again there (and release) if they need the scope.
func Locals(scope *app.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope.Bind(app.RequestInfo{
			RequestID: GetRequestID(c),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			ClientIP:  c.ClientIP(),
			Start:     time.Now(),
		})

		defer scope.Release()

		c.Next()
	}
}
