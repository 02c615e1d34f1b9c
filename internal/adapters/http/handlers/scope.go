package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-locals/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-locals/internal/app"
)

// ScopeHandler exposes the request scope over HTTP. None of its handlers
// receive request state as an argument; everything is resolved through the
// scope's context-bound storages, which is the point of the exercise.
type ScopeHandler struct {
	scope *app.Scope
}

// NewScopeHandler creates a new scope handler.
func NewScopeHandler(scope *app.Scope) *ScopeHandler {
	return &ScopeHandler{
		scope: scope,
	}
}

// ScopeResponse is the HTTP response structure for the current request scope.
type ScopeResponse struct {
	RequestID string   `json:"requestId"`
	Method    string   `json:"method"`
	Path      string   `json:"path"`
	ClientIP  string   `json:"clientIp,omitempty"`
	ElapsedMS int64    `json:"elapsedMs"`
	Depth     int      `json:"depth"`
	Attrs     []string `json:"attrs,omitempty"`
}

// attrRequest is the request body for binding a named attribute.
type attrRequest struct {
	Value any `json:"value" validate:"required"`
}

// attrResponse is the response structure for a named attribute.
type attrResponse struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// GetScope handles GET /api/v1/scope.
// Returns the RequestInfo the locals middleware bound for this request,
// resolved through the late-binding proxy rather than passed down the call
// chain.
func (h *ScopeHandler) GetScope(c *gin.Context) {
	info, err := h.scope.CurrentInfo()
	if err != nil {
		dto.HandleScopeError(c, err)
		return
	}

	var names []string
	if attrs, ok := h.scope.Attrs.Lookup(attrNamesKey); ok {
		names, _ = attrs.([]string)
	}

	c.JSON(http.StatusOK, ScopeResponse{
		RequestID: info.RequestID,
		Method:    info.Method,
		Path:      info.Path,
		ClientIP:  info.ClientIP,
		ElapsedMS: time.Since(info.Start).Milliseconds(),
		Depth:     h.scope.Requests.Size(),
		Attrs:     names,
	})
}

// attrNamesKey tracks which attribute names this request has bound, so
// GetScope can enumerate them without a storage-wide scan.
const attrNamesKey = "__attr_names"

// PutAttr handles PUT /api/v1/scope/attrs/:name.
// Binds a named attribute for the calling request.
func (h *ScopeHandler) PutAttr(c *gin.Context) {
	name := c.Param("name")

	var req attrRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	h.scope.SetAttr(name, req.Value)
	h.recordAttrName(name)

	c.JSON(http.StatusOK, attrResponse{Name: name, Value: req.Value})
}

// GetAttr handles GET /api/v1/scope/attrs/:name.
// Returns the named attribute bound for the calling request. A request that
// never bound the attribute gets 404: bindings never leak across requests.
func (h *ScopeHandler) GetAttr(c *gin.Context) {
	name := c.Param("name")

	v, err := h.scope.Attr(name)
	if err != nil {
		dto.HandleScopeError(c, err)
		return
	}

	c.JSON(http.StatusOK, attrResponse{Name: name, Value: v})
}

// DeleteAttr handles DELETE /api/v1/scope/attrs/:name.
func (h *ScopeHandler) DeleteAttr(c *gin.Context) {
	name := c.Param("name")

	if err := h.scope.DelAttr(name); err != nil {
		dto.HandleScopeError(c, err)
		return
	}

	h.removeAttrName(name)

	c.Status(http.StatusNoContent)
}

func (h *ScopeHandler) recordAttrName(name string) {
	var names []string
	if v, ok := h.scope.Attrs.Lookup(attrNamesKey); ok {
		names, _ = v.([]string)
	}

	for _, n := range names {
		if n == name {
			return
		}
	}

	h.scope.Attrs.Set(attrNamesKey, append(names, name))
}

func (h *ScopeHandler) removeAttrName(name string) {
	v, ok := h.scope.Attrs.Lookup(attrNamesKey)
	if !ok {
		return
	}

	names, _ := v.([]string)

	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}

	h.scope.Attrs.Set(attrNamesKey, out)
}

// RegisterScopeRoutes registers scope routes on the given router group.
func (h *ScopeHandler) RegisterScopeRoutes(rg *gin.RouterGroup) {
	scope := rg.Group("/scope")
	scope.GET("", h.GetScope)
	scope.PUT("/attrs/:name", h.PutAttr)
	scope.GET("/attrs/:name", h.GetAttr)
	scope.DELETE("/attrs/:name", h.DeleteAttr)
}
