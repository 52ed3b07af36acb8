package view

import (
	"context"
	"net/http"

	"call-history/internal/calls"
	"call-history/internal/paging"
	"call-history/internal/source"
	"call-history/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Pages is the subset of source.Query the handlers need.
type Pages interface {
	Get(ctx context.Context, key source.Key) source.Result
}

// Handlers serves the call list screen. Keep these thin: read URL state,
// ask the query for the page, build the model, render.
type Handlers struct {
	Pages          Pages
	View           Builder
	DefaultPerPage int
}

// CallsPage renders the HTML screen at /calls/.
func (h Handlers) CallsPage(c *gin.Context) {
	m := h.model(c)
	c.HTML(statusFor(m.State), listTemplate, m)
}

// CallsJSON serves the same model at /v1/calls.
func (h Handlers) CallsJSON(c *gin.Context) {
	m := h.model(c)
	status := statusFor(m.State)
	if m.State == source.StateError.String() {
		c.AbortWithStatusJSON(status, gin.H{"error": "fetch failed"})
		return
	}
	c.JSON(status, m)
}

func (h Handlers) model(c *gin.Context) Model {
	log := logger.FromGin(c)

	perPage := paging.ResolvePageSize(c.Query("per_page"), h.DefaultPerPage)
	params := paging.Resolve(c.Query("page"), perPage)
	fs := calls.ParseFilterState(c.Query("call_type"), c.Query("direction"))

	res := h.Pages.Get(c.Request.Context(), source.Key{Offset: params.Offset, Limit: params.Limit})
	if res.State == source.StateError && res.Err != nil {
		log.Error("calls page unavailable", "offset", params.Offset, "limit", params.Limit, "err", res.Err)
		_ = c.Error(res.Err)
	}
	return h.View.Build(params, fs, res)
}

func statusFor(state string) int {
	switch state {
	case source.StateError.String():
		return http.StatusBadGateway
	case source.StateNotFound.String():
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}
