// Package handler exposes the on-demand validation sweep trigger.
package handler

import (
	"github.com/gin-gonic/gin"

	"clientbase/internal/validation/dispatch"
	"clientbase/platform/httpkit"
)

// Handler handles HTTP requests for the validation pipeline.
type Handler struct {
	dispatcher dispatch.Dispatcher
}

// New creates a new validation handler.
func New(dispatcher dispatch.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// TriggerSweep schedules a catch-up sweep for the caller's company and
// returns immediately. The sweep outcome is observable through the client
// listing and the SSE stream, never through this response.
// POST /api/v1/validation/sweep
func (h *Handler) TriggerSweep(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.dispatcher.DispatchSweep(c.Request.Context(), identity.CompanyID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.Accepted(c, gin.H{"message": "sweep scheduled"})
}
