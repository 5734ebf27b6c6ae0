// Package handler handles HTTP requests for broadcasts.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientbase/internal/communications/service"
	"clientbase/internal/communications/transport"
	"clientbase/platform/httpkit"
	"clientbase/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for broadcasts.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new communications handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Send starts a broadcast.
// POST /api/v1/communications/send
func (h *Handler) Send(c *gin.Context) {
	var req transport.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Send(c.Request.Context(), identity.CompanyID(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	if result.Background {
		httpkit.Accepted(c, result)
		return
	}
	httpkit.OK(c, result)
}
