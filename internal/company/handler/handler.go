// Package handler handles HTTP requests for company settings.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clientbase/internal/company/service"
	"clientbase/internal/company/transport"
	"clientbase/platform/httpkit"
	"clientbase/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for company settings.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new company handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetSettings returns which credentials are configured.
// GET /api/v1/company/settings
func (h *Handler) GetSettings(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Settings(c.Request.Context(), identity.CompanyID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateSettings applies a partial credential update.
// PUT /api/v1/company/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req transport.UpdateSettingsRequest
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

	if err := h.svc.UpdateSettings(c.Request.Context(), identity.CompanyID(), req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "settings updated"})
}
