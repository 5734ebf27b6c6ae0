// Package handler handles HTTP requests for surveys, including the public
// submission endpoints and the QR code image.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"clientbase/internal/surveys/service"
	"clientbase/internal/surveys/transport"
	"clientbase/platform/httpkit"
	"clientbase/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid survey ID"

	qrSize = 256
)

// Handler handles HTTP requests for surveys.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new surveys handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create stores a new survey.
// POST /api/v1/surveys
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSurveyRequest
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

	result, err := h.svc.Create(c.Request.Context(), identity.CompanyID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// List retrieves the company's surveys without responses.
// GET /api/v1/surveys
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.List(c.Request.Context(), identity.CompanyID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a survey and its responses.
// DELETE /api/v1/surveys/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.CompanyID(), id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "survey deleted"})
}

// Results retrieves responses and MCQ tallies.
// GET /api/v1/surveys/:id/results
func (h *Handler) Results(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.Results(c.Request.Context(), identity.CompanyID(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// QRCode renders the public survey link as a PNG.
// GET /api/v1/surveys/:id/qr
func (h *Handler) QRCode(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	link, err := h.svc.PublicLink(c.Request.Context(), identity.CompanyID(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render QR code", nil)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// GetPublic returns the unauthenticated survey form payload.
// GET /api/v1/public/surveys/:id
func (h *Handler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.GetPublic(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitResponse stores a public survey submission.
// POST /api/v1/public/surveys/:id/responses
func (h *Handler) SubmitResponse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.SubmitResponse(c.Request.Context(), id, req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, gin.H{"message": "response recorded"})
}
