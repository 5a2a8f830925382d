package handler

import (
	"context"
	"fmt"
	"net/http"

	"presupuestos_backend/internal/audit/transport"
	"presupuestos_backend/platform/httpkit"
	"presupuestos_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// AuditReader is the read side of the audit service.
type AuditReader interface {
	List(ctx context.Context, req transport.ListAuditRequest) ([]transport.AuditRecordResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*transport.AuditRecordResponse, error)
}

// Handler serves the audit trail to administrators.
type Handler struct {
	svc      AuditReader
	val      *validator.Validator
	maxLimit int
}

// New creates a new audit handler.
func New(svc AuditReader, val *validator.Validator, maxLimit int) *Handler {
	return &Handler{svc: svc, val: val, maxLimit: maxLimit}
}

// RegisterRoutes registers the audit routes. The group must already restrict
// access to administrators.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
}

// List handles GET /api/v1/audit-logs
func (h *Handler) List(c *gin.Context) {
	var req transport.ListAuditRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}
	if req.Limit > h.maxLimit {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, map[string]string{
			"limit": fmt.Sprintf("lte=%d", h.maxLimit),
		})
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/audit-logs/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
