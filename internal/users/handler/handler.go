package handler

import (
	"context"
	"fmt"
	"net/http"

	"presupuestos_backend/internal/users/transport"
	"presupuestos_backend/platform/httpkit"
	"presupuestos_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// UserService is the user administration surface the handler drives.
type UserService interface {
	List(ctx context.Context, req transport.ListUsersRequest) ([]transport.UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*transport.UserResponse, error)
	Create(ctx context.Context, actor httpkit.Identity, req transport.CreateUserRequest) (*transport.UserResponse, error)
	Update(ctx context.Context, actor httpkit.Identity, id uuid.UUID, req transport.UpdateUserRequest) (*transport.UserResponse, error)
	Delete(ctx context.Context, actor httpkit.Identity, id uuid.UUID) error
}

// Handler handles HTTP requests for users
type Handler struct {
	svc      UserService
	val      *validator.Validator
	maxLimit int
}

// New creates a new users handler.
func New(svc UserService, val *validator.Validator, maxLimit int) *Handler {
	return &Handler{svc: svc, val: val, maxLimit: maxLimit}
}

// RegisterRoutes mounts the user routes. admin must be restricted to administrators.
func (h *Handler) RegisterRoutes(protected, admin *gin.RouterGroup) {
	protected.GET("", h.List)
	protected.GET("/me", h.GetMe)
	protected.GET("/:id", h.GetByID)
	protected.PUT("/:id", h.Update)
	admin.POST("", h.Create)
	admin.DELETE("/:id", h.Delete)
}

// List handles GET /api/v1/users
func (h *Handler) List(c *gin.Context) {
	var req transport.ListUsersRequest
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

// GetMe handles GET /api/v1/users/me
func (h *Handler) GetMe(c *gin.Context) {
	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), identity.UserID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID handles GET /api/v1/users/:id
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

// Create handles POST /api/v1/users
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Create(c.Request.Context(), identity, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update handles PUT /api/v1/users/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.svc.Update(c.Request.Context(), identity, id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/users/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
