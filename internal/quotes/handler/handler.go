package handler

import (
	"context"
	"fmt"
	"net/http"

	"presupuestos_backend/internal/pdf"
	"presupuestos_backend/internal/quotes/service"
	"presupuestos_backend/internal/quotes/transport"
	"presupuestos_backend/platform/httpkit"
	"presupuestos_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest      = "invalid request"
	msgValidationFailed    = "validation failed"
	msgPDFGenerationFailed = "PDF generation failed"
)

// QuoteService is the quote use-case surface the handler drives.
type QuoteService interface {
	Create(ctx context.Context, actorID uuid.UUID, req transport.CreateQuoteRequest) (*transport.QuoteResponse, error)
	Update(ctx context.Context, id uuid.UUID, actorID uuid.UUID, req transport.UpdateQuoteRequest) (*transport.QuoteResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error)
	List(ctx context.Context, req transport.ListQuotesRequest) ([]transport.QuoteResponse, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, req transport.ListQuotesRequest) ([]transport.QuoteResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ClientName(ctx context.Context, clientID uuid.UUID) (string, error)
}

// DocumentRenderer turns an assembled quote into a PDF.
type DocumentRenderer interface {
	Render(quote transport.QuoteResponse, clientName string) ([]byte, error)
}

// Handler handles HTTP requests for quotes
type Handler struct {
	svc      QuoteService
	val      *validator.Validator
	pdfGen   DocumentRenderer
	maxLimit int
}

// New creates a new quotes handler. maxLimit caps the page size of listings.
func New(svc QuoteService, val *validator.Validator, pdfGen DocumentRenderer, maxLimit int) *Handler {
	return &Handler{svc: svc, val: val, pdfGen: pdfGen, maxLimit: maxLimit}
}

// RegisterRoutes registers the quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/calculate", h.PreviewCalculation)
	rg.GET("/client/:clientId", h.ListByClient)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/pdf", h.DownloadPDF)
}

// List handles GET /api/v1/quotes
func (h *Handler) List(c *gin.Context) {
	req, ok := h.bindPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// ListByClient handles GET /api/v1/quotes/client/:clientId
func (h *Handler) ListByClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("clientId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	req, ok := h.bindPagination(c)
	if !ok {
		return
	}

	result, err := h.svc.ListByClient(c.Request.Context(), clientID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Create handles POST /api/v1/quotes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateQuoteRequest
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

	result, err := h.svc.Create(c.Request.Context(), identity.UserID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}

// GetByID handles GET /api/v1/quotes/:id
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

// Update handles PUT /api/v1/quotes/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateQuoteRequest
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

	result, err := h.svc.Update(c.Request.Context(), id, identity.UserID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Delete handles DELETE /api/v1/quotes/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.NoContent(c)
}

// PreviewCalculation handles POST /api/v1/quotes/calculate
// Returns calculated totals without persisting anything.
func (h *Handler) PreviewCalculation(c *gin.Context) {
	var req transport.QuoteCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, service.CalculateQuote(req))
}

// DownloadPDF handles GET /api/v1/quotes/:id/pdf
// The document is rendered on every request.
func (h *Handler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	quote, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	clientName, err := h.svc.ClientName(c.Request.Context(), quote.ClientID)
	if httpkit.HandleError(c, err) {
		return
	}

	pdfBytes, err := h.pdfGen.Render(*quote, clientName)
	if err != nil {
		_ = c.Error(err)
		httpkit.Error(c, http.StatusInternalServerError, msgPDFGenerationFailed, nil)
		return
	}

	servePDFBytes(c, pdf.FileName(*quote), pdfBytes)
}

func (h *Handler) bindPagination(c *gin.Context) (transport.ListQuotesRequest, bool) {
	var req transport.ListQuotesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return req, false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return req, false
	}
	if req.Limit > h.maxLimit {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, map[string]string{
			"limit": fmt.Sprintf("lte=%d", h.maxLimit),
		})
		return req, false
	}
	return req, true
}
