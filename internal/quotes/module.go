// Package quotes provides the quotes (presupuestos) domain module.
package quotes

import (
	catalogrepo "presupuestos_backend/internal/catalog/repository"
	apphttp "presupuestos_backend/internal/http"
	"presupuestos_backend/internal/quotes/handler"
	"presupuestos_backend/internal/quotes/repository"
	"presupuestos_backend/internal/quotes/service"
	"presupuestos_backend/platform/logger"
	"presupuestos_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotes domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new quotes module with all dependencies wired.
// metrics may be nil.
func NewModule(
	pool *pgxpool.Pool,
	catalog catalogrepo.Reader,
	val *validator.Validator,
	log *logger.Logger,
	metrics service.Recorder,
	documents handler.DocumentRenderer,
	maxPageSize int,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, catalog, log, metrics)
	h := handler.New(svc, val, documents, maxPageSize)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "quotes"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/quotes"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
