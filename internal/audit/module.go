// Package audit provides the append-only audit trail module.
package audit

import (
	"presupuestos_backend/internal/audit/handler"
	"presupuestos_backend/internal/audit/repository"
	"presupuestos_backend/internal/audit/service"
	apphttp "presupuestos_backend/internal/http"
	"presupuestos_backend/platform/logger"
	"presupuestos_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the audit module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the audit module. metrics may be nil.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger, metrics service.Metrics, maxPageSize int) *Module {
	svc := service.New(repository.New(pool), log, metrics)
	return &Module{
		handler: handler.New(svc, val, maxPageSize),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "audit"
}

// Service returns the audit service so other modules can record entries.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/audit-logs"))
}

var _ apphttp.Module = (*Module)(nil)
