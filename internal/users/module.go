// Package users provides the user administration module.
package users

import (
	apphttp "presupuestos_backend/internal/http"
	"presupuestos_backend/internal/users/handler"
	"presupuestos_backend/internal/users/repository"
	"presupuestos_backend/internal/users/service"
	"presupuestos_backend/platform/logger"
	"presupuestos_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the users module
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates the users module. val must already know the
// strongpassword rule.
func NewModule(pool *pgxpool.Pool, audit service.AuditRecorder, val *validator.Validator, log *logger.Logger, maxPageSize int) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, audit, log)
	return &Module{
		handler: handler.New(svc, val, maxPageSize),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "users"
}

// Service returns the users service (admin bootstrap).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository exposes user lookups for the auth adapter.
func (m *Module) Repository() repository.Reader {
	return m.repo
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/users"), ctx.Admin.Group("/users"))
}

var _ apphttp.Module = (*Module)(nil)
