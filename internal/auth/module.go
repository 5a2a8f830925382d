// Package auth provides the authentication module.
// This file defines the module that encapsulates auth setup and route registration.
package auth

import (
	"presupuestos_backend/internal/auth/handler"
	"presupuestos_backend/internal/auth/ports"
	"presupuestos_backend/internal/auth/service"
	"presupuestos_backend/internal/auth/token"
	apphttp "presupuestos_backend/internal/http"
	"presupuestos_backend/platform/config"
	"presupuestos_backend/platform/logger"
	"presupuestos_backend/platform/validator"
)

// Module is the auth module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module. accounts is usually the users adapter.
func NewModule(accounts ports.AccountProvider, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(accounts, token.NewSigner(cfg.GetJWTAccessSecret(), cfg.GetAccessTokenTTL()), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes with the stricter rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
