package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"presupuestos_backend/internal/audit"
	"presupuestos_backend/internal/auth"
	"presupuestos_backend/internal/auth/adapter"
	authservice "presupuestos_backend/internal/auth/service"
	authvalidator "presupuestos_backend/internal/auth/validator"
	"presupuestos_backend/internal/catalog"
	apphttp "presupuestos_backend/internal/http"
	"presupuestos_backend/internal/http/router"
	"presupuestos_backend/internal/pdf"
	"presupuestos_backend/internal/quotes"
	"presupuestos_backend/internal/users"
	"presupuestos_backend/platform/cache"
	"presupuestos_backend/platform/db"
	"presupuestos_backend/platform/metrics"
	"presupuestos_backend/platform/telemetry"
	"presupuestos_backend/platform/validator"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("starting server", "env", cfg.Env, "addr", cfg.GetHTTPAddr())

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		log.DatabaseError("run_migrations", err)
		return err
	}
	log.Info("database migrations complete")

	tracing, err := telemetry.New(ctx, cfg, cfg.Env)
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	rdb, err := cache.NewClient(ctx, cfg)
	if err != nil {
		log.Warn("redis unavailable; catalog cache disabled", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	registry := metrics.New()

	// Shared validator instance for dependency injection
	val := validator.New()
	if err := authvalidator.Register(val); err != nil {
		return err
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	maxPage := cfg.GetPaginationMaxLimit()

	catalogModule := catalog.NewModule(pool, rdb, cfg.GetCatalogCacheTTL(), log, registry)
	auditModule := audit.NewModule(pool, val, log, registry, maxPage)
	usersModule := users.NewModule(pool, auditModule.Service(), val, log, maxPage)
	authModule := auth.NewModule(adapter.NewUserAccountAdapter(usersModule.Repository()), cfg, val, log)
	quotesModule := quotes.NewModule(
		pool,
		catalogModule.Reader(),
		val,
		log,
		registry,
		pdf.NewGenerator(cfg.GetPDFIssuerName()),
		maxPage,
	)

	if err := authservice.BootstrapAdmin(ctx, usersModule.Service(), cfg.GetAdminEmail(), cfg.GetAdminPassword(), log); err != nil {
		log.Error("failed to bootstrap admin user", "error", err)
		return err
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Health:  pool,
		Metrics: registry,
		Modules: []apphttp.Module{
			authModule,
			usersModule,
			auditModule,
			quotesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return tracing.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
