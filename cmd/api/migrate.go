package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"presupuestos_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), db.RunMigrations)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the state of every migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), db.MigrationStatus)
		},
	})
	return cmd
}

func withPool(parent context.Context, fn func(context.Context, *pgxpool.Pool) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, log, pool, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := fn(ctx, pool); err != nil {
		log.DatabaseError("migrate", err)
		return err
	}
	log.Info("migration command complete")
	return nil
}
