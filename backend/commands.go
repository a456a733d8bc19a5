package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clinicdesk/m/internal/api"
	"clinicdesk/m/internal/auth"
	"clinicdesk/m/internal/database"
	"clinicdesk/m/internal/migrations"
	"clinicdesk/m/internal/seed"
	"clinicdesk/m/internal/store"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrations.Run(cmd.Context(), db); err != nil {
				return err
			}
			a.log.Info("schema is up to date", zap.String("driver", db.DriverName()))
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the organization catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrations.Run(cmd.Context(), db); err != nil {
				return err
			}
			if path == "" {
				path = a.cfg.SeedOrganizations
			}
			_, err = seed.LoadOrganizations(cmd.Context(), db, path, a.log)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "organization catalog CSV (defaults to SEED_ORGANIZATIONS)")
	return cmd
}

func (a *app) openDB(ctx context.Context) (*sqlx.DB, error) {
	db, err := database.Open(a.cfg.DatabaseURL, a.cfg.DBMaxOpenConns)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// serve runs the API until SIGINT or SIGTERM. Database failures during
// startup are logged and the server still comes up.
func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(a.cfg.DatabaseURL, a.cfg.DBMaxOpenConns)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Ping(ctx, db); err != nil {
		a.log.Error("database unreachable at startup", zap.Error(err))
	} else if err := migrations.Run(ctx, db); err != nil {
		a.log.Error("database initialization failed", zap.Error(err))
	} else {
		a.log.Info("database initialized", zap.String("driver", db.DriverName()))
		if _, err := seed.LoadOrganizations(ctx, db, a.cfg.SeedOrganizations, a.log); err != nil {
			a.log.Warn("organization seed failed", zap.Error(err))
		}
	}

	handler := api.New(store.New(db), auth.NewTokens(a.cfg.Secret, a.cfg.TokenTTL()), a.log, api.ServiceInfo{
		Name:        a.cfg.ServiceName,
		Version:     a.cfg.ServiceVersion,
		Environment: a.cfg.Environment,
	})
	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server starting", zap.String("addr", srv.Addr), zap.String("environment", a.cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
