package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/config"
	"github.com/example/course-scheduler/internal/exporter"
	httptransport "github.com/example/course-scheduler/internal/http"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
	"github.com/example/course-scheduler/internal/records"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadRuntime(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			app, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := app.Close(); cerr != nil {
					logger.Error("failed to close storage", "error", cerr)
				}
			}()

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
				Handler:           app.handler,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}
			return serve(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
		},
	}
}

// app is the wired API together with the resources it owns.
type app struct {
	storage *sqlite.Storage
	handler http.Handler
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	start, err := cfg.Term.StartDate()
	if err != nil {
		return nil, fmt.Errorf("term start: %w", err)
	}
	term := exporter.Term{Start: start, Weeks: cfg.Term.Weeks}

	sched, err := application.NewScheduler(ctx, records.FileCatalog(cfg.Catalog.Path, logger), logger)
	if err != nil {
		return nil, err
	}

	dbConfig := sqlite.DefaultConfig(cfg.SQLite.DSN)
	dbConfig.BusyTimeout = cfg.SQLite.BusyTimeout
	storage, err := sqlite.Open(ctx, dbConfig, logger)
	if err != nil {
		return nil, err
	}

	snapshots := application.NewSnapshotService(storage.Snapshots, uuid.NewString, time.Now, logger)
	workspace := httptransport.NewWorkspace(sched)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Schedule:  httptransport.NewScheduleHandler(workspace, httptransport.ScheduleHandlerOptions{Term: term}, logger),
		Snapshots: httptransport.NewSnapshotHandler(snapshots, workspace, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	})

	return &app{storage: storage, handler: router}, nil
}

func (a *app) Close() error {
	return a.storage.Close()
}

// serve runs server until ctx is cancelled and then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("scheduler API listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server encountered error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down scheduler API")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
