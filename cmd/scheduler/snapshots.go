package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/config"
	"github.com/example/course-scheduler/internal/persistence/sqlite"
)

func newSnapshotsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List saved schedule snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadRuntime(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return withSnapshotService(cmd.Context(), cfg, logger, func(service *application.SnapshotService) error {
				summaries, err := service.ListSnapshots(cmd.Context())
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tCREATED\tACTIVITIES")
				for _, s := range summaries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", s.ID, s.Title, s.CreatedAt.UTC().Format(time.RFC3339), s.ActivityCount)
				}
				return tw.Flush()
			})
		},
	}
}

// withSnapshotService opens snapshot storage for the duration of fn.
func withSnapshotService(ctx context.Context, cfg config.Config, logger *slog.Logger, fn func(*application.SnapshotService) error) (err error) {
	dbConfig := sqlite.DefaultConfig(cfg.SQLite.DSN)
	dbConfig.BusyTimeout = cfg.SQLite.BusyTimeout
	storage, err := sqlite.Open(ctx, dbConfig, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(application.NewSnapshotService(storage.Snapshots, nil, time.Now, logger))
}
