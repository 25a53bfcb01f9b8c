package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/course-scheduler/internal/config"
	"github.com/example/course-scheduler/internal/logging"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "scheduler",
		Short: "Plan a semester of courses and events",
		Long: `scheduler loads a course catalog and serves a JSON API for building a
conflict free weekly schedule of courses and personal events. Schedules can be
saved as snapshots and exported as records or iCalendar files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default ./scheduler.yaml when present)")

	root.AddCommand(
		newServeCommand(&configPath),
		newCatalogCommand(),
		newSnapshotsCommand(&configPath),
		newExportCommand(&configPath),
	)
	return root
}

// loadRuntime reads configuration and builds the logger every command shares.
func loadRuntime(configPath string, logOutput io.Writer) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOutput)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("configure logging: %w", err)
	}
	return cfg, logger, nil
}
