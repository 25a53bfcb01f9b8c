package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/exporter"
	"github.com/example/course-scheduler/internal/records"
	"github.com/example/course-scheduler/internal/scheduler"
)

const (
	formatRecords = "records"
	formatICS     = "ics"
)

func newExportCommand(configPath *string) *cobra.Command {
	var (
		snapshotID string
		format     string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved snapshot as records or an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != formatRecords && format != formatICS {
				return fmt.Errorf("unknown format %q: use %s or %s", format, formatRecords, formatICS)
			}

			cfg, logger, err := loadRuntime(*configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			start, err := cfg.Term.StartDate()
			if err != nil {
				return fmt.Errorf("term start: %w", err)
			}
			term := exporter.Term{Start: start, Weeks: cfg.Term.Weeks}

			var activities []scheduler.Activity
			err = withSnapshotService(cmd.Context(), cfg, logger, func(service *application.SnapshotService) error {
				snapshot, err := service.GetSnapshot(cmd.Context(), snapshotID)
				if err != nil {
					if errors.Is(err, application.ErrNotFound) {
						return fmt.Errorf("snapshot %s not found", snapshotID)
					}
					return err
				}
				activities, err = application.SnapshotActivities(snapshot)
				return err
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := writeExport(w, format, activities, term); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d activities to %s\n", len(activities), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&snapshotID, "snapshot", "s", "", "snapshot id to export")
	cmd.Flags().StringVarP(&format, "format", "f", formatRecords, "output format: records or ics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default stdout)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func writeExport(w io.Writer, format string, activities []scheduler.Activity, term exporter.Term) error {
	if format == formatICS {
		return exporter.GenerateICS(activities, term, time.Now(), w)
	}
	return records.WriteActivityRecords(w, activities)
}
