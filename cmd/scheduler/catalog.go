package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/course-scheduler/internal/records"
	"github.com/example/course-scheduler/internal/scheduler"
)

func newCatalogCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "catalog <file>",
		Short: "Check a course catalog file",
		Long: `catalog reads a course records file the way the server does and lists the
courses it would load together with every line it would skip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, skipped, err := records.ReadCourseRecordsFile(args[0])
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSECTION\tTITLE\tMEETING")
			for _, f := range fields {
				course, err := scheduler.NewCourse(f)
				if err != nil {
					return err
				}
				row := course.ShortDisplay()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			for _, lineErr := range skipped {
				fmt.Fprintf(out, "skipped %v\n", lineErr)
			}
			fmt.Fprintf(out, "%d courses loaded, %d lines skipped\n", len(fields), len(skipped))

			if strict && len(skipped) > 0 {
				return fmt.Errorf("catalog %s has %d invalid lines", args[0], len(skipped))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any line is skipped")
	return cmd
}
