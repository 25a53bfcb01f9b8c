package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/example/course-scheduler/internal/scheduler"
)

// WriteActivityRecords writes one record per activity in schedule order.
// Fields containing commas, quotes or line breaks are quoted.
func WriteActivityRecords(w io.Writer, activities []scheduler.Activity) error {
	cw := csv.NewWriter(w)
	for _, activity := range activities {
		if err := cw.Write(activity.RecordFields()); err != nil {
			return fmt.Errorf("records: write activity: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("records: write activity: %w", err)
	}
	return nil
}

// WriteActivityRecordsFile creates or truncates path and writes activities to it.
func WriteActivityRecordsFile(path string, activities []scheduler.Activity) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("records: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("records: close %s: %w", path, cerr)
		}
	}()
	return WriteActivityRecords(f, activities)
}
