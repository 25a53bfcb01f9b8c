// Package records reads course catalogs from, and writes schedules to, the
// comma separated record format.
//
// Course:  name,title,section,credits,instructorId,meetingDays[,startTime,endTime]
// Event:   title,meetingDays,startTime,endTime,eventDetails
//
// The time pair of a course is present only when it has fixed meeting times.
package records

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	// ErrMalformedRecord is returned for lines with the wrong shape.
	ErrMalformedRecord = errors.New("records: malformed record")
	// ErrDuplicateRecord is returned for a repeated (name, section) pair.
	ErrDuplicateRecord = errors.New("records: duplicate course record")
)

const (
	arrangedFields = 6
	timedFields    = 8
)

// LineError describes a skipped catalog line.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface.
func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e LineError) Unwrap() error {
	return e.Err
}

// ReadCourseRecords parses one course per line. Lines that fail to parse or
// validate, and lines repeating an earlier (name, section) pair, are skipped
// and reported. The returned error is non-nil only when r itself fails.
//
// A UTF-8 or UTF-16 byte order mark is honoured, and text fields are
// normalised to NFC.
func ReadCourseRecords(r io.Reader) ([]scheduler.CourseFields, []LineError, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		courses []scheduler.CourseFields
		skipped []LineError
		seen    = make(map[string]bool)
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = append(skipped, LineError{Line: parseErr.StartLine, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, parseErr.Err)})
				continue
			}
			return nil, nil, fmt.Errorf("records: read catalog: %w", err)
		}
		line, _ := cr.FieldPos(0)

		fields, err := parseCourse(record)
		if err != nil {
			skipped = append(skipped, LineError{Line: line, Err: err})
			continue
		}
		if _, err := scheduler.NewCourse(fields); err != nil {
			skipped = append(skipped, LineError{Line: line, Err: err})
			continue
		}

		key := fields.Name + "\x00" + fields.Section
		if seen[key] {
			skipped = append(skipped, LineError{Line: line, Err: fmt.Errorf("%w: %s %s", ErrDuplicateRecord, fields.Name, fields.Section)})
			continue
		}
		seen[key] = true
		courses = append(courses, fields)
	}
	return courses, skipped, nil
}

func parseCourse(record []string) (scheduler.CourseFields, error) {
	for i := range record {
		record[i] = norm.NFC.String(strings.TrimSpace(record[i]))
	}
	if len(record) != arrangedFields && len(record) != timedFields {
		return scheduler.CourseFields{}, fmt.Errorf("%w: expected %d or %d fields, got %d", ErrMalformedRecord, arrangedFields, timedFields, len(record))
	}

	credits, err := strconv.Atoi(record[3])
	if err != nil {
		return scheduler.CourseFields{}, fmt.Errorf("%w: credits %q is not a number", ErrMalformedRecord, record[3])
	}
	fields := scheduler.CourseFields{
		Name:         record[0],
		Title:        record[1],
		Section:      record[2],
		Credits:      credits,
		InstructorID: record[4],
		MeetingDays:  record[5],
	}

	arranged := fields.MeetingDays == scheduler.Arranged || fields.MeetingDays == scheduler.ArrangedLabel
	switch {
	case arranged && len(record) == timedFields:
		return scheduler.CourseFields{}, fmt.Errorf("%w: arranged course carries meeting times", ErrMalformedRecord)
	case !arranged && len(record) == arrangedFields:
		return scheduler.CourseFields{}, fmt.Errorf("%w: meeting times are missing", ErrMalformedRecord)
	case arranged:
		return fields, nil
	}

	if fields.StartTime, err = strconv.Atoi(record[6]); err != nil {
		return scheduler.CourseFields{}, fmt.Errorf("%w: start time %q is not a number", ErrMalformedRecord, record[6])
	}
	if fields.EndTime, err = strconv.Atoi(record[7]); err != nil {
		return scheduler.CourseFields{}, fmt.Errorf("%w: end time %q is not a number", ErrMalformedRecord, record[7])
	}
	return fields, nil
}

// ReadCourseRecordsFile reads a catalog file.
func ReadCourseRecordsFile(path string) ([]scheduler.CourseFields, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("records: open catalog: %w", err)
	}
	defer f.Close()
	return ReadCourseRecords(f)
}

// FileCatalog returns a catalog source reading path on every call. Skipped
// lines are logged at warn level.
func FileCatalog(path string, logger *slog.Logger) application.CatalogSource {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context) ([]scheduler.CourseFields, error) {
		courses, skipped, err := ReadCourseRecordsFile(path)
		if err != nil {
			return nil, err
		}
		for _, lineErr := range skipped {
			logger.WarnContext(ctx, "skipping catalog line", "path", path, "line", lineErr.Line, "error", lineErr.Err)
		}
		return courses, nil
	}
}
