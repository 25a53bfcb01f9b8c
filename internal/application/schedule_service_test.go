package application

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/example/course-scheduler/internal/scheduler"
)

func testCatalog() []scheduler.CourseFields {
	return []scheduler.CourseFields{
		{Name: "CSC116", Title: "Intro to Programming - Java", Section: "001", Credits: 3, InstructorID: "jdyoung2", MeetingDays: "MW", StartTime: 910, EndTime: 1100},
		{Name: "CSC216", Title: "Software Development Fundamentals", Section: "001", Credits: 3, InstructorID: "sesmith5", MeetingDays: "MW", StartTime: 1330, EndTime: 1445},
		{Name: "CSC216", Title: "Software Development Fundamentals", Section: "002", Credits: 3, InstructorID: "jctetter", MeetingDays: "TH", StartTime: 1330, EndTime: 1445},
		{Name: "CSC216", Title: "Software Development Fundamentals", Section: "601", Credits: 3, InstructorID: "jctetter", MeetingDays: "A"},
		{Name: "CSC226", Title: "Discrete Mathematics", Section: "001", Credits: 3, InstructorID: "sesmith5", MeetingDays: "MWF", StartTime: 935, EndTime: 1025},
	}
}

func staticSource(records []scheduler.CourseFields) CatalogSource {
	return func(context.Context) ([]scheduler.CourseFields, error) {
		return records, nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler(context.Background(), staticSource(testCatalog()), discardLogger())
	if err != nil {
		t.Fatalf("NewScheduler returned error: %v", err)
	}
	return s
}

func TestNewScheduler_LoadsCatalog(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t)

	if got := s.ScheduleTitle(); got != DefaultScheduleTitle {
		t.Fatalf("expected title %q, got %q", DefaultScheduleTitle, got)
	}
	if got := len(s.Activities()); got != 0 {
		t.Fatalf("expected empty schedule, got %d activities", got)
	}

	catalog := s.CourseCatalog()
	if len(catalog) != 5 {
		t.Fatalf("expected 5 catalog rows, got %d", len(catalog))
	}
	want := []string{"CSC216", "001", "Software Development Fundamentals", "MW 1:30PM-2:45PM"}
	if !reflect.DeepEqual(catalog[1], want) {
		t.Fatalf("expected %v, got %v", want, catalog[1])
	}
	if got := catalog[3][3]; got != "Arranged" {
		t.Fatalf("expected arranged meeting string, got %q", got)
	}
}

func TestNewScheduler_SkipsInvalidAndDuplicateRecords(t *testing.T) {
	t.Parallel()

	records := testCatalog()
	records = append(records,
		scheduler.CourseFields{Name: "CSC", Title: "Bad name", Section: "001", Credits: 3, InstructorID: "x", MeetingDays: "M", StartTime: 800, EndTime: 850},
		records[1],
	)

	s, err := NewScheduler(context.Background(), staticSource(records), discardLogger())
	if err != nil {
		t.Fatalf("NewScheduler returned error: %v", err)
	}
	if got := len(s.CourseCatalog()); got != 5 {
		t.Fatalf("expected invalid and duplicate records to be skipped, got %d courses", got)
	}
}

func TestNewScheduler_CatalogUnavailable(t *testing.T) {
	t.Parallel()

	cause := errors.New("open courses.txt: no such file or directory")
	failing := func(context.Context) ([]scheduler.CourseFields, error) { return nil, cause }

	s, err := NewScheduler(context.Background(), failing, discardLogger())
	if s != nil {
		t.Fatalf("expected no scheduler on failure")
	}
	if !errors.Is(err, ErrCatalogUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("expected ErrCatalogUnavailable wrapping cause, got %v", err)
	}

	if _, err := NewScheduler(context.Background(), nil, discardLogger()); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable for nil source, got %v", err)
	}
}

func TestScheduler_CourseFromCatalog(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(t)

	course, ok := s.CourseFromCatalog("CSC216", "002")
	if !ok || course.InstructorID() != "jctetter" {
		t.Fatalf("expected CSC216-002, got %v (found=%v)", course, ok)
	}
	if _, ok := s.CourseFromCatalog("CSC216", "999"); ok {
		t.Fatalf("expected unknown section to be absent")
	}
	if _, ok := s.CourseFromCatalog("CSC999", "001"); ok {
		t.Fatalf("expected unknown course to be absent")
	}
}

func TestScheduler_AddCourseToSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	added, err := s.AddCourseToSchedule(ctx, "CSC999", "001")
	if added || err != nil {
		t.Fatalf("expected (false, nil) for unknown course, got (%v, %v)", added, err)
	}

	added, err = s.AddCourseToSchedule(ctx, "CSC216", "001")
	if !added || err != nil {
		t.Fatalf("expected course to be added, got (%v, %v)", added, err)
	}

	added, err = s.AddCourseToSchedule(ctx, "CSC216", "002")
	if added || !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled for another section, got (%v, %v)", added, err)
	}
	if err.Error() != "You are already enrolled in CSC216" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if got := len(s.Activities()); got != 1 {
		t.Fatalf("expected schedule to keep 1 activity, got %d", got)
	}
}

func TestScheduler_AddCourseConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC116", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}

	added, err := s.AddCourseToSchedule(ctx, "CSC226", "001")
	if added || !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("expected ErrScheduleConflict, got (%v, %v)", added, err)
	}
	if err.Error() != "The course cannot be added due to a conflict." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// Arranged sections never conflict.
	if added, err := s.AddCourseToSchedule(ctx, "CSC216", "601"); !added || err != nil {
		t.Fatalf("expected arranged course to be added, got (%v, %v)", added, err)
	}
}

func TestScheduler_AddEventToSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC216", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}

	err := s.AddEventToSchedule(ctx, "Study Group", "MW", 1330, 1430, "")
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("expected ErrScheduleConflict, got %v", err)
	}
	if err.Error() != "The event cannot be added due to a conflict." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if err := s.AddEventToSchedule(ctx, "Study Group", "SU", 1330, 1430, "Library"); err != nil {
		t.Fatalf("expected weekend event to be added, got %v", err)
	}

	err = s.AddEventToSchedule(ctx, "Study Group", "F", 800, 900, "")
	if !errors.Is(err, ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent, got %v", err)
	}
	if err.Error() != "You have already created an event called Study Group" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	err = s.AddEventToSchedule(ctx, "Gym", "X", 800, 900, "")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || !errors.Is(err, scheduler.ErrInvalidArgument) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := vErr.FieldErrors["meeting_days"]; !ok {
		t.Fatalf("expected meeting_days field error, got %v", vErr.FieldErrors)
	}

	if got := len(s.Activities()); got != 2 {
		t.Fatalf("expected 2 activities, got %d", got)
	}
}

func TestScheduler_DuplicateCheckedBeforeConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if err := s.AddEventToSchedule(ctx, "Work", "MW", 900, 1000, ""); err != nil {
		t.Fatalf("AddEventToSchedule returned error: %v", err)
	}
	if err := s.AddEventToSchedule(ctx, "Work", "MW", 900, 1000, ""); !errors.Is(err, ErrDuplicateEvent) {
		t.Fatalf("expected ErrDuplicateEvent ahead of conflict, got %v", err)
	}
}

func TestScheduler_RemoveActivityFromSchedule(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC116", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}
	if err := s.AddEventToSchedule(ctx, "Lunch", "MTWHF", 1200, 1259, ""); err != nil {
		t.Fatalf("AddEventToSchedule returned error: %v", err)
	}
	if _, err := s.AddCourseToSchedule(ctx, "CSC216", "002"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}

	for _, index := range []int{-1, 3} {
		if s.RemoveActivityFromSchedule(index) {
			t.Fatalf("expected index %d to be rejected", index)
		}
	}

	if !s.RemoveActivityFromSchedule(1) {
		t.Fatalf("expected index 1 to be removed")
	}
	rows := s.ScheduledActivities()
	want := [][]string{
		{"CSC116", "001", "Intro to Programming - Java"},
		{"CSC216", "002", "Software Development Fundamentals"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("expected %v, got %v", want, rows)
	}
}

func TestScheduler_ResetAndTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC116", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}
	if err := s.SetScheduleTitle("Fall 2026"); err != nil {
		t.Fatalf("SetScheduleTitle returned error: %v", err)
	}

	s.ResetSchedule()
	if got := len(s.Activities()); got != 0 {
		t.Fatalf("expected empty schedule after reset, got %d", got)
	}
	if got := s.ScheduleTitle(); got != "Fall 2026" {
		t.Fatalf("expected reset to keep title, got %q", got)
	}
	if got := len(s.CourseCatalog()); got != 5 {
		t.Fatalf("expected reset to keep catalog, got %d courses", got)
	}

	if err := s.SetScheduleTitle(""); err != nil {
		t.Fatalf("expected empty title to be accepted, got %v", err)
	}
}

func TestScheduler_Projections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC216", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}
	if err := s.AddEventToSchedule(ctx, "Exercise", "SU", 800, 930, "Gym"); err != nil {
		t.Fatalf("AddEventToSchedule returned error: %v", err)
	}

	short := s.ScheduledActivities()
	wantShort := [][]string{
		{"CSC216", "001", "Software Development Fundamentals"},
		{"", "", "Exercise"},
	}
	if !reflect.DeepEqual(short, wantShort) {
		t.Fatalf("expected %v, got %v", wantShort, short)
	}

	full := s.FullScheduledActivities()
	wantFull := [][]string{
		{"CSC216", "001", "Software Development Fundamentals", "3", "sesmith5", "MW 1:30PM-2:45PM", ""},
		{"", "", "Exercise", "", "", "SU 8:00AM-9:30AM", "Gym"},
	}
	if !reflect.DeepEqual(full, wantFull) {
		t.Fatalf("expected %v, got %v", wantFull, full)
	}

	// Projections are copies.
	short[0][0] = "changed"
	if got := s.ScheduledActivities()[0][0]; got != "CSC216" {
		t.Fatalf("expected projection copy, schedule now reports %q", got)
	}
}

func TestScheduler_ReplaceScheduleIsAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC116", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}

	course, _ := s.CourseFromCatalog("CSC216", "001")
	clash, err := scheduler.NewEvent("Meeting", "M", 1400, 1500, "")
	if err != nil {
		t.Fatalf("NewEvent returned error: %v", err)
	}

	err = s.ReplaceSchedule(ctx, "Spring", []scheduler.Activity{course, clash})
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("expected ErrScheduleConflict, got %v", err)
	}
	if got := s.ScheduleTitle(); got != DefaultScheduleTitle {
		t.Fatalf("expected title to be kept, got %q", got)
	}
	if rows := s.ScheduledActivities(); len(rows) != 1 || rows[0][0] != "CSC116" {
		t.Fatalf("expected previous schedule to be kept, got %v", rows)
	}

	if err := s.ReplaceSchedule(ctx, "Spring", []scheduler.Activity{course}); err != nil {
		t.Fatalf("ReplaceSchedule returned error: %v", err)
	}
	if got := s.ScheduleTitle(); got != "Spring" {
		t.Fatalf("expected new title, got %q", got)
	}
	if rows := s.ScheduledActivities(); len(rows) != 1 || rows[0][0] != "CSC216" {
		t.Fatalf("expected replaced schedule, got %v", rows)
	}
}
