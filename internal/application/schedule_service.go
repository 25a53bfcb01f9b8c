package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/course-scheduler/internal/scheduler"
)

// DefaultScheduleTitle is the title of a freshly created schedule.
const DefaultScheduleTitle = "My Schedule"

// CatalogSource yields the course records the catalog is built from.
type CatalogSource func(ctx context.Context) ([]scheduler.CourseFields, error)

// Scheduler owns the read-only course catalog and the user's schedule.
//
// A Scheduler serves one actor at a time and performs no locking; callers that
// share one across goroutines must serialize access.
type Scheduler struct {
	catalog  []*scheduler.Course
	schedule []scheduler.Activity
	title    string
	logger   *slog.Logger
}

// NewScheduler loads the catalog from source. Any source failure is reported as
// ErrCatalogUnavailable and no scheduler is returned. Records that fail
// validation or repeat a (name, section) pair are skipped.
func NewScheduler(ctx context.Context, source CatalogSource, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{title: DefaultScheduleTitle, logger: defaultLogger(logger)}
	logger = s.loggerWith(ctx, "NewScheduler")

	if source == nil {
		return nil, fmt.Errorf("%w: no catalog source configured", ErrCatalogUnavailable)
	}
	records, err := source(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load catalog", "error", err, "error_kind", ErrorKind(ErrCatalogUnavailable))
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	for _, fields := range records {
		course, err := scheduler.NewCourse(fields)
		if err != nil {
			logger.WarnContext(ctx, "skipping catalog record", "name", fields.Name, "section", fields.Section, "error", err)
			continue
		}
		if _, exists := s.CourseFromCatalog(course.Name(), course.Section()); exists {
			logger.WarnContext(ctx, "skipping duplicate catalog record", "name", fields.Name, "section", fields.Section)
			continue
		}
		s.catalog = append(s.catalog, course)
	}

	logger.InfoContext(ctx, "catalog loaded", "courses", len(s.catalog))
	return s, nil
}

func (s *Scheduler) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "Scheduler", operation, attrs...)
}

// CourseFromCatalog finds a catalog course by name and section.
func (s *Scheduler) CourseFromCatalog(name, section string) (*scheduler.Course, bool) {
	for _, course := range s.catalog {
		if course.Name() == name && course.Section() == section {
			return course, true
		}
	}
	return nil, false
}

// AddCourseToSchedule adds a catalog course. It reports false with a nil error
// when the course is not in the catalog.
func (s *Scheduler) AddCourseToSchedule(ctx context.Context, name, section string) (added bool, err error) {
	logger := s.loggerWith(ctx, "AddCourseToSchedule", "name", name, "section", section)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "course rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		if added {
			logger.InfoContext(ctx, "course added", "scheduled", len(s.schedule))
		}
	}()

	course, ok := s.CourseFromCatalog(name, section)
	if !ok {
		return false, nil
	}

	next, err := admit(s.schedule, course)
	if err != nil {
		return false, err
	}
	s.schedule = next
	return true, nil
}

// AddEventToSchedule builds an event and adds it to the schedule. Field
// failures are reported as a *ValidationError.
func (s *Scheduler) AddEventToSchedule(ctx context.Context, title, days string, start, end int, details string) (err error) {
	logger := s.loggerWith(ctx, "AddEventToSchedule", "title", title)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "event rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event added", "scheduled", len(s.schedule))
	}()

	event, err := scheduler.NewEvent(title, days, start, end, details)
	if err != nil {
		return asValidationError(err)
	}

	next, err := admit(s.schedule, event)
	if err != nil {
		return err
	}
	s.schedule = next
	return nil
}

// admit checks candidate against every scheduled activity and returns the
// extended schedule. The input slice is never modified.
func admit(schedule []scheduler.Activity, candidate scheduler.Activity) ([]scheduler.Activity, error) {
	for _, existing := range schedule {
		if existing.IsDuplicate(candidate) {
			return nil, duplicateError(candidate)
		}
		if scheduler.Conflicts(existing, candidate) || scheduler.Conflicts(candidate, existing) {
			return nil, conflictError(candidate)
		}
	}

	next := make([]scheduler.Activity, len(schedule), len(schedule)+1)
	copy(next, schedule)
	return append(next, candidate), nil
}

func duplicateError(a scheduler.Activity) error {
	if course, ok := a.(*scheduler.Course); ok {
		return &ScheduleError{Kind: ErrAlreadyEnrolled, Message: "You are already enrolled in " + course.Name()}
	}
	return &ScheduleError{Kind: ErrDuplicateEvent, Message: "You have already created an event called " + a.Title()}
}

func conflictError(a scheduler.Activity) error {
	return &ScheduleError{
		Kind:    ErrScheduleConflict,
		Message: fmt.Sprintf("The %s cannot be added due to a conflict.", a.Kind()),
	}
}

// RemoveActivityFromSchedule removes the activity at index and reports whether
// anything was removed. Later activities shift down by one.
func (s *Scheduler) RemoveActivityFromSchedule(index int) bool {
	if index < 0 || index >= len(s.schedule) {
		return false
	}
	next := make([]scheduler.Activity, 0, len(s.schedule)-1)
	next = append(next, s.schedule[:index]...)
	s.schedule = append(next, s.schedule[index+1:]...)
	return true
}

// ResetSchedule empties the schedule. The catalog and title are untouched.
func (s *Scheduler) ResetSchedule() {
	s.schedule = nil
}

// ScheduleTitle returns the current schedule title.
func (s *Scheduler) ScheduleTitle() string {
	return s.title
}

// SetScheduleTitle replaces the title. An empty title is allowed.
func (s *Scheduler) SetScheduleTitle(title string) error {
	s.title = title
	return nil
}

// ReplaceSchedule swaps in a new title and activity list. Every activity goes
// through the same duplicate and conflict checks as an add; on failure the
// current schedule is kept.
func (s *Scheduler) ReplaceSchedule(ctx context.Context, title string, activities []scheduler.Activity) (err error) {
	logger := s.loggerWith(ctx, "ReplaceSchedule", "activities", len(activities))
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "schedule replacement rejected", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule replaced")
	}()

	var next []scheduler.Activity
	for _, activity := range activities {
		if activity == nil {
			continue
		}
		next, err = admit(next, activity)
		if err != nil {
			return err
		}
	}
	s.title = title
	s.schedule = next
	return nil
}

// Activities returns the scheduled activities in order.
func (s *Scheduler) Activities() []scheduler.Activity {
	out := make([]scheduler.Activity, len(s.schedule))
	copy(out, s.schedule)
	return out
}

// ScheduledActivities returns a name, section and title row per activity.
func (s *Scheduler) ScheduledActivities() [][]string {
	rows := make([][]string, 0, len(s.schedule))
	for _, activity := range s.schedule {
		short := activity.ShortDisplay()
		rows = append(rows, short[:3:3])
	}
	return rows
}

// FullScheduledActivities returns the seven field display row per activity.
func (s *Scheduler) FullScheduledActivities() [][]string {
	rows := make([][]string, 0, len(s.schedule))
	for _, activity := range s.schedule {
		rows = append(rows, activity.LongDisplay())
	}
	return rows
}

// CourseCatalog returns a name, section, title and meeting row per course.
func (s *Scheduler) CourseCatalog() [][]string {
	rows := make([][]string, 0, len(s.catalog))
	for _, course := range s.catalog {
		rows = append(rows, course.ShortDisplay())
	}
	return rows
}
