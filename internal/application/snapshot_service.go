package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

// SnapshotRepository captures the persistence operations needed by the service.
type SnapshotRepository interface {
	CreateSnapshot(ctx context.Context, snapshot persistence.Snapshot) error
	GetSnapshot(ctx context.Context, id string) (persistence.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]persistence.SnapshotSummary, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// SnapshotService saves schedules and restores them later.
type SnapshotService struct {
	snapshots   SnapshotRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSnapshotService constructs a snapshot service with the provided dependencies.
func NewSnapshotService(snapshots SnapshotRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SnapshotService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SnapshotService{snapshots: snapshots, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

func (s *SnapshotService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SnapshotService", operation, attrs...)
}

// SaveSnapshot stores the current title and activities of sched.
func (s *SnapshotService) SaveSnapshot(ctx context.Context, sched *Scheduler) (snapshot persistence.Snapshot, err error) {
	if s == nil || s.snapshots == nil {
		return persistence.Snapshot{}, fmt.Errorf("snapshot repository not configured")
	}

	logger := s.loggerWith(ctx, "SaveSnapshot")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to save snapshot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("snapshot_id", snapshot.ID).InfoContext(ctx, "snapshot saved", "activities", len(snapshot.Activities))
	}()

	snapshot = persistence.Snapshot{
		ID:         s.idGenerator(),
		Title:      sched.ScheduleTitle(),
		CreatedAt:  s.now(),
		Activities: toSnapshotActivities(sched.Activities()),
	}
	if err = s.snapshots.CreateSnapshot(ctx, snapshot); err != nil {
		return persistence.Snapshot{}, mapSnapshotRepoError(err)
	}
	return snapshot, nil
}

// ListSnapshots returns saved snapshots, newest first.
func (s *SnapshotService) ListSnapshots(ctx context.Context) ([]persistence.SnapshotSummary, error) {
	if s == nil || s.snapshots == nil {
		return nil, fmt.Errorf("snapshot repository not configured")
	}
	summaries, err := s.snapshots.ListSnapshots(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListSnapshots").ErrorContext(ctx, "failed to list snapshots", "error", err, "error_kind", ErrorKind(err))
		return nil, mapSnapshotRepoError(err)
	}
	return summaries, nil
}

// GetSnapshot loads a single snapshot.
func (s *SnapshotService) GetSnapshot(ctx context.Context, id string) (persistence.Snapshot, error) {
	if s == nil || s.snapshots == nil {
		return persistence.Snapshot{}, fmt.Errorf("snapshot repository not configured")
	}
	snapshot, err := s.snapshots.GetSnapshot(ctx, id)
	if err != nil {
		return persistence.Snapshot{}, mapSnapshotRepoError(err)
	}
	return snapshot, nil
}

// RestoreSnapshot replaces the schedule of sched with a saved snapshot.
// Courses are looked up in the current catalog; when any course is gone or
// the activities no longer fit together the schedule is left unchanged.
func (s *SnapshotService) RestoreSnapshot(ctx context.Context, id string, sched *Scheduler) (err error) {
	logger := s.loggerWith(ctx, "RestoreSnapshot", "snapshot_id", id)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "snapshot not restored", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "snapshot restored")
	}()

	snapshot, err := s.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}

	activities := make([]scheduler.Activity, 0, len(snapshot.Activities))
	vErr := &ValidationError{}
	for _, row := range snapshot.Activities {
		switch row.Kind {
		case persistence.ActivityKindCourse:
			course, ok := sched.CourseFromCatalog(row.Name, row.Section)
			if !ok {
				return fmt.Errorf("%w: course %s section %s is no longer in the catalog", ErrNotFound, row.Name, row.Section)
			}
			activities = append(activities, course)
		case persistence.ActivityKindEvent:
			event, err := scheduler.NewEvent(row.Title, row.MeetingDays, row.StartTime, row.EndTime, row.Details)
			if err != nil {
				if inner, ok := asValidationError(err).(*ValidationError); ok {
					vErr.merge(inner)
					continue
				}
				return err
			}
			activities = append(activities, event)
		default:
			return fmt.Errorf("snapshot %s: unknown activity kind %q at position %d", id, row.Kind, row.Position)
		}
	}
	if vErr.HasErrors() {
		return vErr
	}

	return sched.ReplaceSchedule(ctx, snapshot.Title, activities)
}

// DeleteSnapshot removes a saved snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) (err error) {
	if s == nil || s.snapshots == nil {
		return fmt.Errorf("snapshot repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSnapshot", "snapshot_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete snapshot", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "snapshot deleted")
	}()

	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	return mapSnapshotRepoError(s.snapshots.DeleteSnapshot(ctx, id))
}

// SnapshotActivities rebuilds the activities stored in a snapshot without
// consulting a catalog, for example to export an old schedule.
func SnapshotActivities(snapshot persistence.Snapshot) ([]scheduler.Activity, error) {
	activities := make([]scheduler.Activity, 0, len(snapshot.Activities))
	for _, row := range snapshot.Activities {
		var (
			activity scheduler.Activity
			err      error
		)
		switch row.Kind {
		case persistence.ActivityKindCourse:
			activity, err = scheduler.NewCourse(scheduler.CourseFields{
				Name:         row.Name,
				Title:        row.Title,
				Section:      row.Section,
				Credits:      row.Credits,
				InstructorID: row.Instructor,
				MeetingDays:  row.MeetingDays,
				StartTime:    row.StartTime,
				EndTime:      row.EndTime,
			})
		case persistence.ActivityKindEvent:
			activity, err = scheduler.NewEvent(row.Title, row.MeetingDays, row.StartTime, row.EndTime, row.Details)
		default:
			err = fmt.Errorf("unknown activity kind %q", row.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("snapshot %s position %d: %w", snapshot.ID, row.Position, err)
		}
		activities = append(activities, activity)
	}
	return activities, nil
}

func toSnapshotActivities(activities []scheduler.Activity) []persistence.SnapshotActivity {
	rows := make([]persistence.SnapshotActivity, 0, len(activities))
	for i, activity := range activities {
		meeting := activity.Meeting()
		row := persistence.SnapshotActivity{
			Position:    i,
			Title:       activity.Title(),
			MeetingDays: meeting.Days(),
			StartTime:   meeting.Start(),
			EndTime:     meeting.End(),
		}
		switch a := activity.(type) {
		case *scheduler.Course:
			row.Kind = persistence.ActivityKindCourse
			row.Name = a.Name()
			row.Section = a.Section()
			row.Credits = a.Credits()
			row.Instructor = a.InstructorID()
		case *scheduler.Event:
			row.Kind = persistence.ActivityKindEvent
			row.Details = a.Details()
		}
		rows = append(rows, row)
	}
	return rows
}

func mapSnapshotRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
