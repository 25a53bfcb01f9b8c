package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
	"github.com/example/course-scheduler/internal/scheduler"
)

type snapshotRepoStub struct {
	saved     map[string]persistence.Snapshot
	createErr error
	list      []persistence.SnapshotSummary
	deleted   []string
}

func newSnapshotRepoStub() *snapshotRepoStub {
	return &snapshotRepoStub{saved: make(map[string]persistence.Snapshot)}
}

func (s *snapshotRepoStub) CreateSnapshot(ctx context.Context, snapshot persistence.Snapshot) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.saved[snapshot.ID] = snapshot
	return nil
}

func (s *snapshotRepoStub) GetSnapshot(ctx context.Context, id string) (persistence.Snapshot, error) {
	snapshot, ok := s.saved[id]
	if !ok {
		return persistence.Snapshot{}, persistence.ErrNotFound
	}
	return snapshot, nil
}

func (s *snapshotRepoStub) ListSnapshots(ctx context.Context) ([]persistence.SnapshotSummary, error) {
	return s.list, nil
}

func (s *snapshotRepoStub) DeleteSnapshot(ctx context.Context, id string) error {
	if _, ok := s.saved[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.saved, id)
	s.deleted = append(s.deleted, id)
	return nil
}

var snapshotTime = time.Date(2026, time.August, 17, 9, 0, 0, 0, time.UTC)

func newTestSnapshotService(repo SnapshotRepository) *SnapshotService {
	return NewSnapshotService(repo, func() string { return "snap-1" }, func() time.Time { return snapshotTime }, discardLogger())
}

func TestSnapshotService_SaveSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSnapshotRepoStub()
	svc := newTestSnapshotService(repo)
	s := newTestScheduler(t)

	if _, err := s.AddCourseToSchedule(ctx, "CSC216", "002"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}
	if err := s.AddEventToSchedule(ctx, "Exercise", "SU", 800, 930, "Gym"); err != nil {
		t.Fatalf("AddEventToSchedule returned error: %v", err)
	}
	if err := s.SetScheduleTitle("Fall 2026"); err != nil {
		t.Fatalf("SetScheduleTitle returned error: %v", err)
	}

	snapshot, err := svc.SaveSnapshot(ctx, s)
	if err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}
	if snapshot.ID != "snap-1" || snapshot.Title != "Fall 2026" || !snapshot.CreatedAt.Equal(snapshotTime) {
		t.Fatalf("unexpected snapshot header %+v", snapshot)
	}

	want := []persistence.SnapshotActivity{
		{Position: 0, Kind: persistence.ActivityKindCourse, Name: "CSC216", Section: "002", Title: "Software Development Fundamentals", Credits: 3, Instructor: "jctetter", MeetingDays: "TH", StartTime: 1330, EndTime: 1445},
		{Position: 1, Kind: persistence.ActivityKindEvent, Title: "Exercise", MeetingDays: "SU", StartTime: 800, EndTime: 930, Details: "Gym"},
	}
	stored := repo.saved["snap-1"].Activities
	if len(stored) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(stored))
	}
	for i := range want {
		if stored[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], stored[i])
		}
	}
}

func TestSnapshotService_SaveSnapshotRepositoryError(t *testing.T) {
	t.Parallel()

	repo := newSnapshotRepoStub()
	repo.createErr = persistence.ErrDuplicate
	svc := newTestSnapshotService(repo)

	if _, err := svc.SaveSnapshot(context.Background(), newTestScheduler(t)); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestSnapshotService_RestoreSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSnapshotRepoStub()
	svc := newTestSnapshotService(repo)

	source := newTestScheduler(t)
	if _, err := source.AddCourseToSchedule(ctx, "CSC116", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}
	if err := source.AddEventToSchedule(ctx, "Work", "S", 900, 1700, "Shift"); err != nil {
		t.Fatalf("AddEventToSchedule returned error: %v", err)
	}
	if err := source.SetScheduleTitle("Saved"); err != nil {
		t.Fatalf("SetScheduleTitle returned error: %v", err)
	}
	if _, err := svc.SaveSnapshot(ctx, source); err != nil {
		t.Fatalf("SaveSnapshot returned error: %v", err)
	}

	target := newTestScheduler(t)
	if _, err := target.AddCourseToSchedule(ctx, "CSC226", "001"); err != nil {
		t.Fatalf("AddCourseToSchedule returned error: %v", err)
	}

	if err := svc.RestoreSnapshot(ctx, "snap-1", target); err != nil {
		t.Fatalf("RestoreSnapshot returned error: %v", err)
	}
	if got := target.ScheduleTitle(); got != "Saved" {
		t.Fatalf("expected restored title, got %q", got)
	}
	rows := target.FullScheduledActivities()
	if len(rows) != 2 || rows[0][0] != "CSC116" || rows[1][2] != "Work" || rows[1][6] != "Shift" {
		t.Fatalf("unexpected restored schedule %v", rows)
	}

	restored, _ := target.Activities()[0].(*scheduler.Course)
	catalogCourse, _ := target.CourseFromCatalog("CSC116", "001")
	if restored != catalogCourse {
		t.Fatalf("expected restored course to be the catalog instance")
	}
}

func TestSnapshotService_RestoreSnapshotFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSnapshotRepoStub()
	svc := newTestSnapshotService(repo)

	repo.saved["gone"] = persistence.Snapshot{
		ID:    "gone",
		Title: "Old catalog",
		Activities: []persistence.SnapshotActivity{
			{Position: 0, Kind: persistence.ActivityKindCourse, Name: "CSC999", Section: "001"},
		},
	}
	repo.saved["clash"] = persistence.Snapshot{
		ID:    "clash",
		Title: "Tampered",
		Activities: []persistence.SnapshotActivity{
			{Position: 0, Kind: persistence.ActivityKindCourse, Name: "CSC116", Section: "001"},
			{Position: 1, Kind: persistence.ActivityKindEvent, Title: "Overlap", MeetingDays: "M", StartTime: 1000, EndTime: 1030},
		},
	}
	repo.saved["invalid"] = persistence.Snapshot{
		ID:    "invalid",
		Title: "Broken",
		Activities: []persistence.SnapshotActivity{
			{Position: 0, Kind: persistence.ActivityKindEvent, Title: "", MeetingDays: "M", StartTime: 1000, EndTime: 1030},
		},
	}

	tests := []struct {
		id   string
		want error
	}{
		{id: "missing", want: ErrNotFound},
		{id: "gone", want: ErrNotFound},
		{id: "clash", want: ErrScheduleConflict},
		{id: "invalid", want: scheduler.ErrInvalidArgument},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			target := newTestScheduler(t)
			if _, err := target.AddCourseToSchedule(ctx, "CSC216", "001"); err != nil {
				t.Fatalf("AddCourseToSchedule returned error: %v", err)
			}

			err := svc.RestoreSnapshot(ctx, tt.id, target)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if rows := target.ScheduledActivities(); len(rows) != 1 || rows[0][0] != "CSC216" {
				t.Fatalf("expected schedule to be unchanged, got %v", rows)
			}
			if got := target.ScheduleTitle(); got != DefaultScheduleTitle {
				t.Fatalf("expected title to be unchanged, got %q", got)
			}
		})
	}
}

func TestSnapshotService_DeleteSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newSnapshotRepoStub()
	repo.saved["snap-1"] = persistence.Snapshot{ID: "snap-1"}
	svc := newTestSnapshotService(repo)

	if err := svc.DeleteSnapshot(ctx, "snap-1"); err != nil {
		t.Fatalf("DeleteSnapshot returned error: %v", err)
	}
	if err := svc.DeleteSnapshot(ctx, "snap-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteSnapshot(ctx, " "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected one repository delete, got %v", repo.deleted)
	}
}

func TestSnapshotService_ListSnapshots(t *testing.T) {
	t.Parallel()

	repo := newSnapshotRepoStub()
	repo.list = []persistence.SnapshotSummary{{ID: "b", ActivityCount: 2}, {ID: "a"}}
	svc := newTestSnapshotService(repo)

	got, err := svc.ListSnapshots(context.Background())
	if err != nil {
		t.Fatalf("ListSnapshots returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" {
		t.Fatalf("expected repository order, got %+v", got)
	}
}

func TestSnapshotActivities(t *testing.T) {
	t.Parallel()

	snapshot := persistence.Snapshot{
		ID: "snap-1",
		Activities: []persistence.SnapshotActivity{
			{Position: 0, Kind: persistence.ActivityKindCourse, Name: "CSC216", Section: "601", Title: "Software Development Fundamentals", Credits: 3, Instructor: "jctetter", MeetingDays: "A"},
			{Position: 1, Kind: persistence.ActivityKindEvent, Title: "Exercise", MeetingDays: "U", StartTime: 800, EndTime: 900},
		},
	}

	activities, err := SnapshotActivities(snapshot)
	if err != nil {
		t.Fatalf("SnapshotActivities returned error: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if got := activities[0].String(); got != "CSC216,Software Development Fundamentals,601,3,jctetter,A" {
		t.Fatalf("unexpected course record %q", got)
	}
	if activities[1].Kind() != scheduler.KindEvent {
		t.Fatalf("expected event, got %v", activities[1].Kind())
	}

	snapshot.Activities[1].Kind = "meeting"
	if _, err := SnapshotActivities(snapshot); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
