package persistence

import "time"

// ActivityKind discriminates the rows of a snapshot.
type ActivityKind string

const (
	ActivityKindCourse ActivityKind = "course"
	ActivityKindEvent  ActivityKind = "event"
)

// Snapshot is a saved copy of a schedule.
type Snapshot struct {
	ID         string
	Title      string
	CreatedAt  time.Time
	Activities []SnapshotActivity
}

// SnapshotActivity is one scheduled activity inside a snapshot. Courses are
// stored by catalog key (Name, Section) and re-resolved on restore; the
// remaining fields keep enough to export a snapshot without a catalog.
type SnapshotActivity struct {
	Position    int
	Kind        ActivityKind
	Name        string
	Section     string
	Title       string
	Credits     int
	Instructor  string
	MeetingDays string
	StartTime   int
	EndTime     int
	Details     string
}

// SnapshotSummary is a snapshot without its activities.
type SnapshotSummary struct {
	ID            string
	Title         string
	CreatedAt     time.Time
	ActivityCount int
}
