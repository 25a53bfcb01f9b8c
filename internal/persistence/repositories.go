package persistence

import "context"

// SnapshotRepository stores saved schedules.
type SnapshotRepository interface {
	CreateSnapshot(ctx context.Context, snapshot Snapshot) error
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	ListSnapshots(ctx context.Context) ([]SnapshotSummary, error)
	DeleteSnapshot(ctx context.Context, id string) error
}
