package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/persistence"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SnapshotRepository implements persistence.SnapshotRepository using SQLite
type SnapshotRepository struct {
	pool *ConnectionPool
}

// NewSnapshotRepository creates a new SQLite snapshot repository
func NewSnapshotRepository(pool *ConnectionPool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// CreateSnapshot inserts a snapshot and its activities in one transaction.
func (r *SnapshotRepository) CreateSnapshot(ctx context.Context, snapshot persistence.Snapshot) error {
	if strings.TrimSpace(snapshot.ID) == "" {
		return fmt.Errorf("%w: snapshot id is required", persistence.ErrConstraintViolation)
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (id, title, created_at) VALUES (?, ?, ?)`,
			snapshot.ID, snapshot.Title, snapshot.CreatedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return mapError(err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snapshot_activities (
				snapshot_id, position, kind, name, section, title, credits,
				instructor, meeting_days, start_time, end_time, details
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return mapError(err)
		}
		defer stmt.Close()

		for _, a := range snapshot.Activities {
			_, err := stmt.ExecContext(ctx,
				snapshot.ID, a.Position, string(a.Kind), a.Name, a.Section, a.Title, a.Credits,
				a.Instructor, a.MeetingDays, a.StartTime, a.EndTime, a.Details,
			)
			if err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

// GetSnapshot loads a snapshot with its activities in position order.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, id string) (persistence.Snapshot, error) {
	var (
		snapshot  persistence.Snapshot
		createdAt string
	)
	err := r.pool.DB().QueryRowContext(ctx,
		`SELECT id, title, created_at FROM snapshots WHERE id = ?`, id,
	).Scan(&snapshot.ID, &snapshot.Title, &createdAt)
	if err != nil {
		return persistence.Snapshot{}, mapError(err)
	}
	if snapshot.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return persistence.Snapshot{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}

	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT position, kind, name, section, title, credits, instructor,
		       meeting_days, start_time, end_time, details
		FROM snapshot_activities
		WHERE snapshot_id = ?
		ORDER BY position ASC`, id)
	if err != nil {
		return persistence.Snapshot{}, mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a    persistence.SnapshotActivity
			kind string
		)
		if err := rows.Scan(&a.Position, &kind, &a.Name, &a.Section, &a.Title, &a.Credits,
			&a.Instructor, &a.MeetingDays, &a.StartTime, &a.EndTime, &a.Details); err != nil {
			return persistence.Snapshot{}, mapError(err)
		}
		a.Kind = persistence.ActivityKind(kind)
		snapshot.Activities = append(snapshot.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return persistence.Snapshot{}, mapError(err)
	}

	return snapshot, nil
}

// ListSnapshots returns summaries ordered from newest to oldest.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context) ([]persistence.SnapshotSummary, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT s.id, s.title, s.created_at, COUNT(a.position)
		FROM snapshots s
		LEFT JOIN snapshot_activities a ON a.snapshot_id = s.id
		GROUP BY s.id, s.title, s.created_at
		ORDER BY s.created_at DESC, s.id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	summaries := make([]persistence.SnapshotSummary, 0)
	for rows.Next() {
		var (
			summary   persistence.SnapshotSummary
			createdAt string
		)
		if err := rows.Scan(&summary.ID, &summary.Title, &createdAt, &summary.ActivityCount); err != nil {
			return nil, mapError(err)
		}
		if summary.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return summaries, nil
}

// DeleteSnapshot removes a snapshot and its activities.
func (r *SnapshotRepository) DeleteSnapshot(ctx context.Context, id string) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_activities WHERE snapshot_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return mapError(err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}
