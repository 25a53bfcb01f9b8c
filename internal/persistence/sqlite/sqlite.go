package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/course-scheduler/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationDir = "migrations"

// Storage bundles the connection pool with the repositories built on it.
type Storage struct {
	Pool      *ConnectionPool
	Snapshots *SnapshotRepository
}

// Open connects to the database and applies pending migrations.
func Open(ctx context.Context, config Config, logger *slog.Logger) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, pool, logger); err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &Storage{
		Pool:      pool,
		Snapshots: NewSnapshotRepository(pool),
	}, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pool *ConnectionPool, logger *slog.Logger) error {
	manager := migration.NewManager(pool.DB(), migrationFiles, migrationDir, logger)
	if err := manager.Run(ctx); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connections.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	return s.Pool.Close()
}
