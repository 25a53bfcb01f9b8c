package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"
)

// Manager orchestrates scanning, verification and execution of migrations.
type Manager struct {
	fsys     fs.FS
	dir      string
	executor *SQLiteExecutor
	logger   *slog.Logger
}

// NewManager creates a manager that reads migrations from dir inside fsys.
func NewManager(db *sql.DB, fsys fs.FS, dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		fsys:     fsys,
		dir:      dir,
		executor: NewSQLiteExecutor(db),
		logger:   logger.With("component", "migration"),
	}
}

// Run executes all pending migrations in version order. Applied migrations
// whose file content changed since they ran cause ErrChecksumMismatch.
func (m *Manager) Run(ctx context.Context) error {
	started := time.Now()

	status, err := m.Status(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to determine migration status", "error", err)
		return err
	}

	m.logger.InfoContext(ctx, "migration status",
		"current_version", status.CurrentVersion,
		"applied", len(status.Applied),
		"pending", len(status.Pending),
	)
	if len(status.Pending) == 0 {
		return nil
	}

	for i, pending := range status.Pending {
		logger := m.logger.With("version", pending.Version, "description", pending.Description)
		logger.InfoContext(ctx, "applying migration", "position", i+1, "total", len(status.Pending), "checksum", pending.Checksum)

		if err := m.executor.ExecuteMigration(ctx, pending); err != nil {
			logger.ErrorContext(ctx, "migration failed", "error", err)
			return newError(pending.Version, pending.FilePath, "execute migration", fmt.Errorf("%w: %w", ErrMigrationFailed, err))
		}
	}

	m.logger.InfoContext(ctx, "migrations applied", "count", len(status.Pending), "duration", time.Since(started))
	return nil
}

// Status compares the migration files with the schema_migrations table.
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize version table: %w", err)
	}

	available, err := Scan(m.fsys, m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan migrations: %w", err)
	}

	applied, err := m.executor.AppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied versions: %w", err)
	}

	byVersion := make(map[int]Migration, len(available))
	for _, migration := range available {
		byVersion[versionNumber(migration.Version)] = migration
	}

	status := &Status{Applied: applied}
	appliedSet := make(map[int]bool, len(applied))
	for _, a := range applied {
		version := versionNumber(a.Version)
		file, ok := byVersion[version]
		if !ok {
			return nil, fmt.Errorf("%w: applied migration %s not found in migration files", ErrVersionConflict, a.Version)
		}
		if a.Checksum != "" && a.Checksum != file.Checksum {
			return nil, newError(a.Version, file.FilePath, "verify checksum", ErrChecksumMismatch)
		}
		appliedSet[version] = true
		status.CurrentVersion = a.Version
	}

	for _, migration := range available {
		if !appliedSet[versionNumber(migration.Version)] {
			status.Pending = append(status.Pending, migration)
		}
	}
	return status, nil
}
