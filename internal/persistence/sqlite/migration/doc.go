// Package migration applies versioned SQL files to a SQLite database.
//
// Migration files live in an fs.FS (usually an embedded directory) and follow
// the naming convention {version}_{description}.sql, for example
// "001_create_snapshots.sql". Applied versions and their checksums are kept in
// the schema_migrations table so each file runs exactly once.
//
// Example usage:
//
//	manager := migration.NewManager(db, migrationFiles, "migrations", logger)
//	if err := manager.Run(ctx); err != nil {
//		return fmt.Errorf("migrate: %w", err)
//	}
package migration
