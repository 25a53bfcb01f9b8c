package migration

import (
	"errors"
	"fmt"
)

var (
	ErrMigrationFailed      = errors.New("migration execution failed")
	ErrInvalidMigrationFile = errors.New("invalid migration file format")
	ErrDuplicateVersion     = errors.New("duplicate migration version")
	// ErrVersionConflict means the database records a version with no file.
	ErrVersionConflict = errors.New("migration version conflict")
	// ErrChecksumMismatch means an applied migration file was edited afterwards.
	ErrChecksumMismatch = errors.New("migration checksum mismatch")
)

// Error records which migration and step failed. Version and FilePath are
// empty for failures that concern the migration table as a whole.
type Error struct {
	Version   string
	FilePath  string
	Operation string
	Err       error
}

func (e *Error) Error() string {
	switch {
	case e.Version != "" && e.FilePath != "":
		return fmt.Sprintf("migration %s (%s): %s: %v", e.Version, e.FilePath, e.Operation, e.Err)
	case e.Version != "":
		return fmt.Sprintf("migration %s: %s: %v", e.Version, e.Operation, e.Err)
	case e.FilePath != "":
		return fmt.Sprintf("migration (%s): %s: %v", e.FilePath, e.Operation, e.Err)
	}
	return fmt.Sprintf("migration: %s: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(version, filePath, operation string, err error) *Error {
	return &Error{Version: version, FilePath: filePath, Operation: operation, Err: err}
}
