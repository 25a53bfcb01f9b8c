package application

import (
	"errors"

	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyEnrolled is returned when a course with the same name is already scheduled.
	ErrAlreadyEnrolled = errors.New("application: already enrolled")
	// ErrDuplicateEvent is returned when an event with the same title is already scheduled.
	ErrDuplicateEvent = errors.New("application: duplicate event")
	// ErrScheduleConflict is returned when a new activity overlaps a scheduled one.
	ErrScheduleConflict = errors.New("application: schedule conflict")
	// ErrCatalogUnavailable is returned when the course catalog cannot be loaded.
	ErrCatalogUnavailable = errors.New("application: catalog unavailable")
)

// ScheduleError is a rejected schedule change. Message is suitable for end users.
type ScheduleError struct {
	Kind    error
	Message string
}

// Error implements the error interface.
func (e *ScheduleError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the sentinel kind to errors.Is.
func (e *ScheduleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 1 {
		for _, msg := range v.FieldErrors {
			return msg
		}
	}
	return "validation failed"
}

// Is lets callers match validation failures against scheduler.ErrInvalidArgument.
func (v *ValidationError) Is(target error) bool {
	return target == scheduler.ErrInvalidArgument
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// asValidationError converts scheduler field errors into a ValidationError and
// passes every other error through unchanged.
func asValidationError(err error) error {
	var fieldErr *scheduler.FieldError
	if !errors.As(err, &fieldErr) {
		return err
	}
	vErr := &ValidationError{}
	vErr.add(fieldErr.Field, fieldErr.Message)
	return vErr
}

// NewValidationError builds a ValidationError for a single field. Transport
// layers use it for values the domain types cannot represent, such as a
// missing title.
func NewValidationError(field, message string) *ValidationError {
	vErr := &ValidationError{}
	vErr.add(field, message)
	return vErr
}
