package scheduler

import "errors"

var (
	// ErrInvalidArgument is matched by every field validation failure.
	ErrInvalidArgument = errors.New("scheduler: invalid argument")
	// ErrConflict signals that two activities overlap in time. Callers are
	// expected to translate it into an outward failure.
	ErrConflict = errors.New("scheduler: schedule conflict")
)

// FieldError describes a rejected field value.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Is reports whether target is ErrInvalidArgument.
func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

const (
	msgInvalidTitle      = "Invalid title."
	msgInvalidMeeting    = "Invalid meeting days and times."
	msgInvalidName       = "Invalid course name."
	msgInvalidSection    = "Invalid section."
	msgInvalidCredits    = "Invalid credits."
	msgInvalidInstructor = "Invalid instructor id."
)
