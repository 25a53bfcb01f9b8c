package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/course-scheduler/internal/scheduler"
)

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var err *ValidationError
	if err.Error() != "" {
		t.Fatalf("expected empty string for nil error, got %q", err.Error())
	}

	empty := &ValidationError{}
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for empty error, got %q", got)
	}

	single := NewValidationError("title", "Invalid title.")
	if got := single.Error(); got != "Invalid title." {
		t.Fatalf("expected field message for single field, got %q", got)
	}

	multiple := &ValidationError{FieldErrors: map[string]string{"title": "Invalid title.", "details": "Invalid event details."}}
	if got := multiple.Error(); got != "validation failed" {
		t.Fatalf("expected generic message for several fields, got %q", got)
	}
}

func TestValidationError_MatchesInvalidArgument(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("add event: %w", NewValidationError("title", "Invalid title."))
	if !errors.Is(wrapped, scheduler.ErrInvalidArgument) {
		t.Fatalf("expected validation error to match scheduler.ErrInvalidArgument")
	}
	if errors.Is(wrapped, ErrScheduleConflict) {
		t.Fatalf("validation error must not match ErrScheduleConflict")
	}
}

func TestValidationError_HasErrors(t *testing.T) {
	t.Parallel()

	if err := (&ValidationError{}).HasErrors(); err {
		t.Fatalf("expected HasErrors to report false for empty error")
	}

	if err := (&ValidationError{FieldErrors: map[string]string{"field": "bad"}}).HasErrors(); !err {
		t.Fatalf("expected HasErrors to report true when fields are present")
	}
}

func TestValidationError_AddAndMerge(t *testing.T) {
	t.Parallel()

	base := &ValidationError{}
	base.add("title", "Invalid title.")
	if got := base.FieldErrors["title"]; got != "Invalid title." {
		t.Fatalf("expected add to populate map, got %q", got)
	}

	base.merge(NewValidationError("meeting_days", "Invalid meeting days and times."))
	if got := base.FieldErrors["meeting_days"]; got != "Invalid meeting days and times." {
		t.Fatalf("expected merge to copy field, got %q", got)
	}

	base.merge(nil)
	if len(base.FieldErrors) != 2 {
		t.Fatalf("expected merge with nil to leave fields unchanged")
	}
}

func TestAsValidationError(t *testing.T) {
	t.Parallel()

	_, fieldErr := scheduler.NewEvent("", "M", 900, 1000, "")
	converted := asValidationError(fieldErr)

	var vErr *ValidationError
	if !errors.As(converted, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", converted)
	}
	if got := vErr.FieldErrors["title"]; got != "Invalid title." {
		t.Fatalf("expected title field error, got %v", vErr.FieldErrors)
	}

	other := errors.New("disk full")
	if got := asValidationError(other); got != other {
		t.Fatalf("expected unrelated error to pass through, got %v", got)
	}
}

func TestScheduleError(t *testing.T) {
	t.Parallel()

	err := error(&ScheduleError{Kind: ErrAlreadyEnrolled, Message: "You are already enrolled in CSC216"})
	if err.Error() != "You are already enrolled in CSC216" {
		t.Fatalf("expected user message, got %q", err.Error())
	}
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("expected ScheduleError to unwrap to its kind")
	}

	var nilErr *ScheduleError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Fatalf("expected nil ScheduleError to be inert")
	}
}
