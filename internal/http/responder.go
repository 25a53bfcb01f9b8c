package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/scheduler"
)

var (
	errBadRequestBody    = errors.New("The request body is not valid JSON.")
	errInvalidIndex      = errors.New("The activity index must be a non-negative integer.")
	errInvalidSnapshotID = errors.New("A snapshot id is required.")
	errCourseNotFound    = errors.New("The course is not in the catalog.")
	errActivityNotFound  = errors.New("No activity exists at that index.")
	errInvalidDateRange  = errors.New("The date range must use YYYY-MM-DD dates with to on or after from, spanning at most a year.")
)

const (
	codeBadRequest         = "BAD_REQUEST"
	codeInvalidArgument    = "INVALID_ARGUMENT"
	codeNotFound           = "NOT_FOUND"
	codeAlreadyEnrolled    = "ALREADY_ENROLLED"
	codeDuplicateEvent     = "DUPLICATE_EVENT"
	codeScheduleConflict   = "SCHEDULE_CONFLICT"
	codeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	codeInternal           = "INTERNAL"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{ErrorCode: code, Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, codeInternal, errors.New("unknown error"))
		return
	}

	var scheduleErr *application.ScheduleError
	userMessage := func(fallback int) string {
		if errors.As(err, &scheduleErr) && scheduleErr.Message != "" {
			return scheduleErr.Message
		}
		return statusMessage(fallback)
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{ErrorCode: codeNotFound, Message: statusMessage(http.StatusNotFound)})
	case errors.Is(err, application.ErrAlreadyEnrolled):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: codeAlreadyEnrolled, Message: userMessage(http.StatusConflict)})
	case errors.Is(err, application.ErrDuplicateEvent):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: codeDuplicateEvent, Message: userMessage(http.StatusConflict)})
	case errors.Is(err, application.ErrScheduleConflict):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: codeScheduleConflict, Message: userMessage(http.StatusConflict)})
	case errors.Is(err, application.ErrCatalogUnavailable):
		r.loggerFor(ctx).ErrorContext(ctx, "catalog unavailable", "error", err)
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{ErrorCode: codeCatalogUnavailable, Message: statusMessage(http.StatusServiceUnavailable)})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: codeInvalidArgument,
				Message:   vErr.Error(),
				Errors:    copyFieldErrors(vErr),
			})
			return
		}
		var fieldErr *scheduler.FieldError
		if errors.As(err, &fieldErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				ErrorCode: codeInvalidArgument,
				Message:   fieldErr.Message,
				Errors:    map[string]string{fieldErr.Field: fieldErr.Message},
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{ErrorCode: codeInternal, Message: statusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "The request is malformed."
	case http.StatusNotFound:
		return "The requested resource was not found."
	case http.StatusConflict:
		return "The request conflicts with the current schedule."
	case http.StatusUnprocessableEntity:
		return "The request contains invalid values."
	case http.StatusServiceUnavailable:
		return "The course catalog is unavailable."
	default:
		return "An internal error occurred."
	}
}

func copyFieldErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}
	out := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		out[field] = msg
	}
	return out
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}
