package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/persistence"
)

// SnapshotService is the subset of application.SnapshotService used by the handler.
type SnapshotService interface {
	SaveSnapshot(ctx context.Context, sched *application.Scheduler) (persistence.Snapshot, error)
	ListSnapshots(ctx context.Context) ([]persistence.SnapshotSummary, error)
	GetSnapshot(ctx context.Context, id string) (persistence.Snapshot, error)
	RestoreSnapshot(ctx context.Context, id string, sched *application.Scheduler) error
	DeleteSnapshot(ctx context.Context, id string) error
}

type SnapshotHandler struct {
	service   SnapshotService
	workspace *Workspace
	logger    *slog.Logger
	responder responder
}

func NewSnapshotHandler(service SnapshotService, workspace *Workspace, logger *slog.Logger) *SnapshotHandler {
	return &SnapshotHandler{service: service, workspace: workspace, logger: logger, responder: newResponder(logger)}
}

func (h *SnapshotHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil || h.workspace == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	summaries, err := h.service.ListSnapshots(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]snapshotSummaryDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, snapshotSummaryDTO{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt.UTC(), ActivityCount: s.ActivityCount})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, snapshotListResponse{Snapshots: out})
}

func (h *SnapshotHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var snapshot persistence.Snapshot
	err := h.workspace.Do(func(s *application.Scheduler) error {
		var err error
		snapshot, err = h.service.SaveSnapshot(r.Context(), s)
		return err
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Location", "/snapshots/"+snapshot.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSnapshotDTO(snapshot))
}

func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snapshotID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), id)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSnapshotDTO(snapshot))
}

func (h *SnapshotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snapshotID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSnapshot(r.Context(), id); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Restore replaces the current schedule with the snapshot and returns the
// resulting schedule.
func (h *SnapshotHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.snapshotID(w, r)
	if !ok {
		return
	}

	var payload scheduleResponse
	err := h.workspace.Do(func(s *application.Scheduler) error {
		if err := h.service.RestoreSnapshot(r.Context(), id, s); err != nil {
			return err
		}
		payload = toScheduleResponse(s, false)
		return nil
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	handlerLogger(r.Context(), h.logger, "SnapshotHandler", "Restore", "snapshot_id", id).
		InfoContext(r.Context(), "schedule restored", "activities", len(payload.Activities))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *SnapshotHandler) snapshotID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !h.ready(w) {
		return "", false
	}
	id, ok := SnapshotIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, errInvalidSnapshotID)
		return "", false
	}
	return id, true
}

type snapshotListResponse struct {
	Snapshots []snapshotSummaryDTO `json:"snapshots"`
}

type snapshotSummaryDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	ActivityCount int       `json:"activity_count"`
}

type snapshotDTO struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	CreatedAt  time.Time             `json:"created_at"`
	Activities []snapshotActivityDTO `json:"activities"`
}

type snapshotActivityDTO struct {
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	Section     string `json:"section,omitempty"`
	Title       string `json:"title"`
	Credits     int    `json:"credits,omitempty"`
	Instructor  string `json:"instructor,omitempty"`
	MeetingDays string `json:"meeting_days"`
	StartTime   int    `json:"start_time"`
	EndTime     int    `json:"end_time"`
	Details     string `json:"details,omitempty"`
}

func toSnapshotDTO(snapshot persistence.Snapshot) snapshotDTO {
	activities := make([]snapshotActivityDTO, 0, len(snapshot.Activities))
	for _, a := range snapshot.Activities {
		activities = append(activities, snapshotActivityDTO{
			Kind:        string(a.Kind),
			Name:        a.Name,
			Section:     a.Section,
			Title:       a.Title,
			Credits:     a.Credits,
			Instructor:  a.Instructor,
			MeetingDays: a.MeetingDays,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			Details:     a.Details,
		})
	}
	return snapshotDTO{ID: snapshot.ID, Title: snapshot.Title, CreatedAt: snapshot.CreatedAt.UTC(), Activities: activities}
}
