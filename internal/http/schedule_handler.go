package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/course-scheduler/internal/application"
	"github.com/example/course-scheduler/internal/exporter"
	"github.com/example/course-scheduler/internal/records"
	"github.com/example/course-scheduler/internal/recurrence"
	"github.com/example/course-scheduler/internal/scheduler"
)

const (
	dateLayout     = "2006-01-02"
	floatingLayout = "2006-01-02T15:04"
)

// ScheduleHandler serves the catalog and the schedule.
type ScheduleHandler struct {
	workspace *Workspace
	term      exporter.Term
	engine    *recurrence.Engine
	now       func() time.Time
	logger    *slog.Logger
	responder responder
}

// ScheduleHandlerOptions configures calendar export.
type ScheduleHandlerOptions struct {
	Term exporter.Term
	Now  func() time.Time
}

func NewScheduleHandler(workspace *Workspace, opts ScheduleHandlerOptions, logger *slog.Logger) *ScheduleHandler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ScheduleHandler{
		workspace: workspace,
		term:      opts.Term,
		engine:    recurrence.NewEngine(nil),
		now:       now,
		logger:    logger,
		responder: newResponder(logger),
	}
}

func (h *ScheduleHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.workspace == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *ScheduleHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var rows [][]string
	_ = h.workspace.Do(func(s *application.Scheduler) error {
		rows = s.CourseCatalog()
		return nil
	})

	courses := make([]catalogCourseDTO, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, catalogCourseDTO{Name: row[0], Section: row[1], Title: row[2], Meeting: row[3]})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, catalogResponse{Courses: courses})
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	full := strings.EqualFold(r.URL.Query().Get("view"), "full")
	h.renderSchedule(w, r, full, http.StatusOK)
}

func (h *ScheduleHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, errBadRequestBody)
		return
	}
	if req.Title == nil {
		h.responder.handleServiceError(r.Context(), w, application.NewValidationError("title", "Invalid title."))
		return
	}

	err := h.workspace.Do(func(s *application.Scheduler) error {
		return s.SetScheduleTitle(*req.Title)
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderSchedule(w, r, false, http.StatusOK)
}

func (h *ScheduleHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req addCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, errBadRequestBody)
		return
	}

	var added bool
	err := h.workspace.Do(func(s *application.Scheduler) error {
		var err error
		added, err = s.AddCourseToSchedule(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Section))
		return err
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !added {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, codeNotFound, errCourseNotFound)
		return
	}
	h.renderSchedule(w, r, false, http.StatusCreated)
}

func (h *ScheduleHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var req addEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, errBadRequestBody)
		return
	}

	err := h.workspace.Do(func(s *application.Scheduler) error {
		return s.AddEventToSchedule(r.Context(), req.Title, req.MeetingDays, req.StartTime, req.EndTime, req.Details)
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.renderSchedule(w, r, false, http.StatusCreated)
}

func (h *ScheduleHandler) RemoveActivity(w http.ResponseWriter, r *http.Request, rawIndex string) {
	if !h.ready(w) {
		return
	}

	index, err := strconv.Atoi(rawIndex)
	if err != nil || index < 0 {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, errInvalidIndex)
		return
	}

	var removed bool
	_ = h.workspace.Do(func(s *application.Scheduler) error {
		removed = s.RemoveActivityFromSchedule(index)
		return nil
	})
	if !removed {
		h.responder.writeError(r.Context(), w, http.StatusNotFound, codeNotFound, errActivityNotFound)
		return
	}
	handlerLogger(r.Context(), h.logger, "ScheduleHandler", "RemoveActivity").InfoContext(r.Context(), "activity removed", "index", index)
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	_ = h.workspace.Do(func(s *application.Scheduler) error {
		s.ResetSchedule()
		return nil
	})
	handlerLogger(r.Context(), h.logger, "ScheduleHandler", "Reset").InfoContext(r.Context(), "schedule reset")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ScheduleHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var buf bytes.Buffer
	err := h.workspace.Do(func(s *application.Scheduler) error {
		return records.WriteActivityRecords(&buf, s.Activities())
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *ScheduleHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	var buf bytes.Buffer
	err := h.workspace.Do(func(s *application.Scheduler) error {
		return exporter.GenerateICS(s.Activities(), h.term, h.now(), &buf)
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Agenda lists dated meetings between the from and to query dates, both
// inclusive. Without parameters it covers the first week of the term.
func (h *ScheduleHandler) Agenda(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	from, to, err := h.agendaRange(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, codeBadRequest, err)
		return
	}

	var entries []recurrence.Entry
	err = h.workspace.Do(func(s *application.Scheduler) error {
		var err error
		entries, err = h.engine.Agenda(s.Activities(), from, to)
		return err
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]agendaEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := agendaEntryDTO{
			Index: e.Index,
			Kind:  e.Activity.Kind().String(),
			Title: e.Activity.Title(),
			Start: e.Start.Format(floatingLayout),
			End:   e.End.Format(floatingLayout),
		}
		if course, ok := e.Activity.(*scheduler.Course); ok {
			dto.Name = course.Name()
			dto.Section = course.Section()
		}
		out = append(out, dto)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, agendaResponse{
		From:    from.Format(dateLayout),
		To:      to.Format(dateLayout),
		Entries: out,
	})
}

func (h *ScheduleHandler) agendaRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()

	from := h.term.FirstDay()
	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDateRange
		}
		from = parsed
	}

	to := from.AddDate(0, 0, 6)
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidDateRange
		}
		to = parsed
	}

	if to.Before(from) || to.Sub(from) > maxAgendaSpan {
		return time.Time{}, time.Time{}, errInvalidDateRange
	}
	return from, to, nil
}

func (h *ScheduleHandler) renderSchedule(w http.ResponseWriter, r *http.Request, full bool, status int) {
	var payload scheduleResponse
	_ = h.workspace.Do(func(s *application.Scheduler) error {
		payload = toScheduleResponse(s, full)
		return nil
	})
	h.responder.writeJSON(r.Context(), w, status, payload)
}

// maxAgendaSpan keeps a single agenda request to roughly one year.
const maxAgendaSpan = 366 * 24 * time.Hour

type agendaResponse struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	Entries []agendaEntryDTO `json:"entries"`
}

type agendaEntryDTO struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Section string `json:"section,omitempty"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type titleRequest struct {
	Title *string `json:"title"`
}

type addCourseRequest struct {
	Name    string `json:"name"`
	Section string `json:"section"`
}

type addEventRequest struct {
	Title       string `json:"title"`
	MeetingDays string `json:"meeting_days"`
	StartTime   int    `json:"start_time"`
	EndTime     int    `json:"end_time"`
	Details     string `json:"details"`
}

type catalogResponse struct {
	Courses []catalogCourseDTO `json:"courses"`
}

type catalogCourseDTO struct {
	Name    string `json:"name"`
	Section string `json:"section"`
	Title   string `json:"title"`
	Meeting string `json:"meeting"`
}

type scheduleResponse struct {
	Title      string        `json:"title"`
	Activities []activityDTO `json:"activities"`
}

type activityDTO struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Section    string `json:"section"`
	Title      string `json:"title"`
	Credits    string `json:"credits,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Meeting    string `json:"meeting,omitempty"`
	Details    string `json:"details,omitempty"`
}

func toScheduleResponse(s *application.Scheduler, full bool) scheduleResponse {
	activities := s.Activities()
	rows := s.ScheduledActivities()
	if full {
		rows = s.FullScheduledActivities()
	}

	out := make([]activityDTO, 0, len(rows))
	for i, row := range rows {
		dto := activityDTO{Kind: activities[i].Kind().String(), Name: row[0], Section: row[1], Title: row[2]}
		if full {
			dto.Credits = row[3]
			dto.Instructor = row[4]
			dto.Meeting = row[5]
			dto.Details = row[6]
		}
		out = append(out, dto)
	}
	return scheduleResponse{Title: s.ScheduleTitle(), Activities: out}
}
