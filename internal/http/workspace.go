package http

import (
	"sync"

	"github.com/example/course-scheduler/internal/application"
)

// Workspace serializes access to the single scheduler the API serves.
type Workspace struct {
	mu        sync.Mutex
	scheduler *application.Scheduler
}

// NewWorkspace wraps sched for use by the handlers.
func NewWorkspace(sched *application.Scheduler) *Workspace {
	return &Workspace{scheduler: sched}
}

// Do runs fn while holding the workspace lock.
func (w *Workspace) Do(fn func(*application.Scheduler) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w.scheduler)
}
