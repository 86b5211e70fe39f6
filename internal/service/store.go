package service

import (
	"context"
	"time"

	"task_tracker/internal/domain"
)

// TaskStore is the persistence contract the timer and dashboard services are
// written against. All queries are owner-scoped; a task that exists under a
// different owner behaves exactly like a missing task.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	List(ctx context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, int64, error)
	UpdateDetails(ctx context.Context, ownerID, taskID int64, title, description string) (*domain.Task, error)
	Delete(ctx context.Context, ownerID, taskID int64) error

	// FindRunning returns the owner's running task, or domain.ErrNotFound.
	FindRunning(ctx context.Context, ownerID int64) (*domain.Task, error)

	// MarkRunning transitions the task to running iff it is pending or
	// paused and the owner has no other running task. Returns
	// domain.ErrNotFound when the conditional write matched no row.
	MarkRunning(ctx context.Context, ownerID, taskID int64, now time.Time) (*domain.Task, error)

	// MarkStopped transitions a running task to the given status, adds
	// sessionSeconds to the accrued duration and clears the running flag.
	// endedAt is set only when the task is being completed. Returns
	// domain.ErrNotFound when the task is no longer running.
	MarkStopped(ctx context.Context, ownerID, taskID int64, status domain.TaskStatus, sessionSeconds int64, endedAt *time.Time, now time.Time) (*domain.Task, error)

	// ListWindow returns the owner's tasks created inside [from, to],
	// newest first.
	ListWindow(ctx context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error)

	// Summarize folds the owner's tasks created inside [from, to] into a
	// zero-valued-when-empty aggregate.
	Summarize(ctx context.Context, ownerID int64, from, to time.Time) (domain.Summary, error)
}
