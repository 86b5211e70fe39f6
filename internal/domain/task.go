package domain

import "time"

// TaskStatus is the single tagged lifecycle state of a task. A task enters
// "running" via the timer and leaves it via stop; "paused" is a stopped task
// that was started at least once and not completed.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusPaused    TaskStatus = "paused"
	StatusCompleted TaskStatus = "completed"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusRunning, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `db:"id" json:"id"`
	UserID      int64      `db:"user_id" json:"user_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Status      TaskStatus `db:"status" json:"status"`
	StartedAt   *time.Time `db:"started_at" json:"started_at"`
	EndedAt     *time.Time `db:"ended_at" json:"ended_at"`
	// Accrued seconds over all completed sessions. Only ever grows.
	DurationSeconds int64     `db:"duration_seconds" json:"duration_seconds"`
	IsRunning       bool      `json:"is_running"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SyncRunning refreshes the derived is_running flag from the status.
func (t *Task) SyncRunning() {
	t.IsRunning = t.Status == StatusRunning
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	Status TaskStatus
	Title  string // case-insensitive substring match
	Page   int
	Limit  int
}

// Summary is the per-window aggregate over one owner's tasks.
// In-progress counts both running and paused tasks.
type Summary struct {
	TotalTasks      int64 `json:"totalTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	TotalTimeSpent  int64 `json:"totalTimeSpent"`
}

// PeriodSummary is the reduced aggregate used for the weekly and monthly
// dashboard windows.
type PeriodSummary struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	TotalTimeSpent int64 `json:"totalTimeSpent"`
}

type DashboardSummaries struct {
	Today   Summary       `json:"today"`
	Weekly  PeriodSummary `json:"weekly"`
	Monthly PeriodSummary `json:"monthly"`
}

type Dashboard struct {
	TodayTasks []*Task            `json:"todayTasks"`
	Summaries  DashboardSummaries `json:"summaries"`
}

// StopResult reports one completed timer session.
type StopResult struct {
	SessionSeconds int64      `json:"sessionDuration"`
	TotalSeconds   int64      `json:"totalDuration"`
	LastEndedAt    *time.Time `json:"lastEndedAt"`
}
