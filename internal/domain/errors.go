package domain

import "errors"

var (
	// ErrNotFound covers both a missing task and a task owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("task not found")

	// ErrTimerConflict: the owner already has a running task.
	ErrTimerConflict = errors.New("another task is already running")

	// ErrNotRunning: stop was called on a task whose timer is not ticking.
	ErrNotRunning = errors.New("task is not running")

	// ErrTaskCompleted: a completed task cannot be started again.
	ErrTaskCompleted = errors.New("task is already completed")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)
