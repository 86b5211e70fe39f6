package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"task_tracker/internal/domain"
)

// TimerService is the task timer state machine. Transitions:
//
//	pending  -> running            (Start)
//	paused   -> running            (Start)
//	running  -> paused             (Stop, complete=false)
//	running  -> completed          (Stop, complete=true)
//
// Start and Stop for one owner are serialized by a per-owner mutex; the store
// additionally refuses a second running task per owner, so the invariant
// survives even outside this process.
type TimerService struct {
	store TaskStore
	clock Clock

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewTimerService(store TaskStore, clock Clock) *TimerService {
	if clock == nil {
		clock = SystemClock()
	}
	return &TimerService{
		store: store,
		clock: clock,
		locks: make(map[int64]*sync.Mutex),
	}
}

// ownerLock returns the serialization point for one owner's timer writes.
func (s *TimerService) ownerLock(ownerID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerID] = l
	}
	return l
}

// Start begins a timer session on the task. Fails with ErrTimerConflict when
// the owner already has a running task (including the target itself), with
// ErrNotFound when the task does not belong to the owner, and with
// ErrTaskCompleted when the task is already done.
func (s *TimerService) Start(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.store.FindRunning(ctx, ownerID); err == nil {
		return nil, domain.ErrTimerConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	task, err := s.store.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.StatusCompleted {
		return nil, domain.ErrTaskCompleted
	}

	updated, err := s.store.MarkRunning(ctx, ownerID, taskID, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// precondition checked above, so a miss here means a
			// concurrent writer won the race
			return nil, domain.ErrTimerConflict
		}
		return nil, err
	}
	return updated, nil
}

// Stop ends the current session, accruing its wall-clock seconds into the
// task's duration. With complete=true the task is finished; otherwise it goes
// to paused and can be started again later. Fails with ErrNotRunning when the
// task is missing, not owned, or has no ticking timer.
func (s *TimerService) Stop(ctx context.Context, ownerID, taskID int64, complete bool) (*domain.StopResult, error) {
	l := s.ownerLock(ownerID)
	l.Lock()
	defer l.Unlock()

	task, err := s.store.GetByID(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRunning
		}
		return nil, err
	}
	if task.Status != domain.StatusRunning || task.StartedAt == nil {
		return nil, domain.ErrNotRunning
	}

	now := s.clock.Now()
	sessionSeconds := int64(now.Sub(*task.StartedAt).Seconds())
	if sessionSeconds < 0 {
		// clock skew between start and stop; never accrue negative time
		sessionSeconds = 0
	}

	status := domain.StatusPaused
	var endedAt *time.Time
	if complete {
		status = domain.StatusCompleted
		endedAt = &now
	}

	updated, err := s.store.MarkStopped(ctx, ownerID, taskID, status, sessionSeconds, endedAt, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotRunning
		}
		return nil, err
	}

	return &domain.StopResult{
		SessionSeconds: sessionSeconds,
		TotalSeconds:   updated.DurationSeconds,
		LastEndedAt:    updated.EndedAt,
	}, nil
}

// Running returns the owner's currently running task, or ErrNotFound.
func (s *TimerService) Running(ctx context.Context, ownerID int64) (*domain.Task, error) {
	return s.store.FindRunning(ctx, ownerID)
}
