package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"task_tracker/internal/domain"
)

// MemTaskStore is an in-memory task store with the same conditional-write
// semantics as the Postgres one. Used by tests and local tooling; it is not a
// durable store.
type MemTaskStore struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
}

func NewMemTaskStore() *MemTaskStore {
	return &MemTaskStore{tasks: make(map[int64]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	cp := *t
	cp.SyncRunning()
	return &cp
}

func (s *MemTaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t.ID = s.nextID
	if t.Status == "" {
		t.Status = domain.StatusPending
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = t.CreatedAt
	t.SyncRunning()
	s.tasks[t.ID] = cloneTask(t)
	return nil
}

// Seed inserts a task as-is, keeping the caller's ID and timestamps.
func (s *MemTaskStore) Seed(t *domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		s.nextID++
		t.ID = s.nextID
	} else if t.ID > s.nextID {
		s.nextID = t.ID
	}
	s.tasks[t.ID] = cloneTask(t)
}

func (s *MemTaskStore) get(ownerID, taskID int64) (*domain.Task, bool) {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return nil, false
	}
	return t, true
}

func (s *MemTaskStore) GetByID(_ context.Context, ownerID, taskID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.get(ownerID, taskID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneTask(t), nil
}

func (s *MemTaskStore) List(_ context.Context, ownerID int64, f domain.TaskFilter) ([]*domain.Task, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*domain.Task
	for _, t := range s.tasks {
		if t.UserID != ownerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Title)) {
			continue
		}
		matched = append(matched, cloneTask(t))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *MemTaskStore) UpdateDetails(_ context.Context, ownerID, taskID int64, title, description string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.get(ownerID, taskID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Title = title
	t.Description = description
	t.UpdatedAt = time.Now()
	return cloneTask(t), nil
}

func (s *MemTaskStore) Delete(_ context.Context, ownerID, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.get(ownerID, taskID); !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *MemTaskStore) FindRunning(_ context.Context, ownerID int64) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tasks {
		if t.UserID == ownerID && t.Status == domain.StatusRunning {
			return cloneTask(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *MemTaskStore) MarkRunning(_ context.Context, ownerID, taskID int64, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.get(ownerID, taskID)
	if !ok || (t.Status != domain.StatusPending && t.Status != domain.StatusPaused) {
		return nil, domain.ErrNotFound
	}
	for _, other := range s.tasks {
		if other.UserID == ownerID && other.Status == domain.StatusRunning {
			return nil, domain.ErrNotFound
		}
	}

	started := now
	t.Status = domain.StatusRunning
	t.StartedAt = &started
	t.UpdatedAt = now
	return cloneTask(t), nil
}

func (s *MemTaskStore) MarkStopped(_ context.Context, ownerID, taskID int64, status domain.TaskStatus, sessionSeconds int64, endedAt *time.Time, now time.Time) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.get(ownerID, taskID)
	if !ok || t.Status != domain.StatusRunning {
		return nil, domain.ErrNotFound
	}

	t.Status = status
	t.DurationSeconds += sessionSeconds
	if endedAt != nil {
		ended := *endedAt
		t.EndedAt = &ended
	}
	t.UpdatedAt = now
	return cloneTask(t), nil
}

func (s *MemTaskStore) ListWindow(_ context.Context, ownerID int64, from, to time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res []*domain.Task
	for _, t := range s.tasks {
		if t.UserID != ownerID || t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		res = append(res, cloneTask(t))
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *MemTaskStore) Summarize(_ context.Context, ownerID int64, from, to time.Time) (domain.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum domain.Summary
	for _, t := range s.tasks {
		if t.UserID != ownerID || t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		sum.TotalTasks++
		switch t.Status {
		case domain.StatusCompleted:
			sum.CompletedTasks++
		case domain.StatusRunning, domain.StatusPaused:
			sum.InProgressTasks++
		case domain.StatusPending:
			sum.PendingTasks++
		}
		sum.TotalTimeSpent += t.DurationSeconds
	}
	return sum, nil
}
