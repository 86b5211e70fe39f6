package handlers

import (
	"task_tracker/internal/repository"
	"task_tracker/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB        *pgxpool.Pool
	Users     *repository.UserRepository
	Tasks     service.TaskStore
	Timer     *service.TimerService
	Dashboard *service.DashboardService
}

func NewHandler(db *pgxpool.Pool) *Handler {
	store := repository.NewTaskRepository(db)
	clock := service.SystemClock()
	return &Handler{
		DB:        db,
		Users:     repository.NewUserRepository(db),
		Tasks:     store,
		Timer:     service.NewTimerService(store, clock),
		Dashboard: service.NewDashboardService(store, clock),
	}
}

// NewHandlerWithStore builds a handler over an arbitrary store and clock.
// Used by tests; NewHandler wires the Postgres store.
func NewHandlerWithStore(store service.TaskStore, clock service.Clock) *Handler {
	return &Handler{
		Tasks:     store,
		Timer:     service.NewTimerService(store, clock),
		Dashboard: service.NewDashboardService(store, clock),
	}
}

// getUserID extracts the authenticated user id from the gin context.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
