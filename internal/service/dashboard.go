package service

import (
	"context"
	"time"

	"task_tracker/internal/domain"
)

// DashboardService computes the day/week/month aggregates and composes the
// dashboard response. All reads are owner-scoped and side-effect free.
type DashboardService struct {
	store TaskStore
	clock Clock
}

func NewDashboardService(store TaskStore, clock Clock) *DashboardService {
	if clock == nil {
		clock = SystemClock()
	}
	return &DashboardService{store: store, clock: clock}
}

// DayWindow bounds the calendar day containing now, in now's location.
func DayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// WeekWindow bounds the ISO week containing now: Monday 00:00 through Sunday
// 23:59:59.999999999.
func WeekWindow(now time.Time) (time.Time, time.Time) {
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// MonthWindow bounds the calendar month containing now.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// Summaries computes the three window aggregates for the owner at now.
func (s *DashboardService) Summaries(ctx context.Context, ownerID int64) (domain.DashboardSummaries, error) {
	now := s.clock.Now()

	dayStart, dayEnd := DayWindow(now)
	today, err := s.store.Summarize(ctx, ownerID, dayStart, dayEnd)
	if err != nil {
		return domain.DashboardSummaries{}, err
	}

	weekStart, weekEnd := WeekWindow(now)
	weekly, err := s.store.Summarize(ctx, ownerID, weekStart, weekEnd)
	if err != nil {
		return domain.DashboardSummaries{}, err
	}

	monthStart, monthEnd := MonthWindow(now)
	monthly, err := s.store.Summarize(ctx, ownerID, monthStart, monthEnd)
	if err != nil {
		return domain.DashboardSummaries{}, err
	}

	return domain.DashboardSummaries{
		Today:   today,
		Weekly:  narrow(weekly),
		Monthly: narrow(monthly),
	}, nil
}

// Dashboard returns today's task list plus the three summaries in one read.
func (s *DashboardService) Dashboard(ctx context.Context, ownerID int64) (*domain.Dashboard, error) {
	now := s.clock.Now()

	dayStart, dayEnd := DayWindow(now)
	todayTasks, err := s.store.ListWindow(ctx, ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	if todayTasks == nil {
		todayTasks = []*domain.Task{}
	}

	summaries, err := s.Summaries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		TodayTasks: todayTasks,
		Summaries:  summaries,
	}, nil
}

func narrow(s domain.Summary) domain.PeriodSummary {
	return domain.PeriodSummary{
		TotalTasks:     s.TotalTasks,
		CompletedTasks: s.CompletedTasks,
		TotalTimeSpent: s.TotalTimeSpent,
	}
}
