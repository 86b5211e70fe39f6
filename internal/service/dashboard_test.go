package service

import (
	"context"
	"testing"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/repository"
)

func TestWindowBounds(t *testing.T) {
	// Wednesday, June 18 2025
	now := time.Date(2025, 6, 18, 15, 30, 0, 0, time.UTC)

	dayStart, dayEnd := DayWindow(now)
	if !dayStart.Equal(time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("day start = %v", dayStart)
	}
	if !dayEnd.Before(time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC)) || dayEnd.Before(now) {
		t.Fatalf("day end = %v", dayEnd)
	}

	weekStart, weekEnd := WeekWindow(now)
	if weekStart.Weekday() != time.Monday {
		t.Fatalf("week starts on %v, want Monday", weekStart.Weekday())
	}
	if !weekStart.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week start = %v", weekStart)
	}
	if !weekEnd.Before(time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week end = %v", weekEnd)
	}

	monthStart, monthEnd := MonthWindow(now)
	if !monthStart.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month start = %v", monthStart)
	}
	if !monthEnd.Before(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("month end = %v", monthEnd)
	}
}

func TestWeekWindowOnSunday(t *testing.T) {
	// Sunday still belongs to the week that started the previous Monday
	sunday := time.Date(2025, 6, 22, 10, 0, 0, 0, time.UTC)
	weekStart, weekEnd := WeekWindow(sunday)
	if !weekStart.Equal(time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week start = %v", weekStart)
	}
	if weekEnd.Before(sunday) {
		t.Fatalf("week end %v excludes sunday", weekEnd)
	}
}

func TestEmptyWindowIsZeroNotAbsent(t *testing.T) {
	store := repository.NewMemTaskStore()
	clock := newFakeClock(time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC))
	svc := NewDashboardService(store, clock)

	dash, err := svc.Dashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TodayTasks == nil || len(dash.TodayTasks) != 0 {
		t.Fatalf("todayTasks must be an empty slice, got %#v", dash.TodayTasks)
	}
	if dash.Summaries.Today != (domain.Summary{}) {
		t.Fatalf("today summary not zero: %+v", dash.Summaries.Today)
	}
	if dash.Summaries.Weekly != (domain.PeriodSummary{}) || dash.Summaries.Monthly != (domain.PeriodSummary{}) {
		t.Fatalf("period summaries not zero: %+v", dash.Summaries)
	}
}

func TestDashboardDayAggregate(t *testing.T) {
	store := repository.NewMemTaskStore()
	now := time.Date(2025, 6, 18, 18, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	svc := NewDashboardService(store, clock)

	morning := now.Add(-8 * time.Hour)
	store.Seed(&domain.Task{UserID: 1, Title: "done", Status: domain.StatusCompleted, DurationSeconds: 100, CreatedAt: morning})
	store.Seed(&domain.Task{UserID: 1, Title: "half", Status: domain.StatusPaused, DurationSeconds: 50, CreatedAt: morning.Add(time.Hour)})
	store.Seed(&domain.Task{UserID: 1, Title: "todo", Status: domain.StatusPending, CreatedAt: morning.Add(2 * time.Hour)})

	// noise: another owner and an out-of-window task
	store.Seed(&domain.Task{UserID: 2, Title: "other owner", Status: domain.StatusCompleted, DurationSeconds: 999, CreatedAt: morning})
	store.Seed(&domain.Task{UserID: 1, Title: "last week", Status: domain.StatusCompleted, DurationSeconds: 400, CreatedAt: now.AddDate(0, 0, -9)})

	dash, err := svc.Dashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	want := domain.Summary{
		TotalTasks:      3,
		CompletedTasks:  1,
		InProgressTasks: 1,
		PendingTasks:    1,
		TotalTimeSpent:  150,
	}
	if dash.Summaries.Today != want {
		t.Fatalf("today = %+v, want %+v", dash.Summaries.Today, want)
	}

	if len(dash.TodayTasks) != 3 {
		t.Fatalf("todayTasks len = %d, want 3", len(dash.TodayTasks))
	}
	// newest first
	if dash.TodayTasks[0].Title != "todo" || dash.TodayTasks[2].Title != "done" {
		t.Fatalf("todayTasks not in descending creation order: %s ... %s",
			dash.TodayTasks[0].Title, dash.TodayTasks[2].Title)
	}
}

func TestWeeklyAndMonthlyWindows(t *testing.T) {
	store := repository.NewMemTaskStore()
	// Wednesday
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	clock := newFakeClock(now)
	svc := NewDashboardService(store, clock)

	// Monday of this week: in week + month, not today
	store.Seed(&domain.Task{UserID: 1, Title: "monday", Status: domain.StatusCompleted, DurationSeconds: 60, CreatedAt: time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)})
	// June 2: in month only
	store.Seed(&domain.Task{UserID: 1, Title: "early june", Status: domain.StatusPending, CreatedAt: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)})
	// May 30: outside all windows
	store.Seed(&domain.Task{UserID: 1, Title: "may", Status: domain.StatusCompleted, DurationSeconds: 500, CreatedAt: time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC)})

	sums, err := svc.Summaries(context.Background(), 1)
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}

	if sums.Today.TotalTasks != 0 {
		t.Fatalf("today total = %d, want 0", sums.Today.TotalTasks)
	}
	if sums.Weekly != (domain.PeriodSummary{TotalTasks: 1, CompletedTasks: 1, TotalTimeSpent: 60}) {
		t.Fatalf("weekly = %+v", sums.Weekly)
	}
	if sums.Monthly != (domain.PeriodSummary{TotalTasks: 2, CompletedTasks: 1, TotalTimeSpent: 60}) {
		t.Fatalf("monthly = %+v", sums.Monthly)
	}
}
