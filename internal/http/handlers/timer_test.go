package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/repository"

	"github.com/gin-gonic/gin"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// asUser replaces the JWT middleware in tests.
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func newTestRouter(t *testing.T, userID int64) (*gin.Engine, *repository.MemTaskStore, *testClock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemTaskStore()
	clock := &testClock{now: time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)}
	h := NewHandlerWithStore(store, clock)

	r := gin.New()
	api := r.Group("/api/v1", asUser(userID))
	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/start", h.StartTimer)
	api.POST("/tasks/:id/stop", h.StopTimer)
	api.GET("/dashboard", h.GetDashboard)
	return r, store, clock
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: bad json response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, resp
}

func TestCreateAndListTasks(t *testing.T) {
	r, _, _ := newTestRouter(t, 1)

	w, resp := doJSON(t, r, "POST", "/api/v1/tasks", `{"title":"first","description":"d"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d body=%s", w.Code, w.Body.String())
	}
	data := resp["data"].(map[string]any)
	if data["status"] != "pending" || data["is_running"] != false {
		t.Fatalf("new task state: %+v", data)
	}

	w, _ = doJSON(t, r, "POST", "/api/v1/tasks", `{"description":"no title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("create without title = %d", w.Code)
	}

	w, resp = doJSON(t, r, "GET", "/api/v1/tasks?status=pending", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if n := len(resp["data"].([]any)); n != 1 {
		t.Fatalf("list len = %d, want 1", n)
	}
	pagination := resp["pagination"].(map[string]any)
	if pagination["total"].(float64) != 1 || pagination["pages"].(float64) != 1 {
		t.Fatalf("pagination: %+v", pagination)
	}

	w, _ = doJSON(t, r, "GET", "/api/v1/tasks?status=bogus", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("list with unknown status = %d", w.Code)
	}
}

func TestTimerEndpoints(t *testing.T) {
	r, store, clock := newTestRouter(t, 1)
	ctx := context.Background()

	task := &domain.Task{UserID: 1, Title: "tracked"}
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("seed: %v", err)
	}
	other := &domain.Task{UserID: 1, Title: "other"}
	if err := store.Create(ctx, other); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, _ := doJSON(t, r, "POST", "/api/v1/tasks/1/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start = %d body=%s", w.Code, w.Body.String())
	}

	// second start conflicts with 409
	w, _ = doJSON(t, r, "POST", "/api/v1/tasks/2/start", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("conflicting start = %d, want 409", w.Code)
	}

	// stop a task that is not running
	w, _ = doJSON(t, r, "POST", "/api/v1/tasks/2/stop", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("stop idle = %d, want 400", w.Code)
	}

	clock.Advance(90 * time.Second)
	w, resp := doJSON(t, r, "POST", "/api/v1/tasks/1/stop", `{"complete":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("stop = %d body=%s", w.Code, w.Body.String())
	}
	if resp["sessionDuration"].(float64) != 90 || resp["totalDuration"].(float64) != 90 {
		t.Fatalf("stop payload: %+v", resp)
	}
	if resp["lastEndedAt"] == nil {
		t.Fatal("lastEndedAt missing after completion")
	}

	// unknown task id
	w, _ = doJSON(t, r, "POST", "/api/v1/tasks/99/start", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("start unknown = %d, want 404", w.Code)
	}
}

// A bodiless stop request pauses the running task and still reports 200.
func TestStopWithEmptyBodyPauses(t *testing.T) {
	r, store, clock := newTestRouter(t, 1)
	ctx := context.Background()

	task := &domain.Task{UserID: 1, Title: "tracked"}
	if err := store.Create(ctx, task); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, _ := doJSON(t, r, "POST", "/api/v1/tasks/1/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("start = %d body=%s", w.Code, w.Body.String())
	}

	clock.Advance(60 * time.Second)
	w, resp := doJSON(t, r, "POST", "/api/v1/tasks/1/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("bodiless stop = %d body=%s, want 200", w.Code, w.Body.String())
	}
	if resp["success"] != true {
		t.Fatalf("stop payload: %+v", resp)
	}
	if resp["sessionDuration"].(float64) != 60 {
		t.Fatalf("sessionDuration = %v, want 60", resp["sessionDuration"])
	}
	if resp["lastEndedAt"] != nil {
		t.Fatalf("bodiless stop must pause, not complete: lastEndedAt=%v", resp["lastEndedAt"])
	}

	after, err := store.GetByID(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Status != domain.StatusPaused || after.IsRunning {
		t.Fatalf("task not paused after bodiless stop: %+v", after)
	}

	// malformed JSON is still a 400
	w, _ = doJSON(t, r, "POST", "/api/v1/tasks/1/stop", `{"complete":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed stop body = %d, want 400", w.Code)
	}
}

func TestOwnerScoping(t *testing.T) {
	r, store, _ := newTestRouter(t, 2)

	// task belongs to owner 1, requests come from owner 2
	store.Seed(&domain.Task{UserID: 1, Title: "not yours", Status: domain.StatusPending, CreatedAt: time.Now()})

	w, _ := doJSON(t, r, "DELETE", "/api/v1/tasks/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("delete foreign task = %d, want 404", w.Code)
	}
	w, _ = doJSON(t, r, "PUT", "/api/v1/tasks/1", `{"title":"stolen"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("update foreign task = %d, want 404", w.Code)
	}
	w, _ = doJSON(t, r, "POST", "/api/v1/tasks/1/start", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("start foreign task = %d, want 404", w.Code)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	r, store, clock := newTestRouter(t, 1)

	now := clock.Now()
	store.Seed(&domain.Task{UserID: 1, Title: "done", Status: domain.StatusCompleted, DurationSeconds: 100, CreatedAt: now.Add(-time.Hour)})
	store.Seed(&domain.Task{UserID: 1, Title: "half", Status: domain.StatusPaused, DurationSeconds: 50, CreatedAt: now.Add(-30 * time.Minute)})
	store.Seed(&domain.Task{UserID: 1, Title: "todo", Status: domain.StatusPending, CreatedAt: now.Add(-10 * time.Minute)})

	w, resp := doJSON(t, r, "GET", "/api/v1/dashboard", "")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard = %d body=%s", w.Code, w.Body.String())
	}

	data := resp["data"].(map[string]any)
	today := data["summaries"].(map[string]any)["today"].(map[string]any)
	if today["totalTasks"].(float64) != 3 ||
		today["completedTasks"].(float64) != 1 ||
		today["inProgressTasks"].(float64) != 1 ||
		today["pendingTasks"].(float64) != 1 ||
		today["totalTimeSpent"].(float64) != 150 {
		t.Fatalf("today summary: %+v", today)
	}

	tasks := data["todayTasks"].([]any)
	if len(tasks) != 3 {
		t.Fatalf("todayTasks len = %d", len(tasks))
	}
	if tasks[0].(map[string]any)["title"] != "todo" {
		t.Fatalf("todayTasks not newest-first: %+v", tasks[0])
	}
}
