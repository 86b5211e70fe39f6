package ws

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/repository"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"net/http/httptest"
)

type frozenClock struct{ now time.Time }

func (c frozenClock) Now() time.Time { return c.now }

func dialFeed(t *testing.T, store service.TaskStore, clock service.Clock, token string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/timer", NewFeed(store, clock).Handler())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/timer?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readPayload(t *testing.T, conn *websocket.Conn) TickPayload {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var p TickPayload
	if err := json.Unmarshal(msg, &p); err != nil {
		t.Fatalf("unmarshal %q: %v", msg, err)
	}
	return p
}

func TestFeedStreamsRunningTask(t *testing.T) {
	service.InitJWT("ws-test-secret", time.Hour)

	store := repository.NewMemTaskStore()
	now := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

	task := &domain.Task{UserID: 5, Title: "deep work"}
	if err := store.Create(context.Background(), task); err != nil {
		t.Fatalf("seed: %v", err)
	}
	timer := service.NewTimerService(store, frozenClock{now: now.Add(-45 * time.Second)})
	if _, err := timer.Start(context.Background(), 5, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	token, err := service.GenerateJWT(5)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	conn := dialFeed(t, store, frozenClock{now: now}, token)
	p := readPayload(t, conn)
	if p.Type != "tick" || p.TaskID != task.ID {
		t.Fatalf("payload: %+v", p)
	}
	if p.ElapsedSeconds != 45 || p.TotalSeconds != 45 {
		t.Fatalf("elapsed=%d total=%d, want 45/45", p.ElapsedSeconds, p.TotalSeconds)
	}
}

func TestFeedIdleWithoutRunningTask(t *testing.T) {
	service.InitJWT("ws-test-secret", time.Hour)

	store := repository.NewMemTaskStore()
	token, err := service.GenerateJWT(9)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	conn := dialFeed(t, store, nil, token)
	p := readPayload(t, conn)
	if p.Type != "idle" {
		t.Fatalf("payload type = %q, want idle", p.Type)
	}
}

func TestFeedRejectsBadToken(t *testing.T) {
	service.InitJWT("ws-test-secret", time.Hour)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/timer", NewFeed(repository.NewMemTaskStore(), nil).Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/timer?token=garbage"
	if _, _, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("dial with bad token succeeded")
	}
}
