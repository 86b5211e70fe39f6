package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 30 * time.Second
	pingPeriod   = 25 * time.Second
	tickInterval = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the token in the query string is the access control; origin checks
	// are left to the reverse proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// TickPayload is one frame of the live timer feed.
type TickPayload struct {
	Type           string `json:"type"` // "tick" or "idle"
	TaskID         int64  `json:"task_id,omitempty"`
	Title          string `json:"title,omitempty"`
	ElapsedSeconds int64  `json:"elapsed_seconds,omitempty"`
	TotalSeconds   int64  `json:"total_seconds,omitempty"`
}

// Feed pushes the owner's running-task elapsed time over a websocket. One
// goroutine per connection; the read side only services pong/close frames.
type Feed struct {
	store service.TaskStore
	clock service.Clock
}

func NewFeed(store service.TaskStore, clock service.Clock) *Feed {
	if clock == nil {
		clock = service.SystemClock()
	}
	return &Feed{store: store, clock: clock}
}

// Handler authenticates the ?token= query parameter and streams tick frames
// until the client goes away.
func (f *Feed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token required"})
			return
		}
		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "error", err)
			return
		}

		go f.serve(conn, userID)
	}
}

func (f *Feed) serve(conn *websocket.Conn, userID int64) {
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	// first frame immediately so clients don't wait a full interval
	if err := f.writeTick(conn, userID); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if err := f.writeTick(conn, userID); err != nil {
				return
			}
		}
	}
}

func (f *Feed) writeTick(conn *websocket.Conn, userID int64) error {
	payload := f.buildTick(userID)

	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

func (f *Feed) buildTick(userID int64) TickPayload {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	task, err := f.store.FindRunning(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("timer feed query failed", "user_id", userID, "error", err)
		}
		return TickPayload{Type: "idle"}
	}

	var elapsed int64
	if task.StartedAt != nil {
		elapsed = int64(f.clock.Now().Sub(*task.StartedAt).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
	}
	return TickPayload{
		Type:           "tick",
		TaskID:         task.ID,
		Title:          task.Title,
		ElapsedSeconds: elapsed,
		TotalSeconds:   task.DurationSeconds + elapsed,
	}
}
