package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	timerStarts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timer_sessions_started_total",
		Help: "Timer sessions started",
	})
	timerStops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timer_sessions_stopped_total",
		Help: "Timer sessions stopped",
	})
	timerSeconds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timer_session_seconds_total",
		Help: "Seconds accrued over stopped timer sessions",
	})
)

func init() {
	prometheus.MustRegister(timerStarts, timerStops, timerSeconds)
}

func (h *Handler) StartTimer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid task id"})
		return
	}

	task, err := h.Timer.Start(c.Request.Context(), userID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTimerConflict):
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "another task is already running, stop it first"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
		case errors.Is(err, domain.ErrTaskCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "task is already completed"})
		default:
			logger.Error("start timer failed", "user_id", userID, "task_id", taskID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		}
		return
	}

	timerStarts.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "timer started", "data": task})
}

type StopTimerRequest struct {
	Complete bool `json:"complete"`
}

func (h *Handler) StopTimer(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid task id"})
		return
	}

	// body is optional; an empty body means pause without completing
	var req StopTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad request"})
		return
	}

	result, err := h.Timer.Stop(c.Request.Context(), userID, taskID, req.Complete)
	if err != nil {
		if errors.Is(err, domain.ErrNotRunning) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "task is not running"})
			return
		}
		logger.Error("stop timer failed", "user_id", userID, "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	timerStops.Inc()
	timerSeconds.Add(float64(result.SessionSeconds))

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "timer stopped",
		"sessionDuration": result.SessionSeconds,
		"totalDuration":   result.TotalSeconds,
		"lastEndedAt":     result.LastEndedAt,
	})
}
