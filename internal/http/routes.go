package http

import (
	"time"

	"task_tracker/internal/config"
	"task_tracker/internal/http/handlers"
	"task_tracker/internal/http/middleware"
	"task_tracker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// pick the limiter backend: Redis when configured, in-process otherwise
	limit := func(maxRequests int, window time.Duration) gin.HandlerFunc {
		if cfg.RedisAddr != "" {
			return middleware.RedisRateLimit(maxRequests, window)
		}
		return middleware.SimpleRateLimit(maxRequests, window)
	}

	v1 := r.Group("/api/v1")
	v1.Use(limit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth (stricter window)
	authLimit := limit(cfg.AuthRateLimit, cfg.AuthRateWindow)
	v1.POST("/auth/register", authLimit, h.Register)
	v1.POST("/auth/login", authLimit, h.Login)

	// Tasks
	tasks := v1.Group("/tasks")
	tasks.Use(middleware.JWT())
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("", h.ListTasks)
		tasks.PUT("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)

		// timer ops share a per-user budget on top of the IP window
		timerRL := middleware.TimerRateLimit(60, time.Minute)
		tasks.POST("/:id/start", timerRL, h.StartTimer)
		tasks.POST("/:id/stop", timerRL, h.StopTimer)
	}

	v1.GET("/dashboard", middleware.JWT(), h.GetDashboard)

	// Live timer feed (token in query string)
	feed := ws.NewFeed(h.Tasks, nil)
	r.GET("/ws/timer", feed.Handler())
}
