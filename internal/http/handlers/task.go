package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title is required"})
		return
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.Tasks.Create(c.Request.Context(), task); err != nil {
		logger.Error("create task failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := domain.TaskFilter{
		Title: c.Query("title"),
		Page:  page,
		Limit: limit,
	}
	if s := c.Query("status"); s != "" {
		status := domain.TaskStatus(s)
		if !domain.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "unknown status"})
			return
		}
		filter.Status = status
	}

	tasks, total, err := h.Tasks.List(c.Request.Context(), userID, filter)
	if err != nil {
		logger.Error("list tasks failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
		"pagination": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	})
}

type UpdateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateTask changes title and description only; timer and status fields are
// never settable through this endpoint.
func (h *Handler) UpdateTask(c *gin.Context) {
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

	var req UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title is required"})
		return
	}

	task, err := h.Tasks.UpdateDetails(c.Request.Context(), userID, taskID, req.Title, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
			return
		}
		logger.Error("update task failed", "user_id", userID, "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (h *Handler) DeleteTask(c *gin.Context) {
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

	if err := h.Tasks.Delete(c.Request.Context(), userID, taskID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "task not found"})
			return
		}
		logger.Error("delete task failed", "user_id", userID, "task_id", taskID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "task deleted successfully"})
}
