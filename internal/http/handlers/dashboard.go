package handlers

import (
	"net/http"

	"task_tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetDashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	dash, err := h.Dashboard.Dashboard(c.Request.Context(), userID)
	if err != nil {
		logger.Error("dashboard failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": dash})
}
