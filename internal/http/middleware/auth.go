package middleware

import (
	"net/http"
	"strings"

	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the request from the Authorization header and stores the
// owner id under "user_id" in the gin context.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "no token, authorization denied"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authorization denied"})
			return
		}

		userID, err := service.ParseJWT(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
