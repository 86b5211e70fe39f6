package handlers

import (
	"errors"
	"net/http"
	"strings"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad request"})
		return
	}

	ctx := c.Request.Context()

	// precheck so the common case gets a clear message; the unique index
	// still catches the race
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "user already exists with the same email"})
		return
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		logger.Error("register: hash password failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	user := &domain.User{
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "user already exists with the same email"})
			return
		}
		logger.Error("register: create user failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		logger.Error("register: token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
		"token":   "Bearer " + token,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "bad request"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		logger.Error("login: lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	if !service.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid password"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		logger.Error("login: token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"token":   "Bearer " + token,
	})
}
