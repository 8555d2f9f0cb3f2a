package handlers

import (
	"net/http"

	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	ChatID int64 `json:"chatId" binding:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login authenticates a bot-registered user by Telegram chat id.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "chatId is required")
		return
	}
	user, err := h.svc.LoginByChatID(c.Request.Context(), req.ChatID)
	if err != nil {
		writeError(c, err)
		return
	}
	h.issue(c, user)
}

func (h *Handlers) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password are required")
		return
	}
	admin, err := h.svc.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.issue(c, admin)
}

// Verify returns the caller's current account data.
func (h *Handlers) Verify(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), middleware.UserIDFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"user": user})
}

func (h *Handlers) issue(c *gin.Context, user *models.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, AuthResponse{Token: token, User: user})
}
