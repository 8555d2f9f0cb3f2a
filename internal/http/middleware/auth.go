package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	userIDKey = "userID"
	roleKey   = "role"
)

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Auth requires a valid "Bearer" token and stores the caller's id and role in
// the context.
func Auth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			abort(c, http.StatusUnauthorized, "unauthorized", msg)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(roleKey, string(claims.Role))
		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(roleKey) != string(models.RoleAdmin) {
			abort(c, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		c.Next()
	}
}

func UserIDFrom(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.GetString(requestIDKey),
		"code":       code,
		"message":    msg,
	})
}
