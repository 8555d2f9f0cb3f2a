package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/models"
	"github.com/Fi44er/points_bot/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(tokens *auth.TokenService) *gin.Engine {
	log := utils.NopLogger()
	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(log))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	api := r.Group("/api", Auth(tokens))
	api.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, UserIDFrom(c)) })
	api.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := newEngine(auth.NewTokenService("s", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get(RequestIDHeader); got != "rid-1" {
		t.Fatalf("request id = %q", got)
	}
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenService("s", time.Hour)
	r := newEngine(tokens)
	userTok, _ := tokens.Issue(&models.User{ID: "u1", Role: models.RoleUser})
	adminTok, _ := tokens.Issue(&models.User{ID: "a1", Role: models.RoleAdmin})

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/api/me", "", http.StatusUnauthorized},
		{"garbage", "/api/me", "xxx", http.StatusUnauthorized},
		{"user", "/api/me", userTok, http.StatusOK},
		{"user on admin route", "/api/admin", userTok, http.StatusForbidden},
		{"admin", "/api/admin", adminTok, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(r, tt.path, tt.token); w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if w := do(r, "/api/me", userTok); w.Body.String() != "u1" {
		t.Fatalf("user id = %q", w.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("203.0.113.9"); code != http.StatusNoContent {
			t.Fatalf("request %d = %d", i, code)
		}
	}
	if code := send("203.0.113.9"); code != http.StatusTooManyRequests {
		t.Fatalf("over burst = %d", code)
	}
	if code := send("198.51.100.4"); code != http.StatusNoContent {
		t.Fatalf("other client = %d", code)
	}
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	start := time.Now()
	rl.now = func() time.Time { return start }
	old := rl.limiter("old")

	rl.now = func() time.Time { return start.Add(visitorTTL) }
	rl.lookups = cleanupEveryN - 1
	rl.limiter("fresh")

	if _, ok := rl.visitors["old"]; ok {
		t.Fatal("idle visitor not evicted")
	}
	if rl.limiter("old") == old {
		t.Fatal("evicted visitor reused")
	}
}
