// Package httpapi wires gin to the service layer: middleware, health and
// metrics endpoints, the user and admin REST API and the Telegram webhook.
package httpapi

import (
	"net/http"
	"time"

	"github.com/Fi44er/points_bot/internal/http/handlers"
	"github.com/Fi44er/points_bot/internal/http/middleware"
	"github.com/Fi44er/points_bot/internal/metrics"
	"github.com/Fi44er/points_bot/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Service handlers.Service
	Tokens  interface {
		handlers.TokenIssuer
		middleware.TokenValidator
	}
	Updates  handlers.UpdateHandler
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *utils.Logger

	WebhookSecret  string
	AllowedOrigins []string
}

// Login endpoints allow a short burst per client IP, then one attempt a second.
const (
	loginRPS   = 1
	loginBurst = 5
)

// RegisterRoutes attaches middleware and every endpoint to r. Order:
// RequestID, Logger, Recovery, Metrics, CORS.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.HandleMethodNotAllowed = true
	handlers.RegisterValidators()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	if d.Updates != nil {
		webhook := handlers.NewTelegramWebhook(d.Updates, d.WebhookSecret)
		r.POST("/telegram-webhook", webhook.Handle)
	}

	h := handlers.New(d.Service, d.Tokens)
	loginLimit := middleware.NewRateLimiter(loginRPS, loginBurst).Handler()
	api := r.Group("/api", gzip.Gzip(gzip.DefaultCompression))
	{
		api.POST("/login", loginLimit, h.Login)
		api.POST("/admin/login", loginLimit, h.AdminLogin)
		api.GET("/config", h.Config)
		api.GET("/points/config", h.PointsConfig)
	}

	user := api.Group("", middleware.Auth(d.Tokens))
	{
		user.GET("/verify", h.Verify)
		user.POST("/promo/validate", h.ValidatePromo)
		user.POST("/transaction/create", h.CreateTransaction)
		user.GET("/transactions/user", h.UserTransactions)

		user.GET("/points/balance", h.PointsBalance)
		user.GET("/points/rewards", h.Rewards)
		user.POST("/points/redeem", h.Redeem)
		user.GET("/points/history", h.PointsHistory)
		user.GET("/points/redemptions", h.UserRedemptions)
	}

	admin := api.Group("/admin", middleware.Auth(d.Tokens), middleware.RequireAdmin())
	{
		admin.GET("/stats", h.Stats)

		admin.GET("/transactions/recent", h.RecentTransactions)
		admin.GET("/transactions", h.AllTransactions)
		admin.GET("/transactions/:id", h.Transaction)
		admin.POST("/transactions/:id/approve", h.ApproveTransaction)
		admin.POST("/transactions/:id/decline", h.DeclineTransaction)

		admin.GET("/redemptions", h.Redemptions)
		admin.GET("/redemptions/:id", h.Redemption)
		admin.POST("/redemptions/:id/approve", h.ApproveRedemption)
		admin.POST("/redemptions/:id/decline", h.DeclineRedemption)

		admin.GET("/rewards", h.AllRewards)
		admin.POST("/rewards", h.CreateReward)
		admin.PUT("/rewards/:id", h.UpdateReward)
		admin.DELETE("/rewards/:id", h.DeleteReward)

		admin.GET("/promos", h.Promos)
		admin.POST("/promos", h.CreatePromo)
		admin.PATCH("/promos/:id/toggle", h.TogglePromo)
		admin.DELETE("/promos/:id", h.DeletePromo)

		admin.GET("/config", h.AdminConfig)
		admin.PUT("/config/telegram", h.UpdateTelegramConfig)
		admin.PUT("/config/pricing", h.UpdatePricingConfig)
		admin.PUT("/config/account", h.UpdateAccountConfig)
		admin.PUT("/config/points", h.UpdatePointsConfig)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
