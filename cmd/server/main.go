package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fi44er/points_bot/config"
	"github.com/Fi44er/points_bot/db"
	"github.com/Fi44er/points_bot/internal/auth"
	"github.com/Fi44er/points_bot/internal/bot"
	httpapi "github.com/Fi44er/points_bot/internal/http"
	"github.com/Fi44er/points_bot/internal/metrics"
	"github.com/Fi44er/points_bot/internal/repository"
	"github.com/Fi44er/points_bot/internal/service"
	"github.com/Fi44er/points_bot/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const (
	dedupTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
	pollRefresh     = 30 * time.Second
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		utils.InitLogger("info").Fatal("Failed to load config: ", err)
	}
	logger := utils.InitLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid config: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.ConnectDb(cfg.DBDriver, cfg.DB_URL, logger)
	if err != nil {
		logger.Fatal(err)
	}
	if err := db.Migrate(database, cfg.AutoMigrate, logger); err != nil {
		logger.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repo := repository.NewRepository(database, logger)

	// The client provider reads credentials from settings on every use, so
	// the service is wired in after construction.
	creds := &lazyCredentials{}
	provider := bot.NewClientProvider(creds, bot.NewBotAPIClient)
	svc := service.NewService(service.NewStore(repo), bot.NewNotifier(provider, logger), logger, m)
	creds.svc = svc

	if err := svc.Bootstrap(ctx, &cfg); err != nil {
		logger.Fatal("Failed to bootstrap settings: ", err)
	}

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, logger)
	if err != nil {
		logger.Fatal("Failed to connect to redis: ", err)
	}
	var dedup bot.Deduper = bot.NewMemoryDeduper(dedupTTL)
	if rdb != nil {
		defer rdb.Close()
		dedup = bot.NewRedisDeduper(rdb, dedupTTL)
	}

	telegramBot := bot.NewBot(provider, svc, svc, dedup, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	deps := httpapi.Deps{
		Service:        svc,
		Tokens:         tokens,
		Metrics:        m,
		Gatherer:       reg,
		Logger:         logger,
		WebhookSecret:  cfg.WebhookSecret,
		AllowedOrigins: cfg.AllowedOrigins(),
	}
	if cfg.TelegramMode == config.ModeWebhook {
		deps.Updates = telegramBot
	}
	httpapi.RegisterRoutes(router, deps)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("🚀 HTTP server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if cfg.TelegramMode == config.ModePolling {
		// Bot failures stay inside Poll so the HTTP API keeps serving.
		g.Go(func() error {
			telegramBot.Poll(gctx, svc, bot.NewBotAPIUpdater, pollRefresh)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
	}

	logger.Info("Waiting for pending notifications...")
	svc.Wait()
	logger.Info("👋 Shutdown complete")
}

type lazyCredentials struct {
	svc *service.Service
}

func (l *lazyCredentials) TelegramCredentials(ctx context.Context) (string, int64, error) {
	return l.svc.TelegramCredentials(ctx)
}
