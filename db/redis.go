package db

import (
	"context"
	"strings"
	"time"

	"github.com/Fi44er/points_bot/utils"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns nil without error when addr is empty; Redis only backs
// update dedup and the service falls back to an in-process cache.
func ConnectRedis(ctx context.Context, addr string, log *utils.Logger) (*redis.Client, error) {
	if addr == "" {
		log.Warn("⚠ REDIS_ADDR not set, using in-memory update dedup")
		return nil, nil
	}

	opt := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opt = parsed
	}
	opt.PoolSize = 20
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("✅ Redis connection successfully")
	return client, nil
}
