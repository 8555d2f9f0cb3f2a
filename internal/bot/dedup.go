package bot

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers Telegram update ids so redelivered webhooks are ignored.
type Deduper interface {
	// Seen marks id as handled and reports whether it already was.
	Seen(ctx context.Context, updateID int) (bool, error)
}

type MemoryDeduper struct {
	ttl time.Duration
	now func() time.Time

	mu   sync.Mutex
	seen map[int]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	return &MemoryDeduper{ttl: ttl, now: time.Now, seen: make(map[int]time.Time)}
}

func (d *MemoryDeduper) Seen(_ context.Context, updateID int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for id, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, id)
		}
	}
	if _, ok := d.seen[updateID]; ok {
		return true, nil
	}
	d.seen[updateID] = now
	return false, nil
}

// RedisDeduper shares the seen set between replicas.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl, prefix: "tg:update:"}
}

func (d *RedisDeduper) Seen(ctx context.Context, updateID int) (bool, error) {
	fresh, err := d.client.SetNX(ctx, d.prefix+strconv.Itoa(updateID), 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}
