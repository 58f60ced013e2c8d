package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/config"
	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by FeedCache.Get when nothing is stored.
var ErrCacheMiss = errors.New("feed cache miss")

// FeedCache stores the rendered calendar feed between appointment writes.
type FeedCache interface {
	Get(ctx context.Context, mode string) ([]byte, error)
	Set(ctx context.Context, mode string, payload []byte) error
	Invalidate(ctx context.Context) error
}

const feedKeyPrefix = "clinic:appointments:feed:"

type RedisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedCache caches feeds in Redis for ttl. The windowed feed depends on
// the current time, so ttl also bounds how stale its lower edge can get.
func NewRedisFeedCache(client *redis.Client, ttl time.Duration) *RedisFeedCache {
	return &RedisFeedCache{client: client, ttl: ttl}
}

func (c *RedisFeedCache) Get(ctx context.Context, mode string) ([]byte, error) {
	b, err := c.client.Get(ctx, feedKeyPrefix+mode).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

func (c *RedisFeedCache) Set(ctx context.Context, mode string, payload []byte) error {
	return c.client.Set(ctx, feedKeyPrefix+mode, payload, c.ttl).Err()
}

func (c *RedisFeedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, feedKeyPrefix+config.FeedModeActive, feedKeyPrefix+config.FeedModeWindow).Err()
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }
func (NoopCache) Set(context.Context, string, []byte) error   { return nil }
func (NoopCache) Invalidate(context.Context) error            { return nil }
