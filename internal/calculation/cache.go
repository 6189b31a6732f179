package calculation

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores computed responses in Redis. Cache failures are logged
// and otherwise ignored; the calculation always has the stored case as the
// source of truth.
type RedisCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, logger *slog.Logger, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, logger: logger, ttl: ttl}
}

func cacheKey(caseID uuid.UUID) string {
	return "souzoku:calculation:" + caseID.String()
}

func (c *RedisCache) Get(ctx context.Context, caseID uuid.UUID) (*Response, bool) {
	payload, err := c.client.Get(ctx, cacheKey(caseID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "calculation cache read failed", "error", err)
		}
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		c.logger.WarnContext(ctx, "calculation cache entry corrupt", "error", err)
		return nil, false
	}
	return &resp, true
}

func (c *RedisCache) Set(ctx context.Context, caseID uuid.UUID, resp *Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		c.logger.WarnContext(ctx, "calculation cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, cacheKey(caseID), payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "calculation cache write failed", "error", err)
	}
}

func (c *RedisCache) InvalidateCase(ctx context.Context, caseID uuid.UUID) {
	if err := c.client.Del(ctx, cacheKey(caseID)).Err(); err != nil {
		c.logger.WarnContext(ctx, "calculation cache invalidate failed", "error", err)
	}
}
