package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"salesdesk_backend/internal/routing/domain"
	"salesdesk_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const (
	rosterCacheKey = "routing:roster"
	rosterCacheTTL = 30 * time.Second
)

// rosterCache is a short-lived Redis cache in front of the rep roster.
// Every method is safe on a nil receiver and degrades to a miss, so the
// service works unchanged when Redis is not configured.
type rosterCache struct {
	client *redis.Client
	log    *logger.Logger
}

func newRosterCache(client *redis.Client, log *logger.Logger) *rosterCache {
	if client == nil {
		return nil
	}
	return &rosterCache{client: client, log: log}
}

func (c *rosterCache) get(ctx context.Context) ([]domain.SalesRep, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, rosterCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("roster cache read failed", "error", err)
		}
		return nil, false
	}
	var reps []domain.SalesRep
	if err := json.Unmarshal(raw, &reps); err != nil {
		return nil, false
	}
	return reps, true
}

func (c *rosterCache) set(ctx context.Context, reps []domain.SalesRep) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(reps)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, rosterCacheKey, raw, rosterCacheTTL).Err(); err != nil {
		c.log.Warn("roster cache write failed", "error", err)
	}
}

func (c *rosterCache) invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, rosterCacheKey).Err(); err != nil {
		c.log.Warn("roster cache invalidation failed", "error", err)
	}
}
