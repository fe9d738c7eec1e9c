package service

import (
	"context"
	"reflect"
	"testing"

	"salesdesk_backend/internal/routing/domain"
	"salesdesk_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*rosterCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return newRosterCache(client, logger.New("test")), mr
}

func TestRosterCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := cache.get(ctx); ok {
		t.Fatal("empty cache must miss")
	}

	reps := []domain.SalesRep{
		{
			ID:           uuid.New(),
			Name:         "Dana",
			Email:        "dana@example.com",
			Territories:  []string{"north"},
			Availability: domain.AvailabilityAvailable,
			CurrentLoad:  3,
			MaxCapacity:  10,
			Performance:  domain.Performance{ConversionRate: 0.4, AvgDealSize: 25000},
		},
	}
	cache.set(ctx, reps)

	got, ok := cache.get(ctx)
	if !ok {
		t.Fatal("expected a cache hit after set")
	}
	if !reflect.DeepEqual(got, reps) {
		t.Fatalf("cached roster = %+v, want %+v", got, reps)
	}
}

func TestRosterCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.set(ctx, []domain.SalesRep{{ID: uuid.New(), Name: "Sam"}})
	mr.FastForward(rosterCacheTTL + 1)

	if _, ok := cache.get(ctx); ok {
		t.Fatal("entry must expire after the TTL")
	}
}

func TestRosterCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.set(ctx, []domain.SalesRep{{ID: uuid.New(), Name: "Sam"}})
	cache.invalidate(ctx)

	if _, ok := cache.get(ctx); ok {
		t.Fatal("invalidated entry must miss")
	}
}

func TestRosterCacheNilReceiver(t *testing.T) {
	var cache *rosterCache
	ctx := context.Background()

	// All operations must be no-ops without Redis configured.
	cache.set(ctx, []domain.SalesRep{{ID: uuid.New()}})
	cache.invalidate(ctx)
	if _, ok := cache.get(ctx); ok {
		t.Fatal("nil cache must always miss")
	}
}

func TestRosterCacheCorruptPayload(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	if err := mr.Set(rosterCacheKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.get(ctx); ok {
		t.Fatal("corrupt payload must be treated as a miss")
	}
}
