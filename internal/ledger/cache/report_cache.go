package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/contractpay/settlement-backend/internal/ledger/domain"
	"github.com/contractpay/settlement-backend/internal/ledger/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	reportKeyPrefix    = "ledger:report:" // ledger:report:{name}:{start}:{end}[:limit]
	bestProfessionName = "best-profession"
	topClientsName     = "top-clients"
	invalidateBatch    = 100
)

// ReportCache serves reports from Redis and falls back to the wrapped engine
// on a miss or a Redis failure. Failures from the engine are never cached.
type ReportCache struct {
	inner  service.Reports
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ service.Reports = (*ReportCache)(nil)

// NewReportCache creates a new ReportCache
func NewReportCache(inner service.Reports, client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

func (c *ReportCache) BestProfession(ctx context.Context, w domain.Window) (*domain.ProfessionTotal, error) {
	if !w.Valid() {
		return nil, domain.ErrInvalidRange
	}

	key := reportKey(bestProfessionName, w, 0)
	var cached domain.ProfessionTotal
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	best, err := c.inner.BestProfession(ctx, w)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, best)
	return best, nil
}

func (c *ReportCache) TopClients(ctx context.Context, w domain.Window, limit int) ([]domain.ClientTotal, error) {
	if !w.Valid() {
		return nil, domain.ErrInvalidRange
	}
	if limit <= 0 {
		limit = domain.DefaultTopClientsLimit
	}

	key := reportKey(topClientsName, w, limit)
	var cached []domain.ClientTotal
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	top, err := c.inner.TopClients(ctx, w, limit)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, top)
	return top, nil
}

// Warm recomputes both reports for w and overwrites whatever is cached.
// A window with no paid jobs is not an error.
func (c *ReportCache) Warm(ctx context.Context, w domain.Window, limit int) error {
	if limit <= 0 {
		limit = domain.DefaultTopClientsLimit
	}

	best, err := c.inner.BestProfession(ctx, w)
	switch {
	case errors.Is(err, domain.ErrNoData):
	case err != nil:
		return fmt.Errorf("failed to warm best profession: %w", err)
	default:
		if err := c.store(ctx, reportKey(bestProfessionName, w, 0), best); err != nil {
			return err
		}
	}

	top, err := c.inner.TopClients(ctx, w, limit)
	switch {
	case errors.Is(err, domain.ErrNoData):
	case err != nil:
		return fmt.Errorf("failed to warm top clients: %w", err)
	default:
		if err := c.store(ctx, reportKey(topClientsName, w, limit), top); err != nil {
			return err
		}
	}

	return nil
}

// Invalidate drops every cached report. Called after a settlement commits.
func (c *ReportCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, reportKeyPrefix+"*", invalidateBatch).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete report keys: %w", err)
	}
	return nil
}

func (c *ReportCache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("report cache entry unreadable", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *ReportCache) set(ctx context.Context, key string, v any) {
	if err := c.store(ctx, key, v); err != nil {
		c.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *ReportCache) store(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func reportKey(name string, w domain.Window, limit int) string {
	key := fmt.Sprintf("%s%s:%s:%s", reportKeyPrefix, name,
		w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
	if limit > 0 {
		key = fmt.Sprintf("%s:%d", key, limit)
	}
	return key
}
