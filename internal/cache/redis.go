package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/leopoldus11/vibecoding/config"
	"github.com/leopoldus11/vibecoding/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	batchesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, batchesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		batchesTTL: batchesTTL,
	}
}

func (c *RedisCache) GetBatchAvailability(ctx context.Context) ([]domain.BatchAvailability, error) {
	data, err := c.client.Get(ctx, batchesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var batches []domain.BatchAvailability
	if err := json.Unmarshal(data, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

func (c *RedisCache) SetBatchAvailability(ctx context.Context, batches []domain.BatchAvailability) error {
	payload, err := json.Marshal(batches)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, batchesKey(), payload, c.batchesTTL).Err()
}

// AcquireCheckoutGuard holds a short-lived marker while a checkout is
// outstanding for a batch/email pair, so a double-submit cannot create a
// second pending row. Advisory only, same as the seat lock itself.
func (c *RedisCache) AcquireCheckoutGuard(ctx context.Context, batchID, email string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, checkoutGuardKey(batchID, email), "in-flight", ttl).Result()
}

func (c *RedisCache) ReleaseCheckoutGuard(ctx context.Context, batchID, email string) error {
	return c.client.Del(ctx, checkoutGuardKey(batchID, email)).Err()
}

func batchesKey() string {
	return "cache:batches"
}

func checkoutGuardKey(batchID, email string) string {
	return fmt.Sprintf("guard:checkout:%s:%s", batchID, strings.ToLower(email))
}
