package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/utils"
)

type redisAdapter struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisAdapter connects via REDIS_ADDR. Entries carry a TTL
// (CART_REF_TTL_DAYS, default 30); remote carts expire server-side anyway,
// so a reference held longer than that is dead weight.
func NewRedisAdapter(log *logger.Logger) (Adapter, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := utils.GetEnv("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlDays := utils.GetEnvAsInt("CART_REF_TTL_DAYS", 30, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    utils.GetEnv("REDIS_PASSWORD", "", log),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisAdapter{
		log: log.With("service", "RedisPersistence"),
		rdb: rdb,
		ttl: time.Duration(ttlDays) * 24 * time.Hour,
	}, nil
}

func (a *redisAdapter) Get(ctx context.Context, key string) (string, error) {
	val, err := a.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", pkgerrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (a *redisAdapter) Set(ctx context.Context, key, value string) error {
	if err := a.rdb.Set(ctx, key, value, a.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (a *redisAdapter) Clear(ctx context.Context, key string) error {
	if err := a.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
