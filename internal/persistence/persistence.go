package persistence

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

// Adapter is durable key-value storage for remote cart references. Only the
// cart id is ever stored; cart lines are always re-derived from the remote
// source during hydration.
type Adapter interface {
	// Get returns the stored value, or pkg/errors.ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// New selects a provider: "redis", "postgres", "sqlite", or "memory".
// db may be nil for non-gorm providers.
func New(log *logger.Logger, db *gorm.DB, provider string) (Adapter, error) {
	switch strings.ToLower(provider) {
	case "redis":
		return NewRedisAdapter(log)
	case "postgres", "sqlite":
		if db == nil {
			return nil, fmt.Errorf("persistence provider %q requires a database", provider)
		}
		return NewGormAdapter(log, db)
	case "memory":
		return NewMemoryAdapter(log), nil
	default:
		return nil, fmt.Errorf("unknown persistence provider %q", provider)
	}
}
