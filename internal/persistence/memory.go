package persistence

import (
	"context"
	"sync"

	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

// memoryAdapter keeps cart references in process memory. It does not survive
// a restart; it exists for development and tests.
type memoryAdapter struct {
	log *logger.Logger
	mu  sync.RWMutex
	m   map[string]string
}

func NewMemoryAdapter(log *logger.Logger) Adapter {
	return &memoryAdapter{
		log: log.With("service", "MemoryPersistence"),
		m:   map[string]string{},
	}
}

func (a *memoryAdapter) Get(_ context.Context, key string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	val, ok := a.m[key]
	if !ok {
		return "", pkgerrors.ErrNotFound
	}
	return val, nil
}

func (a *memoryAdapter) Set(_ context.Context, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[key] = value
	return nil
}

func (a *memoryAdapter) Clear(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.m, key)
	return nil
}
