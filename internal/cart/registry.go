package cart

import (
	"sync"

	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	"github.com/nusratjahantasni/doshi-shop-style/internal/persistence"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
)

// Registry hands out one Store per storefront session. Stores are created
// lazily on first touch and live for the life of the process; the durable
// part of a session's cart is only the persisted remote cart id.
type Registry struct {
	log     *logger.Logger
	client  shopify.CartClient
	persist persistence.Adapter

	mu     sync.Mutex
	stores map[string]*Store
}

func NewRegistry(log *logger.Logger, client shopify.CartClient, persist persistence.Adapter) *Registry {
	return &Registry{
		log:     log.With("service", "CartRegistry"),
		client:  client,
		persist: persist,
		stores:  map[string]*Store{},
	}
}

// Store returns the session's cart store, creating it when absent. The
// caller is expected to Sync the store before its first operation.
func (r *Registry) Store(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stores[sessionID]; ok {
		return st
	}
	st := NewStore(r.log, r.client, r.persist, "cart:ref:"+sessionID)
	r.stores[sessionID] = st
	return st
}
