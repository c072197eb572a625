package cart

import (
	"context"
	"errors"

	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
)

// Sync hydrates the store from its persisted cart reference. It runs the
// hydration at most once per store; later calls (a re-render, a second
// request racing the first) are no-ops, so it is safe to call before every
// operation. Hydration failures degrade to an empty cart and are not
// surfaced: an empty cart is always a safe state to start from.
func (s *Store) Sync(ctx context.Context) {
	s.syncOnce.Do(func() {
		s.hydrate(ctx)
	})
}

func (s *Store) hydrate(ctx context.Context) {
	s.mu.Lock()
	s.syncing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	cartID, err := s.persist.Get(ctx, s.persistKey)
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.log.Warn("Failed to read persisted cart id", "error", err)
		}
		// Nothing to hydrate; ready with an empty cart.
		return
	}

	snap, err := s.client.FetchCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, shopify.ErrCartNotFound) {
			// The remote cart expired. Forget it; the next mutation
			// creates a fresh one.
			s.log.Info("Persisted cart no longer exists, recreating on next mutation", "cart_id", cartID)
			if cerr := s.persist.Clear(ctx, s.persistKey); cerr != nil {
				s.log.Warn("Failed to clear expired cart id", "error", cerr)
			}
			return
		}
		// Transient failure: keep the persisted id untouched so a later
		// session retry can still adopt the cart.
		s.log.Warn("Cart hydration failed, continuing with empty cart", "cart_id", cartID, "error", err)
		return
	}

	s.applySnapshot(snap)
	s.log.Debug("Hydrated cart from remote", "cart_id", snap.ID, "lines", len(snap.Lines))
}
