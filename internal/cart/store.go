package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/persistence"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

// Store owns one session's cart. It is the single source of truth the HTTP
// surface reads from: every mutation round-trips to the remote cart and only
// the confirmed remote snapshot is ever applied, never an optimistic delta.
//
// Single-writer discipline: one mutation (or the startup hydration) may be
// in flight at a time; concurrent attempts fail with ErrBusy. That is what
// prevents two near-simultaneous quantity changes from landing out of order.
type Store struct {
	log        *logger.Logger
	client     shopify.CartClient
	persist    persistence.Adapter
	persistKey string

	mu       sync.Mutex
	busy     bool
	syncing  bool
	syncOnce sync.Once

	cartID      string
	checkoutURL string
	order       []string
	lines       map[string]types.CartLine
}

func NewStore(log *logger.Logger, client shopify.CartClient, persist persistence.Adapter, persistKey string) *Store {
	return &Store{
		log:        log.With("service", "CartStore", "persist_key", persistKey),
		client:     client,
		persist:    persist,
		persistKey: persistKey,
		lines:      map[string]types.CartLine{},
	}
}

// beginMutation claims the single writer slot or reports ErrBusy.
func (s *Store) beginMutation() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.syncing {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Store) endMutation() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// AddItem merges the draft line into the cart by variant id. When no remote
// cart exists yet, it creates one seeded with this line and persists the new
// cart id before the line is considered applied.
func (s *Store) AddItem(ctx context.Context, line types.CartLine) error {
	if line.VariantID == "" {
		return fmt.Errorf("add item: missing variant id: %w", pkgerrors.ErrInvalidArgument)
	}
	if line.Quantity <= 0 {
		return fmt.Errorf("add item: quantity must be positive: %w", pkgerrors.ErrInvalidArgument)
	}

	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	s.mu.Lock()
	cartID := s.cartID
	s.mu.Unlock()

	var (
		snap *types.CartSnapshot
		err  error
	)
	if cartID == "" {
		snap, err = s.client.CreateCart(ctx, line)
		if err == nil {
			if perr := s.persist.Set(ctx, s.persistKey, snap.ID); perr != nil {
				// The cart still works for this session; it just won't
				// survive a restart.
				s.log.Warn("Failed to persist remote cart id", "cart_id", snap.ID, "error", perr)
			}
		}
	} else {
		snap, err = s.client.AddLine(ctx, cartID, line)
	}

	if err != nil {
		if errors.Is(err, shopify.ErrCartNotFound) {
			s.clearLocal(ctx)
			return fmt.Errorf("%w: %w", ErrItemAddFailed, ErrCartExpired)
		}
		return fmt.Errorf("%w: %w", ErrItemAddFailed, err)
	}

	s.applySnapshot(snap)
	return nil
}

// UpdateQuantity sets a line's quantity. Quantities <= 0 remove the line. A
// line that vanished remotely is dropped locally and reported as ErrLineGone
// rather than failing the whole cart.
func (s *Store) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, variantID)
	}

	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	s.mu.Lock()
	cartID := s.cartID
	_, present := s.lines[variantID]
	s.mu.Unlock()

	if cartID == "" || !present {
		return ErrLineGone
	}

	snap, err := s.client.UpdateLine(ctx, cartID, variantID, quantity)
	if err != nil {
		switch {
		case errors.Is(err, shopify.ErrLineNotFound):
			s.dropLine(variantID)
			return ErrLineGone
		case errors.Is(err, shopify.ErrCartNotFound):
			s.clearLocal(ctx)
			return ErrCartExpired
		default:
			return fmt.Errorf("update quantity: %w", err)
		}
	}

	s.applySnapshot(snap)
	return nil
}

// RemoveItem removes a line. Removal is idempotent: a line or cart that is
// already gone remotely counts as removed.
func (s *Store) RemoveItem(ctx context.Context, variantID string) error {
	if err := s.beginMutation(); err != nil {
		return err
	}
	defer s.endMutation()

	s.mu.Lock()
	cartID := s.cartID
	_, present := s.lines[variantID]
	s.mu.Unlock()

	if cartID == "" || !present {
		return nil
	}

	snap, err := s.client.RemoveLine(ctx, cartID, variantID)
	if err != nil {
		switch {
		case errors.Is(err, shopify.ErrLineNotFound):
			s.dropLine(variantID)
			return nil
		case errors.Is(err, shopify.ErrCartNotFound):
			s.clearLocal(ctx)
			return nil
		default:
			return fmt.Errorf("remove item: %w", err)
		}
	}

	s.applySnapshot(snap)
	return nil
}

// applySnapshot replaces local state with the confirmed remote truth,
// coalescing any duplicate variant ids and dropping non-positive quantities
// so the store invariants hold regardless of backend quirks.
func (s *Store) applySnapshot(snap *types.CartSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cartID = snap.ID
	s.checkoutURL = snap.CheckoutURL
	s.order = s.order[:0]
	s.lines = map[string]types.CartLine{}
	for _, line := range snap.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if existing, ok := s.lines[line.VariantID]; ok {
			existing.Quantity += line.Quantity
			s.lines[line.VariantID] = existing
			continue
		}
		s.order = append(s.order, line.VariantID)
		s.lines[line.VariantID] = line
	}
}

func (s *Store) dropLine(variantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[variantID]; !ok {
		return
	}
	delete(s.lines, variantID)
	for i, id := range s.order {
		if id == variantID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// clearLocal wipes cart state and the persisted reference after the remote
// cart was reported gone. The next mutation creates a fresh cart.
func (s *Store) clearLocal(ctx context.Context) {
	s.mu.Lock()
	s.cartID = ""
	s.checkoutURL = ""
	s.order = s.order[:0]
	s.lines = map[string]types.CartLine{}
	s.mu.Unlock()

	if err := s.persist.Clear(ctx, s.persistKey); err != nil {
		s.log.Warn("Failed to clear persisted cart id", "error", err)
	}
}

// Items returns the cart lines in display order.
func (s *Store) Items() []types.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]types.CartLine, 0, len(s.order))
	for _, id := range s.order {
		items = append(items, s.lines[id])
	}
	return items
}

// TotalItems sums line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity. The cart is single-currency;
// mixed-currency lines fail fast with ErrMixedCurrency.
func (s *Store) TotalPrice() (types.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		totalMinor int64
		currency   string
	)
	for _, id := range s.order {
		line := s.lines[id]
		if currency == "" {
			currency = line.Price.CurrencyCode
		} else if line.Price.CurrencyCode != currency {
			return types.Money{}, ErrMixedCurrency
		}
		minor, err := types.ParseAmountMinor(line.Price.Amount)
		if err != nil {
			return types.Money{}, fmt.Errorf("total price: %w", err)
		}
		totalMinor += minor * int64(line.Quantity)
	}
	return types.Money{
		Amount:       types.FormatAmountMinor(totalMinor),
		CurrencyCode: currency,
	}, nil
}

// CheckoutURL returns the URL from the last confirmed snapshot, or "" when
// no remote cart has been confirmed yet. It never triggers network activity.
func (s *Store) CheckoutURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkoutURL
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Store) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

// RemoteCartID is exposed for observability; the HTTP surface does not use it.
func (s *Store) RemoteCartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}
