package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nusratjahantasni/doshi-shop-style/internal/clients/shopify"
	pkgerrors "github.com/nusratjahantasni/doshi-shop-style/internal/pkg/errors"
	"github.com/nusratjahantasni/doshi-shop-style/internal/platform/logger"
	"github.com/nusratjahantasni/doshi-shop-style/internal/types"
)

// fakeCartClient simulates the remote cart resource: an authoritative line
// list per cart id, merged by variant like the real backend.
type fakeCartClient struct {
	mu          sync.Mutex
	nextID      int
	carts       map[string][]types.CartLine
	createCalls int
	failWith    error
	gate        chan struct{}
}

func newFakeCartClient() *fakeCartClient {
	return &fakeCartClient{carts: map[string][]types.CartLine{}}
}

func (f *fakeCartClient) snapshot(id string) *types.CartSnapshot {
	lines := make([]types.CartLine, len(f.carts[id]))
	copy(lines, f.carts[id])
	return &types.CartSnapshot{
		ID:          id,
		Lines:       lines,
		CheckoutURL: "https://checkout.example/" + id,
	}
}

func (f *fakeCartClient) waitGate() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeCartClient) CreateCart(_ context.Context, line types.CartLine) (*types.CartSnapshot, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.createCalls++
	f.nextID++
	id := fmt.Sprintf("cart-%d", f.nextID)
	f.carts[id] = []types.CartLine{line}
	return f.snapshot(id), nil
}

func (f *fakeCartClient) FetchCart(_ context.Context, cartID string) (*types.CartSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.carts[cartID]; !ok {
		return nil, shopify.ErrCartNotFound
	}
	return f.snapshot(cartID), nil
}

func (f *fakeCartClient) AddLine(_ context.Context, cartID string, line types.CartLine) (*types.CartSnapshot, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	lines, ok := f.carts[cartID]
	if !ok {
		return nil, shopify.ErrCartNotFound
	}
	merged := false
	for i := range lines {
		if lines[i].VariantID == line.VariantID {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, line)
	}
	f.carts[cartID] = lines
	return f.snapshot(cartID), nil
}

func (f *fakeCartClient) UpdateLine(_ context.Context, cartID, variantID string, quantity int) (*types.CartSnapshot, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	lines, ok := f.carts[cartID]
	if !ok {
		return nil, shopify.ErrCartNotFound
	}
	for i := range lines {
		if lines[i].VariantID == variantID {
			lines[i].Quantity = quantity
			f.carts[cartID] = lines
			return f.snapshot(cartID), nil
		}
	}
	return nil, shopify.ErrLineNotFound
}

func (f *fakeCartClient) RemoveLine(_ context.Context, cartID, variantID string) (*types.CartSnapshot, error) {
	f.waitGate()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	lines, ok := f.carts[cartID]
	if !ok {
		return nil, shopify.ErrCartNotFound
	}
	for i := range lines {
		if lines[i].VariantID == variantID {
			f.carts[cartID] = append(lines[:i:i], lines[i+1:]...)
			return f.snapshot(cartID), nil
		}
	}
	return nil, shopify.ErrLineNotFound
}

type fakePersistence struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{m: map[string]string{}}
}

func (f *fakePersistence) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	if !ok {
		return "", pkgerrors.ErrNotFound
	}
	return v, nil
}

func (f *fakePersistence) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return nil
}

func (f *fakePersistence) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.m, key)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func draftLine(variantID, amount string, qty int) types.CartLine {
	return types.CartLine{
		VariantID:    variantID,
		VariantTitle: "Default Title",
		Price:        types.Money{Amount: amount, CurrencyCode: "USD"},
		Quantity:     qty,
		Product: types.ProductRef{
			ID:     "prod-" + variantID,
			Handle: "bracelet-" + variantID,
			Title:  "Bracelet " + variantID,
		},
	}
}

func TestAddItemCreatesCartAndPersistsID(t *testing.T) {
	client := newFakeCartClient()
	persist := newFakePersistence()
	st := NewStore(testLogger(t), client, persist, "cart:ref:s1")

	if err := st.AddItem(context.Background(), draftLine("v1", "10.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if got := st.RemoteCartID(); got != "cart-1" {
		t.Fatalf("cart id: want=%q got=%q", "cart-1", got)
	}
	stored, err := persist.Get(context.Background(), "cart:ref:s1")
	if err != nil {
		t.Fatalf("persisted id missing: %v", err)
	}
	if stored != "cart-1" {
		t.Fatalf("persisted id: want=%q got=%q", "cart-1", stored)
	}
	if got := st.CheckoutURL(); got != "https://checkout.example/cart-1" {
		t.Fatalf("checkout url: got=%q", got)
	}
}

func TestAddItemMergesDuplicateVariant(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := st.AddItem(ctx, draftLine("v1", "10.00", 3)); err != nil {
		t.Fatalf("AddItem second: %v", err)
	}

	items := st.Items()
	if len(items) != 1 {
		t.Fatalf("line count: want=1 got=%d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("merged quantity: want=5 got=%d", items[0].Quantity)
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	st := NewStore(testLogger(t), newFakeCartClient(), newFakePersistence(), "cart:ref:s1")

	err := st.AddItem(context.Background(), draftLine("v1", "10.00", 0))
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if len(st.Items()) != 0 {
		t.Fatalf("state mutated on invalid add")
	}
}

func TestAddItemFailureLeavesStateUnchanged(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	client.failWith = &shopify.NetworkError{Err: errors.New("timeout")}

	err := st.AddItem(ctx, draftLine("v2", "5.50", 1))
	if !errors.Is(err, ErrItemAddFailed) {
		t.Fatalf("expected ErrItemAddFailed, got %v", err)
	}
	items := st.Items()
	if len(items) != 1 || items[0].VariantID != "v1" {
		t.Fatalf("state changed on failed add: %+v", items)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := st.UpdateQuantity(ctx, "v1", 0); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(st.Items()) != 0 {
		t.Fatalf("line still present after zero-quantity update")
	}
}

func TestUpdateQuantityAppliesConfirmedSnapshot(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := st.UpdateQuantity(ctx, "v1", 7); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	items := st.Items()
	if len(items) != 1 || items[0].Quantity != 7 {
		t.Fatalf("quantity: want=7 got=%+v", items)
	}
}

func TestUpdateQuantityLineGoneDropsLineLocally(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := st.AddItem(ctx, draftLine("v2", "5.50", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// The line vanishes remotely behind the store's back.
	client.mu.Lock()
	client.carts["cart-1"] = client.carts["cart-1"][1:]
	client.mu.Unlock()

	err := st.UpdateQuantity(ctx, "v1", 3)
	if !errors.Is(err, ErrLineGone) {
		t.Fatalf("expected ErrLineGone, got %v", err)
	}
	items := st.Items()
	if len(items) != 1 || items[0].VariantID != "v2" {
		t.Fatalf("expected only v2 to remain, got %+v", items)
	}
}

func TestRemoveItemCartGoneClearsEverything(t *testing.T) {
	client := newFakeCartClient()
	persist := newFakePersistence()
	st := NewStore(testLogger(t), client, persist, "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	client.mu.Lock()
	delete(client.carts, "cart-1")
	client.mu.Unlock()

	if err := st.RemoveItem(ctx, "v1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if st.RemoteCartID() != "" {
		t.Fatalf("cart id not cleared")
	}
	if st.CheckoutURL() != "" {
		t.Fatalf("checkout url survived a superseded cart")
	}
	if len(st.Items()) != 0 {
		t.Fatalf("lines survived cart expiry")
	}
	if _, err := persist.Get(ctx, "cart:ref:s1"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("persisted id not cleared: %v", err)
	}
}

func TestRemoveItemAbsentLineIsIdempotent(t *testing.T) {
	st := NewStore(testLogger(t), newFakeCartClient(), newFakePersistence(), "cart:ref:s1")

	if err := st.RemoveItem(context.Background(), "nope"); err != nil {
		t.Fatalf("RemoveItem on empty cart: %v", err)
	}
}

func TestTotals(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 2)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := st.AddItem(ctx, draftLine("v2", "5.50", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if got := st.TotalItems(); got != 3 {
		t.Fatalf("total items: want=3 got=%d", got)
	}
	total, err := st.TotalPrice()
	if err != nil {
		t.Fatalf("TotalPrice: %v", err)
	}
	if total.Amount != "25.50" || total.CurrencyCode != "USD" {
		t.Fatalf("total price: want=25.50 USD got=%s %s", total.Amount, total.CurrencyCode)
	}
}

func TestTotalPriceMixedCurrencyFailsFast(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	if err := st.AddItem(ctx, draftLine("v1", "10.00", 1)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	eur := draftLine("v2", "5.50", 1)
	eur.Price.CurrencyCode = "EUR"
	if err := st.AddItem(ctx, eur); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, err := st.TotalPrice(); !errors.Is(err, ErrMixedCurrency) {
		t.Fatalf("expected ErrMixedCurrency, got %v", err)
	}
}

func TestConcurrentMutationRejectedWithBusy(t *testing.T) {
	client := newFakeCartClient()
	st := NewStore(testLogger(t), client, newFakePersistence(), "cart:ref:s1")
	ctx := context.Background()

	client.gate = make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- st.AddItem(ctx, draftLine("v1", "10.00", 1))
	}()

	// Wait for the first mutation to claim the writer slot.
	for !st.IsLoading() {
	}

	if err := st.AddItem(ctx, draftLine("v2", "5.50", 1)); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(client.gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	client.gate = nil

	// The slot frees up after completion; the retry succeeds.
	if err := st.AddItem(ctx, draftLine("v2", "5.50", 1)); err != nil {
		t.Fatalf("retry AddItem: %v", err)
	}
	if got := len(st.Items()); got != 2 {
		t.Fatalf("line count after serialized adds: want=2 got=%d", got)
	}
}

func TestCheckoutURLAbsentBeforeFirstConfirmation(t *testing.T) {
	st := NewStore(testLogger(t), newFakeCartClient(), newFakePersistence(), "cart:ref:s1")
	if got := st.CheckoutURL(); got != "" {
		t.Fatalf("checkout url before any confirmation: got=%q", got)
	}
}
