package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubCatalog struct {
	products map[string]domain.Product
}

func (s *stubCatalog) Load(_ context.Context) error { return nil }

func (s *stubCatalog) SetSearch(_ string) []domain.Product           { return nil }
func (s *stubCatalog) SetCategory(_ string) []domain.Product         { return nil }
func (s *stubCatalog) SetSort(_ domain.SortKey) []domain.Product     { return nil }
func (s *stubCatalog) DeriveVisible(_ domain.FilterCriteria) []domain.Product {
	return nil
}
func (s *stubCatalog) Visible() []domain.Product { return nil }

func (s *stubCatalog) Lookup(id string) (domain.Product, bool) {
	p, ok := s.products[id]
	return p, ok
}

func (s *stubCatalog) Size() int    { return len(s.products) }
func (s *stubCatalog) Loaded() bool { return true }

type stubCartRepo struct {
	mu      sync.Mutex
	carts   map[string]*domain.Cart
	saveErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *stubCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart, ok := r.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	clone := *cart
	clone.Lines = append([]domain.CartLine(nil), cart.Lines...)
	return &clone, nil
}

func (r *stubCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cart
	clone.Lines = append([]domain.CartLine(nil), cart.Lines...)
	r.carts[cart.UserID] = &clone
	return nil
}

func (r *stubCartRepo) Clear(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

type stubGuard struct {
	seen map[string]bool
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: make(map[string]bool)}
}

func (g *stubGuard) Seen(_ context.Context, userID, key string) (bool, error) {
	return g.seen[userID+":"+key], nil
}

func (g *stubGuard) Mark(_ context.Context, userID, key string) error {
	g.seen[userID+":"+key] = true
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	inputs []ports.CartActivityInput
}

func (p *stubPublisher) Publish(input ports.CartActivityInput) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs = append(p.inputs, input)
}

func (p *stubPublisher) published() []ports.CartActivityInput {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.CartActivityInput(nil), p.inputs...)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type cartFixture struct {
	manager   *CartManager
	repo      *stubCartRepo
	guard     *stubGuard
	publisher *stubPublisher
}

func newCartFixture() *cartFixture {
	catalog := &stubCatalog{products: map[string]domain.Product{
		"p1": {ID: "p1", Brand: "Nike", Model: "Air Max", Price: 45, Stock: 10},
		"p2": {ID: "p2", Brand: "Puma", Model: "RS-X", Price: 100, Stock: 7},
	}}
	repo := newStubCartRepo()
	guard := newStubGuard()
	publisher := &stubPublisher{}
	manager := NewCartManager(catalog, repo, guard, publisher, 5.99, 50, discardLogger)
	return &cartFixture{manager: manager, repo: repo, guard: guard, publisher: publisher}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCartManager_RequiresUser(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	if _, err := f.manager.GetCart(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.manager.AddItem(ctx, "", "p1"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.manager.Checkout(ctx, "", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCartManager_AddItem_UnknownProduct(t *testing.T) {
	f := newCartFixture()

	_, err := f.manager.AddItem(context.Background(), "u1", "ghost")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if len(f.repo.carts) != 0 {
		t.Fatal("failed add must not persist a cart")
	}
}

func TestCartManager_AddItem_PersistsAndPublishes(t *testing.T) {
	f := newCartFixture()

	view, err := f.manager.AddItem(context.Background(), "u1", "p1")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if view.ItemCount != 1 || len(view.Lines) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Lines[0].Name != "Nike Air Max" {
		t.Fatalf("expected display name snapshot, got %q", view.Lines[0].Name)
	}

	stored, _ := f.repo.Get(context.Background(), "u1")
	if stored.ItemCount() != 1 {
		t.Fatal("cart was not persisted")
	}

	events := f.publisher.published()
	if len(events) != 1 || events[0].Action != domain.ActionItemAdded || events[0].ProductID != "p1" {
		t.Fatalf("unexpected activity events: %+v", events)
	}
}

func TestCartManager_AddItem_RepeatIncrements(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	if _, err := f.manager.AddItem(ctx, "u1", "p1"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := f.manager.AddItem(ctx, "u1", "p1")
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(view.Lines) != 1 {
		t.Fatalf("repeat add must not create a new line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", view.Lines[0].Quantity)
	}
}

func TestCartManager_ChangeQuantity_RemovesAtZero(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1")
	view, err := f.manager.ChangeQuantity(ctx, "u1", 0, -1)
	if err != nil {
		t.Fatalf("change quantity failed: %v", err)
	}

	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", view.Lines)
	}
}

func TestCartManager_ChangeQuantity_OutOfRangeIsNoOp(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1")
	before := f.publisher.published()

	view, err := f.manager.ChangeQuantity(ctx, "u1", 7, 1)
	if err != nil {
		t.Fatalf("out-of-range index must not error: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].Quantity != 1 {
		t.Fatalf("expected unchanged cart, got %+v", view.Lines)
	}
	if len(f.publisher.published()) != len(before) {
		t.Fatal("no-op must not publish activity")
	}
}

func TestCartManager_RemoveItem(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1")
	_, _ = f.manager.AddItem(ctx, "u1", "p2")

	view, err := f.manager.RemoveItem(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if len(view.Lines) != 1 || view.Lines[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", view.Lines)
	}
}

func TestCartManager_GetCart_Totals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1") // 45, below free shipping

	view, err := f.manager.GetCart(ctx, "u1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.Totals.Subtotal != 45 {
		t.Fatalf("expected subtotal 45, got %v", view.Totals.Subtotal)
	}
	if math.Abs(view.Totals.Total-50.99) > 1e-9 {
		t.Fatalf("expected total 50.99, got %v", view.Totals.Total)
	}
}

func TestCartManager_GetCart_UnknownUserIsEmpty(t *testing.T) {
	f := newCartFixture()

	view, err := f.manager.GetCart(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if view.ItemCount != 0 || view.Totals.Total != 0 {
		t.Fatalf("expected empty cart with zero totals, got %+v", view)
	}
}

func TestCartManager_Checkout_EmptyCart(t *testing.T) {
	f := newCartFixture()

	_, err := f.manager.Checkout(context.Background(), "u1", "")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCartManager_Checkout_ClearsCart(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p2") // 100, free shipping

	result, err := f.manager.Checkout(ctx, "u1", "")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.ItemCount != 1 || result.Total != 100 {
		t.Fatalf("unexpected checkout result: %+v", result)
	}
	if result.AlreadyProcessed {
		t.Fatal("first checkout must not be flagged as a replay")
	}

	view, _ := f.manager.GetCart(ctx, "u1")
	if view.ItemCount != 0 {
		t.Fatal("checkout must clear the cart")
	}

	events := f.publisher.published()
	last := events[len(events)-1]
	if last.Action != domain.ActionCheckout || last.Total != 100 {
		t.Fatalf("expected checkout activity event, got %+v", last)
	}
}

func TestCartManager_Checkout_IdempotencyReplay(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1")

	first, err := f.manager.Checkout(ctx, "u1", "key-1")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if first.AlreadyProcessed {
		t.Fatal("first checkout must process normally")
	}

	second, err := f.manager.Checkout(ctx, "u1", "key-1")
	if err != nil {
		t.Fatalf("replayed checkout must not error: %v", err)
	}
	if !second.AlreadyProcessed {
		t.Fatal("repeated idempotency key must be absorbed")
	}
}

func TestCartManager_Checkout_DistinctKeysProcessSeparately(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.manager.AddItem(ctx, "u1", "p1")
	if _, err := f.manager.Checkout(ctx, "u1", "key-1"); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// A new purchase with a new key goes through.
	_, _ = f.manager.AddItem(ctx, "u1", "p1")
	result, err := f.manager.Checkout(ctx, "u1", "key-2")
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if result.AlreadyProcessed {
		t.Fatal("a fresh key must not be treated as a replay")
	}
}

func TestCartManager_AddItem_SaveError(t *testing.T) {
	f := newCartFixture()
	f.repo.saveErr = errors.New("redis down")

	_, err := f.manager.AddItem(context.Background(), "u1", "p1")
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
}
