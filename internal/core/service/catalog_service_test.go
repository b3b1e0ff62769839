package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zapastore/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type loadResponse struct {
	products []domain.Product
	err      error
	// entered is closed when FindAll starts; release, when non-nil, blocks
	// FindAll until closed. Used to interleave concurrent loads.
	entered chan struct{}
	release chan struct{}
}

type stubProductRepo struct {
	mu        sync.Mutex
	responses []loadResponse
	calls     int
}

func (r *stubProductRepo) queue(resp loadResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	if len(r.responses) == 0 {
		r.mu.Unlock()
		return nil, errors.New("no stubbed response")
	}
	resp := r.responses[0]
	r.responses = r.responses[1:]
	r.calls++
	r.mu.Unlock()

	if resp.entered != nil {
		close(resp.entered)
	}
	if resp.release != nil {
		<-resp.release
	}
	return resp.products, resp.err
}

func (r *stubProductRepo) FindByID(_ context.Context, _ string) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, _ string, _ *domain.Product) error {
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: "1", Brand: "Nike", Model: "Air Max", Description: "Classic runner", Category: "running", Price: 120, Stock: 10},
		{ID: "2", Brand: "Adidas", Model: "Ultraboost", Description: "Cushioned trainer", Category: "running", Price: 150, Stock: 5},
		{ID: "3", Brand: "Puma", Model: "RS-X", Description: "Retro street shoe", Category: "casual", Price: 100, Stock: 7},
	}
}

func loadedStore(t *testing.T, products []domain.Product) (*CatalogStore, *stubProductRepo) {
	t.Helper()
	repo := &stubProductRepo{}
	repo.queue(loadResponse{products: products})
	store := NewCatalogStore(repo, discardLogger)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return store, repo
}

func visibleIDs(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// ---------------------------------------------------------------------------
// Load tests
// ---------------------------------------------------------------------------

func TestCatalogStore_Load_Success(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	if !store.Loaded() {
		t.Fatal("expected Loaded()=true after successful load")
	}
	if store.Size() != 3 {
		t.Fatalf("expected 3 products, got %d", store.Size())
	}
}

func TestCatalogStore_Load_NormalizesRecords(t *testing.T) {
	store, _ := loadedStore(t, []domain.Product{
		{ID: "1", Price: -5, Stock: -1},
	})

	p, ok := store.Lookup("1")
	if !ok {
		t.Fatal("expected product to be in snapshot")
	}
	if p.Model != "Product" || p.Brand != "Brand" {
		t.Fatalf("expected placeholders on missing fields, got %q %q", p.Brand, p.Model)
	}
	if p.Price != 0 || p.Stock != 0 {
		t.Fatalf("expected coerced numerics, got price=%v stock=%v", p.Price, p.Stock)
	}
}

func TestCatalogStore_Load_ErrorKeepsPriorSnapshot(t *testing.T) {
	store, repo := loadedStore(t, catalogFixture())

	repo.queue(loadResponse{err: errors.New("db unavailable")})
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error from failed load")
	}

	if store.Size() != 3 {
		t.Fatalf("failed load must keep the prior snapshot, got size %d", store.Size())
	}
	if !store.Loaded() {
		t.Fatal("store must stay loaded after a failed reload")
	}
}

func TestCatalogStore_Load_ErrorOnFirstLoadLeavesEmpty(t *testing.T) {
	repo := &stubProductRepo{}
	repo.queue(loadResponse{err: errors.New("boom")})
	store := NewCatalogStore(repo, discardLogger)

	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if store.Loaded() {
		t.Fatal("store must not report loaded after a failed first load")
	}
	if store.Size() != 0 {
		t.Fatalf("expected empty snapshot, got %d", store.Size())
	}
}

func TestCatalogStore_Load_StaleResultDiscarded(t *testing.T) {
	repo := &stubProductRepo{}
	store := NewCatalogStore(repo, discardLogger)

	oldSet := []domain.Product{{ID: "old", Brand: "Old", Model: "Old"}}
	newSet := []domain.Product{{ID: "new", Brand: "New", Model: "New"}}

	entered := make(chan struct{})
	release := make(chan struct{})
	repo.queue(loadResponse{products: oldSet, entered: entered, release: release})
	repo.queue(loadResponse{products: newSet})

	// First load hangs inside the repository.
	done := make(chan error, 1)
	go func() {
		done <- store.Load(context.Background())
	}()
	<-entered

	// Second load starts later but finishes first.
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second load failed: %v", err)
	}

	// Now the slow first load completes; its result must be discarded.
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale load must not report an error: %v", err)
	}

	if _, ok := store.Lookup("new"); !ok {
		t.Fatal("newer snapshot was overwritten by a stale load result")
	}
	if _, ok := store.Lookup("old"); ok {
		t.Fatal("stale products leaked into the snapshot")
	}
}

// ---------------------------------------------------------------------------
// Criteria tests
// ---------------------------------------------------------------------------

func TestCatalogStore_SetSearch_Idempotent(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	first := store.SetSearch("air")
	second := store.SetSearch("air")

	firstIDs, secondIDs := visibleIDs(first), visibleIDs(second)
	if len(firstIDs) != len(secondIDs) {
		t.Fatalf("repeated SetSearch changed result size: %v vs %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("repeated SetSearch changed result: %v vs %v", firstIDs, secondIDs)
		}
	}
}

func TestCatalogStore_SetCategory_EmptyMeansAll(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	visible := store.SetCategory("")
	if len(visible) != 3 {
		t.Fatalf("empty category must show the full catalog, got %d", len(visible))
	}
}

func TestCatalogStore_SetSort_UnknownKeyFallsBack(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	visible := store.SetSort("bogus")

	// Default order is name ascending: Adidas, Nike, Puma.
	got := visibleIDs(visible)
	if got[0] != "2" || got[1] != "1" || got[2] != "3" {
		t.Fatalf("unknown sort key must fall back to name ascending, got %v", got)
	}
}

func TestCatalogStore_CriteriaCombine(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	store.SetCategory("running")
	visible := store.SetSort(domain.SortPriceDesc)

	got := visibleIDs(visible)
	if len(got) != 2 || got[0] != "2" || got[1] != "1" {
		t.Fatalf("expected running shoes by descending price [2 1], got %v", got)
	}
}

func TestCatalogStore_DeriveVisible_DoesNotTouchStoredCriteria(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())
	store.SetSearch("air")

	_ = store.DeriveVisible(domain.FilterCriteria{Search: "puma", Category: domain.CategoryAll, Sort: domain.SortNameAsc})

	visible := store.Visible()
	if len(visible) != 1 || visible[0].ID != "1" {
		t.Fatalf("stored criteria were clobbered, visible=%v", visibleIDs(visible))
	}
}

func TestCatalogStore_Lookup(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	if _, ok := store.Lookup("2"); !ok {
		t.Fatal("expected product 2 in snapshot")
	}
	if _, ok := store.Lookup("missing"); ok {
		t.Fatal("did not expect a hit for unknown id")
	}
}

func TestCatalogStore_VisibleReturnsCopy(t *testing.T) {
	store, _ := loadedStore(t, catalogFixture())

	visible := store.Visible()
	if len(visible) == 0 {
		t.Fatal("expected visible products")
	}
	visible[0].Brand = "mutated"

	again := store.Visible()
	if again[0].Brand == "mutated" {
		t.Fatal("Visible must return a copy, not the internal slice")
	}
}
