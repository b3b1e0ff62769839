package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zapastore/storefront/internal/api/metrics"
	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
)

// CatalogStore holds the product snapshot, the active filter criteria and
// the last derived visible subset. It implements ports.CatalogService.
//
// Loads are sequence-numbered: each Load takes a ticket before fetching and
// only applies its result if no younger load finished first, so a slow
// fetch can never overwrite a fresher snapshot with stale data.
type CatalogStore struct {
	repo   ports.ProductRepository
	logger zerolog.Logger

	mu         sync.RWMutex
	products   []domain.Product
	criteria   domain.FilterCriteria
	visible    []domain.Product
	loaded     bool
	nextSeq    uint64
	appliedSeq uint64
}

func NewCatalogStore(repo ports.ProductRepository, logger zerolog.Logger) *CatalogStore {
	return &CatalogStore{
		repo:     repo,
		logger:   logger,
		criteria: domain.DefaultCriteria(),
	}
}

// Load fetches the full product collection and replaces the snapshot. On a
// repository error the prior snapshot (or the empty initial one) is left
// untouched and the error is returned for the caller to surface; there is
// no automatic retry.
func (s *CatalogStore) Load(ctx context.Context) error {
	s.mu.Lock()
	s.nextSeq++
	seq := s.nextSeq
	s.mu.Unlock()

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		metrics.CatalogLoadsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("catalog load failed, keeping previous snapshot")
		return fmt.Errorf("catalog load: %w", err)
	}

	normalized := make([]domain.Product, len(items))
	for i, p := range items {
		normalized[i] = p.Normalize()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.appliedSeq {
		metrics.CatalogLoadsTotal.WithLabelValues("stale").Inc()
		s.logger.Warn().
			Uint64("seq", seq).
			Uint64("applied_seq", s.appliedSeq).
			Msg("discarding stale catalog load result")
		return nil
	}

	s.appliedSeq = seq
	s.products = normalized
	s.loaded = true
	s.visible = domain.DeriveVisible(s.products, s.criteria)

	metrics.CatalogLoadsTotal.WithLabelValues("ok").Inc()
	metrics.CatalogProducts.Set(float64(len(normalized)))
	s.logger.Info().Int("products", len(normalized)).Msg("catalog snapshot loaded")
	return nil
}

// SetSearch updates the search text and re-derives the visible subset.
func (s *CatalogStore) SetSearch(text string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.Search = text
	return s.rederiveLocked()
}

// SetCategory updates the category filter and re-derives the visible subset.
func (s *CatalogStore) SetCategory(category string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	s.criteria.Category = category
	return s.rederiveLocked()
}

// SetSort updates the sort key and re-derives the visible subset. An
// unknown key falls back to the default name-ascending order.
func (s *CatalogStore) SetSort(key domain.SortKey) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !domain.ValidSortKey(key) {
		key = domain.SortNameAsc
	}
	s.criteria.Sort = key
	return s.rederiveLocked()
}

func (s *CatalogStore) rederiveLocked() []domain.Product {
	s.visible = domain.DeriveVisible(s.products, s.criteria)
	return copyProducts(s.visible)
}

// DeriveVisible computes the visible subset for the given criteria against
// the current snapshot, without touching the stored criteria.
func (s *CatalogStore) DeriveVisible(criteria domain.FilterCriteria) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DeriveVisible(s.products, criteria)
}

// Visible returns the subset last derived from the stored criteria.
func (s *CatalogStore) Visible() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProducts(s.visible)
}

// Lookup finds a product in the current snapshot by id.
func (s *CatalogStore) Lookup(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Size returns the number of products in the snapshot.
func (s *CatalogStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Loaded reports whether an initial load has succeeded.
func (s *CatalogStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func copyProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}
