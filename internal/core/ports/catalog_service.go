package ports

import (
	"context"

	"github.com/zapastore/storefront/internal/core/domain"
)

// CatalogService owns the in-memory product snapshot and the active filter
// criteria, and derives the visible product subset on demand.
type CatalogService interface {
	// Load replaces the snapshot from the product repository. On failure the
	// prior snapshot is left untouched. A load that completes after a newer
	// load has already been applied is discarded.
	Load(ctx context.Context) error

	// SetSearch, SetCategory and SetSort mutate the stored criteria and
	// return the re-derived visible subset.
	SetSearch(text string) []domain.Product
	SetCategory(category string) []domain.Product
	SetSort(key domain.SortKey) []domain.Product

	// DeriveVisible computes the visible subset for arbitrary criteria
	// without touching the stored ones.
	DeriveVisible(criteria domain.FilterCriteria) []domain.Product

	// Visible returns the subset last derived from the stored criteria.
	Visible() []domain.Product

	// Lookup finds a product in the current snapshot by id.
	Lookup(id string) (domain.Product, bool)

	// Size returns the number of products in the snapshot; Loaded reports
	// whether an initial load has succeeded.
	Size() int
	Loaded() bool
}
