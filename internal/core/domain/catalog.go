package domain

import (
	"sort"
	"strings"
)

// SortKey selects the comparator applied to the visible product subset.
type SortKey string

const (
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortStockDesc SortKey = "stock_desc"
)

// ValidSortKey reports whether k is one of the five supported sort keys.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortStockDesc:
		return true
	}
	return false
}

// CategoryAll disables category filtering.
const CategoryAll = "all"

// FilterCriteria is the active search/filter/sort selection. The zero value
// is not usable; start from DefaultCriteria.
type FilterCriteria struct {
	Search   string
	Category string
	Sort     SortKey
}

// DefaultCriteria returns the criteria applied before any user interaction:
// no search text, every category, name ascending.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: CategoryAll, Sort: SortNameAsc}
}

// DeriveVisible computes sort(filter(products, criteria)) without mutating
// its input. The sort is stable: products with equal keys keep the relative
// order they had in the snapshot.
func DeriveVisible(products []Product, criteria FilterCriteria) []Product {
	visible := make([]Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(p, criteria.Search) && matchesCategory(p, criteria.Category) {
			visible = append(visible, p)
		}
	}
	sortProducts(visible, criteria.Sort)
	return visible
}

// matchesSearch is a case-insensitive substring match against brand, model
// and description; any field matching is enough.
func matchesSearch(p Product, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Brand), q) ||
		strings.Contains(strings.ToLower(p.Model), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}

// matchesCategory uses substring inclusion against brand, category and
// model. A category filter can therefore match unrelated products whose
// name happens to contain the category string; this mirrors how the
// storefront has always behaved and callers rely on it.
func matchesCategory(p Product, category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" || c == CategoryAll {
		return true
	}
	return strings.Contains(strings.ToLower(p.Brand), c) ||
		strings.Contains(strings.ToLower(p.Category), c) ||
		strings.Contains(strings.ToLower(p.Model), c)
}

func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return lowerName(products[i]) > lowerName(products[j])
		})
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case SortStockDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Stock > products[j].Stock
		})
	default: // SortNameAsc and anything unrecognised
		sort.SliceStable(products, func(i, j int) bool {
			return lowerName(products[i]) < lowerName(products[j])
		})
	}
}

func lowerName(p Product) string {
	return strings.ToLower(p.DisplayName())
}
