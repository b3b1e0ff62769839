package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrProductNotFound = errors.New("product not found")
var ErrCatalogUnavailable = errors.New("catalog unavailable")
var ErrUnauthenticated = errors.New("authentication required")
var ErrEmptyCart = errors.New("cart is empty")

// Product is the canonical catalog record. Upstream records arrive in loose
// shapes (optional fields, inconsistent types across endpoint variants);
// Normalize is the single place where they are coerced into this shape.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Brand       string    `json:"brand" bson:"brand"`
	Model       string    `json:"model" bson:"model"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	Size        string    `json:"size,omitempty" bson:"size,omitempty"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

const (
	placeholderModel = "Product"
	placeholderBrand = "Brand"
)

// Normalize fills placeholder text for missing optional fields and clamps
// numeric fields so a malformed upstream record can never break a render
// or a sort comparator.
func (p Product) Normalize() Product {
	if strings.TrimSpace(p.Model) == "" {
		p.Model = placeholderModel
	}
	if strings.TrimSpace(p.Brand) == "" {
		p.Brand = placeholderBrand
	}
	if p.Price < 0 || p.Price != p.Price { // negative or NaN
		p.Price = 0
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	return p
}

// DisplayName is the name shown in listings and captured on cart lines.
func (p Product) DisplayName() string {
	name := strings.TrimSpace(p.Brand + " " + p.Model)
	if name == "" {
		return placeholderModel
	}
	return name
}
