package ports

import (
	"context"

	"github.com/zapastore/storefront/internal/core/domain"
)

// CartRepository persists one cart per user under a durable key. Get on a
// user with no stored cart returns an empty cart, not an error.
type CartRepository interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}
