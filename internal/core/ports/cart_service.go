package ports

import (
	"context"

	"github.com/zapastore/storefront/internal/core/domain"
)

// CartView is the cart as returned to the transport layer: its lines plus
// the computed price breakdown.
type CartView struct {
	Lines     []domain.CartLine
	Totals    domain.Totals
	ItemCount int
}

// CheckoutResult is returned by a successful checkout.
type CheckoutResult struct {
	ItemCount int
	Total     float64
	// AlreadyProcessed is true when the Idempotency-Key matched a checkout
	// that already went through; the cart was not cleared a second time.
	AlreadyProcessed bool
}

// CartService defines use-case operations on a user's cart. Every method
// requires a non-empty userID and returns domain.ErrUnauthenticated
// otherwise.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*CartView, error)
	AddItem(ctx context.Context, userID, productID string) (*CartView, error)
	ChangeQuantity(ctx context.Context, userID string, lineIndex, delta int) (*CartView, error)
	RemoveItem(ctx context.Context, userID string, lineIndex int) (*CartView, error)
	Checkout(ctx context.Context, userID, idempotencyKey string) (*CheckoutResult, error)
}
