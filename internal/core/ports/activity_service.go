package ports

import (
	"context"
	"time"

	"github.com/zapastore/storefront/internal/core/domain"
)

// CartActivityInput is the DTO handed from the cart service to the activity
// pipeline.
type CartActivityInput struct {
	UserID    string
	Action    domain.CartAction
	ProductID string
	Quantity  int
	Total     float64
	Timestamp time.Time
}

// ActivityService records cart activity entries.
type ActivityService interface {
	Record(ctx context.Context, input CartActivityInput) error
}
