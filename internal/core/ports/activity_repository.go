package ports

import (
	"context"

	"github.com/zapastore/storefront/internal/core/domain"
)

// ActivityRepository persists cart activity entries to the audit collection.
type ActivityRepository interface {
	Insert(ctx context.Context, activity *domain.CartActivity) error
}
