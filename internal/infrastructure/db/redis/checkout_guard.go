package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const checkoutTTL = 24 * time.Hour

// CheckoutGuard provides checkout idempotency checks backed by Redis.
// Key format: checkout:<user_id>:<idempotency_key>
type CheckoutGuard struct {
	client *redis.Client
}

// NewCheckoutGuard creates a CheckoutGuard wrapping the given Redis client.
func NewCheckoutGuard(client *redis.Client) *CheckoutGuard {
	return &CheckoutGuard{client: client}
}

// Seen reports whether a checkout with this key has already been processed.
func (g *CheckoutGuard) Seen(ctx context.Context, userID, key string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(userID, key)).Result()
	if err != nil {
		return false, fmt.Errorf("checkout dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this checkout has been processed (expires after checkoutTTL).
func (g *CheckoutGuard) Mark(ctx context.Context, userID, key string) error {
	return g.client.Set(ctx, g.key(userID, key), "1", checkoutTTL).Err()
}

func (g *CheckoutGuard) key(userID, key string) string {
	return fmt.Sprintf("checkout:%s:%s", userID, key)
}
