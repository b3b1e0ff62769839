package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zapastore/storefront/internal/core/domain"
)

// CartStore persists one cart per user as a JSON document under
// cart:<user_id>. Carts have no TTL; they survive page reloads and logins
// until checkout clears them.
type CartStore struct {
	client *redis.Client
}

// NewCartStore creates a CartStore wrapping the given Redis client.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// Get loads the user's cart. A missing key yields an empty cart.
func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err == redis.Nil {
		return domain.NewCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart get: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	cart.UserID = userID
	return &cart, nil
}

// Save writes the full cart, replacing whatever was stored before.
func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(cart.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

// Clear deletes the user's cart key entirely.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}

func (s *CartStore) key(userID string) string {
	return "cart:" + userID
}
