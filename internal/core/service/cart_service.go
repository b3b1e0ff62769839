package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/zapastore/storefront/internal/api/metrics"
	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
)

// CheckoutGuard abstracts the idempotency store (Redis) used to absorb
// double-submitted checkouts.
type CheckoutGuard interface {
	Seen(ctx context.Context, userID, key string) (bool, error)
	Mark(ctx context.Context, userID, key string) error
}

// ActivityPublisher hands cart activity to the background pipeline. Publish
// must not block on slow consumers.
type ActivityPublisher interface {
	Publish(input ports.CartActivityInput)
}

// CartManager implements ports.CartService. Carts are read whole, mutated
// in memory and written back whole after every operation, so the durable
// copy always reflects the last completed mutation.
type CartManager struct {
	catalog  ports.CatalogService
	carts    ports.CartRepository
	guard    CheckoutGuard
	activity ActivityPublisher

	shippingFee     float64
	freeShippingMin float64
	logger          zerolog.Logger
}

func NewCartManager(
	catalog ports.CatalogService,
	carts ports.CartRepository,
	guard CheckoutGuard,
	activity ActivityPublisher,
	shippingFee, freeShippingMin float64,
	logger zerolog.Logger,
) *CartManager {
	return &CartManager{
		catalog:         catalog,
		carts:           carts,
		guard:           guard,
		activity:        activity,
		shippingFee:     shippingFee,
		freeShippingMin: freeShippingMin,
		logger:          logger,
	}
}

// GetCart returns the user's cart with computed totals.
func (m *CartManager) GetCart(ctx context.Context, userID string) (*ports.CartView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	cart, err := m.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return m.view(cart), nil
}

// AddItem adds one unit of the product to the cart: an existing line has
// its quantity incremented, otherwise a new line is appended with a name
// and price snapshot taken from the current catalog. The product must
// exist in the last loaded snapshot.
func (m *CartManager) AddItem(ctx context.Context, userID, productID string) (*ports.CartView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	product, ok := m.catalog.Lookup(productID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	cart, err := m.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	now := time.Now().UTC()
	cart.Add(product, now)

	if err := m.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	metrics.CartOpsTotal.WithLabelValues(string(domain.ActionItemAdded)).Inc()
	m.publish(ports.CartActivityInput{
		UserID:    userID,
		Action:    domain.ActionItemAdded,
		ProductID: productID,
		Quantity:  1,
		Timestamp: now,
	})

	m.logger.Info().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("items", cart.ItemCount()).
		Msg("item added to cart")

	return m.view(cart), nil
}

// ChangeQuantity applies delta to the line at lineIndex. A resulting
// quantity of zero or less removes the line entirely. An out-of-range
// index is a silent no-op; the unchanged cart is returned.
func (m *CartManager) ChangeQuantity(ctx context.Context, userID string, lineIndex, delta int) (*ports.CartView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	cart, err := m.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("change quantity: %w", err)
	}

	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return m.view(cart), nil
	}

	now := time.Now().UTC()
	productID := cart.Lines[lineIndex].ProductID
	cart.ChangeQuantity(lineIndex, delta, now)

	if err := m.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("change quantity: %w", err)
	}

	metrics.CartOpsTotal.WithLabelValues(string(domain.ActionQuantityChanged)).Inc()
	m.publish(ports.CartActivityInput{
		UserID:    userID,
		Action:    domain.ActionQuantityChanged,
		ProductID: productID,
		Quantity:  delta,
		Timestamp: now,
	})

	return m.view(cart), nil
}

// RemoveItem deletes the line at lineIndex unconditionally. An out-of-range
// index is a silent no-op.
func (m *CartManager) RemoveItem(ctx context.Context, userID string, lineIndex int) (*ports.CartView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	cart, err := m.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}

	if lineIndex < 0 || lineIndex >= len(cart.Lines) {
		return m.view(cart), nil
	}

	now := time.Now().UTC()
	productID := cart.Lines[lineIndex].ProductID
	cart.Remove(lineIndex, now)

	if err := m.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}

	metrics.CartOpsTotal.WithLabelValues(string(domain.ActionItemRemoved)).Inc()
	m.publish(ports.CartActivityInput{
		UserID:    userID,
		Action:    domain.ActionItemRemoved,
		ProductID: productID,
		Timestamp: now,
	})

	return m.view(cart), nil
}

// Checkout clears the persisted cart. No order record is created; this is
// a local reset, mirrored only into the activity trail. A repeated request
// carrying the same idempotency key is absorbed without clearing twice.
func (m *CartManager) Checkout(ctx context.Context, userID, idempotencyKey string) (*ports.CheckoutResult, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	if idempotencyKey != "" {
		seen, err := m.guard.Seen(ctx, userID, idempotencyKey)
		if err != nil {
			m.logger.Warn().Err(err).Str("user_id", userID).Msg("checkout dedup check failed, processing anyway")
		} else if seen {
			metrics.CheckoutsTotal.WithLabelValues("replay").Inc()
			return &ports.CheckoutResult{AlreadyProcessed: true}, nil
		}
	}

	cart, err := m.carts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	totals := cart.ComputeTotals(m.shippingFee, m.freeShippingMin)
	itemCount := cart.ItemCount()

	if idempotencyKey != "" {
		if err := m.guard.Mark(ctx, userID, idempotencyKey); err != nil {
			m.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to set checkout dedup key")
		}
	}

	if err := m.carts.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	now := time.Now().UTC()
	metrics.CheckoutsTotal.WithLabelValues("ok").Inc()
	metrics.CheckoutValue.Observe(totals.Total)
	m.publish(ports.CartActivityInput{
		UserID:    userID,
		Action:    domain.ActionCheckout,
		Quantity:  itemCount,
		Total:     totals.Total,
		Timestamp: now,
	})

	m.logger.Info().
		Str("user_id", userID).
		Int("items", itemCount).
		Float64("total", totals.Total).
		Msg("checkout completed")

	return &ports.CheckoutResult{ItemCount: itemCount, Total: totals.Total}, nil
}

func (m *CartManager) view(cart *domain.Cart) *ports.CartView {
	return &ports.CartView{
		Lines:     cart.Lines,
		Totals:    cart.ComputeTotals(m.shippingFee, m.freeShippingMin),
		ItemCount: cart.ItemCount(),
	}
}

func (m *CartManager) publish(input ports.CartActivityInput) {
	if m.activity != nil {
		m.activity.Publish(input)
	}
}
