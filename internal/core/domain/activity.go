package domain

import "time"

// CartAction identifies what kind of cart mutation an activity entry records.
type CartAction string

const (
	ActionItemAdded       CartAction = "item_added"
	ActionQuantityChanged CartAction = "quantity_changed"
	ActionItemRemoved     CartAction = "item_removed"
	ActionCheckout        CartAction = "checkout"
)

// CartActivity is one entry in the cart audit trail. Recording it is
// best-effort; losing an entry never fails the mutation that produced it.
type CartActivity struct {
	EventID   string     `bson:"_id,omitempty"`
	UserID    string     `bson:"user_id"`
	Action    CartAction `bson:"action"`
	ProductID string     `bson:"product_id,omitempty"`
	Quantity  int        `bson:"quantity,omitempty"`
	Total     float64    `bson:"total,omitempty"`
	Timestamp time.Time  `bson:"timestamp"`
}
