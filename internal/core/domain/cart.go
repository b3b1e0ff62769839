package domain

import "time"

// CartLine is a single product entry in a user's cart. Name and UnitPrice
// are snapshots captured when the product was first added; a later catalog
// price change does not reprice lines already in the cart.
type CartLine struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart holds the line items of one user. It is persisted whole after every
// mutation, so the in-memory value is always a full copy of durable state.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the given user.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID}
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineIndex returns the index of the line holding productID, or -1.
func (c *Cart) LineIndex(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new line
// with quantity 1 and a price snapshot taken from the product.
func (c *Cart) Add(p Product, now time.Time) {
	if i := c.LineIndex(p.ID); i >= 0 {
		c.Lines[i].Quantity++
	} else {
		c.Lines = append(c.Lines, CartLine{
			ProductID: p.ID,
			Name:      p.DisplayName(),
			UnitPrice: p.Price,
			Quantity:  1,
			AddedAt:   now,
		})
	}
	c.UpdatedAt = now
}

// ChangeQuantity applies delta to the line at index. A resulting quantity
// of zero or less removes the line. An out-of-range index is a no-op.
func (c *Cart) ChangeQuantity(index, delta int, now time.Time) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines[index].Quantity += delta
	if c.Lines[index].Quantity <= 0 {
		c.Remove(index, now)
		return
	}
	c.UpdatedAt = now
}

// Remove deletes the line at index. An out-of-range index is a no-op.
func (c *Cart) Remove(index int, now time.Time) {
	if index < 0 || index >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	c.UpdatedAt = now
}

// ItemCount is the sum of line quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Totals is the price breakdown of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals sums unit price times quantity over all lines and applies
// the shipping rule: free above freeShippingMin, otherwise shippingFee.
// An empty cart has zero totals. Pure; no side effects.
func (c *Cart) ComputeTotals(shippingFee, freeShippingMin float64) Totals {
	if c.IsEmpty() {
		return Totals{}
	}
	var subtotal float64
	for _, line := range c.Lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	shipping := shippingFee
	if subtotal > freeShippingMin {
		shipping = 0
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal + shipping,
	}
}
