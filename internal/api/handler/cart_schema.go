package handler

import "time"

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type cartLineResponse struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type totalsResponse struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

type cartResponse struct {
	Lines     []cartLineResponse `json:"lines"`
	Totals    totalsResponse     `json:"totals"`
	ItemCount int                `json:"item_count"`
}

type checkoutResponse struct {
	Message          string  `json:"message"`
	ItemCount        int     `json:"item_count,omitempty"`
	Total            float64 `json:"total,omitempty"`
	AlreadyProcessed bool    `json:"already_processed,omitempty"`
}
