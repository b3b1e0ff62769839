package handler

import (
	"github.com/zapastore/storefront/internal/core/ports"
)

func toCartResponse(view *ports.CartView) cartResponse {
	lines := make([]cartLineResponse, len(view.Lines))
	for i, line := range view.Lines {
		lines[i] = cartLineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			AddedAt:   line.AddedAt.UTC(),
		}
	}
	return cartResponse{
		Lines: lines,
		Totals: totalsResponse{
			Subtotal: view.Totals.Subtotal,
			Shipping: view.Totals.Shipping,
			Total:    view.Totals.Total,
		},
		ItemCount: view.ItemCount,
	}
}
