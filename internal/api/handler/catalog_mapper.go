package handler

import (
	"github.com/zapastore/storefront/internal/core/domain"
)

// --- Request → domain ---

func toDomainProduct(req productRequest) domain.Product {
	return domain.Product{
		Brand:       req.Brand,
		Model:       req.Model,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Size:        req.Size,
		Color:       req.Color,
	}
}

// --- Domain → HTTP response ---

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.DisplayName(),
		Brand:       p.Brand,
		Model:       p.Model,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Size:        p.Size,
		Color:       p.Color,
	}
}

func toListResponse(visible []domain.Product, total int) listProductsResponse {
	data := make([]productResponse, len(visible))
	for i, p := range visible {
		data[i] = toProductResponse(p)
	}
	return listProductsResponse{
		Data:  data,
		Count: len(data),
		Total: total,
	}
}
