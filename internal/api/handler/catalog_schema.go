package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type productRequest struct {
	Brand       string  `json:"brand"       validate:"required"`
	Model       string  `json:"model"       validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
}

// Response-only types owned by the transport layer.
// These are intentionally separate from domain types so the JSON contract
// is not coupled to internal service changes.

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Model       string  `json:"model"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Size        string  `json:"size,omitempty"`
	Color       string  `json:"color,omitempty"`
}

// listProductsResponse always carries a non-nil data array; an empty
// catalog serves data:[] with count 0 so clients can render an explicit
// "no products" state.
type listProductsResponse struct {
	Data  []productResponse `json:"data"`
	Count int               `json:"count"`
	Total int               `json:"total"`
}

type refreshResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
