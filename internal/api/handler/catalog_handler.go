package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zapastore/storefront/internal/core/domain"
	"github.com/zapastore/storefront/internal/core/ports"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	catalog  ports.CatalogService
	products ports.ProductRepository
}

func NewCatalogHandler(catalog ports.CatalogService, products ports.ProductRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, products: products}
}

// List handles GET /products.
//
// @Summary      List visible products
// @Tags         catalog
// @Produce      json
// @Param        search    query     string  false  "Substring match against brand, model and description"
// @Param        category  query     string  false  "Category filter ('all' disables it)"
// @Param        sort      query     string  false  "Sort key"  Enums(name_asc, name_desc, price_asc, price_desc, stock_desc)
// @Success      200       {object}  listProductsResponse
// @Failure      503       {object}  errorResponse
// @Router       /products [get]
func (h *CatalogHandler) List(c echo.Context) error {
	if !h.catalog.Loaded() {
		return domain.ErrCatalogUnavailable
	}

	criteria := domain.DefaultCriteria()
	if search := c.QueryParam("search"); search != "" {
		criteria.Search = search
	}
	if category := c.QueryParam("category"); category != "" {
		criteria.Category = category
	}
	if key := domain.SortKey(c.QueryParam("sort")); domain.ValidSortKey(key) {
		criteria.Sort = key
	}

	visible := h.catalog.DeriveVisible(criteria)
	return c.JSON(http.StatusOK, toListResponse(visible, h.catalog.Size()))
}

// ListByCategory handles GET /products/category/:category, the path alias
// of ?category=.
//
// @Summary      List products in a category
// @Tags         catalog
// @Produce      json
// @Param        category  path      string  true  "Category"
// @Success      200       {object}  listProductsResponse
// @Failure      503       {object}  errorResponse
// @Router       /products/category/{category} [get]
func (h *CatalogHandler) ListByCategory(c echo.Context) error {
	if !h.catalog.Loaded() {
		return domain.ErrCatalogUnavailable
	}

	criteria := domain.DefaultCriteria()
	criteria.Category = c.Param("category")
	visible := h.catalog.DeriveVisible(criteria)
	return c.JSON(http.StatusOK, toListResponse(visible, h.catalog.Size()))
}

// Search handles GET /products/search/:term, the path alias of ?search=.
//
// @Summary      Search products
// @Tags         catalog
// @Produce      json
// @Param        term  path      string  true  "Search term"
// @Success      200   {object}  listProductsResponse
// @Failure      503   {object}  errorResponse
// @Router       /products/search/{term} [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	if !h.catalog.Loaded() {
		return domain.ErrCatalogUnavailable
	}

	criteria := domain.DefaultCriteria()
	criteria.Search = c.Param("term")
	visible := h.catalog.DeriveVisible(criteria)
	return c.JSON(http.StatusOK, toListResponse(visible, h.catalog.Size()))
}

// Create handles POST /v1/products (admin only). The snapshot is reloaded
// after the write so the new product is immediately visible.
//
// @Summary      Create a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product details"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	product := toDomainProduct(req)
	created, err := h.products.Create(c.Request().Context(), &product)
	if err != nil {
		return err
	}

	h.reload(c)
	return c.JSON(http.StatusCreated, toProductResponse(*created))
}

// Update handles PUT /v1/products/:id (admin only).
//
// @Summary      Update a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product details"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products/{id} [put]
func (h *CatalogHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	id := c.Param("id")
	product := toDomainProduct(req)
	if err := h.products.Update(c.Request().Context(), id, &product); err != nil {
		return err
	}

	h.reload(c)
	product.ID = id
	return c.JSON(http.StatusOK, toProductResponse(product.Normalize()))
}

// Refresh handles POST /v1/catalog/refresh (admin only): forces a snapshot
// reload outside the periodic schedule.
//
// @Summary      Reload the catalog snapshot
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  refreshResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c echo.Context) error {
	if err := h.catalog.Load(c.Request().Context()); err != nil {
		return domain.ErrCatalogUnavailable
	}
	return c.JSON(http.StatusOK, refreshResponse{
		Message: "catalog reloaded",
		Count:   h.catalog.Size(),
	})
}

// reload refreshes the snapshot after an admin write; a failure keeps the
// previous snapshot and is already logged by the store.
func (h *CatalogHandler) reload(c echo.Context) {
	_ = h.catalog.Load(c.Request().Context())
}
