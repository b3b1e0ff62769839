package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zapastore/storefront/internal/core/ports"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Get handles GET /v1/cart.
//
// @Summary      Get the cart with totals
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetCart(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// AddItem handles POST /v1/cart/items.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addItemRequest  true  "Product reference"
// @Success      200   {object}  cartResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	view, err := h.service.AddItem(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// ChangeQuantity handles PATCH /v1/cart/items/:index. A delta that drops
// the line's quantity to zero or below removes the line.
//
// @Summary      Change a line's quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      int                    true  "Line index"
// @Param        body   body      changeQuantityRequest  true  "Quantity delta"
// @Success      200    {object}  cartResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/cart/items/{index} [patch]
func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	index, err := lineIndex(c)
	if err != nil {
		return err
	}

	var req changeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.Delta == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "delta must be non-zero")
	}

	view, err := h.service.ChangeQuantity(c.Request().Context(), userID, index, req.Delta)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// RemoveItem handles DELETE /v1/cart/items/:index.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        index  path      int  true  "Line index"
// @Success      200    {object}  cartResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	index, err := lineIndex(c)
	if err != nil {
		return err
	}

	view, err := h.service.RemoveItem(c.Request().Context(), userID, index)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCartResponse(view))
}

// Checkout handles POST /v1/cart/checkout. No order record is created; the
// persisted cart is cleared and the result reported.
//
// @Summary      Check out the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Idempotency key to absorb duplicate submissions"
// @Success      200              {object}  checkoutResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /v1/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	userID, _, err := ctxUser(c)
	if err != nil {
		return err
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	result, err := h.service.Checkout(c.Request().Context(), userID, idempotencyKey)
	if err != nil {
		return err
	}

	if result.AlreadyProcessed {
		return c.JSON(http.StatusOK, checkoutResponse{
			Message:          "checkout already processed",
			AlreadyProcessed: true,
		})
	}
	return c.JSON(http.StatusOK, checkoutResponse{
		Message:   "checkout completed",
		ItemCount: result.ItemCount,
		Total:     result.Total,
	})
}

func lineIndex(c echo.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid line index")
	}
	return index, nil
}
