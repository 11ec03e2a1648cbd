// Package storefront contains the customer-facing JSON handlers: cart,
// checkout, orders, loyalty points and pet-service bookings.
package storefront

import (
	"net/http"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// CartHandler handles all cart-related storefront routes
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal int64             `json:"subtotal"`
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, subtotal, err := h.cartService.GetCart(ctx, domain.CartTokenFromContext(ctx))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, cartResponse{Items: items, Subtotal: subtotal})
}

type addItemRequest struct {
	SizeID   int64 `json:"size_id" validate:"required,gt=0"`
	Quantity int32 `json:"quantity" validate:"required,min=1"`
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("cart.add", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items, err := h.cartService.AddToCart(ctx, domain.CartTokenFromContext(ctx), req.SizeID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, cartResponse{Items: items, Subtotal: subtotalOf(items)})
}

// RemoveItem handles DELETE /cart/items/{size_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sizeID, err := handler.PathID(r, "size_id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	items, err := h.cartService.RemoveFromCart(ctx, domain.CartTokenFromContext(ctx), sizeID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, cartResponse{Items: items, Subtotal: subtotalOf(items)})
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.cartService.ClearCart(ctx, domain.CartTokenFromContext(ctx)); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, cartResponse{Items: []domain.CartItem{}})
}

func subtotalOf(items []domain.CartItem) int64 {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	return subtotal
}
