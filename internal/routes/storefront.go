package routes

import (
	"github.com/ngocanhle/pawshop/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing routes.
// Ownership and authentication checks live in the service layer, so
// unauthenticated requests pass through and fail with proper error codes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.AddItem)
	r.Delete("/cart/items/{size_id}", deps.CartHandler.RemoveItem)
	r.Delete("/cart", deps.CartHandler.Clear)

	// Checkout
	r.Post("/checkout", deps.CheckoutHandler.Checkout)
	r.Post("/checkout/promotion", deps.CheckoutHandler.ValidatePromotion)

	// Orders
	r.Get("/orders", deps.OrderHandler.List)
	r.Get("/orders/{id}", deps.OrderHandler.Get)
	r.Post("/orders/{id}/cancel", deps.OrderHandler.Cancel)

	// Loyalty points
	r.Get("/points", deps.OrderHandler.Points)

	// Bookings
	r.Post("/bookings", deps.BookingHandler.Create)
	r.Get("/bookings", deps.BookingHandler.List)
	r.Get("/bookings/{id}", deps.BookingHandler.Get)
	r.Post("/bookings/{id}/cancel", deps.BookingHandler.Cancel)
	r.Get("/services", deps.BookingHandler.Services)
	r.Get("/pets", deps.BookingHandler.Pets)
}
