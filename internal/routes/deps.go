// Package routes wires the handlers onto the router. Each surface
// (storefront, admin, webhook) has its own registration function and
// dependency struct.
package routes

import (
	"github.com/ngocanhle/pawshop/internal/handler/admin"
	"github.com/ngocanhle/pawshop/internal/handler/storefront"
	"github.com/ngocanhle/pawshop/internal/handler/webhook"
)

// StorefrontDeps contains dependencies for storefront routes
type StorefrontDeps struct {
	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler

	// Orders and loyalty points
	OrderHandler *storefront.OrderHandler

	// Pet-service bookings
	BookingHandler *storefront.BookingHandler
}

// AdminDeps contains dependencies for admin routes
type AdminDeps struct {
	// Orders
	OrderHandler *admin.OrderHandler

	// Promotions
	PromotionHandler *admin.PromotionHandler

	// Bookings
	BookingHandler *admin.BookingHandler
}

// WebhookDeps contains dependencies for payment callback routes
type WebhookDeps struct {
	VNPayHandler *webhook.VNPayHandler
	MoMoHandler  *webhook.MoMoHandler
}
