package routes

import (
	"github.com/ngocanhle/pawshop/internal/router"
)

// RegisterAdminRoutes registers all back-office routes. The services
// enforce the staff role; a customer hitting these gets a 403.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	// Orders
	r.Get("/admin/orders", deps.OrderHandler.List)
	r.Get("/admin/orders/{id}", deps.OrderHandler.Get)
	r.Patch("/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)

	// Promotions
	r.Get("/admin/promotions", deps.PromotionHandler.List)
	r.Post("/admin/promotions", deps.PromotionHandler.Create)
	r.Get("/admin/promotions/{id}", deps.PromotionHandler.Get)
	r.Patch("/admin/promotions/{id}", deps.PromotionHandler.Update)
	r.Delete("/admin/promotions/{id}", deps.PromotionHandler.Delete)
	r.Post("/admin/promotions/{id}/active", deps.PromotionHandler.SetActive)

	// Bookings
	r.Get("/admin/bookings", deps.BookingHandler.List)
	r.Get("/admin/bookings/{id}", deps.BookingHandler.Get)
	r.Patch("/admin/bookings/{id}/status", deps.BookingHandler.UpdateStatus)
}
