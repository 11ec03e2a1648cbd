package routes

import (
	"github.com/ngocanhle/pawshop/internal/router"
)

// RegisterWebhookRoutes registers all payment callback routes.
//
// Note: Webhook routes do NOT have authentication middleware.
// Each handler verifies the gateway signature over the callback
// parameters before acting on them.
func RegisterWebhookRoutes(r *router.Router, deps WebhookDeps) {
	r.Get("/payments/vnpay/return", deps.VNPayHandler.Return)
	r.Get("/payments/momo/return", deps.MoMoHandler.Return)
	r.Post("/payments/momo/notify", deps.MoMoHandler.Notify)
}
