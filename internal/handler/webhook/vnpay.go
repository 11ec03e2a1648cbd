// Package webhook contains the payment gateway callback handlers. These
// routes carry no session middleware; every request is authenticated by
// verifying the gateway's signature over the callback parameters.
package webhook

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// callbackResponse is the JSON body returned to the gateway redirect.
type callbackResponse struct {
	Status  string        `json:"status"`
	Order   *domain.Order `json:"order,omitempty"`
	Message string        `json:"message,omitempty"`
}

// VNPayHandler settles VNPay return callbacks
type VNPayHandler struct {
	checkoutService service.CheckoutService
	logger          *slog.Logger
}

// NewVNPayHandler creates a new VNPay callback handler
func NewVNPayHandler(checkoutService service.CheckoutService, logger *slog.Logger) *VNPayHandler {
	return &VNPayHandler{checkoutService: checkoutService, logger: logger}
}

// Return handles GET /payments/vnpay/return. VNPay sends the shopper back
// with the payment outcome in the query string, signed with the merchant
// secret.
func (h *VNPayHandler) Return(w http.ResponseWriter, r *http.Request) {
	order, err := h.checkoutService.ReconcileCallback(r.Context(), domain.PaymentMethodVNPay, r.URL.Query())
	if err != nil {
		if errors.Is(err, domain.ErrPaymentRejected) {
			// The gateway reported a failed payment; the order stays
			// pending and unpaid.
			handler.JSON(w, http.StatusOK, callbackResponse{
				Status:  "rejected",
				Message: "Payment was not completed",
			})
			return
		}
		h.logger.Warn("vnpay callback failed", "error", err)
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, callbackResponse{Status: "paid", Order: order})
}
