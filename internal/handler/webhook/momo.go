package webhook

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// MoMoHandler settles MoMo redirect and IPN callbacks
type MoMoHandler struct {
	checkoutService service.CheckoutService
	logger          *slog.Logger
}

// NewMoMoHandler creates a new MoMo callback handler
func NewMoMoHandler(checkoutService service.CheckoutService, logger *slog.Logger) *MoMoHandler {
	return &MoMoHandler{checkoutService: checkoutService, logger: logger}
}

// Return handles GET /payments/momo/return. MoMo sends the shopper back
// with the outcome in the query string.
func (h *MoMoHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, r.URL.Query())
}

// Notify handles POST /payments/momo/notify, the server-to-server IPN.
// The body is JSON carrying the same fields as the redirect query.
func (h *MoMoHandler) Notify(w http.ResponseWriter, r *http.Request) {
	values, err := momoBodyToValues(r.Body)
	if err != nil {
		handler.ErrorResponse(w, r, domain.WrapError(err, domain.EINVALID, "momo.notify", "Invalid notification body"))
		return
	}
	h.reconcile(w, r, values)
}

func (h *MoMoHandler) reconcile(w http.ResponseWriter, r *http.Request, values url.Values) {
	order, err := h.checkoutService.ReconcileCallback(r.Context(), domain.PaymentMethodMoMo, values)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentRejected) {
			handler.JSON(w, http.StatusOK, callbackResponse{
				Status:  "rejected",
				Message: "Payment was not completed",
			})
			return
		}
		h.logger.Warn("momo callback failed", "error", err)
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, callbackResponse{Status: "paid", Order: order})
}

// momoBodyToValues flattens the IPN JSON object into url.Values so the
// redirect and IPN paths share one verification routine. Numbers are
// rendered without an exponent; resultCode and amount arrive as numbers.
func momoBodyToValues(body io.Reader) (url.Values, error) {
	var payload map[string]any
	if err := json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(&payload); err != nil {
		return nil, err
	}

	values := make(url.Values, len(payload))
	for k, v := range payload {
		switch t := v.(type) {
		case string:
			values.Set(k, t)
		case float64:
			values.Set(k, strconv.FormatInt(int64(t), 10))
		case bool:
			values.Set(k, strconv.FormatBool(t))
		}
	}
	return values, nil
}
