package storefront

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/handler"
	"github.com/ngocanhle/pawshop/internal/service"
)

// CheckoutHandler turns the session cart into an order
type CheckoutHandler struct {
	checkoutService  service.CheckoutService
	promotionService service.PromotionService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService service.CheckoutService, promotionService service.PromotionService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:  checkoutService,
		promotionService: promotionService,
	}
}

type checkoutRequest struct {
	FirstName        string `json:"first_name" validate:"required,max=100"`
	LastName         string `json:"last_name" validate:"required,max=100"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone" validate:"required,max=20"`
	Address          string `json:"address" validate:"required,max=500"`
	AlternateAddress string `json:"alternate_address" validate:"max=500"`
	PaymentMethod    string `json:"payment_method" validate:"required,oneof=cod vnpay momo"`
	PromotionCode    string `json:"promotion_code" validate:"max=50"`
}

type checkoutResponse struct {
	Order       *domain.Order `json:"order"`
	RedirectURL string        `json:"redirect_url,omitempty"`
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("checkout.process", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.checkoutService.Checkout(ctx, service.CheckoutParams{
		CartToken:        domain.CartTokenFromContext(ctx),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		AlternateAddress: req.AlternateAddress,
		PaymentMethod:    domain.PaymentMethod(req.PaymentMethod),
		PromotionCode:    req.PromotionCode,
		ClientIP:         clientIP(r),
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusCreated, checkoutResponse{
		Order:       result.Order,
		RedirectURL: result.RedirectURL,
	})
}

type validatePromotionRequest struct {
	Code string `json:"code" validate:"required,max=50"`
}

type validatePromotionResponse struct {
	Code            string `json:"code"`
	DiscountAmount  int64  `json:"discount_amount"`
	DiscountPercent int32  `json:"discount_percent"`
}

// ValidatePromotion handles POST /checkout/promotion. It lets the
// storefront preview a code before the order is placed; redemption itself
// happens inside checkout.
func (h *CheckoutHandler) ValidatePromotion(w http.ResponseWriter, r *http.Request) {
	var req validatePromotionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := handler.ValidateStruct("promotion.validate", req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	promo, err := h.promotionService.Validate(r.Context(), req.Code, time.Now())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.JSON(w, http.StatusOK, validatePromotionResponse{
		Code:            promo.Code,
		DiscountAmount:  promo.DiscountAmount,
		DiscountPercent: promo.DiscountPercent,
	})
}

// clientIP extracts the caller's IP, preferring the forwarding header set
// by the edge proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// The header is a comma-separated chain; the first hop is the client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
