package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/email"
	"github.com/ngocanhle/pawshop/internal/payment"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

// CheckoutService turns a session cart into an order and settles gateway
// callbacks.
type CheckoutService interface {
	// Checkout prices the cart, applies an optional promotion code and
	// commits the order atomically. For gateway methods the result carries
	// a redirect URL; a gateway refusal rolls the order back and surfaces
	// an EPAYMENT error.
	Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error)

	// ReconcileCallback verifies a gateway callback and idempotently marks
	// the order paid. The confirmation email fires only on the first
	// successful flip.
	ReconcileCallback(ctx context.Context, method domain.PaymentMethod, values url.Values) (*domain.Order, error)
}

// CheckoutParams contains the delivery and payment details for a checkout.
type CheckoutParams struct {
	CartToken        string
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	AlternateAddress string
	PaymentMethod    domain.PaymentMethod
	PromotionCode    string
	ClientIP         string
}

// CheckoutResult is what the storefront needs after a checkout: the created
// order and, for gateway payments, where to send the shopper.
type CheckoutResult struct {
	Order       *domain.Order
	RedirectURL string
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	carts      domain.CartStore
	orders     domain.OrderStore
	promotions PromotionService
	providers  map[domain.PaymentMethod]payment.Provider
	emails     *email.Service
	logger     *slog.Logger
	now        func() time.Time
}

// NewCheckoutService creates a checkout service. The providers map holds one
// entry per gateway payment method; COD needs none.
func NewCheckoutService(
	carts domain.CartStore,
	orders domain.OrderStore,
	promotions PromotionService,
	providers map[domain.PaymentMethod]payment.Provider,
	emails *email.Service,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:      carts,
		orders:     orders,
		promotions: promotions,
		providers:  providers,
		emails:     emails,
		logger:     logger,
		now:        time.Now,
	}
}

// snapshotLines freezes the cart into immutable order lines.
func snapshotLines(items []domain.CartItem) ([]domain.OrderLine, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	lines := make([]domain.OrderLine, len(items))
	for i, item := range items {
		lines[i] = domain.OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return lines, nil
}

func (s *checkoutService) Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error) {
	const op = "checkout.process"

	if !params.PaymentMethod.Valid() {
		return nil, domain.NewValidationError(op, "paymentMethod", "unknown payment method")
	}

	if m := telemetry.Business; m != nil {
		m.CheckoutStarted.WithLabelValues(string(params.PaymentMethod)).Inc()
	}

	items, err := s.carts.GetItems(ctx, params.CartToken)
	if err != nil {
		return nil, err
	}

	lines, err := snapshotLines(items)
	if err != nil {
		s.countCheckoutFailed(params.PaymentMethod, "empty_cart")
		return nil, err
	}

	var subtotal int64
	for _, l := range lines {
		subtotal += l.LineTotal()
	}

	now := s.now()

	// Promotion: validate up front for a fast, friendly failure. The
	// authoritative quota check happens again inside the order transaction.
	var promoID *int64
	var discount int64
	if params.PromotionCode != "" {
		promo, err := s.promotions.Validate(ctx, params.PromotionCode, now)
		if err != nil {
			s.countCheckoutFailed(params.PaymentMethod, "promotion")
			return nil, err
		}
		promoID = &promo.ID
		discount = promo.Discount(subtotal)
	}

	// The discount can never push the payable total below zero.
	if payable := subtotal + domain.ShippingFee; discount > payable {
		discount = payable
	}

	userID := domain.UserIDFromContext(ctx)
	pointsEarned := int32(subtotal / domain.PointsUnit)

	order := &domain.Order{
		UserID:           userID,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Email:            params.Email,
		Phone:            params.Phone,
		Address:          params.Address,
		AlternateAddress: params.AlternateAddress,
		Subtotal:         subtotal,
		ShippingFee:      domain.ShippingFee,
		Discount:         discount,
		TotalAmount:      subtotal + domain.ShippingFee - discount,
		PaymentMethod:    params.PaymentMethod,
		IsPaid:           false,
		Status:           domain.OrderStatusPending,
		PromotionCodeID:  promoID,
		PointsEarned:     pointsEarned,
		Lines:            lines,
	}

	sizeQuantities := make(map[int64]int32, len(items))
	for _, item := range items {
		sizeQuantities[item.SizeID] += item.Quantity
	}

	createParams := domain.CreateOrderParams{
		Order:          order,
		SizeQuantities: sizeQuantities,
	}
	if userID != "" && pointsEarned > 0 {
		createParams.Point = &domain.CustomerPoint{
			UserID: userID,
			Points: pointsEarned,
		}
	}

	if err := s.orders.CreateOrder(ctx, createParams); err != nil {
		switch {
		case domain.IsCode(err, domain.ECONFLICT):
			s.countCheckoutFailed(params.PaymentMethod, "stock")
		default:
			s.countCheckoutFailed(params.PaymentMethod, "internal")
		}
		return nil, err
	}

	if err := s.carts.Clear(ctx, params.CartToken); err != nil {
		s.logger.Warn("checkout: failed to clear cart", "error", err, "order_id", order.ID)
	}
	if m := telemetry.Business; m != nil {
		m.CartCleared.WithLabelValues("checkout").Inc()
	}

	result := &CheckoutResult{Order: order}

	if params.PaymentMethod == domain.PaymentMethodCOD {
		s.sendConfirmation(ctx, order)
		s.countCheckoutCompleted(order)
		return result, nil
	}

	provider, ok := s.providers[params.PaymentMethod]
	if !ok {
		// No provider wired for a gateway method is an operator error,
		// compensate like any other gateway failure.
		s.compensate(ctx, order, fmt.Errorf("no provider for %s", params.PaymentMethod))
		return nil, domain.Errorf(domain.EPAYMENT, op, "payment method is unavailable")
	}

	redirectURL, err := provider.CreatePayment(ctx, payment.PaymentRequest{
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		OrderInfo: fmt.Sprintf("Pawshop order %d", order.ID),
		ClientIP:  params.ClientIP,
	})
	if err != nil {
		s.compensate(ctx, order, err)
		if m := telemetry.Business; m != nil {
			m.PaymentFailed.WithLabelValues(string(params.PaymentMethod)).Inc()
		}
		s.countCheckoutFailed(params.PaymentMethod, "gateway")
		return nil, domain.WrapError(err, domain.EPAYMENT, op, "Payment could not be initiated, please try again")
	}

	if m := telemetry.Business; m != nil {
		m.PaymentRedirects.WithLabelValues(string(params.PaymentMethod)).Inc()
	}
	s.countCheckoutCompleted(order)

	result.RedirectURL = redirectURL
	return result, nil
}

// compensate deletes an order whose gateway handoff failed, reversing its
// promotion usage, stock decrements and points.
func (s *checkoutService) compensate(ctx context.Context, order *domain.Order, cause error) {
	s.logger.Error("checkout: gateway handoff failed, deleting order",
		"order_id", order.ID, "error", cause)

	if err := s.orders.DeleteOrder(ctx, order.ID); err != nil {
		s.logger.Error("checkout: compensating delete failed",
			"order_id", order.ID, "error", err)
	}
}

func (s *checkoutService) ReconcileCallback(ctx context.Context, method domain.PaymentMethod, values url.Values) (*domain.Order, error) {
	const op = "checkout.reconcile"

	provider, ok := s.providers[method]
	if !ok {
		return nil, domain.Invalid(op, "unknown payment method")
	}

	res, err := provider.ParseCallback(values)
	if err != nil {
		s.countCallback(method, "invalid")
		return nil, err
	}

	if !res.Success {
		s.countCallback(method, "rejected")
		s.logger.Warn("checkout: gateway rejected payment",
			"order_id", res.OrderID, "message", res.Message)
		return nil, domain.ErrPaymentRejected
	}

	order, changed, err := s.orders.MarkPaid(ctx, res.OrderID)
	if err != nil {
		return nil, err
	}

	if changed {
		s.countCallback(method, "paid")
		s.sendConfirmation(ctx, order)
	} else {
		// Duplicate callback: already paid, nothing fires twice.
		s.countCallback(method, "duplicate")
	}

	return order, nil
}

// sendConfirmation mails the order summary. Best-effort only.
func (s *checkoutService) sendConfirmation(ctx context.Context, order *domain.Order) {
	if s.emails == nil {
		return
	}
	if err := s.emails.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Warn("checkout: confirmation email failed",
			"order_id", order.ID, "error", err)
		if m := telemetry.Business; m != nil {
			m.EmailFailed.WithLabelValues("order_confirmation").Inc()
		}
		return
	}
	if m := telemetry.Business; m != nil {
		m.EmailSent.WithLabelValues("order_confirmation").Inc()
	}
}

func (s *checkoutService) countCheckoutCompleted(order *domain.Order) {
	if m := telemetry.Business; m != nil {
		method := string(order.PaymentMethod)
		m.CheckoutCompleted.WithLabelValues(method).Inc()
		m.OrdersCreated.WithLabelValues(method).Inc()
		m.OrderValue.WithLabelValues(method).Observe(float64(order.TotalAmount))
		if order.PromotionCodeID != nil {
			m.PromotionApplied.WithLabelValues().Inc()
		}
	}
}

func (s *checkoutService) countCheckoutFailed(method domain.PaymentMethod, reason string) {
	if m := telemetry.Business; m != nil {
		m.CheckoutFailed.WithLabelValues(string(method), reason).Inc()
	}
}

func (s *checkoutService) countCallback(method domain.PaymentMethod, outcome string) {
	if m := telemetry.Business; m != nil {
		m.PaymentCallbacks.WithLabelValues(string(method), outcome).Inc()
	}
}
