package domain

import (
	"context"
	"time"
)

// Order-related domain errors.
var (
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart         = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrIllegalTransition = &Error{Code: ECONFLICT, Message: "Order status does not allow this action"}
	ErrInsufficientStock = &Error{Code: ECONFLICT, Message: "Insufficient stock for one or more items"}
	ErrPaymentRejected   = &Error{Code: EPAYMENT, Message: "Payment was rejected by the gateway"}
)

// ShippingFee is the flat delivery fee applied to every order, in VND.
const ShippingFee int64 = 10000

// PointsUnit is the amount of order subtotal, in VND, that earns one
// loyalty point.
const PointsUnit int64 = 100000

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipping, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod selects how an order is paid.
type PaymentMethod string

const (
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodVNPay PaymentMethod = "vnpay"
	PaymentMethodMoMo  PaymentMethod = "momo"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodVNPay, PaymentMethodMoMo:
		return true
	}
	return false
}

// Order is the checkout aggregate. Monetary amounts are VND.
//
// Lines are value snapshots taken at creation time; an order's amounts and
// line items never change after creation, even if the referenced product or
// size is later edited or deleted.
type Order struct {
	ID               int64
	UserID           string // empty for guest checkout
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	AlternateAddress string
	OrderDate        time.Time
	Subtotal         int64
	ShippingFee      int64
	Discount         int64
	TotalAmount      int64
	PaymentMethod    PaymentMethod
	IsPaid           bool
	Status           OrderStatus
	PromotionCodeID  *int64
	PointsEarned     int32
	Lines            []OrderLine
}

// OrderLine is an immutable snapshot of one cart item at order time.
type OrderLine struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Size        string
	Quantity    int32
	UnitPrice   int64
}

// LineTotal returns quantity times unit price.
func (l OrderLine) LineTotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// CustomerPoint records loyalty points earned by one order.
type CustomerPoint struct {
	ID         int64
	UserID     string
	Points     int32
	OrderID    int64
	EarnedDate time.Time
}

// CreateOrderParams bundles everything the store must commit atomically when
// an order is placed: the order with its lines, the promotion consumption
// (conditional on remaining quota), the per-size stock decrements, and the
// loyalty point row. Either all of it commits or none of it does.
type CreateOrderParams struct {
	Order *Order

	// SizeQuantities maps product size IDs to the quantity to remove from
	// stock. The decrement is conditional; insufficient stock fails the
	// whole transaction with ErrInsufficientStock.
	SizeQuantities map[int64]int32

	// Point, when non-nil, is inserted in the same transaction.
	Point *CustomerPoint
}

// OrderStore persists orders and their downstream effects.
type OrderStore interface {
	// CreateOrder commits params atomically, filling in the order and line
	// IDs. Returns ErrPromotionExhausted if the promotion's conditional
	// usage increment matches no rows and ErrInsufficientStock if any
	// stock decrement would go negative.
	CreateOrder(ctx context.Context, params CreateOrderParams) error

	// GetOrder loads an order with its lines.
	GetOrder(ctx context.Context, id int64) (*Order, error)

	// ListOrdersByUser returns a page of the user's orders, newest first,
	// plus the total count.
	ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]Order, int, error)

	// ListOrders returns all orders, newest first (back-office view).
	ListOrders(ctx context.Context) ([]Order, error)

	// SetStatus overwrites an order's status unconditionally and optionally
	// marks it paid in the same update. Returns the updated order.
	SetStatus(ctx context.Context, id int64, status OrderStatus, markPaid bool) (*Order, error)

	// MarkPaid sets is_paid = true. The bool result reports whether the
	// order transitioned from unpaid to paid (false means it was already
	// paid and the call was a no-op).
	MarkPaid(ctx context.Context, id int64) (*Order, bool, error)

	// CancelOrder moves a pending order to cancelled, deletes its customer
	// points, and releases the promotion usage it consumed, all in one
	// transaction. Returns ErrIllegalTransition if the order is no longer
	// pending at commit time.
	CancelOrder(ctx context.Context, id int64) (*Order, error)

	// DeleteOrder removes the order and its lines and reverses its side
	// effects (promotion usage, stock, points). Used as the compensating
	// action when a payment gateway refuses to issue a redirect URL.
	DeleteOrder(ctx context.Context, id int64) error
}

// PointStore reads loyalty point records.
type PointStore interface {
	ListPointsByUser(ctx context.Context, userID string) ([]CustomerPoint, error)
}
