package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/email"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

// OrderService exposes order history, customer cancellation and the staff
// status overwrite.
type OrderService interface {
	// GetOrder returns an order. Customers only see their own; someone
	// else's order surfaces as not-found rather than forbidden.
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	// ListMyOrders pages through the caller's order history, newest first.
	ListMyOrders(ctx context.Context, page, perPage int) ([]domain.Order, int, error)

	// ListOrders returns every order (staff only).
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// CancelOrder cancels the caller's own pending order and reverses its
	// points and promotion usage.
	CancelOrder(ctx context.Context, id int64) (*domain.Order, error)

	// UpdateStatus is the staff overwrite. Any status can be set from any
	// status; delivering a cash-on-delivery order also marks it paid. The
	// status email is best-effort.
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)

	// ListMyPoints returns the caller's loyalty point records.
	ListMyPoints(ctx context.Context) ([]domain.CustomerPoint, error)
}

// orderService implements OrderService.
type orderService struct {
	orders domain.OrderStore
	points domain.PointStore
	emails *email.Service
	logger *slog.Logger
}

// NewOrderService creates an order service.
func NewOrderService(orders domain.OrderStore, points domain.PointStore, emails *email.Service, logger *slog.Logger) OrderService {
	return &orderService{
		orders: orders,
		points: points,
		emails: emails,
		logger: logger,
	}
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "order.get"

	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if domain.IsStaff(ctx) {
		return order, nil
	}

	// Ownership masquerades as absence so order ids cannot be probed.
	if order.UserID == "" || order.UserID != domain.UserIDFromContext(ctx) {
		return nil, domain.NotFound(op, "order", strconv.FormatInt(id, 10))
	}

	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	const op = "order.list_mine"

	userID := domain.UserIDFromContext(ctx)
	if userID == "" {
		return nil, 0, domain.Unauthorized(op, "Authentication required")
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	return s.orders.ListOrdersByUser(ctx, userID, perPage, (page-1)*perPage)
}

func (s *orderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if err := requireStaff(ctx, "order.list"); err != nil {
		return nil, err
	}
	return s.orders.ListOrders(ctx)
}

func (s *orderService) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	// Ownership check first; the store re-checks the pending status inside
	// its transaction so a concurrent shipment still wins.
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrIllegalTransition
	}

	cancelled, err := s.orders.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if m := telemetry.Business; m != nil {
		m.OrdersCancelled.WithLabelValues().Inc()
	}

	return cancelled, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	const op = "order.update_status"

	if err := requireStaff(ctx, op); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, domain.NewValidationError(op, "status", "unknown order status")
	}

	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	// Delivered cash-on-delivery means the courier collected the money.
	markPaid := status == domain.OrderStatusDelivered &&
		current.PaymentMethod == domain.PaymentMethodCOD

	order, err := s.orders.SetStatus(ctx, id, status, markPaid)
	if err != nil {
		return nil, err
	}

	s.sendStatusUpdate(ctx, order)

	return order, nil
}

func (s *orderService) ListMyPoints(ctx context.Context) ([]domain.CustomerPoint, error) {
	const op = "points.list_mine"

	userID := domain.UserIDFromContext(ctx)
	if userID == "" {
		return nil, domain.Unauthorized(op, "Authentication required")
	}

	return s.points.ListPointsByUser(ctx, userID)
}

// sendStatusUpdate mails the customer about the new status. Best-effort.
func (s *orderService) sendStatusUpdate(ctx context.Context, order *domain.Order) {
	if s.emails == nil {
		return
	}
	if err := s.emails.SendOrderStatusUpdate(ctx, order); err != nil {
		s.logger.Warn("order: status email failed", "order_id", order.ID, "error", err)
		if m := telemetry.Business; m != nil {
			m.EmailFailed.WithLabelValues("order_status").Inc()
		}
		return
	}
	if m := telemetry.Business; m != nil {
		m.EmailSent.WithLabelValues("order_status").Inc()
	}
}
