package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// OrderStore implements domain.OrderStore and domain.PointStore on PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// Compile-time checks.
var (
	_ domain.OrderStore = (*OrderStore)(nil)
	_ domain.PointStore = (*OrderStore)(nil)
)

// NewOrderStore creates a new PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderColumns = `id, COALESCE(user_id, ''), first_name, last_name, email, phone,
	address, alternate_address, order_date, subtotal, shipping_fee, discount,
	total_amount, payment_method, is_paid, status, promotion_code_id, points_earned`

// CreateOrder commits the order, its lines, the promotion consumption, the
// stock decrements and the loyalty point row in one transaction.
func (s *OrderStore) CreateOrder(ctx context.Context, params domain.CreateOrderParams) error {
	const op = "order.create"

	o := params.Order

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var userID *string
	if o.UserID != "" {
		userID = &o.UserID
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			user_id, first_name, last_name, email, phone, address,
			alternate_address, subtotal, shipping_fee, discount, total_amount,
			payment_method, is_paid, status, promotion_code_id, points_earned
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, order_date`,
		userID, o.FirstName, o.LastName, o.Email, o.Phone, o.Address,
		o.AlternateAddress, o.Subtotal, o.ShippingFee, o.Discount, o.TotalAmount,
		o.PaymentMethod, o.IsPaid, o.Status, o.PromotionCodeID, o.PointsEarned,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return domain.Internal(err, op, "failed to insert order")
	}

	for i := range o.Lines {
		line := &o.Lines[i]
		line.OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO order_details (order_id, product_id, product_name, size, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			line.OrderID, line.ProductID, line.ProductName, line.Size, line.Quantity, line.UnitPrice,
		).Scan(&line.ID)
		if err != nil {
			return domain.Internal(err, op, "failed to insert order line")
		}
	}

	// Conditional consume: the WHERE clause re-checks the quota so two
	// concurrent checkouts cannot both take the last use of a code.
	if o.PromotionCodeID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE promotion_codes
			SET usage_count = usage_count + 1
			WHERE id = $1
			  AND is_active
			  AND (max_usage = 0 OR usage_count < max_usage)`,
			*o.PromotionCodeID)
		if err != nil {
			return domain.Internal(err, op, "failed to consume promotion")
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrPromotionExhausted
		}
	}

	// Conditional stock decrement, same pattern as the promotion consume.
	for sizeID, qty := range params.SizeQuantities {
		tag, err := tx.Exec(ctx, `
			UPDATE product_sizes
			SET stock = stock - $2
			WHERE id = $1 AND stock >= $2`,
			sizeID, qty)
		if err != nil {
			return domain.Internal(err, op, "failed to decrement stock")
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrInsufficientStock
		}
	}

	if params.Point != nil {
		p := params.Point
		p.OrderID = o.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO customer_points (user_id, points, order_id)
			VALUES ($1, $2, $3)
			RETURNING id, earned_date`,
			p.UserID, p.Points, p.OrderID,
		).Scan(&p.ID, &p.EarnedDate)
		if err != nil {
			return domain.Internal(err, op, "failed to insert customer points")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, op, "failed to commit order")
	}

	return nil
}

// GetOrder loads an order with its lines.
func (s *OrderStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "order.get"

	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "order", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}

	if err := s.loadLines(ctx, order); err != nil {
		return nil, domain.Internal(err, op, "failed to load order lines")
	}

	return order, nil
}

// ListOrdersByUser returns a page of the user's orders, newest first, and the
// total count.
func (s *OrderStore) ListOrdersByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, int, error) {
	const op = "order.list_by_user"

	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to count orders")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE user_id = $1
		ORDER BY order_date DESC, id DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to list orders")
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, domain.Internal(err, op, "failed to scan orders")
	}

	return orders, total, nil
}

// ListOrders returns all orders, newest first.
func (s *OrderStore) ListOrders(ctx context.Context) ([]domain.Order, error) {
	const op = "order.list"

	rows, err := s.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to scan orders")
	}

	return orders, nil
}

// SetStatus overwrites the status unconditionally (back-office use).
func (s *OrderStore) SetStatus(ctx context.Context, id int64, status domain.OrderStatus, markPaid bool) (*domain.Order, error) {
	const op = "order.set_status"

	row := s.pool.QueryRow(ctx, `
		UPDATE orders
		SET status = $2,
		    is_paid = CASE WHEN $3 THEN true ELSE is_paid END
		WHERE id = $1
		RETURNING `+orderColumns,
		id, status, markPaid)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "order", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	if err := s.loadLines(ctx, order); err != nil {
		return nil, domain.Internal(err, op, "failed to load order lines")
	}

	return order, nil
}

// MarkPaid flips is_paid to true. The conditional WHERE makes the flip
// idempotent: a second gateway callback matches zero rows and reports
// changed=false instead of firing side effects twice.
func (s *OrderStore) MarkPaid(ctx context.Context, id int64) (*domain.Order, bool, error) {
	const op = "order.mark_paid"

	tag, err := s.pool.Exec(ctx, `UPDATE orders SET is_paid = true WHERE id = $1 AND NOT is_paid`, id)
	if err != nil {
		return nil, false, domain.Internal(err, op, "failed to mark order paid")
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, false, err
	}

	return order, tag.RowsAffected() > 0, nil
}

// CancelOrder moves a pending order to cancelled and reverses its loyalty
// points and promotion usage in the same transaction.
func (s *OrderStore) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	const op = "order.cancel"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var promoID *int64
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING promotion_code_id`,
		id, domain.OrderStatusCancelled, domain.OrderStatusPending,
	).Scan(&promoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing order from one past the point of
			// cancellation.
			var exists bool
			if checkErr := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); checkErr != nil {
				return nil, domain.Internal(checkErr, op, "failed to check order")
			}
			if !exists {
				return nil, domain.NotFound(op, "order", strconv.FormatInt(id, 10))
			}
			return nil, domain.ErrIllegalTransition
		}
		return nil, domain.Internal(err, op, "failed to cancel order")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM customer_points WHERE order_id = $1`, id); err != nil {
		return nil, domain.Internal(err, op, "failed to delete customer points")
	}

	if promoID != nil {
		_, err := tx.Exec(ctx, `
			UPDATE promotion_codes
			SET usage_count = GREATEST(usage_count - 1, 0)
			WHERE id = $1`,
			*promoID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to release promotion usage")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, op, "failed to commit cancellation")
	}

	return s.GetOrder(ctx, id)
}

// DeleteOrder removes the order entirely, restoring stock and promotion
// usage. This is the compensating action for a failed gateway handoff; the
// points and lines go with the order via ON DELETE CASCADE.
func (s *OrderStore) DeleteOrder(ctx context.Context, id int64) error {
	const op = "order.delete"

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, op, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var promoID *int64
	err = tx.QueryRow(ctx, `SELECT promotion_code_id FROM orders WHERE id = $1`, id).Scan(&promoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound(op, "order", strconv.FormatInt(id, 10))
		}
		return domain.Internal(err, op, "failed to load order")
	}

	// Put the decremented stock back by matching lines to sizes on product
	// and label.
	_, err = tx.Exec(ctx, `
		UPDATE product_sizes ps
		SET stock = ps.stock + d.quantity
		FROM order_details d
		WHERE d.order_id = $1
		  AND ps.product_id = d.product_id
		  AND ps.label = d.size`,
		id)
	if err != nil {
		return domain.Internal(err, op, "failed to restore stock")
	}

	if promoID != nil {
		_, err := tx.Exec(ctx, `
			UPDATE promotion_codes
			SET usage_count = GREATEST(usage_count - 1, 0)
			WHERE id = $1`,
			*promoID)
		if err != nil {
			return domain.Internal(err, op, "failed to release promotion usage")
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return domain.Internal(err, op, "failed to delete order")
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, op, "failed to commit deletion")
	}

	return nil
}

// ListPointsByUser returns the user's loyalty point records, newest first.
func (s *OrderStore) ListPointsByUser(ctx context.Context, userID string) ([]domain.CustomerPoint, error) {
	const op = "points.list_by_user"

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, points, order_id, earned_date
		FROM customer_points
		WHERE user_id = $1
		ORDER BY earned_date DESC`,
		userID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list customer points")
	}
	defer rows.Close()

	var points []domain.CustomerPoint
	for rows.Next() {
		var p domain.CustomerPoint
		if err := rows.Scan(&p.ID, &p.UserID, &p.Points, &p.OrderID, &p.EarnedDate); err != nil {
			return nil, domain.Internal(err, op, "failed to scan customer point")
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read customer points")
	}

	return points, nil
}

// loadLines populates order.Lines.
func (s *OrderStore) loadLines(ctx context.Context, order *domain.Order) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, order_id, product_id, product_name, size, quantity, unit_price
		FROM order_details
		WHERE order_id = $1
		ORDER BY id`,
		order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Lines = nil
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Size, &l.Quantity, &l.UnitPrice); err != nil {
			return err
		}
		order.Lines = append(order.Lines, l)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.FirstName, &o.LastName, &o.Email, &o.Phone,
		&o.Address, &o.AlternateAddress, &o.OrderDate, &o.Subtotal, &o.ShippingFee,
		&o.Discount, &o.TotalAmount, &o.PaymentMethod, &o.IsPaid, &o.Status,
		&o.PromotionCodeID, &o.PointsEarned,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}
