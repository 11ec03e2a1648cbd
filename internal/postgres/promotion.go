package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// PromotionStore implements domain.PromotionStore on PostgreSQL.
type PromotionStore struct {
	pool *pgxpool.Pool
}

var _ domain.PromotionStore = (*PromotionStore)(nil)

// NewPromotionStore creates a new PostgreSQL-backed promotion store.
func NewPromotionStore(pool *pgxpool.Pool) *PromotionStore {
	return &PromotionStore{pool: pool}
}

const promotionColumns = `id, code, description, discount_amount, discount_percent,
	is_active, start_date, end_date, max_usage, usage_count, created_at`

// uniqueViolation is the PostgreSQL error code for a unique constraint.
const uniqueViolation = "23505"

// GetPromotionByCode does an exact, case-sensitive code lookup.
func (s *PromotionStore) GetPromotionByCode(ctx context.Context, code string) (*domain.PromotionCode, error) {
	const op = "promotion.get_by_code"

	row := s.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotion_codes WHERE code = $1`, code)
	promo, err := scanPromotion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, domain.Internal(err, op, "failed to load promotion")
	}

	return promo, nil
}

func (s *PromotionStore) GetPromotion(ctx context.Context, id int64) (*domain.PromotionCode, error) {
	const op = "promotion.get"

	row := s.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotion_codes WHERE id = $1`, id)
	promo, err := scanPromotion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "promotion", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to load promotion")
	}

	return promo, nil
}

func (s *PromotionStore) ListPromotions(ctx context.Context) ([]domain.PromotionCode, error) {
	const op = "promotion.list"

	rows, err := s.pool.Query(ctx, `SELECT `+promotionColumns+` FROM promotion_codes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list promotions")
	}
	defer rows.Close()

	var promos []domain.PromotionCode
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to scan promotion")
		}
		promos = append(promos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, op, "failed to read promotions")
	}

	return promos, nil
}

// CreatePromotion inserts a new code. UsageCount always starts at zero no
// matter what the caller supplied.
func (s *PromotionStore) CreatePromotion(ctx context.Context, promo *domain.PromotionCode) error {
	const op = "promotion.create"

	err := s.pool.QueryRow(ctx, `
		INSERT INTO promotion_codes (
			code, description, discount_amount, discount_percent,
			is_active, start_date, end_date, max_usage, usage_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING id, usage_count, created_at`,
		promo.Code, promo.Description, promo.DiscountAmount, promo.DiscountPercent,
		promo.IsActive, promo.StartDate, promo.EndDate, promo.MaxUsage,
	).Scan(&promo.ID, &promo.UsageCount, &promo.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrPromotionCodeTaken
		}
		return domain.Internal(err, op, "failed to insert promotion")
	}

	return nil
}

func (s *PromotionStore) UpdatePromotion(ctx context.Context, id int64, upd domain.PromotionUpdate) (*domain.PromotionCode, error) {
	const op = "promotion.update"

	row := s.pool.QueryRow(ctx, `
		UPDATE promotion_codes
		SET description      = COALESCE($2, description),
		    discount_amount  = COALESCE($3, discount_amount),
		    discount_percent = COALESCE($4, discount_percent),
		    is_active        = COALESCE($5, is_active),
		    start_date       = COALESCE($6, start_date),
		    end_date         = COALESCE($7, end_date),
		    max_usage        = COALESCE($8, max_usage)
		WHERE id = $1
		RETURNING `+promotionColumns,
		id, upd.Description, upd.DiscountAmount, upd.DiscountPercent,
		upd.IsActive, upd.StartDate, upd.EndDate, upd.MaxUsage)
	promo, err := scanPromotion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "promotion", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to update promotion")
	}

	return promo, nil
}

func (s *PromotionStore) DeletePromotion(ctx context.Context, id int64) error {
	const op = "promotion.delete"

	tag, err := s.pool.Exec(ctx, `DELETE FROM promotion_codes WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, op, "failed to delete promotion")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(op, "promotion", strconv.FormatInt(id, 10))
	}

	return nil
}

func (s *PromotionStore) SetPromotionActive(ctx context.Context, id int64, active bool) (*domain.PromotionCode, error) {
	const op = "promotion.set_active"

	row := s.pool.QueryRow(ctx, `
		UPDATE promotion_codes
		SET is_active = $2
		WHERE id = $1
		RETURNING `+promotionColumns,
		id, active)
	promo, err := scanPromotion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(op, "promotion", strconv.FormatInt(id, 10))
		}
		return nil, domain.Internal(err, op, "failed to toggle promotion")
	}

	return promo, nil
}

func scanPromotion(row pgx.Row) (*domain.PromotionCode, error) {
	var p domain.PromotionCode
	err := row.Scan(
		&p.ID, &p.Code, &p.Description, &p.DiscountAmount, &p.DiscountPercent,
		&p.IsActive, &p.StartDate, &p.EndDate, &p.MaxUsage, &p.UsageCount, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
