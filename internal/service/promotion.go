// Package service implements the business logic behind the storefront:
// checkout, orders, promotions and pet-service bookings. Services take the
// domain store interfaces and never touch SQL directly.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
	"github.com/ngocanhle/pawshop/internal/telemetry"
)

// PromotionService validates codes for checkout and manages them for staff.
type PromotionService interface {
	// Validate checks that the code is redeemable at the given instant.
	// All rejection reasons collapse into the same invalid-promotion error
	// so callers cannot probe a code's configuration.
	Validate(ctx context.Context, code string, now time.Time) (*domain.PromotionCode, error)

	// Staff operations.
	ListPromotions(ctx context.Context) ([]domain.PromotionCode, error)
	GetPromotion(ctx context.Context, id int64) (*domain.PromotionCode, error)
	CreatePromotion(ctx context.Context, promo *domain.PromotionCode) error
	UpdatePromotion(ctx context.Context, id int64, upd domain.PromotionUpdate) (*domain.PromotionCode, error)
	DeletePromotion(ctx context.Context, id int64) error
	SetPromotionActive(ctx context.Context, id int64, active bool) (*domain.PromotionCode, error)
}

// promotionService implements PromotionService.
type promotionService struct {
	store domain.PromotionStore
}

// NewPromotionService creates a promotion service.
func NewPromotionService(store domain.PromotionStore) PromotionService {
	return &promotionService{store: store}
}

// Validate does an exact-code lookup and applies the four redeemability
// conditions. It has no side effects; the usage count is only touched by the
// order-creation transaction.
func (s *promotionService) Validate(ctx context.Context, code string, now time.Time) (*domain.PromotionCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidPromotion
	}

	promo, err := s.store.GetPromotionByCode(ctx, code)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			countPromotionRejected("not_found")
			return nil, domain.ErrInvalidPromotion
		}
		return nil, err
	}

	if !promo.ValidAt(now) {
		countPromotionRejected(rejectionReason(promo, now))
		return nil, domain.ErrInvalidPromotion
	}

	return promo, nil
}

func rejectionReason(promo *domain.PromotionCode, now time.Time) string {
	switch {
	case !promo.IsActive:
		return "inactive"
	case promo.StartDate != nil && now.Before(*promo.StartDate),
		promo.EndDate != nil && now.After(*promo.EndDate):
		return "window"
	default:
		return "exhausted"
	}
}

func countPromotionRejected(reason string) {
	if m := telemetry.Business; m != nil {
		m.PromotionRejected.WithLabelValues(reason).Inc()
	}
}

func (s *promotionService) ListPromotions(ctx context.Context) ([]domain.PromotionCode, error) {
	if err := requireStaff(ctx, "promotion.list"); err != nil {
		return nil, err
	}
	return s.store.ListPromotions(ctx)
}

func (s *promotionService) GetPromotion(ctx context.Context, id int64) (*domain.PromotionCode, error) {
	if err := requireStaff(ctx, "promotion.get"); err != nil {
		return nil, err
	}
	return s.store.GetPromotion(ctx, id)
}

// CreatePromotion inserts a new code. The usage count always starts at zero
// and the date window, when both ends are set, must be ordered.
func (s *promotionService) CreatePromotion(ctx context.Context, promo *domain.PromotionCode) error {
	const op = "promotion.create"

	if err := requireStaff(ctx, op); err != nil {
		return err
	}

	promo.Code = strings.TrimSpace(promo.Code)
	if promo.Code == "" {
		return domain.NewValidationError(op, "code", "code is required")
	}
	if promo.DiscountPercent < 0 || promo.DiscountPercent > 100 {
		return domain.NewValidationError(op, "discountPercent", "must be between 0 and 100")
	}
	if promo.DiscountAmount < 0 {
		return domain.NewValidationError(op, "discountAmount", "must not be negative")
	}
	if promo.MaxUsage < 0 {
		return domain.NewValidationError(op, "maxUsage", "must not be negative")
	}
	if promo.StartDate != nil && promo.EndDate != nil && promo.EndDate.Before(*promo.StartDate) {
		return domain.NewValidationError(op, "endDate", "must not be before start date")
	}

	promo.UsageCount = 0
	return s.store.CreatePromotion(ctx, promo)
}

func (s *promotionService) UpdatePromotion(ctx context.Context, id int64, upd domain.PromotionUpdate) (*domain.PromotionCode, error) {
	const op = "promotion.update"

	if err := requireStaff(ctx, op); err != nil {
		return nil, err
	}

	if upd.DiscountPercent != nil && (*upd.DiscountPercent < 0 || *upd.DiscountPercent > 100) {
		return nil, domain.NewValidationError(op, "discountPercent", "must be between 0 and 100")
	}
	if upd.DiscountAmount != nil && *upd.DiscountAmount < 0 {
		return nil, domain.NewValidationError(op, "discountAmount", "must not be negative")
	}
	if upd.MaxUsage != nil && *upd.MaxUsage < 0 {
		return nil, domain.NewValidationError(op, "maxUsage", "must not be negative")
	}
	if upd.StartDate != nil && upd.EndDate != nil && upd.EndDate.Before(*upd.StartDate) {
		return nil, domain.NewValidationError(op, "endDate", "must not be before start date")
	}

	return s.store.UpdatePromotion(ctx, id, upd)
}

func (s *promotionService) DeletePromotion(ctx context.Context, id int64) error {
	if err := requireStaff(ctx, "promotion.delete"); err != nil {
		return err
	}
	return s.store.DeletePromotion(ctx, id)
}

func (s *promotionService) SetPromotionActive(ctx context.Context, id int64, active bool) (*domain.PromotionCode, error) {
	if err := requireStaff(ctx, "promotion.set_active"); err != nil {
		return nil, err
	}
	return s.store.SetPromotionActive(ctx, id, active)
}

// requireStaff gates back-office operations.
func requireStaff(ctx context.Context, op string) error {
	if !domain.IsAuthenticated(ctx) {
		return domain.Unauthorized(op, "Authentication required")
	}
	if !domain.IsStaff(ctx) {
		return domain.Forbidden(op, "Staff role required")
	}
	return nil
}
