package domain

import (
	"context"
	"time"
)

// Promotion-related domain errors.
var (
	ErrInvalidPromotion   = &Error{Code: EINVALID, Message: "Promotion code is invalid or expired"}
	ErrPromotionExhausted = &Error{Code: ECONFLICT, Message: "Promotion code has reached its usage limit"}
	ErrPromotionNotFound  = &Error{Code: ENOTFOUND, Message: "Promotion code not found"}
	ErrPromotionCodeTaken = &Error{Code: ECONFLICT, Message: "A promotion with this code already exists"}
)

// PromotionCode is a discount code. Amounts are VND; DiscountPercent takes
// precedence over DiscountAmount when both are set.
type PromotionCode struct {
	ID              int64
	Code            string
	Description     string
	DiscountAmount  int64
	DiscountPercent int32 // 0-100
	IsActive        bool
	StartDate       *time.Time
	EndDate         *time.Time
	MaxUsage        int32 // 0 means unlimited
	UsageCount      int32
	CreatedAt       time.Time
}

// ValidAt reports whether the code is redeemable at the given instant:
// active, inside its date window, and under its usage quota.
func (p *PromotionCode) ValidAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	if p.MaxUsage > 0 && p.UsageCount >= p.MaxUsage {
		return false
	}
	return true
}

// Discount computes the discount this code grants against a subtotal.
// A percentage, when present, wins over a fixed amount. The result is not
// clamped here; order pricing clamps against the payable total.
func (p *PromotionCode) Discount(subtotal int64) int64 {
	if p.DiscountPercent > 0 {
		return subtotal * int64(p.DiscountPercent) / 100
	}
	if p.DiscountAmount > 0 {
		return p.DiscountAmount
	}
	return 0
}

// PromotionUpdate holds the mutable fields of a promotion for admin edits.
// Nil pointers leave the existing value untouched.
type PromotionUpdate struct {
	Description     *string
	DiscountAmount  *int64
	DiscountPercent *int32
	IsActive        *bool
	StartDate       *time.Time
	EndDate         *time.Time
	MaxUsage        *int32
}

// PromotionStore persists promotion codes.
type PromotionStore interface {
	// GetPromotionByCode does an exact, case-sensitive code lookup.
	GetPromotionByCode(ctx context.Context, code string) (*PromotionCode, error)

	GetPromotion(ctx context.Context, id int64) (*PromotionCode, error)
	ListPromotions(ctx context.Context) ([]PromotionCode, error)

	// CreatePromotion inserts a new code with UsageCount forced to zero.
	// Returns ErrPromotionCodeTaken on a duplicate code.
	CreatePromotion(ctx context.Context, promo *PromotionCode) error

	UpdatePromotion(ctx context.Context, id int64, upd PromotionUpdate) (*PromotionCode, error)
	DeletePromotion(ctx context.Context, id int64) error

	// SetPromotionActive toggles the active flag.
	SetPromotionActive(ctx context.Context, id int64, active bool) (*PromotionCode, error)
}
