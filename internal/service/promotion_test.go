package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocanhle/pawshop/internal/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestPromotionService_Validate(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		promo   domain.PromotionCode
		code    string
		wantErr bool
	}{
		{
			name:  "redeemable",
			promo: domain.PromotionCode{Code: "OK", IsActive: true},
			code:  "OK",
		},
		{
			name:    "unknown code",
			promo:   domain.PromotionCode{Code: "OK", IsActive: true},
			code:    "NOPE",
			wantErr: true,
		},
		{
			name:    "inactive",
			promo:   domain.PromotionCode{Code: "OK", IsActive: false},
			code:    "OK",
			wantErr: true,
		},
		{
			name: "before window",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true,
				StartDate: timePtr(now.Add(time.Hour)),
			},
			code:    "OK",
			wantErr: true,
		},
		{
			name: "start boundary passes",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true,
				StartDate: timePtr(now),
			},
			code: "OK",
		},
		{
			name: "after window",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true,
				EndDate: timePtr(now.Add(-time.Minute)),
			},
			code:    "OK",
			wantErr: true,
		},
		{
			name: "one use left passes",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true, MaxUsage: 3, UsageCount: 2,
			},
			code: "OK",
		},
		{
			name: "exhausted single-use",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true, MaxUsage: 1, UsageCount: 1,
			},
			code:    "OK",
			wantErr: true,
		},
		{
			name: "exhausted inside valid window",
			promo: domain.PromotionCode{
				Code: "OK", IsActive: true,
				StartDate: timePtr(now.Add(-time.Hour)),
				EndDate:   timePtr(now.Add(time.Hour)),
				MaxUsage:  2, UsageCount: 2,
			},
			code:    "OK",
			wantErr: true,
		},
		{
			name:    "blank code",
			promo:   domain.PromotionCode{Code: "OK", IsActive: true},
			code:    "   ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			promo := tt.promo
			svc := NewPromotionService(newFakePromotionStore(&promo))

			got, err := svc.Validate(context.Background(), tt.code, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidPromotion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.promo.Code, got.Code)
		})
	}
}

func TestPromotionService_CreateValidation(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore())
	ctx := staffContext()

	err := svc.CreatePromotion(ctx, &domain.PromotionCode{Code: ""})
	assert.True(t, domain.IsValidationError(err))

	err = svc.CreatePromotion(ctx, &domain.PromotionCode{Code: "X", DiscountPercent: 150})
	assert.True(t, domain.IsValidationError(err))

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	err = svc.CreatePromotion(ctx, &domain.PromotionCode{Code: "X", StartDate: &start, EndDate: &end})
	assert.True(t, domain.IsValidationError(err))
}

func TestPromotionService_CreateResetsUsage(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore())

	promo := &domain.PromotionCode{Code: "NEW", DiscountPercent: 5, IsActive: true, UsageCount: 42}
	require.NoError(t, svc.CreatePromotion(staffContext(), promo))

	assert.Equal(t, int32(0), promo.UsageCount)
}

func TestPromotionService_DuplicateCode(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore(&domain.PromotionCode{Code: "TAKEN", IsActive: true}))

	err := svc.CreatePromotion(staffContext(), &domain.PromotionCode{Code: "TAKEN"})
	assert.ErrorIs(t, err, domain.ErrPromotionCodeTaken)
}

func TestPromotionService_AdminOpsRequireStaff(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore())

	_, err := svc.ListPromotions(context.Background())
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	_, err = svc.ListPromotions(customerContext("user-1"))
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))

	err = svc.CreatePromotion(customerContext("user-1"), &domain.PromotionCode{Code: "X"})
	assert.Equal(t, domain.EFORBIDDEN, domain.ErrorCode(err))
}

func TestPromotionService_SetActive(t *testing.T) {
	svc := NewPromotionService(newFakePromotionStore(&domain.PromotionCode{ID: 1, Code: "T", IsActive: true}))

	promo, err := svc.SetPromotionActive(staffContext(), 1, false)
	require.NoError(t, err)
	assert.False(t, promo.IsActive)
}
