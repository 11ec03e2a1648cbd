package domain

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestPromotionCode_ValidAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		promo PromotionCode
		want  bool
	}{
		{
			name:  "active no window no quota",
			promo: PromotionCode{IsActive: true},
			want:  true,
		},
		{
			name:  "inactive fails regardless",
			promo: PromotionCode{IsActive: false},
			want:  false,
		},
		{
			name: "start date in the future",
			promo: PromotionCode{
				IsActive:  true,
				StartDate: timePtr(now.Add(time.Hour)),
			},
			want: false,
		},
		{
			name: "start date equal to now passes",
			promo: PromotionCode{
				IsActive:  true,
				StartDate: timePtr(now),
			},
			want: true,
		},
		{
			name: "end date in the past",
			promo: PromotionCode{
				IsActive: true,
				EndDate:  timePtr(now.Add(-time.Hour)),
			},
			want: false,
		},
		{
			name: "end date equal to now passes",
			promo: PromotionCode{
				IsActive: true,
				EndDate:  timePtr(now),
			},
			want: true,
		},
		{
			name: "one use left passes",
			promo: PromotionCode{
				IsActive:   true,
				MaxUsage:   10,
				UsageCount: 9,
			},
			want: true,
		},
		{
			name: "quota exhausted fails",
			promo: PromotionCode{
				IsActive:   true,
				MaxUsage:   10,
				UsageCount: 10,
			},
			want: false,
		},
		{
			name: "exhausted single-use code",
			promo: PromotionCode{
				IsActive:   true,
				MaxUsage:   1,
				UsageCount: 1,
			},
			want: false,
		},
		{
			name: "zero max usage is unlimited",
			promo: PromotionCode{
				IsActive:   true,
				MaxUsage:   0,
				UsageCount: 1000,
			},
			want: true,
		},
		{
			name: "exhausted fails even inside a valid window",
			promo: PromotionCode{
				IsActive:   true,
				StartDate:  timePtr(now.Add(-time.Hour)),
				EndDate:    timePtr(now.Add(time.Hour)),
				MaxUsage:   5,
				UsageCount: 5,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.ValidAt(now); got != tt.want {
				t.Errorf("ValidAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPromotionCode_Discount(t *testing.T) {
	tests := []struct {
		name     string
		promo    PromotionCode
		subtotal int64
		want     int64
	}{
		{
			name:     "percentage",
			promo:    PromotionCode{DiscountPercent: 10},
			subtotal: 200000,
			want:     20000,
		},
		{
			name:     "fixed amount",
			promo:    PromotionCode{DiscountAmount: 15000},
			subtotal: 200000,
			want:     15000,
		},
		{
			name:     "percentage wins over fixed amount",
			promo:    PromotionCode{DiscountPercent: 10, DiscountAmount: 15000},
			subtotal: 200000,
			want:     20000,
		},
		{
			name:     "neither set",
			promo:    PromotionCode{},
			subtotal: 200000,
			want:     0,
		},
		{
			name:     "percentage truncates toward zero",
			promo:    PromotionCode{DiscountPercent: 3},
			subtotal: 100001,
			want:     3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.promo.Discount(tt.subtotal); got != tt.want {
				t.Errorf("Discount(%d) = %d, want %d", tt.subtotal, got, tt.want)
			}
		})
	}
}
