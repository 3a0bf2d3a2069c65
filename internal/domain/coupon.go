package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon grants a fixed percentage discount on sales. Codes follow the
// registry format: one letter followed by three digits (C001..C200).
type Coupon struct {
	Code            string          `json:"code" db:"code"`
	DiscountPercent decimal.Decimal `json:"discount_percent" db:"discount_percent"`
	IsActive        bool            `json:"is_active" db:"is_active"`
	UsedCount       int             `json:"used_count" db:"used_count"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty" db:"expires_at"`
}

// Usable reports whether the coupon can be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return false
	}
	return true
}

// DiscountRate converts the stored percentage into a rate, e.g. 10 -> 0.10.
func (c *Coupon) DiscountRate() decimal.Decimal {
	return c.DiscountPercent.Div(decimal.NewFromInt(100))
}

type CouponValidationResponse struct {
	Code         string          `json:"code"`
	Valid        bool            `json:"valid"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}
