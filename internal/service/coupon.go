package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Khawar13/web-pos/internal/config"
	"github.com/Khawar13/web-pos/internal/repository"
	"github.com/Khawar13/web-pos/pkg/utils"
	customError "github.com/Khawar13/web-pos/pkg/errors"

	"github.com/shopspring/decimal"
)

// CouponService validates coupon codes against the registry. Validation never
// mutates usage counters; counting redemptions is a reporting concern.
type CouponService struct {
	couponRepo repository.CouponRepository
	config     *config.Config
}

func NewCouponService(couponRepo repository.CouponRepository, config *config.Config) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		config:     config,
	}
}

// Validate returns the discount rate for a coupon code, or zero with ok=false
// when the code grants no discount. Codes failing the registry format check
// are rejected before any lookup. An unknown, inactive or expired coupon is
// not an error: the sale proceeds without a discount.
func (s *CouponService) Validate(ctx context.Context, code string) (decimal.Decimal, bool, error) {
	if !utils.IsValidCouponCode(code, s.config.Business.CouponCodeMax) {
		return decimal.Zero, false, nil
	}

	coupon, err := s.couponRepo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, customError.WrapDatabaseError(err)
	}

	if !coupon.Usable(time.Now()) {
		return decimal.Zero, false, nil
	}

	return coupon.DiscountRate(), true, nil
}
