package repository

import (
	"context"
	"strings"

	"github.com/Khawar13/web-pos/internal/domain"

	"github.com/jmoiron/sqlx"
)

type couponRepository struct {
	db *sqlx.DB
}

func NewCouponRepository(db *sqlx.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) FindActiveByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
		SELECT code, discount_percent, is_active, used_count, expires_at
		FROM coupons
		WHERE code = $1 AND is_active = true
	`

	var coupon domain.Coupon
	err := r.db.GetContext(ctx, &coupon, query, strings.ToUpper(code))
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}
