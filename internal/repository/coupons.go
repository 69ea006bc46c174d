package repository

import (
	"context"
	"errors"
	"time"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type CouponRepository struct {
	sb *supabase.Client
}

func NewCouponRepository(sb *supabase.Client) *CouponRepository {
	return &CouponRepository{sb: sb}
}

// Create inserts a freshly issued coupon. Only the issued columns are
// sent; id, created_at and the used flags keep their backend defaults.
func (r *CouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	payload := map[string]any{
		"code":             coupon.Code,
		"discount_percent": coupon.DiscountPercent,
		"event_id":         coupon.EventID,
		"confirmation_id":  coupon.ConfirmationID,
	}
	return r.sb.From("coupons").Single().Insert(ctx, payload, coupon)
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.sb.From("coupons").Select("*").Eq("code", code).Single().Get(ctx, &coupon)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// ExistsByCode checks whether a generated code has already been issued.
// The generator alone gives no uniqueness guarantee, so issuance verifies
// against existing rows before inserting.
func (r *CouponRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	count, err := r.sb.From("coupons").Eq("code", code).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CouponRepository) MarkUsed(ctx context.Context, id int64) error {
	now := time.Now()
	patch := map[string]any{
		"used":    true,
		"used_at": now.Format(time.RFC3339),
	}
	return r.sb.From("coupons").Eq("id", id).Update(ctx, patch, nil)
}

func (r *CouponRepository) CountAll(ctx context.Context) (int64, error) {
	return r.sb.From("coupons").Count(ctx)
}

func (r *CouponRepository) CountUsed(ctx context.Context) (int64, error) {
	return r.sb.From("coupons").Eq("used", true).Count(ctx)
}
