package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "namidia/internal/errors"
	"namidia/internal/messaging"
	"namidia/internal/metrics"
	"namidia/internal/models"
	"namidia/internal/repository"
)

// DefaultDiscountPercent is applied to coupons issued on presence
// confirmation.
const DefaultDiscountPercent = 10

// maxCodeAttempts bounds the regenerate-on-collision loop.
const maxCodeAttempts = 5

type CouponService struct {
	couponRepo *repository.CouponRepository
	natsClient *messaging.NATSClient
}

func NewCouponService(couponRepo *repository.CouponRepository, natsClient *messaging.NATSClient) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		natsClient: natsClient,
	}
}

// Issue generates a code, verifies it against already-issued coupons and
// persists it. The generator gives no uniqueness guarantee on its own, so
// collisions regenerate up to maxCodeAttempts times.
func (s *CouponService) Issue(ctx context.Context, eventID int64, confirmationID *int64, discountPercent int) (*models.Coupon, error) {
	if discountPercent <= 0 {
		discountPercent = DefaultDiscountPercent
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := GenerateCouponCode()

		exists, err := s.couponRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check coupon code: %w", err)
		}
		if exists {
			continue
		}

		coupon := &models.Coupon{
			Code:            code,
			DiscountPercent: discountPercent,
			EventID:         eventID,
			ConfirmationID:  confirmationID,
		}
		if err := s.couponRepo.Create(ctx, coupon); err != nil {
			return nil, fmt.Errorf("failed to create coupon: %w", err)
		}

		metrics.CouponsIssued.Inc()

		if s.natsClient != nil {
			event := models.CouponIssuedEvent{
				CouponID:  coupon.ID,
				Code:      coupon.Code,
				EventID:   eventID,
				Timestamp: time.Now(),
			}
			if err := s.natsClient.Publish(models.EventCouponIssued, event); err != nil {
				slog.Error("Failed to publish coupon issued event", "coupon_id", coupon.ID, "error", err)
			}
		}

		return coupon, nil
	}

	return nil, apperrors.ErrCodeCollision
}

// Validate reports whether a code can still be used. Unknown and spent
// codes are not errors here, just invalid.
func (s *CouponService) Validate(ctx context.Context, code string) (*models.ValidateCouponResponse, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if coupon == nil || coupon.Used {
		return &models.ValidateCouponResponse{Valid: false}, nil
	}

	return &models.ValidateCouponResponse{
		Valid:           true,
		DiscountPercent: coupon.DiscountPercent,
	}, nil
}

// Check looks up a coupon and verifies it is still spendable, without
// marking it used. Callers that need the two-step shape (reserve the
// discount, spend only once the order exists) use Check plus Use.
func (s *CouponService) Check(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if coupon == nil {
		return nil, apperrors.ErrCouponNotFound
	}
	if coupon.Used {
		return nil, apperrors.ErrCouponUsed
	}
	return coupon, nil
}

// Use marks a coupon as spent, stamping the usage timestamp.
func (s *CouponService) Use(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.Check(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := s.couponRepo.MarkUsed(ctx, coupon.ID); err != nil {
		return nil, fmt.Errorf("failed to mark coupon used: %w", err)
	}

	coupon.Used = true
	now := time.Now()
	coupon.UsedAt = &now
	return coupon, nil
}
