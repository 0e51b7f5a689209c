package service

import (
	"context"
	"fmt"
	"strings"

	"makhana-store/internal/model"
	"makhana-store/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

// GetAll retrieves all coupons.
func (s *couponService) GetAll(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.couponRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}
	return coupons, nil
}

// GetActive retrieves coupons currently inside their validity window.
func (s *couponService) GetActive(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := s.couponRepo.GetActive(ctx, now())
	if err != nil {
		return nil, fmt.Errorf("failed to get active coupons: %w", err)
	}
	return coupons, nil
}

// GetByCode retrieves a coupon by code. This is the administrative lookup:
// unknown codes are reported as ErrCouponNotFound instead of being treated
// as a zero discount.
func (s *couponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

// Create validates and stores a new coupon.
func (s *couponService) Create(ctx context.Context, coupon *model.Coupon) error {
	if err := s.validateCoupon(coupon); err != nil {
		return err
	}

	if coupon.UserUsageLimit <= 0 {
		coupon.UserUsageLimit = 1
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.Info().
		Str("code", coupon.Code).
		Str("discount_type", string(coupon.DiscountType)).
		Msg("coupon created")

	return nil
}

// Update validates and overwrites an existing coupon. The code is immutable
// after creation; any code in the payload is ignored.
func (s *couponService) Update(ctx context.Context, id int64, coupon *model.Coupon) error {
	existing, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}
	if existing == nil {
		return model.ErrCouponNotFound
	}

	coupon.ID = id
	coupon.Code = existing.Code
	if err := s.validateCoupon(coupon); err != nil {
		return err
	}
	if coupon.UserUsageLimit <= 0 {
		coupon.UserUsageLimit = 1
	}

	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	s.logger.Info().Int64("coupon_id", id).Str("code", existing.Code).Msg("coupon updated")

	return nil
}

// Delete removes a coupon by ID.
func (s *couponService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.couponRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	if !deleted {
		return model.ErrCouponNotFound
	}

	s.logger.Info().Int64("coupon_id", id).Msg("coupon deleted")

	return nil
}

// Validate reports whether the code can be applied to an order of the given
// amount. Unknown codes are invalid, not errors; only storage failures are
// propagated.
func (s *couponService) Validate(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (bool, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("failed to validate coupon: %w", err)
	}
	if coupon == nil {
		return false, nil
	}

	return coupon.CanBeUsed(orderAmount, isFirstTimeUser, now()), nil
}

// CalculateDiscount returns the discount the code yields for an order of the
// given amount. Unknown or unusable codes yield a zero discount.
func (s *couponService) CalculateDiscount(ctx context.Context, code string, orderAmount decimal.Decimal, isFirstTimeUser bool) (decimal.Decimal, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate discount: %w", err)
	}
	if coupon == nil {
		s.logger.Debug().Str("code", code).Msg("unknown coupon code, zero discount")
		return decimal.Zero, nil
	}

	return coupon.Discount(orderAmount, isFirstTimeUser, now()), nil
}

// validateCoupon checks the invariants a coupon must satisfy before it is
// stored.
func (s *couponService) validateCoupon(coupon *model.Coupon) error {
	if strings.TrimSpace(coupon.Code) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "Coupon code is required")
	}
	if !coupon.DiscountType.Valid() {
		return model.NewDomainError(model.ErrCodeMissingField, "Unknown discount type")
	}
	if coupon.DiscountType != model.DiscountFreeShip && !coupon.DiscountValue.IsPositive() {
		return model.NewDomainError(model.ErrCodeMissingField, "Discount value must be positive")
	}
	if coupon.DiscountType == model.DiscountPercentage && coupon.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return model.NewDomainError(model.ErrCodeMissingField, "Percentage discount cannot exceed 100")
	}
	if !coupon.EndDate.After(coupon.StartDate) {
		return model.NewDomainError(model.ErrCodeMissingField, "Coupon end date must be after start date")
	}
	if coupon.UsageLimit != nil && *coupon.UsageLimit <= 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "Usage limit must be positive when set")
	}
	return nil
}
