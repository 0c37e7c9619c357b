package promotion

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CouponService validates coupons against carts and owns the usage-count
// invariant: used_count is incremented exactly once per order that
// applies the coupon, through a guarded atomic increment.
type CouponService struct {
	coupons promotion.CouponRepository
	logger  *zap.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(coupons promotion.CouponRepository, logger *zap.Logger) *CouponService {
	return &CouponService{coupons: coupons, logger: logger}
}

// ValidateAndPrice checks eligibility for the given cart subtotal and
// returns the discount the coupon would produce. Performs no mutation.
func (s *CouponService) ValidateAndPrice(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*CouponPriceResult, error) {
	coupon, err := s.coupons.FindByCode(ctx, promotion.NormalizeCode(code))
	if err != nil {
		if shared.IsDomainError(err, "NOT_FOUND") {
			return nil, shared.NewDomainError(shared.CodeCouponNotFound, "Coupon code does not exist")
		}
		return nil, err
	}

	if err := coupon.CheckEligibility(subtotal, now); err != nil {
		return nil, err
	}

	discount := coupon.DiscountFor(subtotal)
	return &CouponPriceResult{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount.Amount(),
	}, nil
}

// RecordUsage increments the coupon's used_count. The increment is
// guarded against usage_limit at the storage layer, so two redemptions
// racing on the last slot cannot both succeed.
func (s *CouponService) RecordUsage(ctx context.Context, couponID uuid.UUID) error {
	applied, err := s.coupons.IncrementUsage(ctx, couponID)
	if err != nil {
		return err
	}
	if !applied {
		return shared.NewDomainError(shared.CodeCouponExhausted, "Coupon usage limit has been reached")
	}
	return nil
}

// ReleaseUsage gives a redemption back. This is strictly a compensation
// path for order creation failing after usage was recorded; cancelling a
// durably created order does not release the redemption.
func (s *CouponService) ReleaseUsage(ctx context.Context, couponID uuid.UUID) error {
	if err := s.coupons.DecrementUsage(ctx, couponID); err != nil {
		s.logger.Error("failed to release coupon usage during compensation",
			zap.String("coupon_id", couponID.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	coupon, err := promotion.NewCoupon(req.Code, req.Type, req.Value, req.StartsAt)
	if err != nil {
		return nil, err
	}

	if !req.MinimumAmount.IsZero() {
		if err := coupon.SetMinimumAmount(req.MinimumAmount); err != nil {
			return nil, err
		}
	}
	if req.MaximumDiscount != nil {
		if err := coupon.SetMaximumDiscount(*req.MaximumDiscount); err != nil {
			return nil, err
		}
	}
	if req.UsageLimit != nil {
		if err := coupon.SetUsageLimit(req.UsageLimit); err != nil {
			return nil, err
		}
	}
	if req.ExpiresAt != nil {
		if err := coupon.SetExpiry(req.ExpiresAt); err != nil {
			return nil, err
		}
	}

	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}

	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetByCode retrieves a coupon by code
func (s *CouponService) GetByCode(ctx context.Context, code string) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByCode(ctx, promotion.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// List retrieves coupons with pagination
func (s *CouponService) List(ctx context.Context, filter shared.Filter) ([]CouponResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	coupons, err := s.coupons.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coupons.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		responses = append(responses, ToCouponResponse(&coupons[i]))
	}
	return responses, total, nil
}

// SetActive activates or deactivates a coupon
func (s *CouponService) SetActive(ctx context.Context, couponID uuid.UUID, active bool) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}

	if active {
		coupon.Activate()
	} else {
		coupon.Deactivate()
	}

	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}

	response := ToCouponResponse(coupon)
	return &response, nil
}
