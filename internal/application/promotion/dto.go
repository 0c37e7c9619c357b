package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
)

// CouponPriceResult is the outcome of a successful validation
type CouponPriceResult struct {
	CouponID       uuid.UUID       `json:"coupon_id"`
	Code           string          `json:"code"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CreateCouponRequest carries the fields for a new coupon
type CreateCouponRequest struct {
	Code            string
	Type            promotion.CouponType
	Value           decimal.Decimal
	MinimumAmount   decimal.Decimal
	MaximumDiscount *decimal.Decimal
	UsageLimit      *int
	StartsAt        time.Time
	ExpiresAt       *time.Time
}

// CouponResponse is the external view of a coupon
type CouponResponse struct {
	ID              uuid.UUID        `json:"id"`
	Code            string           `json:"code"`
	Type            string           `json:"type"`
	Value           decimal.Decimal  `json:"value"`
	MinimumAmount   decimal.Decimal  `json:"minimum_amount"`
	MaximumDiscount *decimal.Decimal `json:"maximum_discount,omitempty"`
	UsageLimit      *int             `json:"usage_limit,omitempty"`
	UsedCount       int              `json:"used_count"`
	StartsAt        time.Time        `json:"starts_at"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ToCouponResponse maps a domain coupon to its response
func ToCouponResponse(c *promotion.Coupon) CouponResponse {
	return CouponResponse{
		ID:              c.ID,
		Code:            c.Code,
		Type:            string(c.Type),
		Value:           c.Value,
		MinimumAmount:   c.MinimumAmount,
		MaximumDiscount: c.MaximumDiscount,
		UsageLimit:      c.UsageLimit,
		UsedCount:       c.UsedCount,
		StartsAt:        c.StartsAt,
		ExpiresAt:       c.ExpiresAt,
		IsActive:        c.IsActive,
		CreatedAt:       c.CreatedAt,
	}
}
