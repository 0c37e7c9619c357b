package promotion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// CouponType is the discount scheme of a coupon
type CouponType string

const (
	CouponTypePercentage  CouponType = "percentage"
	CouponTypeFixedAmount CouponType = "fixed_amount"
)

// IsValid checks if the type is a known CouponType
func (t CouponType) IsValid() bool {
	return t == CouponTypePercentage || t == CouponTypeFixedAmount
}

// Coupon is a discount code with eligibility rules and a usage budget.
// UsedCount may never exceed UsageLimit when a limit is set; the
// repository enforces that with a guarded increment so concurrent
// redemptions cannot race past the boundary.
type Coupon struct {
	shared.BaseAggregateRoot
	Code            string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            CouponType       `gorm:"type:varchar(20);not null"`
	Value           decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	MinimumAmount   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	MaximumDiscount *decimal.Decimal `gorm:"type:decimal(18,2)"` // percentage type only
	UsageLimit      *int             `gorm:""`                   // nil = unlimited
	UsedCount       int              `gorm:"not null;default:0"`
	StartsAt        time.Time        `gorm:"not null"`
	ExpiresAt       *time.Time       `gorm:""` // nil = no expiry
	IsActive        bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "coupons"
}

// NormalizeCode returns the canonical form of a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewCoupon creates a new coupon
func NewCoupon(code string, couponType CouponType, value decimal.Decimal, startsAt time.Time) (*Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if !couponType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown coupon type")
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Coupon value must be positive")
	}
	if couponType == CouponTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_VALUE", "Percentage discount cannot exceed 100")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Type:              couponType,
		Value:             value,
		MinimumAmount:     decimal.Zero,
		StartsAt:          startsAt,
		IsActive:          true,
	}, nil
}

// SetMinimumAmount sets the minimum cart subtotal for eligibility
func (c *Coupon) SetMinimumAmount(minimum decimal.Decimal) error {
	if minimum.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Minimum amount cannot be negative")
	}
	c.MinimumAmount = minimum
	c.touch()
	return nil
}

// SetMaximumDiscount caps the computed discount (percentage type only)
func (c *Coupon) SetMaximumDiscount(maximum decimal.Decimal) error {
	if c.Type != CouponTypePercentage {
		return shared.NewDomainError("INVALID_TYPE", "Maximum discount applies to percentage coupons only")
	}
	if maximum.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_VALUE", "Maximum discount must be positive")
	}
	c.MaximumDiscount = &maximum
	c.touch()
	return nil
}

// SetUsageLimit caps the number of redemptions (nil = unlimited)
func (c *Coupon) SetUsageLimit(limit *int) error {
	if limit != nil && *limit <= 0 {
		return shared.NewDomainError("INVALID_VALUE", "Usage limit must be positive")
	}
	c.UsageLimit = limit
	c.touch()
	return nil
}

// SetExpiry sets the expiration timestamp (nil = no expiry)
func (c *Coupon) SetExpiry(expiresAt *time.Time) error {
	if expiresAt != nil && expiresAt.Before(c.StartsAt) {
		return shared.NewDomainError("INVALID_VALUE", "Expiry cannot precede the start time")
	}
	c.ExpiresAt = expiresAt
	c.touch()
	return nil
}

// Activate enables the coupon
func (c *Coupon) Activate() {
	c.IsActive = true
	c.touch()
}

// Deactivate disables the coupon without deleting it
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.touch()
}

// IsExhausted reports whether the usage budget is spent
func (c *Coupon) IsExhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// CheckEligibility verifies the coupon can be applied to a cart with the
// given subtotal at the given time. Checks run in a fixed order so the
// caller always gets the most specific failure.
func (c *Coupon) CheckEligibility(subtotal decimal.Decimal, now time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError(shared.CodeCouponInactive, "Coupon is not active")
	}
	if now.Before(c.StartsAt) {
		return shared.NewDomainError(shared.CodeCouponNotStarted, "Coupon is not yet valid")
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return shared.NewDomainError(shared.CodeCouponExpired, "Coupon has expired")
	}
	if c.IsExhausted() {
		return shared.NewDomainError(shared.CodeCouponExhausted, "Coupon usage limit has been reached")
	}
	if subtotal.LessThan(c.MinimumAmount) {
		return shared.NewDomainError(shared.CodeMinimumNotMet, "Cart subtotal does not meet the coupon minimum")
	}
	return nil
}

// DiscountFor computes the discount for the given subtotal.
// Percentage discounts are clamped to MaximumDiscount when set; fixed
// discounts are clamped to the subtotal so the total never goes negative.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal) valueobject.Money {
	var discount decimal.Decimal
	switch c.Type {
	case CouponTypePercentage:
		discount = subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(0)
		if c.MaximumDiscount != nil && discount.GreaterThan(*c.MaximumDiscount) {
			discount = *c.MaximumDiscount
		}
	case CouponTypeFixedAmount:
		discount = c.Value
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}
	return valueobject.NewMoneyVND(discount)
}

func (c *Coupon) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
