package promotion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoupon(t *testing.T, couponType CouponType, value int64) *Coupon {
	t.Helper()
	coupon, err := NewCoupon("SAVE10", couponType, decimal.NewFromInt(value), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return coupon
}

func TestNewCoupon_NormalizesCode(t *testing.T) {
	coupon, err := NewCoupon("  save10  ", CouponTypePercentage, decimal.NewFromInt(10), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.True(t, coupon.IsActive)
}

func TestNewCoupon_Validation(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		couponType CouponType
		value      decimal.Decimal
		wantCode   string
	}{
		{"empty code", "  ", CouponTypePercentage, decimal.NewFromInt(10), "INVALID_CODE"},
		{"unknown type", "SAVE", CouponType("bogo"), decimal.NewFromInt(10), "INVALID_TYPE"},
		{"zero value", "SAVE", CouponTypeFixedAmount, decimal.Zero, "INVALID_VALUE"},
		{"negative value", "SAVE", CouponTypeFixedAmount, decimal.NewFromInt(-5), "INVALID_VALUE"},
		{"percentage above 100", "SAVE", CouponTypePercentage, decimal.NewFromInt(101), "INVALID_VALUE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCoupon(tt.code, tt.couponType, tt.value, time.Now())

			var domainErr *shared.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestCoupon_CheckEligibility_Order(t *testing.T) {
	now := time.Now()
	subtotal := decimal.NewFromInt(100000)

	// Inactive wins over every other failure.
	coupon := newTestCoupon(t, CouponTypePercentage, 10)
	coupon.Deactivate()
	coupon.StartsAt = now.Add(time.Hour)
	err := coupon.CheckEligibility(subtotal, now)
	assert.True(t, shared.IsDomainError(err, shared.CodeCouponInactive))

	// Not started before expired.
	coupon = newTestCoupon(t, CouponTypePercentage, 10)
	coupon.StartsAt = now.Add(time.Hour)
	err = coupon.CheckEligibility(subtotal, now)
	assert.True(t, shared.IsDomainError(err, shared.CodeCouponNotStarted))

	// Expired before exhausted.
	coupon = newTestCoupon(t, CouponTypePercentage, 10)
	expired := now.Add(-time.Minute)
	coupon.ExpiresAt = &expired
	limit := 1
	coupon.UsageLimit = &limit
	coupon.UsedCount = 1
	err = coupon.CheckEligibility(subtotal, now)
	assert.True(t, shared.IsDomainError(err, shared.CodeCouponExpired))

	// Exhausted before minimum.
	coupon = newTestCoupon(t, CouponTypePercentage, 10)
	coupon.UsageLimit = &limit
	coupon.UsedCount = 1
	require.NoError(t, coupon.SetMinimumAmount(decimal.NewFromInt(200000)))
	err = coupon.CheckEligibility(subtotal, now)
	assert.True(t, shared.IsDomainError(err, shared.CodeCouponExhausted))

	// Minimum last.
	coupon = newTestCoupon(t, CouponTypePercentage, 10)
	require.NoError(t, coupon.SetMinimumAmount(decimal.NewFromInt(200000)))
	err = coupon.CheckEligibility(subtotal, now)
	assert.True(t, shared.IsDomainError(err, shared.CodeMinimumNotMet))
}

func TestCoupon_CheckEligibility_MinimumBoundary(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 10)
	require.NoError(t, coupon.SetMinimumAmount(decimal.NewFromInt(100000)))

	// Exactly at the minimum is eligible.
	assert.NoError(t, coupon.CheckEligibility(decimal.NewFromInt(100000), time.Now()))
	err := coupon.CheckEligibility(decimal.NewFromInt(99999), time.Now())
	assert.True(t, shared.IsDomainError(err, shared.CodeMinimumNotMet))
}

func TestCoupon_CheckEligibility_NoExpiryNoLimit(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixedAmount, 20000)
	coupon.UsedCount = 1000000

	assert.NoError(t, coupon.CheckEligibility(decimal.NewFromInt(50000), time.Now()))
}

func TestCoupon_DiscountFor_Percentage(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 10)

	discount := coupon.DiscountFor(decimal.NewFromInt(250000))

	assert.True(t, discount.Amount().Equal(decimal.NewFromInt(25000)))
}

func TestCoupon_DiscountFor_PercentageRounding(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 15)

	// 15% of 33333 = 4999.95, rounded to whole currency units.
	discount := coupon.DiscountFor(decimal.NewFromInt(33333))

	assert.True(t, discount.Amount().Equal(decimal.NewFromInt(5000)))
}

func TestCoupon_DiscountFor_PercentageCappedByMaximum(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 20)
	require.NoError(t, coupon.SetMaximumDiscount(decimal.NewFromInt(50000)))

	discount := coupon.DiscountFor(decimal.NewFromInt(1000000))

	assert.True(t, discount.Amount().Equal(decimal.NewFromInt(50000)))
}

func TestCoupon_DiscountFor_FixedClampedToSubtotal(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixedAmount, 50000)

	discount := coupon.DiscountFor(decimal.NewFromInt(30000))

	assert.True(t, discount.Amount().Equal(decimal.NewFromInt(30000)))
}

func TestCoupon_SetMaximumDiscount_FixedAmountRejected(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypeFixedAmount, 50000)

	err := coupon.SetMaximumDiscount(decimal.NewFromInt(10000))

	assert.True(t, shared.IsDomainError(err, "INVALID_TYPE"))
}

func TestCoupon_SetExpiry_BeforeStartRejected(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 10)
	before := coupon.StartsAt.Add(-time.Hour)

	err := coupon.SetExpiry(&before)

	assert.True(t, shared.IsDomainError(err, "INVALID_VALUE"))
}

func TestCoupon_IsExhausted(t *testing.T) {
	coupon := newTestCoupon(t, CouponTypePercentage, 10)
	assert.False(t, coupon.IsExhausted())

	limit := 3
	coupon.UsageLimit = &limit
	coupon.UsedCount = 2
	assert.False(t, coupon.IsExhausted())

	coupon.UsedCount = 3
	assert.True(t, coupon.IsExhausted())
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCode("  save10 "))
	assert.Equal(t, "", NormalizeCode("   "))
}
