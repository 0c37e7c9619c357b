package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingEngine_Quote(t *testing.T) {
	engine := NewPricingEngine(DefaultPricingConfig())

	tests := []struct {
		name         string
		subtotal     int64
		discount     int64
		method       order.ShippingMethod
		wantDiscount int64
		wantShipping int64
		wantTax      int64
		wantTotal    int64
	}{
		{
			name:     "standard shipping with tax",
			subtotal: 240000, discount: 0, method: order.ShippingStandard,
			wantShipping: 30000, wantTax: 19200, wantTotal: 289200,
		},
		{
			name:     "express shipping",
			subtotal: 100000, discount: 0, method: order.ShippingExpress,
			wantShipping: 55000, wantTax: 8000, wantTotal: 163000,
		},
		{
			name:     "one under the free shipping threshold still pays",
			subtotal: 499999, discount: 0, method: order.ShippingStandard,
			wantShipping: 30000, wantTax: 40000, wantTotal: 569999,
		},
		{
			name:     "exactly at the free shipping threshold ships free",
			subtotal: 500000, discount: 0, method: order.ShippingStandard,
			wantShipping: 0, wantTax: 40000, wantTotal: 540000,
		},
		{
			name:     "free shipping compares pre-discount subtotal",
			subtotal: 500000, discount: 100000, method: order.ShippingSameDay,
			wantDiscount: 100000, wantShipping: 0, wantTax: 32000, wantTotal: 432000,
		},
		{
			name:     "discount clamped to subtotal",
			subtotal: 50000, discount: 80000, method: order.ShippingStandard,
			wantDiscount: 50000, wantShipping: 30000, wantTax: 0, wantTotal: 30000,
		},
		{
			name:     "tax rounds to whole currency units",
			subtotal: 33333, discount: 0, method: order.ShippingStandard,
			// 8% of 33333 = 2666.64
			wantShipping: 30000, wantTax: 2667, wantTotal: 66000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := engine.Quote(decimal.NewFromInt(tt.subtotal), decimal.NewFromInt(tt.discount), tt.method)

			require.NoError(t, err)
			assert.True(t, totals.Discount.Equal(decimal.NewFromInt(tt.wantDiscount)), "discount: %s", totals.Discount)
			assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(tt.wantShipping)), "shipping: %s", totals.Shipping)
			assert.True(t, totals.Tax.Equal(decimal.NewFromInt(tt.wantTax)), "tax: %s", totals.Tax)
			assert.True(t, totals.Total.Equal(decimal.NewFromInt(tt.wantTotal)), "total: %s", totals.Total)
			assert.NoError(t, totals.Validate())
		})
	}
}

func TestPricingEngine_Quote_UnknownMethod(t *testing.T) {
	engine := NewPricingEngine(DefaultPricingConfig())

	_, err := engine.Quote(decimal.NewFromInt(100000), decimal.Zero, order.ShippingMethod("drone"))

	assert.True(t, shared.IsDomainError(err, "INVALID_SHIPPING_METHOD"))
}

func TestPricingEngine_Quote_NegativeInputs(t *testing.T) {
	engine := NewPricingEngine(DefaultPricingConfig())

	_, err := engine.Quote(decimal.NewFromInt(-1), decimal.Zero, order.ShippingStandard)
	assert.True(t, shared.IsDomainError(err, "INVALID_SUBTOTAL"))

	_, err = engine.Quote(decimal.NewFromInt(100), decimal.NewFromInt(-1), order.ShippingStandard)
	assert.True(t, shared.IsDomainError(err, "INVALID_DISCOUNT"))
}

func TestPricingEngine_Quote_ZeroThresholdDisablesFreeShipping(t *testing.T) {
	cfg := DefaultPricingConfig()
	cfg.FreeShippingThreshold = decimal.Zero
	engine := NewPricingEngine(cfg)

	totals, err := engine.Quote(decimal.NewFromInt(10000000), decimal.Zero, order.ShippingStandard)

	require.NoError(t, err)
	assert.True(t, totals.Shipping.Equal(decimal.NewFromInt(30000)))
}

func TestPricingEngine_ShippingFee(t *testing.T) {
	engine := NewPricingEngine(DefaultPricingConfig())

	fee, ok := engine.ShippingFee(order.ShippingExpress)
	assert.True(t, ok)
	assert.True(t, fee.Equal(decimal.NewFromInt(55000)))

	_, ok = engine.ShippingFee(order.ShippingMethod("drone"))
	assert.False(t, ok)
}
