package checkout

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// PricingConfig holds the fixed shipping fee table and tax settings.
// Values come from configuration, not code, so the storefront can adjust
// fees without a deploy.
type PricingConfig struct {
	// ShippingFees maps each shipping method to its flat fee
	ShippingFees map[order.ShippingMethod]decimal.Decimal

	// FreeShippingThreshold waives the shipping fee for subtotals at or
	// above it. Zero disables free shipping.
	FreeShippingThreshold decimal.Decimal

	// TaxRate is applied to the discounted subtotal, e.g. 0.08 for 8% VAT
	TaxRate decimal.Decimal
}

// DefaultPricingConfig returns the fee table used when configuration is absent
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ShippingFees: map[order.ShippingMethod]decimal.Decimal{
			order.ShippingStandard: decimal.NewFromInt(30000),
			order.ShippingExpress:  decimal.NewFromInt(55000),
			order.ShippingSameDay:  decimal.NewFromInt(90000),
		},
		FreeShippingThreshold: decimal.NewFromInt(500000),
		TaxRate:               decimal.NewFromFloat(0.08),
	}
}

// PricingEngine computes order totals. It is pure: same inputs, same
// totals, no storage access. All price inputs must already be frozen
// line-item snapshots.
type PricingEngine struct {
	cfg PricingConfig
}

// NewPricingEngine creates a pricing engine from the given config
func NewPricingEngine(cfg PricingConfig) *PricingEngine {
	if cfg.ShippingFees == nil {
		cfg.ShippingFees = DefaultPricingConfig().ShippingFees
	}
	return &PricingEngine{cfg: cfg}
}

// Quote computes the full totals breakdown for a cart.
// Discount is clamped to the subtotal, tax applies to the discounted
// subtotal rounded to whole currency units, and the free-shipping
// threshold compares against the pre-discount subtotal.
func (e *PricingEngine) Quote(subtotal, discount decimal.Decimal, method order.ShippingMethod) (order.Totals, error) {
	if subtotal.IsNegative() {
		return order.Totals{}, shared.NewDomainError("INVALID_SUBTOTAL", "Subtotal cannot be negative")
	}
	if discount.IsNegative() {
		return order.Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	fee, ok := e.cfg.ShippingFees[method]
	if !ok {
		return order.Totals{}, shared.NewDomainError("INVALID_SHIPPING_METHOD", "Unknown shipping method")
	}

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	shipping := fee
	if e.cfg.FreeShippingThreshold.IsPositive() && subtotal.GreaterThanOrEqual(e.cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Sub(discount).Mul(e.cfg.TaxRate).Round(0)

	totals := order.Totals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Sub(discount).Add(shipping).Add(tax),
	}
	if err := totals.Validate(); err != nil {
		return order.Totals{}, err
	}
	return totals, nil
}

// ShippingFee returns the configured flat fee for a method
func (e *PricingEngine) ShippingFee(method order.ShippingMethod) (decimal.Decimal, bool) {
	fee, ok := e.cfg.ShippingFees[method]
	return fee, ok
}
