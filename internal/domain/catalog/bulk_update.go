package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// BulkUpdateKind identifies a bulk update variant
type BulkUpdateKind string

const (
	BulkUpdateKindStatus   BulkUpdateKind = "status"
	BulkUpdateKindPrice    BulkUpdateKind = "price"
	BulkUpdateKindStock    BulkUpdateKind = "stock"
	BulkUpdateKindCategory BulkUpdateKind = "category"
	BulkUpdateKindTags     BulkUpdateKind = "tags"
)

// BulkUpdate is one typed variant of an administrative batch mutation.
// Each variant validates itself; stock updates are not applied here but
// routed through the stock ledger so the audit trail and non-negativity
// guard apply (see application/catalog.ProductService.BulkUpdate).
type BulkUpdate interface {
	Kind() BulkUpdateKind
	Validate() error
	ApplyTo(p *Product) error
}

// StatusUpdate changes active/featured flags
type StatusUpdate struct {
	IsActive   *bool
	IsFeatured *bool
}

// Kind returns the update kind
func (u StatusUpdate) Kind() BulkUpdateKind { return BulkUpdateKindStatus }

// Validate checks the update payload
func (u StatusUpdate) Validate() error {
	if u.IsActive == nil && u.IsFeatured == nil {
		return shared.NewDomainError("EMPTY_UPDATE", "Status update must set at least one flag")
	}
	return nil
}

// ApplyTo applies the update to a product
func (u StatusUpdate) ApplyTo(p *Product) error {
	if u.IsActive != nil {
		if *u.IsActive {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}
	if u.IsFeatured != nil {
		p.SetFeatured(*u.IsFeatured)
	}
	return nil
}

// PriceUpdate changes selling and/or compare price
type PriceUpdate struct {
	Price        *decimal.Decimal
	ComparePrice *decimal.Decimal
}

// Kind returns the update kind
func (u PriceUpdate) Kind() BulkUpdateKind { return BulkUpdateKindPrice }

// Validate checks the update payload
func (u PriceUpdate) Validate() error {
	if u.Price == nil && u.ComparePrice == nil {
		return shared.NewDomainError("EMPTY_UPDATE", "Price update must set at least one price")
	}
	if u.Price != nil && u.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if u.ComparePrice != nil && u.ComparePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Compare price cannot be negative")
	}
	return nil
}

// ApplyTo applies the update to a product
func (u PriceUpdate) ApplyTo(p *Product) error {
	price := p.Price
	comparePrice := p.ComparePrice
	if u.Price != nil {
		price = *u.Price
	}
	if u.ComparePrice != nil {
		comparePrice = *u.ComparePrice
	}
	return p.SetPrices(
		valueobject.NewMoneyVND(price),
		valueobject.NewMoneyVND(comparePrice),
		valueobject.NewMoneyVND(p.CostPrice),
	)
}

// StockUpdate sets stock quantity and/or low-stock threshold.
// The quantity is applied through the stock ledger's "set" operation by
// the caller, never via ApplyTo, so only the threshold is applied here.
type StockUpdate struct {
	StockQuantity     *int
	LowStockThreshold *int
}

// Kind returns the update kind
func (u StockUpdate) Kind() BulkUpdateKind { return BulkUpdateKindStock }

// Validate checks the update payload
func (u StockUpdate) Validate() error {
	if u.StockQuantity == nil && u.LowStockThreshold == nil {
		return shared.NewDomainError("EMPTY_UPDATE", "Stock update must set quantity or threshold")
	}
	if u.StockQuantity != nil && *u.StockQuantity < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Stock quantity cannot be negative")
	}
	if u.LowStockThreshold != nil && *u.LowStockThreshold < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Low stock threshold cannot be negative")
	}
	return nil
}

// ApplyTo applies only the threshold part; quantity goes through the ledger
func (u StockUpdate) ApplyTo(p *Product) error {
	if u.LowStockThreshold != nil {
		return p.SetLowStockThreshold(*u.LowStockThreshold)
	}
	return nil
}

// CategoryUpdate moves products to a category (nil clears it)
type CategoryUpdate struct {
	CategoryID *uuid.UUID
}

// Kind returns the update kind
func (u CategoryUpdate) Kind() BulkUpdateKind { return BulkUpdateKindCategory }

// Validate checks the update payload
func (u CategoryUpdate) Validate() error { return nil }

// ApplyTo applies the update to a product
func (u CategoryUpdate) ApplyTo(p *Product) error {
	p.SetCategory(u.CategoryID)
	return nil
}

// TagsUpdate replaces brand and/or tags
type TagsUpdate struct {
	Brand *string
	Tags  []string
}

// Kind returns the update kind
func (u TagsUpdate) Kind() BulkUpdateKind { return BulkUpdateKindTags }

// Validate checks the update payload
func (u TagsUpdate) Validate() error {
	if u.Brand == nil && u.Tags == nil {
		return shared.NewDomainError("EMPTY_UPDATE", "Tags update must set brand or tags")
	}
	return nil
}

// ApplyTo applies the update to a product
func (u TagsUpdate) ApplyTo(p *Product) error {
	brand := p.Brand
	tags := p.TagList()
	if u.Brand != nil {
		brand = *u.Brand
	}
	if u.Tags != nil {
		tags = u.Tags
	}
	p.SetBranding(brand, tags)
	return nil
}
