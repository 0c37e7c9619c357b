package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// StockOperation is the kind of stock change applied to a product
type StockOperation string

const (
	StockOperationSet      StockOperation = "set"
	StockOperationAdd      StockOperation = "add"
	StockOperationSubtract StockOperation = "subtract"
)

// IsValid checks if the operation is a known StockOperation
func (o StockOperation) IsValid() bool {
	switch o {
	case StockOperationSet, StockOperationAdd, StockOperationSubtract:
		return true
	}
	return false
}

// StockChange is the result of applying a stock operation
type StockChange struct {
	PreviousStock int
	NewStock      int
	Clamped       bool // subtract with force that would have gone negative
}

// Product represents a sellable product in the catalog.
// It is the aggregate root for catalog and stock operations; StockQuantity
// is the authoritative on-hand count for oversell decisions.
type Product struct {
	shared.BaseAggregateRoot
	SKU               string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Description       string          `gorm:"type:text"`
	CategoryID        *uuid.UUID      `gorm:"type:uuid;index"`
	Brand             string          `gorm:"type:varchar(100)"`
	Tags              string          `gorm:"type:text"` // comma-separated
	Price             decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ComparePrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // strike-through price
	CostPrice         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	StockQuantity     int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:0"`
	IsActive          bool            `gorm:"not null;default:true"`
	IsFeatured        bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name string, price valueobject.Money) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              strings.TrimSpace(name),
		Price:             price.Amount(),
		ComparePrice:      decimal.Zero,
		CostPrice:         decimal.Zero,
		IsActive:          true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrices updates the selling, compare and cost prices
func (p *Product) SetPrices(price, comparePrice, costPrice valueobject.Money) error {
	if price.Amount().IsNegative() || comparePrice.Amount().IsNegative() || costPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}

	p.Price = price.Amount()
	p.ComparePrice = comparePrice.Amount()
	p.CostPrice = costPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory assigns the product to a category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetBranding updates brand and tags
func (p *Product) SetBranding(brand string, tags []string) {
	p.Brand = strings.TrimSpace(brand)
	p.Tags = strings.Join(tags, ",")
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// TagList returns the tags as a slice
func (p *Product) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	return strings.Split(p.Tags, ",")
}

// Activate makes the product purchasable
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate removes the product from sale without deleting it
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetFeatured toggles the featured flag
func (p *Product) SetFeatured(featured bool) {
	p.IsFeatured = featured
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetLowStockThreshold sets the threshold below which low-stock signals fire
func (p *Product) SetLowStockThreshold(threshold int) error {
	if threshold < 0 {
		return shared.NewDomainError(shared.CodeInvalidQuantity, "Low stock threshold cannot be negative")
	}
	p.LowStockThreshold = threshold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ApplyStockChange mutates StockQuantity according to the operation and
// returns the previous and resulting quantities. Invariant: the result is
// never negative; subtract beyond available stock fails unless force is
// set, in which case the result is clamped to zero.
//
// Threshold-crossing signals (low stock, out of stock) are emitted as
// domain events here so every mutation path produces them.
func (p *Product) ApplyStockChange(op StockOperation, quantity int, force bool) (StockChange, error) {
	previous := p.StockQuantity
	var next int
	clamped := false

	switch op {
	case StockOperationSet:
		if quantity < 0 {
			return StockChange{}, shared.NewDomainError(shared.CodeInvalidQuantity, "Stock quantity cannot be set below zero")
		}
		next = quantity
	case StockOperationAdd:
		if quantity <= 0 {
			return StockChange{}, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity to add must be positive")
		}
		next = previous + quantity
	case StockOperationSubtract:
		if quantity <= 0 {
			return StockChange{}, shared.NewDomainError(shared.CodeInvalidQuantity, "Quantity to subtract must be positive")
		}
		next = previous - quantity
		if next < 0 {
			if !force {
				return StockChange{}, shared.NewDomainError(shared.CodeInsufficientStock, "Insufficient stock available")
			}
			next = 0
			clamped = true
		}
	default:
		return StockChange{}, shared.NewDomainError("INVALID_OPERATION", "Unknown stock operation")
	}

	p.StockQuantity = next
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if previous > p.LowStockThreshold && next <= p.LowStockThreshold {
		p.AddDomainEvent(NewLowStockEvent(p, previous))
	}
	if previous > 0 && next == 0 {
		p.AddDomainEvent(NewOutOfStockEvent(p, previous))
	}

	return StockChange{PreviousStock: previous, NewStock: next, Clamped: clamped}, nil
}

// IsLowStock reports whether the product is at or below its threshold
func (p *Product) IsLowStock() bool {
	return p.LowStockThreshold > 0 && p.StockQuantity <= p.LowStockThreshold
}

// IsInStock reports whether any stock is available
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// CanFulfill reports whether the requested quantity can be served
func (p *Product) CanFulfill(quantity int) bool {
	return p.IsActive && p.StockQuantity >= quantity
}

// PriceMoney returns the selling price as Money
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyVND(p.Price)
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
