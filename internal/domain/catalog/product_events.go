package catalog

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated     = "ProductCreated"
	EventTypeProductLowStock    = "ProductLowStock"
	EventTypeProductOutOfStock  = "ProductOutOfStock"
	EventTypeProductDeactivated = "ProductDeactivated"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
	}
}

// LowStockEvent is published when stock crosses from above the low-stock
// threshold to at-or-below it. Consumed by the alerting UI.
type LowStockEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku"`
	PreviousStock int       `json:"previous_stock"`
	StockQuantity int       `json:"stock_quantity"`
	Threshold     int       `json:"threshold"`
}

// NewLowStockEvent creates a new LowStockEvent
func NewLowStockEvent(product *Product, previousStock int) *LowStockEvent {
	return &LowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		PreviousStock:   previousStock,
		StockQuantity:   product.StockQuantity,
		Threshold:       product.LowStockThreshold,
	}
}

// OutOfStockEvent is published when stock reaches zero
type OutOfStockEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	SKU           string    `json:"sku"`
	PreviousStock int       `json:"previous_stock"`
}

// NewOutOfStockEvent creates a new OutOfStockEvent
func NewOutOfStockEvent(product *Product, previousStock int) *OutOfStockEvent {
	return &OutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductOutOfStock, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		SKU:             product.SKU,
		PreviousStock:   previousStock,
	}
}
