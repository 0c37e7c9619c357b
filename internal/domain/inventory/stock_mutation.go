package inventory

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockMutation is an append-only audit record of a stock change.
// Every successful ledger operation writes exactly one row, so the full
// history of a product's stock_quantity is reconstructable.
type StockMutation struct {
	shared.BaseEntity
	ProductID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Operation     catalog.StockOperation `gorm:"type:varchar(16);not null"`
	Delta         int                    `gorm:"not null"` // signed; set operations record newStock - previousStock
	PreviousStock int                    `gorm:"not null"`
	NewStock      int                    `gorm:"not null"`
	Reason        string                 `gorm:"type:varchar(255);not null"`
	Actor         string                 `gorm:"type:varchar(100);not null"`
	Forced        bool                   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StockMutation) TableName() string {
	return "stock_mutations"
}

// NewStockMutation creates an audit record for an applied stock change
func NewStockMutation(productID uuid.UUID, op catalog.StockOperation, change catalog.StockChange, reason, actor string) (*StockMutation, error) {
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Stock change reason is required")
	}
	if actor == "" {
		actor = "system"
	}

	return &StockMutation{
		BaseEntity:    shared.NewBaseEntity(),
		ProductID:     productID,
		Operation:     op,
		Delta:         change.NewStock - change.PreviousStock,
		PreviousStock: change.PreviousStock,
		NewStock:      change.NewStock,
		Reason:        reason,
		Actor:         actor,
		Forced:        change.Clamped,
	}, nil
}
