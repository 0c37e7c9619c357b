package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
)

// StockChangeRequest describes one ledger operation
type StockChangeRequest struct {
	ProductID uuid.UUID
	Operation catalog.StockOperation
	Quantity  int
	Reason    string
	Actor     string
	// Force permits an administrative subtract below zero, clamping the
	// result to zero instead of failing.
	Force bool
}

// StockChangeResult reports the applied change
type StockChangeResult struct {
	ProductID     uuid.UUID `json:"product_id"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Clamped       bool      `json:"clamped,omitempty"`
}

// StockLevelResponse is the authoritative stock view for one product
type StockLevelResponse struct {
	ProductID         uuid.UUID `json:"product_id"`
	SKU               string    `json:"sku"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
}

// StockMutationResponse is one audit trail entry
type StockMutationResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Operation     string    `json:"operation"`
	Delta         int       `json:"delta"`
	PreviousStock int       `json:"previous_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason"`
	Actor         string    `json:"actor"`
	Forced        bool      `json:"forced"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToStockMutationResponse maps a domain mutation to its response
func ToStockMutationResponse(m *inventory.StockMutation) StockMutationResponse {
	return StockMutationResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Operation:     string(m.Operation),
		Delta:         m.Delta,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Actor:         m.Actor,
		Forced:        m.Forced,
		CreatedAt:     m.CreatedAt,
	}
}

// ToStockMutationResponses maps a slice of mutations
func ToStockMutationResponses(mutations []inventory.StockMutation) []StockMutationResponse {
	responses := make([]StockMutationResponse, 0, len(mutations))
	for i := range mutations {
		responses = append(responses, ToStockMutationResponse(&mutations[i]))
	}
	return responses
}
