package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// StockMutationRepository defines the interface for the stock audit trail
type StockMutationRepository interface {
	// Save appends a stock mutation record
	Save(ctx context.Context, mutation *StockMutation) error

	// FindByProduct lists mutations for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMutation, error)

	// CountByProduct counts mutations for a product
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
