package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockMutationRepository implements StockMutationRepository using GORM.
// Mutations are append-only; there is no update or delete path.
type GormStockMutationRepository struct {
	db *gorm.DB
}

// NewGormStockMutationRepository creates a new GormStockMutationRepository
func NewGormStockMutationRepository(db *gorm.DB) *GormStockMutationRepository {
	return &GormStockMutationRepository{db: db}
}

// Save appends a stock mutation to the audit trail
func (r *GormStockMutationRepository) Save(ctx context.Context, mutation *inventory.StockMutation) error {
	return r.db.WithContext(ctx).Create(mutation).Error
}

// FindByProduct lists mutations for a product, newest first
func (r *GormStockMutationRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMutation, error) {
	var mutations []inventory.StockMutation
	query := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&mutations).Error; err != nil {
		return nil, err
	}
	return mutations, nil
}

// CountByProduct counts mutations recorded for a product
func (r *GormStockMutationRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMutation{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStockMutationRepository implements StockMutationRepository
var _ inventory.StockMutationRepository = (*GormStockMutationRepository)(nil)
