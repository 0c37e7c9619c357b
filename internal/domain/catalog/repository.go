package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds active products at or below their low-stock threshold
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, product *Product) error

	// UpdateStockGuarded writes newStock conditioned on the stock column
	// still holding observedStock. Returns false (and no error) when the
	// condition fails, signalling a concurrent modification.
	UpdateStockGuarded(ctx context.Context, productID uuid.UUID, observedStock, newStock int) (bool, error)

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a SKU is already taken
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds categories with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error
}
