package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// MaxBulkBatchSize bounds a single bulk update request
const MaxBulkBatchSize = 100

const reasonBulkUpdate = "bulk update"
const reasonBulkRollback = "bulk update rollback"
const reasonInitialStock = "initial stock"

// ProductService manages the catalog: product and category CRUD plus
// administrative bulk updates. Stock quantities always move through the
// stock ledger, never by direct field writes.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	stock      *inventoryapp.StockService
	logger     *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	stock *inventoryapp.StockService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		stock:      stock,
		logger:     logger,
	}
}

// Create creates a new product. An initial stock quantity is applied
// through the ledger so even the first units have an audit entry.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, actor string) (*ProductResponse, error) {
	exists, err := s.products.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, valueobject.NewMoneyVND(req.Price))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}
	if req.Brand != "" || len(req.Tags) > 0 {
		product.SetBranding(req.Brand, req.Tags)
	}
	comparePrice := product.ComparePrice
	costPrice := product.CostPrice
	if req.ComparePrice != nil {
		comparePrice = *req.ComparePrice
	}
	if req.CostPrice != nil {
		costPrice = *req.CostPrice
	}
	if err := product.SetPrices(valueobject.NewMoneyVND(req.Price),
		valueobject.NewMoneyVND(comparePrice), valueobject.NewMoneyVND(costPrice)); err != nil {
		return nil, err
	}
	if req.LowStockThreshold > 0 {
		if err := product.SetLowStockThreshold(req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	if req.StockQuantity > 0 {
		if _, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: product.ID,
			Operation: catalog.StockOperationSet,
			Quantity:  req.StockQuantity,
			Reason:    reasonInitialStock,
			Actor:     actor,
		}); err != nil {
			return nil, err
		}
		product.StockQuantity = req.StockQuantity
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.products.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}
	product.SetCategory(req.CategoryID)
	product.SetBranding(req.Brand, req.Tags)

	if err := s.products.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.products.Delete(ctx, productID)
}

// BulkUpdate applies one typed update to a batch of products.
// The whole batch is validated before anything is written: an unknown
// product, an oversized batch or an invalid payload fails the request
// with no partial effect. A write failure mid-batch reverts the products
// already written, so the batch lands whole or not at all. Stock
// quantities are routed through the ledger so they stay audited and
// non-negative.
func (s *ProductService) BulkUpdate(ctx context.Context, req BulkUpdateRequest, actor string) (*BulkUpdateResult, error) {
	if len(req.ProductIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_BATCH", "Bulk update requires at least one product")
	}
	if len(req.ProductIDs) > MaxBulkBatchSize {
		return nil, shared.NewDomainError("BATCH_TOO_LARGE",
			fmt.Sprintf("Bulk update is limited to %d products per request", MaxBulkBatchSize))
	}

	update, err := req.ToBulkUpdate()
	if err != nil {
		return nil, err
	}
	if update.Kind() == catalog.BulkUpdateKindCategory {
		if category, ok := update.(catalog.CategoryUpdate); ok && category.CategoryID != nil {
			if _, err := s.categories.FindByID(ctx, *category.CategoryID); err != nil {
				return nil, err
			}
		}
	}

	products, err := s.products.FindByIDs(ctx, req.ProductIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(req.ProductIDs) {
		found := make(map[uuid.UUID]bool, len(products))
		for i := range products {
			found[products[i].ID] = true
		}
		for _, id := range req.ProductIDs {
			if !found[id] {
				return nil, shared.NewDomainError("PRODUCT_NOT_FOUND",
					fmt.Sprintf("Product %s does not exist", id))
			}
		}
	}

	// Dry-run the update on every product before persisting any of them
	for i := range products {
		probe := products[i]
		if err := update.ApplyTo(&probe); err != nil {
			return nil, err
		}
	}

	// Field updates keep their pre-update snapshots so a failure further
	// into the batch can put earlier products back.
	applied := make([]catalog.Product, 0, len(products))
	for i := range products {
		product := &products[i]
		original := products[i]
		if err := update.ApplyTo(product); err != nil {
			s.revertBulkFields(ctx, applied)
			return nil, err
		}
		// No field changed (flag already in the target state, or a
		// quantity-only stock update): nothing to write for this product.
		if product.Version == original.Version {
			continue
		}
		if err := s.products.SaveWithLock(ctx, product); err != nil {
			s.revertBulkFields(ctx, applied)
			return nil, err
		}
		applied = append(applied, original)
	}

	// Quantity changes go last, through the ledger, one audited set per
	// product. Earlier field writes never touch the stock column. A
	// failure here unwinds both the sets already made and the field
	// writes above.
	if stockUpdate, ok := update.(catalog.StockUpdate); ok && stockUpdate.StockQuantity != nil {
		prior := make([]stockLevel, 0, len(products))
		for i := range products {
			result, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
				ProductID: products[i].ID,
				Operation: catalog.StockOperationSet,
				Quantity:  *stockUpdate.StockQuantity,
				Reason:    reasonBulkUpdate,
				Actor:     actor,
			})
			if err != nil {
				s.revertBulkStock(ctx, prior, actor)
				s.revertBulkFields(ctx, applied)
				return nil, err
			}
			prior = append(prior, stockLevel{productID: products[i].ID, quantity: result.PreviousStock})
		}
	}

	s.logger.Info("bulk update applied",
		zap.String("kind", string(update.Kind())),
		zap.Int("count", len(products)),
		zap.String("actor", actor))

	return &BulkUpdateResult{
		Kind:         update.Kind(),
		UpdatedCount: len(products),
		ProductIDs:   req.ProductIDs,
	}, nil
}

// stockLevel remembers a product's quantity before a bulk set
type stockLevel struct {
	productID uuid.UUID
	quantity  int
}

// revertBulkFields restores pre-update snapshots after a mid-batch
// failure. Save bypasses the version guard on purpose: the snapshot must
// win over the half-applied batch. Failures are logged so the operator
// knows which products still need reconciling.
func (s *ProductService) revertBulkFields(ctx context.Context, originals []catalog.Product) {
	for i := range originals {
		if err := s.products.Save(ctx, &originals[i]); err != nil {
			s.logger.Error("failed to revert bulk field update",
				zap.String("product_id", originals[i].ID.String()),
				zap.Error(err))
		}
	}
}

// revertBulkStock sets quantities back through the ledger so the
// rollback itself shows up in the audit trail.
func (s *ProductService) revertBulkStock(ctx context.Context, prior []stockLevel, actor string) {
	for _, level := range prior {
		if _, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: level.productID,
			Operation: catalog.StockOperationSet,
			Quantity:  level.quantity,
			Reason:    reasonBulkRollback,
			Actor:     actor,
		}); err != nil {
			s.logger.Error("failed to revert bulk stock update",
				zap.String("product_id", level.productID.String()),
				zap.Int("quantity", level.quantity),
				zap.Error(err))
		}
	}
}

// CreateCategory creates a new category
func (s *ProductService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if existing, err := s.categories.FindBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_SLUG", "A category with this slug already exists")
	}

	category, err := catalog.NewCategory(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if _, err := s.categories.FindByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		category.SetParent(req.ParentID)
	}
	category.SortOrder = req.SortOrder

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories retrieves categories
func (s *ProductService) ListCategories(ctx context.Context, filter shared.Filter) ([]CategoryResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses, nil
}

// DeleteCategory removes a category
func (s *ProductService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return err
	}
	return s.categories.Delete(ctx, categoryID)
}
