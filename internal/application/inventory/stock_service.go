package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultMaxRetries bounds the read-modify-conditional-write loop.
// Conflicts are expected to be rare and short-lived; anything that keeps
// colliding for this many rounds is surfaced to the caller.
const DefaultMaxRetries = 3

// StockService is the stock ledger: the single mutation path for
// product stock quantities. Every change is applied as a conditional
// write on the previously observed value and recorded as a
// StockMutation audit row.
type StockService struct {
	products   catalog.ProductRepository
	mutations  inventory.StockMutationRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
	maxRetries int
}

// NewStockService creates a new StockService
func NewStockService(products catalog.ProductRepository, mutations inventory.StockMutationRepository, logger *zap.Logger) *StockService {
	return &StockService{
		products:   products,
		mutations:  mutations,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
	}
}

// SetEventPublisher sets the publisher for low-stock/out-of-stock signals
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetMaxRetries overrides the conflict retry budget
func (s *StockService) SetMaxRetries(n int) {
	if n > 0 {
		s.maxRetries = n
	}
}

// ApplyStockChange applies a set/add/subtract operation to a product's
// stock. On a write conflict the read-modify-write is retried up to the
// configured budget; exhausting it fails with CONCURRENT_MODIFICATION.
// Validation failures (negative set, oversubtract without force) are
// returned without retrying since re-reading cannot fix them on its own.
func (s *StockService) ApplyStockChange(ctx context.Context, req StockChangeRequest) (*StockChangeResult, error) {
	if !req.Operation.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION", "Unknown stock operation")
	}
	if req.Reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Stock change reason is required")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		product, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}

		change, err := product.ApplyStockChange(req.Operation, req.Quantity, req.Force)
		if err != nil {
			return nil, err
		}

		applied, err := s.products.UpdateStockGuarded(ctx, product.ID, change.PreviousStock, change.NewStock)
		if err != nil {
			return nil, err
		}
		if !applied {
			// Someone else moved the stock between our read and write.
			continue
		}

		if change.Clamped {
			s.logger.Warn("forced stock subtract clamped to zero",
				zap.String("product_id", product.ID.String()),
				zap.String("sku", product.SKU),
				zap.Int("previous_stock", change.PreviousStock),
				zap.Int("requested", req.Quantity),
				zap.String("reason", req.Reason))
		}

		mutation, err := inventory.NewStockMutation(product.ID, req.Operation, change, req.Reason, req.Actor)
		if err != nil {
			return nil, err
		}
		if err := s.mutations.Save(ctx, mutation); err != nil {
			return nil, err
		}

		s.publishEvents(ctx, product)

		return &StockChangeResult{
			ProductID:     product.ID,
			PreviousStock: change.PreviousStock,
			NewStock:      change.NewStock,
			Clamped:       change.Clamped,
		}, nil
	}

	return nil, shared.NewDomainError(shared.CodeConcurrentModification,
		"Stock was modified concurrently; retries exhausted")
}

// GetStock returns the authoritative stock quantity for a product.
// UI components must query this instead of caching their own copy.
func (s *StockService) GetStock(ctx context.Context, productID uuid.UUID) (*StockLevelResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &StockLevelResponse{
		ProductID:         product.ID,
		SKU:               product.SKU,
		StockQuantity:     product.StockQuantity,
		LowStockThreshold: product.LowStockThreshold,
		LowStock:          product.IsLowStock(),
	}, nil
}

// ListMutations lists the audit trail for a product, newest first
func (s *StockService) ListMutations(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMutationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	mutations, err := s.mutations.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.mutations.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToStockMutationResponses(mutations), total, nil
}

// ListLowStock lists active products at or below their low-stock threshold
func (s *StockService) ListLowStock(ctx context.Context, filter shared.Filter) ([]StockLevelResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, err := s.products.FindLowStock(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]StockLevelResponse, 0, len(products))
	for i := range products {
		responses = append(responses, StockLevelResponse{
			ProductID:         products[i].ID,
			SKU:               products[i].SKU,
			StockQuantity:     products[i].StockQuantity,
			LowStockThreshold: products[i].LowStockThreshold,
			LowStock:          true,
		})
	}
	return responses, nil
}

func (s *StockService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.publisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish stock event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	product.ClearDomainEvents()
}
