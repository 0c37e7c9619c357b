package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateStockGuarded(ctx context.Context, productID uuid.UUID, observedStock, newStock int) (bool, error) {
	args := m.Called(ctx, productID, observedStock, newStock)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

// MockStockMutationRepository is a mock implementation of inventory.StockMutationRepository
type MockStockMutationRepository struct {
	mock.Mock
}

func (m *MockStockMutationRepository) Save(ctx context.Context, mutation *inventory.StockMutation) error {
	args := m.Called(ctx, mutation)
	return args.Error(0)
}

func (m *MockStockMutationRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMutation, error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMutation), args.Error(1)
}

func (m *MockStockMutationRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

var _ inventory.StockMutationRepository = (*MockStockMutationRepository)(nil)

func stockTestProduct(t *testing.T, id uuid.UUID, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SKU-001", "Test Product", valueobject.NewMoneyVNDFromInt(120000))
	require.NoError(t, err)
	product.ID = id
	product.StockQuantity = stock
	product.ClearDomainEvents()
	return product
}

func newStockServiceForTest(products *MockProductRepository, mutations *MockStockMutationRepository) *StockService {
	return NewStockService(products, mutations, zap.NewNop())
}

func TestStockService_ApplyStockChange_Subtract(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 10), nil).Once()
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 10, 7).Return(true, nil).Once()
	mutationRepo.On("Save", mock.Anything, mock.MatchedBy(func(m *inventory.StockMutation) bool {
		return m.ProductID == productID && m.Delta == -3 &&
			m.PreviousStock == 10 && m.NewStock == 7 &&
			m.Reason == "order placed" && !m.Forced
	})).Return(nil).Once()

	result, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  3,
		Reason:    "order placed",
	})

	assert.NoError(t, err)
	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 7, result.NewStock)
	assert.False(t, result.Clamped)
	productRepo.AssertExpectations(t)
	mutationRepo.AssertExpectations(t)
}

func TestStockService_ApplyStockChange_RetriesOnConflict(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	// First round observes 10 and loses the write; the re-read observes 9.
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 10), nil).Once()
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 10, 7).Return(false, nil).Once()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 9), nil).Once()
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 9, 6).Return(true, nil).Once()
	mutationRepo.On("Save", mock.Anything, mock.MatchedBy(func(m *inventory.StockMutation) bool {
		return m.PreviousStock == 9 && m.NewStock == 6
	})).Return(nil).Once()

	result, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  3,
		Reason:    "order placed",
	})

	require.NoError(t, err)
	assert.Equal(t, 6, result.NewStock)
	productRepo.AssertExpectations(t)
	mutationRepo.AssertExpectations(t)
}

func TestStockService_ApplyStockChange_RetriesExhausted(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 10), nil).Times(3)
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 10, 7).Return(false, nil).Times(3)

	_, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  3,
		Reason:    "order placed",
	})

	assert.True(t, shared.IsDomainError(err, shared.CodeConcurrentModification))
	mutationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	productRepo.AssertExpectations(t)
}

func TestStockService_ApplyStockChange_InsufficientStockNoRetry(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 2), nil).Once()

	_, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  5,
		Reason:    "order placed",
	})

	assert.True(t, shared.IsDomainError(err, shared.CodeInsufficientStock))
	productRepo.AssertNumberOfCalls(t, "FindByID", 1)
	productRepo.AssertNotCalled(t, "UpdateStockGuarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStockService_ApplyStockChange_ForceClampRecordsForcedMutation(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 5), nil).Once()
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 5, 0).Return(true, nil).Once()
	mutationRepo.On("Save", mock.Anything, mock.MatchedBy(func(m *inventory.StockMutation) bool {
		return m.Delta == -5 && m.NewStock == 0 && m.Forced && m.Actor == "system"
	})).Return(nil).Once()

	result, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  8,
		Reason:    "damaged goods written off",
		Force:     true,
	})

	require.NoError(t, err)
	assert.True(t, result.Clamped)
	mutationRepo.AssertExpectations(t)
}

func TestStockService_ApplyStockChange_InvalidOperation(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	_, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: uuid.New(),
		Operation: catalog.StockOperation("increment"),
		Quantity:  1,
		Reason:    "whatever",
	})

	assert.True(t, shared.IsDomainError(err, "INVALID_OPERATION"))
	productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestStockService_ApplyStockChange_MissingReason(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	_, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: uuid.New(),
		Operation: catalog.StockOperationAdd,
		Quantity:  1,
	})

	assert.True(t, shared.IsDomainError(err, "INVALID_REASON"))
	productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestStockService_ApplyStockChange_PublishesStockEvents(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	var published []shared.DomainEvent
	service.SetEventPublisher(publisherFunc(func(_ context.Context, events ...shared.DomainEvent) error {
		published = append(published, events...)
		return nil
	}))

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(stockTestProduct(t, productID, 3), nil).Once()
	productRepo.On("UpdateStockGuarded", mock.Anything, productID, 3, 0).Return(true, nil).Once()
	mutationRepo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.ApplyStockChange(context.Background(), StockChangeRequest{
		ProductID: productID,
		Operation: catalog.StockOperationSubtract,
		Quantity:  3,
		Reason:    "order placed",
	})

	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, catalog.EventTypeProductOutOfStock, published[0].EventType())
}

type publisherFunc func(ctx context.Context, events ...shared.DomainEvent) error

func (f publisherFunc) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return f(ctx, events...)
}

func TestStockService_GetStock(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	product := stockTestProduct(t, productID, 4)
	require.NoError(t, product.SetLowStockThreshold(5))
	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil).Once()

	level, err := service.GetStock(context.Background(), productID)

	require.NoError(t, err)
	assert.Equal(t, 4, level.StockQuantity)
	assert.Equal(t, 5, level.LowStockThreshold)
	assert.True(t, level.LowStock)
}

func TestStockService_ListMutations(t *testing.T) {
	productRepo := new(MockProductRepository)
	mutationRepo := new(MockStockMutationRepository)
	service := newStockServiceForTest(productRepo, mutationRepo)

	productID := uuid.New()
	mutations := []inventory.StockMutation{
		{
			BaseEntity:    shared.NewBaseEntity(),
			ProductID:     productID,
			Operation:     catalog.StockOperationAdd,
			Delta:         5,
			PreviousStock: 0,
			NewStock:      5,
			Reason:        "initial stock",
			Actor:         "admin",
		},
	}
	// Defaults are applied when the filter comes in empty.
	mutationRepo.On("FindByProduct", mock.Anything, productID, shared.Filter{Page: 1, PageSize: 20}).Return(mutations, nil).Once()
	mutationRepo.On("CountByProduct", mock.Anything, productID).Return(int64(1), nil).Once()

	responses, total, err := service.ListMutations(context.Background(), productID, shared.Filter{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)
	assert.Equal(t, 5, responses[0].Delta)
	assert.Equal(t, "admin", responses[0].Actor)
	mutationRepo.AssertExpectations(t)
}
