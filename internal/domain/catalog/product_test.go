package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, stock int) *Product {
	t.Helper()
	product, err := NewProduct("SKU-001", "Test Product", valueobject.NewMoneyVNDFromInt(120000))
	require.NoError(t, err)
	product.StockQuantity = stock
	product.ClearDomainEvents()
	return product
}

func TestNewProduct_Success(t *testing.T) {
	product, err := NewProduct("  sku-001  ", "  Test Product  ", valueobject.NewMoneyVNDFromInt(120000))

	assert.NoError(t, err)
	assert.Equal(t, "SKU-001", product.SKU)
	assert.Equal(t, "Test Product", product.Name)
	assert.True(t, product.IsActive)
	assert.Equal(t, 0, product.StockQuantity)
	assert.Len(t, product.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductCreated, product.GetDomainEvents()[0].EventType())
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name     string
		sku      string
		prodName string
		price    int64
		wantCode string
	}{
		{"empty sku", "", "Product", 1000, "INVALID_SKU"},
		{"long sku", strings.Repeat("A", 51), "Product", 1000, "INVALID_SKU"},
		{"empty name", "SKU-001", "   ", 1000, "INVALID_NAME"},
		{"long name", "SKU-001", strings.Repeat("a", 201), 1000, "INVALID_NAME"},
		{"negative price", "SKU-001", "Product", -1, "INVALID_PRICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.sku, tt.prodName, valueobject.NewMoneyVNDFromInt(tt.price))

			var domainErr *shared.DomainError
			assert.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestProduct_ApplyStockChange_Set(t *testing.T) {
	product := newTestProduct(t, 10)

	change, err := product.ApplyStockChange(StockOperationSet, 25, false)

	assert.NoError(t, err)
	assert.Equal(t, 10, change.PreviousStock)
	assert.Equal(t, 25, change.NewStock)
	assert.False(t, change.Clamped)
	assert.Equal(t, 25, product.StockQuantity)
}

func TestProduct_ApplyStockChange_SetNegative(t *testing.T) {
	product := newTestProduct(t, 10)

	_, err := product.ApplyStockChange(StockOperationSet, -1, false)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
	assert.Equal(t, 10, product.StockQuantity)
}

func TestProduct_ApplyStockChange_Add(t *testing.T) {
	product := newTestProduct(t, 10)

	change, err := product.ApplyStockChange(StockOperationAdd, 5, false)

	assert.NoError(t, err)
	assert.Equal(t, 15, change.NewStock)
}

func TestProduct_ApplyStockChange_AddNonPositive(t *testing.T) {
	product := newTestProduct(t, 10)

	_, err := product.ApplyStockChange(StockOperationAdd, 0, false)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidQuantity, domainErr.Code)
}

func TestProduct_ApplyStockChange_SubtractInsufficient(t *testing.T) {
	product := newTestProduct(t, 5)

	_, err := product.ApplyStockChange(StockOperationSubtract, 6, false)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInsufficientStock, domainErr.Code)
	assert.Equal(t, 5, product.StockQuantity)
}

func TestProduct_ApplyStockChange_SubtractForceClampsToZero(t *testing.T) {
	product := newTestProduct(t, 5)

	change, err := product.ApplyStockChange(StockOperationSubtract, 8, true)

	assert.NoError(t, err)
	assert.Equal(t, 5, change.PreviousStock)
	assert.Equal(t, 0, change.NewStock)
	assert.True(t, change.Clamped)
	assert.Equal(t, 0, product.StockQuantity)
}

func TestProduct_ApplyStockChange_ExactSubtractToZero(t *testing.T) {
	product := newTestProduct(t, 5)

	change, err := product.ApplyStockChange(StockOperationSubtract, 5, false)

	assert.NoError(t, err)
	assert.Equal(t, 0, change.NewStock)
	assert.False(t, change.Clamped)
}

func TestProduct_ApplyStockChange_LowStockEventOnCrossing(t *testing.T) {
	product := newTestProduct(t, 10)
	require.NoError(t, product.SetLowStockThreshold(5))
	product.ClearDomainEvents()

	_, err := product.ApplyStockChange(StockOperationSubtract, 6, false)
	require.NoError(t, err)

	events := product.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductLowStock, events[0].EventType())

	// Already below threshold; a further subtract does not re-signal.
	product.ClearDomainEvents()
	_, err = product.ApplyStockChange(StockOperationSubtract, 1, false)
	require.NoError(t, err)
	assert.Empty(t, product.GetDomainEvents())
}

func TestProduct_ApplyStockChange_OutOfStockEvent(t *testing.T) {
	product := newTestProduct(t, 3)

	_, err := product.ApplyStockChange(StockOperationSubtract, 3, false)
	require.NoError(t, err)

	events := product.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeProductOutOfStock, events[0].EventType())
}

func TestProduct_ApplyStockChange_InvalidOperation(t *testing.T) {
	product := newTestProduct(t, 3)

	_, err := product.ApplyStockChange(StockOperation("increment"), 1, false)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
}

func TestProduct_IsLowStock(t *testing.T) {
	product := newTestProduct(t, 5)

	// Zero threshold disables the signal entirely.
	assert.False(t, product.IsLowStock())

	require.NoError(t, product.SetLowStockThreshold(5))
	assert.True(t, product.IsLowStock())

	require.NoError(t, product.SetLowStockThreshold(4))
	assert.False(t, product.IsLowStock())
}

func TestProduct_CanFulfill(t *testing.T) {
	product := newTestProduct(t, 5)

	assert.True(t, product.CanFulfill(5))
	assert.False(t, product.CanFulfill(6))

	product.Deactivate()
	assert.False(t, product.CanFulfill(1))
}

func TestProduct_SetPrices_Negative(t *testing.T) {
	product := newTestProduct(t, 0)

	err := product.SetPrices(
		valueobject.NewMoneyVND(decimal.NewFromInt(-1)),
		valueobject.ZeroVND(),
		valueobject.ZeroVND(),
	)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PRICE", domainErr.Code)
}

func TestStockOperation_IsValid(t *testing.T) {
	assert.True(t, StockOperationSet.IsValid())
	assert.True(t, StockOperationAdd.IsValid())
	assert.True(t, StockOperationSubtract.IsValid())
	assert.False(t, StockOperation("delete").IsValid())
}
