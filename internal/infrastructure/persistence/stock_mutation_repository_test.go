package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteGorm(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}

func appendMutation(t *testing.T, repo *GormStockMutationRepository, productID uuid.UUID, op catalog.StockOperation, prev, next int, createdAt time.Time) {
	t.Helper()

	mutation, err := inventory.NewStockMutation(productID, op,
		catalog.StockChange{PreviousStock: prev, NewStock: next}, "test", "tester")
	require.NoError(t, err)
	mutation.CreatedAt = createdAt
	require.NoError(t, repo.Save(context.Background(), mutation))
}

func TestGormStockMutationRepository_RoundTrip(t *testing.T) {
	db := newSQLiteGorm(t, &inventory.StockMutation{})
	repo := NewGormStockMutationRepository(db)
	productID := uuid.New()
	otherID := uuid.New()
	base := time.Now().Add(-time.Hour)

	appendMutation(t, repo, productID, catalog.StockOperationAdd, 0, 10, base)
	appendMutation(t, repo, productID, catalog.StockOperationSubtract, 10, 7, base.Add(time.Minute))
	appendMutation(t, repo, otherID, catalog.StockOperationSet, 0, 99, base)

	mutations, err := repo.FindByProduct(context.Background(), productID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, mutations, 2)

	// Newest first.
	assert.Equal(t, catalog.StockOperationSubtract, mutations[0].Operation)
	assert.Equal(t, -3, mutations[0].Delta)
	assert.Equal(t, catalog.StockOperationAdd, mutations[1].Operation)
	assert.Equal(t, 10, mutations[1].Delta)

	count, err := repo.CountByProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormStockMutationRepository_Pagination(t *testing.T) {
	db := newSQLiteGorm(t, &inventory.StockMutation{})
	repo := NewGormStockMutationRepository(db)
	productID := uuid.New()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		appendMutation(t, repo, productID, catalog.StockOperationAdd, i, i+1, base.Add(time.Duration(i)*time.Minute))
	}

	page2, err := repo.FindByProduct(context.Background(), productID, shared.Filter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, 3, page2[0].NewStock)
	assert.Equal(t, 2, page2[1].NewStock)
}
