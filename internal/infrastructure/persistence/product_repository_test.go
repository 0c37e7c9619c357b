package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormProductRepository_UpdateStockGuarded_Applied(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	productID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WithArgs(7, productID, 10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.UpdateStockGuarded(context.Background(), productID, 10, 7)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_UpdateStockGuarded_Conflict(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	productID := uuid.New()

	// The guard in the WHERE clause matched no row: another writer moved
	// the stock between our read and this write.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WithArgs(7, productID, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.UpdateStockGuarded(context.Background(), productID, 10, 7)

	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	productID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products"`)).
		WithArgs(productID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), productID)

	assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_ExistsBySKU_NormalizesInput(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products"`)).
		WithArgs("SKU-001").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsBySKU(context.Background(), "  sku-001 ")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormProductRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormProductRepository(db)
	productID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), productID)

	assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func savedProduct(t *testing.T, repo *GormProductRepository) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct("SKU-001", "Test Product", valueobject.NewMoneyVNDFromInt(100000))
	require.NoError(t, err)
	product.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_SaveWithLock_PersistsZeroValues(t *testing.T) {
	db := newSQLiteGorm(t, &catalog.Product{})
	repo := NewGormProductRepository(db)
	product := savedProduct(t, repo)
	product.SetFeatured(true)
	require.NoError(t, repo.SaveWithLock(context.Background(), product))

	// false flags must land like any other value.
	product.Deactivate()
	product.SetFeatured(false)
	require.NoError(t, repo.SaveWithLock(context.Background(), product))

	reloaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.False(t, reloaded.IsFeatured)
	assert.Equal(t, product.Version, reloaded.Version)
}

func TestGormProductRepository_SaveWithLock_StaleVersionConflict(t *testing.T) {
	db := newSQLiteGorm(t, &catalog.Product{})
	repo := NewGormProductRepository(db)
	product := savedProduct(t, repo)
	stale := *product

	product.Deactivate()
	require.NoError(t, repo.SaveWithLock(context.Background(), product))

	// The stale copy carries the pre-update version; its write must lose.
	stale.Deactivate()
	err := repo.SaveWithLock(context.Background(), &stale)

	assert.True(t, shared.IsDomainError(err, "CONCURRENT_MODIFICATION"))
}

func TestGormProductRepository_FindByIDs_EmptyInput(t *testing.T) {
	db, _ := newMockGorm(t)
	repo := NewGormProductRepository(db)

	products, err := repo.FindByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, products)
}
