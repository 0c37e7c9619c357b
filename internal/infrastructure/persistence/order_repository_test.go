package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderFixture(t *testing.T, orderNumber string) *order.Order {
	t.Helper()

	item, err := order.NewItem(uuid.Nil, uuid.New(), "Test Product", "SKU-001", 2, valueobject.NewMoneyVNDFromInt(100000))
	require.NoError(t, err)

	addr, err := valueobject.NewAddress("Nguyen Van A", "0901234567", "12 Le Loi", "District 1", "Ho Chi Minh City")
	require.NoError(t, err)

	o, err := order.NewOrder(orderNumber, []order.Item{*item}, addr, valueobject.Address{}, order.ShippingStandard, order.Totals{
		Subtotal: decimal.NewFromInt(200000),
		Discount: decimal.Zero,
		Shipping: decimal.NewFromInt(30000),
		Tax:      decimal.Zero,
		Total:    decimal.NewFromInt(230000),
	})
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestGormOrderRepository_SaveWithLock_PersistsCancellation(t *testing.T) {
	db := newSQLiteGorm(t, &order.Order{}, &order.Item{})
	repo := NewGormOrderRepository(db)

	o := orderFixture(t, "ORD-20260830-000001")
	require.NoError(t, repo.Save(context.Background(), o))

	require.NoError(t, o.Cancel("customer request"))
	o.ClearDomainEvents()
	require.NoError(t, repo.SaveWithLock(context.Background(), o))

	reloaded, err := repo.FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, reloaded.Status)
	assert.Equal(t, "customer request", reloaded.CancelReason)
	require.NotNil(t, reloaded.CancelledAt)
	assert.Equal(t, o.Version, reloaded.Version)
	require.Len(t, reloaded.Items, 1)
}

func TestGormOrderRepository_SaveWithLock_StaleVersionConflict(t *testing.T) {
	db := newSQLiteGorm(t, &order.Order{}, &order.Item{})
	repo := NewGormOrderRepository(db)

	o := orderFixture(t, "ORD-20260830-000001")
	require.NoError(t, repo.Save(context.Background(), o))
	stale := *o

	require.NoError(t, o.Cancel("customer request"))
	o.ClearDomainEvents()
	require.NoError(t, repo.SaveWithLock(context.Background(), o))

	require.NoError(t, stale.Cancel("duplicate click"))
	err := repo.SaveWithLock(context.Background(), &stale)

	assert.True(t, shared.IsDomainError(err, "CONCURRENT_MODIFICATION"))
}

func TestGormOrderRepository_GenerateOrderNumber_CountsOnlyToday(t *testing.T) {
	db := newSQLiteGorm(t, &order.Order{}, &order.Item{})
	repo := NewGormOrderRepository(db)

	// An order from two days ago must not advance today's sequence.
	older := orderFixture(t, "ORD-20260828-000001")
	older.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, repo.Save(context.Background(), older))

	today := time.Now().Format("20060102")
	first := orderFixture(t, fmt.Sprintf("ORD-%s-%06d", today, 1))
	require.NoError(t, repo.Save(context.Background(), first))

	number, err := repo.GenerateOrderNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%s-%06d", today, 2), number)
}

func TestGormOrderRepository_GenerateOrderNumber_SkipsTakenCandidate(t *testing.T) {
	db := newSQLiteGorm(t, &order.Order{}, &order.Item{})
	repo := NewGormOrderRepository(db)

	today := time.Now().Format("20060102")
	taken := orderFixture(t, fmt.Sprintf("ORD-%s-%06d", today, 2))
	require.NoError(t, repo.Save(context.Background(), taken))

	number, err := repo.GenerateOrderNumber(context.Background())

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("ORD-%s-%06d", today, 3), number)
}
