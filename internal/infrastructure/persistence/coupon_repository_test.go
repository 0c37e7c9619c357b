package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCouponRepository_IncrementUsage_Applied(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormCouponRepository(db)
	couponID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET`)).
		WithArgs(couponID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.IncrementUsage(context.Background(), couponID)

	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCouponRepository_IncrementUsage_LimitReached(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormCouponRepository(db)
	couponID := uuid.New()

	// used_count already equals usage_limit, so the guard matches nothing.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET`)).
		WithArgs(couponID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := repo.IncrementUsage(context.Background(), couponID)

	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCouponRepository_DecrementUsage_FlooredAtZero(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormCouponRepository(db)
	couponID := uuid.New()

	// A zero used_count matches no row; that is not an error.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coupons" SET`)).
		WithArgs(couponID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DecrementUsage(context.Background(), couponID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCouponRepository_FindByCode_NotFound(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewGormCouponRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coupons"`)).
		WithArgs("MISSING", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByCode(context.Background(), "missing")

	assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
