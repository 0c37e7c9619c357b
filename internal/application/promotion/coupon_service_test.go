package promotion

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/promotion"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCouponRepository is a mock implementation of promotion.CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*promotion.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter shared.Filter) ([]promotion.Coupon, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]promotion.Coupon), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *promotion.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error) {
	args := m.Called(ctx, couponID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) DecrementUsage(ctx context.Context, couponID uuid.UUID) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

func (m *MockCouponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCouponRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

var _ promotion.CouponRepository = (*MockCouponRepository)(nil)

func percentageCoupon(t *testing.T, value int64) *promotion.Coupon {
	t.Helper()
	coupon, err := promotion.NewCoupon("SAVE10", promotion.CouponTypePercentage, decimal.NewFromInt(value), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return coupon
}

func TestCouponService_ValidateAndPrice_Success(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	coupon := percentageCoupon(t, 10)
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil).Once()

	result, err := service.ValidateAndPrice(context.Background(), "  save10 ", decimal.NewFromInt(250000), time.Now())

	require.NoError(t, err)
	assert.Equal(t, coupon.ID, result.CouponID)
	assert.Equal(t, "SAVE10", result.Code)
	assert.True(t, result.DiscountAmount.Equal(decimal.NewFromInt(25000)))
	couponRepo.AssertExpectations(t)
}

func TestCouponService_ValidateAndPrice_NotFound(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	couponRepo.On("FindByCode", mock.Anything, "NOPE").
		Return(nil, shared.NewDomainError("NOT_FOUND", "Coupon not found")).Once()

	_, err := service.ValidateAndPrice(context.Background(), "nope", decimal.NewFromInt(100000), time.Now())

	assert.True(t, shared.IsDomainError(err, shared.CodeCouponNotFound))
}

func TestCouponService_ValidateAndPrice_Ineligible(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	coupon := percentageCoupon(t, 10)
	require.NoError(t, coupon.SetMinimumAmount(decimal.NewFromInt(500000)))
	couponRepo.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil).Once()

	_, err := service.ValidateAndPrice(context.Background(), "SAVE10", decimal.NewFromInt(100000), time.Now())

	assert.True(t, shared.IsDomainError(err, shared.CodeMinimumNotMet))
}

func TestCouponService_RecordUsage_Success(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	couponID := uuid.New()
	couponRepo.On("IncrementUsage", mock.Anything, couponID).Return(true, nil).Once()

	assert.NoError(t, service.RecordUsage(context.Background(), couponID))
	couponRepo.AssertExpectations(t)
}

func TestCouponService_RecordUsage_GuardRejected(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	couponID := uuid.New()
	couponRepo.On("IncrementUsage", mock.Anything, couponID).Return(false, nil).Once()

	err := service.RecordUsage(context.Background(), couponID)

	assert.True(t, shared.IsDomainError(err, shared.CodeCouponExhausted))
}

func TestCouponService_ReleaseUsage(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	couponID := uuid.New()
	couponRepo.On("DecrementUsage", mock.Anything, couponID).Return(nil).Once()

	assert.NoError(t, service.ReleaseUsage(context.Background(), couponID))
	couponRepo.AssertExpectations(t)
}

func TestCouponService_Create_WithAllOptions(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	maxDiscount := decimal.NewFromInt(50000)
	limit := 100
	expires := time.Now().Add(30 * 24 * time.Hour)
	couponRepo.On("Save", mock.Anything, mock.MatchedBy(func(c *promotion.Coupon) bool {
		return c.Code == "SUMMER20" &&
			c.MaximumDiscount != nil && c.MaximumDiscount.Equal(maxDiscount) &&
			c.UsageLimit != nil && *c.UsageLimit == 100 &&
			c.ExpiresAt != nil
	})).Return(nil).Once()

	response, err := service.Create(context.Background(), CreateCouponRequest{
		Code:            "summer20",
		Type:            promotion.CouponTypePercentage,
		Value:           decimal.NewFromInt(20),
		MinimumAmount:   decimal.NewFromInt(200000),
		MaximumDiscount: &maxDiscount,
		UsageLimit:      &limit,
		StartsAt:        time.Now(),
		ExpiresAt:       &expires,
	})

	require.NoError(t, err)
	assert.Equal(t, "SUMMER20", response.Code)
	assert.Equal(t, 0, response.UsedCount)
	couponRepo.AssertExpectations(t)
}

func TestCouponService_Create_InvalidValue(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	_, err := service.Create(context.Background(), CreateCouponRequest{
		Code:     "BROKEN",
		Type:     promotion.CouponTypePercentage,
		Value:    decimal.NewFromInt(150),
		StartsAt: time.Now(),
	})

	assert.True(t, shared.IsDomainError(err, "INVALID_VALUE"))
	couponRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCouponService_SetActive(t *testing.T) {
	couponRepo := new(MockCouponRepository)
	service := NewCouponService(couponRepo, zap.NewNop())

	coupon := percentageCoupon(t, 10)
	couponRepo.On("FindByID", mock.Anything, coupon.ID).Return(coupon, nil).Once()
	couponRepo.On("Save", mock.Anything, coupon).Return(nil).Once()

	response, err := service.SetActive(context.Background(), coupon.ID, false)

	require.NoError(t, err)
	assert.False(t, response.IsActive)
	couponRepo.AssertExpectations(t)
}
