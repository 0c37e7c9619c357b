package promotion

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// CouponRepository defines the interface for coupon persistence
type CouponRepository interface {
	// FindByID finds a coupon by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)

	// FindByCode finds a coupon by its normalized code
	FindByCode(ctx context.Context, code string) (*Coupon, error)

	// FindAll finds coupons with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)

	// Save creates or updates a coupon
	Save(ctx context.Context, coupon *Coupon) error

	// IncrementUsage atomically increments used_count, guarded so the
	// count can never pass usage_limit. Returns false (and no error)
	// when the guard rejects the increment.
	IncrementUsage(ctx context.Context, couponID uuid.UUID) (bool, error)

	// DecrementUsage atomically decrements used_count, floored at zero.
	// Compensation path for order creation failures only.
	DecrementUsage(ctx context.Context, couponID uuid.UUID) error

	// Delete deletes a coupon
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts coupons matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
