package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderItemRequest is one requested cart line
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// AddressRequest carries a shipping or billing address from the checkout form
type AddressRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Line1    string `json:"line1" binding:"required"`
	Line2    string `json:"line2"`
	Ward     string `json:"ward"`
	District string `json:"district" binding:"required"`
	City     string `json:"city" binding:"required"`
	Country  string `json:"country"`
}

// ToAddress converts the request to the Address value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	opts := []valueobject.AddressOption{}
	if r.Line2 != "" {
		opts = append(opts, valueobject.WithLine2(r.Line2))
	}
	if r.Ward != "" {
		opts = append(opts, valueobject.WithWard(r.Ward))
	}
	if r.Country != "" {
		opts = append(opts, valueobject.WithCountry(r.Country))
	}
	return valueobject.NewAddress(r.FullName, r.Phone, r.Line1, r.District, r.City, opts...)
}

// CreateOrderRequest is the full checkout submission
type CreateOrderRequest struct {
	Items           []OrderItemRequest   `json:"items" binding:"required,min=1,dive"`
	ShippingAddress AddressRequest       `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressRequest      `json:"billing_address"`
	ShippingMethod  order.ShippingMethod `json:"shipping_method" binding:"required"`
	CouponCode      string               `json:"coupon_code"`
	Notes           string               `json:"notes"`
	Actor           string               `json:"-"`
}

// OrderItemResponse is one line of an order with its frozen prices
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderResponse is the external view of an order
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	Items           []OrderItemResponse `json:"items"`
	ShippingAddress valueobject.Address `json:"shipping_address"`
	BillingAddress  valueobject.Address `json:"billing_address"`
	ShippingMethod  string              `json:"shipping_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	ShippingAmount  decimal.Decimal     `json:"shipping_amount"`
	TaxAmount       decimal.Decimal     `json:"tax_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	CouponCode      *string             `json:"coupon_code,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time          `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time          `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	RefundedAt      *time.Time          `json:"refunded_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse maps a domain order to its response
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Status:          o.Status.String(),
		PaymentStatus:   string(o.PaymentStatus),
		Items:           items,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		ShippingMethod:  string(o.ShippingMethod),
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		ShippingAmount:  o.ShippingAmount,
		TaxAmount:       o.TaxAmount,
		TotalAmount:     o.TotalAmount,
		CouponCode:      o.CouponCode,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		RefundedAt:      o.RefundedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// QuoteRequest asks for a price preview without creating an order
type QuoteRequest struct {
	Items          []OrderItemRequest   `json:"items" binding:"required,min=1,dive"`
	ShippingMethod order.ShippingMethod `json:"shipping_method" binding:"required"`
	CouponCode     string               `json:"coupon_code"`
}

// QuoteResponse is the priced preview of a cart
type QuoteResponse struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CouponCode     string          `json:"coupon_code,omitempty"`
}

// SkippedItem reports a reorder line that could not be carried over
type SkippedItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Reason      string    `json:"reason"`
}

// ReorderResult is the outcome of reordering a past order
type ReorderResult struct {
	Order   *OrderResponse `json:"order"`
	Skipped []SkippedItem  `json:"skipped,omitempty"`
}

// PaymentCallbackRequest is the payload reported by the payment gateway
type PaymentCallbackRequest struct {
	OrderNumber   string              `json:"order_number" binding:"required"`
	PaymentStatus order.PaymentStatus `json:"payment_status" binding:"required"`
	TransactionID string              `json:"transaction_id" binding:"required"`
}
