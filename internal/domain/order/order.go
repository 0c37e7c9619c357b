package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Happy path: pending -> confirmed -> processing -> shipped -> delivered.
// pending|confirmed -> cancelled; delivered -> refunded. Nothing else.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusRefunded
	case StatusCancelled, StatusRefunded:
		return false
	}
	return false
}

// IsTerminal reports whether no further transition is defined
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// PaymentStatus represents the payment state reported by the payment collaborator
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is a known PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid,
		PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// ShippingMethod identifies a shipping option from the fixed fee table
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
	ShippingSameDay  ShippingMethod = "same_day"
)

// IsValid checks if the method is a known ShippingMethod
func (m ShippingMethod) IsValid() bool {
	switch m {
	case ShippingStandard, ShippingExpress, ShippingSameDay:
		return true
	}
	return false
}

// Item is a line item with its price frozen at order time.
// UnitPrice is copied from the live product price at creation and never
// re-read, so historical orders are insulated from later price changes.
type Item struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates an order item with the price snapshot taken now
func NewItem(orderID, productID uuid.UUID, productName, sku string, quantity int, unitPrice valueobject.Money) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidQuantity, "Item quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Item{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		SKU:         sku,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		TotalPrice:  unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Totals is the frozen monetary breakdown of an order.
// Invariant: Total = Subtotal - Discount + Shipping + Tax.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Validate checks the totals identity and non-negativity
func (t Totals) Validate() error {
	expected := t.Subtotal.Sub(t.Discount).Add(t.Shipping).Add(t.Tax)
	if !expected.Equal(t.Total) {
		return shared.NewDomainError("INVALID_TOTALS", "Order total does not match its breakdown")
	}
	if t.Total.IsNegative() || t.Subtotal.IsNegative() || t.Discount.IsNegative() ||
		t.Shipping.IsNegative() || t.Tax.IsNegative() {
		return shared.NewDomainError("INVALID_TOTALS", "Order amounts cannot be negative")
	}
	return nil
}

// Order is the aggregate root for a customer order. Totals are computed
// server-side at creation and frozen thereafter; status moves only
// through the transition table on Status.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status          Status              `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(20);not null;default:'unpaid'"`
	Items           []Item              `gorm:"foreignKey:OrderID;references:ID"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb;serializer:json"`
	BillingAddress  valueobject.Address `gorm:"type:jsonb;serializer:json"`
	ShippingMethod  ShippingMethod      `gorm:"type:varchar(20);not null"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	DiscountAmount  decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingAmount  decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount       decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	CouponCode      *string             `gorm:"type:varchar(50)"`
	CouponID        *uuid.UUID          `gorm:"type:uuid"`
	Notes           string              `gorm:"type:text"`
	CancelReason    string              `gorm:"type:varchar(255)"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	RefundedAt      *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order in pending/unpaid with frozen totals.
// The items must already carry their price snapshots.
func NewOrder(orderNumber string, items []Item, shippingAddr, billingAddr valueobject.Address, method ShippingMethod, totals Totals) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if shippingAddr.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_METHOD", "Unknown shipping method")
	}
	if err := totals.Validate(); err != nil {
		return nil, err
	}
	if billingAddr.IsZero() {
		billingAddr = shippingAddr
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            StatusPending,
		PaymentStatus:     PaymentStatusUnpaid,
		ShippingAddress:   shippingAddr,
		BillingAddress:    billingAddr,
		ShippingMethod:    method,
		Subtotal:          totals.Subtotal,
		DiscountAmount:    totals.Discount,
		ShippingAmount:    totals.Shipping,
		TaxAmount:         totals.Tax,
		TotalAmount:       totals.Total,
	}

	for i := range items {
		items[i].OrderID = o.ID
	}
	o.Items = items

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// AttachCoupon records which coupon was applied to this order
func (o *Order) AttachCoupon(couponID uuid.UUID, code string) {
	o.CouponID = &couponID
	o.CouponCode = &code
}

// SetNotes sets free-text notes from the checkout form
func (o *Order) SetNotes(notes string) {
	o.Notes = notes
}

// AdvanceTo moves the order to the target status if the transition table
// permits it. Cancellation and refund have dedicated methods because
// they carry extra state.
func (o *Order) AdvanceTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidStatusTransition, "Unknown order status")
	}
	if target == StatusCancelled || target == StatusRefunded {
		return shared.NewDomainError(shared.CodeInvalidStatusTransition,
			fmt.Sprintf("Transition to %s must go through its dedicated operation", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidStatusTransition,
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	switch target {
	case StatusConfirmed:
		o.ConfirmedAt = &now
	case StatusShipped:
		o.ShippedAt = &now
	case StatusDelivered:
		o.DeliveredAt = &now
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return nil
}

// IsCancellable reports whether the order may still be cancelled
func (o *Order) IsCancellable() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// Cancel cancels the order. Permitted only from pending or confirmed;
// stock restoration is the application layer's responsibility within the
// same logical unit.
func (o *Order) Cancel(reason string) error {
	if !o.IsCancellable() {
		return shared.NewDomainError(shared.CodeOrderNotCancellable,
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	from := o.Status
	now := time.Now()
	o.Status = StatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, from))

	return nil
}

// Refund moves a delivered order to refunded and marks the payment refunded
func (o *Order) Refund() error {
	if !o.Status.CanTransitionTo(StatusRefunded) {
		return shared.NewDomainError(shared.CodeInvalidStatusTransition,
			fmt.Sprintf("Cannot refund order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = StatusRefunded
	o.PaymentStatus = PaymentStatusRefunded
	o.RefundedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderRefundedEvent(o))

	return nil
}

// SetPaymentStatus records the payment state reported by the gateway callback
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	if o.PaymentStatus == status {
		return nil
	}

	from := o.PaymentStatus
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewPaymentStatusChangedEvent(o, from))

	return nil
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalMoney returns the frozen total as Money
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyVND(o.TotalAmount)
}
