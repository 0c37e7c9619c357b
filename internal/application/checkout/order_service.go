package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	promotionapp "github.com/storefront/backend/internal/application/promotion"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Audit reasons recorded on every stock mutation the order lifecycle makes
const (
	reasonOrderPlaced     = "order placed"
	reasonOrderCancelled  = "order cancelled"
	reasonOrderRefunded   = "order refunded"
	reasonCreateRollback  = "order creation rollback"
	reasonRestoreRollback = "stock restore rollback"
)

// paymentCallbackTTL is how long a processed gateway transaction ID is
// remembered for duplicate suppression.
const paymentCallbackTTL = 24 * time.Hour

// OrderService drives the order lifecycle: checkout, status transitions,
// cancellation, refund and payment callbacks. Stock moves only through
// the stock ledger so every reservation and restoration is audited.
type OrderService struct {
	orders      order.Repository
	products    catalog.ProductRepository
	stock       *inventoryapp.StockService
	coupons     *promotionapp.CouponService
	pricing     *PricingEngine
	idempotency shared.IdempotencyStore
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders order.Repository,
	products catalog.ProductRepository,
	stock *inventoryapp.StockService,
	coupons *promotionapp.CouponService,
	pricing *PricingEngine,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		stock:    stock,
		coupons:  coupons,
		pricing:  pricing,
		logger:   logger,
	}
}

// SetEventPublisher sets the publisher for order lifecycle events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetIdempotencyStore sets the store used to deduplicate payment callbacks
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// Quote prices a cart without creating anything. Coupon eligibility is
// checked against the live subtotal; nothing is reserved or counted.
func (s *OrderService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	_, subtotal, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	couponCode := ""
	if req.CouponCode != "" {
		priced, err := s.coupons.ValidateAndPrice(ctx, req.CouponCode, subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		discount = priced.DiscountAmount
		couponCode = priced.Code
	}

	totals, err := s.pricing.Quote(subtotal, discount, req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{
		Subtotal:       totals.Subtotal,
		DiscountAmount: totals.Discount,
		ShippingAmount: totals.Shipping,
		TaxAmount:      totals.Tax,
		TotalAmount:    totals.Total,
		CouponCode:     couponCode,
	}, nil
}

// Create runs the full checkout: price the cart, reserve stock line by
// line through the ledger, record coupon usage, then persist the order.
// Any failure after a partial reservation compensates with matching
// restock mutations, so a failed checkout leaves stock exactly as found.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	shippingAddr, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}
	var billingAddr valueobject.Address
	if req.BillingAddress != nil {
		billingAddr, err = req.BillingAddress.ToAddress()
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
	}

	lines, subtotal, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Price the coupon before touching stock so an ineligible code fails
	// the checkout without any mutation.
	discount := decimal.Zero
	var couponID *uuid.UUID
	var couponCode string
	if req.CouponCode != "" {
		priced, err := s.coupons.ValidateAndPrice(ctx, req.CouponCode, subtotal, time.Now())
		if err != nil {
			return nil, err
		}
		discount = priced.DiscountAmount
		couponID = &priced.CouponID
		couponCode = priced.Code
	}

	totals, err := s.pricing.Quote(subtotal, discount, req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	reserved, err := s.reserveStock(ctx, lines, req.Actor)
	if err != nil {
		s.releaseStock(ctx, reserved, req.Actor)
		return nil, err
	}

	// The guarded increment is the point of no return for the coupon: it
	// can still lose the last redemption slot to a concurrent checkout.
	if couponID != nil {
		if err := s.coupons.RecordUsage(ctx, *couponID); err != nil {
			s.releaseStock(ctx, reserved, req.Actor)
			return nil, err
		}
	}

	orderNumber, err := s.orders.GenerateOrderNumber(ctx)
	if err != nil {
		s.compensateCreate(ctx, reserved, couponID, req.Actor)
		return nil, shared.NewDomainError(shared.CodeOrderCreationFailed, "Could not allocate an order number")
	}

	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		item, err := order.NewItem(uuid.Nil, line.product.ID, line.product.Name, line.product.SKU,
			line.quantity, line.product.PriceMoney())
		if err != nil {
			s.compensateCreate(ctx, reserved, couponID, req.Actor)
			return nil, err
		}
		items = append(items, *item)
	}

	o, err := order.NewOrder(orderNumber, items, shippingAddr, billingAddr, req.ShippingMethod, totals)
	if err != nil {
		s.compensateCreate(ctx, reserved, couponID, req.Actor)
		return nil, err
	}
	if couponID != nil {
		o.AttachCoupon(*couponID, couponCode)
	}
	if req.Notes != "" {
		o.SetNotes(req.Notes)
	}

	if err := s.orders.Save(ctx, o); err != nil {
		s.logger.Error("failed to persist order after stock reservation",
			zap.String("order_number", orderNumber),
			zap.Error(err))
		s.compensateCreate(ctx, reserved, couponID, req.Actor)
		return nil, shared.NewDomainError(shared.CodeOrderCreationFailed, "Order could not be created")
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Get retrieves an order by ID
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*OrderResponse, error) {
	o, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves orders with pagination
func (s *OrderService) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// Advance moves the order forward along the fulfilment path
func (s *OrderService) Advance(ctx context.Context, orderID uuid.UUID, target order.Status) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.AdvanceTo(target); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels a pending or confirmed order and restores every
// reserved quantity through the ledger, one audited mutation per line.
// The restore and the order update succeed or fail together.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID, reason, actor string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.closeOut(ctx, o, reasonOrderCancelled, actor); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Refund refunds a delivered order and returns its stock
func (s *OrderService) Refund(ctx context.Context, orderID uuid.UUID, actor string) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Refund(); err != nil {
		return nil, err
	}
	if err := s.closeOut(ctx, o, reasonOrderRefunded, actor); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// HandlePaymentCallback applies a gateway-reported payment status.
// Gateways retry callbacks, so the transaction ID is checked against the
// idempotency store and duplicates return the current order unchanged.
// A successful payment on a pending order auto-confirms it.
func (s *OrderService) HandlePaymentCallback(ctx context.Context, req PaymentCallbackRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByOrderNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("payment:%s:%s", req.OrderNumber, req.TransactionID)
	if s.idempotency != nil {
		seen, err := s.idempotency.IsProcessed(ctx, key)
		if err != nil {
			// The store being down must not drop a payment notification.
			s.logger.Warn("idempotency store unavailable, processing callback anyway",
				zap.String("order_number", req.OrderNumber),
				zap.Error(err))
		} else if seen {
			s.logger.Info("duplicate payment callback ignored",
				zap.String("order_number", req.OrderNumber),
				zap.String("transaction_id", req.TransactionID))
			response := ToOrderResponse(o)
			return &response, nil
		}
	}

	if err := o.SetPaymentStatus(req.PaymentStatus); err != nil {
		return nil, err
	}
	if req.PaymentStatus == order.PaymentStatusPaid && o.Status == order.StatusPending {
		if err := o.AdvanceTo(order.StatusConfirmed); err != nil {
			return nil, err
		}
	}

	if err := s.orders.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	// The key is recorded only after the durable save, so a failed
	// attempt stays retryable from the gateway's point of view.
	if s.idempotency != nil {
		if _, err := s.idempotency.MarkProcessed(ctx, key, paymentCallbackTTL); err != nil {
			s.logger.Warn("failed to record processed payment callback",
				zap.String("order_number", req.OrderNumber),
				zap.String("transaction_id", req.TransactionID),
				zap.Error(err))
		}
	}

	s.publishEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Reorder builds a new order from a past one. Lines whose product has
// since been removed, deactivated or sold out are skipped and reported
// rather than failing the whole reorder.
func (s *OrderService) Reorder(ctx context.Context, orderID uuid.UUID, req CreateOrderRequest) (*ReorderResult, error) {
	previous, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var carried []OrderItemRequest
	var skipped []SkippedItem
	for _, item := range previous.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			if shared.IsDomainError(err, "NOT_FOUND") {
				skipped = append(skipped, SkippedItem{
					ProductID:   item.ProductID,
					ProductName: item.ProductName,
					Reason:      "product no longer exists",
				})
				continue
			}
			return nil, err
		}
		if !product.IsActive {
			skipped = append(skipped, SkippedItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Reason:      "product is no longer for sale",
			})
			continue
		}
		if !product.CanFulfill(item.Quantity) {
			skipped = append(skipped, SkippedItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Reason:      "insufficient stock",
			})
			continue
		}
		carried = append(carried, OrderItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	if len(carried) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "None of the original items are available to reorder")
	}

	req.Items = carried
	created, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ReorderResult{Order: created, Skipped: skipped}, nil
}

// orderLine pairs a live product with the requested quantity
type orderLine struct {
	product  *catalog.Product
	quantity int
}

// resolveLines loads the products for a cart, merges duplicate lines,
// validates purchasability and computes the live-price subtotal.
func (s *OrderService) resolveLines(ctx context.Context, items []OrderItemRequest) ([]orderLine, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}

	quantities := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, decimal.Zero, shared.NewDomainError(shared.CodeInvalidQuantity, "Item quantity must be positive")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	lines := make([]orderLine, 0, len(ids))
	subtotal := decimal.Zero
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			return nil, decimal.Zero, shared.NewDomainError("PRODUCT_NOT_FOUND",
				fmt.Sprintf("Product %s does not exist", id))
		}
		if !product.IsActive {
			return nil, decimal.Zero, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				fmt.Sprintf("Product %s is not for sale", product.SKU))
		}
		quantity := quantities[id]
		lines = append(lines, orderLine{product: product, quantity: quantity})
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return lines, subtotal, nil
}

// reservedLine records one successful reservation for compensation
type reservedLine struct {
	productID uuid.UUID
	quantity  int
}

// reserveStock subtracts each line through the ledger. On the first
// failure it returns the lines already reserved so the caller can put
// them back.
func (s *OrderService) reserveStock(ctx context.Context, lines []orderLine, actor string) ([]reservedLine, error) {
	reserved := make([]reservedLine, 0, len(lines))
	for _, line := range lines {
		_, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: line.product.ID,
			Operation: catalog.StockOperationSubtract,
			Quantity:  line.quantity,
			Reason:    reasonOrderPlaced,
			Actor:     actor,
		})
		if err != nil {
			return reserved, err
		}
		reserved = append(reserved, reservedLine{productID: line.product.ID, quantity: line.quantity})
	}
	return reserved, nil
}

// releaseStock adds back previously reserved quantities. Failures are
// logged, not returned: the caller is already on an error path and the
// audit trail records what was restored.
func (s *OrderService) releaseStock(ctx context.Context, reserved []reservedLine, actor string) {
	for _, line := range reserved {
		_, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: line.productID,
			Operation: catalog.StockOperationAdd,
			Quantity:  line.quantity,
			Reason:    reasonCreateRollback,
			Actor:     actor,
		})
		if err != nil {
			s.logger.Error("failed to release reserved stock",
				zap.String("product_id", line.productID.String()),
				zap.Int("quantity", line.quantity),
				zap.Error(err))
		}
	}
}

// compensateCreate unwinds both the stock reservation and the coupon
// redemption after checkout has passed the point of reserving them.
func (s *OrderService) compensateCreate(ctx context.Context, reserved []reservedLine, couponID *uuid.UUID, actor string) {
	s.releaseStock(ctx, reserved, actor)
	if couponID != nil {
		if err := s.coupons.ReleaseUsage(ctx, *couponID); err != nil {
			s.logger.Error("failed to release coupon usage",
				zap.String("coupon_id", couponID.String()),
				zap.Error(err))
		}
	}
}

// closeOut persists a terminal transition together with the stock it
// returns. Stock goes back first; if the order row then fails to save,
// the restored quantities are taken back so neither side moves alone.
func (s *OrderService) closeOut(ctx context.Context, o *order.Order, reason, actor string) error {
	restored, err := s.restoreStock(ctx, o, reason, actor)
	if err != nil {
		s.revertRestore(ctx, restored, actor)
		return err
	}
	if err := s.orders.SaveWithLock(ctx, o); err != nil {
		s.revertRestore(ctx, restored, actor)
		return err
	}
	return nil
}

// restoreStock returns a cancelled or refunded order's quantities to
// stock, one mutation per line item. On the first failure it returns
// the lines already restored so the caller can take them back.
func (s *OrderService) restoreStock(ctx context.Context, o *order.Order, reason, actor string) ([]reservedLine, error) {
	restored := make([]reservedLine, 0, len(o.Items))
	for _, item := range o.Items {
		_, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: item.ProductID,
			Operation: catalog.StockOperationAdd,
			Quantity:  item.Quantity,
			Reason:    reason,
			Actor:     actor,
		})
		if err != nil {
			s.logger.Error("failed to restore stock",
				zap.String("order_number", o.OrderNumber),
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			return restored, err
		}
		restored = append(restored, reservedLine{productID: item.ProductID, quantity: item.Quantity})
	}
	return restored, nil
}

// revertRestore subtracts quantities that were restored before the
// order row failed to persist. Force is set so a sale that raced in
// between cannot block the rollback; the clamp is logged by the ledger.
func (s *OrderService) revertRestore(ctx context.Context, restored []reservedLine, actor string) {
	for _, line := range restored {
		_, err := s.stock.ApplyStockChange(ctx, inventoryapp.StockChangeRequest{
			ProductID: line.productID,
			Operation: catalog.StockOperationSubtract,
			Quantity:  line.quantity,
			Reason:    reasonRestoreRollback,
			Actor:     actor,
			Force:     true,
		})
		if err != nil {
			s.logger.Error("failed to revert restored stock",
				zap.String("product_id", line.productID.String()),
				zap.Int("quantity", line.quantity),
				zap.Error(err))
		}
	}
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.publisher == nil {
		o.ClearDomainEvents()
		return
	}
	for _, event := range o.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish order event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	o.ClearDomainEvents()
}
