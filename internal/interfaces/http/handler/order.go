package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// OrderHandler handles checkout and order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orders *checkoutapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *checkoutapp.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterStorefrontRoutes registers the customer-facing checkout routes
func (h *OrderHandler) RegisterStorefrontRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout/quote", h.Quote)
	rg.POST("/orders", h.Create)
	rg.GET("/orders/number/:number", h.GetByNumber)
}

// RegisterAdminRoutes registers the back-office order routes
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/advance", h.Advance)
		orders.POST("/:id/cancel", h.Cancel)
		orders.POST("/:id/refund", h.Refund)
		orders.POST("/:id/reorder", h.Reorder)
	}
}

// AdvanceOrderRequest names the status the order should move to
type AdvanceOrderRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReorderRequest carries the delivery details for a reorder; the items
// come from the original order.
type ReorderRequest struct {
	ShippingAddress checkoutapp.AddressRequest  `json:"shipping_address" binding:"required"`
	BillingAddress  *checkoutapp.AddressRequest `json:"billing_address"`
	ShippingMethod  order.ShippingMethod        `json:"shipping_method" binding:"required"`
	CouponCode      string                      `json:"coupon_code"`
	Notes           string                      `json:"notes"`
}

// orderListRequest extends the common list parameters with order filters
type orderListRequest struct {
	dto.ListRequest
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CouponCode    string `form:"coupon_code"`
}

// Quote prices a cart without creating an order
func (h *OrderHandler) Quote(c *gin.Context) {
	var req checkoutapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quote, err := h.orders.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Create places an order: validates the coupon, prices the cart,
// reserves stock and persists the order atomically from the caller's
// point of view.
func (h *OrderHandler) Create(c *gin.Context) {
	var req checkoutapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Actor = getActor(c)

	created, err := h.orders.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// Get retrieves an order by ID
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// GetByNumber retrieves an order by its order number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	o, err := h.orders.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// List lists orders with filtering and pagination
func (h *OrderHandler) List(c *gin.Context) {
	var req orderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.PaymentStatus != "" {
		filter.Filters["payment_status"] = req.PaymentStatus
	}
	if req.CouponCode != "" {
		filter.Filters["coupon_code"] = req.CouponCode
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Advance moves an order forward through its lifecycle
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req AdvanceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	o, err := h.orders.Advance(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// Cancel cancels an order and restores the reserved stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	o, err := h.orders.Cancel(c.Request.Context(), orderID, req.Reason, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// Refund refunds a delivered order and returns its stock
func (h *OrderHandler) Refund(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	o, err := h.orders.Refund(c.Request.Context(), orderID, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}

// Reorder builds a new order from a past order's lines at live prices,
// skipping lines that can no longer be fulfilled.
func (h *OrderHandler) Reorder(c *gin.Context) {
	orderID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.orders.Reorder(c.Request.Context(), orderID, checkoutapp.CreateOrderRequest{
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		ShippingMethod:  req.ShippingMethod,
		CouponCode:      req.CouponCode,
		Notes:           req.Notes,
		Actor:           getActor(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
