package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/storefront/backend/internal/application/checkout"
)

// PaymentCallbackHandler receives payment status notifications from the
// payment gateway. Callbacks are deduplicated on (order, transaction),
// so gateway retries are safe.
type PaymentCallbackHandler struct {
	BaseHandler
	orders *checkoutapp.OrderService
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(orders *checkoutapp.OrderService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{orders: orders}
}

// RegisterRoutes registers the callback route on the given group
func (h *PaymentCallbackHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/callbacks/payment", h.Handle)
}

// Handle processes a payment gateway callback
func (h *PaymentCallbackHandler) Handle(c *gin.Context) {
	var req checkoutapp.PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	o, err := h.orders.HandlePaymentCallback(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, o)
}
