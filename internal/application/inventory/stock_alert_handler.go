package inventory

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlertHandler handles LowStockEvent and OutOfStockEvent and emits
// replenishment alerts. Alerts currently go to the structured log, which
// the ops dashboard tails; wiring a notification channel goes here.
type StockAlertHandler struct {
	logger *zap.Logger
}

// NewStockAlertHandler creates a new handler for stock alert events
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductLowStock, catalog.EventTypeProductOutOfStock}
}

// Handle processes a stock alert event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *catalog.LowStockEvent:
		h.logger.Warn("product stock below threshold",
			zap.String("product_id", e.ProductID.String()),
			zap.String("sku", e.SKU),
			zap.Int("stock_quantity", e.StockQuantity),
			zap.Int("threshold", e.Threshold),
			zap.Int("previous_stock", e.PreviousStock),
		)
	case *catalog.OutOfStockEvent:
		h.logger.Warn("product out of stock",
			zap.String("product_id", e.ProductID.String()),
			zap.String("sku", e.SKU),
			zap.Int("previous_stock", e.PreviousStock),
		)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// Ensure StockAlertHandler implements shared.EventHandler
var _ shared.EventHandler = (*StockAlertHandler)(nil)
