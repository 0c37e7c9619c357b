package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// StockHandler exposes the stock ledger: applying changes, reading the
// authoritative level and browsing the mutation audit trail.
type StockHandler struct {
	BaseHandler
	stock *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stock *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stock: stock}
}

// RegisterRoutes registers stock routes on the given group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/low-stock", h.ListLowStock)
		inventory.GET("/products/:id/stock", h.GetStock)
		inventory.POST("/products/:id/stock", h.AdjustStock)
		inventory.GET("/products/:id/mutations", h.ListMutations)
	}
}

// AdjustStockRequest is the body for a manual stock change.
// Quantity is a pointer because zero is a legitimate value for a set
// (clearing stock); required on a plain int would reject it.
type AdjustStockRequest struct {
	Operation catalog.StockOperation `json:"operation" binding:"required,stock_operation"`
	Quantity  *int                   `json:"quantity" binding:"required"`
	Reason    string                 `json:"reason" binding:"required"`
	Force     bool                   `json:"force"`
}

// AdjustStock applies a set/add/subtract operation to a product's stock
func (h *StockHandler) AdjustStock(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.stock.ApplyStockChange(c.Request.Context(), inventoryapp.StockChangeRequest{
		ProductID: productID,
		Operation: req.Operation,
		Quantity:  *req.Quantity,
		Reason:    req.Reason,
		Actor:     getActor(c),
		Force:     req.Force,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetStock returns the authoritative stock level for a product
func (h *StockHandler) GetStock(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	level, err := h.stock.GetStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, level)
}

// ListMutations lists the stock audit trail for a product, newest first
func (h *StockHandler) ListMutations(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	mutations, total, err := h.stock.ListMutations(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, mutations, total, filter.Page, filter.PageSize)
}

// ListLowStock lists active products at or below their low-stock threshold
func (h *StockHandler) ListLowStock(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	levels, err := h.stock.ListLowStock(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, levels)
}
