package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product catalog endpoints, including the
// administrative bulk updater.
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product routes on the given group
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Delete)
		products.POST("/bulk-update", h.BulkUpdate)
	}
}

// productListRequest extends the common list parameters with catalog filters
type productListRequest struct {
	dto.ListRequest
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	IsActive   *bool  `form:"is_active"`
	IsFeatured *bool  `form:"is_featured"`
	Brand      string `form:"brand"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.products.Create(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get retrieves a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.products.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List lists products with filtering and pagination
func (h *ProductHandler) List(c *gin.Context) {
	var req productListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := req.ToFilter()
	if req.CategoryID != "" {
		categoryID, _ := uuid.Parse(req.CategoryID)
		filter.Filters["category_id"] = categoryID
	}
	if req.IsActive != nil {
		filter.Filters["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		filter.Filters["is_featured"] = *req.IsFeatured
	}
	if req.Brand != "" {
		filter.Filters["brand"] = req.Brand
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update updates a product's basic information
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.products.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete deletes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.products.Delete(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// BulkUpdate applies one typed mutation to a batch of products.
// The batch is validated as a whole before any write happens.
func (h *ProductHandler) BulkUpdate(c *gin.Context) {
	var req catalogapp.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.products.BulkUpdate(c.Request.Context(), req, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
