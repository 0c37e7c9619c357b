package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	products *catalogapp.ProductService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(products *catalogapp.ProductService) *CategoryHandler {
	return &CategoryHandler{products: products}
}

// RegisterRoutes registers category routes on the given group
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.POST("", h.Create)
		categories.GET("", h.List)
		categories.DELETE("/:id", h.Delete)
	}
}

// Create creates a new category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.products.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// List lists categories
func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	categories, err := h.products.ListCategories(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// Delete deletes a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.products.DeleteCategory(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
