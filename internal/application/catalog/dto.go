package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CreateProductRequest carries the fields for a new product
type CreateProductRequest struct {
	SKU               string           `json:"sku" binding:"required"`
	Name              string           `json:"name" binding:"required"`
	Description       string           `json:"description"`
	CategoryID        *uuid.UUID       `json:"category_id"`
	Brand             string           `json:"brand"`
	Tags              []string         `json:"tags"`
	Price             decimal.Decimal  `json:"price" binding:"required"`
	ComparePrice      *decimal.Decimal `json:"compare_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold int              `json:"low_stock_threshold"`
}

// UpdateProductRequest carries the mutable product fields
type UpdateProductRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Brand       string     `json:"brand"`
	Tags        []string   `json:"tags"`
}

// ProductResponse is the external view of a product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	Brand             string          `json:"brand,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
	Price             decimal.Decimal `json:"price"`
	ComparePrice      decimal.Decimal `json:"compare_price"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
	IsActive          bool            `json:"is_active"`
	IsFeatured        bool            `json:"is_featured"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse maps a domain product to its response
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		CategoryID:        p.CategoryID,
		Brand:             p.Brand,
		Tags:              p.TagList(),
		Price:             p.Price,
		ComparePrice:      p.ComparePrice,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		IsActive:          p.IsActive,
		IsFeatured:        p.IsFeatured,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ToProductResponses maps a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}

// CreateCategoryRequest carries the fields for a new category
type CreateCategoryRequest struct {
	Name      string     `json:"name" binding:"required"`
	Slug      string     `json:"slug" binding:"required"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order"`
}

// CategoryResponse is the external view of a category
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	SortOrder int        `json:"sort_order"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToCategoryResponse maps a domain category to its response
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		ParentID:  c.ParentID,
		SortOrder: c.SortOrder,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

// BulkUpdateRequest is an administrative batch mutation over a set of
// products. Kind selects the variant; only that variant's fields are read.
type BulkUpdateRequest struct {
	ProductIDs []uuid.UUID            `json:"product_ids" binding:"required,min=1"`
	Kind       catalog.BulkUpdateKind `json:"kind" binding:"required"`

	// status
	IsActive   *bool `json:"is_active,omitempty"`
	IsFeatured *bool `json:"is_featured,omitempty"`

	// price
	Price        *decimal.Decimal `json:"price,omitempty"`
	ComparePrice *decimal.Decimal `json:"compare_price,omitempty"`

	// stock
	StockQuantity     *int `json:"stock_quantity,omitempty"`
	LowStockThreshold *int `json:"low_stock_threshold,omitempty"`

	// category
	CategoryID *uuid.UUID `json:"category_id,omitempty"`

	// tags
	Brand *string  `json:"brand,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// ToBulkUpdate converts the request into the typed domain variant
func (r BulkUpdateRequest) ToBulkUpdate() (catalog.BulkUpdate, error) {
	var update catalog.BulkUpdate
	switch r.Kind {
	case catalog.BulkUpdateKindStatus:
		update = catalog.StatusUpdate{IsActive: r.IsActive, IsFeatured: r.IsFeatured}
	case catalog.BulkUpdateKindPrice:
		update = catalog.PriceUpdate{Price: r.Price, ComparePrice: r.ComparePrice}
	case catalog.BulkUpdateKindStock:
		update = catalog.StockUpdate{StockQuantity: r.StockQuantity, LowStockThreshold: r.LowStockThreshold}
	case catalog.BulkUpdateKindCategory:
		update = catalog.CategoryUpdate{CategoryID: r.CategoryID}
	case catalog.BulkUpdateKindTags:
		update = catalog.TagsUpdate{Brand: r.Brand, Tags: r.Tags}
	default:
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown bulk update kind")
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}
	return update, nil
}

// BulkUpdateResult reports what a bulk update changed
type BulkUpdateResult struct {
	Kind         catalog.BulkUpdateKind `json:"kind"`
	UpdatedCount int                    `json:"updated_count"`
	ProductIDs   []uuid.UUID            `json:"product_ids"`
}
