package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns DESC as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates a sort field against a whitelist.
// Returns defaultField if the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"sku":            true,
	"name":           true,
	"category_id":    true,
	"brand":          true,
	"price":          true,
	"stock_quantity": true,
	"is_active":      true,
	"is_featured":    true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
	"sort_order": true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"order_number":   true,
	"status":         true,
	"payment_status": true,
	"subtotal":       true,
	"total_amount":   true,
	"confirmed_at":   true,
	"shipped_at":     true,
	"delivered_at":   true,
}

// CouponSortFields contains allowed sort fields for coupons
var CouponSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"type":       true,
	"used_count": true,
	"starts_at":  true,
	"expires_at": true,
	"is_active":  true,
}

// StockMutationSortFields contains allowed sort fields for stock mutations
var StockMutationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"product_id": true,
	"operation":  true,
	"delta":      true,
}
