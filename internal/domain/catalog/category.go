package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products for browsing and bulk administration
type Category struct {
	shared.BaseAggregateRoot
	Name      string     `gorm:"type:varchar(100);not null"`
	Slug      string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	SortOrder int        `gorm:"not null;default:0"`
	IsActive  bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Category slug cannot be empty")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		IsActive:          true,
	}, nil
}

// Rename updates the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetParent sets the parent category
func (c *Category) SetParent(parentID *uuid.UUID) {
	c.ParentID = parentID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
