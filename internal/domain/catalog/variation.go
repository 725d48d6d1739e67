package catalog

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// ProductVariation is a concrete variant of a product (size, color, pack).
// Each variation belongs to exactly one product.
type ProductVariation struct {
	shared.BaseEntity
	ProductID int64  `gorm:"not null;index"`
	Name      string `gorm:"type:varchar(200);not null"`
	SKU       string `gorm:"type:varchar(50);uniqueIndex"`
}

// TableName returns the table name for GORM
func (ProductVariation) TableName() string {
	return "product_variations"
}

// NewProductVariation creates a variation under the given product
func NewProductVariation(productID int64, name, sku string) (*ProductVariation, error) {
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variation must belong to a product")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Variation name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Variation name cannot exceed 200 characters")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Variation SKU cannot exceed 50 characters")
	}

	return &ProductVariation{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Name:       name,
		SKU:        strings.ToUpper(sku),
	}, nil
}

// BelongsTo reports whether the variation is a child of the given product
func (v *ProductVariation) BelongsTo(productID int64) bool {
	return v.ProductID == productID
}

// Rename updates the variation name
func (v *ProductVariation) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Variation name cannot be empty")
	}
	v.Name = name
	v.UpdatedAt = time.Now()
	return nil
}
