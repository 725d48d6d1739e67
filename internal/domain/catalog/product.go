package catalog

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable product in the catalog.
// Sale channels price one of its variations, never the product itself.
type Product struct {
	shared.BaseEntity
	Code   string        `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string        `gorm:"type:varchar(200);not null"`
	Status ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToUpper(code),
		Name:       name,
		Status:     ProductStatusActive,
	}, nil
}

// Rename updates the product's display name
func (p *Product) Rename(name string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate hides the product from selection lists
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the product can be selected
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// validateProductCode validates the product code
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
