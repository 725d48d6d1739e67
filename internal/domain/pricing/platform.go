package pricing

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// SalePlatform is a marketplace or storefront where products are sold
type SalePlatform struct {
	shared.BaseEntity
	Code string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (SalePlatform) TableName() string {
	return "sale_platforms"
}

// NewSalePlatform creates a new sale platform
func NewSalePlatform(code, name string) (*SalePlatform, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Platform code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Platform code cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Platform name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Platform name cannot exceed 100 characters")
	}

	return &SalePlatform{
		BaseEntity: shared.NewBaseEntity(),
		Code:       strings.ToLower(code),
		Name:       name,
	}, nil
}

// Rename updates the platform display name
func (p *SalePlatform) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Platform name cannot be empty")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}
