package partner

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
	SupplierStatusBlocked  SupplierStatus = "blocked" // Blocked due to quality/payment issues
)

// Supplier represents a company we source products from.
// TradeName is what operators see in selection lists.
type Supplier struct {
	shared.BaseEntity
	TradeName string         `gorm:"type:varchar(200);not null"`
	LegalName string         `gorm:"type:varchar(200)"`
	TaxID     string         `gorm:"type:varchar(50);index"` // Tax identification number
	Status    SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier with required fields
func NewSupplier(tradeName, legalName, taxID string) (*Supplier, error) {
	if err := validateTradeName(tradeName); err != nil {
		return nil, err
	}
	if len(legalName) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Legal name cannot exceed 200 characters")
	}
	if len(taxID) > 50 {
		return nil, shared.NewDomainError("INVALID_TAX_ID", "Tax ID cannot exceed 50 characters")
	}

	return &Supplier{
		BaseEntity: shared.NewBaseEntity(),
		TradeName:  strings.TrimSpace(tradeName),
		LegalName:  legalName,
		TaxID:      taxID,
		Status:     SupplierStatusActive,
	}, nil
}

// Rename updates the trade and legal names
func (s *Supplier) Rename(tradeName, legalName string) error {
	if err := validateTradeName(tradeName); err != nil {
		return err
	}
	s.TradeName = strings.TrimSpace(tradeName)
	s.LegalName = legalName
	s.UpdatedAt = time.Now()
	return nil
}

// Block prevents the supplier from being linked to new products
func (s *Supplier) Block() error {
	if s.Status == SupplierStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Supplier is already blocked")
	}
	s.Status = SupplierStatusBlocked
	s.UpdatedAt = time.Now()
	return nil
}

// Activate makes the supplier selectable again
func (s *Supplier) Activate() {
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
}

// IsSelectable reports whether new integrations may reference the supplier
func (s *Supplier) IsSelectable() bool {
	return s.Status == SupplierStatusActive
}

func validateTradeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier trade name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier trade name cannot exceed 200 characters")
	}
	return nil
}
