package integration

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Validation errors for supplier products
var (
	ErrSupplierProductInvalidProduct   = shared.NewDomainError("INVALID_REFERENCE", "Product is required")
	ErrSupplierProductInvalidVariation = shared.NewDomainError("INVALID_REFERENCE", "Product variation is required")
	ErrSupplierProductInvalidSupplier  = shared.NewDomainError("INVALID_REFERENCE", "Supplier is required")
	ErrSupplierProductInvalidPrice     = shared.NewDomainError("INVALID_PRICE", "Supplier price must be greater than zero")
	ErrSupplierProductInvalidCode      = shared.NewDomainError("INVALID_CODE", "Supplier product code is required and at most 100 characters")
	ErrSupplierProductInvalidLink      = shared.NewDomainError("INVALID_LINK", "Supplier product link must be an absolute http(s) URL")
)

// SupplierProductPayload is the normalized content of a supplier product write
type SupplierProductPayload struct {
	ProductID           int64
	VariationID         int64
	SupplierID          int64
	SupplierPrice       decimal.Decimal
	SupplierProductCode string
	InStock             bool
	SupplierProductLink *string
	ExternalCatalogID   int64
}

// PriceScale is the number of decimal places a supplier price is stored with
const PriceScale = 2

// MaxProductCodeLength bounds the trimmed supplier product code
const MaxProductCodeLength = 100

// Normalize rounds the price to the stored scale and trims the code
func (p SupplierProductPayload) Normalize() SupplierProductPayload {
	p.SupplierPrice = p.SupplierPrice.Round(PriceScale)
	p.SupplierProductCode = strings.TrimSpace(p.SupplierProductCode)
	return p
}

// Validate checks references, the normalized price and code, and the
// optional link
func (p SupplierProductPayload) Validate() error {
	p = p.Normalize()
	if p.ProductID <= 0 {
		return ErrSupplierProductInvalidProduct
	}
	if p.VariationID <= 0 {
		return ErrSupplierProductInvalidVariation
	}
	if p.SupplierID <= 0 {
		return ErrSupplierProductInvalidSupplier
	}
	if !p.SupplierPrice.IsPositive() {
		return ErrSupplierProductInvalidPrice
	}
	if p.SupplierProductCode == "" || utf8.RuneCountInString(p.SupplierProductCode) > MaxProductCodeLength {
		return ErrSupplierProductInvalidCode
	}
	if p.SupplierProductLink != nil && !IsAbsoluteLink(*p.SupplierProductLink) {
		return ErrSupplierProductInvalidLink
	}
	return nil
}

// IsAbsoluteLink reports whether raw is an http or https URL with a host
func IsAbsoluteLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// SupplierProduct records how a supplier sells one of our product
// variations. Also known as a supplier integration record.
type SupplierProduct struct {
	shared.BaseEntity
	ProductID           int64           `gorm:"not null;index"`
	VariationID         int64           `gorm:"not null;index"`
	SupplierID          int64           `gorm:"not null;index"`
	SupplierPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SupplierProductCode string          `gorm:"type:varchar(100);not null"`
	InStock             bool            `gorm:"not null;default:false"`
	SupplierProductLink *string         `gorm:"type:text"`
	ExternalCatalogID   int64           `gorm:"not null;default:0"` // product id in the external ERP catalog
}

// TableName returns the table name for GORM
func (SupplierProduct) TableName() string {
	return "supplier_products"
}

// NewSupplierProduct creates a supplier product from a payload
func NewSupplierProduct(payload SupplierProductPayload) (*SupplierProduct, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	sp := &SupplierProduct{BaseEntity: shared.NewBaseEntity()}
	sp.assign(payload.Normalize())
	return sp, nil
}

// Apply replaces the content with the payload
func (sp *SupplierProduct) Apply(payload SupplierProductPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	sp.assign(payload.Normalize())
	sp.UpdatedAt = time.Now()
	return nil
}

func (sp *SupplierProduct) assign(p SupplierProductPayload) {
	sp.ProductID = p.ProductID
	sp.VariationID = p.VariationID
	sp.SupplierID = p.SupplierID
	sp.SupplierPrice = p.SupplierPrice
	sp.SupplierProductCode = p.SupplierProductCode
	sp.InStock = p.InStock
	sp.SupplierProductLink = p.SupplierProductLink
	sp.ExternalCatalogID = p.ExternalCatalogID
}
