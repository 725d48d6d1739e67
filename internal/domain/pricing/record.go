package pricing

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RecordPayload is the normalized content of a pricing record write
type RecordPayload struct {
	ProductID   int64
	VariationID int64
	PlatformID  int64
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
}

// Normalize rounds both prices to the stored scale
func (p RecordPayload) Normalize() RecordPayload {
	p.CostPrice = p.CostPrice.Round(SalePriceScale)
	p.SalePrice = p.SalePrice.Round(SalePriceScale)
	return p
}

// ErrSalePriceMismatch is returned when a caller-supplied sale price differs
// from the one the platform commission yields
var ErrSalePriceMismatch = shared.NewDomainError("INVALID_PRICE", "Sale price does not match the commission of the sale platform")

// ValidateInputs checks references and that the cost price stays positive
// once rounded to the stored scale. The sale price is not looked at.
func (p RecordPayload) ValidateInputs() error {
	p = p.Normalize()
	if p.ProductID <= 0 {
		return shared.NewDomainError("INVALID_REFERENCE", "Product is required")
	}
	if p.VariationID <= 0 {
		return shared.NewDomainError("INVALID_REFERENCE", "Product variation is required")
	}
	if p.PlatformID <= 0 {
		return shared.NewDomainError("INVALID_REFERENCE", "Sale platform is required")
	}
	if !p.CostPrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price must be greater than zero")
	}
	return nil
}

// Validate checks the inputs and that the sale price stays positive once
// rounded to the stored scale
func (p RecordPayload) Validate() error {
	if err := p.ValidateInputs(); err != nil {
		return err
	}
	if !p.Normalize().SalePrice.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price must be greater than zero")
	}
	return nil
}

// WithDerivedSalePrice returns the normalized payload priced by the given
// commission. A non-zero sale price already on the payload must agree with
// the derived one.
func (p RecordPayload) WithDerivedSalePrice(params CommissionParams) (RecordPayload, error) {
	p = p.Normalize()
	price, err := SalePrice(p.CostPrice, params)
	if err != nil {
		return p, err
	}
	if !p.SalePrice.IsZero() && !p.SalePrice.Equal(price) {
		return p, ErrSalePriceMismatch
	}
	p.SalePrice = price
	return p, nil
}

// PricingRecord is the persisted price of one product variation on one
// sale platform
type PricingRecord struct {
	shared.BaseEntity
	ProductID   int64           `gorm:"not null;index"`
	VariationID int64           `gorm:"not null;uniqueIndex:idx_pricing_variation_platform,priority:1"`
	PlatformID  int64           `gorm:"not null;uniqueIndex:idx_pricing_variation_platform,priority:2"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PricingRecord) TableName() string {
	return "pricing_records"
}

// NewPricingRecord creates a pricing record from a validated payload
func NewPricingRecord(payload RecordPayload) (*PricingRecord, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	r := &PricingRecord{BaseEntity: shared.NewBaseEntity()}
	r.assign(payload.Normalize())
	return r, nil
}

// Apply replaces the record content with the payload
func (r *PricingRecord) Apply(payload RecordPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	r.assign(payload.Normalize())
	r.UpdatedAt = time.Now()
	return nil
}

func (r *PricingRecord) assign(p RecordPayload) {
	r.ProductID = p.ProductID
	r.VariationID = p.VariationID
	r.PlatformID = p.PlatformID
	r.CostPrice = p.CostPrice
	r.SalePrice = p.SalePrice
}
