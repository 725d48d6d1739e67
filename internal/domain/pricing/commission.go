package pricing

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CommissionParams carries the numeric parameters of a commission ruleset.
// Percentages are expressed in percent units (0 to 100).
type CommissionParams struct {
	CommissionPercentage    decimal.Decimal
	CostPerItemSold         decimal.Decimal
	DefaultProfitPercentage decimal.Decimal
	AdditionalProfit        decimal.Decimal
}

// CommissionRuleset holds the fee structure of one sale platform.
// A platform has at most one ruleset.
type CommissionRuleset struct {
	shared.BaseEntity
	PlatformID              int64           `gorm:"not null;uniqueIndex"`
	Platform                *SalePlatform   `gorm:"foreignKey:PlatformID"`
	CommissionPercentage    decimal.Decimal `gorm:"type:decimal(9,4);not null"`
	CostPerItemSold         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DefaultProfitPercentage decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	AdditionalProfit        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (CommissionRuleset) TableName() string {
	return "platform_commissions"
}

// NewCommissionRuleset creates a ruleset for the given platform
func NewCommissionRuleset(platformID int64, params CommissionParams) (*CommissionRuleset, error) {
	if platformID <= 0 {
		return nil, shared.NewDomainError("INVALID_PLATFORM", "Commission must belong to a sale platform")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := &CommissionRuleset{
		BaseEntity: shared.NewBaseEntity(),
		PlatformID: platformID,
	}
	r.assign(params)
	return r, nil
}

// Update replaces the ruleset parameters
func (r *CommissionRuleset) Update(params CommissionParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	r.assign(params)
	r.UpdatedAt = time.Now()
	return nil
}

// Params returns the numeric parameters of the ruleset
func (r *CommissionRuleset) Params() CommissionParams {
	return CommissionParams{
		CommissionPercentage:    r.CommissionPercentage,
		CostPerItemSold:         r.CostPerItemSold,
		DefaultProfitPercentage: r.DefaultProfitPercentage,
		AdditionalProfit:        r.AdditionalProfit,
	}
}

// PlatformName returns the name of the owning platform when it was loaded
func (r *CommissionRuleset) PlatformName() string {
	if r.Platform == nil {
		return ""
	}
	return r.Platform.Name
}

// ProfitFactor is the share of the sale price left after commission and
// default profit: 1 - (commission% + profit%) / 100
func (r *CommissionRuleset) ProfitFactor() decimal.Decimal {
	return r.Params().ProfitFactor()
}

func (r *CommissionRuleset) assign(params CommissionParams) {
	r.CommissionPercentage = params.CommissionPercentage
	r.CostPerItemSold = params.CostPerItemSold
	r.DefaultProfitPercentage = params.DefaultProfitPercentage
	r.AdditionalProfit = params.AdditionalProfit
}

// ProfitFactor computes 1 - (commission% + profit%) / 100
func (p CommissionParams) ProfitFactor() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(p.CommissionPercentage.Add(p.DefaultProfitPercentage).Div(hundred))
}

// Validate checks value ranges and that the ruleset leaves a positive
// profit factor
func (p CommissionParams) Validate() error {
	if p.CommissionPercentage.IsNegative() || p.CommissionPercentage.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission percentage must be between 0 and 100")
	}
	if p.DefaultProfitPercentage.IsNegative() || p.DefaultProfitPercentage.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_COMMISSION", "Default profit percentage must be between 0 and 100")
	}
	if p.CostPerItemSold.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Cost per item sold cannot be negative")
	}
	if p.AdditionalProfit.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Additional profit cannot be negative")
	}
	if !p.ProfitFactor().IsPositive() {
		return ErrInvalidCommissionConfig
	}
	return nil
}
