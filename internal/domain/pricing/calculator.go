package pricing

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalePriceScale is the number of decimal places of a computed sale price
const SalePriceScale = 2

var (
	// ErrInvalidCommissionConfig is returned when commission plus default
	// profit reach or exceed 100%, leaving no positive factor to divide by
	ErrInvalidCommissionConfig = shared.NewDomainError("INVALID_COMMISSION_CONFIG", "Commission and profit percentages must add up to less than 100%")

	// ErrPriceNotComputable is returned while some pricing input is still missing
	ErrPriceNotComputable = shared.NewDomainError("PRICE_NOT_COMPUTABLE", "Sale price cannot be computed until product, variation, platform, commission and cost price are set")
)

// PricingInputs are the values a sale price depends on
type PricingInputs struct {
	ProductID   int64
	VariationID int64
	PlatformID  int64
	CostPrice   decimal.Decimal
	Commission  *CommissionRuleset
}

// Ready reports whether every input needed for a sale price is present
func (in PricingInputs) Ready() bool {
	return in.ProductID > 0 &&
		in.VariationID > 0 &&
		in.PlatformID > 0 &&
		in.CostPrice.Round(SalePriceScale).IsPositive() &&
		in.Commission != nil
}

// ComputeSalePrice derives the sale price from the current inputs.
// Returns ErrPriceNotComputable when inputs are incomplete and
// ErrInvalidCommissionConfig when the ruleset has no positive profit factor.
func ComputeSalePrice(in PricingInputs) (decimal.Decimal, error) {
	if !in.Ready() {
		return decimal.Zero, ErrPriceNotComputable
	}
	return SalePrice(in.CostPrice, in.Commission.Params())
}

// SalePrice applies the markup formula
//
//	(cost + costPerItemSold + additionalProfit) / (1 - (commission% + profit%) / 100)
//
// rounded half away from zero to two decimal places. The cost enters the
// formula at the same two-place scale it is stored with.
func SalePrice(costPrice decimal.Decimal, params CommissionParams) (decimal.Decimal, error) {
	factor := params.ProfitFactor()
	if !factor.IsPositive() {
		return decimal.Zero, ErrInvalidCommissionConfig
	}

	base := costPrice.Round(SalePriceScale).Add(params.CostPerItemSold).Add(params.AdditionalProfit)
	return base.Div(factor).Round(SalePriceScale), nil
}
