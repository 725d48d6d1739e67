package pricing

import "github.com/shopspring/decimal"

// CreatePlatformRequest represents a request to register a sale platform
type CreatePlatformRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SetCommissionRequest represents a request to create or replace the
// commission ruleset of a platform. Percentages are in percent units.
type SetCommissionRequest struct {
	CommissionPercentage    decimal.Decimal `json:"commission_percentage"`
	CostPerItemSold         decimal.Decimal `json:"cost_per_item_sold"`
	DefaultProfitPercentage decimal.Decimal `json:"default_profit_percentage"`
	AdditionalProfit        decimal.Decimal `json:"additional_profit"`
}
