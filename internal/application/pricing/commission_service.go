package pricing

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CommissionService manages sale platforms and their commission rulesets
type CommissionService struct {
	platformRepo   pricing.SalePlatformRepository
	commissionRepo pricing.CommissionRepository
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(platformRepo pricing.SalePlatformRepository, commissionRepo pricing.CommissionRepository) *CommissionService {
	return &CommissionService{
		platformRepo:   platformRepo,
		commissionRepo: commissionRepo,
	}
}

// ListPlatforms returns every sale platform ordered by name
func (s *CommissionService) ListPlatforms(ctx context.Context) ([]pricing.SalePlatform, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"
	return s.platformRepo.FindAll(ctx, filter)
}

// CreatePlatform registers a new sale platform
func (s *CommissionService) CreatePlatform(ctx context.Context, req CreatePlatformRequest) (*pricing.SalePlatform, error) {
	platform, err := pricing.NewSalePlatform(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	exists, err := s.platformRepo.ExistsByCode(ctx, platform.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Sale platform with this code already exists")
	}

	if err := s.platformRepo.Save(ctx, platform); err != nil {
		return nil, err
	}
	return platform, nil
}

// ListSalePlatformCommissions returns every ruleset with its platform.
// Only platforms that have a ruleset can be priced.
func (s *CommissionService) ListSalePlatformCommissions(ctx context.Context) ([]pricing.CommissionRuleset, error) {
	return s.commissionRepo.FindAll(ctx)
}

// GetCommissionByPlatformID returns the ruleset of one platform
func (s *CommissionService) GetCommissionByPlatformID(ctx context.Context, platformID int64) (*pricing.CommissionRuleset, error) {
	return s.commissionRepo.FindByPlatform(ctx, platformID)
}

// SetCommission creates or replaces the ruleset of a platform
func (s *CommissionService) SetCommission(ctx context.Context, platformID int64, req SetCommissionRequest) (*pricing.CommissionRuleset, error) {
	platform, err := s.platformRepo.FindByID(ctx, platformID)
	if err != nil {
		return nil, err
	}

	params := pricing.CommissionParams{
		CommissionPercentage:    req.CommissionPercentage,
		CostPerItemSold:         req.CostPerItemSold,
		DefaultProfitPercentage: req.DefaultProfitPercentage,
		AdditionalProfit:        req.AdditionalProfit,
	}

	ruleset, err := s.commissionRepo.FindByPlatform(ctx, platformID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		ruleset, err = pricing.NewCommissionRuleset(platformID, params)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := ruleset.Update(params); err != nil {
			return nil, err
		}
	}

	if err := s.commissionRepo.Save(ctx, ruleset); err != nil {
		return nil, err
	}
	ruleset.Platform = platform
	return ruleset, nil
}

// QuoteSalePrice prices a cost on a platform with its current ruleset
func (s *CommissionService) QuoteSalePrice(ctx context.Context, platformID int64, costPrice decimal.Decimal) (decimal.Decimal, error) {
	if !costPrice.Round(pricing.SalePriceScale).IsPositive() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Cost price must be greater than zero")
	}
	ruleset, err := s.commissionRepo.FindByPlatform(ctx, platformID)
	if err != nil {
		return decimal.Zero, err
	}
	return pricing.SalePrice(costPrice, ruleset.Params())
}
