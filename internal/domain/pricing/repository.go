package pricing

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// SalePlatformRepository defines the interface for sale platform persistence
type SalePlatformRepository interface {
	FindByID(ctx context.Context, id int64) (*SalePlatform, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SalePlatform, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, platform *SalePlatform) error
}

// CommissionRepository defines the interface for commission ruleset persistence.
// Returned rulesets have their Platform loaded.
type CommissionRepository interface {
	// FindByPlatform returns the ruleset of a platform or shared.ErrNotFound
	FindByPlatform(ctx context.Context, platformID int64) (*CommissionRuleset, error)

	// FindAll lists every ruleset together with its platform
	FindAll(ctx context.Context) ([]CommissionRuleset, error)

	// Save creates or updates a ruleset
	Save(ctx context.Context, ruleset *CommissionRuleset) error
}

// PricingRecordRepository defines the interface for pricing record persistence
type PricingRecordRepository interface {
	FindByID(ctx context.Context, id int64) (*PricingRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PricingRecord, error)

	// ExistsForVariationPlatform reports whether another record already prices
	// the variation on the platform. excludeID skips the record being edited.
	ExistsForVariationPlatform(ctx context.Context, variationID, platformID, excludeID int64) (bool, error)

	Save(ctx context.Context, record *PricingRecord) error
}
