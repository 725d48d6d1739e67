package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	platformSortColumns = []string{"id", "code", "name", "created_at"}
	recordSortColumns   = []string{"id", "product_id", "variation_id", "platform_id", "sale_price", "created_at", "updated_at"}
)

// GormSalePlatformRepository implements pricing.SalePlatformRepository using GORM
type GormSalePlatformRepository struct {
	db *gorm.DB
}

// NewGormSalePlatformRepository creates a new GormSalePlatformRepository
func NewGormSalePlatformRepository(db *gorm.DB) *GormSalePlatformRepository {
	return &GormSalePlatformRepository{db: db}
}

// FindByID finds a platform by its ID
func (r *GormSalePlatformRepository) FindByID(ctx context.Context, id int64) (*pricing.SalePlatform, error) {
	var platform pricing.SalePlatform
	if err := r.db.WithContext(ctx).First(&platform, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &platform, nil
}

// FindAll lists platforms matching the filter
func (r *GormSalePlatformRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.SalePlatform, error) {
	var platforms []pricing.SalePlatform
	query := r.db.WithContext(ctx).Model(&pricing.SalePlatform{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if err := query.Order(filter.OrderClause(platformSortColumns...)).Find(&platforms).Error; err != nil {
		return nil, err
	}
	return platforms, nil
}

// ExistsByCode checks whether a platform code is taken
func (r *GormSalePlatformRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&pricing.SalePlatform{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a platform
func (r *GormSalePlatformRepository) Save(ctx context.Context, platform *pricing.SalePlatform) error {
	return r.db.WithContext(ctx).Save(platform).Error
}

// GormCommissionRepository implements pricing.CommissionRepository using GORM.
// Rulesets are always returned with their platform preloaded.
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByPlatform returns the ruleset of a platform
func (r *GormCommissionRepository) FindByPlatform(ctx context.Context, platformID int64) (*pricing.CommissionRuleset, error) {
	var ruleset pricing.CommissionRuleset
	if err := r.db.WithContext(ctx).
		Preload("Platform").
		First(&ruleset, "platform_id = ?", platformID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ruleset, nil
}

// FindAll lists every ruleset ordered by platform
func (r *GormCommissionRepository) FindAll(ctx context.Context) ([]pricing.CommissionRuleset, error) {
	var rulesets []pricing.CommissionRuleset
	if err := r.db.WithContext(ctx).
		Preload("Platform").
		Order("platform_id ASC").
		Find(&rulesets).Error; err != nil {
		return nil, err
	}
	return rulesets, nil
}

// Save creates or updates a ruleset. The preloaded platform is never written.
func (r *GormCommissionRepository) Save(ctx context.Context, ruleset *pricing.CommissionRuleset) error {
	return r.db.WithContext(ctx).Omit("Platform").Save(ruleset).Error
}

// GormPricingRecordRepository implements pricing.PricingRecordRepository using GORM
type GormPricingRecordRepository struct {
	db *gorm.DB
}

// NewGormPricingRecordRepository creates a new GormPricingRecordRepository
func NewGormPricingRecordRepository(db *gorm.DB) *GormPricingRecordRepository {
	return &GormPricingRecordRepository{db: db}
}

// FindByID finds a pricing record by its ID
func (r *GormPricingRecordRepository) FindByID(ctx context.Context, id int64) (*pricing.PricingRecord, error) {
	var record pricing.PricingRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll lists pricing records in the requested order
func (r *GormPricingRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.PricingRecord, error) {
	var records []pricing.PricingRecord
	if err := r.db.WithContext(ctx).
		Order(filter.OrderClause(recordSortColumns...)).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ExistsForVariationPlatform reports whether a record other than excludeID
// already prices the variation on the platform
func (r *GormPricingRecordRepository) ExistsForVariationPlatform(ctx context.Context, variationID, platformID, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&pricing.PricingRecord{}).
		Where("variation_id = ? AND platform_id = ?", variationID, platformID)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a pricing record
func (r *GormPricingRecordRepository) Save(ctx context.Context, record *pricing.PricingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
