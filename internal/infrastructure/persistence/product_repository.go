package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var productSortColumns = []string{"id", "code", "name", "status", "created_at", "updated_at"}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if err := query.Order(filter.OrderClause(productSortColumns...)).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistsByCode checks whether a product code is taken
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormProductVariationRepository implements catalog.ProductVariationRepository using GORM
type GormProductVariationRepository struct {
	db *gorm.DB
}

// NewGormProductVariationRepository creates a new GormProductVariationRepository
func NewGormProductVariationRepository(db *gorm.DB) *GormProductVariationRepository {
	return &GormProductVariationRepository{db: db}
}

// FindByID finds a variation by its ID
func (r *GormProductVariationRepository) FindByID(ctx context.Context, id int64) (*catalog.ProductVariation, error) {
	var variation catalog.ProductVariation
	if err := r.db.WithContext(ctx).First(&variation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variation, nil
}

// FindByProduct lists the variations of one product ordered by name
func (r *GormProductVariationRepository) FindByProduct(ctx context.Context, productID int64) ([]catalog.ProductVariation, error) {
	var variations []catalog.ProductVariation
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("name ASC, id ASC").
		Find(&variations).Error; err != nil {
		return nil, err
	}
	return variations, nil
}

// Save creates or updates a variation
func (r *GormProductVariationRepository) Save(ctx context.Context, variation *catalog.ProductVariation) error {
	return r.db.WithContext(ctx).Save(variation).Error
}
