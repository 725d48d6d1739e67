package persistence

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

var supplierProductSortColumns = []string{"id", "product_id", "variation_id", "supplier_id", "supplier_price", "created_at", "updated_at"}

// GormSupplierProductRepository implements integration.SupplierProductRepository using GORM
type GormSupplierProductRepository struct {
	db *gorm.DB
}

// NewGormSupplierProductRepository creates a new GormSupplierProductRepository
func NewGormSupplierProductRepository(db *gorm.DB) *GormSupplierProductRepository {
	return &GormSupplierProductRepository{db: db}
}

// FindByID finds a supplier product by its ID
func (r *GormSupplierProductRepository) FindByID(ctx context.Context, id int64) (*integration.SupplierProduct, error) {
	var sp integration.SupplierProduct
	if err := r.db.WithContext(ctx).First(&sp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sp, nil
}

// FindAll lists supplier products; Search matches the supplier product code
func (r *GormSupplierProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]integration.SupplierProduct, error) {
	var items []integration.SupplierProduct
	query := r.db.WithContext(ctx).Model(&integration.SupplierProduct{})
	if filter.Search != "" {
		query = query.Where("supplier_product_code ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Order(filter.OrderClause(supplierProductSortColumns...)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBySupplier lists the products offered by one supplier
func (r *GormSupplierProductRepository) FindBySupplier(ctx context.Context, supplierID int64) ([]integration.SupplierProduct, error) {
	var items []integration.SupplierProduct
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a supplier product
func (r *GormSupplierProductRepository) Save(ctx context.Context, sp *integration.SupplierProduct) error {
	return r.db.WithContext(ctx).Save(sp).Error
}
