package integration

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// SupplierProductRepository defines the interface for supplier product persistence
type SupplierProductRepository interface {
	// FindByID finds a supplier product by its ID
	FindByID(ctx context.Context, id int64) (*SupplierProduct, error)

	// FindAll finds all supplier products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SupplierProduct, error)

	// FindBySupplier lists the products offered by one supplier
	FindBySupplier(ctx context.Context, supplierID int64) ([]SupplierProduct, error)

	// Save creates or updates a supplier product
	Save(ctx context.Context, sp *SupplierProduct) error
}
