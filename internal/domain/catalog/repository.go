package catalog

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// ExistsByCode checks whether a product code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// ProductVariationRepository defines the interface for variation persistence
type ProductVariationRepository interface {
	// FindByID finds a variation by its ID
	FindByID(ctx context.Context, id int64) (*ProductVariation, error)

	// FindByProduct lists the variations of one product
	FindByProduct(ctx context.Context, productID int64) ([]ProductVariation, error)

	// Save creates or updates a variation
	Save(ctx context.Context, variation *ProductVariation) error
}
