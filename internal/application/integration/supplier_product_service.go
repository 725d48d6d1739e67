package integration

import (
	"context"

	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/shared"
)

// VariationChecker verifies that a variation belongs to a product
type VariationChecker interface {
	EnsureVariationOf(ctx context.Context, productID, variationID int64) error
}

// SupplierChecker verifies that a supplier can be linked to products
type SupplierChecker interface {
	EnsureSelectable(ctx context.Context, supplierID int64) error
}

// SupplierProductService handles supplier integration records
type SupplierProductService struct {
	repo       integration.SupplierProductRepository
	variations VariationChecker
	suppliers  SupplierChecker
}

// NewSupplierProductService creates a new SupplierProductService
func NewSupplierProductService(
	repo integration.SupplierProductRepository,
	variations VariationChecker,
	suppliers SupplierChecker,
) *SupplierProductService {
	return &SupplierProductService{
		repo:       repo,
		variations: variations,
		suppliers:  suppliers,
	}
}

// GetSupplierProduct returns a supplier product by ID
func (s *SupplierProductService) GetSupplierProduct(ctx context.Context, id int64) (*integration.SupplierProduct, error) {
	return s.repo.FindByID(ctx, id)
}

// ListSupplierProducts returns supplier products, optionally narrowed to one supplier
func (s *SupplierProductService) ListSupplierProducts(ctx context.Context, supplierID int64) ([]integration.SupplierProduct, error) {
	if supplierID > 0 {
		return s.repo.FindBySupplier(ctx, supplierID)
	}
	filter := shared.DefaultFilter()
	filter.OrderDir = "desc"
	return s.repo.FindAll(ctx, filter)
}

// SaveSupplierProduct creates a supplier product when id is nil, otherwise
// updates the one with that id
func (s *SupplierProductService) SaveSupplierProduct(ctx context.Context, payload integration.SupplierProductPayload, id *int64) (*integration.SupplierProduct, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := s.variations.EnsureVariationOf(ctx, payload.ProductID, payload.VariationID); err != nil {
		return nil, err
	}
	if err := s.suppliers.EnsureSelectable(ctx, payload.SupplierID); err != nil {
		return nil, err
	}

	var (
		sp  *integration.SupplierProduct
		err error
	)
	if id == nil {
		sp, err = integration.NewSupplierProduct(payload)
		if err != nil {
			return nil, err
		}
	} else {
		sp, err = s.repo.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if err := sp.Apply(payload); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}
