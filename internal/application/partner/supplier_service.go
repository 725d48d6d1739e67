package partner

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
	}
}

// ListSuppliers returns the suppliers that can be linked to products
func (s *SupplierService) ListSuppliers(ctx context.Context) ([]partner.Supplier, error) {
	return s.supplierRepo.FindByStatus(ctx, partner.SupplierStatusActive)
}

// GetSupplier returns a supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, id int64) (*partner.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(req.TradeName, req.LegalName, req.TaxID)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// Block marks a supplier as blocked
func (s *SupplierService) Block(ctx context.Context, id int64) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Block(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// EnsureSelectable checks that a supplier exists and accepts new links
func (s *SupplierService) EnsureSelectable(ctx context.Context, id int64) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_REFERENCE", "Supplier does not exist")
		}
		return err
	}
	if !supplier.IsSelectable() {
		return shared.NewDomainError("INVALID_REFERENCE", "Supplier is not active")
	}
	return nil
}
