package catalog

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/shared"
)

// ProductService handles product and variation business operations
type ProductService struct {
	productRepo   catalog.ProductRepository
	variationRepo catalog.ProductVariationRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, variationRepo catalog.ProductVariationRepository) *ProductService {
	return &ProductService{
		productRepo:   productRepo,
		variationRepo: variationRepo,
	}
}

// ListProducts returns the active products ordered by name
func (s *ProductService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	active := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	product, err := catalog.NewProduct(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ListProductVariations returns the variations of a product.
// An unknown product yields shared.ErrNotFound.
func (s *ProductService) ListProductVariations(ctx context.Context, productID int64) ([]catalog.ProductVariation, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.variationRepo.FindByProduct(ctx, productID)
}

// CreateVariation adds a variation to an existing product
func (s *ProductService) CreateVariation(ctx context.Context, productID int64, req CreateVariationRequest) (*catalog.ProductVariation, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	variation, err := catalog.NewProductVariation(productID, req.Name, req.SKU)
	if err != nil {
		return nil, err
	}
	if err := s.variationRepo.Save(ctx, variation); err != nil {
		return nil, err
	}
	return variation, nil
}

// EnsureVariationOf checks that the variation exists and belongs to the product
func (s *ProductService) EnsureVariationOf(ctx context.Context, productID, variationID int64) error {
	variation, err := s.variationRepo.FindByID(ctx, variationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_REFERENCE", "Product variation does not exist")
		}
		return err
	}
	if !variation.BelongsTo(productID) {
		return shared.NewDomainError("INVALID_REFERENCE", "Product variation does not belong to the selected product")
	}
	return nil
}
