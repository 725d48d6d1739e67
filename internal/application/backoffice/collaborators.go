package backoffice

import (
	"context"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/pricing"
)

// ProductCatalog lists selectable products and their variations
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListProductVariations(ctx context.Context, productID int64) ([]catalog.ProductVariation, error)
}

// SupplierDirectory lists selectable suppliers
type SupplierDirectory interface {
	ListSuppliers(ctx context.Context) ([]partner.Supplier, error)
}

// CommissionLookup exposes the commission rulesets of sale platforms
type CommissionLookup interface {
	ListSalePlatformCommissions(ctx context.Context) ([]pricing.CommissionRuleset, error)
	GetCommissionByPlatformID(ctx context.Context, platformID int64) (*pricing.CommissionRuleset, error)
}

// PricingRecordStore reads and writes pricing records.
// A nil id on save creates a record.
type PricingRecordStore interface {
	GetPricingRecord(ctx context.Context, id int64) (*pricing.PricingRecord, error)
	SavePricingRecord(ctx context.Context, payload pricing.RecordPayload, id *int64) (*pricing.PricingRecord, error)
}

// SupplierProductStore reads and writes supplier integration records.
// A nil id on save creates a record.
type SupplierProductStore interface {
	GetSupplierProduct(ctx context.Context, id int64) (*integration.SupplierProduct, error)
	SaveSupplierProduct(ctx context.Context, payload integration.SupplierProductPayload, id *int64) (*integration.SupplierProduct, error)
}

// Collaborators groups the services a form session talks to
type Collaborators struct {
	Catalog          ProductCatalog
	Suppliers        SupplierDirectory
	Commissions      CommissionLookup
	PricingRecords   PricingRecordStore
	SupplierProducts SupplierProductStore
}
