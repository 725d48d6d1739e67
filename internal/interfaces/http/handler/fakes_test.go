package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	integrationapp "github.com/erp/backoffice/internal/application/integration"
	partnerapp "github.com/erp/backoffice/internal/application/partner"
	pricingapp "github.com/erp/backoffice/internal/application/pricing"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// memTable is an in-memory table keyed by id. Saved rows are copied so
// callers never share memory with the store.
type memTable[T any] struct {
	mu   sync.Mutex
	rows map[int64]T
	next int64
	base func(*T) *shared.BaseEntity
	err  error
}

func newMemTable[T any](base func(*T) *shared.BaseEntity) *memTable[T] {
	return &memTable[T]{rows: map[int64]T{}, next: 100, base: base}
}

func (m *memTable[T]) find(id int64) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (m *memTable[T]) all() ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *memTable[T]) save(row *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	b := m.base(row)
	if b.ID == 0 {
		m.next++
		b.ID = m.next
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
		b.UpdatedAt = b.CreatedAt
	}
	m.rows[b.ID] = *row
	return nil
}

// put seeds a row with a fixed id
func (m *memTable[T]) put(id int64, row T) {
	b := m.base(&row)
	b.ID = id
	b.CreatedAt = time.Date(2026, 1, 24, 12, 0, 0, 0, time.UTC)
	b.UpdatedAt = b.CreatedAt
	m.mu.Lock()
	m.rows[id] = row
	m.mu.Unlock()
}

type memProducts struct{ *memTable[catalog.Product] }

func (r memProducts) FindByID(_ context.Context, id int64) (*catalog.Product, error) {
	return r.find(id)
}

func (r memProducts) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	return r.all()
}

func (r memProducts) ExistsByCode(_ context.Context, code string) (bool, error) {
	rows, err := r.all()
	for _, p := range rows {
		if p.Code == code {
			return true, err
		}
	}
	return false, err
}

func (r memProducts) Save(_ context.Context, p *catalog.Product) error {
	return r.save(p)
}

type memVariations struct{ *memTable[catalog.ProductVariation] }

func (r memVariations) FindByID(_ context.Context, id int64) (*catalog.ProductVariation, error) {
	return r.find(id)
}

func (r memVariations) FindByProduct(_ context.Context, productID int64) ([]catalog.ProductVariation, error) {
	rows, err := r.all()
	out := []catalog.ProductVariation{}
	for _, v := range rows {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	return out, err
}

func (r memVariations) Save(_ context.Context, v *catalog.ProductVariation) error {
	return r.save(v)
}

type memSuppliers struct{ *memTable[partner.Supplier] }

func (r memSuppliers) FindByID(_ context.Context, id int64) (*partner.Supplier, error) {
	return r.find(id)
}

func (r memSuppliers) FindAll(_ context.Context, _ shared.Filter) ([]partner.Supplier, error) {
	return r.all()
}

func (r memSuppliers) FindByStatus(_ context.Context, status partner.SupplierStatus) ([]partner.Supplier, error) {
	rows, err := r.all()
	out := []partner.Supplier{}
	for _, s := range rows {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, err
}

func (r memSuppliers) Save(_ context.Context, s *partner.Supplier) error {
	return r.save(s)
}

type memPlatforms struct{ *memTable[pricing.SalePlatform] }

func (r memPlatforms) FindByID(_ context.Context, id int64) (*pricing.SalePlatform, error) {
	return r.find(id)
}

func (r memPlatforms) FindAll(_ context.Context, _ shared.Filter) ([]pricing.SalePlatform, error) {
	return r.all()
}

func (r memPlatforms) ExistsByCode(_ context.Context, code string) (bool, error) {
	rows, err := r.all()
	for _, p := range rows {
		if p.Code == code {
			return true, err
		}
	}
	return false, err
}

func (r memPlatforms) Save(_ context.Context, p *pricing.SalePlatform) error {
	return r.save(p)
}

type memCommissions struct {
	*memTable[pricing.CommissionRuleset]
	platforms memPlatforms
}

func (r memCommissions) withPlatform(c pricing.CommissionRuleset) pricing.CommissionRuleset {
	if p, err := r.platforms.find(c.PlatformID); err == nil {
		c.Platform = p
	}
	return c
}

func (r memCommissions) FindByPlatform(_ context.Context, platformID int64) (*pricing.CommissionRuleset, error) {
	rows, err := r.all()
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		if c.PlatformID == platformID {
			c = r.withPlatform(c)
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r memCommissions) FindAll(_ context.Context) ([]pricing.CommissionRuleset, error) {
	rows, err := r.all()
	for i := range rows {
		rows[i] = r.withPlatform(rows[i])
	}
	return rows, err
}

func (r memCommissions) Save(_ context.Context, c *pricing.CommissionRuleset) error {
	return r.save(c)
}

type memRecords struct{ *memTable[pricing.PricingRecord] }

func (r memRecords) FindByID(_ context.Context, id int64) (*pricing.PricingRecord, error) {
	return r.find(id)
}

func (r memRecords) FindAll(_ context.Context, _ shared.Filter) ([]pricing.PricingRecord, error) {
	return r.all()
}

func (r memRecords) ExistsForVariationPlatform(_ context.Context, variationID, platformID, excludeID int64) (bool, error) {
	rows, err := r.all()
	for _, rec := range rows {
		if rec.VariationID == variationID && rec.PlatformID == platformID && rec.ID != excludeID {
			return true, err
		}
	}
	return false, err
}

func (r memRecords) Save(_ context.Context, rec *pricing.PricingRecord) error {
	return r.save(rec)
}

type memSupplierProducts struct{ *memTable[integration.SupplierProduct] }

func (r memSupplierProducts) FindByID(_ context.Context, id int64) (*integration.SupplierProduct, error) {
	return r.find(id)
}

func (r memSupplierProducts) FindAll(_ context.Context, _ shared.Filter) ([]integration.SupplierProduct, error) {
	return r.all()
}

func (r memSupplierProducts) FindBySupplier(_ context.Context, supplierID int64) ([]integration.SupplierProduct, error) {
	rows, err := r.all()
	out := []integration.SupplierProduct{}
	for _, sp := range rows {
		if sp.SupplierID == supplierID {
			out = append(out, sp)
		}
	}
	return out, err
}

func (r memSupplierProducts) Save(_ context.Context, sp *integration.SupplierProduct) error {
	return r.save(sp)
}

// backend wires the application services over in-memory tables seeded with:
//
//	product 1 "Chair" with variations 10 "Blue" and 11 "Red"
//	product 2 "Lamp" without variations
//	platform 3 "Marketplace" charging 12% + 5 per item, 18% profit + 2
//	platform 4 "Storefront" without a commission ruleset
//	supplier 9 active, supplier 8 blocked
//	pricing record 7 and supplier product 5 on variation 10
type backend struct {
	products         memProducts
	variations       memVariations
	suppliers        memSuppliers
	platforms        memPlatforms
	commissions      memCommissions
	records          memRecords
	supplierProducts memSupplierProducts

	productService         *catalogapp.ProductService
	supplierService        *partnerapp.SupplierService
	commissionService      *pricingapp.CommissionService
	recordService          *pricingapp.RecordService
	supplierProductService *integrationapp.SupplierProductService
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBackend() *backend {
	b := &backend{
		products:         memProducts{newMemTable(func(p *catalog.Product) *shared.BaseEntity { return &p.BaseEntity })},
		variations:       memVariations{newMemTable(func(v *catalog.ProductVariation) *shared.BaseEntity { return &v.BaseEntity })},
		suppliers:        memSuppliers{newMemTable(func(s *partner.Supplier) *shared.BaseEntity { return &s.BaseEntity })},
		platforms:        memPlatforms{newMemTable(func(p *pricing.SalePlatform) *shared.BaseEntity { return &p.BaseEntity })},
		records:          memRecords{newMemTable(func(r *pricing.PricingRecord) *shared.BaseEntity { return &r.BaseEntity })},
		supplierProducts: memSupplierProducts{newMemTable(func(sp *integration.SupplierProduct) *shared.BaseEntity { return &sp.BaseEntity })},
	}
	b.commissions = memCommissions{
		memTable:  newMemTable(func(c *pricing.CommissionRuleset) *shared.BaseEntity { return &c.BaseEntity }),
		platforms: b.platforms,
	}

	b.products.put(1, catalog.Product{Code: "CHAIR", Name: "Chair", Status: catalog.ProductStatusActive})
	b.products.put(2, catalog.Product{Code: "LAMP", Name: "Lamp", Status: catalog.ProductStatusActive})
	b.variations.put(10, catalog.ProductVariation{ProductID: 1, Name: "Blue", SKU: "CHAIR-BL"})
	b.variations.put(11, catalog.ProductVariation{ProductID: 1, Name: "Red", SKU: "CHAIR-RD"})
	b.platforms.put(3, pricing.SalePlatform{Code: "mkt", Name: "Marketplace"})
	b.platforms.put(4, pricing.SalePlatform{Code: "shop", Name: "Storefront"})
	b.commissions.put(30, pricing.CommissionRuleset{
		PlatformID:              3,
		CommissionPercentage:    dec("12"),
		CostPerItemSold:         dec("5"),
		DefaultProfitPercentage: dec("18"),
		AdditionalProfit:        dec("2"),
	})
	b.suppliers.put(9, partner.Supplier{TradeName: "Acme", LegalName: "Acme Ltd", TaxID: "11222333000181", Status: partner.SupplierStatusActive})
	b.suppliers.put(8, partner.Supplier{TradeName: "Shady", LegalName: "Shady Ltd", TaxID: "99888777000100", Status: partner.SupplierStatusBlocked})
	b.records.put(7, pricing.PricingRecord{ProductID: 1, VariationID: 10, PlatformID: 3, CostPrice: dec("100"), SalePrice: dec("152.86")})
	b.supplierProducts.put(5, integration.SupplierProduct{
		ProductID:           1,
		VariationID:         10,
		SupplierID:          9,
		SupplierPrice:       dec("45.90"),
		SupplierProductCode: "ACME-1",
		InStock:             true,
	})

	b.productService = catalogapp.NewProductService(b.products, b.variations)
	b.supplierService = partnerapp.NewSupplierService(b.suppliers)
	b.commissionService = pricingapp.NewCommissionService(b.platforms, b.commissions)
	b.recordService = pricingapp.NewRecordService(b.records, b.platforms, b.commissions, b.productService)
	b.supplierProductService = integrationapp.NewSupplierProductService(b.supplierProducts, b.productService, b.supplierService)
	return b
}
