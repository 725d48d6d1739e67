package backoffice

import (
	"context"
	"sync"

	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeCatalog serves canned products and variations. A product listed in
// gates blocks its variation fetch until the gate channel is closed; gate 0
// blocks the product list.
type fakeCatalog struct {
	mu            sync.Mutex
	products      []catalog.Product
	productsErr   error
	variations    map[int64][]catalog.ProductVariation
	variationsErr error
	gates         map[int64]chan struct{}
	started       chan int64
	variationHits map[int64]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: []catalog.Product{
			testProduct(1, "Coffee Mug"),
			testProduct(2, "Tea Cup"),
			testProduct(3, "Bare Product"),
		},
		variations: map[int64][]catalog.ProductVariation{
			1: {testVariation(11, 1, "Mug Red"), testVariation(12, 1, "Mug Blue")},
			2: {testVariation(21, 2, "Cup White")},
			3: {},
		},
		gates:         map[int64]chan struct{}{},
		variationHits: map[int64]int{},
	}
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	f.mu.Lock()
	gate := f.gates[0]
	started := f.started
	f.mu.Unlock()

	if gate != nil {
		started <- 0
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products, nil
}

func (f *fakeCatalog) ListProductVariations(ctx context.Context, productID int64) ([]catalog.ProductVariation, error) {
	f.mu.Lock()
	f.variationHits[productID]++
	gate := f.gates[productID]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- productID
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.variationsErr != nil {
		return nil, f.variationsErr
	}
	return f.variations[productID], nil
}

func (f *fakeCatalog) block(productID int64) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[productID] = gate
	if f.started == nil {
		f.started = make(chan int64, 8)
	}
	return gate
}

func (f *fakeCatalog) hits(productID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.variationHits[productID]
}

// fakeCommissions serves commission rulesets keyed by platform id. Gates
// work like the catalog ones: a platform gate blocks its commission fetch,
// gate 0 blocks the platform list.
type fakeCommissions struct {
	mu       sync.Mutex
	rulesets map[int64]*pricing.CommissionRuleset
	listErr  error
	getErr   error
	gates    map[int64]chan struct{}
	started  chan int64
}

func newFakeCommissions() *fakeCommissions {
	return &fakeCommissions{
		rulesets: map[int64]*pricing.CommissionRuleset{
			// 20% commission, 10% profit, 5 per item, 2 additional
			7: testRuleset(7, "Marketplace", "20", "5", "10", "2"),
			// no fees at all
			8: testRuleset(8, "Own Store", "0", "0", "0", "0"),
			// commission plus profit reach 100%
			9: testRuleset(9, "Broken", "60", "0", "40", "0"),
		},
		gates: map[int64]chan struct{}{},
	}
}

func (f *fakeCommissions) block(platformID int64) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[platformID] = gate
	if f.started == nil {
		f.started = make(chan int64, 8)
	}
	return gate
}

func (f *fakeCommissions) wait(platformID int64) {
	f.mu.Lock()
	gate := f.gates[platformID]
	started := f.started
	f.mu.Unlock()

	if gate != nil {
		started <- platformID
		<-gate
	}
}

func (f *fakeCommissions) ListSalePlatformCommissions(ctx context.Context) ([]pricing.CommissionRuleset, error) {
	f.wait(0)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]pricing.CommissionRuleset, 0, len(f.rulesets))
	for _, id := range []int64{7, 8, 9} {
		if r, ok := f.rulesets[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeCommissions) GetCommissionByPlatformID(ctx context.Context, platformID int64) (*pricing.CommissionRuleset, error) {
	f.wait(platformID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rulesets[platformID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r, nil
}

type fakeSuppliers struct {
	suppliers []partner.Supplier
	err       error
}

func (f *fakeSuppliers) ListSuppliers(ctx context.Context) ([]partner.Supplier, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.suppliers, nil
}

// MockPricingRecordStore is a mock implementation of PricingRecordStore
type MockPricingRecordStore struct {
	mock.Mock
}

func (m *MockPricingRecordStore) GetPricingRecord(ctx context.Context, id int64) (*pricing.PricingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRecord), args.Error(1)
}

func (m *MockPricingRecordStore) SavePricingRecord(ctx context.Context, payload pricing.RecordPayload, id *int64) (*pricing.PricingRecord, error) {
	args := m.Called(ctx, payload, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRecord), args.Error(1)
}

// MockSupplierProductStore is a mock implementation of SupplierProductStore
type MockSupplierProductStore struct {
	mock.Mock
}

func (m *MockSupplierProductStore) GetSupplierProduct(ctx context.Context, id int64) (*integration.SupplierProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SupplierProduct), args.Error(1)
}

func (m *MockSupplierProductStore) SaveSupplierProduct(ctx context.Context, payload integration.SupplierProductPayload, id *int64) (*integration.SupplierProduct, error) {
	args := m.Called(ctx, payload, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SupplierProduct), args.Error(1)
}

func testProduct(id int64, name string) catalog.Product {
	p := catalog.Product{Name: name, Code: "P" + formatID(id), Status: catalog.ProductStatusActive}
	p.ID = id
	return p
}

func testVariation(id, productID int64, name string) catalog.ProductVariation {
	v := catalog.ProductVariation{ProductID: productID, Name: name}
	v.ID = id
	return v
}

func testSupplier(id int64, name string) partner.Supplier {
	s := partner.Supplier{TradeName: name, LegalName: name + " Ltd", Status: partner.SupplierStatusActive}
	s.ID = id
	return s
}

func testRuleset(platformID int64, name, commission, perItem, profit, additional string) *pricing.CommissionRuleset {
	r := &pricing.CommissionRuleset{
		PlatformID:              platformID,
		Platform:                &pricing.SalePlatform{Name: name},
		CommissionPercentage:    decimal.RequireFromString(commission),
		CostPerItemSold:         decimal.RequireFromString(perItem),
		DefaultProfitPercentage: decimal.RequireFromString(profit),
		AdditionalProfit:        decimal.RequireFromString(additional),
	}
	r.ID = platformID * 100
	return r
}

func int64Ptr(v int64) *int64 {
	return &v
}

func messages(log *NotificationLog) []string {
	var out []string
	for _, n := range log.Pending() {
		out = append(out, n.Message)
	}
	return out
}
