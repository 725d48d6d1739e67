package pricing

import (
	"context"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockSalePlatformRepository is a mock implementation of SalePlatformRepository
type MockSalePlatformRepository struct {
	mock.Mock
}

func (m *MockSalePlatformRepository) FindByID(ctx context.Context, id int64) (*pricing.SalePlatform, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.SalePlatform), args.Error(1)
}

func (m *MockSalePlatformRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.SalePlatform, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]pricing.SalePlatform), args.Error(1)
}

func (m *MockSalePlatformRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSalePlatformRepository) Save(ctx context.Context, platform *pricing.SalePlatform) error {
	args := m.Called(ctx, platform)
	return args.Error(0)
}

// MockCommissionRepository is a mock implementation of CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByPlatform(ctx context.Context, platformID int64) (*pricing.CommissionRuleset, error) {
	args := m.Called(ctx, platformID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.CommissionRuleset), args.Error(1)
}

func (m *MockCommissionRepository) FindAll(ctx context.Context) ([]pricing.CommissionRuleset, error) {
	args := m.Called(ctx)
	return args.Get(0).([]pricing.CommissionRuleset), args.Error(1)
}

func (m *MockCommissionRepository) Save(ctx context.Context, ruleset *pricing.CommissionRuleset) error {
	args := m.Called(ctx, ruleset)
	return args.Error(0)
}

// MockPricingRecordRepository is a mock implementation of PricingRecordRepository
type MockPricingRecordRepository struct {
	mock.Mock
}

func (m *MockPricingRecordRepository) FindByID(ctx context.Context, id int64) (*pricing.PricingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRecord), args.Error(1)
}

func (m *MockPricingRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.PricingRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]pricing.PricingRecord), args.Error(1)
}

func (m *MockPricingRecordRepository) ExistsForVariationPlatform(ctx context.Context, variationID, platformID, excludeID int64) (bool, error) {
	args := m.Called(ctx, variationID, platformID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPricingRecordRepository) Save(ctx context.Context, record *pricing.PricingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockVariationChecker is a mock implementation of VariationChecker
type MockVariationChecker struct {
	mock.Mock
}

func (m *MockVariationChecker) EnsureVariationOf(ctx context.Context, productID, variationID int64) error {
	args := m.Called(ctx, productID, variationID)
	return args.Error(0)
}
