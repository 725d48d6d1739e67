package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordServiceFixture struct {
	records     *MockPricingRecordRepository
	platforms   *MockSalePlatformRepository
	commissions *MockCommissionRepository
	variations  *MockVariationChecker
	service     *RecordService
}

func newRecordServiceFixture() *recordServiceFixture {
	f := &recordServiceFixture{
		records:     new(MockPricingRecordRepository),
		platforms:   new(MockSalePlatformRepository),
		commissions: new(MockCommissionRepository),
		variations:  new(MockVariationChecker),
	}
	f.service = NewRecordService(f.records, f.platforms, f.commissions, f.variations)
	return f
}

// references stubs a valid product, variation and platform 3 priced by
// the 12/5/18/2 marketplace ruleset
func (f *recordServiceFixture) references(ctx context.Context) {
	platform := &pricing.SalePlatform{BaseEntity: shared.BaseEntity{ID: 3}}
	ruleset := &pricing.CommissionRuleset{
		PlatformID:              3,
		CommissionPercentage:    decimal.NewFromInt(12),
		CostPerItemSold:         decimal.NewFromInt(5),
		DefaultProfitPercentage: decimal.NewFromInt(18),
		AdditionalProfit:        decimal.NewFromInt(2),
	}
	f.variations.On("EnsureVariationOf", ctx, int64(1), int64(2)).Return(nil)
	f.platforms.On("FindByID", ctx, int64(3)).Return(platform, nil)
	f.commissions.On("FindByPlatform", ctx, int64(3)).Return(ruleset, nil)
}

func recordPayload() pricing.RecordPayload {
	return pricing.RecordPayload{
		ProductID:   1,
		VariationID: 2,
		PlatformID:  3,
		CostPrice:   decimal.NewFromInt(100),
		SalePrice:   decimal.RequireFromString("152.86"),
	}
}

func TestRecordService_SavePricingRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("creates new record", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.references(ctx)
		f.records.On("ExistsForVariationPlatform", ctx, int64(2), int64(3), int64(0)).Return(false, nil)
		f.records.On("Save", ctx, mock.AnythingOfType("*pricing.PricingRecord")).Return(nil)

		record, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		require.NoError(t, err)
		assert.Equal(t, "152.86", record.SalePrice.StringFixed(2))
		f.records.AssertExpectations(t)
	})

	t.Run("updates existing record", func(t *testing.T) {
		f := newRecordServiceFixture()
		existing, err := pricing.NewPricingRecord(recordPayload())
		require.NoError(t, err)
		existing.ID = 11

		update := recordPayload()
		update.CostPrice = decimal.NewFromInt(110)

		update.SalePrice = decimal.Zero

		id := int64(11)
		f.references(ctx)
		f.records.On("ExistsForVariationPlatform", ctx, int64(2), int64(3), int64(11)).Return(false, nil)
		f.records.On("FindByID", ctx, int64(11)).Return(existing, nil)
		f.records.On("Save", ctx, existing).Return(nil)

		record, err := f.service.SavePricingRecord(ctx, update, &id)
		require.NoError(t, err)
		assert.Equal(t, int64(11), record.ID)
		assert.True(t, record.CostPrice.Equal(decimal.NewFromInt(110)))
		// (110 + 5 + 2) / 0.7
		assert.Equal(t, "167.14", record.SalePrice.StringFixed(2))
	})

	t.Run("rejects variation of another product", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.variations.On("EnsureVariationOf", ctx, int64(1), int64(2)).
			Return(shared.NewDomainError("INVALID_REFERENCE", "Product variation does not belong to the selected product"))

		_, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		require.Error(t, err)
		f.records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate variation and platform", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.references(ctx)
		f.records.On("ExistsForVariationPlatform", ctx, int64(2), int64(3), int64(0)).Return(true, nil)

		_, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("unknown platform is an invalid reference", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.variations.On("EnsureVariationOf", ctx, int64(1), int64(2)).Return(nil)
		f.platforms.On("FindByID", ctx, int64(3)).Return(nil, shared.ErrNotFound)

		_, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_REFERENCE", domainErr.Code)
	})

	t.Run("invalid payload never reaches the repositories", func(t *testing.T) {
		f := newRecordServiceFixture()
		bad := recordPayload()
		bad.CostPrice = decimal.RequireFromString("0.004")

		_, err := f.service.SavePricingRecord(ctx, bad, nil)
		require.Error(t, err)
		f.variations.AssertNotCalled(t, "EnsureVariationOf", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("derives the sale price from the platform commission", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.references(ctx)
		f.records.On("ExistsForVariationPlatform", ctx, int64(2), int64(3), int64(0)).Return(false, nil)
		f.records.On("Save", ctx, mock.AnythingOfType("*pricing.PricingRecord")).Return(nil)

		payload := recordPayload()
		payload.SalePrice = decimal.Zero
		record, err := f.service.SavePricingRecord(ctx, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, "152.86", record.SalePrice.StringFixed(2))
	})

	t.Run("prices the cost at its stored scale", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.references(ctx)
		f.records.On("ExistsForVariationPlatform", ctx, int64(2), int64(3), int64(0)).Return(false, nil)
		f.records.On("Save", ctx, mock.AnythingOfType("*pricing.PricingRecord")).Return(nil)

		payload := recordPayload()
		payload.CostPrice = decimal.RequireFromString("10.005")
		payload.SalePrice = decimal.Zero
		record, err := f.service.SavePricingRecord(ctx, payload, nil)
		require.NoError(t, err)
		assert.Equal(t, "10.01", record.CostPrice.String())
		assert.Equal(t, "24.3", record.SalePrice.String())
	})

	t.Run("rejects a sale price the commission does not yield", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.references(ctx)

		payload := recordPayload()
		payload.SalePrice = decimal.RequireFromString("999.99")
		_, err := f.service.SavePricingRecord(ctx, payload, nil)
		assert.ErrorIs(t, err, pricing.ErrSalePriceMismatch)
		f.records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("platform without commission cannot be priced", func(t *testing.T) {
		f := newRecordServiceFixture()
		f.variations.On("EnsureVariationOf", ctx, int64(1), int64(2)).Return(nil)
		f.platforms.On("FindByID", ctx, int64(3)).Return(&pricing.SalePlatform{BaseEntity: shared.BaseEntity{ID: 3}}, nil)
		f.commissions.On("FindByPlatform", ctx, int64(3)).Return(nil, shared.ErrNotFound)

		_, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		assert.ErrorIs(t, err, ErrNoCommission)
		f.records.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("broken commission is reported as such", func(t *testing.T) {
		f := newRecordServiceFixture()
		broken := &pricing.CommissionRuleset{
			PlatformID:              3,
			CommissionPercentage:    decimal.NewFromInt(60),
			DefaultProfitPercentage: decimal.NewFromInt(40),
		}
		f.variations.On("EnsureVariationOf", ctx, int64(1), int64(2)).Return(nil)
		f.platforms.On("FindByID", ctx, int64(3)).Return(&pricing.SalePlatform{BaseEntity: shared.BaseEntity{ID: 3}}, nil)
		f.commissions.On("FindByPlatform", ctx, int64(3)).Return(broken, nil)

		_, err := f.service.SavePricingRecord(ctx, recordPayload(), nil)
		assert.ErrorIs(t, err, pricing.ErrInvalidCommissionConfig)
	})
}
