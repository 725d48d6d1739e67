package backoffice

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

type pricingFixture struct {
	form    *PricingForm
	catalog *fakeCatalog
	records *MockPricingRecordStore
	log     *NotificationLog
	events  []string
}

func newPricingFixture(t *testing.T, recordID *int64) *pricingFixture {
	t.Helper()
	fx := &pricingFixture{
		catalog: newFakeCatalog(),
		records: new(MockPricingRecordStore),
		log:     NewNotificationLog(),
	}
	hooks := FormHooks{
		OnSaved: func(id int64) {
			// the success notification must already be out and the draft still intact
			fx.events = append(fx.events, "saved")
			assert.Equal(t, 1, fx.log.Count(NotifySuccess))
			assert.NotEmpty(t, fx.form.View().Selection.ProductID)
		},
		OnCancel: func() { fx.events = append(fx.events, "cancelled") },
	}
	fx.form = NewPricingForm(Collaborators{
		Catalog:        fx.catalog,
		Commissions:    newFakeCommissions(),
		PricingRecords: fx.records,
	}, fx.log, nil, recordID, hooks)
	return fx
}

func (fx *pricingFixture) fill(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, fx.form.SelectProduct(ctx, "1"))
	require.NoError(t, fx.form.SelectVariation("11"))
	require.NoError(t, fx.form.SelectPlatform(ctx, "7"))
	ferr, err := fx.form.SetCostPrice("100")
	require.NoError(t, err)
	require.Nil(t, ferr)
}

func storedRecord(id int64) *pricing.PricingRecord {
	r := &pricing.PricingRecord{
		ProductID:   1,
		VariationID: 11,
		PlatformID:  7,
		CostPrice:   decimal.NewFromInt(100),
		SalePrice:   decimal.RequireFromString("152.86"),
	}
	r.ID = id
	return r
}

func TestPricingForm_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("create mode loads reference lists", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		assert.Equal(t, FormStatusLoading, fx.form.View().Status)

		require.NoError(t, fx.form.Open(ctx))

		view := fx.form.View()
		assert.Equal(t, FormModeCreate, view.Mode)
		assert.Equal(t, FormStatusReady, view.Status)
		assert.Len(t, view.Selection.Products, 3)
		assert.Len(t, view.Selection.Platforms, 3)
		fx.records.AssertNotCalled(t, "GetPricingRecord", mock.Anything, mock.Anything)
	})

	t.Run("edit mode restores the record", func(t *testing.T) {
		fx := newPricingFixture(t, int64Ptr(5))
		fx.records.On("GetPricingRecord", mock.Anything, int64(5)).Return(storedRecord(5), nil)

		require.NoError(t, fx.form.Open(ctx))

		view := fx.form.View()
		assert.Equal(t, FormModeEdit, view.Mode)
		assert.Equal(t, FormStatusReady, view.Status)
		assert.Equal(t, "1", view.Selection.ProductID)
		assert.Equal(t, "11", view.Selection.VariationID)
		assert.Equal(t, "7", view.Selection.PlatformID)
		assert.Equal(t, "100", view.Selection.CostPrice)
		require.NotNil(t, view.Selection.SalePrice)
		assert.Equal(t, "152.86", view.Selection.SalePrice.StringFixed(2))
	})

	t.Run("failed record load stays loading", func(t *testing.T) {
		fx := newPricingFixture(t, int64Ptr(5))
		fx.records.On("GetPricingRecord", mock.Anything, int64(5)).Return(nil, shared.ErrNotFound)

		err := fx.form.Open(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, FormStatusLoading, fx.form.View().Status)
		assert.Equal(t, []string{"Could not load the pricing record"}, messages(fx.log))

		result := fx.form.Submit(ctx)
		assert.Equal(t, SubmitFailed, result.Status)
		assert.ErrorIs(t, result.Err, ErrFormNotReady)
	})

	t.Run("empty record response is an error", func(t *testing.T) {
		fx := newPricingFixture(t, int64Ptr(5))
		fx.records.On("GetPricingRecord", mock.Anything, int64(5)).Return(nil, nil)

		err := fx.form.Open(ctx)
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestPricingForm_SetCostPrice(t *testing.T) {
	fx := newPricingFixture(t, nil)
	require.NoError(t, fx.form.Open(context.Background()))

	ferr, err := fx.form.SetCostPrice("-1")
	require.NoError(t, err)
	require.NotNil(t, ferr)
	assert.Equal(t, CodeNotPositive, ferr.Code)
	assert.Equal(t, "-1", fx.form.View().Selection.CostPrice)
}

func TestPricingForm_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("create success notifies, runs OnSaved and resets", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		require.NoError(t, fx.form.Open(ctx))
		fx.fill(t)

		want := pricing.RecordPayload{
			ProductID:   1,
			VariationID: 11,
			PlatformID:  7,
			CostPrice:   decimal.NewFromInt(100),
			SalePrice:   decimal.RequireFromString("152.86"),
		}
		fx.records.On("SavePricingRecord", mock.Anything, mock.MatchedBy(func(p pricing.RecordPayload) bool {
			return p.ProductID == want.ProductID &&
				p.VariationID == want.VariationID &&
				p.PlatformID == want.PlatformID &&
				p.CostPrice.Equal(want.CostPrice) &&
				p.SalePrice.Equal(want.SalePrice)
		}), (*int64)(nil)).Return(storedRecord(42), nil)

		result := fx.form.Submit(ctx)

		require.Equal(t, SubmitSaved, result.Status)
		assert.Equal(t, int64(42), result.RecordID)
		assert.Equal(t, []string{"saved"}, fx.events)
		assert.Equal(t, []string{"Pricing created"}, messages(fx.log))

		view := fx.form.View()
		assert.Equal(t, FormStatusClosed, view.Status)
		assert.Empty(t, view.Selection.ProductID)
		assert.Nil(t, view.Selection.SalePrice)
		fx.records.AssertExpectations(t)
	})

	t.Run("edit success passes the record id", func(t *testing.T) {
		fx := newPricingFixture(t, int64Ptr(42))
		fx.records.On("GetPricingRecord", mock.Anything, int64(42)).Return(storedRecord(42), nil)
		require.NoError(t, fx.form.Open(ctx))

		fx.records.On("SavePricingRecord", mock.Anything, mock.Anything, int64Ptr(42)).Return(storedRecord(42), nil)

		result := fx.form.Submit(ctx)
		require.Equal(t, SubmitSaved, result.Status)
		assert.Equal(t, []string{"Pricing updated"}, messages(fx.log))
	})

	t.Run("invalid draft is not sent", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		require.NoError(t, fx.form.Open(ctx))
		require.NoError(t, fx.form.SelectProduct(ctx, "1"))

		result := fx.form.Submit(ctx)

		require.Equal(t, SubmitInvalid, result.Status)
		_, ok := result.Errors.Field(FieldProductVariation)
		assert.True(t, ok)
		sale, ok := result.Errors.Field(FieldSalePrice)
		require.True(t, ok)
		assert.Equal(t, CodeNotPositive, sale.Code)
		assert.Equal(t, FormStatusReady, fx.form.View().Status)
		fx.records.AssertNotCalled(t, "SavePricingRecord", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure keeps the draft with one notification", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		require.NoError(t, fx.form.Open(ctx))
		fx.fill(t)

		fx.records.On("SavePricingRecord", mock.Anything, mock.Anything, (*int64)(nil)).
			Return(nil, errors.New("database down")).Once()

		result := fx.form.Submit(ctx)

		require.Equal(t, SubmitFailed, result.Status)
		assert.EqualError(t, result.Err, "database down")
		assert.Equal(t, []string{"Could not save the pricing record"}, messages(fx.log))
		assert.Empty(t, fx.events)

		view := fx.form.View()
		assert.Equal(t, FormStatusReady, view.Status)
		assert.Equal(t, "11", view.Selection.VariationID)
		require.NotNil(t, view.Selection.SalePrice)

		// the operator can retry
		fx.records.On("SavePricingRecord", mock.Anything, mock.Anything, (*int64)(nil)).Return(storedRecord(43), nil).Once()
		result = fx.form.Submit(ctx)
		assert.Equal(t, SubmitSaved, result.Status)
	})

	t.Run("closed form rejects actions", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		require.NoError(t, fx.form.Open(ctx))
		fx.form.Cancel()

		assert.Equal(t, []string{"cancelled"}, fx.events)
		assert.ErrorIs(t, fx.form.SelectProduct(ctx, "1"), ErrFormClosed)
		assert.ErrorIs(t, fx.form.Open(ctx), ErrFormClosed)
		_, err := fx.form.SetCostPrice("1")
		assert.ErrorIs(t, err, ErrFormClosed)

		result := fx.form.Submit(ctx)
		assert.ErrorIs(t, result.Err, ErrFormClosed)

		// a second cancel is a no-op
		fx.form.Cancel()
		assert.Equal(t, []string{"cancelled"}, fx.events)
	})

	t.Run("submitting form is busy", func(t *testing.T) {
		fx := newPricingFixture(t, nil)
		require.NoError(t, fx.form.Open(ctx))
		fx.fill(t)

		var inner SubmitResult
		fx.records.On("SavePricingRecord", mock.Anything, mock.Anything, (*int64)(nil)).
			Run(func(args mock.Arguments) {
				assert.Equal(t, FormStatusSubmitting, fx.form.View().Status)
				inner = fx.form.Submit(ctx)
			}).
			Return(storedRecord(42), nil)

		result := fx.form.Submit(ctx)
		assert.Equal(t, SubmitSaved, result.Status)
		assert.Equal(t, SubmitFailed, inner.Status)
		assert.ErrorIs(t, inner.Err, ErrFormBusy)
		fx.records.AssertNumberOfCalls(t, "SavePricingRecord", 1)
	})
}

func TestPricingInput(t *testing.T) {
	input := pricingInput(SelectionState{CostPrice: "3"})
	_, hasProduct := input[FieldProduct]
	assert.False(t, hasProduct)
	assert.Equal(t, "3", input[FieldCostPrice])
	assert.Equal(t, decimal.Zero, input[FieldSalePrice])
}
