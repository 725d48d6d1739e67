package backoffice

import (
	"context"
	"sync"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PricingFormView is a snapshot of a pricing form session
type PricingFormView struct {
	Mode      FormMode
	Status    FormStatus
	RecordID  *int64
	Selection SelectionState
}

// PricingForm is the session controller of the pricing screen. It prices a
// product variation on a sale platform and saves the result as a pricing
// record.
type PricingForm struct {
	mu        sync.Mutex
	recordID  *int64
	status    FormStatus
	selection *Selection
	records   PricingRecordStore
	schema    *Schema
	notifier  Notifier
	hooks     FormHooks
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewPricingForm creates a pricing form. A nil recordID opens the form in
// create mode, otherwise the record is edited.
func NewPricingForm(c Collaborators, notifier Notifier, logger *zap.Logger, recordID *int64, hooks FormHooks) *PricingForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingForm{
		recordID:  recordID,
		status:    FormStatusLoading,
		selection: NewSelection(c.Catalog, c.Commissions, notifier, logger),
		records:   c.PricingRecords,
		schema:    NewPricingSchema(),
		notifier:  notifier,
		hooks:     hooks,
		logger:    logger.Named("pricing_form"),
		tracer:    otel.Tracer(tracerName),
	}
}

// Mode returns create or edit
func (f *PricingForm) Mode() FormMode {
	return modeFor(f.recordID)
}

// View returns a snapshot of the session
func (f *PricingForm) View() PricingFormView {
	f.mu.Lock()
	status := f.status
	f.mu.Unlock()
	return PricingFormView{
		Mode:      f.Mode(),
		Status:    status,
		RecordID:  f.recordID,
		Selection: f.selection.State(),
	}
}

// Open loads the product and platform lists and, in edit mode, the record
// being edited. A failed record load leaves the form loading.
func (f *PricingForm) Open(ctx context.Context) error {
	ctx, span := f.tracer.Start(ctx, "pricing_form.open",
		trace.WithAttributes(attribute.String("form.mode", string(f.Mode()))))
	defer span.End()

	if err := f.ensureOpen(); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return f.selection.LoadProducts(ctx) })
	g.Go(func() error { return f.selection.LoadPlatforms(ctx) })
	refErr := g.Wait()

	if f.recordID != nil {
		record, err := f.records.GetPricingRecord(ctx, *f.recordID)
		if err == nil && record == nil {
			err = ErrEmptyResponse
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "record load failed")
			f.logger.Error("failed to load pricing record", zap.Int64("record_id", *f.recordID), zap.Error(err))
			f.notifier.Notify(NotifyError, "Could not load the pricing record")
			return err
		}

		salePrice := record.SalePrice
		if err := f.selection.Restore(ctx, RestoreInput{
			ProductID:   formatID(record.ProductID),
			VariationID: formatID(record.VariationID),
			PlatformID:  formatID(record.PlatformID),
			CostPrice:   record.CostPrice.String(),
			SalePrice:   &salePrice,
		}); err != nil && refErr == nil {
			refErr = err
		}
	}

	f.mu.Lock()
	if f.status == FormStatusLoading {
		f.status = FormStatusReady
	}
	f.mu.Unlock()
	return refErr
}

// SelectProduct changes the product of the draft
func (f *PricingForm) SelectProduct(ctx context.Context, productID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.selection.SelectProduct(ctx, productID)
}

// SelectVariation changes the variation of the draft
func (f *PricingForm) SelectVariation(variationID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.selection.SelectVariation(variationID)
}

// SelectPlatform changes the sale platform of the draft
func (f *PricingForm) SelectPlatform(ctx context.Context, platformID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.selection.SelectPlatform(ctx, platformID)
}

// SetCostPrice updates the cost price and returns its validation error, if any
func (f *PricingForm) SetCostPrice(raw string) (*FieldError, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	f.selection.SetCostPrice(raw)
	return f.schema.ValidateField(FieldCostPrice, raw), nil
}

// Submit validates the draft and saves it. On success the operator is
// notified, OnSaved runs and the draft is reset, in that order. On failure
// the draft is kept and exactly one error notification is issued.
func (f *PricingForm) Submit(ctx context.Context) SubmitResult {
	ctx, span := f.tracer.Start(ctx, "pricing_form.submit",
		trace.WithAttributes(attribute.String("form.mode", string(f.Mode()))))
	defer span.End()

	f.mu.Lock()
	if err := f.submittableLocked(); err != nil {
		f.mu.Unlock()
		return SubmitResult{Status: SubmitFailed, Err: err}
	}

	state := f.selection.State()
	values, errs := f.schema.Validate(pricingInput(state))
	if len(errs) > 0 {
		f.mu.Unlock()
		span.SetAttributes(attribute.Int("form.invalid_fields", len(errs)))
		return SubmitResult{Status: SubmitInvalid, Errors: errs, Err: state.PricingError}
	}
	f.status = FormStatusSubmitting
	f.mu.Unlock()

	payload := pricing.RecordPayload{
		ProductID:   parseID(values.Text(FieldProduct)),
		VariationID: parseID(values.Text(FieldProductVariation)),
		PlatformID:  parseID(values.Text(FieldSalePlatform)),
		CostPrice:   values.Number(FieldCostPrice),
		SalePrice:   values.Number(FieldSalePrice),
	}

	record, err := f.records.SavePricingRecord(ctx, payload, f.recordID)
	if err == nil && record == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		f.mu.Lock()
		f.status = FormStatusReady
		f.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		f.logger.Error("failed to save pricing record", zap.Error(err))
		f.notifier.Notify(NotifyError, "Could not save the pricing record")
		return SubmitResult{Status: SubmitFailed, Err: err}
	}

	f.mu.Lock()
	f.status = FormStatusClosed
	f.mu.Unlock()

	f.logger.Info("pricing record saved",
		zap.Int64("record_id", record.ID),
		zap.String("sale_price", record.SalePrice.StringFixed(pricing.SalePriceScale)))
	if f.Mode() == FormModeEdit {
		f.notifier.Notify(NotifySuccess, "Pricing updated")
	} else {
		f.notifier.Notify(NotifySuccess, "Pricing created")
	}
	if f.hooks.OnSaved != nil {
		f.hooks.OnSaved(record.ID)
	}
	f.selection.Reset()
	return SubmitResult{Status: SubmitSaved, RecordID: record.ID}
}

// Cancel discards the draft and ends the session
func (f *PricingForm) Cancel() {
	f.mu.Lock()
	if f.status == FormStatusClosed {
		f.mu.Unlock()
		return
	}
	f.status = FormStatusClosed
	f.mu.Unlock()

	f.selection.Reset()
	if f.hooks.OnCancel != nil {
		f.hooks.OnCancel()
	}
}

func (f *PricingForm) ensureOpen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == FormStatusClosed {
		return ErrFormClosed
	}
	return nil
}

func (f *PricingForm) submittableLocked() error {
	switch f.status {
	case FormStatusClosed:
		return ErrFormClosed
	case FormStatusLoading:
		return ErrFormNotReady
	case FormStatusSubmitting:
		return ErrFormBusy
	}
	return nil
}

// pricingInput turns the selection state into raw schema input. Missing
// values stay absent so they fail as required.
func pricingInput(s SelectionState) map[string]any {
	input := map[string]any{}
	if s.ProductID != "" {
		input[FieldProduct] = s.ProductID
	}
	if s.VariationID != "" {
		input[FieldProductVariation] = s.VariationID
	}
	if s.PlatformID != "" {
		input[FieldSalePlatform] = s.PlatformID
	}
	input[FieldCostPrice] = s.CostPrice
	if s.SalePrice != nil {
		input[FieldSalePrice] = *s.SalePrice
	} else {
		input[FieldSalePrice] = decimal.Zero
	}
	return input
}
