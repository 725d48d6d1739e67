package backoffice

import (
	"context"
	"sync"

	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SupplierIntegrationDraft holds the raw, not yet validated fields of the
// supplier integration form that are not part of the product selection
type SupplierIntegrationDraft struct {
	SupplierID          string
	SupplierPrice       string
	SupplierProductCode string
	InStock             string // "1" in stock, "0" out of stock
	SupplierProductLink string
	BlingProductID      string
}

// SupplierIntegrationFormView is a snapshot of a supplier integration session
type SupplierIntegrationFormView struct {
	Mode      FormMode
	Status    FormStatus
	RecordID  *int64
	Selection SelectionState
	Suppliers []Choice
	Draft     SupplierIntegrationDraft
}

// SupplierIntegrationForm is the session controller that links a product
// variation to a supplier offer
type SupplierIntegrationForm struct {
	mu        sync.Mutex
	recordID  *int64
	status    FormStatus
	selection *Selection
	directory SupplierDirectory
	suppliers []Choice
	draft     SupplierIntegrationDraft
	epoch     uint64
	store     SupplierProductStore
	schema    *Schema
	notifier  Notifier
	hooks     FormHooks
	logger    *zap.Logger
	tracer    trace.Tracer
}

// NewSupplierIntegrationForm creates a supplier integration form. A nil
// recordID opens the form in create mode.
func NewSupplierIntegrationForm(c Collaborators, notifier Notifier, logger *zap.Logger, recordID *int64, hooks FormHooks) *SupplierIntegrationForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierIntegrationForm{
		recordID:  recordID,
		status:    FormStatusLoading,
		selection: NewSelection(c.Catalog, nil, notifier, logger),
		directory: c.Suppliers,
		store:     c.SupplierProducts,
		schema:    NewSupplierIntegrationSchema(),
		notifier:  notifier,
		hooks:     hooks,
		logger:    logger.Named("supplier_integration_form"),
		tracer:    otel.Tracer(tracerName),
	}
}

// Mode returns create or edit
func (f *SupplierIntegrationForm) Mode() FormMode {
	return modeFor(f.recordID)
}

// View returns a snapshot of the session
func (f *SupplierIntegrationForm) View() SupplierIntegrationFormView {
	f.mu.Lock()
	view := SupplierIntegrationFormView{
		Mode:      f.Mode(),
		Status:    f.status,
		RecordID:  f.recordID,
		Suppliers: append([]Choice(nil), f.suppliers...),
		Draft:     f.draft,
	}
	f.mu.Unlock()
	view.Selection = f.selection.State()
	return view
}

// Open loads the product and supplier lists and, in edit mode, the record
// being edited
func (f *SupplierIntegrationForm) Open(ctx context.Context) error {
	ctx, span := f.tracer.Start(ctx, "supplier_integration_form.open",
		trace.WithAttributes(attribute.String("form.mode", string(f.Mode()))))
	defer span.End()

	if err := f.ensureOpen(); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error { return f.selection.LoadProducts(ctx) })
	g.Go(func() error { return f.loadSuppliers(ctx) })
	refErr := g.Wait()

	if f.recordID != nil {
		record, err := f.store.GetSupplierProduct(ctx, *f.recordID)
		if err == nil && record == nil {
			err = ErrEmptyResponse
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "record load failed")
			f.logger.Error("failed to load supplier product", zap.Int64("record_id", *f.recordID), zap.Error(err))
			f.notifier.Notify(NotifyError, "Could not load the supplier product")
			return err
		}

		f.mu.Lock()
		f.draft = draftFromRecord(record)
		f.mu.Unlock()

		if err := f.selection.Restore(ctx, RestoreInput{
			ProductID:   formatID(record.ProductID),
			VariationID: formatID(record.VariationID),
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
func (f *SupplierIntegrationForm) SelectProduct(ctx context.Context, productID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.selection.SelectProduct(ctx, productID)
}

// SelectVariation changes the variation of the draft
func (f *SupplierIntegrationForm) SelectVariation(variationID string) error {
	if err := f.ensureOpen(); err != nil {
		return err
	}
	return f.selection.SelectVariation(variationID)
}

// SelectSupplier picks one of the loaded suppliers. An empty id clears it.
func (f *SupplierIntegrationForm) SelectSupplier(supplierID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == FormStatusClosed {
		return ErrFormClosed
	}
	if supplierID != "" && !containsChoice(f.suppliers, supplierID) {
		return ErrUnknownChoice
	}
	f.draft.SupplierID = supplierID
	return nil
}

// SetSupplierPrice updates the supplier price
func (f *SupplierIntegrationForm) SetSupplierPrice(raw string) (*FieldError, error) {
	return f.setField(FieldSupplierPrice, raw, func(d *SupplierIntegrationDraft) { d.SupplierPrice = raw })
}

// SetSupplierProductCode updates the supplier-side product code
func (f *SupplierIntegrationForm) SetSupplierProductCode(raw string) (*FieldError, error) {
	return f.setField(FieldSupplierProductCode, raw, func(d *SupplierIntegrationDraft) { d.SupplierProductCode = raw })
}

// SetInStock updates the stock flag ("1" or "0")
func (f *SupplierIntegrationForm) SetInStock(raw string) (*FieldError, error) {
	return f.setField(FieldInStock, raw, func(d *SupplierIntegrationDraft) { d.InStock = raw })
}

// SetSupplierProductLink updates the optional product page URL
func (f *SupplierIntegrationForm) SetSupplierProductLink(raw string) (*FieldError, error) {
	return f.setField(FieldSupplierProductLink, raw, func(d *SupplierIntegrationDraft) { d.SupplierProductLink = raw })
}

// SetBlingProductID updates the external catalog product id
func (f *SupplierIntegrationForm) SetBlingProductID(raw string) (*FieldError, error) {
	return f.setField(FieldBlingProductID, raw, func(d *SupplierIntegrationDraft) { d.BlingProductID = raw })
}

// Submit validates the draft and saves it, with the same success and
// failure sequencing as the pricing form
func (f *SupplierIntegrationForm) Submit(ctx context.Context) SubmitResult {
	ctx, span := f.tracer.Start(ctx, "supplier_integration_form.submit",
		trace.WithAttributes(attribute.String("form.mode", string(f.Mode()))))
	defer span.End()

	f.mu.Lock()
	if err := f.submittableLocked(); err != nil {
		f.mu.Unlock()
		return SubmitResult{Status: SubmitFailed, Err: err}
	}

	input := supplierIntegrationInput(f.selection.State(), f.draft)
	values, errs := f.schema.Validate(input)
	if len(errs) > 0 {
		f.mu.Unlock()
		span.SetAttributes(attribute.Int("form.invalid_fields", len(errs)))
		return SubmitResult{Status: SubmitInvalid, Errors: errs}
	}
	f.status = FormStatusSubmitting
	f.mu.Unlock()

	payload := integration.SupplierProductPayload{
		ProductID:           parseID(values.Text(FieldProduct)),
		VariationID:         parseID(values.Text(FieldProductVariation)),
		SupplierID:          parseID(values.Text(FieldSupplierID)),
		SupplierPrice:       values.Number(FieldSupplierPrice),
		SupplierProductCode: values.Text(FieldSupplierProductCode),
		InStock:             stockFlag(values.Text(FieldInStock)),
		SupplierProductLink: values.OptionalText(FieldSupplierProductLink),
		ExternalCatalogID:   values.Integer(FieldBlingProductID),
	}

	record, err := f.store.SaveSupplierProduct(ctx, payload, f.recordID)
	if err == nil && record == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		f.mu.Lock()
		f.status = FormStatusReady
		f.mu.Unlock()

		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		f.logger.Error("failed to save supplier product", zap.Error(err))
		f.notifier.Notify(NotifyError, "Could not save the supplier product")
		return SubmitResult{Status: SubmitFailed, Err: err}
	}

	f.mu.Lock()
	f.status = FormStatusClosed
	f.mu.Unlock()

	f.logger.Info("supplier product saved", zap.Int64("record_id", record.ID))
	if f.Mode() == FormModeEdit {
		f.notifier.Notify(NotifySuccess, "Supplier product updated")
	} else {
		f.notifier.Notify(NotifySuccess, "Supplier product created")
	}
	if f.hooks.OnSaved != nil {
		f.hooks.OnSaved(record.ID)
	}
	f.reset()
	return SubmitResult{Status: SubmitSaved, RecordID: record.ID}
}

// Cancel discards the draft and ends the session
func (f *SupplierIntegrationForm) Cancel() {
	f.mu.Lock()
	if f.status == FormStatusClosed {
		f.mu.Unlock()
		return
	}
	f.status = FormStatusClosed
	f.mu.Unlock()

	f.reset()
	if f.hooks.OnCancel != nil {
		f.hooks.OnCancel()
	}
}

func (f *SupplierIntegrationForm) loadSuppliers(ctx context.Context) error {
	ctx, span := f.tracer.Start(ctx, "supplier_integration_form.load_suppliers")
	defer span.End()

	f.mu.Lock()
	epoch := f.epoch
	f.mu.Unlock()

	suppliers, err := f.directory.ListSuppliers(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if epoch != f.epoch {
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "supplier load failed")
		f.logger.Warn("failed to load suppliers", zap.Error(err))
		f.notifier.Notify(NotifyError, "Could not load suppliers")
		return shared.WrapDomainError("UPSTREAM_ERROR", "Could not load suppliers", err)
	}

	choices := make([]Choice, 0, len(suppliers))
	for _, s := range suppliers {
		choices = append(choices, Choice{ID: formatID(s.ID), Label: s.TradeName})
	}
	f.suppliers = choices
	return nil
}

func (f *SupplierIntegrationForm) setField(field, raw string, apply func(d *SupplierIntegrationDraft)) (*FieldError, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == FormStatusClosed {
		return nil, ErrFormClosed
	}
	apply(&f.draft)
	return f.schema.ValidateField(field, raw), nil
}

func (f *SupplierIntegrationForm) reset() {
	f.mu.Lock()
	f.epoch++
	f.draft = SupplierIntegrationDraft{}
	f.suppliers = nil
	f.mu.Unlock()
	f.selection.Reset()
}

func (f *SupplierIntegrationForm) ensureOpen() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == FormStatusClosed {
		return ErrFormClosed
	}
	return nil
}

func (f *SupplierIntegrationForm) submittableLocked() error {
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

// draftFromRecord maps a stored record to the string fields of the draft
func draftFromRecord(r *integration.SupplierProduct) SupplierIntegrationDraft {
	d := SupplierIntegrationDraft{
		SupplierID:          formatID(r.SupplierID),
		SupplierPrice:       r.SupplierPrice.String(),
		SupplierProductCode: r.SupplierProductCode,
		InStock:             "0",
		BlingProductID:      formatID(r.ExternalCatalogID),
	}
	if r.InStock {
		d.InStock = "1"
	}
	if r.SupplierProductLink != nil {
		d.SupplierProductLink = *r.SupplierProductLink
	}
	return d
}

// supplierIntegrationInput turns the draft into raw schema input. Blank
// selections and texts stay absent so they fail as required.
func supplierIntegrationInput(s SelectionState, d SupplierIntegrationDraft) map[string]any {
	input := map[string]any{
		FieldSupplierPrice:       d.SupplierPrice,
		FieldSupplierProductLink: d.SupplierProductLink,
		FieldBlingProductID:      d.BlingProductID,
	}
	optional := map[string]string{
		FieldProduct:             s.ProductID,
		FieldProductVariation:    s.VariationID,
		FieldSupplierID:          d.SupplierID,
		FieldSupplierProductCode: d.SupplierProductCode,
		FieldInStock:             d.InStock,
	}
	for field, value := range optional {
		if value != "" {
			input[field] = value
		}
	}
	return input
}
