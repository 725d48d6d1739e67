package backoffice

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/erp/backoffice/internal/application/backoffice"

// SelectionState is a snapshot of the dependent selections of a form
type SelectionState struct {
	Products         []Choice
	ProductID        string
	Variations       []Choice
	VariationsLoaded bool
	VariationID      string

	// Pricing cascade, only used when the selection has a CommissionLookup
	Platforms    []Choice
	PlatformID   string
	Commission   *pricing.CommissionRuleset
	CostPrice    string
	SalePrice    *decimal.Decimal // nil while not computable
	PricingError error
}

// NoVariations reports that the selected product has loaded an empty
// variation list
func (s SelectionState) NoVariations() bool {
	return s.ProductID != "" && s.VariationsLoaded && len(s.Variations) == 0
}

// RestoreInput carries the selections of a stored record
type RestoreInput struct {
	ProductID   string
	VariationID string
	PlatformID  string
	CostPrice   string
	SalePrice   *decimal.Decimal
}

// Selection coordinates the product -> variation cascade and, for pricing,
// the platform -> commission -> sale price cascade.
//
// Every cascade fetch is tagged with a generation number taken when the
// selection changed. A response is applied only if its generation is still
// current, so a slow response for an abandoned selection never overwrites
// the list of the current one.
type Selection struct {
	mu          sync.Mutex
	catalog     ProductCatalog
	commissions CommissionLookup
	notifier    Notifier
	logger      *zap.Logger
	tracer      trace.Tracer

	state           SelectionState
	epoch           uint64
	productGen      uint64
	platformGen     uint64
	keepStoredPrice bool
}

// NewSelection creates a selection. A nil CommissionLookup disables the
// pricing cascade.
func NewSelection(catalog ProductCatalog, commissions CommissionLookup, notifier Notifier, logger *zap.Logger) *Selection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selection{
		catalog:     catalog,
		commissions: commissions,
		notifier:    notifier,
		logger:      logger.Named("selection"),
		tracer:      otel.Tracer(tracerName),
	}
}

// State returns a copy of the current state
func (s *Selection) State() SelectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Products = append([]Choice(nil), s.state.Products...)
	st.Variations = append([]Choice(nil), s.state.Variations...)
	st.Platforms = append([]Choice(nil), s.state.Platforms...)
	return st
}

// LoadProducts fetches the product choices
func (s *Selection) LoadProducts(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "selection.load_products")
	defer span.End()

	epoch := s.currentEpoch()
	products, err := s.catalog.ListProducts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return nil
	}
	if err != nil {
		return s.fetchFailedLocked(span, "Could not load products", err)
	}

	choices := make([]Choice, 0, len(products))
	for _, p := range products {
		choices = append(choices, Choice{ID: formatID(p.ID), Label: p.Name})
	}
	s.state.Products = choices
	span.SetAttributes(attribute.Int("selection.products", len(choices)))
	return nil
}

// LoadPlatforms fetches the platforms that have a commission ruleset
func (s *Selection) LoadPlatforms(ctx context.Context) error {
	if s.commissions == nil {
		return nil
	}
	ctx, span := s.tracer.Start(ctx, "selection.load_platforms")
	defer span.End()

	epoch := s.currentEpoch()
	rulesets, err := s.commissions.ListSalePlatformCommissions(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return nil
	}
	if err != nil {
		return s.fetchFailedLocked(span, "Could not load sale platforms", err)
	}

	choices := make([]Choice, 0, len(rulesets))
	for _, r := range rulesets {
		label := r.PlatformName()
		if label == "" {
			label = "Platform " + formatID(r.PlatformID)
		}
		choices = append(choices, Choice{ID: formatID(r.PlatformID), Label: label})
	}
	s.state.Platforms = choices
	return nil
}

// SelectProduct changes the product. The variation is cleared and the
// variation list of the new product is fetched. An empty id clears the
// product.
func (s *Selection) SelectProduct(ctx context.Context, productID string) error {
	s.mu.Lock()
	if productID != "" && !containsChoice(s.state.Products, productID) {
		s.mu.Unlock()
		return ErrUnknownChoice
	}
	if productID == s.state.ProductID && (productID == "" || s.state.VariationsLoaded) {
		s.mu.Unlock()
		return nil
	}

	s.keepStoredPrice = false
	s.productGen++
	gen := s.productGen
	s.state.ProductID = productID
	s.state.VariationID = ""
	s.state.Variations = nil
	s.state.VariationsLoaded = false
	s.recomputeLocked()
	s.mu.Unlock()

	if productID == "" {
		return nil
	}
	return s.loadVariations(ctx, productID, gen, "")
}

// SelectVariation picks a variation of the selected product
func (s *Selection) SelectVariation(variationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if variationID != "" {
		if s.state.ProductID == "" {
			return ErrNoProduct
		}
		if !containsChoice(s.state.Variations, variationID) {
			return ErrUnknownChoice
		}
	}
	s.keepStoredPrice = false
	s.state.VariationID = variationID
	s.recomputeLocked()
	return nil
}

// SelectPlatform changes the sale platform and fetches its commission
func (s *Selection) SelectPlatform(ctx context.Context, platformID string) error {
	if s.commissions == nil {
		return shared.NewDomainError("INVALID_STATE", "This form has no sale platform")
	}

	s.mu.Lock()
	if platformID != "" && !containsChoice(s.state.Platforms, platformID) {
		s.mu.Unlock()
		return ErrUnknownChoice
	}
	if platformID == s.state.PlatformID && (platformID == "" || s.state.Commission != nil) {
		s.mu.Unlock()
		return nil
	}

	s.keepStoredPrice = false
	s.platformGen++
	gen := s.platformGen
	s.state.PlatformID = platformID
	s.state.Commission = nil
	s.recomputeLocked()
	s.mu.Unlock()

	if platformID == "" {
		return nil
	}
	return s.loadCommission(ctx, platformID, gen)
}

// SetCostPrice stores the raw cost price and recomputes the sale price
func (s *Selection) SetCostPrice(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keepStoredPrice = false
	s.state.CostPrice = raw
	s.recomputeLocked()
}

// Restore populates the selection from a stored record and fetches the
// dependent lists. The stored sale price is kept until the calculator can
// produce a fresh one.
func (s *Selection) Restore(ctx context.Context, in RestoreInput) error {
	s.mu.Lock()
	s.productGen++
	productGen := s.productGen
	s.state.ProductID = in.ProductID
	s.state.VariationID = ""
	s.state.Variations = nil
	s.state.VariationsLoaded = false

	var platformGen uint64
	if s.commissions != nil {
		s.platformGen++
		platformGen = s.platformGen
		s.state.PlatformID = in.PlatformID
		s.state.Commission = nil
		s.state.CostPrice = in.CostPrice
		s.state.SalePrice = in.SalePrice
		s.state.PricingError = nil
		s.keepStoredPrice = true
	}
	s.mu.Unlock()

	var g errgroup.Group
	if in.ProductID != "" {
		g.Go(func() error {
			return s.loadVariations(ctx, in.ProductID, productGen, in.VariationID)
		})
	}
	if s.commissions != nil && in.PlatformID != "" {
		g.Go(func() error {
			return s.loadCommission(ctx, in.PlatformID, platformGen)
		})
	}
	return g.Wait()
}

// Reset clears every selection and reference list. Responses of fetches
// still in flight are discarded.
func (s *Selection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.productGen++
	s.platformGen++
	s.keepStoredPrice = false
	s.state = SelectionState{}
}

func (s *Selection) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// loadVariations fetches the variations of productID. keepVariation is
// re-selected when it is part of the fetched list.
func (s *Selection) loadVariations(ctx context.Context, productID string, gen uint64, keepVariation string) error {
	ctx, span := s.tracer.Start(ctx, "selection.load_variations",
		trace.WithAttributes(attribute.String("product.id", productID)))
	defer span.End()

	variations, err := s.catalog.ListProductVariations(ctx, parseID(productID))

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.productGen {
		span.SetAttributes(attribute.Bool("selection.stale", true))
		s.logger.Debug("discarding stale variation list", zap.String("product_id", productID))
		return nil
	}
	if err != nil {
		return s.fetchFailedLocked(span, "Could not load product variations", err)
	}

	choices := make([]Choice, 0, len(variations))
	for _, v := range variations {
		choices = append(choices, Choice{ID: formatID(v.ID), Label: v.Name})
	}
	s.state.Variations = choices
	s.state.VariationsLoaded = true
	if len(choices) == 0 {
		s.notifier.Notify(NotifyInfo, "This product has no variations")
	}
	if keepVariation != "" && containsChoice(choices, keepVariation) {
		s.state.VariationID = keepVariation
	}
	s.recomputeLocked()
	return nil
}

func (s *Selection) loadCommission(ctx context.Context, platformID string, gen uint64) error {
	ctx, span := s.tracer.Start(ctx, "selection.load_commission",
		trace.WithAttributes(attribute.String("platform.id", platformID)))
	defer span.End()

	commission, err := s.commissions.GetCommissionByPlatformID(ctx, parseID(platformID))
	if err == nil && commission == nil {
		err = ErrEmptyResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.platformGen {
		span.SetAttributes(attribute.Bool("selection.stale", true))
		s.logger.Debug("discarding stale commission", zap.String("platform_id", platformID))
		return nil
	}
	if err != nil {
		return s.fetchFailedLocked(span, "Could not load the platform commission", err)
	}

	s.state.Commission = commission
	s.recomputeLocked()
	return nil
}

// recomputeLocked derives the sale price from the current inputs.
// The calculator is the only writer of SalePrice besides Restore.
func (s *Selection) recomputeLocked() {
	if s.commissions == nil {
		return
	}

	in := pricing.PricingInputs{
		ProductID:   parseID(s.state.ProductID),
		VariationID: parseID(s.state.VariationID),
		PlatformID:  parseID(s.state.PlatformID),
		Commission:  s.state.Commission,
	}
	if cost, err := decimal.NewFromString(strings.TrimSpace(s.state.CostPrice)); err == nil {
		in.CostPrice = cost
	}

	price, err := pricing.ComputeSalePrice(in)
	switch {
	case err == nil:
		s.state.SalePrice = &price
		s.state.PricingError = nil
	case errors.Is(err, pricing.ErrPriceNotComputable):
		if !s.keepStoredPrice {
			s.state.SalePrice = nil
		}
		s.state.PricingError = nil
	default:
		if s.state.PricingError == nil {
			s.logger.Warn("sale price not computable",
				zap.String("platform_id", s.state.PlatformID),
				zap.Error(err))
			s.notifier.Notify(NotifyError, err.Error())
		}
		s.state.SalePrice = nil
		s.state.PricingError = err
	}
}

func (s *Selection) fetchFailedLocked(span trace.Span, message string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	s.logger.Warn(message, zap.Error(err))
	s.notifier.Notify(NotifyError, message)
	return shared.WrapDomainError("UPSTREAM_ERROR", message, err)
}
