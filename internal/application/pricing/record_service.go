package pricing

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
)

// VariationChecker verifies that a variation belongs to a product
type VariationChecker interface {
	EnsureVariationOf(ctx context.Context, productID, variationID int64) error
}

// ErrNoCommission is returned when a record is saved for a platform that
// has no commission ruleset to derive its sale price from
var ErrNoCommission = shared.NewDomainError("PRICE_NOT_COMPUTABLE", "Sale platform has no commission ruleset")

// RecordService handles pricing record reads and writes. The sale price of
// a saved record always comes from the commission of its platform.
type RecordService struct {
	recordRepo     pricing.PricingRecordRepository
	platformRepo   pricing.SalePlatformRepository
	commissionRepo pricing.CommissionRepository
	variations     VariationChecker
}

// NewRecordService creates a new RecordService
func NewRecordService(
	recordRepo pricing.PricingRecordRepository,
	platformRepo pricing.SalePlatformRepository,
	commissionRepo pricing.CommissionRepository,
	variations VariationChecker,
) *RecordService {
	return &RecordService{
		recordRepo:     recordRepo,
		platformRepo:   platformRepo,
		commissionRepo: commissionRepo,
		variations:     variations,
	}
}

// GetPricingRecord returns a pricing record by ID
func (s *RecordService) GetPricingRecord(ctx context.Context, id int64) (*pricing.PricingRecord, error) {
	return s.recordRepo.FindByID(ctx, id)
}

// ListPricingRecords returns pricing records, newest first
func (s *RecordService) ListPricingRecords(ctx context.Context) ([]pricing.PricingRecord, error) {
	filter := shared.DefaultFilter()
	filter.OrderDir = "desc"
	return s.recordRepo.FindAll(ctx, filter)
}

// SavePricingRecord creates a record when id is nil, otherwise updates the
// record with that id. The sale price is recomputed from the cost and the
// platform commission; a zero payload sale price means "derive it", any
// other value must match the derived one.
func (s *RecordService) SavePricingRecord(ctx context.Context, payload pricing.RecordPayload, id *int64) (*pricing.PricingRecord, error) {
	if err := payload.ValidateInputs(); err != nil {
		return nil, err
	}
	if err := s.variations.EnsureVariationOf(ctx, payload.ProductID, payload.VariationID); err != nil {
		return nil, err
	}
	if _, err := s.platformRepo.FindByID(ctx, payload.PlatformID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_REFERENCE", "Sale platform does not exist")
		}
		return nil, err
	}

	ruleset, err := s.commissionRepo.FindByPlatform(ctx, payload.PlatformID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrNoCommission
		}
		return nil, err
	}
	payload, err = payload.WithDerivedSalePrice(ruleset.Params())
	if err != nil {
		return nil, err
	}

	var excludeID int64
	if id != nil {
		excludeID = *id
	}
	taken, err := s.recordRepo.ExistsForVariationPlatform(ctx, payload.VariationID, payload.PlatformID, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "This variation is already priced on the selected platform")
	}

	var record *pricing.PricingRecord
	if id == nil {
		record, err = pricing.NewPricingRecord(payload)
		if err != nil {
			return nil, err
		}
	} else {
		record, err = s.recordRepo.FindByID(ctx, *id)
		if err != nil {
			return nil, err
		}
		if err := record.Apply(payload); err != nil {
			return nil, err
		}
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
