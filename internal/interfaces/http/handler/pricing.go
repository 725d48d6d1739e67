package handler

import (
	"time"

	pricingapp "github.com/erp/backoffice/internal/application/pricing"
	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PlatformResponse represents a sale platform in API responses
type PlatformResponse struct {
	ID   int64  `json:"id" example:"3"`
	Code string `json:"code" example:"MKT"`
	Name string `json:"name" example:"Marketplace"`
}

// CommissionResponse represents the commission ruleset of a platform.
// Percentages are in percent units.
type CommissionResponse struct {
	ID                      int64  `json:"id" example:"30"`
	PlatformID              int64  `json:"platform_id" example:"3"`
	PlatformName            string `json:"platform_name" example:"Marketplace"`
	CommissionPercentage    string `json:"commission_percentage" example:"12"`
	CostPerItemSold         string `json:"cost_per_item_sold" example:"5"`
	DefaultProfitPercentage string `json:"default_profit_percentage" example:"18"`
	AdditionalProfit        string `json:"additional_profit" example:"2"`
	UpdatedAt               string `json:"updated_at" example:"2026-01-24T12:00:00Z"`
}

// PricingRecordResponse represents a saved sale price
type PricingRecordResponse struct {
	ID          int64  `json:"id" example:"7"`
	ProductID   int64  `json:"product_id" example:"12"`
	VariationID int64  `json:"variation_id" example:"40"`
	PlatformID  int64  `json:"platform_id" example:"3"`
	CostPrice   string `json:"cost_price" example:"100.00"`
	SalePrice   string `json:"sale_price" example:"152.86"`
	CreatedAt   string `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt   string `json:"updated_at" example:"2026-01-24T12:00:00Z"`
}

// SavePricingRecordRequest is the body of a pricing record create or update.
// The sale price is derived from the platform commission; when sent it
// must equal the derived value.
type SavePricingRecordRequest struct {
	ProductID   int64           `json:"product_id" binding:"required,min=1"`
	VariationID int64           `json:"variation_id" binding:"required,min=1"`
	PlatformID  int64           `json:"platform_id" binding:"required,min=1"`
	CostPrice   decimal.Decimal `json:"cost_price" swaggertype:"string" example:"100.00"`
	SalePrice   decimal.Decimal `json:"sale_price,omitempty" swaggertype:"string" example:"152.86"`
}

// QuoteRequest asks for the sale price of a cost on a platform
type QuoteRequest struct {
	PlatformID int64           `json:"platform_id" binding:"required,min=1"`
	CostPrice  decimal.Decimal `json:"cost_price" swaggertype:"string" example:"100.00"`
}

// QuoteResponse is the computed sale price
type QuoteResponse struct {
	PlatformID int64  `json:"platform_id"`
	CostPrice  string `json:"cost_price"`
	SalePrice  string `json:"sale_price"`
}

func toPlatformResponse(p *pricing.SalePlatform) PlatformResponse {
	return PlatformResponse{ID: p.ID, Code: p.Code, Name: p.Name}
}

func toCommissionResponse(r *pricing.CommissionRuleset) CommissionResponse {
	return CommissionResponse{
		ID:                      r.ID,
		PlatformID:              r.PlatformID,
		PlatformName:            r.PlatformName(),
		CommissionPercentage:    r.CommissionPercentage.String(),
		CostPerItemSold:         r.CostPerItemSold.String(),
		DefaultProfitPercentage: r.DefaultProfitPercentage.String(),
		AdditionalProfit:        r.AdditionalProfit.String(),
		UpdatedAt:               r.UpdatedAt.Format(time.RFC3339),
	}
}

func toPricingRecordResponse(r *pricing.PricingRecord) PricingRecordResponse {
	return PricingRecordResponse{
		ID:          r.ID,
		ProductID:   r.ProductID,
		VariationID: r.VariationID,
		PlatformID:  r.PlatformID,
		CostPrice:   r.CostPrice.StringFixed(pricing.SalePriceScale),
		SalePrice:   r.SalePrice.StringFixed(pricing.SalePriceScale),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

// PricingHandler handles sale platforms, commission rulesets and pricing
// records
type PricingHandler struct {
	BaseHandler
	commissionService *pricingapp.CommissionService
	recordService     *pricingapp.RecordService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(commissionService *pricingapp.CommissionService, recordService *pricingapp.RecordService) *PricingHandler {
	return &PricingHandler{
		commissionService: commissionService,
		recordService:     recordService,
	}
}

// ListPlatforms godoc
// @Summary      List sale platforms
// @Tags         pricing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]PlatformResponse}
// @Router       /pricing/platforms [get]
func (h *PricingHandler) ListPlatforms(c *gin.Context) {
	platforms, err := h.commissionService.ListPlatforms(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]PlatformResponse, len(platforms))
	for i := range platforms {
		resp[i] = toPlatformResponse(&platforms[i])
	}
	h.Success(c, resp)
}

// CreatePlatform registers a sale platform
func (h *PricingHandler) CreatePlatform(c *gin.Context) {
	var req pricingapp.CreatePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	platform, err := h.commissionService.CreatePlatform(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPlatformResponse(platform))
}

// ListCommissions godoc
// @Summary      List the commission rulesets of every platform
// @Tags         pricing
// @Produce      json
// @Success      200 {object} dto.Response{data=[]CommissionResponse}
// @Router       /pricing/commissions [get]
func (h *PricingHandler) ListCommissions(c *gin.Context) {
	rulesets, err := h.commissionService.ListSalePlatformCommissions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]CommissionResponse, len(rulesets))
	for i := range rulesets {
		resp[i] = toCommissionResponse(&rulesets[i])
	}
	h.Success(c, resp)
}

// GetCommission godoc
// @Summary      Get the commission ruleset of a platform
// @Tags         pricing
// @Produce      json
// @Param        id path int true "Platform ID"
// @Success      200 {object} dto.Response{data=CommissionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/platforms/{id}/commission [get]
func (h *PricingHandler) GetCommission(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid platform ID")
		return
	}

	ruleset, err := h.commissionService.GetCommissionByPlatformID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(ruleset))
}

// SetCommission godoc
// @Summary      Create or replace the commission ruleset of a platform
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id path int true "Platform ID"
// @Param        request body pricingapp.SetCommissionRequest true "Ruleset"
// @Success      200 {object} dto.Response{data=CommissionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/platforms/{id}/commission [put]
func (h *PricingHandler) SetCommission(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid platform ID")
		return
	}

	var req pricingapp.SetCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ruleset, err := h.commissionService.SetCommission(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(ruleset))
}

// Quote computes a sale price without saving anything
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	price, err := h.commissionService.QuoteSalePrice(c.Request.Context(), req.PlatformID, req.CostPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, QuoteResponse{
		PlatformID: req.PlatformID,
		CostPrice:  req.CostPrice.StringFixed(pricing.SalePriceScale),
		SalePrice:  price.StringFixed(pricing.SalePriceScale),
	})
}

// ListRecords returns the saved pricing records, newest first
func (h *PricingHandler) ListRecords(c *gin.Context) {
	records, err := h.recordService.ListPricingRecords(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]PricingRecordResponse, len(records))
	for i := range records {
		resp[i] = toPricingRecordResponse(&records[i])
	}
	h.Success(c, resp)
}

// GetRecord returns one pricing record
func (h *PricingHandler) GetRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.recordService.GetPricingRecord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPricingRecordResponse(record))
}

// CreateRecord godoc
// @Summary      Save a new pricing record
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Rejects a repeated submission"
// @Param        request body SavePricingRecordRequest true "Record"
// @Success      201 {object} dto.Response{data=PricingRecordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/records [post]
func (h *PricingHandler) CreateRecord(c *gin.Context) {
	h.saveRecord(c, nil)
}

// UpdateRecord replaces the values of an existing pricing record
func (h *PricingHandler) UpdateRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid record ID")
		return
	}
	h.saveRecord(c, &id)
}

func (h *PricingHandler) saveRecord(c *gin.Context, id *int64) {
	var req SavePricingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	record, err := h.recordService.SavePricingRecord(c.Request.Context(), pricing.RecordPayload{
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		PlatformID:  req.PlatformID,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
	}, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if id == nil {
		h.Created(c, toPricingRecordResponse(record))
		return
	}
	h.Success(c, toPricingRecordResponse(record))
}
