package handler

import (
	"errors"
	"io"

	"github.com/erp/backoffice/internal/application/backoffice"
	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PricingFormSessions holds the open pricing form sessions
type PricingFormSessions = backoffice.SessionRegistry[*backoffice.PricingForm]

// SupplierIntegrationFormSessions holds the open supplier integration sessions
type SupplierIntegrationFormSessions = backoffice.SessionRegistry[*backoffice.SupplierIntegrationForm]

// OpenFormRequest opens a form session. Without a record id the form
// creates a new record.
type OpenFormRequest struct {
	RecordID *int64 `json:"record_id" binding:"omitempty,min=1" example:"7"`
}

// FormSessionResponse holds the fields shared by every form session view
type FormSessionResponse struct {
	SessionID        string                    `json:"session_id" example:"6f1c2d4e-8a0b-4c5d-9e7f-112233445566"`
	Mode             string                    `json:"mode" example:"create"`
	Status           string                    `json:"status" example:"ready"`
	RecordID         *int64                    `json:"record_id,omitempty"`
	Products         []backoffice.Choice       `json:"products"`
	ProductID        string                    `json:"product_id"`
	Variations       []backoffice.Choice       `json:"variations"`
	VariationsLoaded bool                      `json:"variations_loaded"`
	NoVariations     bool                      `json:"no_variations"`
	VariationID      string                    `json:"variation_id"`
	FieldErrors      backoffice.FieldErrors    `json:"field_errors,omitempty"`
	Notifications    []backoffice.Notification `json:"notifications"`
	Result           *backoffice.SubmitResult  `json:"result,omitempty"`
}

// PricingFormResponse is the view of a pricing form session
type PricingFormResponse struct {
	FormSessionResponse
	Platforms    []backoffice.Choice `json:"platforms"`
	PlatformID   string              `json:"platform_id"`
	Commission   *CommissionResponse `json:"commission,omitempty"`
	CostPrice    string              `json:"cost_price" example:"100"`
	SalePrice    *string             `json:"sale_price" example:"152.86"`
	PricingError string              `json:"pricing_error,omitempty"`
}

// SupplierIntegrationDraftResponse holds the raw supplier fields of a session
type SupplierIntegrationDraftResponse struct {
	SupplierID          string `json:"supplier_id"`
	SupplierPrice       string `json:"supplier_price"`
	SupplierProductCode string `json:"supplier_product_code"`
	InStock             string `json:"in_stock_in_the_supplier" example:"1"`
	SupplierProductLink string `json:"supplier_product_link"`
	BlingProductID      string `json:"bling_product_id"`
}

// SupplierIntegrationFormResponse is the view of a supplier integration session
type SupplierIntegrationFormResponse struct {
	FormSessionResponse
	Suppliers []backoffice.Choice              `json:"suppliers"`
	Draft     SupplierIntegrationDraftResponse `json:"draft"`
}

// ChoiceRequest selects one option of a list. An empty id clears the choice.
type ChoiceRequest struct {
	ID string `json:"id" example:"12"`
}

// CostPriceRequest carries the raw cost price typed by the operator
type CostPriceRequest struct {
	CostPrice string `json:"cost_price" example:"100.00"`
}

// SupplierFieldsRequest updates the supplier fields of a session. Absent
// fields are left untouched.
type SupplierFieldsRequest struct {
	SupplierID          *string `json:"supplier_id"`
	SupplierPrice       *string `json:"supplier_price"`
	SupplierProductCode *string `json:"supplier_product_code"`
	InStock             *string `json:"in_stock_in_the_supplier"`
	SupplierProductLink *string `json:"supplier_product_link"`
	BlingProductID      *string `json:"bling_product_id"`
}

func sessionView(sid string, mode backoffice.FormMode, status backoffice.FormStatus, recordID *int64, s backoffice.SelectionState, notes []backoffice.Notification) FormSessionResponse {
	return FormSessionResponse{
		SessionID:        sid,
		Mode:             string(mode),
		Status:           string(status),
		RecordID:         recordID,
		Products:         choices(s.Products),
		ProductID:        s.ProductID,
		Variations:       choices(s.Variations),
		VariationsLoaded: s.VariationsLoaded,
		NoVariations:     s.NoVariations(),
		VariationID:      s.VariationID,
		Notifications:    notes,
	}
}

func toPricingFormResponse(s *backoffice.Session[*backoffice.PricingForm]) PricingFormResponse {
	v := s.Form.View()
	resp := PricingFormResponse{
		FormSessionResponse: sessionView(s.ID, v.Mode, v.Status, v.RecordID, v.Selection, s.Notifications.Drain()),
		Platforms:           choices(v.Selection.Platforms),
		PlatformID:          v.Selection.PlatformID,
		CostPrice:           v.Selection.CostPrice,
	}
	if v.Selection.Commission != nil {
		commission := toCommissionResponse(v.Selection.Commission)
		resp.Commission = &commission
	}
	if v.Selection.SalePrice != nil {
		price := v.Selection.SalePrice.StringFixed(pricing.SalePriceScale)
		resp.SalePrice = &price
	}
	if v.Selection.PricingError != nil {
		resp.PricingError = v.Selection.PricingError.Error()
	}
	return resp
}

func toSupplierIntegrationFormResponse(s *backoffice.Session[*backoffice.SupplierIntegrationForm]) SupplierIntegrationFormResponse {
	v := s.Form.View()
	return SupplierIntegrationFormResponse{
		FormSessionResponse: sessionView(s.ID, v.Mode, v.Status, v.RecordID, v.Selection, s.Notifications.Drain()),
		Suppliers:           choices(v.Suppliers),
		Draft: SupplierIntegrationDraftResponse{
			SupplierID:          v.Draft.SupplierID,
			SupplierPrice:       v.Draft.SupplierPrice,
			SupplierProductCode: v.Draft.SupplierProductCode,
			InStock:             v.Draft.InStock,
			SupplierProductLink: v.Draft.SupplierProductLink,
			BlingProductID:      v.Draft.BlingProductID,
		},
	}
}

func choices(in []backoffice.Choice) []backoffice.Choice {
	if in == nil {
		return []backoffice.Choice{}
	}
	return in
}

// bindOptionalJSON binds a body that may be omitted entirely
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// acquireSession resolves the :sid session and locks it. The caller must
// unlock the returned session. On failure the response is already written.
func acquireSession[T backoffice.Cancelable](h *BaseHandler, c *gin.Context, registry *backoffice.SessionRegistry[T]) (*backoffice.Session[T], bool) {
	var uri dto.SessionRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid session ID")
		return nil, false
	}
	s, err := registry.Get(uri.SessionID)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), s.ID))
	s.Lock()
	return s, true
}

// PricingFormHandler drives pricing form sessions over HTTP
type PricingFormHandler struct {
	BaseHandler
	sessions      *PricingFormSessions
	collaborators backoffice.Collaborators
	logger        *zap.Logger
}

// NewPricingFormHandler creates a new PricingFormHandler
func NewPricingFormHandler(sessions *PricingFormSessions, collaborators backoffice.Collaborators, logger *zap.Logger) *PricingFormHandler {
	return &PricingFormHandler{
		sessions:      sessions,
		collaborators: collaborators,
		logger:        logger,
	}
}

// Open godoc
// @Summary      Open a pricing form session
// @Description  Loads the product and platform lists and, with a record id, the record to edit
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request body OpenFormRequest false "Record to edit"
// @Success      201 {object} dto.Response{data=PricingFormResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /forms/pricing [post]
func (h *PricingFormHandler) Open(c *gin.Context) {
	var req OpenFormRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.BindError(c, err)
		return
	}

	sid := backoffice.NewSessionID()
	ctx := logger.WithSessionID(c.Request.Context(), sid)
	notes := backoffice.NewNotificationLog()
	form := backoffice.NewPricingForm(h.collaborators, notes, h.logger.With(zap.String("session_id", sid)), req.RecordID, backoffice.FormHooks{
		OnSaved:  func(int64) { h.sessions.Remove(sid) },
		OnCancel: func() { h.sessions.Remove(sid) },
	})

	s := h.sessions.Register(sid, form, notes)
	s.Lock()
	defer s.Unlock()

	err := form.Open(ctx)
	if form.View().Status == backoffice.FormStatusLoading {
		h.sessions.Remove(sid)
		h.HandleError(c, err)
		return
	}
	if err != nil {
		logger.L(ctx).Warn("pricing form opened with incomplete lists", zap.Error(err))
	}
	h.Created(c, toPricingFormResponse(s))
}

// Get returns the current view of a session and its pending notifications
func (h *PricingFormHandler) Get(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()
	h.Success(c, toPricingFormResponse(s))
}

// SelectProduct godoc
// @Summary      Select the product of a pricing session
// @Description  Clears the variation and loads the variations of the product
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        sid path string true "Session ID"
// @Param        request body ChoiceRequest true "Product"
// @Success      200 {object} dto.Response{data=PricingFormResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /forms/pricing/{sid}/product [put]
func (h *PricingFormHandler) SelectProduct(c *gin.Context) {
	h.choose(c, func(s *backoffice.Session[*backoffice.PricingForm], id string) error {
		return s.Form.SelectProduct(c.Request.Context(), id)
	})
}

// SelectVariation selects the variation of a pricing session
func (h *PricingFormHandler) SelectVariation(c *gin.Context) {
	h.choose(c, func(s *backoffice.Session[*backoffice.PricingForm], id string) error {
		return s.Form.SelectVariation(id)
	})
}

// SelectPlatform selects the sale platform and loads its commission
func (h *PricingFormHandler) SelectPlatform(c *gin.Context) {
	h.choose(c, func(s *backoffice.Session[*backoffice.PricingForm], id string) error {
		return s.Form.SelectPlatform(c.Request.Context(), id)
	})
}

func (h *PricingFormHandler) choose(c *gin.Context, apply func(s *backoffice.Session[*backoffice.PricingForm], id string) error) {
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	if err := apply(s, req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPricingFormResponse(s))
}

// SetCostPrice updates the cost price and recomputes the sale price. A
// field error is reported in the view, not as a failed request.
func (h *PricingFormHandler) SetCostPrice(c *gin.Context) {
	var req CostPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	fieldErr, err := s.Form.SetCostPrice(req.CostPrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp := toPricingFormResponse(s)
	if fieldErr != nil {
		resp.FieldErrors = backoffice.FieldErrors{*fieldErr}
	}
	h.Success(c, resp)
}

// Submit godoc
// @Summary      Submit a pricing session
// @Description  Validates and saves the pricing record. A saved session is closed.
// @Tags         forms
// @Produce      json
// @Param        sid path string true "Session ID"
// @Param        Idempotency-Key header string false "Rejects a repeated submission"
// @Success      200 {object} dto.Response{data=PricingFormResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /forms/pricing/{sid}/submit [post]
func (h *PricingFormHandler) Submit(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	result := s.Form.Submit(c.Request.Context())
	switch result.Status {
	case backoffice.SubmitSaved:
		resp := toPricingFormResponse(s)
		resp.Result = &result
		h.Success(c, resp)
	case backoffice.SubmitInvalid:
		// a broken commission leaves salePrice invalid; report the cause
		var domainErr *shared.DomainError
		if errors.As(result.Err, &domainErr) {
			h.DomainErrorWithDetails(c, domainErr, fieldDetails(result.Errors))
			return
		}
		h.HandleError(c, result.Errors)
	default:
		h.HandleError(c, result.Err)
	}
}

// Cancel discards the draft and closes the session
func (h *PricingFormHandler) Cancel(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	s.Form.Cancel()
	h.Success(c, toPricingFormResponse(s))
}

// SupplierIntegrationFormHandler drives supplier integration sessions over HTTP
type SupplierIntegrationFormHandler struct {
	BaseHandler
	sessions      *SupplierIntegrationFormSessions
	collaborators backoffice.Collaborators
	logger        *zap.Logger
}

// NewSupplierIntegrationFormHandler creates a new SupplierIntegrationFormHandler
func NewSupplierIntegrationFormHandler(sessions *SupplierIntegrationFormSessions, collaborators backoffice.Collaborators, logger *zap.Logger) *SupplierIntegrationFormHandler {
	return &SupplierIntegrationFormHandler{
		sessions:      sessions,
		collaborators: collaborators,
		logger:        logger,
	}
}

// Open opens a supplier integration session
func (h *SupplierIntegrationFormHandler) Open(c *gin.Context) {
	var req OpenFormRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.BindError(c, err)
		return
	}

	sid := backoffice.NewSessionID()
	ctx := logger.WithSessionID(c.Request.Context(), sid)
	notes := backoffice.NewNotificationLog()
	form := backoffice.NewSupplierIntegrationForm(h.collaborators, notes, h.logger.With(zap.String("session_id", sid)), req.RecordID, backoffice.FormHooks{
		OnSaved:  func(int64) { h.sessions.Remove(sid) },
		OnCancel: func() { h.sessions.Remove(sid) },
	})

	s := h.sessions.Register(sid, form, notes)
	s.Lock()
	defer s.Unlock()

	err := form.Open(ctx)
	if form.View().Status == backoffice.FormStatusLoading {
		h.sessions.Remove(sid)
		h.HandleError(c, err)
		return
	}
	if err != nil {
		logger.L(ctx).Warn("supplier integration form opened with incomplete lists", zap.Error(err))
	}
	h.Created(c, toSupplierIntegrationFormResponse(s))
}

// Get returns the current view of a session and its pending notifications
func (h *SupplierIntegrationFormHandler) Get(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()
	h.Success(c, toSupplierIntegrationFormResponse(s))
}

// SelectProduct selects the product and loads its variations
func (h *SupplierIntegrationFormHandler) SelectProduct(c *gin.Context) {
	h.choose(c, func(s *backoffice.Session[*backoffice.SupplierIntegrationForm], id string) error {
		return s.Form.SelectProduct(c.Request.Context(), id)
	})
}

// SelectVariation selects the variation of the session
func (h *SupplierIntegrationFormHandler) SelectVariation(c *gin.Context) {
	h.choose(c, func(s *backoffice.Session[*backoffice.SupplierIntegrationForm], id string) error {
		return s.Form.SelectVariation(id)
	})
}

func (h *SupplierIntegrationFormHandler) choose(c *gin.Context, apply func(s *backoffice.Session[*backoffice.SupplierIntegrationForm], id string) error) {
	var req ChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	if err := apply(s, req.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierIntegrationFormResponse(s))
}

// SetFields godoc
// @Summary      Update the supplier fields of a session
// @Description  Each present field is stored and validated on its own. Field errors are returned in the view.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        sid path string true "Session ID"
// @Param        request body SupplierFieldsRequest true "Fields"
// @Success      200 {object} dto.Response{data=SupplierIntegrationFormResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /forms/supplier-integration/{sid}/fields [put]
func (h *SupplierIntegrationFormHandler) SetFields(c *gin.Context) {
	var req SupplierFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	if req.SupplierID != nil {
		if err := s.Form.SelectSupplier(*req.SupplierID); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	setters := []struct {
		raw *string
		set func(string) (*backoffice.FieldError, error)
	}{
		{req.SupplierPrice, s.Form.SetSupplierPrice},
		{req.SupplierProductCode, s.Form.SetSupplierProductCode},
		{req.InStock, s.Form.SetInStock},
		{req.SupplierProductLink, s.Form.SetSupplierProductLink},
		{req.BlingProductID, s.Form.SetBlingProductID},
	}
	var fieldErrs backoffice.FieldErrors
	for _, f := range setters {
		if f.raw == nil {
			continue
		}
		fieldErr, err := f.set(*f.raw)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if fieldErr != nil {
			fieldErrs = append(fieldErrs, *fieldErr)
		}
	}

	resp := toSupplierIntegrationFormResponse(s)
	resp.FieldErrors = fieldErrs
	h.Success(c, resp)
}

// Submit validates and saves the supplier product. A saved session is closed.
func (h *SupplierIntegrationFormHandler) Submit(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	result := s.Form.Submit(c.Request.Context())
	switch result.Status {
	case backoffice.SubmitSaved:
		resp := toSupplierIntegrationFormResponse(s)
		resp.Result = &result
		h.Success(c, resp)
	case backoffice.SubmitInvalid:
		h.HandleError(c, result.Errors)
	default:
		h.HandleError(c, result.Err)
	}
}

// Cancel discards the draft and closes the session
func (h *SupplierIntegrationFormHandler) Cancel(c *gin.Context) {
	s, ok := acquireSession(&h.BaseHandler, c, h.sessions)
	if !ok {
		return
	}
	defer s.Unlock()

	s.Form.Cancel()
	h.Success(c, toSupplierIntegrationFormResponse(s))
}
