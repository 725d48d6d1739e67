package handler

import (
	"time"

	partnerapp "github.com/erp/backoffice/internal/application/partner"
	"github.com/erp/backoffice/internal/domain/partner"
	"github.com/gin-gonic/gin"
)

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        int64  `json:"id" example:"3"`
	TradeName string `json:"trade_name" example:"Malharia Sul"`
	LegalName string `json:"legal_name,omitempty" example:"Malharia Sul Ltda"`
	TaxID     string `json:"tax_id,omitempty" example:"12.345.678/0001-90"`
	Status    string `json:"status" example:"active" enums:"active,inactive,blocked"`
	CreatedAt string `json:"created_at" example:"2026-01-24T12:00:00Z"`
}

func toSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		TradeName: s.TradeName,
		LegalName: s.LegalName,
		TaxID:     s.TaxID,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
	}
}

// List godoc
// @Summary      List active suppliers
// @Tags         partner
// @Produce      json
// @Success      200 {object} dto.Response{data=[]SupplierResponse}
// @Router       /partner/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		resp[i] = toSupplierResponse(&suppliers[i])
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Create a supplier
// @Tags         partner
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateSupplierRequest true "Supplier"
// @Success      201 {object} dto.Response{data=SupplierResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /partner/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSupplierResponse(supplier))
}

// Block stops a supplier from being linked to new products
func (h *SupplierHandler) Block(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.Block(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}

// GetByID returns one supplier, whatever its status
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierResponse(supplier))
}
