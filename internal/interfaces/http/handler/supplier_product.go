package handler

import (
	"time"

	integrationapp "github.com/erp/backoffice/internal/application/integration"
	"github.com/erp/backoffice/internal/domain/integration"
	"github.com/erp/backoffice/internal/domain/pricing"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SupplierProductResponse represents a supplier integration record
type SupplierProductResponse struct {
	ID                  int64   `json:"id" example:"5"`
	ProductID           int64   `json:"product_id" example:"12"`
	VariationID         int64   `json:"variation_id" example:"40"`
	SupplierID          int64   `json:"supplier_id" example:"9"`
	SupplierPrice       string  `json:"supplier_price" example:"45.90"`
	SupplierProductCode string  `json:"supplier_product_code" example:"ABC-123"`
	InStock             bool    `json:"in_stock_in_the_supplier" example:"true"`
	SupplierProductLink *string `json:"supplier_product_link,omitempty"`
	BlingProductID      int64   `json:"bling_product_id" example:"0"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// SaveSupplierProductRequest is the body of a supplier product create or update
type SaveSupplierProductRequest struct {
	ProductID           int64           `json:"product_id" binding:"required,min=1"`
	VariationID         int64           `json:"variation_id" binding:"required,min=1"`
	SupplierID          int64           `json:"supplier_id" binding:"required,min=1"`
	SupplierPrice       decimal.Decimal `json:"supplier_price" swaggertype:"string" example:"45.90"`
	SupplierProductCode string          `json:"supplier_product_code" binding:"required,max=100"`
	InStock             bool            `json:"in_stock_in_the_supplier"`
	SupplierProductLink *string         `json:"supplier_product_link" binding:"omitempty,url"`
	BlingProductID      int64           `json:"bling_product_id" binding:"min=0"`
}

func toSupplierProductResponse(sp *integration.SupplierProduct) SupplierProductResponse {
	return SupplierProductResponse{
		ID:                  sp.ID,
		ProductID:           sp.ProductID,
		VariationID:         sp.VariationID,
		SupplierID:          sp.SupplierID,
		SupplierPrice:       sp.SupplierPrice.StringFixed(pricing.SalePriceScale),
		SupplierProductCode: sp.SupplierProductCode,
		InStock:             sp.InStock,
		SupplierProductLink: sp.SupplierProductLink,
		BlingProductID:      sp.ExternalCatalogID,
		CreatedAt:           sp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           sp.UpdatedAt.Format(time.RFC3339),
	}
}

// SupplierProductHandler handles supplier integration records
type SupplierProductHandler struct {
	BaseHandler
	service *integrationapp.SupplierProductService
}

// NewSupplierProductHandler creates a new SupplierProductHandler
func NewSupplierProductHandler(service *integrationapp.SupplierProductService) *SupplierProductHandler {
	return &SupplierProductHandler{service: service}
}

// List godoc
// @Summary      List supplier products
// @Tags         integration
// @Produce      json
// @Param        supplier_id query int false "Only records of this supplier"
// @Success      200 {object} dto.Response{data=[]SupplierProductResponse}
// @Router       /integration/supplier-products [get]
func (h *SupplierProductHandler) List(c *gin.Context) {
	supplierID, ok := queryID(c, "supplier_id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	records, err := h.service.ListSupplierProducts(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]SupplierProductResponse, len(records))
	for i := range records {
		resp[i] = toSupplierProductResponse(&records[i])
	}
	h.Success(c, resp)
}

// GetByID returns one supplier product
func (h *SupplierProductHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier product ID")
		return
	}

	record, err := h.service.GetSupplierProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSupplierProductResponse(record))
}

// Create godoc
// @Summary      Save a new supplier product
// @Tags         integration
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Rejects a repeated submission"
// @Param        request body SaveSupplierProductRequest true "Record"
// @Success      201 {object} dto.Response{data=SupplierProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integration/supplier-products [post]
func (h *SupplierProductHandler) Create(c *gin.Context) {
	h.save(c, nil)
}

// Update replaces an existing supplier product
func (h *SupplierProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier product ID")
		return
	}
	h.save(c, &id)
}

func (h *SupplierProductHandler) save(c *gin.Context, id *int64) {
	var req SaveSupplierProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	record, err := h.service.SaveSupplierProduct(c.Request.Context(), integration.SupplierProductPayload{
		ProductID:           req.ProductID,
		VariationID:         req.VariationID,
		SupplierID:          req.SupplierID,
		SupplierPrice:       req.SupplierPrice,
		SupplierProductCode: req.SupplierProductCode,
		InStock:             req.InStock,
		SupplierProductLink: req.SupplierProductLink,
		ExternalCatalogID:   req.BlingProductID,
	}, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if id == nil {
		h.Created(c, toSupplierProductResponse(record))
		return
	}
	h.Success(c, toSupplierProductResponse(record))
}
