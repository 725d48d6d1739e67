package handler

import (
	"time"

	catalogapp "github.com/erp/backoffice/internal/application/catalog"
	"github.com/erp/backoffice/internal/domain/catalog"
	"github.com/gin-gonic/gin"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        int64  `json:"id" example:"12"`
	Code      string `json:"code" example:"TSHIRT-BASIC"`
	Name      string `json:"name" example:"Basic T-shirt"`
	Status    string `json:"status" example:"active" enums:"active,inactive"`
	CreatedAt string `json:"created_at" example:"2026-01-24T12:00:00Z"`
	UpdatedAt string `json:"updated_at" example:"2026-01-24T12:00:00Z"`
}

// VariationResponse represents a product variation in API responses
type VariationResponse struct {
	ID        int64  `json:"id" example:"40"`
	ProductID int64  `json:"product_id" example:"12"`
	Name      string `json:"name" example:"Blue / M"`
	SKU       string `json:"sku,omitempty" example:"TSHIRT-BASIC-BL-M"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func toVariationResponse(v *catalog.ProductVariation) VariationResponse {
	return VariationResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		Name:      v.Name,
		SKU:       v.SKU,
	}
}

// ProductHandler handles product and variation endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List godoc
// @Summary      List products
// @Description  Active products ordered by name
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=[]ProductResponse}
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = toProductResponse(&products[i])
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Create a product
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductResponse(product))
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// ListVariations godoc
// @Summary      List the variations of a product
// @Tags         catalog
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} dto.Response{data=[]VariationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/products/{id}/variations [get]
func (h *ProductHandler) ListVariations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	variations, err := h.productService.ListProductVariations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]VariationResponse, len(variations))
	for i := range variations {
		resp[i] = toVariationResponse(&variations[i])
	}
	h.Success(c, resp)
}

// CreateVariation adds a variation to a product
func (h *ProductHandler) CreateVariation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.CreateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	variation, err := h.productService.CreateVariation(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toVariationResponse(variation))
}
