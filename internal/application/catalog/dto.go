package catalog

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// CreateVariationRequest represents a request to add a variation to a product
type CreateVariationRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	SKU  string `json:"sku" binding:"max=50"`
}
