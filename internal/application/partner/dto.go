package partner

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	TradeName string `json:"trade_name" binding:"required,min=1,max=200"`
	LegalName string `json:"legal_name" binding:"max=200"`
	TaxID     string `json:"tax_id" binding:"max=50"`
}
