package router

import (
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers served under the versioned API
type Handlers struct {
	Products         *handler.ProductHandler
	Suppliers        *handler.SupplierHandler
	Pricing          *handler.PricingHandler
	SupplierProducts *handler.SupplierProductHandler
	PricingForms     *handler.PricingFormHandler
	SupplierForms    *handler.SupplierIntegrationFormHandler
}

// DomainGroups builds the route groups of the back office. save runs in
// front of every request that persists data; pass nil to skip it.
func DomainGroups(h Handlers, save gin.HandlerFunc) []*DomainGroup {
	saving := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if save == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{save, fn}
	}

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", h.Products.List).
		POST("/products", saving(h.Products.Create)...).
		GET("/products/:id", h.Products.GetByID).
		GET("/products/:id/variations", h.Products.ListVariations).
		POST("/products/:id/variations", saving(h.Products.CreateVariation)...)

	partner := NewDomainGroup("partner", "/partner")
	partner.GET("/suppliers", h.Suppliers.List).
		POST("/suppliers", saving(h.Suppliers.Create)...).
		GET("/suppliers/:id", h.Suppliers.GetByID).
		POST("/suppliers/:id/block", h.Suppliers.Block)

	pricing := NewDomainGroup("pricing", "/pricing")
	pricing.GET("/platforms", h.Pricing.ListPlatforms).
		POST("/platforms", saving(h.Pricing.CreatePlatform)...).
		GET("/platforms/:id/commission", h.Pricing.GetCommission).
		PUT("/platforms/:id/commission", saving(h.Pricing.SetCommission)...).
		GET("/commissions", h.Pricing.ListCommissions).
		POST("/quote", h.Pricing.Quote).
		GET("/records", h.Pricing.ListRecords).
		POST("/records", saving(h.Pricing.CreateRecord)...).
		GET("/records/:id", h.Pricing.GetRecord).
		PUT("/records/:id", saving(h.Pricing.UpdateRecord)...)

	integration := NewDomainGroup("integration", "/integration")
	integration.GET("/supplier-products", h.SupplierProducts.List).
		POST("/supplier-products", saving(h.SupplierProducts.Create)...).
		GET("/supplier-products/:id", h.SupplierProducts.GetByID).
		PUT("/supplier-products/:id", saving(h.SupplierProducts.Update)...)

	forms := NewDomainGroup("forms", "/forms")
	forms.Group("pricing-form", "/pricing").
		POST("", h.PricingForms.Open).
		GET("/:sid", h.PricingForms.Get).
		PUT("/:sid/product", h.PricingForms.SelectProduct).
		PUT("/:sid/variation", h.PricingForms.SelectVariation).
		PUT("/:sid/platform", h.PricingForms.SelectPlatform).
		PUT("/:sid/cost-price", h.PricingForms.SetCostPrice).
		POST("/:sid/submit", saving(h.PricingForms.Submit)...).
		POST("/:sid/cancel", h.PricingForms.Cancel)
	forms.Group("supplier-integration-form", "/supplier-integration").
		POST("", h.SupplierForms.Open).
		GET("/:sid", h.SupplierForms.Get).
		PUT("/:sid/product", h.SupplierForms.SelectProduct).
		PUT("/:sid/variation", h.SupplierForms.SelectVariation).
		PUT("/:sid/fields", h.SupplierForms.SetFields).
		POST("/:sid/submit", saving(h.SupplierForms.Submit)...).
		POST("/:sid/cancel", h.SupplierForms.Cancel)

	return []*DomainGroup{catalog, partner, pricing, integration, forms}
}
