package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/application/backoffice"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// envelope decodes dto.Response with a typed data field
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
}

type testAPI struct {
	engine           *gin.Engine
	backend          *backend
	pricingSessions  *PricingFormSessions
	supplierSessions *SupplierIntegrationFormSessions
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	b := newBackend()
	pricingSessions := backoffice.NewSessionRegistry[*backoffice.PricingForm](time.Hour, time.Hour, zap.NewNop())
	supplierSessions := backoffice.NewSessionRegistry[*backoffice.SupplierIntegrationForm](time.Hour, time.Hour, zap.NewNop())
	t.Cleanup(pricingSessions.Close)
	t.Cleanup(supplierSessions.Close)

	collaborators := backoffice.Collaborators{
		Catalog:          b.productService,
		Suppliers:        b.supplierService,
		Commissions:      b.commissionService,
		PricingRecords:   b.recordService,
		SupplierProducts: b.supplierProductService,
	}

	products := NewProductHandler(b.productService)
	suppliers := NewSupplierHandler(b.supplierService)
	prices := NewPricingHandler(b.commissionService, b.recordService)
	supplierProducts := NewSupplierProductHandler(b.supplierProductService)
	pricingForms := NewPricingFormHandler(pricingSessions, collaborators, zap.NewNop())
	supplierForms := NewSupplierIntegrationFormHandler(supplierSessions, collaborators, zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")

	api.GET("/catalog/products", products.List)
	api.POST("/catalog/products", products.Create)
	api.GET("/catalog/products/:id", products.GetByID)
	api.GET("/catalog/products/:id/variations", products.ListVariations)
	api.POST("/catalog/products/:id/variations", products.CreateVariation)

	api.GET("/partner/suppliers", suppliers.List)
	api.POST("/partner/suppliers", suppliers.Create)
	api.GET("/partner/suppliers/:id", suppliers.GetByID)
	api.POST("/partner/suppliers/:id/block", suppliers.Block)

	api.GET("/pricing/platforms", prices.ListPlatforms)
	api.POST("/pricing/platforms", prices.CreatePlatform)
	api.GET("/pricing/platforms/:id/commission", prices.GetCommission)
	api.PUT("/pricing/platforms/:id/commission", prices.SetCommission)
	api.GET("/pricing/commissions", prices.ListCommissions)
	api.POST("/pricing/quote", prices.Quote)
	api.GET("/pricing/records", prices.ListRecords)
	api.POST("/pricing/records", prices.CreateRecord)
	api.GET("/pricing/records/:id", prices.GetRecord)
	api.PUT("/pricing/records/:id", prices.UpdateRecord)

	api.GET("/integration/supplier-products", supplierProducts.List)
	api.POST("/integration/supplier-products", supplierProducts.Create)
	api.GET("/integration/supplier-products/:id", supplierProducts.GetByID)
	api.PUT("/integration/supplier-products/:id", supplierProducts.Update)

	pf := api.Group("/forms/pricing")
	pf.POST("", pricingForms.Open)
	pf.GET("/:sid", pricingForms.Get)
	pf.PUT("/:sid/product", pricingForms.SelectProduct)
	pf.PUT("/:sid/variation", pricingForms.SelectVariation)
	pf.PUT("/:sid/platform", pricingForms.SelectPlatform)
	pf.PUT("/:sid/cost-price", pricingForms.SetCostPrice)
	pf.POST("/:sid/submit", pricingForms.Submit)
	pf.POST("/:sid/cancel", pricingForms.Cancel)

	sf := api.Group("/forms/supplier-integration")
	sf.POST("", supplierForms.Open)
	sf.GET("/:sid", supplierForms.Get)
	sf.PUT("/:sid/product", supplierForms.SelectProduct)
	sf.PUT("/:sid/variation", supplierForms.SelectVariation)
	sf.PUT("/:sid/fields", supplierForms.SetFields)
	sf.POST("/:sid/submit", supplierForms.Submit)
	sf.POST("/:sid/cancel", supplierForms.Cancel)

	return &testAPI{
		engine:           engine,
		backend:          b,
		pricingSessions:  pricingSessions,
		supplierSessions: supplierSessions,
	}
}

// do sends a request with an optional JSON body
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

func formatRecordID(id int64) string {
	return strconv.FormatInt(id, 10)
}
