package handler

import (
	"net/http"
	"testing"

	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierHandler(t *testing.T) {
	t.Run("lists only active suppliers", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodGet, "/api/v1/partner/suppliers", nil)

		requireStatus(t, w, http.StatusOK)
		resp := decode[[]SupplierResponse](t, w)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Acme", resp.Data[0].TradeName)
	})

	t.Run("gets a blocked supplier by id", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodGet, "/api/v1/partner/suppliers/8", nil)

		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "blocked", decode[SupplierResponse](t, w).Data.Status)
	})

	t.Run("creates a supplier", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/partner/suppliers", map[string]string{"trade_name": "Globex"})

		requireStatus(t, w, http.StatusCreated)
		assert.Equal(t, "active", decode[SupplierResponse](t, w).Data.Status)
	})

	t.Run("blocks a supplier once", func(t *testing.T) {
		api := newTestAPI(t)

		w := api.do(t, http.MethodPost, "/api/v1/partner/suppliers/9/block", nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "blocked", decode[SupplierResponse](t, w).Data.Status)

		w = api.do(t, http.MethodPost, "/api/v1/partner/suppliers/9/block", nil)
		requireStatus(t, w, http.StatusUnprocessableEntity)
		assert.Equal(t, dto.ErrCodeInvalidState, decode[any](t, w).Error.Code)
	})
}
