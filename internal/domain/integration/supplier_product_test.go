package integration

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validSupplierProductPayload() SupplierProductPayload {
	return SupplierProductPayload{
		ProductID:           1,
		VariationID:         2,
		SupplierID:          3,
		SupplierPrice:       decimal.RequireFromString("42.5"),
		SupplierProductCode: " ACME-42 ",
		InStock:             true,
		SupplierProductLink: strPtr("https://acme.example.com/p/42"),
		ExternalCatalogID:   998877,
	}
}

func TestNewSupplierProduct(t *testing.T) {
	t.Run("Valid supplier product", func(t *testing.T) {
		sp, err := NewSupplierProduct(validSupplierProductPayload())
		require.NoError(t, err)
		assert.Equal(t, "ACME-42", sp.SupplierProductCode)
		assert.Equal(t, int64(998877), sp.ExternalCatalogID)
		assert.True(t, sp.InStock)
		require.NotNil(t, sp.SupplierProductLink)
	})

	t.Run("Link is optional", func(t *testing.T) {
		p := validSupplierProductPayload()
		p.SupplierProductLink = nil
		_, err := NewSupplierProduct(p)
		assert.NoError(t, err)
	})

	t.Run("Invalid payloads", func(t *testing.T) {
		cases := map[string]struct {
			mutate func(p *SupplierProductPayload)
			want   error
		}{
			"no product":     {func(p *SupplierProductPayload) { p.ProductID = 0 }, ErrSupplierProductInvalidProduct},
			"no variation":   {func(p *SupplierProductPayload) { p.VariationID = 0 }, ErrSupplierProductInvalidVariation},
			"no supplier":    {func(p *SupplierProductPayload) { p.SupplierID = 0 }, ErrSupplierProductInvalidSupplier},
			"zero price":     {func(p *SupplierProductPayload) { p.SupplierPrice = decimal.Zero }, ErrSupplierProductInvalidPrice},
			"blank code":     {func(p *SupplierProductPayload) { p.SupplierProductCode = "  " }, ErrSupplierProductInvalidCode},
			"relative url":   {func(p *SupplierProductPayload) { p.SupplierProductLink = strPtr("/p/42") }, ErrSupplierProductInvalidLink},
			"sub-cent price": {func(p *SupplierProductPayload) { p.SupplierPrice = decimal.RequireFromString("0.004") }, ErrSupplierProductInvalidPrice},
			"long code":      {func(p *SupplierProductPayload) { p.SupplierProductCode = strings.Repeat("x", 101) }, ErrSupplierProductInvalidCode},
			"mailto link":    {func(p *SupplierProductPayload) { p.SupplierProductLink = strPtr("mailto:x") }, ErrSupplierProductInvalidLink},
			"ftp link":       {func(p *SupplierProductPayload) { p.SupplierProductLink = strPtr("ftp://acme.example.com/p") }, ErrSupplierProductInvalidLink},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				p := validSupplierProductPayload()
				tc.mutate(&p)
				_, err := NewSupplierProduct(p)
				assert.Same(t, tc.want, err)
			})
		}
	})
}

func TestSupplierProduct_Apply(t *testing.T) {
	sp, err := NewSupplierProduct(validSupplierProductPayload())
	require.NoError(t, err)

	p := validSupplierProductPayload()
	p.InStock = false
	p.SupplierPrice = decimal.RequireFromString("39.999")
	require.NoError(t, sp.Apply(p))
	assert.False(t, sp.InStock)
	assert.Equal(t, "40.00", sp.SupplierPrice.StringFixed(2))

	// a 100 rune code is accepted even when it takes more bytes
	p.SupplierProductCode = strings.Repeat("é", 100)
	require.NoError(t, sp.Apply(p))

	p.SupplierPrice = decimal.RequireFromString("0.004")
	assert.Same(t, ErrSupplierProductInvalidPrice, sp.Apply(p))
	assert.Equal(t, "40.00", sp.SupplierPrice.StringFixed(2))
}
