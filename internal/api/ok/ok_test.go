package ok

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch/fetchtest"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const fixture = `<html><body>
<div role="grid">
  <div role="row"><div role="columnheader">Produkt</div><div role="columnheader">Pris</div></div>
  <div role="row"><div role="gridcell">Blyfri 95</div><div role="gridcell">13,69 kr.</div></div>
  <div role="row"><div role="gridcell">Oktan 100</div><div role="gridcell">14,49 kr.</div></div>
  <div role="row"><div role="gridcell">Diesel</div><div role="gridcell">12,39 kr.</div></div>
</div>
</body></html>`

func TestProvider_RefreshPrices(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(baseURL, fetchtest.HTML(fixture))
	p := New(company.Options{Transport: tr})

	require.NoError(t, p.RefreshPrices(context.Background()))

	want := map[models.ProductKind]float64{
		models.Octane95:  13.69,
		models.Octane100: 14.49,
		models.Diesel:    12.39,
	}
	for kind, price := range want {
		prod, ok := p.Product(kind)
		require.True(t, ok, kind)
		require.NotNil(t, prod.Price, kind)
		assert.Equal(t, price, *prod.Price, kind)
	}
	assert.Equal(t, ProviderName, p.Key())
	assert.Equal(t, "OK", p.Name())
}

func TestProvider_RefreshPricesFiltered(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(baseURL, fetchtest.HTML(fixture))
	p := New(company.Options{Transport: tr, Products: []models.ProductKind{models.Diesel, models.QuickCharge}})

	require.NoError(t, p.RefreshPrices(context.Background()))

	products := p.Products()
	require.Len(t, products, 1)
	assert.Equal(t, models.Diesel, products[0].Kind)
	assert.Equal(t, 12.39, *products[0].Price)
}
