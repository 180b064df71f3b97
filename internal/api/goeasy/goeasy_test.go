package goeasy

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch/fetchtest"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const priceResponse = `{"Products":[
	{"Name":"GoEasy 95 E10","PriceInclVATInclTax":13.49},
	{"Name":"GoEasy 95 Extra E5","PriceInclVATInclTax":14.09},
	{"Name":"GoEasy Diesel","PriceInclVATInclTax":"12,19"},
	{"Name":"GoEasy Diesel Extra","PriceInclVATInclTax":12.89}
]}`

const pricePage = `<table>
<tr><th>Produkt</th><th>Pris</th></tr>
<tr><td>GoEasy 95 E10</td><td>13,49</td></tr>
<tr><td>GoEasy Diesel</td><td>12,19</td></tr>
<tr><td>El</td><td>3,49 kr/kWh</td><td>3,99 kr/kWh</td></tr>
</table>`

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newProvider(cfg Config, tr *fetchtest.Transport, kinds ...models.ProductKind) *Provider {
	p := New(cfg, company.Options{Transport: tr, Products: kinds})
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestProvider_RequestIsIndexedInCatalogOrder(t *testing.T) {
	tr := fetchtest.NewTransport().
		Handle("POST "+F24.APIURL, fetchtest.JSON(`{"Products":[{"PriceInclVATInclTax":13.49},{"PriceInclVATInclTax":12.19}]}`))
	p := newProvider(F24, tr, models.Diesel, models.Octane95)

	require.NoError(t, p.RefreshPrices(context.Background()))

	bodies := tr.Bodies()
	require.Len(t, bodies, 1, "no charging product subscribed, so no page fetch")

	var req priceRequest
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &req))
	assert.Equal(t, fixedNow.Unix(), req.ToDate)
	assert.Equal(t, fixedNow.Add(-31*24*time.Hour).Unix(), req.FromDate)
	assert.Equal(t, []fuelEntry{
		{Name: "GoEasy 95 E10", ProductCode: 22253, Index: 0},
		{Name: "GoEasy Diesel", ProductCode: 24453, Index: 1},
	}, req.FuelsIdList)

	prod, _ := p.Product(models.Octane95)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 13.49, *prod.Price)

	prod, _ = p.Product(models.Diesel)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 12.19, *prod.Price)
}

func TestProvider_F24(t *testing.T) {
	tr := fetchtest.NewTransport().
		Handle("POST "+F24.APIURL, fetchtest.JSON(priceResponse)).
		Handle(F24.URL, fetchtest.HTML(pricePage))
	p := newProvider(F24, tr)

	require.NoError(t, p.RefreshPrices(context.Background()))

	want := map[models.ProductKind]float64{
		models.Octane95:      13.49,
		models.Octane95Extra: 14.09,
		models.Diesel:        12.19,
		models.DieselExtra:   12.89,
		// F24 has no quick charger, so the first of the two cells is skipped.
		models.FastCharge: 3.99,
	}
	for kind, price := range want {
		prod, ok := p.Product(kind)
		require.True(t, ok, kind)
		require.NotNil(t, prod.Price, kind)
		assert.Equal(t, price, *prod.Price, kind)
	}
	_, hasQuick := p.Product(models.QuickCharge)
	assert.False(t, hasQuick)
}

func TestProvider_Q8Electricity(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(Q8.URL, fetchtest.HTML(pricePage))
	p := newProvider(Q8, tr, models.FastCharge, models.QuickCharge)

	require.NoError(t, p.RefreshPrices(context.Background()))
	assert.Len(t, tr.Requests(), 1, "no product codes subscribed, so no API call")

	prod, _ := p.Product(models.QuickCharge)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 3.49, *prod.Price)

	prod, _ = p.Product(models.FastCharge)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 3.99, *prod.Price)
}

func TestProvider_SingleElectricityCell(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(Q8.URL, fetchtest.HTML(`<table>
		<tr><td>a</td></tr><tr><td>b</td></tr><tr><td>c</td></tr>
		<tr><td>El</td><td>3,79 kr/kWh</td></tr>
	</table>`))
	p := newProvider(Q8, tr, models.FastCharge, models.QuickCharge)

	require.NoError(t, p.RefreshPrices(context.Background()))

	prod, _ := p.Product(models.FastCharge)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 3.79, *prod.Price)

	prod, _ = p.Product(models.QuickCharge)
	assert.Nil(t, prod.Price)
}

func TestProvider_ShortResponse(t *testing.T) {
	tr := fetchtest.NewTransport().
		Handle("POST "+Q8.APIURL, fetchtest.JSON(`{"Products":[{"PriceInclVATInclTax":13.39}]}`))
	p := newProvider(Q8, tr, models.Octane95, models.Diesel)

	require.NoError(t, p.RefreshPrices(context.Background()))

	prod, _ := p.Product(models.Octane95)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 13.39, *prod.Price)

	prod, _ = p.Product(models.Diesel)
	assert.Nil(t, prod.Price)
}

func TestProvider_APIStatusError(t *testing.T) {
	tr := fetchtest.NewTransport().Handle("POST "+Q8.APIURL, fetchtest.Status(500))
	p := newProvider(Q8, tr)

	require.Error(t, p.RefreshPrices(context.Background()))
	assert.Len(t, tr.Requests(), 1, "electricity is not fetched after a failed fuel request")
}
