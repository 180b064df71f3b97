package shell

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/api/ok"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch/fetchtest"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const fixture = `{"results":{"date":"2024-03-01","products":[
	{"name":"Shell FuelSave 95 oktan","price_incl_vat":"13,89"},
	{"name":"Shell V-Power 100 oktan","price_incl_vat":14.59},
	{"name":"Shell FuelSave Diesel","price_incl_vat":"12,59"},
	{"name":"Shell V-Power Diesel","price_incl_vat":"13,29"},
	{"name":"El/kWh","price_incl_vat":"4,10"},
	{"name":"AdBlue","price_incl_vat":"9,95"}
]}}`

func TestProvider_RefreshPrices(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(baseURL, fetchtest.JSON(fixture))
	p := New(company.Options{Transport: tr})

	require.NoError(t, p.RefreshPrices(context.Background()))

	want := map[models.ProductKind]float64{
		models.Octane95:    13.89,
		models.Octane100:   14.59,
		models.Diesel:      12.59,
		models.DieselExtra: 13.29,
		models.QuickCharge: 4.10,
	}
	for kind, price := range want {
		prod, ok := p.Product(kind)
		require.True(t, ok, kind)
		require.NotNil(t, prod.Price, kind)
		assert.Equal(t, price, *prod.Price, kind)
	}
}

func TestProvider_MalformedJSONIsNotRecoverable(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(baseURL, fetchtest.Body("text/html", "<html>maintenance</html>"))
	p := New(company.Options{Transport: tr})

	err := p.RefreshPrices(context.Background())
	require.Error(t, err)
	assert.False(t, fetch.IsRecoverable(err))
}

func TestNew_UsesRestrictedTLSOnlyForShell(t *testing.T) {
	p := New(company.Options{})

	transport, isTransport := p.Session().Transport().(*http.Transport)
	require.True(t, isTransport)
	require.NotNil(t, transport.TLSClientConfig)
	assert.Equal(t, fetch.RestrictedCipherSuites, transport.TLSClientConfig.CipherSuites)
	assert.NotSame(t, http.DefaultTransport, transport)

	other := ok.New(company.Options{})
	assert.Same(t, http.DefaultTransport, other.Session().Transport())
}
