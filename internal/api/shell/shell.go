// Package shell reads the daily prices published by Shell's JSON API.
package shell

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/extract"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "shell"
	baseURL      = "https://shellservice.dk/wp-json/shell-wp/v2/daily-prices"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Shell FuelSave 95 oktan"},
	{Kind: models.Octane100, Name: "Shell V-Power 100 oktan"},
	{Kind: models.Diesel, Name: "Shell FuelSave Diesel"},
	{Kind: models.DieselExtra, Name: "Shell V-Power Diesel"},
	{Kind: models.QuickCharge, Name: "El/kWh"},
}

// apiResponse represents the JSON response from the Shell API.
type apiResponse struct {
	Results struct {
		Products []product `json:"products"`
	} `json:"results"`
}

type product struct {
	Name         string       `json:"name"`
	PriceInclVAT extract.Text `json:"price_incl_vat"`
}

// Provider implements api.Company for Shell.
type Provider struct {
	*company.Base
}

// New creates a new Shell provider. Shell's server only completes the handshake with
// a restricted cipher list, so the session gets its own TLS transport.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "Shell",
			URL:     baseURL,
			Catalog: products,
		}, opts, fetch.RestrictedTLSTransport()),
	}
}

// RefreshPrices fetches the product list and matches it by name.
// A body that is not JSON is an error.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	body, err := p.Session().Get(ctx, p.URL(), nil)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}

	var updates []extract.Update
	for _, prod := range resp.Results.Products {
		kind, ok := p.Catalog().Lookup(prod.Name)
		if !ok {
			continue
		}
		updates = append(updates, extract.Update{Kind: kind, Raw: prod.PriceInclVAT.String()})
	}

	return p.Apply(updates)
}
