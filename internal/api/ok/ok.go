// Package ok scrapes the recommended pump prices published by OK.
package ok

import (
	"context"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "ok"
	// baseURL renders the prices as a grid widget.
	baseURL = "https://www.ok.dk/offentlig/produkter/braendstof/priser/vejledende-standerpriser"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Blyfri 95"},
	{Kind: models.Octane100, Name: "Oktan 100"},
	{Kind: models.Diesel, Name: "Diesel"},
}

// Provider implements api.Company for OK.
type Provider struct {
	*company.Base
}

// New creates a new OK provider.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "OK",
			URL:     baseURL,
			Catalog: products,
		}, opts, nil),
	}
}

// RefreshPrices reads the product and price columns of the price grid.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	return p.ScrapeGrid(ctx, 0, 1)
}
