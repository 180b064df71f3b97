// Package oil scrapes the prices published by OIL! tankstationer.
package oil

import (
	"context"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "oil"
	baseURL      = "https://www.oil-tankstationer.dk/de-gaeldende-braendstofpriser/"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "95 E10"},
	{Kind: models.Octane95Extra, Name: "PREMIUM 98"},
	{Kind: models.Diesel, Name: "Diesel"},
}

// Provider implements api.Company for OIL!.
type Provider struct {
	*company.Base
}

// New creates a new OIL! provider.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "OIL!",
			URL:     baseURL,
			Catalog: products,
		}, opts, nil),
	}
}

// RefreshPrices scans the price table: product in the first column, price in the third.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	return p.ScrapeTable(ctx, 0, 2)
}
