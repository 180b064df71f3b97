// Package circlek scrapes the prices published by Circle K.
package circlek

import (
	"context"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "circlek"
	baseURL      = "https://www.circlek.dk/priser"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "miles95"},
	{Kind: models.Octane95Extra, Name: "miles+95"},
	{Kind: models.Diesel, Name: "miles Diesel"},
	{Kind: models.DieselExtra, Name: "miles+ Diesel"},
	{Kind: models.QuickCharge, Name: "El Lynlader"},
}

// Provider implements api.Company for Circle K.
type Provider struct {
	*company.Base
}

// New creates a new Circle K provider.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "Circle K",
			URL:     baseURL,
			Catalog: products,
		}, opts, nil),
	}
}

// RefreshPrices scans the price table: product in the second column, price in the third.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	return p.ScrapeTable(ctx, 1, 2)
}
