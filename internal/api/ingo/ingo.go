// Package ingo scrapes the prices published by Ingo.
package ingo

import (
	"context"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "ingo"
	baseURL      = "https://www.ingo.dk/br%C3%A6ndstofpriser/aktuelle-br%C3%A6ndstofpriser"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Benzin 95"},
	{Kind: models.Octane95Extra, Name: "UPGRADE 95"},
	{Kind: models.Diesel, Name: "Diesel"},
}

// Provider implements api.Company for Ingo.
type Provider struct {
	*company.Base
}

// New creates a new Ingo provider.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "Ingo",
			URL:     baseURL,
			Catalog: products,
		}, opts, nil),
	}
}

// RefreshPrices scans the price table.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	return p.ScrapeTable(ctx, 1, 2)
}
