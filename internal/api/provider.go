// Package api provides the interface implemented by every fuel company.
package api

import (
	"context"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

// Company defines the interface for fuel companies publishing prices.
type Company interface {
	// Key returns the stable identifier used for selection (e.g. "ok", "shell").
	Key() string

	// Name returns the display name of the company.
	Name() string

	// URL returns the main URL the prices are read from.
	URL() string

	// PriceType returns whether the prices are pump or list prices.
	PriceType() models.PriceType

	// Products returns a copy of the subscribed products and their current prices.
	Products() []models.Product

	// Product returns a copy of one subscribed product.
	Product(kind models.ProductKind) (models.Product, bool)

	// RefreshPrices fetches the current prices. Products missing from the fetched
	// document keep their previous price.
	RefreshPrices(ctx context.Context) error
}
