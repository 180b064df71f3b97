// Package unox reads the prices published by Uno-X.
//
// The price page streams a framework payload that is not JSON as a whole but embeds
// one JSON record per product and price change. Each record carries its own epoch,
// and the newest record of a product is its current price.
package unox

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/extract"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "unox"
	baseURL      = "https://unoxmobility.dk/privat/braendstofpriser"
)

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Blyfri 95 E10"},
	{Kind: models.Octane100, Name: "Blyfri 100"},
	{Kind: models.Diesel, Name: "Diesel"},
}

// record is one embedded price record.
type record struct {
	Date         string       `json:"Date"`
	Product      string       `json:"Product"`
	PumpPrice    extract.Text `json:"PumpPrice"`
	DateUnixEpoc extract.Text `json:"DateUnixEpoc"`
}

func (r record) epoch() int64 {
	epoch, err := strconv.ParseInt(r.DateUnixEpoc.String(), 10, 64)
	if err != nil {
		return 0
	}
	return epoch
}

// Provider implements api.Company for Uno-X.
type Provider struct {
	*company.Base
	header http.Header
}

// New creates a new Uno-X provider.
func New(opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "Uno-X",
			URL:     baseURL,
			Catalog: products,
		}, opts, nil),
		header: http.Header{
			"Referer": []string{baseURL},
			"Cookie":  []string{"NEXT_LOCALE=privat"},
		},
	}
}

// RefreshPrices fetches the price payload and keeps the newest record per product.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	body, err := p.Session().Get(ctx, p.URL(), p.header)
	if err != nil {
		return err
	}
	return p.Apply(p.latest(body))
}

// latest returns the price of the most recent record of every subscribed product.
// Of two records with the same epoch the later one in the payload wins.
func (p *Provider) latest(body []byte) []extract.Update {
	accepted := make(map[models.ProductKind]record)

	for _, raw := range extract.Records(body) {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			p.Logger().Debug().Err(err).Msg("skipping undecodable record")
			continue
		}

		kind, ok := p.Catalog().Lookup(rec.Product)
		if !ok {
			continue
		}

		prev, seen := accepted[kind]
		if !seen || rec.epoch() >= prev.epoch() {
			accepted[kind] = rec
		}
	}

	var updates []extract.Update
	for _, kind := range p.Catalog().Kinds() {
		rec, ok := accepted[kind]
		if !ok {
			continue
		}
		updates = append(updates, extract.Update{Kind: kind, Raw: rec.PumpPrice.String()})
	}
	return updates
}
