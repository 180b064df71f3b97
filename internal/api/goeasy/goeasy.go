// Package goeasy reads the prices of the GoEasy branded stations run by F24 and Q8.
//
// Both companies share one API: fuel prices come from a JSON endpoint answering a
// POSTed list of product codes in the order they were asked for, charging prices come
// from a table on the public price page.
package goeasy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/extract"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

// priceWindow is how far back the API is asked for prices.
const priceWindow = 31 * 24 * time.Hour

// electricityRow is the index of the table row holding the charging prices.
const electricityRow = 3

// Config describes one GoEasy company.
type Config struct {
	Key     string
	Name    string
	URL     string
	APIURL  string
	Catalog []models.ProductSpec
}

// F24 is the configuration of F24.
var F24 = Config{
	Key:    "f24",
	Name:   "F24",
	URL:    "https://www.f24.dk/priser/",
	APIURL: "https://www.f24.dk/-/api/PriceViewProduct/GetPriceViewProducts",
	Catalog: []models.ProductSpec{
		{Kind: models.Octane95, Name: "GoEasy 95 E10", ProductCode: 22253},
		{Kind: models.Octane95Extra, Name: "GoEasy 95 Extra E5", ProductCode: 22603},
		{Kind: models.Diesel, Name: "GoEasy Diesel", ProductCode: 24453},
		{Kind: models.DieselExtra, Name: "GoEasy Diesel Extra", ProductCode: 24338},
		{Kind: models.FastCharge, Name: "Hurtiglader"},
	},
}

// Q8 is the configuration of Q8.
var Q8 = Config{
	Key:    "q8",
	Name:   "Q8",
	URL:    "https://www.q8.dk/priser/",
	APIURL: "https://www.q8.dk/-/api/PriceViewProduct/GetPriceViewProducts",
	Catalog: []models.ProductSpec{
		{Kind: models.Octane95, Name: "GoEasy 95 E10", ProductCode: 22251},
		{Kind: models.Octane95Extra, Name: "GoEasy 95 Extra E5", ProductCode: 22601},
		{Kind: models.Diesel, Name: "GoEasy Diesel", ProductCode: 24451},
		{Kind: models.DieselExtra, Name: "GoEasy Diesel Extra", ProductCode: 24337},
		{Kind: models.FastCharge, Name: "Hurtiglader"},
		{Kind: models.QuickCharge, Name: "Lynlader"},
	},
}

// priceRequest is the payload of the price API.
type priceRequest struct {
	FromDate    int64       `json:"FromDate"`
	ToDate      int64       `json:"ToDate"`
	FuelsIdList []fuelEntry `json:"FuelsIdList"`
}

type fuelEntry struct {
	Name        string `json:"name"`
	ProductCode int    `json:"ProductCode"`
	Index       int    `json:"Index"`
}

// apiResponse lists the products in the order of FuelsIdList.
type apiResponse struct {
	Products []struct {
		PriceInclVATInclTax extract.Text `json:"PriceInclVATInclTax"`
	} `json:"Products"`
}

// Provider implements api.Company for a GoEasy company.
type Provider struct {
	*company.Base
	apiURL string
	now    func() time.Time
}

// New creates a provider for cfg.
func New(cfg Config, opts company.Options) *Provider {
	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     cfg.Key,
			Name:    cfg.Name,
			URL:     cfg.URL,
			Catalog: cfg.Catalog,
		}, opts, nil),
		apiURL: cfg.APIURL,
		now:    time.Now,
	}
}

// NewF24 creates the F24 provider.
func NewF24(opts company.Options) *Provider {
	return New(F24, opts)
}

// NewQ8 creates the Q8 provider.
func NewQ8(opts company.Options) *Provider {
	return New(Q8, opts)
}

// APIURL returns the URL of the fuel price API.
func (p *Provider) APIURL() string {
	return p.apiURL
}

// RefreshPrices fetches the fuel prices, then the charging prices if any charging
// product is subscribed.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	if err := p.refreshFuelPrices(ctx); err != nil {
		return err
	}

	if p.Catalog().Has(models.FastCharge) || p.Catalog().Has(models.QuickCharge) {
		return p.refreshElectricityPrices(ctx)
	}
	return nil
}

// buildRequest lists the products carrying a product code. Index is the position the
// product will have in the response.
func (p *Provider) buildRequest() (priceRequest, []models.ProductKind) {
	now := p.now()
	req := priceRequest{
		FromDate:    now.Add(-priceWindow).Unix(),
		ToDate:      now.Unix(),
		FuelsIdList: []fuelEntry{},
	}

	var kinds []models.ProductKind
	for _, prod := range p.Products() {
		if prod.ProductCode == 0 {
			continue
		}
		req.FuelsIdList = append(req.FuelsIdList, fuelEntry{
			Name:        prod.Name,
			ProductCode: prod.ProductCode,
			Index:       len(kinds),
		})
		kinds = append(kinds, prod.Kind)
	}
	return req, kinds
}

func (p *Provider) refreshFuelPrices(ctx context.Context) error {
	req, kinds := p.buildRequest()
	if len(kinds) == 0 {
		return nil
	}

	body, err := p.Session().PostJSON(ctx, p.apiURL, req)
	if err != nil {
		return err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("parsing response JSON: %w", err)
	}

	updates := make([]extract.Update, 0, len(kinds))
	for index, kind := range kinds {
		if index >= len(resp.Products) {
			p.Logger().Warn().
				Str("product", string(kind)).
				Int("index", index).
				Int("returned", len(resp.Products)).
				Msg("price API returned fewer products than requested")
			continue
		}
		updates = append(updates, extract.Update{
			Kind: kind,
			Raw:  resp.Products[index].PriceInclVATInclTax.String(),
		})
	}

	return p.Apply(updates)
}

// refreshElectricityPrices reads the charging prices from the fourth table row. The
// first cell is a label. With two price cells the first is the quick charger.
func (p *Provider) refreshElectricityPrices(ctx context.Context) error {
	doc, err := p.Session().Document(ctx, p.URL())
	if err != nil {
		return err
	}

	rows := doc.Find("tr")
	if rows.Length() <= electricityRow {
		p.Logger().Debug().Int("rows", rows.Length()).Msg("no electricity row on price page")
		return nil
	}

	var prices []string
	rows.Eq(electricityRow).Find("td").Each(func(i int, cell *goquery.Selection) {
		if i > 0 {
			prices = append(prices, cell.Text())
		}
	})
	if len(prices) == 0 {
		return nil
	}

	var updates []extract.Update
	if len(prices) == 2 {
		if p.Catalog().Has(models.QuickCharge) {
			updates = append(updates, extract.Update{Kind: models.QuickCharge, Raw: prices[0]})
		}
		prices = prices[1:]
	}
	if p.Catalog().Has(models.FastCharge) {
		updates = append(updates, extract.Update{Kind: models.FastCharge, Raw: prices[0]})
	}

	return p.Apply(updates)
}
