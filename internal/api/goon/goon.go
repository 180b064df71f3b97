// Package goon reads the prices of Go' On.
//
// Go' On publishes its pump prices only as an image of a seven segment price sign.
// The prices are read with OCR; without an OCR engine the list prices from the
// price table are used instead.
package goon

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/extract"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/ocr"
)

const (
	// ProviderName is the identifier for this company.
	ProviderName = "goon"
	baseURL      = "https://goon.nu/priser/#Aktuellelistepriser"
	// imageFile is the name the price image is staged under.
	imageFile = "goon_prices.png"
	// imageSelector locates the price image; its URL is lazy loaded from data-src.
	imageSelector = "img.lazyload"
)

// ErrImageNotFound is returned when the price page has no price image.
var ErrImageNotFound = errors.New("price image not found")

var products = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Blyfri 95", Crop: &models.Crop{X: 58, Y: 232, Width: 134, Height: 46}},
	{Kind: models.Diesel, Name: "Transportdiesel", Crop: &models.Crop{X: 58, Y: 289, Width: 134, Height: 46}},
}

// Provider implements api.Company for Go' On.
type Provider struct {
	*company.Base
	ocr       ocr.Engine
	imagePath string
}

// New creates a new Go' On provider.
func New(opts company.Options) *Provider {
	engine := opts.OCR
	if engine == nil {
		engine = ocr.NewRunner(opts.OCRBinary, opts.OCRTimeout, opts.Logger)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(os.TempDir(), "fuelprices-dk")
	}

	return &Provider{
		Base: company.NewBase(company.Info{
			Key:     ProviderName,
			Name:    "Go' On",
			URL:     baseURL,
			Timeout: 10 * time.Second,
			Catalog: products,
		}, opts, nil),
		ocr:       engine,
		imagePath: filepath.Join(dataDir, imageFile),
	}
}

// ImagePath returns where the price image is staged.
func (p *Provider) ImagePath() string {
	return p.imagePath
}

// RefreshPrices reads the pump prices with OCR, or the list prices when OCR is not
// available.
func (p *Provider) RefreshPrices(ctx context.Context) error {
	if !p.ocr.Available() {
		p.Logger().Warn().Msg("OCR not available, reading list prices instead of pump prices")
		return p.refreshListPrices(ctx)
	}
	return p.refreshPumpPrices(ctx)
}

func (p *Provider) refreshListPrices(ctx context.Context) error {
	doc, err := p.Session().Document(ctx, p.URL())
	if err != nil {
		return err
	}

	p.SetPriceType(models.PriceTypeList)
	return p.Apply(extract.Table(doc, 0, 7, p.Catalog().Lookup))
}

func (p *Provider) refreshPumpPrices(ctx context.Context) error {
	doc, err := p.Session().Document(ctx, p.URL())
	if err != nil {
		return err
	}

	src, ok := doc.Find(imageSelector).First().Attr("data-src")
	if !ok || src == "" {
		return ErrImageNotFound
	}

	imageURL, err := resolve(p.URL(), src)
	if err != nil {
		return err
	}

	p.Logger().Debug().Str("url", imageURL).Msg("latest price image")

	if err := p.Session().Download(ctx, imageURL, p.imagePath); err != nil {
		return err
	}

	p.SetPriceType(models.PriceTypePump)

	var errs []error
	for _, prod := range p.Products() {
		if prod.Crop == nil {
			continue
		}

		text, err := p.ocr.Recognize(ctx, p.imagePath, *prod.Crop)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", prod.Kind, err))
			continue
		}
		if text == "" {
			p.Logger().Debug().Str("product", string(prod.Kind)).Msg("OCR recognized nothing")
			continue
		}

		if err := p.SetPrice(prod.Kind, text); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func resolve(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing page URL: %w", err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing image URL: %w", err)
	}
	return b.ResolveReference(r).String(), nil
}
