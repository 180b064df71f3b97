// Package company provides the building blocks shared by all fuel company scrapers.
package company

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/fuelprices-dk/internal/catalog"
	"github.com/andygrunwald/fuelprices-dk/internal/extract"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/ocr"
	"github.com/andygrunwald/fuelprices-dk/internal/pricing"
)

// DefaultTimeout bounds every request of a company.
const DefaultTimeout = 5 * time.Second

// Options configure a company at construction.
type Options struct {
	// Logger receives the company's diagnostics.
	Logger zerolog.Logger
	// Products is the subscription filter. Empty subscribes to the whole catalog.
	Products []models.ProductKind
	// Transport overrides the HTTP transport of the company.
	Transport http.RoundTripper
	// Timeout overrides the company's request timeout.
	Timeout time.Duration
	// DataDir is where downloaded artifacts are staged.
	DataDir string
	// OCR recognizes digits in price images. Nil uses the ssocr runner.
	OCR ocr.Engine
	// OCRBinary and OCRTimeout configure the default ssocr runner.
	OCRBinary  string
	OCRTimeout time.Duration
}

// Info is the static description of a company.
type Info struct {
	Key     string
	Name    string
	URL     string
	Timeout time.Duration
	Catalog []models.ProductSpec
}

// Base implements the data side of api.Company. Companies embed it and add
// RefreshPrices.
type Base struct {
	info    Info
	catalog *catalog.Catalog
	session *fetch.Session
	logger  zerolog.Logger

	mu        sync.RWMutex
	priceType models.PriceType
}

// NewBase builds the instance owned catalog and HTTP session of a company.
// transport is used when opts.Transport is nil.
func NewBase(info Info, opts Options, transport http.RoundTripper) *Base {
	timeout := info.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if opts.Transport != nil {
		transport = opts.Transport
	}

	logger := opts.Logger.With().Str("company", info.Key).Logger()

	return &Base{
		info:      info,
		catalog:   catalog.New(info.Catalog, opts.Products),
		session:   fetch.NewSession(timeout, transport, logger),
		logger:    logger,
		priceType: models.PriceTypePump,
	}
}

// Key returns the company key.
func (b *Base) Key() string { return b.info.Key }

// Name returns the display name.
func (b *Base) Name() string { return b.info.Name }

// URL returns the main price URL.
func (b *Base) URL() string { return b.info.URL }

// PriceType returns the classification prices are currently read with. Every product
// keeps the classification of its own last price.
func (b *Base) PriceType() models.PriceType {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.priceType
}

// SetPriceType changes the classification of prices set from now on.
func (b *Base) SetPriceType(t models.PriceType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.priceType = t
}

// Products returns copies of the subscribed products.
func (b *Base) Products() []models.Product {
	return b.catalog.Products()
}

// Product returns a copy of one subscribed product.
func (b *Base) Product(kind models.ProductKind) (models.Product, bool) {
	return b.catalog.Get(kind)
}

// Catalog returns the company catalog.
func (b *Base) Catalog() *catalog.Catalog { return b.catalog }

// Session returns the HTTP session.
func (b *Base) Session() *fetch.Session { return b.session }

// Logger returns the company logger.
func (b *Base) Logger() *zerolog.Logger { return &b.logger }

// SetPrice normalizes raw and stores it as the current price of kind, classified
// with the current price type.
func (b *Base) SetPrice(kind models.ProductKind, raw string) error {
	price, err := pricing.Normalize(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if err := b.catalog.Set(kind, price, b.PriceType()); err != nil {
		return err
	}

	b.logger.Debug().
		Str("product", string(kind)).
		Float64("price", price).
		Msg("updated price")
	return nil
}

// Apply sets every update. Failing updates do not stop the remaining ones; their
// errors are joined.
func (b *Base) Apply(updates []extract.Update) error {
	var errs []error
	for _, u := range updates {
		if err := b.SetPrice(u.Kind, u.Raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ScrapeTable fetches the main URL and applies the generic table scan.
func (b *Base) ScrapeTable(ctx context.Context, productCol, priceCol int) error {
	doc, err := b.session.Document(ctx, b.info.URL)
	if err != nil {
		return err
	}
	return b.Apply(extract.Table(doc, productCol, priceCol, b.catalog.Lookup))
}

// ScrapeGrid fetches the main URL and applies the grid role scan.
func (b *Base) ScrapeGrid(ctx context.Context, productCol, priceCol int) error {
	doc, err := b.session.Document(ctx, b.info.URL)
	if err != nil {
		return err
	}
	return b.Apply(extract.Grid(doc, productCol, priceCol, b.catalog.Lookup))
}
