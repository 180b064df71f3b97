// Package scraper provides orchestration for refreshing fuel prices from multiple companies.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/andygrunwald/fuelprices-dk/internal/api"
	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch"
	"github.com/andygrunwald/fuelprices-dk/internal/metrics"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

var (
	// ErrUnknownCompany is returned for a company key that is not loaded.
	ErrUnknownCompany = errors.New("unknown company")
	// ErrRefreshPanicked is returned when a company panics while refreshing.
	ErrRefreshPanicked = errors.New("refresh panicked")
)

// Store receives the current prices of a company after every successful refresh.
type Store interface {
	UpsertPrices(ctx context.Context, prices models.CompanyPrices) error
}

// Metrics holds refresh metrics for a company.
type Metrics struct {
	mu                 sync.RWMutex
	TotalRequests      int64
	TotalErrors        int64
	LastRefreshAt      *time.Time
	LastRefreshSuccess bool
	LastResponseTime   time.Duration
	LastError          *string
}

// GetSnapshot returns a thread-safe snapshot of the metrics.
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		TotalRequests:      m.TotalRequests,
		TotalErrors:        m.TotalErrors,
		LastRefreshAt:      m.LastRefreshAt,
		LastRefreshSuccess: m.LastRefreshSuccess,
		LastResponseTime:   m.LastResponseTime,
		LastError:          m.LastError,
	}
}

// MetricsSnapshot is a thread-safe copy of Metrics data.
type MetricsSnapshot struct {
	TotalRequests      int64
	TotalErrors        int64
	LastRefreshAt      *time.Time
	LastRefreshSuccess bool
	LastResponseTime   time.Duration
	LastError          *string
}

// FuelPrices is the registry of subscribed companies. Companies are refreshed one at
// a time; a failing company never stops the others.
type FuelPrices struct {
	factories map[string]Factory
	options   company.Options
	logger    zerolog.Logger
	prom      *metrics.Metrics
	store     Store

	mu        sync.RWMutex
	order     []string
	companies map[string]api.Company
	metrics   map[string]*Metrics

	// refreshMu serializes refreshes.
	refreshMu sync.Mutex
}

// New creates an empty registry. opts is passed to every company constructed by
// Load; its Logger and Products fields are set by Load.
func New(logger zerolog.Logger, opts company.Options) *FuelPrices {
	return NewWithFactories(logger, opts, Factories())
}

// NewWithFactories creates an empty registry constructing companies with factories.
func NewWithFactories(logger zerolog.Logger, opts company.Options, factories map[string]Factory) *FuelPrices {
	return &FuelPrices{
		factories: factories,
		options:   opts,
		logger:    logger.With().Str("component", "scraper").Logger(),
		companies: make(map[string]api.Company),
		metrics:   make(map[string]*Metrics),
	}
}

// SetPrometheusMetrics wires Prometheus collectors into the refresh loop.
func (f *FuelPrices) SetPrometheusMetrics(m *metrics.Metrics) {
	f.prom = m
}

// SetStore wires a store receiving the prices after every successful refresh.
func (f *FuelPrices) SetStore(s Store) {
	f.store = s
}

// Load constructs the companies in keys, subscribed to the product kinds in kinds.
// Empty keys loads every known company, empty kinds subscribes every company to its
// whole catalog. Unknown keys are logged and skipped.
func (f *FuelPrices) Load(keys []string, kinds []models.ProductKind) {
	if len(keys) == 0 {
		keys = make([]string, 0, len(f.factories))
		for k := range f.factories {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))

		factory, ok := f.factories[key]
		if !ok {
			f.logger.Warn().Str("company", key).Msg("unknown company, skipping")
			continue
		}
		if _, loaded := f.companies[key]; loaded {
			continue
		}

		opts := f.options
		opts.Logger = f.logger
		opts.Products = kinds

		c := factory(opts)
		f.companies[key] = c
		f.metrics[key] = &Metrics{}
		f.order = append(f.order, key)

		f.logger.Debug().
			Str("company", key).
			Int("products", len(c.Products())).
			Msg("loaded company")
	}
}

// Companies returns the loaded companies in load order.
func (f *FuelPrices) Companies() []api.Company {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]api.Company, 0, len(f.order))
	for _, key := range f.order {
		out = append(out, f.companies[key])
	}
	return out
}

// Company returns the company loaded under key.
func (f *FuelPrices) Company(key string) (api.Company, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c, ok := f.companies[key]
	return c, ok
}

// GetMetrics returns the refresh metrics of a company.
func (f *FuelPrices) GetMetrics(key string) *Metrics {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.metrics[key]
}

// Prices returns the current prices of every loaded company.
func (f *FuelPrices) Prices() []models.CompanyPrices {
	companies := f.Companies()
	out := make([]models.CompanyPrices, 0, len(companies))
	for _, c := range companies {
		out = append(out, Snapshot(c))
	}
	return out
}

// Snapshot returns the caller facing view of a company.
func Snapshot(c api.Company) models.CompanyPrices {
	return models.CompanyPrices{
		Key:       c.Key(),
		Name:      c.Name(),
		URL:       c.URL(),
		PriceType: c.PriceType(),
		Products:  c.Products(),
	}
}

// Refresh refreshes every loaded company in load order. Errors are logged, not
// returned.
func (f *FuelPrices) Refresh(ctx context.Context) {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	for _, c := range f.Companies() {
		_ = f.refresh(ctx, c)
	}
}

// RefreshCompany refreshes a single company and returns its error.
func (f *FuelPrices) RefreshCompany(ctx context.Context, key string) error {
	c, ok := f.Company(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCompany, key)
	}

	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()
	return f.refresh(ctx, c)
}

func (f *FuelPrices) refresh(ctx context.Context, c api.Company) error {
	key := c.Key()
	m := f.GetMetrics(key)

	f.logger.Debug().Str("company", key).Msg("refreshing prices")

	start := time.Now()
	err := refreshPrices(ctx, c)
	duration := time.Since(start)

	now := time.Now()
	m.mu.Lock()
	m.TotalRequests++
	m.LastRefreshAt = &now
	m.LastResponseTime = duration
	if err != nil {
		m.TotalErrors++
		m.LastRefreshSuccess = false
		errStr := err.Error()
		m.LastError = &errStr
	} else {
		m.LastRefreshSuccess = true
		m.LastError = nil
	}
	m.mu.Unlock()

	snapshot := Snapshot(c)
	f.recordPrometheus(snapshot, err, duration, now)

	if err != nil {
		event := f.logger.Error()
		msg := "failed to refresh prices"
		if fetch.IsRecoverable(err) {
			event = f.logger.Warn()
			msg = "could not reach company, keeping previous prices"
		}
		event.
			Err(err).
			Str("company", key).
			Str("name", c.Name()).
			Dur("duration", duration).
			Msg(msg)
		return err
	}

	f.logger.Info().
		Str("company", key).
		Int("priced", countPriced(snapshot.Products)).
		Int("products", len(snapshot.Products)).
		Dur("duration", duration).
		Msg("refreshed prices")

	if f.store != nil {
		f.storePrices(ctx, snapshot)
	}

	return nil
}

// refreshPrices runs the company's refresh and turns a panic into an error.
func refreshPrices(ctx context.Context, c api.Company) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRefreshPanicked, r)
		}
	}()
	return c.RefreshPrices(ctx)
}

func (f *FuelPrices) recordPrometheus(snapshot models.CompanyPrices, err error, duration time.Duration, now time.Time) {
	if f.prom == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	f.prom.RecordRefresh(snapshot.Key, status, duration.Seconds())
	if err == nil {
		f.prom.RecordLastRefresh(snapshot.Key, float64(now.Unix()))
	}

	for _, p := range snapshot.Products {
		if p.Price != nil {
			f.prom.RecordCurrentPrice(snapshot.Key, string(p.Kind), string(p.PriceType), *p.Price)
		}
	}
}

func (f *FuelPrices) storePrices(ctx context.Context, snapshot models.CompanyPrices) {
	status := "success"
	if err := f.store.UpsertPrices(ctx, snapshot); err != nil {
		status = "error"
		f.logger.Error().
			Err(err).
			Str("company", snapshot.Key).
			Msg("failed to store prices")
	}
	if f.prom != nil {
		f.prom.RecordDBOperation("upsert", status)
	}
}

func countPriced(products []models.Product) int {
	n := 0
	for _, p := range products {
		if p.HasPrice() {
			n++
		}
	}
	return n
}
