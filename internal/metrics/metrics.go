// Package metrics provides the Prometheus metrics of the fuel price scraper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scraper.
type Metrics struct {
	// Refresh metrics
	RefreshTotal         *prometheus.CounterVec
	RefreshDuration      *prometheus.HistogramVec
	LastRefreshTimestamp *prometheus.GaugeVec

	// Price metrics
	CurrentPriceDKK *prometheus.GaugeVec

	// Database metrics
	DBOperationsTotal *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelscraper_refresh_total",
				Help: "Total number of price refreshes by company and status",
			},
			[]string{"company", "status"},
		),
		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fuelscraper_refresh_duration_seconds",
				Help:    "Price refresh duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"company"},
		),
		LastRefreshTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fuelscraper_last_refresh_timestamp",
				Help: "Timestamp of the last successful refresh",
			},
			[]string{"company"},
		),
		CurrentPriceDKK: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fuelscraper_current_price_dkk",
				Help: "Current price in DKK per litre or kWh",
			},
			[]string{"company", "product", "price_type"},
		),
		DBOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fuelscraper_db_operations_total",
				Help: "Total number of database operations by type and status",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordRefresh records a refresh attempt.
func (m *Metrics) RecordRefresh(company, status string, duration float64) {
	m.RefreshTotal.WithLabelValues(company, status).Inc()
	m.RefreshDuration.WithLabelValues(company).Observe(duration)
}

// RecordLastRefresh records the last successful refresh timestamp.
func (m *Metrics) RecordLastRefresh(company string, timestamp float64) {
	m.LastRefreshTimestamp.WithLabelValues(company).Set(timestamp)
}

// RecordCurrentPrice records the current price of a product. The series of any other
// price type of the product is removed.
func (m *Metrics) RecordCurrentPrice(company, product, priceType string, price float64) {
	m.CurrentPriceDKK.DeletePartialMatch(prometheus.Labels{"company": company, "product": product})
	m.CurrentPriceDKK.WithLabelValues(company, product, priceType).Set(price)
}

// RecordDBOperation records a database operation metric.
func (m *Metrics) RecordDBOperation(operation, status string) {
	m.DBOperationsTotal.WithLabelValues(operation, status).Inc()
}
