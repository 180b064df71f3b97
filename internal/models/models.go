// Package models provides shared data types for the fuel price scraper.
package models

import (
	"time"
)

// ProductKind identifies a fungible commodity across all companies.
type ProductKind string

const (
	// Octane95 is regular unleaded 95.
	Octane95 ProductKind = "octane-95"
	// Octane95Extra is the premium 95 variant (e.g. E5 or additive blends).
	Octane95Extra ProductKind = "octane-95-extra"
	// Octane100 is unleaded 100.
	Octane100 ProductKind = "octane-100"
	// Diesel is regular diesel.
	Diesel ProductKind = "diesel"
	// DieselExtra is the premium diesel variant.
	DieselExtra ProductKind = "diesel-extra"
	// FastCharge is electricity from a fast charger ("hurtiglader").
	FastCharge ProductKind = "fast-charge"
	// QuickCharge is electricity from a high power charger ("lynlader").
	QuickCharge ProductKind = "quick-charge"
)

// AllProductKinds lists every known product kind.
var AllProductKinds = []ProductKind{
	Octane95,
	Octane95Extra,
	Octane100,
	Diesel,
	DieselExtra,
	FastCharge,
	QuickCharge,
}

// Valid reports whether k is a known product kind.
func (k ProductKind) Valid() bool {
	for _, known := range AllProductKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsElectricity reports whether the product is sold per kWh.
func (k ProductKind) IsElectricity() bool {
	return k == FastCharge || k == QuickCharge
}

// Unit returns the unit the price is quoted in.
func (k ProductKind) Unit() string {
	if k.IsElectricity() {
		return "kr/kWh"
	}
	return "kr/l"
}

// PriceType classifies how strong the price guarantee is.
type PriceType string

const (
	// PriceTypePump is the price charged at the pump.
	PriceTypePump PriceType = "pump"
	// PriceTypeList is a published recommended price that may differ from the pump.
	PriceTypeList PriceType = "list"
)

// Crop is a rectangle inside a price list image, in pixels.
type Crop struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ProductSpec is the static description of a product offered by a company.
type ProductSpec struct {
	Kind ProductKind
	// Name is the label the company renders for the product.
	Name string
	// ProductCode is the company API identifier, zero if unused.
	ProductCode int
	// Crop locates the price inside the company price image, nil if unused.
	Crop *Crop
}

// Product is the current state of a product at one company.
type Product struct {
	Kind        ProductKind `json:"kind"`
	Name        string      `json:"name"`
	ProductCode int         `json:"product_code,omitempty"`
	Crop        *Crop       `json:"-"`
	// Price is nil until the first successful refresh.
	Price      *float64   `json:"price"`
	LastUpdate *time.Time `json:"last_update"`
	// PriceType classifies Price. It is set together with the price.
	PriceType PriceType `json:"price_type,omitempty"`
}

// HasPrice reports whether a price has been set.
func (p Product) HasPrice() bool {
	return p.Price != nil
}

// CompanyPrices is the caller facing view of one company.
type CompanyPrices struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	PriceType PriceType `json:"price_type"`
	Products  []Product `json:"products"`
}

// CompanyStatus holds the operational status of a company.
type CompanyStatus struct {
	LastRefreshAt      *time.Time `json:"last_refresh_at"`
	LastRefreshSuccess bool       `json:"last_refresh_success"`
	LastResponseTimeMs int64      `json:"last_response_time_ms"`
	LastError          *string    `json:"last_error"`
	TotalRequests      int64      `json:"total_requests"`
	TotalErrors        int64      `json:"total_errors"`
	PricedProducts     int        `json:"priced_products"`
}

// StatusResponse is the response for the /status endpoint.
type StatusResponse struct {
	Status                 string                   `json:"status"`
	UptimeSeconds          int64                    `json:"uptime_seconds"`
	SchedulerRunning       bool                     `json:"scheduler_running"`
	NextRefreshAt          *time.Time               `json:"next_refresh_at,omitempty"`
	LastScheduledRefreshAt *time.Time               `json:"last_scheduled_refresh_at,omitempty"`
	Companies              map[string]CompanyStatus `json:"companies"`
	Database               DatabaseStatus           `json:"database"`
}

// DatabaseStatus holds the database connection status.
type DatabaseStatus struct {
	Enabled           bool  `json:"enabled"`
	Connected         bool  `json:"connected"`
	TotalPricesStored int64 `json:"total_prices_stored"`
}
