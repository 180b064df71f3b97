package scraper

import (
	"sort"

	"github.com/andygrunwald/fuelprices-dk/internal/api"
	"github.com/andygrunwald/fuelprices-dk/internal/api/circlek"
	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/api/goeasy"
	"github.com/andygrunwald/fuelprices-dk/internal/api/goon"
	"github.com/andygrunwald/fuelprices-dk/internal/api/ingo"
	"github.com/andygrunwald/fuelprices-dk/internal/api/ok"
	"github.com/andygrunwald/fuelprices-dk/internal/api/oil"
	"github.com/andygrunwald/fuelprices-dk/internal/api/shell"
	"github.com/andygrunwald/fuelprices-dk/internal/api/unox"
)

// Factory constructs a company from its options.
type Factory func(opts company.Options) api.Company

// Factories returns the constructor of every known company, keyed by company key.
func Factories() map[string]Factory {
	return map[string]Factory{
		circlek.ProviderName: func(o company.Options) api.Company { return circlek.New(o) },
		goeasy.F24.Key:       func(o company.Options) api.Company { return goeasy.NewF24(o) },
		goon.ProviderName:    func(o company.Options) api.Company { return goon.New(o) },
		ingo.ProviderName:    func(o company.Options) api.Company { return ingo.New(o) },
		oil.ProviderName:     func(o company.Options) api.Company { return oil.New(o) },
		ok.ProviderName:      func(o company.Options) api.Company { return ok.New(o) },
		goeasy.Q8.Key:        func(o company.Options) api.Company { return goeasy.NewQ8(o) },
		shell.ProviderName:   func(o company.Options) api.Company { return shell.New(o) },
		unox.ProviderName:    func(o company.Options) api.Company { return unox.New(o) },
	}
}

// CompanyKeys returns the keys of all known companies in alphabetical order.
func CompanyKeys() []string {
	factories := Factories()
	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
