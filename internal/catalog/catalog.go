// Package catalog holds the products a company publishes prices for.
//
// A Catalog is built from an immutable template owned by the company package and a
// subscription filter. Every catalog owns its records, so two companies built from the
// same template never share state.
package catalog

import (
	"errors"
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

// ErrUnknownProduct is returned when a product kind is not part of the catalog.
var ErrUnknownProduct = errors.New("product not in catalog")

// Location is the time zone of every last update timestamp.
var Location = mustLoadLocation("Europe/Copenhagen")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("loading location %s: %v", name, err))
	}
	return loc
}

// Catalog is the instance owned set of products of one company.
type Catalog struct {
	mu       sync.RWMutex
	order    []models.ProductKind
	products map[models.ProductKind]*models.Product
	byName   map[string]models.ProductKind
	now      func() time.Time
}

// New copies the template entries that are in subscribe into a fresh catalog.
// An empty subscribe keeps the whole template.
// It panics if two template entries share a kind or a display name.
func New(template []models.ProductSpec, subscribe []models.ProductKind) *Catalog {
	wanted := make(map[models.ProductKind]bool, len(subscribe))
	for _, k := range subscribe {
		wanted[k] = true
	}

	c := &Catalog{
		products: make(map[models.ProductKind]*models.Product),
		byName:   make(map[string]models.ProductKind),
		now:      time.Now,
	}

	for _, spec := range template {
		if len(wanted) > 0 && !wanted[spec.Kind] {
			continue
		}
		if _, dup := c.products[spec.Kind]; dup {
			panic(fmt.Sprintf("catalog: duplicate product kind %q", spec.Kind))
		}
		if other, dup := c.byName[spec.Name]; dup {
			panic(fmt.Sprintf("catalog: display name %q used by %q and %q", spec.Name, other, spec.Kind))
		}

		p := &models.Product{
			Kind:        spec.Kind,
			Name:        spec.Name,
			ProductCode: spec.ProductCode,
		}
		if spec.Crop != nil {
			crop := *spec.Crop
			p.Crop = &crop
		}

		c.order = append(c.order, spec.Kind)
		c.products[spec.Kind] = p
		c.byName[spec.Name] = spec.Kind
	}

	return c
}

// SetClock replaces the clock used for last update timestamps.
func (c *Catalog) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Kinds returns the product kinds in template order.
func (c *Catalog) Kinds() []models.ProductKind {
	kinds := make([]models.ProductKind, len(c.order))
	copy(kinds, c.order)
	return kinds
}

// Has reports whether kind is part of the catalog.
func (c *Catalog) Has(kind models.ProductKind) bool {
	_, ok := c.products[kind]
	return ok
}

// Lookup resolves a rendered display name to its product kind.
func (c *Catalog) Lookup(name string) (models.ProductKind, bool) {
	kind, ok := c.byName[name]
	return kind, ok
}

// Get returns a copy of the product.
func (c *Catalog) Get(kind models.ProductKind) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[kind]
	if !ok {
		return models.Product{}, false
	}
	return copyProduct(p), true
}

// Products returns copies of all products in template order.
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, 0, len(c.order))
	for _, kind := range c.order {
		out = append(out, copyProduct(c.products[kind]))
	}
	return out
}

// Set stores price as the current price of kind, classified as priceType, and stamps
// it with the current time.
func (c *Catalog) Set(kind models.ProductKind, price float64, priceType models.PriceType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProduct, kind)
	}

	now := c.now().In(Location)
	p.Price = &price
	p.LastUpdate = &now
	p.PriceType = priceType
	return nil
}

func copyProduct(p *models.Product) models.Product {
	out := *p
	if p.Price != nil {
		price := *p.Price
		out.Price = &price
	}
	if p.LastUpdate != nil {
		ts := *p.LastUpdate
		out.LastUpdate = &ts
	}
	if p.Crop != nil {
		crop := *p.Crop
		out.Crop = &crop
	}
	return out
}
