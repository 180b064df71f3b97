package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

// PricesHandler serves the current prices.
type PricesHandler struct {
	scraper *scraper.FuelPrices
}

// NewPricesHandler creates a new PricesHandler.
func NewPricesHandler(s *scraper.FuelPrices) *PricesHandler {
	return &PricesHandler{scraper: s}
}

// List writes the prices of every loaded company.
func (h *PricesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scraper.Prices())
}

// Company writes the prices of the company named in the path.
func (h *PricesHandler) Company(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "company")

	c, ok := h.scraper.Company(key)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown company: " + key})
		return
	}

	writeJSON(w, http.StatusOK, scraper.Snapshot(c))
}
