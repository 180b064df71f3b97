package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

// SchedulerStatus reports the state of the refresh scheduler.
type SchedulerStatus interface {
	IsRunning() bool
	NextRefreshAt() time.Time
	LastRefreshAt() *time.Time
}

// DatabaseStatus reports the state of the price export database.
type DatabaseStatus interface {
	Ping() error
	GetTotalPricesCount(ctx context.Context) (int64, error)
}

// StatusHandler handles the /status endpoint.
type StatusHandler struct {
	scraper   *scraper.FuelPrices
	scheduler SchedulerStatus
	db        DatabaseStatus
	startTime time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(s *scraper.FuelPrices, sched SchedulerStatus, db DatabaseStatus) *StatusHandler {
	return &StatusHandler{
		scraper:   s,
		scheduler: sched,
		db:        db,
		startTime: time.Now(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := models.StatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Companies:     make(map[string]models.CompanyStatus),
	}

	if h.scheduler != nil {
		response.SchedulerRunning = h.scheduler.IsRunning()
		response.LastScheduledRefreshAt = h.scheduler.LastRefreshAt()
		next := h.scheduler.NextRefreshAt()
		if !next.IsZero() {
			response.NextRefreshAt = &next
		}
	}

	for _, c := range h.scraper.Companies() {
		metrics := h.scraper.GetMetrics(c.Key())
		if metrics == nil {
			continue
		}

		snapshot := metrics.GetSnapshot()
		priced := 0
		for _, p := range c.Products() {
			if p.HasPrice() {
				priced++
			}
		}

		response.Companies[c.Key()] = models.CompanyStatus{
			LastRefreshAt:      snapshot.LastRefreshAt,
			LastRefreshSuccess: snapshot.LastRefreshSuccess,
			LastResponseTimeMs: snapshot.LastResponseTime.Milliseconds(),
			LastError:          snapshot.LastError,
			TotalRequests:      snapshot.TotalRequests,
			TotalErrors:        snapshot.TotalErrors,
			PricedProducts:     priced,
		}
	}

	response.Database = h.getDatabaseStatus(ctx)

	writeJSON(w, http.StatusOK, response)
}

func (h *StatusHandler) getDatabaseStatus(ctx context.Context) models.DatabaseStatus {
	status := models.DatabaseStatus{}

	if h.db == nil {
		return status
	}
	status.Enabled = true

	if err := h.db.Ping(); err != nil {
		return status
	}
	status.Connected = true

	count, err := h.db.GetTotalPricesCount(ctx)
	if err == nil {
		status.TotalPricesStored = count
	}

	return status
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
