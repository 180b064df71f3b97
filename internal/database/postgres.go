// Package database provides PostgreSQL export of the current fuel prices.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS fuel_prices (
		company    TEXT NOT NULL,
		product    TEXT NOT NULL,
		name       TEXT NOT NULL,
		price      NUMERIC(10, 2) NOT NULL,
		price_type TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (company, product)
	)
`

const upsertQuery = `
	INSERT INTO fuel_prices (company, product, name, price, price_type, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (company, product)
	DO UPDATE SET
		name = EXCLUDED.name,
		price = EXCLUDED.price,
		price_type = EXCLUDED.price_type,
		updated_at = EXCLUDED.updated_at
`

// Row is one exported price.
type Row struct {
	Company   string
	Product   string
	Name      string
	Price     float64
	PriceType string
	UpdatedAt time.Time
}

// Rows converts the priced products of a company into rows. Unpriced products are
// skipped.
func Rows(prices models.CompanyPrices) []Row {
	rows := make([]Row, 0, len(prices.Products))
	for _, p := range prices.Products {
		if p.Price == nil || p.LastUpdate == nil {
			continue
		}
		rows = append(rows, Row{
			Company:   prices.Key,
			Product:   string(p.Kind),
			Name:      p.Name,
			Price:     *p.Price,
			PriceType: string(priceType(p, prices.PriceType)),
			UpdatedAt: *p.LastUpdate,
		})
	}
	return rows
}

func priceType(p models.Product, fallback models.PriceType) models.PriceType {
	if p.PriceType != "" {
		return p.PriceType
	}
	return fallback
}

// DB wraps the PostgreSQL database connection holding the current prices.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New creates a new database connection.
func New(dsn string, logger zerolog.Logger) (*DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database connection: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{
		db:     db,
		logger: logger.With().Str("component", "database").Logger(),
	}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks if the database connection is alive.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// EnsureSchema creates the fuel_prices table if it does not exist.
func (d *DB) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// UpsertPrices writes the current price of every priced product of a company,
// overwriting the previous row of each (company, product) pair.
func (d *DB) UpsertPrices(ctx context.Context, prices models.CompanyPrices) error {
	rows := Rows(prices)
	if len(rows) == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Company, r.Product, r.Name, r.Price, r.PriceType, r.UpdatedAt); err != nil {
			return fmt.Errorf("upserting %s/%s: %w", r.Company, r.Product, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing prices: %w", err)
	}

	d.logger.Debug().
		Str("company", prices.Key).
		Int("rows", len(rows)).
		Msg("upserted prices")

	return nil
}

// GetTotalPricesCount returns the number of stored (company, product) rows.
func (d *DB) GetTotalPricesCount(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fuel_prices").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting prices: %w", err)
	}
	return count, nil
}
