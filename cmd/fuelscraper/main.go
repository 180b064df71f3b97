// Package main provides the entry point for the fuel price scraper CLI.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/config"
	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
	// BuildDate is set at build time.
	BuildDate = "unknown"
)

var (
	// cfg is the effective configuration, built before every command runs.
	cfg *config.Config
	// flags receives the values of the global flags.
	flags      = config.DefaultConfig()
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fuelscraper",
		Short: "Fuel Price Scraper - Current fuel and charging prices of Danish retailers",
		Long: `Fuel Price Scraper reads the current fuel and charging prices published by
Danish fuel retailers and exposes them over HTTP.

Features:
  - Nine retailers (OK, Shell, Circle K, F24, Q8, Ingo, OIL!, Go' On, Uno-X)
  - Refresh on a configurable interval
  - Optional export of the current prices to PostgreSQL
  - Prometheus metrics endpoint
  - Status and price endpoints for operational visibility`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&flags.PostgresDSN, "postgres-dsn", flags.PostgresDSN, "PostgreSQL connection string for the price export")
	rootCmd.PersistentFlags().StringSliceVar(&flags.Companies, "companies", nil, "Comma-separated list of companies: "+strings.Join(scraper.CompanyKeys(), ", ")+" (default all)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.Products, "products", nil, "Comma-separated list of product kinds (default all)")
	rootCmd.PersistentFlags().StringVar(&flags.DataDir, "data-dir", flags.DataDir, "Directory for downloaded price images")
	rootCmd.PersistentFlags().StringVar(&flags.OCR.Binary, "ocr-binary", flags.OCR.Binary, "Seven segment OCR executable")
	rootCmd.PersistentFlags().DurationVar((*time.Duration)(&flags.OCR.Timeout), "ocr-timeout", time.Duration(flags.OCR.Timeout), "Timeout of one OCR invocation")

	// Add subcommands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(companiesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from defaults, the config file, the
// environment and the flags set on the command line, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if configPath != "" {
		if err := c.LoadFile(configPath); err != nil {
			return nil, err
		}
	}
	c.LoadFromEnv()

	fs := cmd.Flags()
	if fs.Changed("log-level") {
		c.LogLevel = flags.LogLevel
	}
	if fs.Changed("log-format") {
		c.LogFormat = flags.LogFormat
	}
	if fs.Changed("postgres-dsn") {
		c.PostgresDSN = flags.PostgresDSN
	}
	if fs.Changed("companies") {
		c.Companies = flags.Companies
	}
	if fs.Changed("products") {
		c.Products = flags.Products
	}
	if fs.Changed("data-dir") {
		c.DataDir = flags.DataDir
	}
	if fs.Changed("ocr-binary") {
		c.OCR.Binary = flags.OCR.Binary
	}
	if fs.Changed("ocr-timeout") {
		c.OCR.Timeout = flags.OCR.Timeout
	}
	if fs.Changed("http-addr") {
		c.HTTPAddr = flags.HTTPAddr
	}
	if fs.Changed("refresh-interval") {
		c.RefreshInterval = flags.RefreshInterval
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func setupLogger() zerolog.Logger {
	var logger zerolog.Logger

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Logs go to stderr so command output on stdout stays clean
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stderr).
			With().
			Timestamp().
			Logger()
	}

	return logger
}

// companyOptions returns the options shared by every company.
func companyOptions(logger zerolog.Logger) company.Options {
	return company.Options{
		Logger:     logger,
		DataDir:    cfg.DataDir,
		OCRBinary:  cfg.OCR.Binary,
		OCRTimeout: time.Duration(cfg.OCR.Timeout),
	}
}
