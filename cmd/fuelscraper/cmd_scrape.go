package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

func scrapeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run a one-time refresh and print the prices",
		Long:  "Refreshes the selected companies once and prints their current prices. Useful for testing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			kinds, err := cfg.ProductKinds()
			if err != nil {
				return err
			}

			logger.Info().
				Strs("companies", cfg.Companies).
				Msg("running one-time refresh")

			ctx := context.Background()

			s := scraper.New(logger, companyOptions(logger))
			s.Load(cfg.Companies, kinds)

			if cfg.PostgresDSN != "" {
				db, err := openDatabase(ctx, logger)
				if err != nil {
					return err
				}
				defer db.Close()
				s.SetStore(db)
			}

			s.Refresh(ctx)

			logger.Info().Msg("refresh completed")

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(s.Prices())
			}
			return printPrices(os.Stdout, s.Prices())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the prices as JSON")

	return cmd
}
