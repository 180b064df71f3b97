package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/andygrunwald/fuelprices-dk/internal/scraper"
)

func companiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List the known companies and their products",
		Long:  "Lists the selected companies with the products they are subscribed to. No requests are made.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			kinds, err := cfg.ProductKinds()
			if err != nil {
				return err
			}

			s := scraper.New(logger, companyOptions(zerolog.Nop()))
			s.Load(cfg.Companies, kinds)

			return printCompanies(os.Stdout, s.Prices())
		},
	}
}
