package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andygrunwald/fuelprices-dk/internal/catalog"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/pricing"
)

// printPrices writes one line per subscribed product.
func printPrices(w io.Writer, prices []models.CompanyPrices) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tPRODUCT\tNAME\tPRICE\tTYPE\tUPDATED")

	for _, c := range prices {
		for _, p := range c.Products {
			price, priceType, updated := "-", "-", "-"
			if p.Price != nil {
				price = pricing.Format(*p.Price) + " " + p.Kind.Unit()
			}
			if p.PriceType != "" {
				priceType = string(p.PriceType)
			}
			if p.LastUpdate != nil {
				updated = p.LastUpdate.In(catalog.Location).Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Name, p.Kind, p.Name, price, priceType, updated)
		}
	}

	return tw.Flush()
}

// printCompanies writes the companies and the names of their products.
func printCompanies(w io.Writer, prices []models.CompanyPrices) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tNAME\tURL\tPRODUCTS")

	for _, c := range prices {
		for i, p := range c.Products {
			if i == 0 {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s (%s)\n", c.Key, c.Name, c.URL, p.Name, p.Kind)
				continue
			}
			fmt.Fprintf(tw, "\t\t\t%s (%s)\n", p.Name, p.Kind)
		}
	}

	return tw.Flush()
}
