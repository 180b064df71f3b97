// Package extract implements the document scans shared by several companies.
package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
	"github.com/andygrunwald/fuelprices-dk/internal/pricing"
)

// Update is a raw price found for a product.
type Update struct {
	Kind models.ProductKind
	Raw  string
}

// Lookup resolves a cleaned display name to a product kind.
type Lookup func(name string) (models.ProductKind, bool)

// Table scans <tr> rows and their <td> cells.
func Table(doc *goquery.Document, productCol, priceCol int, lookup Lookup) []Update {
	return Rows(doc, "tr", "td", productCol, priceCol, lookup)
}

// Grid scans elements with role "row" and their cells with role "gridcell".
func Grid(doc *goquery.Document, productCol, priceCol int, lookup Lookup) []Update {
	return Rows(doc, `[role="row"]`, `[role="gridcell"]`, productCol, priceCol, lookup)
}

// Rows matches the cleaned text of the cell at productCol against lookup and takes the
// price from the cell at priceCol. Rows too short for both columns are skipped. The
// first row matching a display name wins; later rows with the same name are ignored.
func Rows(doc *goquery.Document, rowSel, cellSel string, productCol, priceCol int, lookup Lookup) []Update {
	need := max(productCol, priceCol) + 1
	seen := make(map[string]bool)

	var updates []Update
	doc.Find(rowSel).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find(cellSel)
		if cells.Length() < need {
			return
		}

		name := pricing.CleanProductName(cells.Eq(productCol).Text())
		if seen[name] {
			return
		}

		kind, ok := lookup(name)
		if !ok {
			return
		}

		seen[name] = true
		updates = append(updates, Update{Kind: kind, Raw: cells.Eq(priceCol).Text()})
	})

	return updates
}
