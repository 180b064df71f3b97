package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

func lookupOf(names map[string]models.ProductKind) Lookup {
	return func(name string) (models.ProductKind, bool) {
		k, ok := names[name]
		return k, ok
	}
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTable_FirstMatchingRowWins(t *testing.T) {
	doc := parse(t, `<table>
		<tr><th>Logo</th><th>Produkt</th><th>Pris</th></tr>
		<tr><td></td><td>miles95</td><td>13,49 kr.</td></tr>
		<tr><td></td><td>miles Diesel.</td><td>12,19 kr.</td></tr>
		<tr><td></td><td>miles95</td><td>99,99 kr.</td></tr>
	</table>`)

	updates := Table(doc, 1, 2, lookupOf(map[string]models.ProductKind{
		"miles95":      models.Octane95,
		"miles Diesel": models.Diesel,
	}))

	assert.Equal(t, []Update{
		{Kind: models.Octane95, Raw: "13,49 kr."},
		{Kind: models.Diesel, Raw: "12,19 kr."},
	}, updates)
}

func TestTable_SkipsShortRows(t *testing.T) {
	doc := parse(t, `<table>
		<tr><td>Diesel</td><td>12,00</td></tr>
		<tr><td>Diesel</td><td>x</td><td>y</td><td>z</td><td>a</td><td>b</td><td>c</td><td>11,85</td></tr>
	</table>`)

	updates := Table(doc, 0, 7, lookupOf(map[string]models.ProductKind{"Diesel": models.Diesel}))

	assert.Equal(t, []Update{{Kind: models.Diesel, Raw: "11,85"}}, updates)
}

func TestTable_NoMatches(t *testing.T) {
	doc := parse(t, `<table><tr><td>Fyringsolie</td><td>9,00</td></tr></table>`)

	updates := Table(doc, 0, 1, lookupOf(map[string]models.ProductKind{"Diesel": models.Diesel}))
	assert.Empty(t, updates)
}

func TestGrid(t *testing.T) {
	doc := parse(t, `<div role="grid">
		<div role="row"><div role="columnheader">Produkt</div><div role="columnheader">Pris</div></div>
		<div role="row"><div role="gridcell">Blyfri 95</div><div role="gridcell">13,59</div></div>
		<div role="row"><div role="gridcell">Beskrivelse: Oktan 100</div><div role="gridcell">14,29</div></div>
		<div role="row"><div role="gridcell">Blyfri 95</div><div role="gridcell">1,00</div></div>
	</div>`)

	updates := Grid(doc, 0, 1, lookupOf(map[string]models.ProductKind{
		"Blyfri 95": models.Octane95,
		"Oktan 100": models.Octane100,
	}))

	assert.Equal(t, []Update{
		{Kind: models.Octane95, Raw: "13,59"},
		{Kind: models.Octane100, Raw: "14,29"},
	}, updates)
}
