package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

func testPrices() []models.CompanyPrices {
	price := 4.1
	updated := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	return []models.CompanyPrices{
		{
			Key:       "shell",
			Name:      "Shell",
			URL:       "https://shellservice.dk",
			PriceType: models.PriceTypePump,
			Products: []models.Product{
				{Kind: models.QuickCharge, Name: "El/kWh", Price: &price, LastUpdate: &updated, PriceType: models.PriceTypeList},
				{Kind: models.Diesel, Name: "Shell FuelSave Diesel"},
			},
		},
	}
}

func TestPrintPrices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printPrices(&buf, testPrices()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "COMPANY"))
	assert.Contains(t, lines[1], "4.10 kr/kWh")
	assert.Contains(t, lines[1], "2024-03-01 12:30")
	assert.Contains(t, lines[1], "list")
	assert.Contains(t, lines[2], "Shell FuelSave Diesel")
	assert.Contains(t, lines[2], " -")
}

func TestPrintCompanies(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCompanies(&buf, testPrices()))

	out := buf.String()
	assert.Contains(t, out, "shell")
	assert.Contains(t, out, "El/kWh (quick-charge)")
	assert.Contains(t, out, "Shell FuelSave Diesel (diesel)")
}
