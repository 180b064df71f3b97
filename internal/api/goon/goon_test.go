package goon

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/api/company"
	"github.com/andygrunwald/fuelprices-dk/internal/fetch/fetchtest"
	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

const page = `<html><body>
<img class="lazyload" data-src="/wp-content/uploads/priser.png" src="data:image/gif;base64,">
<table>
<tr><th>Produkt</th><th>1</th><th>2</th><th>3</th><th>4</th><th>5</th><th>6</th><th>Listepris</th></tr>
<tr><td>Blyfri 95</td><td></td><td></td><td></td><td></td><td></td><td></td><td>14,29</td></tr>
<tr><td>Transportdiesel</td><td></td><td></td><td></td><td></td><td></td><td></td><td>12,99</td></tr>
</table>
</body></html>`

const imageURL = "https://goon.nu/wp-content/uploads/priser.png"

type fakeEngine struct {
	available bool
	texts     map[models.Crop]string
	images    []string
}

func (f *fakeEngine) Available() bool { return f.available }

func (f *fakeEngine) Recognize(_ context.Context, imagePath string, crop models.Crop) (string, error) {
	f.images = append(f.images, imagePath)
	return f.texts[crop], nil
}

func newTransport() *fetchtest.Transport {
	return fetchtest.NewTransport().
		Handle(baseURL, fetchtest.HTML(page)).
		Handle(imageURL, fetchtest.Body("image/png", "PNG"))
}

func TestProvider_FallsBackToListPrices(t *testing.T) {
	tr := newTransport()
	p := New(company.Options{Transport: tr, OCR: &fakeEngine{}, DataDir: t.TempDir()})

	require.NoError(t, p.RefreshPrices(context.Background()))

	assert.Equal(t, models.PriceTypeList, p.PriceType())

	prod, _ := p.Product(models.Octane95)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 14.29, *prod.Price)

	prod, _ = p.Product(models.Diesel)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 12.99, *prod.Price)

	assert.Len(t, tr.Requests(), 1, "no image download without OCR")
}

func TestProvider_ReadsPumpPricesWithOCR(t *testing.T) {
	tr := newTransport()
	engine := &fakeEngine{
		available: true,
		texts: map[models.Crop]string{
			{X: 58, Y: 232, Width: 134, Height: 46}: "13.79",
			{X: 58, Y: 289, Width: 134, Height: 46}: "",
		},
	}
	dir := t.TempDir()
	p := New(company.Options{Transport: tr, OCR: engine, DataDir: dir})

	require.NoError(t, p.RefreshPrices(context.Background()))

	assert.Equal(t, models.PriceTypePump, p.PriceType())

	prod, _ := p.Product(models.Octane95)
	require.NotNil(t, prod.Price)
	assert.Equal(t, 13.79, *prod.Price)

	prod, _ = p.Product(models.Diesel)
	assert.Nil(t, prod.Price, "empty OCR output leaves the product untouched")

	data, err := os.ReadFile(p.ImagePath())
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(data))
	assert.Equal(t, []string{p.ImagePath(), p.ImagePath()}, engine.images)
}

func TestProvider_MissingImage(t *testing.T) {
	tr := fetchtest.NewTransport().Handle(baseURL, fetchtest.HTML(`<html><body></body></html>`))
	p := New(company.Options{Transport: tr, OCR: &fakeEngine{available: true}, DataDir: t.TempDir()})

	assert.ErrorIs(t, p.RefreshPrices(context.Background()), ErrImageNotFound)
}

func TestProvider_ListPriceStaysListAfterSwitchToOCR(t *testing.T) {
	engine := &fakeEngine{
		texts: map[models.Crop]string{
			{X: 58, Y: 232, Width: 134, Height: 46}: "13.79",
			{X: 58, Y: 289, Width: 134, Height: 46}: "",
		},
	}
	p := New(company.Options{Transport: newTransport(), OCR: engine, DataDir: t.TempDir()})

	require.NoError(t, p.RefreshPrices(context.Background()))

	engine.available = true
	require.NoError(t, p.RefreshPrices(context.Background()))

	assert.Equal(t, models.PriceTypePump, p.PriceType())

	octane, _ := p.Product(models.Octane95)
	require.NotNil(t, octane.Price)
	assert.Equal(t, 13.79, *octane.Price)
	assert.Equal(t, models.PriceTypePump, octane.PriceType)

	diesel, _ := p.Product(models.Diesel)
	require.NotNil(t, diesel.Price)
	assert.Equal(t, 12.99, *diesel.Price)
	assert.Equal(t, models.PriceTypeList, diesel.PriceType)
}
