package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andygrunwald/fuelprices-dk/internal/models"
)

var testTemplate = []models.ProductSpec{
	{Kind: models.Octane95, Name: "Blyfri 95", ProductCode: 22253},
	{Kind: models.Diesel, Name: "Transportdiesel", Crop: &models.Crop{X: 58, Y: 289, Width: 134, Height: 46}},
	{Kind: models.QuickCharge, Name: "Lynlader"},
}

func TestNew_WholeTemplateWithoutFilter(t *testing.T) {
	c := New(testTemplate, nil)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []models.ProductKind{models.Octane95, models.Diesel, models.QuickCharge}, c.Kinds())

	for _, p := range c.Products() {
		assert.Nil(t, p.Price)
		assert.Nil(t, p.LastUpdate)
	}
}

func TestNew_Filter(t *testing.T) {
	c := New(testTemplate, []models.ProductKind{models.Diesel, models.Octane100})

	assert.Equal(t, []models.ProductKind{models.Diesel}, c.Kinds())
	assert.False(t, c.Has(models.Octane95))
	assert.False(t, c.Has(models.Octane100))

	_, ok := c.Lookup("Blyfri 95")
	assert.False(t, ok, "reverse index must follow the filter")

	kind, ok := c.Lookup("Transportdiesel")
	require.True(t, ok)
	assert.Equal(t, models.Diesel, kind)
}

func TestNew_DuplicateNamePanics(t *testing.T) {
	assert.Panics(t, func() {
		New([]models.ProductSpec{
			{Kind: models.Diesel, Name: "Diesel"},
			{Kind: models.DieselExtra, Name: "Diesel"},
		}, nil)
	})
}

func TestCatalog_InstancesDoNotShareState(t *testing.T) {
	a := New(testTemplate, nil)
	b := New(testTemplate, nil)

	require.NoError(t, a.Set(models.Octane95, 13.49, models.PriceTypePump))

	p, ok := b.Get(models.Octane95)
	require.True(t, ok)
	assert.Nil(t, p.Price)

	pa, _ := a.Get(models.Diesel)
	pa.Crop.X = 1
	pa2, _ := a.Get(models.Diesel)
	assert.Equal(t, 58, pa2.Crop.X)
	assert.Equal(t, 58, testTemplate[1].Crop.X)
}

func TestCatalog_Set(t *testing.T) {
	c := New(testTemplate, nil)
	fixed := time.Date(2024, 3, 1, 11, 30, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return fixed })

	require.NoError(t, c.Set(models.QuickCharge, 3.79, models.PriceTypePump))

	p, ok := c.Get(models.QuickCharge)
	require.True(t, ok)
	require.NotNil(t, p.Price)
	assert.Equal(t, 3.79, *p.Price)
	require.NotNil(t, p.LastUpdate)
	assert.True(t, p.LastUpdate.Equal(fixed))
	assert.Equal(t, "Europe/Copenhagen", p.LastUpdate.Location().String())
	assert.Equal(t, 12, p.LastUpdate.Hour())
	assert.Equal(t, models.PriceTypePump, p.PriceType)

	require.NoError(t, c.Set(models.QuickCharge, 3.59, models.PriceTypeList))
	p, _ = c.Get(models.QuickCharge)
	assert.Equal(t, 3.59, *p.Price)
	assert.Equal(t, models.PriceTypeList, p.PriceType)
}

func TestCatalog_SetUnknownKind(t *testing.T) {
	c := New(testTemplate, []models.ProductKind{models.Diesel})

	err := c.Set(models.Octane95, 1, models.PriceTypePump)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestCatalog_ProductsReturnsCopies(t *testing.T) {
	c := New(testTemplate, nil)
	require.NoError(t, c.Set(models.Octane95, 10, models.PriceTypePump))

	products := c.Products()
	*products[0].Price = 99

	p, _ := c.Get(models.Octane95)
	assert.Equal(t, 10.0, *p.Price)
}
