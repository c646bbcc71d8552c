package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v79"

	config "github.com/tbeaudouin05/otmens-intake/api/config"
)

func TestSavingsPercent(t *testing.T) {
	// 399*6 = 2394; (2394-1914)/2394 = 20.05%
	assert.Equal(t, int64(20), SavingsPercent(39900, 6, 191400))
	assert.Equal(t, int64(12), SavingsPercent(39900, 3, 104900))
	assert.Equal(t, int64(0), SavingsPercent(39900, 3, 119700), "no discount")
	assert.Equal(t, int64(0), SavingsPercent(39900, 3, 150000), "more expensive")
	assert.Equal(t, int64(0), SavingsPercent(0, 3, 100))
}

func TestPriceLabel(t *testing.T) {
	cases := []struct {
		price stripe.Price
		want  string
	}{
		{stripe.Price{}, "One-time payment"},
		{monthlyPrice("a", 1, 1), "Monthly"},
		{monthlyPrice("b", 3, 1), "Every 3 months"},
		{monthlyPrice("c", 6, 1), "Every 6 months"},
		{stripe.Price{Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalYear, IntervalCount: 1}}, "Yearly"},
		{stripe.Price{Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalYear, IntervalCount: 2}}, "Every 2 years"},
		{stripe.Price{Recurring: &stripe.PriceRecurring{Interval: stripe.PriceRecurringIntervalWeek, IntervalCount: 2}}, "Every 2 week(s)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PriceLabel(c.price))
	}
}

func TestGetProduct_SortsAndLabels(t *testing.T) {
	f := &fakeGateway{
		product: stripe.Product{ID: "prod_1", Name: "Tirzepatide", Description: "GLP-1"},
		prices: []stripe.Price{
			monthlyPrice("price_12", 12, 480000),
			monthlyPrice("price_6", 6, 191400),
			monthlyPrice("price_1", 1, 39900),
			monthlyPrice("price_3", 3, 104900),
		},
	}
	cat := config.Catalog{
		ProductID:     "prod_1",
		PriceOrder:    []string{"price_1", "price_3", "price_6"},
		FallbackImage: "https://img.example/fallback.webp",
	}
	prod, err := NewService(f, WithCatalog(cat)).GetProduct(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "https://img.example/fallback.webp", prod.Image)
	require.Len(t, prod.Prices, 4)
	var ids []string
	for _, p := range prod.Prices {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"price_1", "price_3", "price_6", "price_12"}, ids)

	monthly, six := prod.Prices[0], prod.Prices[2]
	assert.Equal(t, "Monthly", monthly.Label)
	assert.Equal(t, "month", monthly.Interval)
	assert.Zero(t, monthly.MonthlyAmount)
	assert.Zero(t, monthly.SavingsPercent)
	assert.Equal(t, "$399.00", monthly.DisplayAmount)

	assert.Equal(t, "Every 6 months", six.Label)
	assert.Equal(t, int64(31900), six.MonthlyAmount)
	assert.Equal(t, int64(20), six.SavingsPercent)

	assert.Zero(t, prod.Prices[3].SavingsPercent, "12 months at 4800 is not cheaper")
}

func TestGetProduct_UnlistedPricesSortByIntervalCount(t *testing.T) {
	f := &fakeGateway{
		product: stripe.Product{ID: "prod_1", Images: []string{"https://img.example/own.webp"}},
		prices: []stripe.Price{
			monthlyPrice("p6", 6, 6),
			{ID: "once", UnitAmount: 5000, Currency: stripe.CurrencyUSD},
			monthlyPrice("p3", 3, 3),
		},
	}
	prod, err := NewService(f, WithCatalog(config.Catalog{ProductID: "prod_1"})).GetProduct(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/own.webp", prod.Image)
	assert.Equal(t, "once", prod.Prices[0].ID)
	assert.Equal(t, "one_time", prod.Prices[0].Interval)
	assert.Equal(t, int64(1), prod.Prices[0].IntervalCount)
	assert.Equal(t, "One-time payment", prod.Prices[0].Label)
	assert.Equal(t, "p3", prod.Prices[1].ID)
	assert.Equal(t, "p6", prod.Prices[2].ID)
}

func TestGetProduct_Error(t *testing.T) {
	f := &fakeGateway{catalogErr: errors.New("stripe down")}
	_, err := NewService(f).GetProduct(context.Background())
	assert.ErrorIs(t, err, ErrGateway)
}
