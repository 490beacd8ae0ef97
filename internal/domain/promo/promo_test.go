package promo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		price    string
		discount int
		want     string
	}{
		{"899.99", 20, "719.99"},
		{"100.00", 0, "100"},
		{"100.00", 100, "0"},
		{"50.00", 10, "45"},
		{"19.99", 15, "16.99"},
		{"0.01", 50, "0.01"},
	}

	for _, tc := range cases {
		offer := Offer{DiscountPercentage: tc.discount}
		got := offer.DiscountedPrice(decimal.RequireFromString(tc.price))
		assert.Equal(t, tc.want, got.String(), "%s at %d%% off", tc.price, tc.discount)
	}
}

func TestNewOfferValidation(t *testing.T) {
	_, err := NewOffer(1, 1, -1, 1)
	assert.Error(t, err)

	_, err = NewOffer(1, 1, 101, 1)
	assert.Error(t, err)

	_, err = NewOffer(1, 1, 20, 0)
	assert.Error(t, err)

	offer, err := NewOffer(1, 2, 20, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offer.FlashSaleID)
	assert.Equal(t, int64(2), offer.ProductID)
}

func TestWindowContainsInclusiveBoundaries(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	sale := FlashSale{StartTime: start, EndTime: end, IsActive: true}

	assert.True(t, sale.WindowContains(start))
	assert.True(t, sale.WindowContains(end))
	assert.True(t, sale.WindowContains(start.Add(30*time.Minute)))
	assert.False(t, sale.WindowContains(start.Add(-time.Nanosecond)))
	assert.False(t, sale.WindowContains(end.Add(time.Nanosecond)))
}

func TestTemporallyActiveRequiresFlag(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sale := FlashSale{StartTime: start, EndTime: start.Add(time.Hour), IsActive: false}

	assert.False(t, sale.TemporallyActive(start.Add(time.Minute)))

	sale.IsActive = true
	assert.True(t, sale.TemporallyActive(start.Add(time.Minute)))
}

func TestNewFlashSaleValidation(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := NewFlashSale("", start, start.Add(time.Hour))
	assert.Error(t, err)

	_, err = NewFlashSale("Sale", start, start)
	assert.Error(t, err)

	_, err = NewFlashSale("Sale", start.Add(time.Hour), start)
	assert.Error(t, err)

	sale, err := NewFlashSale("Sale", start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, sale.IsActive)
}
