package format

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	testCases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "grouping and padding", value: "1234.5", want: "1,234.50"},
		{name: "zero", value: "0", want: "0.00"},
		{name: "small", value: "7", want: "7.00"},
		{name: "rounds half away from zero", value: "2.005", want: "2.01"},
		{name: "millions", value: "1234567.891", want: "1,234,567.89"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Currency(decimal.RequireFromString(tc.value)))
		})
	}
}

func TestCurrencyLocale(t *testing.T) {
	f, err := NewFormatter("de-DE", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "1.234,50", f.Currency(decimal.NewFromFloat(1234.5)))
}

func TestCurrencyFloatInvalid(t *testing.T) {
	f := Default()
	assert.Equal(t, InvalidAmount, f.CurrencyFloat(math.NaN()))
	assert.Equal(t, InvalidAmount, f.CurrencyFloat(math.Inf(1)))
	assert.Equal(t, "12.30", f.CurrencyFloat(12.3))
}

func TestBidTime(t *testing.T) {
	f, err := NewFormatter("en-US", "UTC")
	require.NoError(t, err)

	assert.Equal(t, "Dec 4, 2025 12:05 AM", f.BidTime(time.Date(2025, 12, 4, 0, 5, 0, 0, time.UTC)))
	assert.Equal(t, "Jan 15, 2026 1:07 PM", f.BidTime(time.Date(2026, 1, 15, 13, 7, 59, 0, time.UTC)))
	assert.Equal(t, "Jul 1, 2025 12:00 PM", f.BidTime(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)))
}

func TestBidTimeConvertsToViewerZone(t *testing.T) {
	f, err := NewFormatter("en-US", "America/New_York")
	require.NoError(t, err)

	// 05:05 UTC is 00:05 in New York during standard time
	assert.Equal(t, "Dec 4, 2025 12:05 AM", f.BidTime(time.Date(2025, 12, 4, 5, 5, 0, 0, time.UTC)))
}

func TestNewFormatterRejectsBadInput(t *testing.T) {
	_, err := NewFormatter("not a locale!", "UTC")
	assert.Error(t, err)

	_, err = NewFormatter("en-US", "Nowhere/Land")
	assert.Error(t, err)
}
