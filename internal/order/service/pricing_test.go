package service

import (
	"testing"

	"github.com/anoralabs/storefront/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceQuoteFreeShippingAtThreshold(t *testing.T) {
	quote, err := PriceQuote(money.MustFromCents(7400), 4000, 500)
	require.NoError(t, err)

	assert.EqualValues(t, 7400, quote.Subtotal.Cents())
	assert.EqualValues(t, 0, quote.Shipping.Cents())
	assert.EqualValues(t, 7400, quote.Total.Cents())
}

func TestPriceQuoteExactThresholdIsFree(t *testing.T) {
	quote, err := PriceQuote(money.MustFromCents(4000), 4000, 500)
	require.NoError(t, err)

	assert.EqualValues(t, 0, quote.Shipping.Cents())
	assert.EqualValues(t, 4000, quote.Total.Cents())
}

func TestPriceQuoteFlatFeeBelowThreshold(t *testing.T) {
	quote, err := PriceQuote(money.MustFromCents(7400), 8000, 500)
	require.NoError(t, err)

	assert.EqualValues(t, 7400, quote.Subtotal.Cents())
	assert.EqualValues(t, 500, quote.Shipping.Cents())
	assert.EqualValues(t, 7900, quote.Total.Cents())
}

func TestPriceQuoteZeroFee(t *testing.T) {
	quote, err := PriceQuote(money.MustFromCents(100), 8000, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 0, quote.Shipping.Cents())
	assert.EqualValues(t, 100, quote.Total.Cents())
}

func TestPriceQuoteNegativeThreshold(t *testing.T) {
	_, err := PriceQuote(money.MustFromCents(100), -1, 500)
	assert.ErrorIs(t, err, money.ErrArithmetic)
}
