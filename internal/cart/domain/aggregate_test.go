package domain

import (
	"testing"

	"github.com/anoralabs/storefront/internal/money"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestAggregate_EmptyCart(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Aggregate([]CartItem{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestAggregate_MergesByProduct(t *testing.T) {
	a := snowflake.ID(1001)
	b := snowflake.ID(1002)

	lines, err := Aggregate([]CartItem{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
		{ProductID: a, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, Line{ProductID: a, Quantity: 5}, lines[0])
	assert.Equal(t, Line{ProductID: b, Quantity: 1}, lines[1])
}

func TestSubtotal(t *testing.T) {
	a := snowflake.ID(1001)
	b := snowflake.ID(1002)
	prices := map[snowflake.ID]money.Money{
		a: money.MustFromCents(2200),
		b: money.MustFromCents(3000),
	}
	priceOf := func(id snowflake.ID) (money.Money, bool) {
		m, ok := prices[id]
		return m, ok
	}

	subtotal, err := Subtotal([]Line{
		{ProductID: a, Quantity: 2},
		{ProductID: b, Quantity: 1},
	}, priceOf)
	assert.NoError(t, err)
	assert.Equal(t, int64(7400), subtotal.Cents())
}

func TestSubtotal_MissingPrice(t *testing.T) {
	priceOf := func(snowflake.ID) (money.Money, bool) { return money.Zero, false }

	_, err := Subtotal([]Line{{ProductID: 1, Quantity: 1}}, priceOf)
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}
