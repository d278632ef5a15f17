package domain

import (
	"errors"

	"github.com/anoralabs/storefront/internal/money"
	"github.com/bwmarrin/snowflake"
)

// ErrEmptyCart rejects finalization of carts with no line items.
var ErrEmptyCart = errors.New("empty_cart")

// Line is one merged (product, quantity) pair.
type Line struct {
	ProductID snowflake.ID
	Quantity  int64
}

// Aggregate merges cart rows by product. Rows are expected unique per
// product already; duplicate rows from older data still merge cleanly.
func Aggregate(items []CartItem) ([]Line, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[snowflake.ID]int, len(items))
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		if pos, ok := index[item.ProductID]; ok {
			lines[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, Line{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return lines, nil
}

// Subtotal computes Σ(unit price × quantity) over merged lines. priceOf
// reports the authoritative unit price for a product; a missing product is
// the caller's error to classify, so it surfaces as ok=false.
func Subtotal(lines []Line, priceOf func(snowflake.ID) (money.Money, bool)) (money.Money, error) {
	subtotal := money.Zero
	for _, line := range lines {
		unit, ok := priceOf(line.ProductID)
		if !ok {
			return money.Zero, ErrPriceUnavailable
		}
		lineTotal, err := unit.MulQty(line.Quantity)
		if err != nil {
			return money.Zero, err
		}
		subtotal, err = subtotal.Add(lineTotal)
		if err != nil {
			return money.Zero, err
		}
	}
	return subtotal, nil
}

// ErrPriceUnavailable signals a line without a resolvable unit price.
var ErrPriceUnavailable = errors.New("price_unavailable")
