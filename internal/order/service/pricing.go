package service

import (
	"github.com/anoralabs/storefront/internal/money"
)

// Quote is the priced outcome of a cart against a region's shipping policy.
type Quote struct {
	Subtotal money.Money
	Shipping money.Money
	Total    money.Money
}

// PriceQuote applies the region's free-shipping threshold: shipping is free
// at or above the threshold, otherwise the configured flat fee applies.
// Everything stays in integer cents.
func PriceQuote(subtotal money.Money, thresholdCents, flatFeeCents int64) (Quote, error) {
	threshold, err := money.FromCents(thresholdCents)
	if err != nil {
		return Quote{}, err
	}

	shipping := money.Zero
	if !subtotal.GTE(threshold) {
		shipping, err = money.FromCents(flatFeeCents)
		if err != nil {
			return Quote{}, err
		}
	}

	total, err := subtotal.Add(shipping)
	if err != nil {
		return Quote{}, err
	}

	return Quote{Subtotal: subtotal, Shipping: shipping, Total: total}, nil
}
