// Package pdf renders order receipts.
package pdf

import (
	"context"
	"io"
)

type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

// ReceiptData is the fully formatted content of a receipt. Amounts arrive as
// display strings; this package does no money arithmetic.
type ReceiptData struct {
	StoreName   string
	OrderNumber string
	OrderDate   string
	Status      string

	ShipToName    string
	ShipToAddress string

	Items []ReceiptItem

	Subtotal string
	Shipping string
	Total    string
}

type ReceiptItem struct {
	Description string
	Qty         int64
	UnitPrice   string
	Amount      string
}
