package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrNotFound              = errors.New("not_found")
	ErrInvalidID             = errors.New("invalid_id")
	ErrInvalidStatus         = errors.New("invalid_status")
	ErrInvalidRegion         = errors.New("invalid_region")
	ErrIncompleteAddress     = errors.New("incomplete_address")
	ErrMissingIdempotencyKey = errors.New("missing_idempotency_key")
	ErrInvalidPageToken      = errors.New("invalid_page_token")
	ErrFinalizeInProgress    = errors.New("finalize_in_progress")
)

// OutOfStockError rejects finalization of a cart containing an out-of-stock
// product.
type OutOfStockError struct {
	ProductID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out_of_stock: product %s", e.ProductID)
}

// ProductGoneError rejects finalization when a cart references a product
// that no longer exists. Historical orders keep their snapshots; new orders
// must not be created against vanished products.
type ProductGoneError struct {
	ProductID string
}

func (e *ProductGoneError) Error() string {
	return fmt.Sprintf("product_gone: product %s", e.ProductID)
}

// TransitionError rejects a status change outside the transition table.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid_transition: %s -> %s", e.From, e.To)
}
