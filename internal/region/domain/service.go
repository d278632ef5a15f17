package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	GetByCode(ctx context.Context, code string) (*Response, error)
}

type Response struct {
	ID                         string `json:"id"`
	Name                       string `json:"name"`
	Code                       string `json:"code"`
	Flag                       string `json:"flag"`
	Currency                   string `json:"currency"`
	FreeShippingThresholdCents int64  `json:"free_shipping_threshold_cents"`
}

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidCode = errors.New("invalid_code")
)
