package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Pause(ctx context.Context, id string) (*Response, error)
	Resume(ctx context.Context, id string) (*Response, error)
	Cancel(ctx context.Context, id string) (*Response, error)
}

type Response struct {
	ID           string     `json:"id"`
	ProductID    string     `json:"product_id"`
	ProductName  string     `json:"product_name"`
	Status       Status     `json:"status"`
	NextDelivery *time.Time `json:"next_delivery,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrCancelled       = errors.New("subscription_cancelled")
)
