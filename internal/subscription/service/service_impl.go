package service

import (
	"context"
	"strings"

	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/subscription/domain"
	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Repo   domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:   p.Config,
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Pause(ctx context.Context, id string) (*domain.Response, error) {
	return s.setStatus(ctx, id, domain.StatusPaused)
}

func (s *Service) Resume(ctx context.Context, id string) (*domain.Response, error) {
	return s.setStatus(ctx, id, domain.StatusActive)
}

func (s *Service) Cancel(ctx context.Context, id string) (*domain.Response, error) {
	return s.setStatus(ctx, id, domain.StatusCancelled)
}

func (s *Service) setStatus(ctx context.Context, id string, status domain.Status) (*domain.Response, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	subID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	sub, err := s.repo.FindByID(ctx, s.db, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.UserID != userID {
		return nil, domain.ErrNotFound
	}

	// Cancellation is final; a new subscription comes from a new order.
	if sub.Status == domain.StatusCancelled {
		return nil, domain.ErrCancelled
	}
	if sub.Status == status {
		resp := toResponse(sub)
		return &resp, nil
	}

	now := s.clock.Now()
	sub.Status = status
	sub.UpdatedAt = now
	switch status {
	case domain.StatusActive:
		next := now.Add(s.cfg.DeliveryInterval)
		sub.NextDelivery = &next
	case domain.StatusPaused, domain.StatusCancelled:
		sub.NextDelivery = nil
	}

	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription status changed",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("status", string(status)),
	)

	resp := toResponse(sub)
	return &resp, nil
}

func toResponse(sub *domain.Subscription) domain.Response {
	return domain.Response{
		ID:           sub.ID.String(),
		ProductID:    sub.ProductID.String(),
		ProductName:  sub.ProductName,
		Status:       sub.Status,
		NextDelivery: sub.NextDelivery,
		CreatedAt:    sub.CreatedAt,
	}
}
