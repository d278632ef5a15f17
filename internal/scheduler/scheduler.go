// Package scheduler advances subscription delivery dates in the background.
package scheduler

import (
	"context"
	"time"

	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/observability/metrics"
	"github.com/anoralabs/storefront/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchSize = 100

type Params struct {
	fx.In

	Config  config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

// Scheduler periodically scans for active subscriptions whose delivery date
// has passed and pushes next_delivery forward by the configured interval.
type Scheduler struct {
	cfg     config.Config
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    domain.Repository
	metrics *metrics.Metrics

	stop chan struct{}
	done chan struct{}
}

func New(p Params) *Scheduler {
	return &Scheduler{
		cfg:     p.Config,
		db:      p.DB,
		log:     p.Log.Named("scheduler"),
		clock:   p.Clock,
		repo:    p.Repo,
		metrics: p.Metrics,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// AdvanceDue rolls every due subscription forward one interval and returns
// how many were advanced. Dates that have fallen multiple intervals behind
// catch up in steps so each missed delivery is observable.
func (s *Scheduler) AdvanceDue(ctx context.Context) (int64, error) {
	if s.cfg.DeliveryInterval <= 0 {
		return 0, nil
	}

	now := s.clock.Now()
	var advanced int64

	// Rows several intervals behind stay due after one step and are picked
	// up again on the next sweep, so each missed delivery counts.
	for {
		due, err := s.repo.FindDue(ctx, s.db, now, batchSize)
		if err != nil {
			return advanced, err
		}
		if len(due) == 0 {
			return advanced, nil
		}

		for i := range due {
			sub := &due[i]
			next := sub.NextDelivery.Add(s.cfg.DeliveryInterval)
			sub.NextDelivery = &next
			sub.UpdatedAt = now
			if err := s.repo.Update(ctx, s.db, sub); err != nil {
				return advanced, err
			}
			advanced++
		}
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.DeliveryPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DeliveryPollInterval)
			advanced, err := s.AdvanceDue(ctx)
			cancel()
			if err != nil {
				s.log.Warn("delivery advance failed", zap.Error(err))
				continue
			}
			if advanced > 0 {
				if s.metrics != nil {
					s.metrics.RecordDeliveryAdvanced(context.Background(), advanced)
				}
				s.log.Info("deliveries advanced", zap.Int64("count", advanced))
			}
		}
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				go s.run()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				close(s.stop)
				select {
				case <-s.done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}),
)
