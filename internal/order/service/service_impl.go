package service

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/locks"
	"github.com/anoralabs/storefront/internal/money"
	"github.com/anoralabs/storefront/internal/observability/metrics"
	"github.com/anoralabs/storefront/internal/order/domain"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	subscriptiondomain "github.com/anoralabs/storefront/internal/subscription/domain"
	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/anoralabs/storefront/pkg/db"
	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/anoralabs/storefront/pkg/rls"
	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultRegionCode = "global"
	defaultPageSize   = 20
)

type Params struct {
	fx.In

	Config   config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	CartRepo cartdomain.Repository
	Catalog  catalogdomain.Service
	Regions  regiondomain.Repository
	Subs     subscriptiondomain.Repository
	Locker   *locks.Locker    `optional:"true"`
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	cartRepo cartdomain.Repository
	catalog  catalogdomain.Service
	regions  regiondomain.Repository
	subs     subscriptiondomain.Repository
	locker   *locks.Locker
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		cfg:      p.Config,
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		cartRepo: p.CartRepo,
		catalog:  p.Catalog,
		regions:  p.Regions,
		subs:     p.Subs,
		locker:   p.Locker,
		metrics:  p.Metrics,
	}
}

func (s *Service) Finalize(ctx context.Context, req domain.FinalizeRequest) (*domain.Response, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		s.reject(ctx, "missing_idempotency_key")
		return nil, domain.ErrMissingIdempotencyKey
	}
	if !req.ShippingAddress.IsComplete() {
		s.reject(ctx, "incomplete_address")
		return nil, domain.ErrIncompleteAddress
	}

	// Fast path: a resubmitted key returns the stored order untouched.
	if existing, err := s.repo.FindByIdempotencyKey(ctx, s.db, userID, key); err != nil {
		return nil, err
	} else if existing != nil {
		return s.respond(ctx, existing)
	}

	if s.locker != nil {
		lockKey := "finalize:" + userID
		token, acquired, err := s.locker.TryLock(ctx, lockKey, s.cfg.FinalizeLockTTL)
		if err != nil {
			s.log.Warn("finalize lock unavailable, proceeding without it", zap.Error(err))
		} else if !acquired {
			s.reject(ctx, "finalize_in_progress")
			return nil, domain.ErrFinalizeInProgress
		} else {
			defer func() {
				if err := s.locker.Release(ctx, lockKey, token); err != nil {
					s.log.Warn("finalize lock release failed", zap.Error(err))
				}
			}()
		}
	}

	var order *domain.Order
	var items []domain.OrderItem
	var regionCode string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.db.Dialector.Name() == "postgres" {
			if err := rls.WithUser(tx, userID); err != nil {
				return err
			}
		}

		cartItems, err := s.cartRepo.FindByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		lines, err := cartdomain.Aggregate(cartItems)
		if err != nil {
			return err
		}

		ids := make([]snowflake.ID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		snapshots, err := s.catalog.Snapshot(ctx, tx, ids)
		if err != nil {
			return err
		}
		for _, line := range lines {
			snap, ok := snapshots[line.ProductID]
			if !ok {
				return &domain.ProductGoneError{ProductID: line.ProductID.String()}
			}
			if !snap.InStock {
				return &domain.OutOfStockError{ProductID: line.ProductID.String()}
			}
		}

		subtotal, err := cartdomain.Subtotal(lines, func(id snowflake.ID) (money.Money, bool) {
			snap, ok := snapshots[id]
			if !ok {
				return money.Zero, false
			}
			unit, err := money.FromCents(snap.PriceCents)
			if err != nil {
				return money.Zero, false
			}
			return unit, true
		})
		if err != nil {
			return err
		}

		region, err := s.resolveRegion(ctx, tx, req.RegionCode)
		if err != nil {
			return err
		}
		regionCode = region.Code

		quote, err := PriceQuote(subtotal, region.FreeShippingThresholdCents, s.cfg.FlatShippingFeeCents)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		order = &domain.Order{
			ID:             s.genID.Generate(),
			Number:         "ORD-" + ulid.Make().String(),
			UserID:         userID,
			IdempotencyKey: key,
			RegionID:       region.ID,
			Address:        req.ShippingAddress,
			SubtotalCents:  quote.Subtotal.Cents(),
			ShippingCents:  quote.Shipping.Cents(),
			TotalCents:     quote.Total.Cents(),
			Status:         domain.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		items = make([]domain.OrderItem, 0, len(lines))
		for _, line := range lines {
			snap := snapshots[line.ProductID]
			productID := line.ProductID
			items = append(items, domain.OrderItem{
				ID:             s.genID.Generate(),
				OrderID:        order.ID,
				ProductID:      &productID,
				ProductName:    snap.Name,
				UnitPriceCents: snap.PriceCents,
				Quantity:       line.Quantity,
				CreatedAt:      now,
			})
		}

		if err := s.repo.Create(ctx, tx, order, items); err != nil {
			return err
		}

		if err := s.ensureSubscriptions(ctx, tx, userID, lines, snapshots, now); err != nil {
			return err
		}

		return s.cartRepo.DeleteByUser(ctx, tx, userID)
	})
	if err != nil {
		// A concurrent submit with the same key beat us to the insert;
		// the stored order is the canonical outcome.
		if db.IsDuplicateKeyErr(err) {
			existing, ferr := s.repo.FindByIdempotencyKey(ctx, s.db, userID, key)
			if ferr == nil && existing != nil {
				return s.respond(ctx, existing)
			}
		}
		s.reject(ctx, rejectReason(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderFinalized(ctx, regionCode)
	}
	s.log.Info("order finalized",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.Number),
		zap.Int64("total_cents", order.TotalCents),
	)

	resp, err := toResponse(order, items)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) TransitionStatus(ctx context.Context, id string, status string) (*domain.Response, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	requested, ok := domain.ParseStatus(status)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	// Compare-and-swap on the previous status. The transition table is
	// acyclic, so a lost swap either revalidates against the winner's state
	// or fails with a TransitionError after finitely many retries.
	for {
		order, err := s.repo.FindByID(ctx, s.db, orderID)
		if err != nil {
			return nil, err
		}
		if order == nil || order.UserID != userID {
			return nil, domain.ErrNotFound
		}

		next, err := domain.ValidateTransition(order.Status, requested)
		if err != nil {
			return nil, err
		}

		from := order.Status
		order.Status = next
		order.UpdatedAt = s.clock.Now()
		updated, err := s.repo.UpdateStatus(ctx, s.db, order, from)
		if err != nil {
			return nil, err
		}
		if !updated {
			continue
		}

		if s.metrics != nil {
			s.metrics.RecordStatusTransition(ctx, string(from), string(next))
		}
		s.log.Info("order status changed",
			zap.String("order_id", order.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(next)),
		)

		return s.respond(ctx, order)
	}
}

func (s *Service) List(ctx context.Context, page pagination.Pagination) (*domain.ListResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}

	var cursor *pagination.Cursor
	if strings.TrimSpace(page.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, domain.ErrInvalidPageToken
		}
		cursor = decoded
	}

	// Fetch one extra row to learn whether another page exists.
	orders, err := s.repo.FindByUser(ctx, s.db, userID, limit+1, cursor)
	if err != nil {
		return nil, err
	}

	refs := make([]*domain.Order, len(orders))
	for i := range orders {
		refs[i] = &orders[i]
	}
	pageInfo := pagination.BuildCursorPageInfo(refs, limit, func(o *domain.Order) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        o.ID.String(),
			CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if len(orders) > limit {
		orders = orders[:limit]
	}

	resp := make([]domain.Response, 0, len(orders))
	for i := range orders {
		items, err := s.repo.FindItems(ctx, s.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		r, err := toResponse(&orders[i], items)
		if err != nil {
			return nil, err
		}
		resp = append(resp, r)
	}
	return &domain.ListResponse{Orders: resp, PageInfo: pageInfo}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, domain.ErrNotFound
	}

	return s.respond(ctx, order)
}

func (s *Service) resolveRegion(ctx context.Context, tx *gorm.DB, code string) (*regiondomain.Region, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = defaultRegionCode
	}
	region, err := s.regions.FindByCode(ctx, tx, code)
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, domain.ErrInvalidRegion
	}
	return region, nil
}

// ensureSubscriptions creates active subscriptions for subscription-type
// products in the order. Cancelled or paused rows for the same pair are
// reactivated rather than duplicated.
func (s *Service) ensureSubscriptions(
	ctx context.Context,
	tx *gorm.DB,
	userID string,
	lines []cartdomain.Line,
	snapshots map[snowflake.ID]catalogdomain.Snapshot,
	now time.Time,
) error {
	for _, line := range lines {
		snap := snapshots[line.ProductID]
		if snap.ProductType != catalogdomain.ProductTypeSubscription {
			continue
		}

		next := now.Add(s.cfg.DeliveryInterval)
		existing, err := s.subs.FindByUserAndProduct(ctx, tx, userID, line.ProductID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status == subscriptiondomain.StatusActive {
				continue
			}
			existing.Status = subscriptiondomain.StatusActive
			existing.NextDelivery = &next
			existing.UpdatedAt = now
			if err := s.subs.Update(ctx, tx, existing); err != nil {
				return err
			}
			continue
		}

		sub := &subscriptiondomain.Subscription{
			ID:           s.genID.Generate(),
			UserID:       userID,
			ProductID:    line.ProductID,
			ProductName:  snap.Name,
			Status:       subscriptiondomain.StatusActive,
			NextDelivery: &next,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.subs.Create(ctx, tx, sub); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) respond(ctx context.Context, order *domain.Order) (*domain.Response, error) {
	items, err := s.repo.FindItems(ctx, s.db, order.ID)
	if err != nil {
		return nil, err
	}
	resp, err := toResponse(order, items)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) reject(ctx context.Context, reason string) {
	if s.metrics != nil {
		s.metrics.RecordOrderRejected(ctx, reason)
	}
}

func rejectReason(err error) string {
	var oos *domain.OutOfStockError
	var gone *domain.ProductGoneError
	switch {
	case errors.Is(err, cartdomain.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, domain.ErrInvalidRegion):
		return "invalid_region"
	case errors.As(err, &oos):
		return "out_of_stock"
	case errors.As(err, &gone):
		return "product_gone"
	default:
		return "internal"
	}
}

func toResponse(order *domain.Order, items []domain.OrderItem) (domain.Response, error) {
	itemResponses := make([]domain.ItemResponse, 0, len(items))
	for _, item := range items {
		unit, err := money.FromCents(item.UnitPriceCents)
		if err != nil {
			return domain.Response{}, err
		}
		lineTotal, err := unit.MulQty(item.Quantity)
		if err != nil {
			return domain.Response{}, err
		}
		ir := domain.ItemResponse{
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: lineTotal.Cents(),
		}
		if item.ProductID != nil {
			ir.ProductID = item.ProductID.String()
		}
		itemResponses = append(itemResponses, ir)
	}

	total, err := money.FromCents(order.TotalCents)
	if err != nil {
		return domain.Response{}, err
	}

	return domain.Response{
		ID:              order.ID.String(),
		Number:          order.Number,
		Status:          order.Status,
		ShippingAddress: order.Address,
		Items:           itemResponses,
		SubtotalCents:   order.SubtotalCents,
		ShippingCents:   order.ShippingCents,
		TotalCents:      order.TotalCents,
		TotalDisplay:    total.Display(),
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}, nil
}
