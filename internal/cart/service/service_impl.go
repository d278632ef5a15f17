package service

import (
	"context"
	"strings"
	"time"

	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/cart/domain"
	"github.com/anoralabs/storefront/internal/money"
	"github.com/anoralabs/storefront/internal/observability/metrics"
	"github.com/anoralabs/storefront/internal/usercontext"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("cart.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) (*domain.CartResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.repo.FindByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, items)
}

func (s *Service) Add(ctx context.Context, req domain.AddRequest) (*domain.CartResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}
	if req.Quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.catalogRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	now := time.Now().UTC()
	existing, err := s.repo.FindByUserAndProduct(ctx, s.db, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += req.Quantity
		existing.UpdatedAt = now
		if err := s.repo.UpdateQuantity(ctx, s.db, existing); err != nil {
			return nil, err
		}
	} else {
		item := &domain.CartItem{
			ID:        s.genID.Generate(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  req.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, s.db, item); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordCartMutation(ctx, "add")
	return s.List(ctx)
}

func (s *Service) UpdateQuantity(ctx context.Context, req domain.UpdateQuantityRequest) (*domain.CartResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}

	existing, err := s.repo.FindByUserAndProduct(ctx, s.db, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrItemNotFound
	}

	// Quantity <= 0 removes the row, matching storefront decrement flows.
	if req.Quantity <= 0 {
		if err := s.repo.Delete(ctx, s.db, userID, productID); err != nil {
			return nil, err
		}
	} else {
		existing.Quantity = req.Quantity
		existing.UpdatedAt = time.Now().UTC()
		if err := s.repo.UpdateQuantity(ctx, s.db, existing); err != nil {
			return nil, err
		}
	}

	s.metrics.RecordCartMutation(ctx, "update_quantity")
	return s.List(ctx)
}

func (s *Service) Remove(ctx context.Context, productIDRaw string) (*domain.CartResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(productIDRaw))
	if err != nil {
		return nil, domain.ErrInvalidProduct
	}

	if err := s.repo.Delete(ctx, s.db, userID, productID); err != nil {
		return nil, err
	}

	s.metrics.RecordCartMutation(ctx, "remove")
	return s.List(ctx)
}

func (s *Service) Clear(ctx context.Context) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return domain.ErrUnauthenticated
	}

	if err := s.repo.DeleteByUser(ctx, s.db, userID); err != nil {
		return err
	}

	s.metrics.RecordCartMutation(ctx, "clear")
	return nil
}

// toResponse joins cart rows with live product data. Vanished products are
// flagged rather than dropped so clients can surface them; finalization has
// its own stricter policy.
func (s *Service) toResponse(ctx context.Context, items []domain.CartItem) (*domain.CartResponse, error) {
	resp := &domain.CartResponse{Items: make([]domain.ItemResponse, 0, len(items))}
	if len(items) == 0 {
		return resp, nil
	}

	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.catalogRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]catalogdomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	subtotal := money.Zero
	for _, item := range items {
		line := domain.ItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		}
		if p, ok := byID[item.ProductID]; ok {
			unit, err := money.FromCents(p.PriceCents)
			if err != nil {
				return nil, err
			}
			lineTotal, err := unit.MulQty(item.Quantity)
			if err != nil {
				return nil, err
			}
			line.ProductName = p.Name
			line.ProductSlug = p.Slug
			line.UnitPriceCents = p.PriceCents
			line.LineTotalCents = lineTotal.Cents()
			line.InStock = p.InStock
			subtotal, err = subtotal.Add(lineTotal)
			if err != nil {
				return nil, err
			}
		} else {
			line.Unavailable = true
		}
		resp.Items = append(resp.Items, line)
		resp.TotalItems += item.Quantity
	}
	resp.SubtotalCents = subtotal.Cents()

	return resp, nil
}
