package service

import (
	"context"
	"strings"
	"time"

	"github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/money"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	RegionRepo regiondomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	regionRepo regiondomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("catalog.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		regionRepo: p.RegionRepo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	var regionID snowflake.ID
	if code := strings.TrimSpace(req.RegionCode); code != "" {
		region, err := s.regionRepo.FindByCode(ctx, s.db, code)
		if err != nil {
			return nil, err
		}
		if region == nil {
			return nil, domain.ErrInvalidRegion
		}
		regionID = region.ID
	}

	if category := strings.TrimSpace(req.Category); category != "" {
		if _, err := parseCategory(category); err != nil {
			return nil, err
		}
	}

	items, err := s.repo.List(ctx, s.db, req, regionID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) GetBySlug(ctx context.Context, productSlug string) (*domain.Response, error) {
	productSlug = strings.TrimSpace(productSlug)
	if productSlug == "" {
		return nil, domain.ErrNotFound
	}

	item, err := s.repo.FindBySlug(ctx, s.db, productSlug)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.PriceCents < 0 {
		return nil, domain.ErrInvalidPrice
	}

	category, err := parseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	productType, err := parseProductType(req.ProductType)
	if err != nil {
		return nil, err
	}

	region, err := s.regionRepo.FindByCode(ctx, s.db, strings.TrimSpace(req.RegionCode))
	if err != nil {
		return nil, err
	}
	if region == nil {
		return nil, domain.ErrInvalidRegion
	}

	productSlug := strings.TrimSpace(req.Slug)
	if productSlug == "" {
		productSlug = slug.Make(name)
	}
	existing, err := s.repo.FindBySlug(ctx, s.db, productSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugTaken
	}

	var roast *domain.RoastLevel
	if req.RoastLevel != nil {
		parsed, err := parseRoastLevel(*req.RoastLevel)
		if err != nil {
			return nil, err
		}
		roast = &parsed
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:             s.genID.Generate(),
		Name:           name,
		Slug:           productSlug,
		Description:    strings.TrimSpace(req.Description),
		PriceCents:     req.PriceCents,
		Category:       category,
		ProductType:    productType,
		RoastLevel:     roast,
		WeightOz:       req.WeightOz,
		BeanType:       strings.TrimSpace(req.BeanType),
		HighlightColor: strings.TrimSpace(req.HighlightColor),
		InStock:        inStock,
		RegionID:       region.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *Service) SetStock(ctx context.Context, id string, inStock bool) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.InStock = inStock
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Snapshot(ctx context.Context, tx *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]domain.Snapshot, error) {
	db := tx
	if db == nil {
		db = s.db
	}

	items, err := s.repo.FindByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[snowflake.ID]domain.Snapshot, len(items))
	for _, item := range items {
		snapshots[item.ID] = domain.Snapshot{
			ProductID:   item.ID,
			Name:        item.Name,
			PriceCents:  item.PriceCents,
			InStock:     item.InStock,
			RegionID:    item.RegionID,
			ProductType: item.ProductType,
		}
	}
	return snapshots, nil
}

func parseCategory(value string) (domain.Category, error) {
	switch domain.Category(strings.ToLower(strings.TrimSpace(value))) {
	case domain.CategoryFeatured:
		return domain.CategoryFeatured, nil
	case domain.CategoryOriginals:
		return domain.CategoryOriginals, nil
	default:
		return "", domain.ErrInvalidCategory
	}
}

func parseProductType(value string) (domain.ProductType, error) {
	switch domain.ProductType(strings.ToLower(strings.TrimSpace(value))) {
	case domain.ProductTypeSubscription:
		return domain.ProductTypeSubscription, nil
	case domain.ProductTypeOneTime:
		return domain.ProductTypeOneTime, nil
	default:
		return "", domain.ErrInvalidProductType
	}
}

func parseRoastLevel(value string) (domain.RoastLevel, error) {
	switch domain.RoastLevel(strings.ToLower(strings.TrimSpace(value))) {
	case domain.RoastLight:
		return domain.RoastLight, nil
	case domain.RoastMedium:
		return domain.RoastMedium, nil
	case domain.RoastDark:
		return domain.RoastDark, nil
	default:
		return "", domain.ErrInvalidRoastLevel
	}
}

func displayCents(cents int64) string {
	m, err := money.FromCents(cents)
	if err != nil {
		return ""
	}
	return m.Display()
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:             p.ID.String(),
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		PriceCents:     p.PriceCents,
		PriceDisplay:   displayCents(p.PriceCents),
		Category:       p.Category,
		ProductType:    p.ProductType,
		RoastLevel:     p.RoastLevel,
		WeightOz:       p.WeightOz,
		BeanType:       p.BeanType,
		HighlightColor: p.HighlightColor,
		InStock:        p.InStock,
		RegionID:       p.RegionID.String(),
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}
