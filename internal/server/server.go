package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anoralabs/storefront/internal/cart"
	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	"github.com/anoralabs/storefront/internal/catalog"
	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/anoralabs/storefront/internal/clock"
	"github.com/anoralabs/storefront/internal/config"
	"github.com/anoralabs/storefront/internal/locks"
	"github.com/anoralabs/storefront/internal/observability"
	obsmiddleware "github.com/anoralabs/storefront/internal/observability/logger"
	obsmetrics "github.com/anoralabs/storefront/internal/observability/metrics"
	obstracing "github.com/anoralabs/storefront/internal/observability/tracing"
	"github.com/anoralabs/storefront/internal/order"
	orderdomain "github.com/anoralabs/storefront/internal/order/domain"
	"github.com/anoralabs/storefront/internal/providers/pdf"
	"github.com/anoralabs/storefront/internal/region"
	regiondomain "github.com/anoralabs/storefront/internal/region/domain"
	"github.com/anoralabs/storefront/internal/scheduler"
	"github.com/anoralabs/storefront/internal/subscription"
	subscriptiondomain "github.com/anoralabs/storefront/internal/subscription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	clock.Module,
	locks.Module,
	fx.Provide(registerGin),
	fx.Provide(pdf.New),
	region.Module,
	catalog.Module,
	cart.Module,
	order.Module,
	subscription.Module,
	scheduler.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(IdentityMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	regionSvc       regiondomain.Service
	catalogSvc      catalogdomain.Service
	cartSvc         cartdomain.Service
	orderSvc        orderdomain.Service
	subscriptionSvc subscriptiondomain.Service
	receipts        pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	RegionSvc       regiondomain.Service
	CatalogSvc      catalogdomain.Service
	CartSvc         cartdomain.Service
	OrderSvc        orderdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	Receipts        pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		regionSvc:       p.RegionSvc,
		catalogSvc:      p.CatalogSvc,
		cartSvc:         p.CartSvc,
		orderSvc:        p.OrderSvc,
		subscriptionSvc: p.SubscriptionSvc,
		receipts:        p.Receipts,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Regions --------
	api.GET("/regions", s.ListRegions)
	api.GET("/regions/:code", s.GetRegionByCode)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.UserRequired(), s.CreateProduct)
	api.GET("/products/:slug", s.GetProductBySlug)
	api.POST("/products/:slug/stock", s.UserRequired(), s.SetProductStock)

	// -------- Cart --------
	api.GET("/cart", s.UserRequired(), s.GetCart)
	api.POST("/cart/items", s.UserRequired(), s.AddCartItem)
	api.PUT("/cart/items/:productId", s.UserRequired(), s.UpdateCartItem)
	api.DELETE("/cart/items/:productId", s.UserRequired(), s.RemoveCartItem)
	api.DELETE("/cart", s.UserRequired(), s.ClearCart)

	// -------- Orders --------
	api.POST("/orders", s.UserRequired(), s.FinalizeOrder)
	api.GET("/orders", s.UserRequired(), s.ListOrders)
	api.GET("/orders/:id", s.UserRequired(), s.GetOrderByID)
	api.POST("/orders/:id/status", s.UserRequired(), s.TransitionOrderStatus)
	api.GET("/orders/:id/receipt", s.UserRequired(), s.RenderOrderReceipt)

	// -------- Subscriptions --------
	api.GET("/subscriptions", s.UserRequired(), s.ListSubscriptions)
	api.POST("/subscriptions/:id/pause", s.UserRequired(), s.PauseSubscription)
	api.POST("/subscriptions/:id/resume", s.UserRequired(), s.ResumeSubscription)
	api.POST("/subscriptions/:id/cancel", s.UserRequired(), s.CancelSubscription)
}
