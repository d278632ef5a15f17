package server

import (
	"net/http"
	"strings"

	catalogdomain "github.com/anoralabs/storefront/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

type createProductRequest struct {
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	PriceCents     int64          `json:"price_cents"`
	Category       string         `json:"category"`
	ProductType    string         `json:"product_type"`
	RoastLevel     *string        `json:"roast_level"`
	WeightOz       int            `json:"weight_oz"`
	BeanType       string         `json:"bean_type"`
	HighlightColor string         `json:"highlight_color"`
	InStock        *bool          `json:"in_stock"`
	RegionCode     string         `json:"region_code"`
	Metadata       map[string]any `json:"metadata"`
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.catalogSvc.Create(c.Request.Context(), catalogdomain.CreateRequest{
		Name:           strings.TrimSpace(req.Name),
		Slug:           strings.TrimSpace(req.Slug),
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		Category:       req.Category,
		ProductType:    req.ProductType,
		RoastLevel:     req.RoastLevel,
		WeightOz:       req.WeightOz,
		BeanType:       req.BeanType,
		HighlightColor: req.HighlightColor,
		InStock:        req.InStock,
		RegionCode:     req.RegionCode,
		Metadata:       req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListProducts(c *gin.Context) {
	var query struct {
		Category string `form:"category"`
		Region   string `form:"region"`
		InStock  string `form:"in_stock"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	inStock, err := parseOptionalBool(query.InStock)
	if err != nil {
		AbortWithError(c, newValidationError("in_stock", "invalid_in_stock", "invalid in_stock"))
		return
	}

	resp, err := s.catalogSvc.List(c.Request.Context(), catalogdomain.ListRequest{
		Category:   strings.TrimSpace(query.Category),
		RegionCode: strings.TrimSpace(query.Region),
		InStock:    inStock,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	resp, err := s.catalogSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setStockRequest struct {
	InStock *bool `json:"in_stock"`
}

func (s *Server) SetProductStock(c *gin.Context) {
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.InStock == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	slug := strings.TrimSpace(c.Param("slug"))
	product, err := s.catalogSvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.catalogSvc.SetStock(c.Request.Context(), product.ID, *req.InStock)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
