package server

import (
	"net/http"
	"strings"

	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetCart(c *gin.Context) {
	resp, err := s.cartSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (s *Server) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cartSvc.Add(c.Request.Context(), cartdomain.AddRequest{
		ProductID: strings.TrimSpace(req.ProductID),
		Quantity:  req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) UpdateCartItem(c *gin.Context) {
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.cartSvc.UpdateQuantity(c.Request.Context(), cartdomain.UpdateQuantityRequest{
		ProductID: strings.TrimSpace(c.Param("productId")),
		Quantity:  req.Quantity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveCartItem(c *gin.Context) {
	resp, err := s.cartSvc.Remove(c.Request.Context(), strings.TrimSpace(c.Param("productId")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ClearCart(c *gin.Context) {
	if err := s.cartSvc.Clear(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"cleared": true}})
}
