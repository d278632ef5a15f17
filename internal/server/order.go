package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/anoralabs/storefront/internal/money"
	orderdomain "github.com/anoralabs/storefront/internal/order/domain"
	"github.com/anoralabs/storefront/internal/providers/pdf"
	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type finalizeOrderRequest struct {
	RegionCode      string                      `json:"region_code"`
	ShippingAddress orderdomain.ShippingAddress `json:"shipping_address"`
}

func (s *Server) FinalizeOrder(c *gin.Context) {
	var req finalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.Finalize(c.Request.Context(), orderdomain.FinalizeRequest{
		IdempotencyKey:  strings.TrimSpace(c.GetHeader("Idempotency-Key")),
		RegionCode:      strings.TrimSpace(req.RegionCode),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListOrders(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.List(c.Request.Context(), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Orders, "page_info": resp.PageInfo})
}

func (s *Server) GetOrderByID(c *gin.Context) {
	resp, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type transitionStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) TransitionOrderStatus(c *gin.Context) {
	var req transitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orderSvc.TransitionStatus(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderOrderReceipt(c *gin.Context) {
	order, err := s.orderSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.receipts.GenerateReceipt(c.Request.Context(), receiptData(s.cfg.AppName, order))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+order.Number+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func receiptData(storeName string, order *orderdomain.Response) pdf.ReceiptData {
	items := make([]pdf.ReceiptItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, pdf.ReceiptItem{
			Description: item.ProductName,
			Qty:         item.Quantity,
			UnitPrice:   displayCents(item.UnitPriceCents),
			Amount:      displayCents(item.LineTotalCents),
		})
	}

	addr := order.ShippingAddress
	lines := []string{addr.Street1}
	if addr.Street2 != "" {
		lines = append(lines, addr.Street2)
	}
	lines = append(lines, addr.City+" "+addr.PostalCode, addr.Country)

	return pdf.ReceiptData{
		StoreName:     storeName,
		OrderNumber:   order.Number,
		OrderDate:     order.CreatedAt.Format("2006-01-02"),
		Status:        string(order.Status),
		ShipToName:    addr.Name,
		ShipToAddress: strings.Join(lines, ", "),
		Items:         items,
		Subtotal:      displayCents(order.SubtotalCents),
		Shipping:      displayCents(order.ShippingCents),
		Total:         order.TotalDisplay,
	}
}

func displayCents(cents int64) string {
	m, err := money.FromCents(cents)
	if err != nil {
		return ""
	}
	return m.Display()
}
