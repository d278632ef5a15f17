package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	cartdomain "github.com/anoralabs/storefront/internal/cart/domain"
	orderdomain "github.com/anoralabs/storefront/internal/order/domain"
	"github.com/anoralabs/storefront/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	finalizeReq *orderdomain.FinalizeRequest
	finalizeErr error

	transitionID     string
	transitionStatus string
	transitionErr    error
}

func (f *fakeOrderService) Finalize(ctx context.Context, req orderdomain.FinalizeRequest) (*orderdomain.Response, error) {
	f.finalizeReq = &req
	_ = ctx
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	return &orderdomain.Response{
		ID:     "1",
		Number: "ORD-TEST",
		Status: orderdomain.StatusPending,
	}, nil
}

func (f *fakeOrderService) TransitionStatus(ctx context.Context, id string, status string) (*orderdomain.Response, error) {
	f.transitionID = id
	f.transitionStatus = status
	_ = ctx
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	return &orderdomain.Response{ID: id, Status: orderdomain.Status(status)}, nil
}

func (f *fakeOrderService) List(ctx context.Context, page pagination.Pagination) (*orderdomain.ListResponse, error) {
	_ = ctx
	_ = page
	return &orderdomain.ListResponse{PageInfo: &pagination.PageInfo{}}, nil
}

func (f *fakeOrderService) Get(ctx context.Context, id string) (*orderdomain.Response, error) {
	_ = ctx
	return &orderdomain.Response{ID: id}, nil
}

func newTestServer(orderSvc orderdomain.Service) *Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(IdentityMiddleware())
	engine.Use(ErrorHandlingMiddleware())

	svc := &Server{
		engine:   engine,
		orderSvc: orderSvc,
	}
	svc.registerAPIRoutes()
	return svc
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestFinalizeOrderRequiresUser(t *testing.T) {
	fake := &fakeOrderService{}
	s := newTestServer(fake)

	w := performJSON(t, s.Engine(), http.MethodPost, "/api/orders", gin.H{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, fake.finalizeReq)
}

func TestFinalizeOrderPassesIdempotencyKey(t *testing.T) {
	fake := &fakeOrderService{}
	s := newTestServer(fake)

	w := performJSON(t, s.Engine(), http.MethodPost, "/api/orders",
		gin.H{"region_code": "global"},
		map[string]string{
			"X-User-Id":       "user-1",
			"Idempotency-Key": "key-123",
		})

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, fake.finalizeReq)
	assert.Equal(t, "key-123", fake.finalizeReq.IdempotencyKey)
	assert.Equal(t, "global", fake.finalizeReq.RegionCode)
}

func TestFinalizeOrderErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"empty cart", cartdomain.ErrEmptyCart, http.StatusBadRequest, "validation_error"},
		{"missing key", orderdomain.ErrMissingIdempotencyKey, http.StatusBadRequest, "validation_error"},
		{"out of stock", &orderdomain.OutOfStockError{ProductID: "42"}, http.StatusConflict, "out_of_stock"},
		{"product gone", &orderdomain.ProductGoneError{ProductID: "42"}, http.StatusConflict, "product_gone"},
		{"finalize in progress", orderdomain.ErrFinalizeInProgress, http.StatusConflict, "finalize_in_progress"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeOrderService{finalizeErr: tc.err}
			s := newTestServer(fake)

			w := performJSON(t, s.Engine(), http.MethodPost, "/api/orders",
				gin.H{"region_code": "global"},
				map[string]string{"X-User-Id": "user-1", "Idempotency-Key": "k"})

			assert.Equal(t, tc.status, w.Code)

			var resp struct {
				Error struct {
					Type string `json:"type"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.typ, resp.Error.Type)
		})
	}
}

func TestTransitionOrderStatus(t *testing.T) {
	fake := &fakeOrderService{}
	s := newTestServer(fake)

	w := performJSON(t, s.Engine(), http.MethodPost, "/api/orders/7/status",
		gin.H{"status": "processing"},
		map[string]string{"X-User-Id": "user-1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", fake.transitionID)
	assert.Equal(t, "processing", fake.transitionStatus)
}

func TestTransitionOrderStatusInvalid(t *testing.T) {
	fake := &fakeOrderService{
		transitionErr: &orderdomain.TransitionError{
			From: orderdomain.StatusDelivered,
			To:   orderdomain.StatusCancelled,
		},
	}
	s := newTestServer(fake)

	w := performJSON(t, s.Engine(), http.MethodPost, "/api/orders/7/status",
		gin.H{"status": "cancelled"},
		map[string]string{"X-User-Id": "user-1"})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_transition", resp.Error.Type)
}
