package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/orders"
	"github.com/foodcourt/token-service/internal/realtime"
)

const testOrderID = "8a0f32c1-94be-4e87-9c47-1a2b3c4d5e6f"

type fakeOrderService struct {
	createErr error
	updateErr error
	order     orders.Order
	list      []orders.Order
	source    cache.Source
}

func (f *fakeOrderService) Create(context.Context, int64, int64) (orders.Order, error) {
	return f.order, f.createErr
}

func (f *fakeOrderService) UpdateStatus(context.Context, string, orders.Status) (orders.Order, error) {
	return f.order, f.updateErr
}

func (f *fakeOrderService) ListMine(context.Context, int64) ([]orders.Order, cache.Source, error) {
	return f.list, f.source, nil
}

func (f *fakeOrderService) ListAll(context.Context) ([]orders.Order, cache.Source, error) {
	return f.list, f.source, nil
}

func newOrdersRouter(svc OrderService) http.Handler {
	r := NewRouter()
	h := &OrdersHandler{
		Service: svc,
		Hub:     realtime.NewHub(),
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	h.Register(r)
	return r
}

func asUser(req *http.Request) *http.Request {
	req.Header.Set("X-User-Id", "7")
	req.Header.Set("X-User-Name", "Asha")
	req.Header.Set("X-User-Email", "asha@example.com")
	req.Header.Set("X-User-Role", "user")
	return req
}

func asAdmin(req *http.Request) *http.Request {
	req = asUser(req)
	req.Header.Set("X-User-Role", "admin")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func testOrder() orders.Order {
	return orders.Order{
		OrderID:       testOrderID,
		User:          orders.User{ID: 7, Name: "Asha", Email: "asha@example.com"},
		Product:       orders.ProductRef{ID: 11, Name: "Veg Thali", Price: decimal.RequireFromString("9.99"), Category: "meals"},
		Price:         decimal.RequireFromString("9.99"),
		PaymentStatus: orders.PaymentDone,
		TokenNumber:   "T1001",
		Status:        orders.StatusPending,
	}
}

func TestCreateOrderResponds201(t *testing.T) {
	router := newOrdersRouter(&fakeOrderService{order: testOrder()})

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product_id":11}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	require.Equal(t, "T1001", data["token_number"])
	require.Equal(t, "pending", data["status"])
}

func TestCreateOrderWithoutIdentityIsRejected(t *testing.T) {
	router := newOrdersRouter(&fakeOrderService{order: testOrder()})

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"product_id":11}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, false, decodeBody(t, w)["success"])
}

func TestCreateOrderClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		svc      *fakeOrderService
		body     string
		wantCode int
		wantMsg  string
	}{
		{"product not found", &fakeOrderService{createErr: orders.ErrProductNotFound}, `{"product_id":999}`, http.StatusBadRequest, "Product not found"},
		{"product unavailable", &fakeOrderService{createErr: orders.ErrProductUnavailable}, `{"product_id":11}`, http.StatusBadRequest, "Product is not available"},
		{"missing product id", &fakeOrderService{}, `{}`, http.StatusBadRequest, "product_id is required"},
		{"invalid json", &fakeOrderService{}, `{`, http.StatusBadRequest, "invalid json"},
		{"token conflict is generic", &fakeOrderService{createErr: orders.ErrTokenConflict}, `{"product_id":11}`, http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newOrdersRouter(tt.svc)
			req := asUser(httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			body := decodeBody(t, w)
			require.Equal(t, false, body["success"])
			require.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestListMineEnvelope(t *testing.T) {
	router := newOrdersRouter(&fakeOrderService{list: []orders.Order{testOrder()}, source: cache.SourceCache})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/orders/my", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, "cache", body["source"])
	require.Equal(t, float64(1), body["count"])
}

func TestListAllRequiresAdmin(t *testing.T) {
	router := newOrdersRouter(&fakeOrderService{list: []orders.Order{}, source: cache.SourceDatabase})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	req = asAdmin(httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, "database", body["source"])
	require.Equal(t, float64(0), body["count"])
}

func TestUpdateStatus(t *testing.T) {
	updated := testOrder()
	updated.Status = orders.StatusPreparing

	tests := []struct {
		name     string
		svc      *fakeOrderService
		path     string
		body     string
		wantCode int
	}{
		{"ok", &fakeOrderService{order: updated}, "/api/orders/" + testOrderID + "/status", `{"status":"preparing"}`, http.StatusOK},
		{"unknown order", &fakeOrderService{updateErr: orders.ErrOrderNotFound}, "/api/orders/" + testOrderID + "/status", `{"status":"preparing"}`, http.StatusNotFound},
		{"non-uuid id", &fakeOrderService{}, "/api/orders/not-a-uuid/status", `{"status":"preparing"}`, http.StatusNotFound},
		{"invalid status", &fakeOrderService{}, "/api/orders/" + testOrderID + "/status", `{"status":"cancelled"}`, http.StatusBadRequest},
		{"illegal transition", &fakeOrderService{updateErr: &orders.InvalidTransitionError{From: orders.StatusPending, To: orders.StatusCompleted}}, "/api/orders/" + testOrderID + "/status", `{"status":"completed"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newOrdersRouter(tt.svc)
			req := asAdmin(httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body)))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				data := decodeBody(t, w)["data"].(map[string]any)
				require.Equal(t, "preparing", data["status"])
			}
		})
	}
}
