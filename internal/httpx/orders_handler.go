package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/orders"
	"github.com/foodcourt/token-service/internal/realtime"
)

// OrderService is the lifecycle surface the handler consumes.
type OrderService interface {
	Create(ctx context.Context, userID, productID int64) (orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next orders.Status) (orders.Order, error)
	ListMine(ctx context.Context, userID int64) ([]orders.Order, cache.Source, error)
	ListAll(ctx context.Context) ([]orders.Order, cache.Source, error)
}

type OrdersHandler struct {
	Service OrderService
	Hub     *realtime.Hub
	Log     *slog.Logger
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(WithIdentity)
		r.Post("/", h.create)
		r.Get("/my", h.listMine)
		r.With(RequireAdmin).Get("/", h.listAll)
		r.With(RequireAdmin).Put("/{id}/status", h.updateStatus)
	})
	r.Get("/ws/orders/{id}", h.watch)
}

type createOrderReq struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type updateStatusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.Create(ctx, id.UserID, req.ProductID)
	switch {
	case errors.Is(err, orders.ErrProductNotFound):
		respondError(w, http.StatusBadRequest, "Product not found")
		return
	case errors.Is(err, orders.ErrProductUnavailable):
		respondError(w, http.StatusBadRequest, "Product is not available")
		return
	case err != nil:
		// Token sequence faults and store failures alike: log the detail,
		// answer generically.
		h.Log.Error("create order failed", "user_id", id.UserID, "product_id", req.ProductID, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusCreated, order)
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, source, err := h.Service.ListMine(ctx, id.UserID)
	if err != nil {
		h.Log.Error("list my orders failed", "user_id", id.UserID, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondList(w, source, len(list), list)
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, source, err := h.Service.ListAll(ctx)
	if err != nil {
		h.Log.Error("list all orders failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondList(w, source, len(list), list)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	next, ok := orders.ParseStatus(req.Status)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid status value")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.UpdateStatus(ctx, orderID, next)
	var transitionErr *orders.InvalidTransitionError
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "Order not found")
		return
	case errors.As(err, &transitionErr):
		respondError(w, http.StatusBadRequest, transitionErr.Error())
		return
	case err != nil:
		h.Log.Error("update order status failed", "order_id", orderID, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, order)
}

// watch streams status events for one order over a websocket. The channel
// is named by the order id the client got from the create response.
func (h *OrdersHandler) watch(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(orderID); err != nil {
		respondError(w, http.StatusNotFound, "Order not found")
		return
	}
	realtime.ServeOrderChannel(h.Hub, h.Log, w, r, orderID)
}
