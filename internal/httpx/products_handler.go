package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/catalog"
)

var validate = validator.New()

// ProductService is the catalog surface the handler consumes.
type ProductService interface {
	Create(ctx context.Context, in catalog.CreateInput) (catalog.Product, error)
	Update(ctx context.Context, id int64, patch catalog.Patch) (catalog.Product, error)
	Delete(ctx context.Context, id int64) error
	ListPublic(ctx context.Context) ([]catalog.Product, cache.Source, error)
	ListAdmin(ctx context.Context) ([]catalog.Product, cache.Source, error)
}

type ProductsHandler struct {
	Service ProductService
	Log     *slog.Logger
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listPublic)

		r.Group(func(r chi.Router) {
			r.Use(WithIdentity, RequireAdmin)
			r.Post("/", h.create)
			r.Get("/all", h.listAdmin)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

type createProductReq struct {
	Name         string          `json:"name" validate:"required"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	Availability *bool           `json:"availability"`
	Description  string          `json:"description"`
	Category     string          `json:"category" validate:"required"`
}

type updateProductReq struct {
	Name         *string          `json:"name"`
	Price        *decimal.Decimal `json:"price"`
	Availability *bool            `json:"availability"`
	Description  *string          `json:"description"`
	Category     *string          `json:"category"`
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, _ := IdentityFrom(r.Context())
	availability := true
	if req.Availability != nil {
		availability = *req.Availability
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Service.Create(ctx, catalog.CreateInput{
		Name:         req.Name,
		Price:        req.Price,
		Availability: availability,
		Description:  req.Description,
		Category:     req.Category,
		CreatedBy:    id.UserID,
	})
	if err != nil {
		h.Log.Error("create product failed", "err", err)
		respondError(w, http.StatusBadRequest, "could not create product")
		return
	}
	respondData(w, http.StatusCreated, p)
}

func (h *ProductsHandler) listPublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, source, err := h.Service.ListPublic(ctx)
	if err != nil {
		h.Log.Error("list products failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondList(w, source, len(products), products)
}

func (h *ProductsHandler) listAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, source, err := h.Service.ListAdmin(ctx)
	if err != nil {
		h.Log.Error("list all products failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondList(w, source, len(products), products)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req updateProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Service.Update(ctx, id, catalog.Patch{
		Name:         req.Name,
		Price:        req.Price,
		Availability: req.Availability,
		Description:  req.Description,
		Category:     req.Category,
	})
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.Log.Error("update product failed", "product_id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondData(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	err := h.Service.Delete(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		h.Log.Error("delete product failed", "product_id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondMessage(w, http.StatusOK, "Product deleted successfully")
}

func productID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
