package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/foodcourt/token-service/internal/cache"
	"github.com/foodcourt/token-service/internal/redisx"
)

// Service owns the product catalog: CRUD against the durable store plus
// the cache-aside listings it keeps consistent. Every mutation invalidates
// both catalog keys after the durable write commits; invalidating first
// would let a racing reader repopulate the cache with the old data.
type Service struct {
	repo  Storage
	cache *cache.Store
	log   *slog.Logger
}

func NewService(repo Storage, c *cache.Store, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: c, log: log}
}

type CreateInput struct {
	Name         string
	Price        decimal.Decimal
	Availability bool
	Description  string
	Category     string
	CreatedBy    int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	p, err := s.repo.Create(ctx, in.Name, in.Price, in.Availability, in.Description, in.Category, in.CreatedBy)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	s.invalidateListings(ctx)
	s.log.Info("product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, patch Patch) (Product, error) {
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Product{}, err
	}
	s.invalidateListings(ctx)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateListings(ctx)
	s.log.Info("product deleted", "product_id", id)
	return nil
}

// ListPublic returns available products only, via the long-lived public
// catalog cache entry.
func (s *Service) ListPublic(ctx context.Context) ([]Product, cache.Source, error) {
	return cache.GetJSON(ctx, s.cache, redisx.KeyCatalogPublic, redisx.TTLCatalog, s.repo.ListAvailable)
}

// ListAdmin returns every product regardless of availability.
func (s *Service) ListAdmin(ctx context.Context) ([]Product, cache.Source, error) {
	return cache.GetJSON(ctx, s.cache, redisx.KeyCatalogAdmin, redisx.TTLCatalog, s.repo.ListAll)
}

func (s *Service) invalidateListings(ctx context.Context) {
	s.cache.Invalidate(ctx, redisx.KeyCatalogPublic, redisx.KeyCatalogAdmin)
}
