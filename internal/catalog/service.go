package catalog

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"
)

// ClientPort abstracts the upstream inventory API for the service.
type ClientPort interface {
	SearchByName(ctx context.Context, name string) ([]Product, error)
	GetByBarcode(ctx context.Context, code string) (Product, error)
}

// Service coordinates catalog lookups: name searches go through the Redis
// cache, identical concurrent barcode scans are coalesced.
type Service struct {
	client ClientPort
	cache  *Cache
	logger *slog.Logger

	scans singleflight.Group
}

// NewService builds Service.
func NewService(client ClientPort, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: cache, logger: logger}
}

// Search fetches products matching the trimmed query text.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	query = strings.TrimSpace(query)
	key, err := s.cache.BuildKey(ctx, keySearch(query)...)
	if err != nil {
		s.logger.Warn("catalog cache key", slog.Any("error", err))
		return s.client.SearchByName(ctx, query)
	}
	var products []Product
	err = s.cache.FetchJSON(ctx, key, &products, func(ctx context.Context) (interface{}, error) {
		return s.client.SearchByName(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Lookup resolves a barcode to a product. Concurrent lookups for the same
// code share a single upstream request.
func (s *Service) Lookup(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	v, err, _ := s.scans.Do(code, func() (interface{}, error) {
		return s.client.GetByBarcode(ctx, code)
	})
	if err != nil {
		return Product{}, err
	}
	return v.(Product), nil
}

// Invalidate drops cached search responses, typically after a submitted
// transaction changed upstream stock.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("catalog cache bump", slog.Any("error", err))
	}
}
