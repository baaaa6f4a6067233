package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

// ListingServiceConfig holds configuration for the listing service.
type ListingServiceConfig struct {
	CacheTTL time.Duration
}

// ListingService lists products from the source storefront for a listing
// URL, cache-aside on the URL itself. Zero products is a valid outcome; only
// a failed fetch/extraction is an error.
type ListingService struct {
	cache      domain.CacheRepository
	fetcher    domain.ListingFetcher
	normalizer *NameNormalizer
	logger     *zap.SugaredLogger
	cacheTTL   time.Duration
}

// NewListingService creates a listing service with its dependencies.
func NewListingService(
	cache domain.CacheRepository,
	fetcher domain.ListingFetcher,
	logger *zap.SugaredLogger,
	config ListingServiceConfig,
) *ListingService {
	return &ListingService{
		cache:      cache,
		fetcher:    fetcher,
		normalizer: NewNameNormalizer(),
		logger:     logger,
		cacheTTL:   config.CacheTTL,
	}
}

// ListProducts returns the products on a listing page, with normalized
// titles and per-item ids. On a cache hit the cached list is returned
// verbatim. A fetch or extraction failure wraps ErrSourceUnavailable.
func (s *ListingService) ListProducts(ctx context.Context, listingURL string) ([]domain.ListedProduct, error) {
	if listingURL == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := "listing:" + listingURL
	if v, err := s.cache.Get(ctx, cacheKey); err == nil {
		if products, ok := v.([]domain.ListedProduct); ok {
			return products, nil
		}
	}

	items, err := s.fetcher.FetchListingPage(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	products := make([]domain.ListedProduct, 0, len(items))
	for i, item := range items {
		products = append(products, domain.ListedProduct{
			ID:              fmt.Sprintf("p%03d", i+1),
			RawTitle:        item.Title,
			NormalizedTitle: s.normalizer.Clean(item.Title),
			PriceText:       item.PriceText,
			DetailURL:       item.Link,
		})
	}

	s.logger.Infow("listing fetched", "url", listingURL, "products", len(products))
	s.cache.Set(ctx, cacheKey, products, s.cacheTTL)
	return products, nil
}
