package domain

import (
	"context"
	"time"
)

// CacheRepository defines the time-expiring key-value store used as a
// cache-aside layer in front of every network call. A ttl <= 0 selects the
// store's default lifetime.
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear()
	Size() int
}

// ListingFetcher fetches a listing page from the source storefront and
// extracts its product entries.
type ListingFetcher interface {
	FetchListingPage(ctx context.Context, url string) ([]ScrapedItem, error)
}

// CatalogClient talks to the reference storefront's public store API.
type CatalogClient interface {
	Search(ctx context.Context, term string) ([]CatalogItem, error)
	Details(ctx context.Context, externalID int) (*CatalogDetails, error)
}

// Pacer throttles successive outbound requests. Pause blocks until the next
// request is allowed or the context is cancelled.
type Pacer interface {
	Pause(ctx context.Context) error
}

// RateSource provides the current exchange-rate snapshot.
type RateSource interface {
	Current() ExchangeRates
}
