package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dealscope/backend/internal/domain"
)

// fakeCache is a plain map store without expiry, enough for cache-aside
// behavior in tests.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (c *fakeCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]interface{})
}

func (c *fakeCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// nopPacer never blocks.
type nopPacer struct{}

func (nopPacer) Pause(ctx context.Context) error { return nil }

// fakeCatalogClient serves canned search results and details, and records
// every search term it receives.
type fakeCatalogClient struct {
	searchResults map[string][]domain.CatalogItem
	details       map[int]*domain.CatalogDetails
	searchErr     error
	detailsErr    error
	searchTerms   []string
	searchCalls   int
	detailsCalls  int
}

func newFakeCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{
		searchResults: make(map[string][]domain.CatalogItem),
		details:       make(map[int]*domain.CatalogDetails),
	}
}

func (c *fakeCatalogClient) Search(ctx context.Context, term string) ([]domain.CatalogItem, error) {
	c.searchCalls++
	c.searchTerms = append(c.searchTerms, term)
	if c.searchErr != nil {
		return nil, c.searchErr
	}
	return c.searchResults[term], nil
}

func (c *fakeCatalogClient) Details(ctx context.Context, externalID int) (*domain.CatalogDetails, error) {
	c.detailsCalls++
	if c.detailsErr != nil {
		return nil, c.detailsErr
	}
	d, ok := c.details[externalID]
	if !ok {
		return nil, errors.New("unknown id")
	}
	return d, nil
}

// fakeFetcher returns canned listing items or a canned error.
type fakeFetcher struct {
	items []domain.ScrapedItem
	err   error
	calls int
}

func (f *fakeFetcher) FetchListingPage(ctx context.Context, url string) ([]domain.ScrapedItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fixedRates is a static RateSource.
type fixedRates struct {
	rates domain.ExchangeRates
}

func (r fixedRates) Current() domain.ExchangeRates { return r.rates }
