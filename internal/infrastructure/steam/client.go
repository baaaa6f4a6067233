package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dealscope/backend/internal/domain"
)

// Config holds the store API settings: base URL plus the country and
// language codes that select the store region (and therefore the currency
// and localization of every response).
type Config struct {
	BaseURL  string
	Country  string
	Language string
}

// Client handles communication with the reference storefront's public store
// API. Requests are rate limited client-side; the store has no documented
// quota but throttles aggressive callers.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	country     string
	language    string
	rateLimiter *rate.Limiter
	logger      *zap.SugaredLogger
}

// NewClient creates a store API client.
func NewClient(cfg Config, logger *zap.SugaredLogger) *Client {
	// One request per second with a small burst keeps us well under the
	// store's throttling threshold.
	limiter := rate.NewLimiter(rate.Limit(1), 3)

	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:     cfg.BaseURL,
		country:     cfg.Country,
		language:    cfg.Language,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// searchResponse mirrors the storesearch endpoint payload.
type searchResponse struct {
	Total int `json:"total"`
	Items []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"items"`
}

// detailsEnvelope mirrors the appdetails payload, which is keyed by the
// requested id.
type detailsEnvelope struct {
	Success bool `json:"success"`
	Data    struct {
		Name          string `json:"name"`
		IsFree        bool   `json:"is_free"`
		PriceOverview *struct {
			Currency        string `json:"currency"`
			Initial         int    `json:"initial"`
			Final           int    `json:"final"`
			DiscountPercent int    `json:"discount_percent"`
		} `json:"price_overview"`
		HeaderImage string `json:"header_image"`
		Screenshots []struct {
			PathFull string `json:"path_full"`
		} `json:"screenshots"`
		Developers []string `json:"developers"`
	} `json:"data"`
}

// Search queries the catalog search endpoint for a term. An empty candidate
// list is a valid result, not an error.
func (c *Client) Search(ctx context.Context, term string) ([]domain.CatalogItem, error) {
	params := url.Values{}
	params.Add("term", term)
	params.Add("cc", c.country)
	params.Add("l", c.language)
	reqURL := fmt.Sprintf("%s/api/storesearch/?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(searchResp.Items))
	for _, item := range searchResp.Items {
		items = append(items, domain.CatalogItem{
			ID:   item.ID,
			Name: item.Name,
			Kind: item.Type,
		})
	}

	c.logger.Debugw("catalog search", "term", term, "hits", len(items))
	return items, nil
}

// Details retrieves pricing and descriptive data for one catalog entry.
func (c *Client) Details(ctx context.Context, externalID int) (*domain.CatalogDetails, error) {
	id := strconv.Itoa(externalID)
	params := url.Values{}
	params.Add("appids", id)
	params.Add("cc", c.country)
	params.Add("l", c.language)
	reqURL := fmt.Sprintf("%s/api/appdetails?%s", c.baseURL, params.Encode())

	body, err := c.getWithRetry(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var envelope map[string]detailsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode details response: %w", err)
	}

	entry, ok := envelope[id]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("%w: no data for id %s", domain.ErrCatalogAPIFailure, id)
	}

	details := &domain.CatalogDetails{
		Name:        entry.Data.Name,
		IsFree:      entry.Data.IsFree,
		HeaderImage: entry.Data.HeaderImage,
	}
	if po := entry.Data.PriceOverview; po != nil {
		details.PriceMinor = po.Initial
		details.DiscountedPriceMinor = po.Final
		details.DiscountPercent = po.DiscountPercent
	}
	for _, shot := range entry.Data.Screenshots {
		details.Screenshots = append(details.Screenshots, shot.PathFull)
	}
	if len(entry.Data.Developers) > 0 {
		details.Developer = entry.Data.Developers[0]
	}

	return details, nil
}

// getWithRetry executes a GET with rate limiting and up to three attempts
// with exponential backoff on transient failures.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "dealscope/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", domain.ErrCatalogAPIFailure, err)
			c.logger.Debugw("store request failed", "attempt", attempt, "err", err)
			sleepWithContext(ctx, exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogAPIFailure, resp.StatusCode)
			c.logger.Debugw("store request rejected", "attempt", attempt, "status", resp.StatusCode)
			sleepWithContext(ctx, exponentialBackoff(attempt))
			continue
		}

		return body, nil
	}
	return nil, lastErr
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
