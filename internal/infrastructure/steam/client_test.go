package steam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:  baseURL,
		Country:  "KR",
		Language: "koreana",
	}, zap.NewNop().Sugar())
}

func TestNewClient(t *testing.T) {
	client := testClient("https://store.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "https://store.example.com", client.baseURL)
	assert.Equal(t, "KR", client.country)
	assert.Equal(t, "koreana", client.language)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSearch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/storesearch/", r.URL.Path)
		assert.Equal(t, "cyberpunk", r.URL.Query().Get("term"))
		assert.Equal(t, "KR", r.URL.Query().Get("cc"))
		assert.Equal(t, "koreana", r.URL.Query().Get("l"))

		response := map[string]interface{}{
			"total": 2,
			"items": []map[string]interface{}{
				{"id": 1091500, "name": "Cyberpunk 2077", "type": "game"},
				{"id": 2138330, "name": "Cyberpunk 2077: Phantom Liberty", "type": "dlc"},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	items, err := client.Search(context.Background(), "cyberpunk")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1091500, items[0].ID)
	assert.Equal(t, "Cyberpunk 2077", items[0].Name)
	assert.Equal(t, domain.KindGame, items[0].Kind)
	assert.Equal(t, domain.KindDLC, items[1].Kind)
}

func TestSearch_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"total": 0, "items": []interface{}{}})
	}))
	defer server.Close()

	client := testClient(server.URL)

	items, err := client.Search(context.Background(), "no-such-game")

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDetails_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Equal(t, "1091500", r.URL.Query().Get("appids"))
		assert.Equal(t, "KR", r.URL.Query().Get("cc"))

		response := map[string]interface{}{
			"1091500": map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"name":    "사이버펑크 2077",
					"is_free": false,
					"price_overview": map[string]interface{}{
						"currency":         "KRW",
						"initial":          7900000,
						"final":            3950000,
						"discount_percent": 50,
					},
					"header_image": "https://cdn.example.com/header.jpg",
					"screenshots": []map[string]interface{}{
						{"path_full": "https://cdn.example.com/s1.jpg"},
						{"path_full": "https://cdn.example.com/s2.jpg"},
					},
					"developers": []string{"CD PROJEKT RED"},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	details, err := client.Details(context.Background(), 1091500)

	require.NoError(t, err)
	assert.Equal(t, "사이버펑크 2077", details.Name)
	assert.False(t, details.IsFree)
	assert.Equal(t, 7900000, details.PriceMinor)
	assert.Equal(t, 3950000, details.DiscountedPriceMinor)
	assert.Equal(t, 50, details.DiscountPercent)
	assert.Equal(t, "https://cdn.example.com/header.jpg", details.HeaderImage)
	assert.Len(t, details.Screenshots, 2)
	assert.Equal(t, "CD PROJEKT RED", details.Developer)
}

func TestDetails_FreeToPlay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"570": map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"name":    "Dota 2",
					"is_free": true,
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	details, err := client.Details(context.Background(), 570)

	require.NoError(t, err)
	assert.True(t, details.IsFree)
	assert.Zero(t, details.PriceMinor)
}

func TestDetails_Unsuccessful(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"999": map[string]interface{}{"success": false},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)

	details, err := client.Details(context.Background(), 999)

	assert.Nil(t, details)
	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
}

func TestDetails_MissingEnvelopeKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	client := testClient(server.URL)

	details, err := client.Details(context.Background(), 42)

	assert.Nil(t, details)
	assert.ErrorIs(t, err, domain.ErrCatalogAPIFailure)
}
