package fx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

// Provider hands out immutable exchange-rate snapshots. Refreshes swap the
// whole snapshot atomically, so a parser constructed from Current never sees
// a rate change mid-run.
type Provider struct {
	current atomic.Pointer[domain.ExchangeRates]
}

// NewProvider creates a provider seeded with the configured rates.
func NewProvider(initial domain.ExchangeRates) *Provider {
	p := &Provider{}
	p.current.Store(&initial)
	return p
}

// Current returns the latest snapshot.
func (p *Provider) Current() domain.ExchangeRates {
	return *p.current.Load()
}

func (p *Provider) swap(rates domain.ExchangeRates) {
	p.current.Store(&rates)
}

// ratesPayload is the shape of the refresh endpoint's response: KRW per one
// unit of each foreign currency.
type ratesPayload struct {
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
	JPY float64 `json:"jpy"`
}

// Refresher periodically fetches fresh rates and publishes them through the
// provider. With an empty endpoint URL it is inert and the configured rates
// stay in effect for the life of the process.
type Refresher struct {
	provider   *Provider
	endpoint   string
	schedule   string
	httpClient *http.Client
	cron       *cron.Cron
	logger     *zap.SugaredLogger
}

// NewRefresher creates a refresher. schedule uses standard cron syntax, e.g.
// "@hourly".
func NewRefresher(provider *Provider, endpoint, schedule string, logger *zap.SugaredLogger) *Refresher {
	return &Refresher{
		provider:   provider,
		endpoint:   endpoint,
		schedule:   schedule,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cron:       cron.New(),
		logger:     logger,
	}
}

// Start schedules the refresh job and runs one refresh immediately.
func (r *Refresher) Start() error {
	if r.endpoint == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("failed to schedule rate refresh: %w", err)
	}
	go r.refresh()
	r.cron.Start()
	r.logger.Infow("exchange rate refresher started", "endpoint", r.endpoint, "schedule", r.schedule)
	return nil
}

// Stop cancels the scheduled job.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

func (r *Refresher) refresh() {
	resp, err := r.httpClient.Get(r.endpoint)
	if err != nil {
		r.logger.Warnw("rate refresh failed", "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warnw("rate refresh rejected", "status", resp.StatusCode)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logger.Warnw("rate refresh read failed", "err", err)
		return
	}

	var payload ratesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		r.logger.Warnw("rate refresh decode failed", "err", err)
		return
	}
	if payload.USD <= 0 || payload.EUR <= 0 || payload.JPY <= 0 {
		r.logger.Warnw("rate refresh produced invalid rates", "usd", payload.USD, "eur", payload.EUR, "jpy", payload.JPY)
		return
	}

	r.provider.swap(domain.ExchangeRates{USD: payload.USD, EUR: payload.EUR, JPY: payload.JPY})
	r.logger.Infow("exchange rates refreshed", "usd", payload.USD, "eur", payload.EUR, "jpy", payload.JPY)
}
