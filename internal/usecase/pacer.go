package usecase

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/dealscope/backend/internal/domain"
)

// intervalPacer spaces outbound requests at a fixed interval. Products are
// resolved strictly sequentially to stay under the remote storefront's
// anti-bot radar, so a single-token limiter is enough.
type intervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer returns a Pacer that allows one call per interval.
func NewIntervalPacer(interval time.Duration) domain.Pacer {
	if interval <= 0 {
		interval = time.Second
	}
	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Pause(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
