package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

// Match stages, in the order the search-term variants are tried. Recorded on
// every CatalogMatch for debugging false positives.
const (
	StageRaw          = "raw"
	StageCleaned      = "cleaned"
	StagePlatformCut  = "platform-stripped"
	StageEditionCut   = "edition-stripped"
	StageColonCut     = "colon-cut"
	StageDashCut      = "dash-cut"
	StageLastWordCut  = "last-word-dropped"
	StageLastTwoWords = "last-two-words-dropped"
)

const (
	minVariantLength   = 3
	storeCurrency      = "KRW"
	minorUnitsPerWhole = 100
)

// MatcherConfig holds configuration for the catalog matcher.
type MatcherConfig struct {
	CacheTTL time.Duration
}

// CatalogMatcher resolves free-text product names against the reference
// storefront's catalog and fetches prices and descriptive metadata for
// resolved entries. Resolution is approximate: it walks an ordered list of
// progressively more aggressive search-term variants and accepts the first
// one that returns candidates, so both false positives and false negatives
// happen. Every network call sits behind the cache.
type CatalogMatcher struct {
	cache      domain.CacheRepository
	client     domain.CatalogClient
	normalizer *NameNormalizer
	pacer      domain.Pacer
	logger     *zap.SugaredLogger
	cacheTTL   time.Duration
}

// NewCatalogMatcher creates a matcher with its dependencies.
func NewCatalogMatcher(
	cache domain.CacheRepository,
	client domain.CatalogClient,
	pacer domain.Pacer,
	logger *zap.SugaredLogger,
	config MatcherConfig,
) *CatalogMatcher {
	return &CatalogMatcher{
		cache:      cache,
		client:     client,
		normalizer: NewNameNormalizer(),
		pacer:      pacer,
		logger:     logger,
		cacheTTL:   config.CacheTTL,
	}
}

type searchVariant struct {
	term  string
	stage string
}

// Resolve finds the catalog entry for a product name. It returns
// ErrMatchNotFound only after every variant has been tried. Between
// unsuccessful attempts it pauses via the pacer to respect the remote
// service's implicit rate limits.
func (m *CatalogMatcher) Resolve(ctx context.Context, name string) (*domain.CatalogMatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := "match:" + name
	if v, err := m.cache.Get(ctx, cacheKey); err == nil {
		if match, ok := v.(*domain.CatalogMatch); ok {
			return match, nil
		}
	}

	variants := m.buildVariants(name)
	for i, variant := range variants {
		if i > 0 {
			if err := m.pacer.Pause(ctx); err != nil {
				return nil, err
			}
		}

		items, err := m.client.Search(ctx, variant.term)
		if err != nil {
			m.logger.Debugw("catalog search failed", "term", variant.term, "stage", variant.stage, "err", err)
			continue
		}
		if len(items) == 0 {
			continue
		}

		pick := pickCandidate(items)
		match := &domain.CatalogMatch{
			ExternalID: pick.ID,
			Name:       pick.Name,
			Kind:       pick.Kind,
			MatchStage: variant.stage,
		}
		m.logger.Debugw("catalog match", "name", name, "term", variant.term, "stage", variant.stage, "id", pick.ID)
		m.cache.Set(ctx, cacheKey, match, m.cacheTTL)
		return match, nil
	}

	return nil, domain.ErrMatchNotFound
}

// buildVariants produces the ordered, de-duplicated list of search terms for
// a name. Variants shorter than three characters are discarded.
func (m *CatalogMatcher) buildVariants(name string) []searchVariant {
	candidates := []searchVariant{
		{name, StageRaw},
		{m.normalizer.Clean(name), StageCleaned},
		{m.normalizer.StripPlatform(name), StagePlatformCut},
		{m.normalizer.StripEdition(name), StageEditionCut},
		{cutAt(name, ":"), StageColonCut},
		{cutAt(name, " - "), StageDashCut},
		{dropLastWords(name, 1), StageLastWordCut},
		{dropLastWords(name, 2), StageLastTwoWords},
	}

	seen := make(map[string]bool)
	variants := make([]searchVariant, 0, len(candidates))
	for _, c := range candidates {
		term := strings.TrimSpace(c.term)
		if len([]rune(term)) < minVariantLength {
			continue
		}
		key := strings.ToLower(term)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, searchVariant{term, c.stage})
	}
	return variants
}

// pickCandidate prefers entries whose declared kind is game or dlc;
// otherwise the first returned candidate wins.
func pickCandidate(items []domain.CatalogItem) domain.CatalogItem {
	for _, item := range items {
		if item.Kind == domain.KindGame || item.Kind == domain.KindDLC {
			return item
		}
	}
	return items[0]
}

func cutAt(name, sep string) string {
	if idx := strings.Index(name, sep); idx > 0 {
		return name[:idx]
	}
	return name
}

func dropLastWords(name string, count int) string {
	words := strings.Fields(name)
	if len(words) <= count {
		return name
	}
	return strings.Join(words[:len(words)-count], " ")
}

// FetchPrice looks up the detailed pricing for a resolved entry. Free or
// unlisted entries come back as a free-sentinel quote; a fetch error is
// wrapped in ErrQuoteUnavailable so callers can skip the item without
// aborting the batch.
func (m *CatalogMatcher) FetchPrice(ctx context.Context, externalID int) (*domain.PriceQuote, error) {
	cacheKey := fmt.Sprintf("quote:%d", externalID)
	if v, err := m.cache.Get(ctx, cacheKey); err == nil {
		if quote, ok := v.(*domain.PriceQuote); ok {
			return quote, nil
		}
	}

	details, err := m.client.Details(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}

	quote := &domain.PriceQuote{
		ExternalID: externalID,
		Name:       details.Name,
		Currency:   storeCurrency,
	}
	if details.IsFree || details.PriceMinor <= 0 {
		quote.Free = true
	} else {
		quote.OriginalPrice = details.PriceMinor / minorUnitsPerWhole
		quote.FinalPrice = details.DiscountedPriceMinor / minorUnitsPerWhole
		if details.DiscountPercent > 0 {
			quote.DiscountLabel = fmt.Sprintf("-%d%%", details.DiscountPercent)
		}
	}

	m.cache.Set(ctx, cacheKey, quote, m.cacheTTL)
	return quote, nil
}

// FetchMetadata returns the descriptive fields for export. Best-effort: any
// failure yields empty fields so the export can proceed with partial data.
func (m *CatalogMatcher) FetchMetadata(ctx context.Context, match *domain.CatalogMatch) *domain.GameMetadata {
	cacheKey := fmt.Sprintf("meta:%d", match.ExternalID)
	if v, err := m.cache.Get(ctx, cacheKey); err == nil {
		if meta, ok := v.(*domain.GameMetadata); ok {
			return meta
		}
	}

	details, err := m.client.Details(ctx, match.ExternalID)
	if err != nil {
		m.logger.Debugw("metadata fetch failed", "id", match.ExternalID, "err", err)
		return &domain.GameMetadata{Title: match.Name}
	}

	meta := &domain.GameMetadata{
		Title:       match.Name,
		HeaderImage: details.HeaderImage,
		Developer:   details.Developer,
	}
	if len(details.Screenshots) > 4 {
		meta.Screenshots = details.Screenshots[:4]
	} else {
		meta.Screenshots = details.Screenshots
	}
	if details.Name != "" && details.Name != match.Name {
		meta.LocalizedTitle = details.Name
	}

	m.cache.Set(ctx, cacheKey, meta, m.cacheTTL)
	return meta
}
