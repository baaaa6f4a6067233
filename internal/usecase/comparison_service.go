package usecase

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
)

// Skip reasons recorded on unmatched products.
const (
	reasonNoMatch     = "no catalog match"
	reasonQuoteFailed = "price lookup failed"
	reasonFree        = "free on catalog"
	reasonNoListPrice = "no list price"
)

// ComparisonService orchestrates one comparison run: list products from the
// source storefront, resolve each against the reference catalog, normalize
// prices into KRW, filter by a minimum-savings threshold and rank by
// savings. Products are processed strictly sequentially with a pause between
// items; parallelizing this would trip the reference store's anti-bot
// defenses.
type ComparisonService struct {
	listing *ListingService
	matcher *CatalogMatcher
	rates   domain.RateSource
	pacer   domain.Pacer
	logger  *zap.SugaredLogger
}

// NewComparisonService creates a comparison service with its dependencies.
func NewComparisonService(
	listing *ListingService,
	matcher *CatalogMatcher,
	rates domain.RateSource,
	pacer domain.Pacer,
	logger *zap.SugaredLogger,
) *ComparisonService {
	return &ComparisonService{
		listing: listing,
		matcher: matcher,
		rates:   rates,
		pacer:   pacer,
		logger:  logger,
	}
}

// Compare runs a full comparison for a listing URL. Only a listing-source
// failure aborts the run; every per-item failure is recorded in NotFound and
// the run continues. Results are ordered by descending savings and contain
// only items whose savings meet minSavings. Matched items below the
// threshold are silently filtered, not counted as unmatched.
func (s *ComparisonService) Compare(ctx context.Context, listingURL string, minSavings int) (*domain.ComparisonReport, error) {
	products, err := s.listing.ListProducts(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	report := &domain.ComparisonReport{
		TotalGames: len(products),
		Games:      []domain.ComparisonResult{},
		NotFound:   []domain.UnmatchedProduct{},
	}
	if len(products) == 0 {
		return report, nil
	}

	parser := NewPriceParser(s.rates.Current())

	for i, product := range products {
		if i > 0 {
			if err := s.pacer.Pause(ctx); err != nil {
				return nil, err
			}
		}

		match, err := s.matcher.Resolve(ctx, product.NormalizedTitle)
		if err != nil {
			s.logger.Debugw("product unmatched", "title", product.RawTitle, "err", err)
			report.NotFound = append(report.NotFound, domain.UnmatchedProduct{Product: product, Reason: reasonNoMatch})
			continue
		}

		quote, err := s.matcher.FetchPrice(ctx, match.ExternalID)
		if err != nil {
			s.logger.Debugw("quote unavailable", "title", product.RawTitle, "id", match.ExternalID, "err", err)
			report.NotFound = append(report.NotFound, domain.UnmatchedProduct{Product: product, Reason: reasonQuoteFailed})
			continue
		}
		if quote.Free {
			report.NotFound = append(report.NotFound, domain.UnmatchedProduct{Product: product, Reason: reasonFree})
			continue
		}
		// A resolved, non-free quote with no list price would divide by
		// zero below. Not observed in the wild, guarded anyway.
		if quote.OriginalPrice <= 0 {
			report.NotFound = append(report.NotFound, domain.UnmatchedProduct{Product: product, Reason: reasonNoListPrice})
			continue
		}

		sourcePrice := parser.Parse(product.PriceText)
		savings := quote.OriginalPrice - sourcePrice
		if savings < minSavings {
			continue
		}

		report.Games = append(report.Games, domain.ComparisonResult{
			Product:        product,
			Match:          *match,
			SourcePrice:    sourcePrice,
			OriginalPrice:  quote.OriginalPrice,
			FinalPrice:     quote.FinalPrice,
			Savings:        savings,
			SavingsPercent: int(math.Round(float64(savings) / float64(quote.OriginalPrice) * 100)),
			DiscountLabel:  quote.DiscountLabel,
		})
	}

	sort.SliceStable(report.Games, func(i, j int) bool {
		return report.Games[i].Savings > report.Games[j].Savings
	})
	report.DiscountedGames = len(report.Games)

	s.logger.Infow("comparison complete",
		"url", listingURL,
		"total", report.TotalGames,
		"discounted", report.DiscountedGames,
		"unmatched", len(report.NotFound))
	return report, nil
}
