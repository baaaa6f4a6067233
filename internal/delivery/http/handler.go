package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dealscope/backend/internal/domain"
	"github.com/dealscope/backend/internal/export"
	"github.com/dealscope/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison *usecase.ComparisonService
	matcher    *usecase.CatalogMatcher
	cache      domain.CacheRepository
	exporter   *export.Renderer
	minSavings int
	startedAt  time.Time
	logger     *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	comparison *usecase.ComparisonService,
	matcher *usecase.CatalogMatcher,
	cache domain.CacheRepository,
	exporter *export.Renderer,
	minSavings int,
	logger *zap.SugaredLogger,
) *Handler {
	return &Handler{
		comparison: comparison,
		matcher:    matcher,
		cache:      cache,
		exporter:   exporter,
		minSavings: minSavings,
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dealscope-backend",
		"version": "1.0.0",
	})
}

// Compare runs a comparison for the listing URL in the query string.
func (h *Handler) Compare(c *gin.Context) {
	report, ok := h.runComparison(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"totalGames":      report.TotalGames,
		"discountedGames": report.DiscountedGames,
		"games":           report.Games,
		"notFound":        report.NotFound,
	})
}

// Export runs a comparison and streams the result as an xlsx workbook.
func (h *Handler) Export(c *gin.Context) {
	report, ok := h.runComparison(c)
	if !ok {
		return
	}

	meta := make(map[int]domain.GameMetadata, len(report.Games))
	for _, result := range report.Games {
		match := result.Match
		meta[match.ExternalID] = *h.matcher.FetchMetadata(c.Request.Context(), &match)
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, report.Games, meta); err != nil {
		h.logger.Errorw("export render failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="deals.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// FlushCache drops every cached entry regardless of expiry.
func (h *Handler) FlushCache(c *gin.Context) {
	h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status reports cache occupancy and uptime.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cacheKeys":     h.cache.Size(),
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
	})
}

// runComparison parses the shared query parameters, runs the comparison and
// writes the error response itself when anything fails.
func (h *Handler) runComparison(c *gin.Context) (*domain.ComparisonReport, bool) {
	listingURL := c.Query("url")
	if listingURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return nil, false
	}

	minSavings := h.minSavings
	if raw := c.Query("minDifference"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "minDifference must be an integer"})
			return nil, false
		}
		minSavings = parsed
	}

	report, err := h.comparison.Compare(c.Request.Context(), listingURL, minSavings)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrSourceUnavailable):
			status = http.StatusBadGateway
		case errors.Is(err, domain.ErrInvalidRequest):
			status = http.StatusBadRequest
		}
		h.logger.Errorw("comparison failed", "url", listingURL, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, false
	}

	return report, true
}
