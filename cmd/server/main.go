package main

import (
	"fmt"
	"log"

	"github.com/dealscope/backend/config"
	httpDelivery "github.com/dealscope/backend/internal/delivery/http"
	"github.com/dealscope/backend/internal/domain"
	"github.com/dealscope/backend/internal/export"
	"github.com/dealscope/backend/internal/infrastructure/cache"
	"github.com/dealscope/backend/internal/infrastructure/fx"
	"github.com/dealscope/backend/internal/infrastructure/listing"
	"github.com/dealscope/backend/internal/infrastructure/steam"
	"github.com/dealscope/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := config.BuildLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()
	logger := zapLogger.Sugar()

	logger.Infow("starting dealscope backend",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"catalog", cfg.Catalog.BaseURL,
		"country", cfg.Catalog.Country)

	// Infrastructure
	memoryCache := cache.NewMemoryCache(cfg.Cache.TTL)

	rates := fx.NewProvider(domain.ExchangeRates{
		USD: cfg.Currency.USDRate,
		EUR: cfg.Currency.EURRate,
		JPY: cfg.Currency.JPYRate,
	})
	refresher := fx.NewRefresher(rates, cfg.Currency.RefreshURL, cfg.Currency.RefreshSchedule, logger)
	if err := refresher.Start(); err != nil {
		logger.Fatalw("failed to start rate refresher", "err", err)
	}
	defer refresher.Stop()

	storeClient := steam.NewClient(steam.Config{
		BaseURL:  cfg.Catalog.BaseURL,
		Country:  cfg.Catalog.Country,
		Language: cfg.Catalog.Language,
	}, logger)

	fetcher, err := listing.NewBrowserFetcher(listing.Config{
		BrowserBin:    cfg.Listing.BrowserBin,
		Headless:      cfg.Listing.Headless,
		PageTimeout:   cfg.Listing.PageTimeout,
		ItemSelector:  cfg.Listing.ItemSelector,
		TitleSelector: cfg.Listing.TitleSelector,
		PriceSelector: cfg.Listing.PriceSelector,
		LinkSelector:  cfg.Listing.LinkSelector,
	}, logger)
	if err != nil {
		logger.Fatalw("failed to start browser fetcher", "err", err)
	}
	defer fetcher.Close()

	// Usecase layer
	pacer := usecase.NewIntervalPacer(cfg.Compare.PauseInterval)
	listingService := usecase.NewListingService(memoryCache, fetcher, logger, usecase.ListingServiceConfig{
		CacheTTL: cfg.Cache.ListingTTL,
	})
	matcher := usecase.NewCatalogMatcher(memoryCache, storeClient, pacer, logger, usecase.MatcherConfig{
		CacheTTL: cfg.Cache.TTL,
	})
	comparison := usecase.NewComparisonService(listingService, matcher, rates, pacer, logger)

	// Delivery
	renderer := export.NewRenderer(cfg.Export.SheetName)
	handler := httpDelivery.NewHandler(comparison, matcher, memoryCache, renderer, cfg.Compare.MinSavings, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Infow("server listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}
