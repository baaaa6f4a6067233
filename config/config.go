package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Listing   ListingConfig
	Cache     CacheConfig
	Compare   CompareConfig
	Currency  CurrencyConfig
	RateLimit RateLimitConfig
	Export    ExportConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the reference store API configuration
type CatalogConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	Country  string `mapstructure:"country"`
	Language string `mapstructure:"language"`
}

// ListingConfig holds the headless-browser listing fetcher configuration
type ListingConfig struct {
	BrowserBin    string        `mapstructure:"browser_bin"`
	Headless      bool          `mapstructure:"headless"`
	PageTimeout   time.Duration `mapstructure:"page_timeout"`
	ItemSelector  string        `mapstructure:"item_selector"`
	TitleSelector string        `mapstructure:"title_selector"`
	PriceSelector string        `mapstructure:"price_selector"`
	LinkSelector  string        `mapstructure:"link_selector"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	ListingTTL time.Duration `mapstructure:"listing_ttl"`
}

// CompareConfig holds comparison defaults
type CompareConfig struct {
	MinSavings    int           `mapstructure:"min_savings"`
	PauseInterval time.Duration `mapstructure:"pause_interval"`
}

// CurrencyConfig holds the fixed conversion rates (KRW per unit) and the
// optional live-refresh endpoint.
type CurrencyConfig struct {
	USDRate         float64 `mapstructure:"usd_rate"`
	EURRate         float64 `mapstructure:"eur_rate"`
	JPYRate         float64 `mapstructure:"jpy_rate"`
	RefreshURL      string  `mapstructure:"refresh_url"`
	RefreshSchedule string  `mapstructure:"refresh_schedule"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
}

// ExportConfig holds spreadsheet export configuration
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscope/")

	v.SetEnvPrefix("DEALSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults: Korean store region, localized titles.
	v.SetDefault("catalog.base_url", "https://store.steampowered.com")
	v.SetDefault("catalog.country", "KR")
	v.SetDefault("catalog.language", "koreana")

	// Listing defaults
	v.SetDefault("listing.headless", true)
	v.SetDefault("listing.page_timeout", "30s")
	v.SetDefault("listing.item_selector", ".product-item")
	v.SetDefault("listing.title_selector", ".product-title")
	v.SetDefault("listing.price_selector", ".product-price")
	v.SetDefault("listing.link_selector", "a")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("cache.listing_ttl", "30m")

	// Compare defaults
	v.SetDefault("compare.min_savings", 5000)
	v.SetDefault("compare.pause_interval", "1s")

	// Currency defaults (KRW per unit)
	v.SetDefault("currency.usd_rate", 1320.0)
	v.SetDefault("currency.eur_rate", 1450.0)
	v.SetDefault("currency.jpy_rate", 9.0)
	v.SetDefault("currency.refresh_schedule", "@hourly")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_second", 5.0)

	// Export defaults
	v.SetDefault("export.sheet_name", "Deals")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}
	if config.Listing.ItemSelector == "" {
		return fmt.Errorf("listing item selector is required")
	}
	if config.Currency.USDRate <= 0 || config.Currency.EURRate <= 0 || config.Currency.JPYRate <= 0 {
		return fmt.Errorf("currency rates must be positive")
	}
	if config.Compare.MinSavings < 0 {
		return fmt.Errorf("compare.min_savings must not be negative")
	}
	return nil
}

// BuildLogger creates the zap logger for the given environment.
func BuildLogger(environment string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	return zapCfg.Build()
}
