package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the process configuration read from the environment
type Config struct {
	Env      string `envconfig:"ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Database DatabaseConfig
	Shopify  ShopifyConfig

	GoogleCredentialsPath string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
	ChromePath            string `envconfig:"CHROME_PATH"`
	ThumbnailCacheDir     string `envconfig:"THUMBNAIL_CACHE_DIR" default:"cache/images"`
	PricingConfigPath     string `envconfig:"PRICING_CONFIG"`
}

// DatabaseConfig describes the PostgreSQL connection.
// URL takes precedence over the individual fields.
type DatabaseConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// ShopifyConfig holds the app credentials and Admin API settings
type ShopifyConfig struct {
	APIKey     string  `envconfig:"SHOPIFY_API_KEY"`
	APISecret  string  `envconfig:"SHOPIFY_API_SECRET"`
	APIVersion string  `envconfig:"SHOPIFY_API_VERSION" default:"2025-01"`
	BaseURL    string  `envconfig:"SHOPIFY_ADMIN_BASE_URL"`
	RateLimit  float64 `envconfig:"SHOPIFY_RATE_LIMIT" default:"2"`
	RateBurst  int     `envconfig:"SHOPIFY_RATE_BURST" default:"4"`
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// ConnectionString returns the DSN for the pgx driver
func (d DatabaseConfig) ConnectionString() (string, error) {
	if d.URL != "" {
		return d.URL, nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode), nil
}
