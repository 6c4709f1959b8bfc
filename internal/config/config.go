// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"carsouq_backend/internal/platform/crypto"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBSource          string        `mapstructure:"DB_SOURCE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Auth Configuration
	JWTSecret          string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL_MINUTES"`
	RefreshTokenTTL    time.Duration `mapstructure:"REFRESH_TOKEN_TTL_HOURS"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	RedisBlocklistDB   int           `mapstructure:"REDIS_BLOCKLIST_DB"`

	// Image Handling
	ImageStoragePath   string `mapstructure:"IMAGE_STORAGE_PATH"`
	ImagePublicBaseURL string `mapstructure:"IMAGE_PUBLIC_BASE_URL"`
	ImageMaxWidth      int    `mapstructure:"IMAGE_MAX_WIDTH"`
	ImageQuality       int    `mapstructure:"IMAGE_QUALITY"`
	MaxListingImages   int    `mapstructure:"MAX_LISTING_IMAGES"`

	// Application Specific Configuration
	DefaultLanguage            string `mapstructure:"DEFAULT_LANGUAGE"`
	DefaultListingLifespanDays int    `mapstructure:"DEFAULT_LISTING_LIFESPAN_DAYS"`
	FeaturedListingsLimit      int    `mapstructure:"FEATURED_LISTINGS_LIMIT"`

	// Cron Jobs
	ListingExpiryJobSchedule string `mapstructure:"LISTING_EXPIRY_JOB_SCHEDULE"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	// Set default values
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "carsouq_db")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_SOURCE", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("REFRESH_TOKEN_TTL_HOURS", 720)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_BLOCKLIST_DB", 0)

	v.SetDefault("IMAGE_STORAGE_PATH", "./media")
	v.SetDefault("IMAGE_PUBLIC_BASE_URL", "/media")
	v.SetDefault("IMAGE_MAX_WIDTH", 1200)
	v.SetDefault("IMAGE_QUALITY", 75)
	v.SetDefault("MAX_LISTING_IMAGES", 5)

	v.SetDefault("DEFAULT_LANGUAGE", "ar")
	v.SetDefault("DEFAULT_LISTING_LIFESPAN_DAYS", 60)
	v.SetDefault("FEATURED_LISTINGS_LIMIT", 8)
	v.SetDefault("LISTING_EXPIRY_JOB_SCHEDULE", "@daily")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.AccessTokenTTL = time.Duration(v.GetInt("ACCESS_TOKEN_TTL_MINUTES")) * time.Minute
	cfg.RefreshTokenTTL = time.Duration(v.GetInt("REFRESH_TOKEN_TTL_HOURS")) * time.Hour

	// Construct the GORM DSN from individual params when DB_SOURCE is not set.
	if strings.TrimSpace(cfg.DBSource) == "" {
		cfg.DBSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode, cfg.DBTimezone)
	}

	// Basic validation for critical configs
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		if cfg.GinMode == "release" {
			return nil, fmt.Errorf("FATAL: JWT_SECRET is not set. It is required for signing auth tokens")
		}
		// Dev convenience: issued tokens will not survive a restart.
		secret, err := crypto.GenerateSecureRandomString(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral JWT secret: %w", err)
		}
		cfg.JWTSecret = secret
		fmt.Fprintln(os.Stderr, "WARN: JWT_SECRET not set, using an ephemeral secret")
	}

	return &cfg, nil
}
