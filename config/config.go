package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/scanify/backend/internal/matching"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Master    MasterConfig    `mapstructure:"master"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxUploadMB    int      `mapstructure:"max_upload_mb"`
}

// GeminiConfig holds statement extraction settings
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// MasterConfig selects where stockist and product master data come from
type MasterConfig struct {
	Source        string `mapstructure:"source"` // "file" or "postgres"
	StockistsFile string `mapstructure:"stockists_file"`
	ProductsFile  string `mapstructure:"products_file"`
	DatabaseURL   string `mapstructure:"database_url"`
	Migrate       bool   `mapstructure:"migrate"`
}

// MatchingConfig holds matcher thresholds and vocabulary extensions
type MatchingConfig struct {
	Similarity string            `mapstructure:"similarity"`
	StopWords  []string          `mapstructure:"stop_words"`
	Synonyms   map[string]string `mapstructure:"synonyms"`
	Stockist   StockistMatching  `mapstructure:"stockist"`
	Product    ProductMatching   `mapstructure:"product"`
}

// StockistMatching tunes the filename matcher
type StockistMatching struct {
	Threshold   float64 `mapstructure:"threshold"`
	TopN        int     `mapstructure:"top_n"`
	CityScore   float64 `mapstructure:"city_score"`
	Suggestions int     `mapstructure:"suggestions"`
}

// ProductMatching tunes the product matcher
type ProductMatching struct {
	Threshold   float64 `mapstructure:"threshold"`
	TopN        int     `mapstructure:"top_n"`
	Concurrency int     `mapstructure:"concurrency"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load loads configuration from environment variables and an optional config.yaml
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from the given file, or searches the default paths
// when path is empty. Environment variables override file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scanify/")
	}

	// SCANIFY_SERVER_PORT overrides server.port
	v.SetEnvPrefix("SCANIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
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
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.max_upload_mb", 50)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.1)
	v.SetDefault("gemini.requests_per_minute", 15)
	v.SetDefault("gemini.max_retries", 3)
	v.SetDefault("gemini.retry_delay", "2s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Master data defaults
	v.SetDefault("master.source", "file")
	v.SetDefault("master.stockists_file", "data/stockists.csv")
	v.SetDefault("master.products_file", "data/products.csv")
	v.SetDefault("master.database_url", "")
	v.SetDefault("master.migrate", false)

	// Matching defaults
	v.SetDefault("matching.similarity", "ratcliff")
	v.SetDefault("matching.stop_words", []string{})
	v.SetDefault("matching.stockist.threshold", 0.40)
	v.SetDefault("matching.stockist.top_n", 3)
	v.SetDefault("matching.stockist.city_score", 0.55)
	v.SetDefault("matching.stockist.suggestions", 5)
	v.SetDefault("matching.product.threshold", 0.55)
	v.SetDefault("matching.product.top_n", 3)
	v.SetDefault("matching.product.concurrency", 4)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	switch config.Master.Source {
	case "file":
		if config.Master.StockistsFile == "" || config.Master.ProductsFile == "" {
			return fmt.Errorf("stockists and products files are required when master source is 'file'")
		}
	case "postgres":
		if config.Master.DatabaseURL == "" {
			return fmt.Errorf("database URL is required when master source is 'postgres' (set SCANIFY_MASTER_DATABASE_URL)")
		}
	default:
		return fmt.Errorf("master source must be 'file' or 'postgres', got: %s", config.Master.Source)
	}

	if _, err := matching.SimilarityByName(config.Matching.Similarity); err != nil {
		return err
	}

	for name, threshold := range map[string]float64{
		"matching.stockist.threshold": config.Matching.Stockist.Threshold,
		"matching.product.threshold":  config.Matching.Product.Threshold,
	} {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%s must be in (0, 1], got: %v", name, threshold)
		}
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative")
	}

	return nil
}
