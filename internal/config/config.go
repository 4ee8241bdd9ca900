package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NASA data sources.
	NASAAPIKey     string
	NASATimeout    time.Duration
	NASARateLimit  float64 // requests per second across all keyed NASA endpoints
	PowerBaseURL   string
	FirmsBaseURL   string
	EonetBaseURL   string
	ImageryBaseURL string
	GibsBaseURL    string
	HarmonyBaseURL string

	// GIBS tile cache. Redis is used when RedisAddr is set.
	TileCacheSize int
	TileCacheTTL  time.Duration
	RedisAddr     string

	// Hosted model. Analysis is disabled when LLMAPIKey is empty.
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// FetchPolicy is "strict" or "degrade"; see risk.ParseFetchPolicy.
	FetchPolicy string

	// Report sink. Publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers     []string
	KafkaReportTopic string
	KafkaBatchSize   int
	KafkaQueueSize   int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nasaTimeout, err := parseDuration("NASA_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	llmTimeout, err := parseDuration("LLM_TIMEOUT", "120s")
	if err != nil {
		return nil, err
	}
	tileTTL, err := parseDuration("TILE_CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	tileCacheSize, err := parsePositiveInt("TILE_CACHE_SIZE", 2000)
	if err != nil {
		return nil, err
	}
	batchSize, err := parsePositiveInt("KAFKA_BATCH_SIZE", 20)
	if err != nil {
		return nil, err
	}
	queueSize, err := parsePositiveInt("KAFKA_QUEUE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NASA_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NASA_RATE_LIMIT")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NASAAPIKey:     os.Getenv("NASA_API_KEY"),
		NASATimeout:    nasaTimeout,
		NASARateLimit:  rateLimit,
		PowerBaseURL:   sharedcfg.EnvOrDefault("POWER_BASE_URL", "https://power.larc.nasa.gov"),
		FirmsBaseURL:   sharedcfg.EnvOrDefault("FIRMS_BASE_URL", "https://firms.modaps.eosdis.nasa.gov"),
		EonetBaseURL:   sharedcfg.EnvOrDefault("EONET_BASE_URL", "https://eonet.gsfc.nasa.gov"),
		ImageryBaseURL: sharedcfg.EnvOrDefault("IMAGERY_BASE_URL", "https://api.nasa.gov"),
		GibsBaseURL:    sharedcfg.EnvOrDefault("GIBS_BASE_URL", "https://gibs.earthdata.nasa.gov"),
		HarmonyBaseURL: sharedcfg.EnvOrDefault("HARMONY_BASE_URL", "https://cmr.earthdata.nasa.gov"),

		TileCacheSize: tileCacheSize,
		TileCacheTTL:  tileTTL,
		RedisAddr:     os.Getenv("REDIS_ADDR"),

		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMBaseURL: sharedcfg.EnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:   sharedcfg.EnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout: llmTimeout,

		FetchPolicy: strings.ToLower(sharedcfg.EnvOrDefault("RISK_FETCH_POLICY", "strict")),

		KafkaBrokers:     sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "risk-reports"),
		KafkaBatchSize:   batchSize,
		KafkaQueueSize:   queueSize,
	}

	if cfg.FetchPolicy != "strict" && cfg.FetchPolicy != "degrade" {
		return nil, fmt.Errorf("invalid RISK_FETCH_POLICY %q: want strict or degrade", cfg.FetchPolicy)
	}

	return cfg, nil
}

// AnalysisEnabled reports whether a hosted model is configured.
func (c *Config) AnalysisEnabled() bool {
	return c.LLMAPIKey != ""
}

// KafkaEnabled reports whether risk reports are published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseDuration(name, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(name, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return d, nil
}

func parsePositiveInt(name string, def int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(name, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return n, nil
}
