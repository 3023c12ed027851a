package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string `mapstructure:"PORT" validate:"required,numeric"`
	IsProduction bool   `mapstructure:"IS_PRODUCTION"`
	LogLevel     string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// Tally connection
	TallyBaseURL     string        `mapstructure:"TALLY_BASE_URL" validate:"required,url"`
	DemoMode         bool          `mapstructure:"DEMO_MODE"`
	TallyTimeout     time.Duration `mapstructure:"TALLY_TIMEOUT" validate:"gt=0"`
	TallyRateLimit   float64       `mapstructure:"TALLY_RATE_LIMIT" validate:"gte=0"`
	SyntheticLatency time.Duration `mapstructure:"SYNTHETIC_LATENCY" validate:"gte=0"`
	DefaultFrom      string        `mapstructure:"DEFAULT_FROM" validate:"required,datetime=2006-01-02"`
	DefaultTo        string        `mapstructure:"DEFAULT_TO" validate:"required,datetime=2006-01-02"`

	// Advisory
	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL" validate:"required"`
	InsightCacheTTL time.Duration `mapstructure:"INSIGHT_CACHE_TTL" validate:"gte=0"`

	// HTTP surface
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	APIRateLimit       string   `mapstructure:"API_RATE_LIMIT" validate:"required"`
	PosthogAPIKey      string   `mapstructure:"POSTHOG_API_KEY"`

	// Tracing
	OTelExporter     string `mapstructure:"OTEL_EXPORTER" validate:"oneof=none stdout otlp"`
	OTelOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT" validate:"omitempty,url"`
}

// ConnectionConfig is the connection the session starts with.
func (c *Config) ConnectionConfig() domain.ConnectionConfig {
	return domain.ConnectionConfig{BaseURL: c.TallyBaseURL, IsDemoMode: c.DemoMode}
}

// DateRange is the initial reporting period. Load has already validated it.
func (c *Config) DateRange() domain.DateRange {
	r, err := domain.ParseDateRange(c.DefaultFrom, c.DefaultTo)
	if err != nil {
		return domain.DefaultDateRange()
	}
	return r
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TALLY_BASE_URL", domain.DefaultBaseURL)
	v.SetDefault("DEMO_MODE", true)
	v.SetDefault("TALLY_TIMEOUT", "10s")
	v.SetDefault("TALLY_RATE_LIMIT", 5)
	v.SetDefault("SYNTHETIC_LATENCY", "0s")
	v.SetDefault("DEFAULT_FROM", "2024-04-01")
	v.SetDefault("DEFAULT_TO", "2024-09-30")
	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("INSIGHT_CACHE_TTL", "10m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("API_RATE_LIMIT", "60-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("OTEL_EXPORTER", "none")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{}
	cfg.Port = v.GetString("PORT")
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.LogLevel = v.GetString("LOG_LEVEL")
	cfg.TallyBaseURL = v.GetString("TALLY_BASE_URL")
	cfg.DemoMode = v.GetBool("DEMO_MODE")
	cfg.TallyTimeout = v.GetDuration("TALLY_TIMEOUT")
	cfg.TallyRateLimit = v.GetFloat64("TALLY_RATE_LIMIT")
	cfg.SyntheticLatency = v.GetDuration("SYNTHETIC_LATENCY")
	cfg.DefaultFrom = v.GetString("DEFAULT_FROM")
	cfg.DefaultTo = v.GetString("DEFAULT_TO")
	cfg.GeminiAPIKey = v.GetString("GEMINI_API_KEY")
	cfg.GeminiModel = v.GetString("GEMINI_MODEL")
	cfg.InsightCacheTTL = v.GetDuration("INSIGHT_CACHE_TTL")
	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.APIRateLimit = v.GetString("API_RATE_LIMIT")
	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	cfg.OTelExporter = v.GetString("OTEL_EXPORTER")
	cfg.OTelOTLPEndpoint = v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := domain.ParseDateRange(cfg.DefaultFrom, cfg.DefaultTo); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.OTelExporter == "otlp" && cfg.OTelOTLPEndpoint == "" {
		return nil, fmt.Errorf("invalid configuration: OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_EXPORTER is otlp")
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set. Insights will use the fallback text.")
	}
	if !cfg.DemoMode {
		log.Printf("Live mode: reading from Tally at %s\n", cfg.TallyBaseURL)
	}

	return cfg, nil
}

// splitList reads a comma separated env value; viper only splits slices on whitespace.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
