package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables
type Config struct {
	Server    ServerConfig
	Scrape    ScrapeConfig
	Search    SearchConfig
	Synthesis SynthesisConfig
	Logging   LoggingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string
	Port            int
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ScrapeConfig holds scraping backend settings.
// MaxConcurrency is the hard ceiling on simultaneous fetches against the
// provider; it defaults to 1 and is never loaded as zero or negative.
type ScrapeConfig struct {
	BaseURL        string
	APIKey         string
	MaxConcurrency int
	RequestTimeout time.Duration
}

// SearchConfig holds URL discovery settings
type SearchConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// SynthesisConfig holds LLM synthesis settings
type SynthesisConfig struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
		},
		Scrape: ScrapeConfig{
			BaseURL:        getEnv("SCRAPE_BASE_URL", "https://api.firecrawl.dev"),
			APIKey:         getEnv("SCRAPE_API_KEY", ""),
			MaxConcurrency: getEnvConcurrency("SCRAPE_MAX_CONCURRENCY", 1),
			RequestTimeout: getEnvDuration("SCRAPE_REQUEST_TIMEOUT", 30*time.Second),
		},
		Search: SearchConfig{
			BaseURL:        getEnv("SEARCH_BASE_URL", "https://api.search.brave.com"),
			APIKey:         getEnv("SEARCH_API_KEY", ""),
			RequestTimeout: getEnvDuration("SEARCH_REQUEST_TIMEOUT", 15*time.Second),
		},
		Synthesis: SynthesisConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
			RequestTimeout: getEnvDuration("OPENAI_REQUEST_TIMEOUT", 120*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate checks the loaded configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Scrape.MaxConcurrency < 1 {
		return fmt.Errorf("scrape concurrency must be at least 1, got %d", c.Scrape.MaxConcurrency)
	}
	if c.Scrape.BaseURL == "" {
		return fmt.Errorf("scrape base URL cannot be empty")
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search base URL cannot be empty")
	}
	return nil
}

// Address returns the host:port pair the server binds to
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment reports whether the server runs in development mode
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvConcurrency parses a concurrency ceiling. Absent, non-numeric and
// non-positive values all resolve to the default so the ceiling is always at
// least 1.
func getEnvConcurrency(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return defaultValue
	}
	return parsed
}
