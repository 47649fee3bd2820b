package config

import (
	"os"
	"strconv"
	"time"

	"hoaxlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	AI       AIConfig
	Search   SearchConfig
	Fetch    FetchConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// AIConfig holds reasoning-collaborator settings
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	Timeout       time.Duration
}

// SearchConfig holds web-search collaborator settings
type SearchConfig struct {
	BraveKey   string
	UseRealAPI bool
	Timeout    time.Duration
}

// FetchConfig holds content-fetcher settings
type FetchConfig struct {
	BearerToken string
	UseRealAPI  bool
	Timeout     time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds the scoring thresholds
type AnalysisConfig struct {
	HoaxThreshold float64
	BotThreshold  float64
}

// PathConfig holds file system paths for rendered artifacts
type PathConfig struct {
	ReportsDir        string
	VisualizationsDir string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		AI: AIConfig{
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:   getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			SystemContext: "You are an expert fact-checker and social-media misinformation analyst. Analyze objectively and base conclusions on evidence.",
			MaxTokens:     getEnvIntOrDefault("MAX_TOKENS", 1000),
			Temperature:   getEnvFloatOrDefault("TEMPERATURE", 0.3),
			Timeout:       getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		},
		Search: SearchConfig{
			BraveKey:   os.Getenv("BRAVE_SEARCH_API_KEY"),
			UseRealAPI: getEnvBoolOrDefault("SEARCH_USE_REAL_API", false),
			Timeout:    getEnvDurationOrDefault("SEARCH_TIMEOUT", 15*time.Second),
		},
		Fetch: FetchConfig{
			BearerToken: os.Getenv("PLATFORM_BEARER_TOKEN"),
			UseRealAPI:  getEnvBoolOrDefault("FETCH_USE_REAL_API", false),
			Timeout:     getEnvDurationOrDefault("FETCH_TIMEOUT", 15*time.Second),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Analysis: AnalysisConfig{
			HoaxThreshold: getEnvFloatOrDefault("HOAX_THRESHOLD", 0.7),
			BotThreshold:  getEnvFloatOrDefault("BOT_DETECTION_THRESHOLD", 0.6),
		},
		Paths: PathConfig{
			ReportsDir:        getEnvOrDefault("REPORTS_DIR", "reports"),
			VisualizationsDir: getEnvOrDefault("VISUALIZATIONS_DIR", "visualizations"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Analysis.HoaxThreshold <= 0 || config.Analysis.HoaxThreshold >= 1 {
		return errors.ConfigInvalid("HOAX_THRESHOLD must be in (0,1)")
	}
	if config.Analysis.BotThreshold <= 0 || config.Analysis.BotThreshold >= 1 {
		return errors.ConfigInvalid("BOT_DETECTION_THRESHOLD must be in (0,1)")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
