package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server    ServerConfig
	Logging   LoggingConfig
	Provider  ProviderConfig
	Narrative NarrativeConfig
	Cache     CacheConfig
}

// Server settings
type ServerConfig struct {
	Port string
}

// Upstream analytics provider settings. UserID, DefaultBlogID and UserToken keep
// the demo fallback values of the original dashboard so the service boots without
// a secrets store; override them in any real deployment.
type ProviderConfig struct {
	BaseURL            string
	UserID             int
	DefaultBlogID      int
	UserToken          string
	Timezone           string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Text-generation settings for the narrative strategy
type NarrativeConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	WordBudget  int
}

type CacheConfig struct {
	ResponseTTL  time.Duration
	NarrativeTTL time.Duration
	ProfileTTL   time.Duration
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Provider: ProviderConfig{
			BaseURL:            getEnv("PROVIDER_BASE_URL", "https://app.metricool.com/api"),
			UserID:             getIntEnv("PROVIDER_USER_ID", 3752757),
			DefaultBlogID:      getIntEnv("PROVIDER_DEFAULT_BLOG_ID", 4827857),
			UserToken:          getEnv("PROVIDER_USER_TOKEN", "AFILXUDKQGBHUMVPOXHFWVJEXWLVPSTTXSSVSJLPKIUZHXSHCBCRHFGLMQUYDFIA"),
			Timezone:           getEnv("PROVIDER_TIMEZONE", "Europe/Madrid"),
			RequestTimeout:     getDurationEnv("PROVIDER_REQUEST_TIMEOUT", "30s"),
			RateLimitPerSecond: getIntEnv("PROVIDER_RATE_LIMIT_PER_SECOND", 100),
			RateLimitBurst:     getIntEnv("PROVIDER_RATE_LIMIT_BURST", 10),
		},
		Narrative: NarrativeConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:   getIntEnv("NARRATIVE_MAX_TOKENS", 1800),
			Temperature: getFloatEnv("NARRATIVE_TEMPERATURE", 0.7),
			WordBudget:  getIntEnv("NARRATIVE_WORD_BUDGET", 600),
		},
		Cache: CacheConfig{
			ResponseTTL:  getDurationEnv("RESPONSE_CACHE_TTL", "30m"),
			NarrativeTTL: getDurationEnv("NARRATIVE_CACHE_TTL", "60m"),
			ProfileTTL:   getDurationEnv("PROFILE_CACHE_TTL", "60m"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
