// Package config provides environment configuration for the storefront API.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// JWT settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Chat completion gateway
	ChatAPIKey      string
	ChatBaseURL     string
	ChatModel       string
	ChatTemperature float64

	// Catalog generation
	AnthropicAPIKey string
	OpenAIAPIKey    string
	CatalogSource   string
	CatalogCacheTTL time.Duration

	// Checkout
	Currency         string
	SessionStore     string
	RedisAddr        string
	RedisPassword    string
	SessionTTL       time.Duration
	PaymentSPTURL    string
	PaymentChargeURL string
	SellerNetworkID  string
	SellerExternalID string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// JWT
		JWTSecret:     getEnv("JWT_SECRET", "development-secret-change-in-production"),
		JWTExpiration: getDurationEnv("JWT_EXPIRATION", 15*time.Minute),

		// Chat completion gateway
		ChatAPIKey:      getEnv("CHAT_API_KEY", ""),
		ChatBaseURL:     getEnv("CHAT_BASE_URL", "https://api.dat1.co/api/v1/collection/open-ai"),
		ChatModel:       getEnv("CHAT_MODEL", "gpt-120-oss"),
		ChatTemperature: getFloatEnv("CHAT_TEMPERATURE", 0.7),

		// Catalog
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		CatalogSource:   getEnv("CATALOG_SOURCE", "static"),
		CatalogCacheTTL: getDurationEnv("CATALOG_CACHE_TTL", time.Hour),

		// Checkout
		Currency:         getEnv("CHECKOUT_CURRENCY", "usd"),
		SessionStore:     getEnv("SESSION_STORE", "memory"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		SessionTTL:       getDurationEnv("SESSION_TTL", 30*time.Minute),
		PaymentSPTURL:    getEnv("PAYMENT_SPT_URL", ""),
		PaymentChargeURL: getEnv("PAYMENT_CHARGE_URL", ""),
		SellerNetworkID:  getEnv("SELLER_NETWORK_ID", "seller_network_123"),
		SellerExternalID: getEnv("SELLER_EXTERNAL_ID", "merchant_001"),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
