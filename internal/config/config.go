package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/papertrade/internal/model"
)

// Quote providers selectable with QUOTE_PROVIDER.
const (
	ProviderFinnhub = "finnhub"
	ProviderYahoo   = "yahoo"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Trading  TradingConfig
	Quote    QuoteConfig
	Session  SessionConfig
	Log      LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// TradingConfig holds ledger settings
type TradingConfig struct {
	StartingBalance float64
}

// QuoteConfig selects and tunes the market data provider
type QuoteConfig struct {
	Provider       string
	FinnhubAPIKey  string
	FinnhubBaseURL string
	Timeout        time.Duration
	CacheTTL       time.Duration
	RedisAddr      string // empty disables the quote cache
}

// SessionConfig holds session token settings.
// Key is empty unless SESSION_KEY is set; KeyPath is where a generated key is kept.
type SessionConfig struct {
	Key       string
	KeyPath   string
	TTL       time.Duration
	TokenPath string // where the CLI keeps the logged-in user's token
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	dbPath := getEnv("DB_PATH", "./data/papertrade.db")
	dataDir := filepath.Dir(dbPath)

	startingBalance, err := getEnvFloat("STARTING_BALANCE", model.DefaultStartingBalance)
	if err != nil {
		return nil, err
	}
	if startingBalance < 0 || math.IsInf(startingBalance, 0) {
		return nil, fmt.Errorf("STARTING_BALANCE must be a finite number >= 0, got %v", startingBalance)
	}

	quoteTimeout, err := getEnvDuration("QUOTE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("QUOTE_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	pretty, err := getEnvBool("LOG_PRETTY", true)
	if err != nil {
		return nil, err
	}

	provider := strings.ToLower(getEnv("QUOTE_PROVIDER", ProviderFinnhub))
	if provider != ProviderFinnhub && provider != ProviderYahoo {
		return nil, fmt.Errorf("QUOTE_PROVIDER must be %q or %q, got %q", ProviderFinnhub, ProviderYahoo, provider)
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Trading: TradingConfig{
			StartingBalance: startingBalance,
		},
		Quote: QuoteConfig{
			Provider:       provider,
			FinnhubAPIKey:  os.Getenv("FINNHUB_API_KEY"),
			FinnhubBaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			Timeout:        quoteTimeout,
			CacheTTL:       cacheTTL,
			RedisAddr:      os.Getenv("REDIS_ADDR"),
		},
		Session: SessionConfig{
			Key:       os.Getenv("SESSION_KEY"),
			KeyPath:   filepath.Join(dataDir, "session.key"),
			TTL:       sessionTTL,
			TokenPath: getEnv("SESSION_FILE", filepath.Join(dataDir, "session")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Pretty: pretty,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid %s %q: not a number", key, value)
	}
	return f, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, value)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
