package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Providers ProviderConfig
	Refresh   RefreshConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DataConfig holds the paths of the holdings document and the price cache
// file. Both default to files under DATA_DIR.
type DataConfig struct {
	Dir            string
	HoldingsFile   string
	PriceCacheFile string
}

// DatabaseConfig holds the price history database configuration
type DatabaseConfig struct {
	Path string
}

// ProviderConfig holds quote provider credentials
type ProviderConfig struct {
	FinnhubAPIKey string
}

// RefreshConfig controls the scheduled price refresh.
type RefreshConfig struct {
	Schedule    string        // cron expression
	Timeout     time.Duration // overall deadline for one refresh run
	MaxParallel int           // concurrent symbol fetches
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "./data")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Data: DataConfig{
			Dir:            dataDir,
			HoldingsFile:   getEnv("HOLDINGS_FILE", filepath.Join(dataDir, "holdings.json")),
			PriceCacheFile: getEnv("PRICE_CACHE_FILE", filepath.Join(dataDir, "price_cache.json")),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", filepath.Join(dataDir, "price_history.db")),
		},
		Providers: ProviderConfig{
			FinnhubAPIKey: os.Getenv("FINNHUB_API_KEY"),
		},
		Refresh: RefreshConfig{
			Schedule:    getEnv("REFRESH_SCHEDULE", "*/30 * * * *"),
			Timeout:     time.Duration(getEnvInt("REFRESH_TIMEOUT_SECONDS", 60)) * time.Second,
			MaxParallel: getEnvInt("REFRESH_MAX_PARALLEL", 8),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost",
			}),
		},
	}

	if config.Providers.FinnhubAPIKey == "" {
		return nil, fmt.Errorf("FINNHUB_API_KEY is required")
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

// getEnvList gets a comma-separated environment variable or returns a
// default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
