package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDataFile is the cleaned participation workbook the dashboard reads
// when DATA_FILE is not set.
const DefaultDataFile = "American_Healthcare_Class_Cleaned.xlsx"

// Config holds all application configuration.
type Config struct {
	ServerPort     string
	GinMode        string
	LogLevel       string
	LogFormat      string
	DashboardTitle string

	// DataFile is either a workbook path or a directory to search for one.
	DataFile  string
	DataSheet string
	CacheTTL  time.Duration
	// RedisURL switches the dataset cache to Redis. Empty keeps it in memory.
	RedisURL string

	ExportRatePerMinute int
	// AllowedOrigins controls HTTP CORS.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	Theme Theme
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "debug"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "pretty"),
		DashboardTitle:      getEnv("DASHBOARD_TITLE", "Participation & Attendance Dashboard"),
		DataFile:            getEnv("DATA_FILE", DefaultDataFile),
		DataSheet:           getEnv("DATA_SHEET", ""),
		CacheTTL:            time.Duration(getEnvInt("CACHE_TTL_SECONDS", 30)) * time.Second,
		RedisURL:            getEnv("REDIS_URL", ""),
		ExportRatePerMinute: getEnvInt("EXPORT_RATE_PER_MINUTE", 20),
		AllowedOrigins:      parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		Theme:               loadTheme(),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
