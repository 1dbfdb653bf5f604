package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port    int
	DevMode bool

	DatabasePath   string
	SnapshotDBPath string
	PortfolioPath  string
	CatalogPath    string // optional YAML catalog override
	ReportsDir     string

	// MissingPolicy selects how the scorer treats absent metrics:
	// "zero-fill" (default) or "redistribute".
	MissingPolicy string

	// Cron schedules (seconds precision).
	ReviewSchedule string
	HealthSchedule string

	// History bound for series derivation, in quarters.
	HistoryQuarters int

	TelegramBotToken string
	TelegramChatID   string

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnvAsInt("PORT", 8001),
		DevMode: getEnvAsBool("DEV_MODE", false),

		DatabasePath:   getEnv("DATABASE_PATH", "./data/portfolio_health.db"),
		SnapshotDBPath: getEnv("SNAPSHOT_DB_PATH", "./data/snapshots.db"),
		PortfolioPath:  getEnv("PORTFOLIO_PATH", "./data/portfolio.yaml"),
		CatalogPath:    getEnv("CATALOG_FILE", ""),
		ReportsDir:     getEnv("REPORTS_DIR", "./reports"),

		MissingPolicy: getEnv("SCORING_MISSING_POLICY", "zero-fill"),

		// Weekday mornings after the TWSE open-data refresh.
		ReviewSchedule: getEnv("REVIEW_SCHEDULE", "0 0 8 * * MON-FRI"),
		HealthSchedule: getEnv("HEALTH_SCHEDULE", "0 0 */6 * * *"),

		HistoryQuarters: getEnvAsInt("HISTORY_QUARTERS", 20),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.SnapshotDBPath == "" {
		return fmt.Errorf("SNAPSHOT_DB_PATH is required")
	}
	if c.PortfolioPath == "" {
		return fmt.Errorf("PORTFOLIO_PATH is required")
	}
	if c.HistoryQuarters <= 0 {
		return fmt.Errorf("HISTORY_QUARTERS must be positive")
	}

	// Telegram credentials optional: notification is skipped when
	// either half is missing.

	return nil
}

// TelegramConfigured reports whether notification credentials are set
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
