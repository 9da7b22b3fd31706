package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	App       AppConfig
	SportsAPI SportsAPIConfig
	PayPal    PayPalConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret            string
	DefaultCutoffMinutes int
}

// SportsAPIConfig holds the sports-data provider settings. Each snapshot
// group is fed from its own set of upstream competition ids.
type SportsAPIConfig struct {
	BaseURL            string
	APIKey             string
	Season             int
	MainLeagueIDs      []int64
	SelectionLeagueIDs []int64
	CupLeagueIDs       []int64
	PrematchInterval   time.Duration
	LiveInterval       time.Duration
	RequestDelay       time.Duration
}

// PayPalConfig holds PayPal REST API settings
type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	Secret       string
	WebhookID    string
	PremiumPrice string
	Currency     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "betleague"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			DefaultCutoffMinutes: getEnvInt("BETTING_CUTOFF_MINUTES", 15),
		},
		SportsAPI: SportsAPIConfig{
			BaseURL:            getEnv("SPORTS_API_URL", "https://v3.football.api-sports.io"),
			APIKey:             getEnv("SPORTS_API_KEY", ""),
			Season:             getEnvInt("SPORTS_API_SEASON", time.Now().Year()),
			MainLeagueIDs:      getEnvInt64List("MAIN_LEAGUE_IDS", "140"),
			SelectionLeagueIDs: getEnvInt64List("SELECTION_LEAGUE_IDS", "10"),
			CupLeagueIDs:       getEnvInt64List("CUP_LEAGUE_IDS", "143"),
			PrematchInterval:   time.Duration(getEnvInt("ODDS_REFRESH_MINUTES", 30)) * time.Minute,
			LiveInterval:       time.Duration(getEnvInt("LIVE_ODDS_REFRESH_SECONDS", 60)) * time.Second,
			RequestDelay:       time.Duration(getEnvInt("ODDS_REQUEST_DELAY_MS", 300)) * time.Millisecond,
		},
		PayPal: PayPalConfig{
			BaseURL:      getEnv("PAYPAL_API_URL", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			Secret:       getEnv("PAYPAL_SECRET", ""),
			WebhookID:    getEnv("PAYPAL_WEBHOOK_ID", ""),
			PremiumPrice: getEnv("PREMIUM_PRICE", "29.99"),
			Currency:     getEnv("PAYMENT_CURRENCY", "EUR"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if config.SportsAPI.APIKey == "" {
		return nil, fmt.Errorf("SPORTS_API_KEY is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable with a fallback default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvInt64List parses a comma-separated list of integer ids
func getEnvInt64List(key, defaultValue string) []int64 {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
