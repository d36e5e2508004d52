package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DB       DBConfig
	Stripe   StripeConfig
	Telegram TelegramConfig
	Log      LogConfig
	// AutoMigrate applies the embedded schema before the order flow starts.
	AutoMigrate bool
}

type DBConfig struct {
	Driver     string
	URL        string // full connection string (e.g. Supabase), overrides the parts below
	Host       string
	Port       int
	User       string
	Password   string
	Database   string
	SSLMode    string
	SQLitePath string
}

type StripeConfig struct {
	SecretKey   string
	Currency    string
	SuccessURL  string
	CancelURL   string
	ProductName string
}

type TelegramConfig struct {
	Token  string // bot used to notify the shop about new orders
	ChatID int64
}

type LogConfig struct {
	Level  string
	Format string // "console" or "json"
	File   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}

	var chatID int64
	if v := getEnv("TELEGRAM_CHAT_ID", ""); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
	}

	autoMigrate := strings.TrimSpace(os.Getenv("AUTO_MIGRATE"))

	return &Config{
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			URL:        getEnv("DATABASE_URL", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       port,
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Database:   getEnv("DB_NAME", "coffee"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "coffeeshell.db"),
		},
		Stripe: StripeConfig{
			SecretKey:   getEnv("STRIPE_SECRET_KEY", ""),
			Currency:    strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
			SuccessURL:  getEnv("STRIPE_SUCCESS_URL", "https://your-success-url.com"),
			CancelURL:   getEnv("STRIPE_CANCEL_URL", "https://your-cancel-url.com"),
			ProductName: getEnv("STRIPE_PRODUCT_NAME", "Coffee Order"),
		},
		Telegram: TelegramConfig{
			Token:  getEnv("TELEGRAM_TOKEN", ""),
			ChatID: chatID,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "warn"),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   getEnv("LOG_FILE", ""),
		},
		AutoMigrate: autoMigrate == "1" || strings.EqualFold(autoMigrate, "true"),
	}, nil
}

// Validate checks what the order flow needs before any prompt is shown.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY not set")
	}
	return nil
}

// NotifyEnabled reports whether new orders should be pushed to the shop chat.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

// DSN returns the Postgres connection string.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
