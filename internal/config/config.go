// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the full configuration surface shared by all commands.
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Database DatabaseConfig
	Auth     AuthConfig
	WhatsApp WhatsAppConfig
	Worker   WorkerConfig
}

// AppConfig holds process-wide options.
type AppConfig struct {
	Env           string
	LogLevel      string
	Timezone      string
	ReceiptPrefix string
	MiscPrefix    string
}

// HTTPConfig holds HTTP server options.
type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	IdempotencyTTL  time.Duration
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	Storage  string
	URL      string
	MaxConns int32
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Timeout       time.Duration
}

// Enabled reports whether notifications can be sent.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != ""
}

// WorkerConfig holds background worker options.
type WorkerConfig struct {
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	CleanupSchedule    string
	DLQSchedule        string
	// ReminderSchedule fires the day-close reminder; empty disables it.
	ReminderSchedule string
}

// Load reads environment variables (optionally from envFile) and validates them.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		App: AppConfig{
			Env:           getenvWithDefault("APP_ENV", "development"),
			LogLevel:      getenvWithDefault("LOG_LEVEL", "info"),
			Timezone:      getenvWithDefault("BUSINESS_TIMEZONE", "UTC"),
			ReceiptPrefix: getenvWithDefault("RECEIPT_PREFIX", "DLV"),
			MiscPrefix:    getenvWithDefault("MISC_RECEIPT_PREFIX", "MSC"),
		},
		HTTP: HTTPConfig{
			Port:            getenvWithDefault("HTTP_PORT", "8080"),
			ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			IdempotencyTTL:  getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Database: DatabaseConfig{
			Storage:  getenvWithDefault("STORAGE", StoragePostgres),
			URL:      os.Getenv("DATABASE_URL"),
			MaxConns: int32(getInt("DATABASE_MAX_CONNS", 25)),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getDuration("JWT_TTL", 12*time.Hour),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Timeout:       getDuration("WHATSAPP_TIMEOUT", 10*time.Second),
		},
		Worker: WorkerConfig{
			OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
			OutboxBatchSize:    getInt("OUTBOX_BATCH_SIZE", 100),
			CleanupSchedule:    getenvWithDefault("CLEANUP_SCHEDULE", "0 3 * * *"),
			DLQSchedule:        getenvWithDefault("DLQ_SCHEDULE", "*/15 * * * *"),
			ReminderSchedule:   os.Getenv("REMINDER_SCHEDULE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch c.Database.Storage {
	case StoragePostgres:
		if c.Database.URL == "" {
			return errors.New("DATABASE_URL must be provided when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Database.Storage)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("BUSINESS_TIMEZONE: %w", err)
	}
	if c.Worker.OutboxBatchSize <= 0 {
		return errors.New("OUTBOX_BATCH_SIZE must be positive")
	}
	return nil
}

// Location returns the business timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment reports whether APP_ENV selects development logging.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func getenvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
