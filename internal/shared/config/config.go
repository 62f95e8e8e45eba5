package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	EventStore EventStoreConfig
	Auth       AuthConfig
	AI         AIConfig
	HIS        HISConfig
	Notify     NotifyConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// EventStoreConfig holds connection settings for the domain event stream
// (EventStoreDB). The bus is optional: the service runs without it.
type EventStoreConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

type AuthConfig struct {
	// JWTSecret signs session tokens. Symmetric for development; swap for
	// the identity provider's public key in production.
	JWTSecret string
	TokenTTL  time.Duration
}

// AIConfig selects and configures the external completion provider.
type AIConfig struct {
	// Provider is "gemini" or "openai". An empty API key puts every client
	// into fallback-only mode rather than failing startup.
	Provider       string
	APIKey         string
	Model          string
	RequestTimeout time.Duration
}

// FallbackOnly reports whether no provider credentials are configured, in
// which case all AI clients serve fixed fallback content.
func (a AIConfig) FallbackOnly() bool {
	return a.APIKey == ""
}

// HISConfig configures the optional legacy hospital-information-system
// import adapter (SQL Server based HIS).
type HISConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	HospitalName string
	PollInterval time.Duration
}

// NotifyConfig configures outbound alert delivery. An empty webhook URL
// disables the outbound channel; the in-app center always runs.
type NotifyConfig struct {
	WebhookURL string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "surgesentinel"),
			Password: getEnv("DB_PASSWORD", "surgesentinel"),
			Database: getEnv("DB_NAME", "surgesentinel"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		EventStore: EventStoreConfig{
			Enabled:  getEnvBool("EVENTSTORE_ENABLED", false),
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			TokenTTL:  getEnvDuration("SESSION_TOKEN_TTL", 12*time.Hour),
		},
		AI: AIConfig{
			Provider:       getEnv("AI_PROVIDER", "gemini"),
			APIKey:         getEnv("AI_API_KEY", ""),
			Model:          getEnv("AI_MODEL", ""),
			RequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", 12*time.Second),
		},
		HIS: HISConfig{
			Enabled:      getEnvBool("HIS_ENABLED", false),
			Host:         getEnv("HIS_HOST", "localhost"),
			Port:         getEnvInt("HIS_PORT", 1433),
			User:         getEnv("HIS_USER", ""),
			Password:     getEnv("HIS_PASSWORD", ""),
			Database:     getEnv("HIS_DATABASE", ""),
			HospitalName: getEnv("HIS_HOSPITAL_NAME", ""),
			PollInterval: getEnvDuration("HIS_POLL_INTERVAL", 5*time.Minute),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
