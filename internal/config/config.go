package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App    AppConfig
	Store  StoreConfig
	Redis  RedisConfig
	Logger LoggerConfig
	Auth   AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig holds document store connection values.
type StoreConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values for the login rate limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines the school credential material and session parameters.
// The digest, salt, and HMAC key are supplied by the environment at process
// start; the service only consumes them, never generates or rotates them.
type AuthConfig struct {
	SchoolID           string
	CredentialScheme   string
	CredentialDigest   string
	CredentialSalt     string
	HMACKey            string
	SessionTTLMinutes  int
	SweepIntervalSec   int
	LoginMaxAttempts   int
	LoginWindowSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "withyou-admin"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			DSN:            os.Getenv("STORE_DSN"),
			MaxConns:       int32(getEnvAsInt("STORE_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("STORE_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("STORE_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("STORE_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("STORE_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			SchoolID:           os.Getenv("AUTH_SCHOOL_ID"),
			CredentialScheme:   getEnv("AUTH_CREDENTIAL_SCHEME", "hmac-sha256"),
			CredentialDigest:   os.Getenv("AUTH_CREDENTIAL_DIGEST"),
			CredentialSalt:     os.Getenv("AUTH_CREDENTIAL_SALT"),
			HMACKey:            os.Getenv("AUTH_HMAC_KEY"),
			SessionTTLMinutes:  getEnvAsInt("AUTH_SESSION_TTL_MINUTES", 60),
			SweepIntervalSec:   getEnvAsInt("AUTH_SWEEP_INTERVAL_SECONDS", 60),
			LoginMaxAttempts:   getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindowSeconds: getEnvAsInt("AUTH_LOGIN_WINDOW_SECONDS", 300),
		},
	}

	if cfg.Auth.SchoolID == "" {
		return nil, fmt.Errorf("AUTH_SCHOOL_ID is required")
	}
	if cfg.Auth.CredentialDigest == "" {
		return nil, fmt.Errorf("AUTH_CREDENTIAL_DIGEST is required")
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the configured session lifetime.
func (a AuthConfig) SessionTTL() time.Duration {
	if a.SessionTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.SessionTTLMinutes) * time.Minute
}

// SweepInterval returns how often expired sessions are removed.
func (a AuthConfig) SweepInterval() time.Duration {
	if a.SweepIntervalSec <= 0 {
		return time.Minute
	}
	return time.Duration(a.SweepIntervalSec) * time.Second
}

// LoginWindow returns the sliding window for failed login counting.
func (a AuthConfig) LoginWindow() time.Duration {
	if a.LoginWindowSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
