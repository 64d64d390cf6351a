package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// DefaultSecretKey signs session tokens when JWT_SECRET_KEY is unset. It is
// only acceptable with the memory backend.
const DefaultSecretKey = "change-me-in-production"

var ErrDefaultSecret = errors.New("JWT_SECRET_KEY must be set when using the postgres backend")

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// StorageConfig selects where budgets, categories and transactions live.
type StorageConfig struct {
	Backend string
}

type AuthConfig struct {
	SecretKey  string
	SessionTTL time.Duration
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work for Docker/K8s
	for _, envFile := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_HOURS", "336"))
	maxConns, _ := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))

	backend := strings.ToLower(getEnv("STORAGE_BACKEND", StorageBackendPostgres))
	if backend != StorageBackendMemory {
		backend = StorageBackendPostgres
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "budget"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		Storage: StorageConfig{
			Backend: backend,
		},
		Auth: AuthConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", DefaultSecretKey),
			SessionTTL: time.Duration(sessionTTL) * time.Hour,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// UsesDefaultSecret reports whether tokens would be signed with the
// built-in key.
func (c AuthConfig) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Validate rejects settings unsafe for persistent storage.
func (c *Config) Validate() error {
	if c.Storage.Backend == StorageBackendPostgres && c.Auth.UsesDefaultSecret() {
		return ErrDefaultSecret
	}
	return nil
}

// DSN renders the keyword/value connection string understood by pgx.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
