package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pubs-backend/internal/infrastructure/database"
)

const defaultDBPassword = "secret"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Log      LogConfig
}

type AppConfig struct {
	Name            string
	Environment     string // development, staging, production
	Port            string
	Version         string
	ShutdownTimeout time.Duration
	// AutoMigrate chạy SchemaPath lúc khởi động, chỉ dùng cho dev/test
	AutoMigrate bool
	SchemaPath  string
}

type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// Load đọc APP_*, DB_*, LOG_LEVEL. Giá trị không parse được là lỗi.
func Load() (*Config, error) {
	shutdown, err := getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	db, err := LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	env := getEnv("APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "pubs-backend"),
			Environment:     env,
			Port:            getEnv("APP_PORT", "8080"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			ShutdownTimeout: shutdown,
			AutoMigrate:     getEnvBool("APP_AUTO_MIGRATE", false),
			SchemaPath:      getEnv("APP_SCHEMA_PATH", "migrations/001_init.sql"),
		},
		Database: db,
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", defaultLogLevel(env)),
		},
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate kiểm tra các rule bắt buộc, chặt hơn ở production.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("APP_PORT must not be empty")
	}
	if c.Database == nil {
		return fmt.Errorf("database config is missing")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Database.MaxRetries < 1 {
		return fmt.Errorf("DB_MAX_RETRIES must be at least 1")
	}

	if c.IsProduction() {
		if c.Database.Password == "" || c.Database.Password == defaultDBPassword {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("DB_SSL_MODE=disable is not allowed in production")
		}
		if c.App.AutoMigrate {
			return fmt.Errorf("APP_AUTO_MIGRATE must be off in production")
		}
	}

	return nil
}

func defaultLogLevel(env string) string {
	if env == "development" {
		return "debug"
	}
	return "info"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return defaultValue
	}
}
