package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

type Config struct {
	App struct {
		Env            string
		Port           string
		LogLevel       string
		FormationsFile string
	}
	Storage struct {
		Driver     string
		DataDir    string
		QuotaBytes int
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// --- App Configuration ---
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8080")
	cfg.App.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.App.FormationsFile = getEnv("FORMATIONS_FILE", "")

	// --- Storage Configuration ---
	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", DriverMemory)
	cfg.Storage.DataDir = getEnv("DATA_DIR", "./data")
	var err error
	cfg.Storage.QuotaBytes, err = getEnvAsInt("STORAGE_QUOTA_BYTES", 5<<20)
	if err != nil {
		return nil, err
	}
	switch cfg.Storage.Driver {
	case DriverMemory, DriverFile, DriverPostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER=%q: %w", cfg.Storage.Driver, ErrUnknownDriver)
	}

	// --- Database Configuration ---
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "lineups")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	return cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DB.Host,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.Port,
		c.DB.SSLMode,
	)
}

// ConnectDB opens the Postgres database used by the postgres storage driver.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info) // Log SQL queries in development
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got '%s'", key, valueStr)
	}
	return value, nil
}
