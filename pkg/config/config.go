package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	AWS      AWSConfig
	Extract  ExtractConfig
	Schedule ScheduleConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

type ExtractConfig struct {
	StorageType string // "local" or "s3"
	LocalPath   string
	OutputDir   string
	ReportsDir  string
}

type ScheduleConfig struct {
	Enabled bool
	Spec    string
}

// Load reads configuration from environment variables, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", slog.Any("error", err))
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "spirits"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
		},
		Extract: ExtractConfig{
			StorageType: getEnv("STORAGE_TYPE", "local"),
			LocalPath:   getEnv("STORAGE_LOCAL_PATH", "./data"),
			OutputDir:   getEnv("EXTRACT_OUTPUT_DIR", "./output"),
			ReportsDir:  getEnv("EXTRACT_REPORTS_DIR", "reports"),
		},
		Schedule: ScheduleConfig{
			Enabled: getEnvAsBool("SCHEDULE_ENABLED", false),
			Spec:    getEnv("SCHEDULE_SPEC", "0 6 5 * *"),
		},
	}

	if cfg.Extract.StorageType == "s3" && cfg.AWS.Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET is required when STORAGE_TYPE=s3")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
