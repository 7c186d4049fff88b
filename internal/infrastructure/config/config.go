package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	HTTPPort      int
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Log           LogConfig
	CacheTTL      time.Duration
	MigrationsDir string
	HolidayFile   string
	SweepTenant   string
	SweepInterval time.Duration
	ServiceName   string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8090),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "crediario"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "crediario_loans"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		CacheTTL:      getEnvDuration("LOAN_CACHE_TTL", 5*time.Minute),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "internal/infrastructure/persistence/postgres/migrations"),
		HolidayFile:   getEnv("HOLIDAY_FILE", ""),
		SweepTenant:   getEnv("SWEEP_TENANT_ID", ""),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", 6*time.Hour),
		ServiceName:   "loan-engine",
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
