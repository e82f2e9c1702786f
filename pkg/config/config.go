// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"
)

// Config aggregates the configuration of every process in this repo; each
// main loads the whole thing and picks what it needs.
type Config struct {
	Backends BackendsConfig
	Gateway  GatewayConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// Load reads the full configuration from the environment.
func Load() *Config {
	return &Config{
		Backends: loadBackendsConfig(),
		Gateway:  loadGatewayConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
	}
}

// BackendsConfig configures the four backend services and their shared
// scheduler.
type BackendsConfig struct {
	RecommendationAddr string
	MetadataAddr       string
	RatingAddr         string
	UserAddr           string

	// UserStorage selects the user repository: "memory" or "postgres".
	UserStorage string
	// RatingStorage selects the rating store: "memory" or "redis".
	RatingStorage string

	SchedulerWorkers int
}

func loadBackendsConfig() BackendsConfig {
	return BackendsConfig{
		RecommendationAddr: getEnv("RECOMMENDATION_ADDR", ":8081"),
		MetadataAddr:       getEnv("METADATA_ADDR", ":8082"),
		RatingAddr:         getEnv("RATING_ADDR", ":8083"),
		UserAddr:           getEnv("USER_ADDR", ":8084"),
		UserStorage:        getEnv("USER_STORAGE", "memory"),
		RatingStorage:      getEnv("RATING_STORAGE", "memory"),
		SchedulerWorkers:   getEnvInt("SCHEDULER_WORKERS", 4),
	}
}

// GatewayConfig configures the composition gateway.
type GatewayConfig struct {
	Addr string

	RecommendationURL string
	MetadataURL       string
	RatingURL         string
	UserURL           string

	// ComposeTimeout bounds one full composition (recommendations plus all
	// per-entry joins).
	ComposeTimeout time.Duration

	SchedulerWorkers int
}

func loadGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Addr:              getEnv("GATEWAY_ADDR", ":8080"),
		RecommendationURL: getEnv("RECOMMENDATION_URL", "http://localhost:8081"),
		MetadataURL:       getEnv("METADATA_URL", "http://localhost:8082"),
		RatingURL:         getEnv("RATING_URL", "http://localhost:8083"),
		UserURL:           getEnv("USER_URL", "http://localhost:8084"),
		ComposeTimeout:    getEnvDuration("GATEWAY_COMPOSE_TIMEOUT", 2*time.Second),
		SchedulerWorkers:  getEnvInt("SCHEDULER_WORKERS", 4),
	}
}

// DatabaseConfig configures the Postgres connection used when
// USER_STORAGE=postgres.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "ensamble"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "ensamble"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// DSN builds the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig configures the Redis connection used when
// RATING_STORAGE=redis.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// Address returns host:port for the Redis client.
func (c RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
