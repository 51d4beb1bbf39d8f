package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env   string
	HTTP  HTTPConfig
	DB    DBConfig
	Kafka KafkaConfig
	Auth  AuthConfig
}

type HTTPConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type KafkaConfig struct {
	// Enabled switches the notification outbox between the Kafka
	// producer and a log-only fallback.
	Enabled bool
	Brokers []string
	Topic   string
}

type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "dev"),
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "dokan"),
			Password: getEnv("DB_PASSWORD", "dokan"),
			DBName:   getEnv("DB_NAME", "dokan_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Brokers: strings.Split(getEnv("KAFKA_BROKER", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "order-notifications"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
			SessionTTL: getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}
