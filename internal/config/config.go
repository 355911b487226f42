package config

import (
	"os"
	"time"
)

type Config struct {
	Port     string
	Postgres PostgresConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

type PostgresConfig struct {
	DBName   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func New() *Config {
	return &Config{
		Port: envOr("PORT", "8080"),
		Postgres: PostgresConfig{
			DBName:   os.Getenv("DB_NAME"),
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PWD"),
			Host:     envOr("POSTGRES_HOST", "localhost"),
			Port:     envOr("POSTGRES_PORT", "5432"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envOr("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PWD"),
		},
		RabbitMQ: RabbitMQConfig{
			Username: os.Getenv("RABBITMQ_USER"),
			Password: os.Getenv("RABBITMQ_PWD"),
			Host:     os.Getenv("RABBITMQ_HOST"),
			Port:     envOr("RABBITMQ_PORT", "5672"),
		},
		JWT: JWTConfig{
			Secret:     os.Getenv("JWT_SECRET"),
			AccessTTL:  durationOr("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: durationOr("JWT_REFRESH_TTL", 7*24*time.Hour),
		},
		Admin: AdminConfig{
			Username: envOr("ADMIN_USERNAME", "admin"),
			Email:    envOr("ADMIN_EMAIL", "admin@staffhub.local"),
			Password: os.Getenv("ADMIN_PWD"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
