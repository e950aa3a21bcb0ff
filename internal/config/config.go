package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	WebSocket  WebSocketConfig
	Pagination PaginationConfig
	CORS       CORSConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Env  string `env:"ENV" envDefault:"development"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5984"`
	User     string `env:"DB_USER" envDefault:"admin"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"taccuino"`
}

type JWTConfig struct {
	// Shared secret of the external identity provider; this service only
	// validates tokens, it never issues them.
	Secret string `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
}

type WebSocketConfig struct {
	ReadBufferSize  int `env:"WS_READ_BUFFER_SIZE" envDefault:"4096"`
	WriteBufferSize int `env:"WS_WRITE_BUFFER_SIZE" envDefault:"4096"`
	MaxConnPerUser  int `env:"WS_MAX_CONN_PER_USER" envDefault:"5"`
	WriteWaitSec    int `env:"WS_WRITE_WAIT_SECONDS" envDefault:"10"`
	PongWaitSec     int `env:"WS_PONG_WAIT_SECONDS" envDefault:"60"`
	PingPeriodSec   int `env:"WS_PING_PERIOD_SECONDS" envDefault:"54"`
}

type PaginationConfig struct {
	DefaultPageSize int `env:"PAGINATION_DEFAULT_PAGE_SIZE" envDefault:"10"`
	MaxPageSize     int `env:"PAGINATION_MAX_PAGE_SIZE" envDefault:"100"`
}

type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}
