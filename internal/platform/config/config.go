package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

// AppConfig carries everything the service reads from the environment.
type AppConfig struct {
	ServiceName string
	LogLevel    string
	AppEnv      string // "production" enforces a working Postgres
	HTTP        HTTPConfig

	DatabaseURL string
	JWTSecret   string
	NATSURL     string

	// AdminUsername, when set, is promoted to admin at startup.
	AdminUsername string
}

// IsProduction reports whether APP_ENV requested production behaviour.
func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		AppEnv:      strings.TrimSpace(os.Getenv("APP_ENV")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "cineflix"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.JWTSecret == "" {
		return AppConfig{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}
