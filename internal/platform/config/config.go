// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

// CommentsConfig bounds the comment read paths.
type CommentsConfig struct {
	// DefaultLimit is the page size used when the caller omits one.
	DefaultLimit int
	// MaxDepth caps tree materialization; levels below it are truncated.
	MaxDepth int
}

type AppConfig struct {
	ServiceName string
	AppEnv      string
	LogLevel    string
	DatabaseURL string
	JWTSecret   string
	NATSURL     string
	HTTP        HTTPConfig
	Comments    CommentsConfig
}

// Production reports whether the service runs with production guarantees
// (no in-memory store fallback).
func (c AppConfig) Production() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: getenv("SERVICE_NAME"),
		AppEnv:      getenv("APP_ENV"),
		LogLevel:    getenv("LOG_LEVEL"),
		DatabaseURL: getenv("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET"),
		NATSURL:     getenv("NATS_URL"),
		HTTP: HTTPConfig{
			Addr: getenv("HTTP_ADDR"),
		},
		Comments: CommentsConfig{
			DefaultLimit: envInt("COMMENTS_DEFAULT_LIMIT", 20),
			MaxDepth:     envInt("COMMENTS_MAX_DEPTH", 64),
		},
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if cfg.JWTSecret == "" {
		return AppConfig{}, errors.New("JWT_SECRET is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envInt(key string, fallback int) int {
	v := getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
