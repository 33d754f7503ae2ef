package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `validate:"required"`
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `validate:"required"`
	// SessionSecret signs the session cookie. Must never be empty.
	SessionSecret string `validate:"required,min=16"`
	// HistoryLimit bounds the number of messages replayed on connect.
	HistoryLimit int `validate:"gt=0"`
	// BcryptCost is the work factor for password hashing.
	BcryptCost int `validate:"gte=4,lte=31"`
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Addr:          envOr("CHATRELAY_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		HistoryLimit:  envIntOr("CHAT_HISTORY_LIMIT", 50),
		BcryptCost:    envIntOr("BCRYPT_COST", 10),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring non-numeric value for %s: %q", key, v)
		return fallback
	}
	return n
}
