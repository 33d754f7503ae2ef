package main

import (
	"log/slog"
	"os"

	"chatrelay/internal/config"
	"chatrelay/internal/database"
	"chatrelay/internal/logging"
	"chatrelay/internal/server"
)

func main() {
	logging.New()

	cfg, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	s, err := server.New(cfg, db)
	if err != nil {
		slog.Error("Failed to assemble server", "error", err)
		os.Exit(1)
	}

	s.RegisterRoutes()
	s.Start()
}
