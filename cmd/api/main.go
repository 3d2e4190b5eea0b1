package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/yt-dashboard/internal/api"
	"github.com/yt-dashboard/internal/config"
	"github.com/yt-dashboard/internal/models"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := models.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	server := api.NewServer(cfg, db)

	log.Printf("Server starting on port %s (refresh every %s)", cfg.Port, cfg.RefreshInterval)
	if err := server.Start(cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
