package main

import (
	"huertohogar_api/internal/config" // Custom import path (Config)
	"huertohogar_api/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run schema migration
}
